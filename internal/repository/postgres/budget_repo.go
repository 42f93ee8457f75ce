package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, category_id, amount, period, start_date, end_date, created_at, updated_at`

// Create inserts a new budget
func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	query := `
		INSERT INTO budgets (user_id, category_id, amount, period, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + budgetColumns

	row := r.pool.QueryRow(ctx, query,
		budget.UserID,
		budget.CategoryID,
		budget.Amount,
		budget.Period,
		budget.StartDate,
		budget.EndDate,
	)
	return scanBudget(row)
}

// GetByID retrieves a budget scoped to the user
func (r *BudgetRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1 AND user_id = $2`

	budget, err := scanBudget(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// GetByUser returns the user's budgets
func (r *BudgetRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, budget)
	}
	return out, rows.Err()
}

// Update replaces a stored budget
func (r *BudgetRepository) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	query := `
		UPDATE budgets
		SET category_id = $1, amount = $2, period = $3, start_date = $4, end_date = $5, updated_at = now()
		WHERE id = $6 AND user_id = $7
		RETURNING ` + budgetColumns

	row := r.pool.QueryRow(ctx, query,
		budget.CategoryID,
		budget.Amount,
		budget.Period,
		budget.StartDate,
		budget.EndDate,
		budget.ID,
		budget.UserID,
	)
	updated, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a budget
func (r *BudgetRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func scanBudget(row rowScanner) (*domain.Budget, error) {
	var b domain.Budget
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.CategoryID,
		&b.Amount,
		&b.Period,
		&b.StartDate,
		&b.EndDate,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
