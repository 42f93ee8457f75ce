// Package postgres implements the domain repository interfaces on
// PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, account_id, description, amount, direction, locale, date, category_id, created_at, updated_at`

// Create inserts a new transaction
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, account_id, description, amount, direction, locale, date, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + transactionColumns

	row := r.pool.QueryRow(ctx, query,
		transaction.UserID,
		transaction.AccountID,
		transaction.Description,
		transaction.Amount,
		transaction.Direction,
		transaction.Locale,
		transaction.Date,
		transaction.CategoryID,
	)
	return scanTransaction(row)
}

// GetByID retrieves a transaction scoped to the user
func (r *TransactionRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`

	transaction, err := scanTransaction(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// GetByUser returns the user's transactions with filters and pagination
func (r *TransactionRepository) GetByUser(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	where := "WHERE user_id = $1"
	args := []interface{}{userID}

	appendFilter := func(clause string, value interface{}) {
		args = append(args, value)
		where += fmt.Sprintf(" AND %s $%d", clause, len(args))
	}
	if filters.AccountID != nil {
		appendFilter("account_id =", *filters.AccountID)
	}
	if filters.CategoryID != nil {
		appendFilter("category_id =", *filters.CategoryID)
	}
	if filters.Direction != nil {
		appendFilter("direction =", *filters.Direction)
	}
	if filters.StartDate != nil {
		appendFilter("date >=", *filters.StartDate)
	}
	if filters.EndDate != nil {
		appendFilter("date <=", *filters.EndDate)
	}

	var totalItems int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM transactions "+where, args...).Scan(&totalItems); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM transactions %s ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d",
		transactionColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int32((totalItems + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	return &domain.PaginatedTransactions{
		Data:       transactions,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// GetByDateRange returns the user's transactions with dates in [start, end)
func (r *TransactionRepository) GetByDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date, id`

	rows, err := r.pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Update replaces a stored transaction
func (r *TransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	query := `
		UPDATE transactions
		SET account_id = $1, description = $2, amount = $3, direction = $4, locale = $5, date = $6, category_id = $7, updated_at = now()
		WHERE id = $8 AND user_id = $9
		RETURNING ` + transactionColumns

	row := r.pool.QueryRow(ctx, query,
		transaction.AccountID,
		transaction.Description,
		transaction.Amount,
		transaction.Direction,
		transaction.Locale,
		transaction.Date,
		transaction.CategoryID,
		transaction.ID,
		transaction.UserID,
	)
	updated, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.AccountID,
		&t.Description,
		&t.Amount,
		&t.Direction,
		&t.Locale,
		&t.Date,
		&t.CategoryID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, transaction)
	}
	return out, rows.Err()
}
