package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// GoalRepository implements domain.GoalRepository using PostgreSQL
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{pool: pool}
}

const goalColumns = `id, user_id, name, target_amount, current_amount, deadline, created_at, updated_at`

// Create inserts a new goal
func (r *GoalRepository) Create(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	query := `
		INSERT INTO goals (user_id, name, target_amount, current_amount, deadline)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + goalColumns

	row := r.pool.QueryRow(ctx, query,
		goal.UserID,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Deadline,
	)
	return scanGoal(row)
}

// GetByID retrieves a goal scoped to the user
func (r *GoalRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2`

	goal, err := scanGoal(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

// GetByUser returns the user's goals
func (r *GoalRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, goal)
	}
	return out, rows.Err()
}

// AddContribution increases the goal's current amount and records the
// contribution in one transaction, keeping the amount monotonic.
func (r *GoalRepository) AddContribution(ctx context.Context, userID uuid.UUID, id int32, amount decimal.Decimal) (*domain.Goal, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE goals
		SET current_amount = current_amount + $1, updated_at = now()
		WHERE id = $2 AND user_id = $3
		RETURNING ` + goalColumns

	goal, err := scanGoal(tx.QueryRow(ctx, query, amount, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO goal_contributions (goal_id, amount) VALUES ($1, $2)`,
		id, amount,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return goal, nil
}

// GetContributionsSince returns the user's contributions recorded on or
// after since, across all goals
func (r *GoalRepository) GetContributionsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.GoalContribution, error) {
	query := `
		SELECT c.id, c.goal_id, c.amount, c.created_at
		FROM goal_contributions c
		JOIN goals g ON g.id = c.goal_id
		WHERE g.user_id = $1 AND c.created_at >= $2
		ORDER BY c.id`

	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.GoalContribution
	for rows.Next() {
		var c domain.GoalContribution
		if err := rows.Scan(&c.ID, &c.GoalID, &c.Amount, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// Update replaces a stored goal
func (r *GoalRepository) Update(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	query := `
		UPDATE goals
		SET name = $1, target_amount = $2, deadline = $3, updated_at = now()
		WHERE id = $4 AND user_id = $5
		RETURNING ` + goalColumns

	row := r.pool.QueryRow(ctx, query,
		goal.Name,
		goal.TargetAmount,
		goal.Deadline,
		goal.ID,
		goal.UserID,
	)
	updated, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a goal and its contributions
func (r *GoalRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func scanGoal(row rowScanner) (*domain.Goal, error) {
	var g domain.Goal
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Name,
		&g.TargetAmount,
		&g.CurrentAmount,
		&g.Deadline,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
