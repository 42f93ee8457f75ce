package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

// CategoryRuleRepository implements domain.CategoryRuleRepository using PostgreSQL
type CategoryRuleRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRuleRepository creates a new CategoryRuleRepository
func NewCategoryRuleRepository(pool *pgxpool.Pool) *CategoryRuleRepository {
	return &CategoryRuleRepository{pool: pool}
}

const ruleColumns = `id, keyword, category_id, priority, locale, scope, owner_id`

// Create inserts a new rule
func (r *CategoryRuleRepository) Create(ctx context.Context, rule *domain.CategoryRule) (*domain.CategoryRule, error) {
	query := `
		INSERT INTO category_rules (keyword, category_id, priority, locale, scope, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + ruleColumns

	row := r.pool.QueryRow(ctx, query,
		rule.Keyword,
		rule.CategoryID,
		rule.Priority,
		rule.Locale,
		rule.Scope,
		rule.OwnerID,
	)
	return scanRule(row)
}

// GetActive returns the rules visible to the user for a locale, ordered for
// evaluation: user scope before system, then ascending priority, then id.
// Rules with an empty locale apply to every locale.
func (r *CategoryRuleRepository) GetActive(ctx context.Context, userID uuid.UUID, locale string) ([]*domain.CategoryRule, error) {
	query := `SELECT ` + ruleColumns + `
		FROM category_rules
		WHERE (scope = $1 OR owner_id = $2)
		  AND (locale = '' OR locale = $3)
		ORDER BY CASE scope WHEN $4 THEN 0 ELSE 1 END, priority, id`

	rows, err := r.pool.Query(ctx, query, domain.ScopeSystem, userID, locale, domain.ScopeUser)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.CategoryRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

// Delete removes a user-owned rule
func (r *CategoryRuleRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM category_rules WHERE id = $1 AND scope = $2 AND owner_id = $3`,
		id, domain.ScopeUser, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

func scanRule(row rowScanner) (*domain.CategoryRule, error) {
	var rule domain.CategoryRule
	err := row.Scan(
		&rule.ID,
		&rule.Keyword,
		&rule.CategoryID,
		&rule.Priority,
		&rule.Locale,
		&rule.Scope,
		&rule.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}
