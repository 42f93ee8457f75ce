package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, name, type, icon, color, scope, owner_id`

// Create inserts a new category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `
		INSERT INTO categories (name, type, icon, color, scope, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + categoryColumns

	row := r.pool.QueryRow(ctx, query,
		category.Name,
		category.Type,
		category.Icon,
		category.Color,
		category.Scope,
		category.OwnerID,
	)
	return scanCategory(row)
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	category, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetByName retrieves a category by exact name. Used to resolve the
// reserved Uncategorized category at startup.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name = $1 AND scope = $2`

	category, err := scanCategory(r.pool.QueryRow(ctx, query, name, domain.ScopeSystem))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetVisible returns system categories plus the user's own
func (r *CategoryRepository) GetVisible(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumns + `
		FROM categories
		WHERE scope = $1 OR owner_id = $2
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, domain.ScopeSystem, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, category)
	}
	return out, rows.Err()
}

// Update replaces a user-owned category. System categories are read-only.
func (r *CategoryRepository) Update(ctx context.Context, userID uuid.UUID, category *domain.Category) (*domain.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, type = $2, icon = $3, color = $4
		WHERE id = $5 AND scope = $6 AND owner_id = $7
		RETURNING ` + categoryColumns

	row := r.pool.QueryRow(ctx, query,
		category.Name,
		category.Type,
		category.Icon,
		category.Color,
		category.ID,
		domain.ScopeUser,
		userID,
	)
	updated, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a user-owned category
func (r *CategoryRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM categories WHERE id = $1 AND scope = $2 AND owner_id = $3`,
		id, domain.ScopeUser, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Type,
		&c.Icon,
		&c.Color,
		&c.Scope,
		&c.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
