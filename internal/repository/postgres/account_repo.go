package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

// AccountRepository implements domain.AccountRepository using PostgreSQL
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, user_id, name, account_type, initial_balance, currency, created_at, updated_at`

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (user_id, name, account_type, initial_balance, currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + accountColumns

	row := r.pool.QueryRow(ctx, query,
		account.UserID,
		account.Name,
		account.AccountType,
		account.InitialBalance,
		account.Currency,
	)
	return scanAccount(row)
}

// GetByID retrieves an account scoped to the user
func (r *AccountRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// GetByUser returns the user's accounts
func (r *AccountRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	return out, rows.Err()
}

// Update replaces a stored account
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := `
		UPDATE accounts
		SET name = $1, account_type = $2, initial_balance = $3, currency = $4, updated_at = now()
		WHERE id = $5 AND user_id = $6
		RETURNING ` + accountColumns

	row := r.pool.QueryRow(ctx, query,
		account.Name,
		account.AccountType,
		account.InitialBalance,
		account.Currency,
		account.ID,
		account.UserID,
	)
	updated, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes an account
func (r *AccountRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Name,
		&a.AccountType,
		&a.InitialBalance,
		&a.Currency,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
