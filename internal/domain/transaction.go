package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionDirection string

const (
	DirectionIncome   TransactionDirection = "income"
	DirectionExpense  TransactionDirection = "expense"
	DirectionTransfer TransactionDirection = "transfer"
)

// Valid reports whether d is one of the known directions.
func (d TransactionDirection) Valid() bool {
	switch d {
	case DirectionIncome, DirectionExpense, DirectionTransfer:
		return true
	}
	return false
}

// Transaction is a finalized money movement. Amount is always the unsigned
// magnitude; Direction carries the sign semantics.
type Transaction struct {
	ID          int32                `json:"id"`
	UserID      uuid.UUID            `json:"userId"`
	AccountID   int32                `json:"accountId"`
	Description string               `json:"description"`
	Amount      decimal.Decimal      `json:"amount"`
	Direction   TransactionDirection `json:"direction"`
	Locale      string               `json:"locale"`
	Date        time.Time            `json:"date"`
	CategoryID  *int32               `json:"categoryId,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

type TransactionFilters struct {
	AccountID  *int32
	CategoryID *int32
	Direction  *TransactionDirection
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int32
	PageSize   int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Transaction, error)
	GetByUser(ctx context.Context, userID uuid.UUID, filters *TransactionFilters) (*PaginatedTransactions, error)
	GetByDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*Transaction, error)
	Update(ctx context.Context, transaction *Transaction) (*Transaction, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
}
