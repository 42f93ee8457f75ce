package domain

import (
	"context"

	"github.com/google/uuid"
)

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

type CategoryScope string

const (
	// ScopeSystem categories are shared and read-only to users.
	ScopeSystem CategoryScope = "system"
	// ScopeUser categories are private and mutable by their owner.
	ScopeUser CategoryScope = "user"
)

// UncategorizedName is the reserved system category assigned when
// classification cannot resolve anything better.
const UncategorizedName = "Uncategorized"

type Category struct {
	ID        int32         `json:"id"`
	Name      string        `json:"name"`
	Type      CategoryType  `json:"type"`
	Icon      string        `json:"icon,omitempty"`
	Color     string        `json:"color,omitempty"`
	Scope     CategoryScope `json:"scope"`
	OwnerID   *uuid.UUID    `json:"ownerId,omitempty"`
}

// MatchesDirection reports whether a transaction with the given direction may
// hold this category. Transfers carry no category type constraint.
func (c *Category) MatchesDirection(direction TransactionDirection) bool {
	switch direction {
	case DirectionIncome:
		return c.Type == CategoryTypeIncome
	case DirectionExpense:
		return c.Type == CategoryTypeExpense
	}
	return true
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, id int32) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	// GetVisible returns system categories plus the user's own categories.
	GetVisible(ctx context.Context, userID uuid.UUID) ([]*Category, error)
	Update(ctx context.Context, userID uuid.UUID, category *Category) (*Category, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
}
