package domain

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRule maps a keyword to a target category. Rules are evaluated in
// order: user rules before system rules, then ascending priority; the first
// match wins.
type CategoryRule struct {
	ID         int32         `json:"id"`
	Keyword    string        `json:"keyword"`
	CategoryID int32         `json:"categoryId"`
	Priority   int32         `json:"priority"`
	Locale     string        `json:"locale"`
	Scope      CategoryScope `json:"scope"`
	OwnerID    *uuid.UUID    `json:"ownerId,omitempty"`
}

type CategoryRuleRepository interface {
	Create(ctx context.Context, rule *CategoryRule) (*CategoryRule, error)
	// GetActive returns the rules visible to the user for a locale, already
	// ordered for evaluation (user scope first, then priority, then id).
	GetActive(ctx context.Context, userID uuid.UUID, locale string) ([]*CategoryRule, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
}
