package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Goal is a savings target. CurrentAmount only grows, via contributions.
type Goal struct {
	ID            int32           `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// GoalProgress is the calculator's report for one goal. Percentage clamps at
// 100 even if contributions overshoot the target.
type GoalProgress struct {
	GoalID     int32           `json:"goalId"`
	Percentage float64         `json:"percentage"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// GoalSnapshot pairs a goal with the amount it held before the current
// period, so milestone crossings can be detected.
type GoalSnapshot struct {
	Goal           *Goal
	PreviousAmount decimal.Decimal
}

// GoalContribution is one deposit toward a goal. Contributions are what
// makes CurrentAmount monotonically non-decreasing.
type GoalContribution struct {
	ID        int32           `json:"id"`
	GoalID    int32           `json:"goalId"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
}

type GoalRepository interface {
	Create(ctx context.Context, goal *Goal) (*Goal, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int32) (*Goal, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*Goal, error)
	// AddContribution atomically increases the goal's current amount and
	// records the contribution.
	AddContribution(ctx context.Context, userID uuid.UUID, id int32, amount decimal.Decimal) (*Goal, error)
	// GetContributionsSince returns the user's contributions recorded on or
	// after the given time, across all goals.
	GetContributionsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*GoalContribution, error)
	Update(ctx context.Context, goal *Goal) (*Goal, error)
	Delete(ctx context.Context, userID uuid.UUID, id int32) error
}
