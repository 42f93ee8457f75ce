package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/engine"
	"github.com/shopspring/decimal"
)

// GoalService handles savings goals and contributions
type GoalService struct {
	goalRepo domain.GoalRepository
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository) *GoalService {
	return &GoalService{goalRepo: goalRepo}
}

// CreateGoalInput holds the input for creating a goal
type CreateGoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	Deadline     *time.Time
}

// CreateGoal creates a new goal with validation
func (s *GoalService) CreateGoal(ctx context.Context, userID uuid.UUID, input CreateGoalInput) (*domain.Goal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxGoalNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	return s.goalRepo.Create(ctx, &domain.Goal{
		UserID:        userID,
		Name:          name,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      input.Deadline,
	})
}

// GetGoal retrieves a single goal
func (s *GoalService) GetGoal(ctx context.Context, userID uuid.UUID, id int32) (*domain.Goal, error) {
	return s.goalRepo.GetByID(ctx, userID, id)
}

// ListGoals returns the user's goals
func (s *GoalService) ListGoals(ctx context.Context, userID uuid.UUID) ([]*domain.Goal, error) {
	return s.goalRepo.GetByUser(ctx, userID)
}

// Contribute adds a positive amount to the goal. Contributions are the only
// way the current amount moves, which keeps it monotonically non-decreasing.
func (s *GoalService) Contribute(ctx context.Context, userID uuid.UUID, id int32, amount decimal.Decimal) (*domain.Goal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	return s.goalRepo.AddContribution(ctx, userID, id, amount)
}

// GetProgress reports percentage and remaining for one goal
func (s *GoalService) GetProgress(ctx context.Context, userID uuid.UUID, id int32) (*domain.GoalProgress, error) {
	goal, err := s.goalRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return engine.CalculateGoalProgress(goal), nil
}

// DeleteGoal removes a goal
func (s *GoalService) DeleteGoal(ctx context.Context, userID uuid.UUID, id int32) error {
	return s.goalRepo.Delete(ctx, userID, id)
}
