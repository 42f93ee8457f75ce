package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestCreateGoal_Validation(t *testing.T) {
	svc := NewGoalService(testutil.NewMockGoalRepository())

	if _, err := svc.CreateGoal(context.Background(), uuid.New(), CreateGoalInput{
		Name: "  ", TargetAmount: decimal.NewFromInt(100),
	}); !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}

	if _, err := svc.CreateGoal(context.Background(), uuid.New(), CreateGoalInput{
		Name: strings.Repeat("x", domain.MaxGoalNameLength+1), TargetAmount: decimal.NewFromInt(100),
	}); !errors.Is(err, domain.ErrNameTooLong) {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}

	if _, err := svc.CreateGoal(context.Background(), uuid.New(), CreateGoalInput{
		Name: "Vacation", TargetAmount: decimal.Zero,
	}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateGoal_StartsAtZero(t *testing.T) {
	svc := NewGoalService(testutil.NewMockGoalRepository())

	goal, err := svc.CreateGoal(context.Background(), uuid.New(), CreateGoalInput{
		Name: "  Vacation  ", TargetAmount: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if goal.Name != "Vacation" {
		t.Errorf("Expected trimmed name, got %q", goal.Name)
	}
	if !goal.CurrentAmount.IsZero() {
		t.Errorf("Expected zero current amount, got %s", goal.CurrentAmount)
	}
}

func TestContribute_MovesCurrentAmount(t *testing.T) {
	goalRepo := testutil.NewMockGoalRepository()
	svc := NewGoalService(goalRepo)

	userID := uuid.New()
	goalRepo.AddGoal(&domain.Goal{
		ID: 1, UserID: userID, Name: "Vacation",
		TargetAmount: decimal.NewFromInt(1000), CurrentAmount: decimal.NewFromInt(200),
	})

	goal, err := svc.Contribute(context.Background(), userID, 1, decimal.NewFromInt(50))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !goal.CurrentAmount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected current amount 250, got %s", goal.CurrentAmount)
	}
	if len(goalRepo.Contributions) != 1 {
		t.Errorf("Expected 1 recorded contribution, got %d", len(goalRepo.Contributions))
	}
}

func TestContribute_RejectsNonPositiveAmounts(t *testing.T) {
	goalRepo := testutil.NewMockGoalRepository()
	svc := NewGoalService(goalRepo)

	userID := uuid.New()
	goalRepo.AddGoal(&domain.Goal{
		ID: 1, UserID: userID, Name: "Vacation",
		TargetAmount: decimal.NewFromInt(1000), CurrentAmount: decimal.NewFromInt(200),
	})

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		if _, err := svc.Contribute(context.Background(), userID, 1, amount); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("Contribute(%s): expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if len(goalRepo.Contributions) != 0 {
		t.Errorf("Expected no recorded contributions, got %d", len(goalRepo.Contributions))
	}
}

func TestGoalGetProgress(t *testing.T) {
	goalRepo := testutil.NewMockGoalRepository()
	svc := NewGoalService(goalRepo)

	userID := uuid.New()
	goalRepo.AddGoal(&domain.Goal{
		ID: 1, UserID: userID, Name: "Vacation",
		TargetAmount: decimal.NewFromInt(1000), CurrentAmount: decimal.NewFromInt(250),
	})

	progress, err := svc.GetProgress(context.Background(), userID, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if progress.Percentage != 25.0 {
		t.Errorf("Expected 25%%, got %f", progress.Percentage)
	}
	if !progress.Remaining.Equal(decimal.NewFromInt(750)) {
		t.Errorf("Expected remaining 750, got %s", progress.Remaining)
	}
}

func TestGoalGetProgress_WrongUser(t *testing.T) {
	goalRepo := testutil.NewMockGoalRepository()
	svc := NewGoalService(goalRepo)

	goalRepo.AddGoal(&domain.Goal{
		ID: 1, UserID: uuid.New(), Name: "Vacation",
		TargetAmount: decimal.NewFromInt(1000),
	})

	if _, err := svc.GetProgress(context.Background(), uuid.New(), 1); !errors.Is(err, domain.ErrGoalNotFound) {
		t.Fatalf("Expected ErrGoalNotFound, got %v", err)
	}
}
