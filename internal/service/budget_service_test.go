package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newBudgetService() (*BudgetService, *testutil.MockBudgetRepository, *testutil.MockCategoryRepository, *testutil.MockTransactionRepository) {
	budgetRepo := testutil.NewMockBudgetRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewBudgetService(budgetRepo, categoryRepo, transactionRepo)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc, budgetRepo, categoryRepo, transactionRepo
}

func TestCreateBudget_Success(t *testing.T) {
	svc, _, categoryRepo, _ := newBudgetService()
	categoryRepo.AddCategory(&domain.Category{ID: 2, Name: "Groceries", Type: domain.CategoryTypeExpense, Scope: domain.ScopeSystem})

	budget, err := svc.CreateBudget(context.Background(), uuid.New(), CreateBudgetInput{
		CategoryID: 2,
		Amount:     decimal.NewFromInt(300),
		Period:     domain.PeriodMonthly,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if budget.Period != domain.PeriodMonthly {
		t.Errorf("Expected monthly period, got %s", budget.Period)
	}
	if budget.StartDate.IsZero() {
		t.Error("Expected start date to default to today")
	}
}

func TestCreateBudget_Validation(t *testing.T) {
	svc, _, categoryRepo, _ := newBudgetService()
	categoryRepo.AddCategory(&domain.Category{ID: 2, Name: "Groceries", Type: domain.CategoryTypeExpense, Scope: domain.ScopeSystem})

	if _, err := svc.CreateBudget(context.Background(), uuid.New(), CreateBudgetInput{
		CategoryID: 2, Amount: decimal.Zero, Period: domain.PeriodMonthly,
	}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}

	if _, err := svc.CreateBudget(context.Background(), uuid.New(), CreateBudgetInput{
		CategoryID: 2, Amount: decimal.NewFromInt(100), Period: "daily",
	}); !errors.Is(err, domain.ErrInvalidPeriod) {
		t.Errorf("Expected ErrInvalidPeriod, got %v", err)
	}

	if _, err := svc.CreateBudget(context.Background(), uuid.New(), CreateBudgetInput{
		CategoryID: 99, Amount: decimal.NewFromInt(100), Period: domain.PeriodMonthly,
	}); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestGetProgress_ComputesSpentAndRemaining(t *testing.T) {
	svc, budgetRepo, _, transactionRepo := newBudgetService()

	userID := uuid.New()
	budgetRepo.AddBudget(&domain.Budget{
		ID: 1, UserID: userID, CategoryID: 2,
		Amount: decimal.NewFromInt(100), Period: domain.PeriodMonthly,
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	seedExpense(transactionRepo, userID, 2, 30, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))
	seedExpense(transactionRepo, userID, 2, 25, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	seedExpense(transactionRepo, userID, 9, 500, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	progress, err := svc.GetProgress(context.Background(), userID, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !progress.Spent.Equal(decimal.NewFromInt(55)) {
		t.Errorf("Expected spent 55, got %s", progress.Spent)
	}
	if !progress.Remaining.Equal(decimal.NewFromInt(45)) {
		t.Errorf("Expected remaining 45, got %s", progress.Remaining)
	}
	if progress.Percentage != 55.0 {
		t.Errorf("Expected 55%%, got %f", progress.Percentage)
	}
}

func TestGetProgress_ZeroAmountBudget(t *testing.T) {
	svc, budgetRepo, _, transactionRepo := newBudgetService()

	userID := uuid.New()
	budgetRepo.AddBudget(&domain.Budget{
		ID: 1, UserID: userID, CategoryID: 2,
		Amount: decimal.Zero, Period: domain.PeriodMonthly,
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	seedExpense(transactionRepo, userID, 2, 30, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))

	progress, err := svc.GetProgress(context.Background(), userID, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if progress.Percentage != 0 {
		t.Errorf("Expected 0%% for zero-amount budget, got %f", progress.Percentage)
	}
}

func TestGetProgress_UnknownBudget(t *testing.T) {
	svc, _, _, _ := newBudgetService()

	_, err := svc.GetProgress(context.Background(), uuid.New(), 42)
	if !errors.Is(err, domain.ErrBudgetNotFound) {
		t.Fatalf("Expected ErrBudgetNotFound, got %v", err)
	}
}
