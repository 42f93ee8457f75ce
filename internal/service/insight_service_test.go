package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/engine"
	"github.com/mintleaf/mintleaf-backend/internal/i18n"
	"github.com/mintleaf/mintleaf-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newInsightService() (*InsightService, *testutil.MockTransactionRepository, *testutil.MockBudgetRepository, *testutil.MockGoalRepository, *testutil.MockCategoryRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	goalRepo := testutil.NewMockGoalRepository()
	categoryRepo := testutil.NewMockCategoryRepository()

	resolver := engine.NewLocaleResolver("en-US")
	generator := engine.NewGenerator(resolver, i18n.New(resolver), engine.InsightConfig{
		TrendThreshold:    20,
		TrendWarning:      50,
		OverspendCritical: 150,
		AnomalyMultiple:   3,
	})

	svc := NewInsightService(transactionRepo, budgetRepo, goalRepo, categoryRepo, generator)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc, transactionRepo, budgetRepo, goalRepo, categoryRepo
}

func seedExpense(repo *testutil.MockTransactionRepository, userID uuid.UUID, categoryID int32, amount float64, date time.Time) {
	id := categoryID
	repo.AddTransaction(&domain.Transaction{
		UserID:      userID,
		AccountID:   1,
		Description: "seeded",
		Amount:      decimal.NewFromFloat(amount),
		Direction:   domain.DirectionExpense,
		Date:        date,
		CategoryID:  &id,
	})
}

func TestGetInsights_OverspendAgainstBudget(t *testing.T) {
	svc, transactionRepo, budgetRepo, _, categoryRepo := newInsightService()

	userID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{ID: 2, Name: "Groceries", Type: domain.CategoryTypeExpense, Scope: domain.ScopeSystem})
	budgetRepo.AddBudget(&domain.Budget{
		ID: 1, UserID: userID, CategoryID: 2,
		Amount: decimal.NewFromInt(100), Period: domain.PeriodMonthly,
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	seedExpense(transactionRepo, userID, 2, 120, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	insights, err := svc.GetInsights(context.Background(), userID, domain.PeriodMonthly, "en-US")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(insights) != 1 {
		t.Fatalf("Expected 1 insight, got %d", len(insights))
	}
	if insights[0].Kind != domain.InsightCategoryOverspend {
		t.Errorf("Expected overspend insight, got %s", insights[0].Kind)
	}
	if insights[0].Severity != domain.SeverityWarning {
		t.Errorf("Expected warning severity at 120%%, got %s", insights[0].Severity)
	}
}

func TestGetInsights_TrendAcrossPeriods(t *testing.T) {
	svc, transactionRepo, _, _, categoryRepo := newInsightService()

	userID := uuid.New()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Dining", Type: domain.CategoryTypeExpense, Scope: domain.ScopeSystem})
	// Previous month: 100, current month: 150.
	seedExpense(transactionRepo, userID, 1, 100, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC))
	seedExpense(transactionRepo, userID, 1, 150, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	insights, err := svc.GetInsights(context.Background(), userID, domain.PeriodMonthly, "en-US")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(insights) != 1 {
		t.Fatalf("Expected 1 insight, got %d", len(insights))
	}
	if insights[0].Kind != domain.InsightTrendUp {
		t.Errorf("Expected trend up, got %s", insights[0].Kind)
	}
}

func TestGetInsights_MilestoneFromContributions(t *testing.T) {
	svc, _, _, goalRepo, _ := newInsightService()

	userID := uuid.New()
	goalRepo.AddGoal(&domain.Goal{
		ID: 1, UserID: userID, Name: "Vacation",
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(240),
	})
	// Contribution lands inside the current period, pushing 240 -> 250.
	if _, err := goalRepo.AddContribution(context.Background(), userID, 1, decimal.NewFromInt(10)); err != nil {
		t.Fatalf("AddContribution: %v", err)
	}

	insights, err := svc.GetInsights(context.Background(), userID, domain.PeriodMonthly, "en-US")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(insights) != 1 {
		t.Fatalf("Expected 1 insight, got %d", len(insights))
	}
	if insights[0].Kind != domain.InsightMilestone {
		t.Errorf("Expected milestone, got %s", insights[0].Kind)
	}
	if !insights[0].Metric.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected 25%% milestone, got %s", insights[0].Metric)
	}
}

func TestGetInsights_EmptyPeriodsYieldNothing(t *testing.T) {
	svc, _, _, _, _ := newInsightService()

	insights, err := svc.GetInsights(context.Background(), uuid.New(), domain.PeriodMonthly, "en-US")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(insights) != 0 {
		t.Errorf("Expected no insights, got %d", len(insights))
	}
}

func TestGetInsights_InvalidPeriodDefaultsToMonthly(t *testing.T) {
	svc, transactionRepo, _, _, _ := newInsightService()

	userID := uuid.New()
	seedExpense(transactionRepo, userID, 1, 100, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC))
	seedExpense(transactionRepo, userID, 1, 150, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	insights, err := svc.GetInsights(context.Background(), userID, "quarterly", "en-US")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(insights) != 1 {
		t.Errorf("Expected monthly comparison to fire, got %d insights", len(insights))
	}
}
