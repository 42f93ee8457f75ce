package engine

import (
	"testing"
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateBudgetProgress_SumsMatchingExpenses(t *testing.T) {
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	budget := &domain.Budget{
		ID:         1,
		CategoryID: 2,
		Amount:     decimal.NewFromInt(100),
		Period:     domain.PeriodMonthly,
		StartDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	txs := []*domain.Transaction{
		expenseTx(2, 30, 5),
		expenseTx(2, 25, 10),
		expenseTx(9, 500, 10), // different category
		expenseTx(2, 40, 28),  // after now
	}
	txs[3].Date = time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC)

	progress := CalculateBudgetProgress(budget, txs, now)

	assert.True(t, progress.Spent.Equal(decimal.NewFromInt(55)), "spent = %s", progress.Spent)
	assert.True(t, progress.Remaining.Equal(decimal.NewFromInt(45)))
	assert.InDelta(t, 55.0, progress.Percentage, 1e-9)
}

func TestCalculateBudgetProgress_IgnoresIncomeAndUncategorized(t *testing.T) {
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	budget := &domain.Budget{
		CategoryID: 2,
		Amount:     decimal.NewFromInt(100),
		StartDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	catID := int32(2)
	txs := []*domain.Transaction{
		{Direction: domain.DirectionIncome, CategoryID: &catID, Amount: decimal.NewFromInt(50), Date: now},
		{Direction: domain.DirectionExpense, CategoryID: nil, Amount: decimal.NewFromInt(50), Date: now},
	}

	progress := CalculateBudgetProgress(budget, txs, now)

	assert.True(t, progress.Spent.IsZero())
}

func TestCalculateBudgetProgress_OverspendGoesNegative(t *testing.T) {
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	budget := &domain.Budget{
		CategoryID: 2,
		Amount:     decimal.NewFromInt(100),
		StartDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	progress := CalculateBudgetProgress(budget, []*domain.Transaction{expenseTx(2, 150, 5)}, now)

	assert.True(t, progress.Remaining.Equal(decimal.NewFromInt(-50)), "remaining = %s", progress.Remaining)
	assert.InDelta(t, 150.0, progress.Percentage, 1e-9)
}

func TestCalculateBudgetProgress_ZeroAmountNeverDivides(t *testing.T) {
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	budget := &domain.Budget{
		CategoryID: 2,
		Amount:     decimal.Zero,
		StartDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	progress := CalculateBudgetProgress(budget, []*domain.Transaction{expenseTx(2, 10, 5)}, now)

	assert.Zero(t, progress.Percentage)
}

func TestCalculateGoalProgress(t *testing.T) {
	goal := &domain.Goal{
		ID:            1,
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(250),
	}

	progress := CalculateGoalProgress(goal)

	assert.InDelta(t, 25.0, progress.Percentage, 1e-9)
	assert.True(t, progress.Remaining.Equal(decimal.NewFromInt(750)))
}

func TestCalculateGoalProgress_ClampsAtHundred(t *testing.T) {
	goal := &domain.Goal{
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(1200),
	}

	progress := CalculateGoalProgress(goal)

	assert.Equal(t, 100.0, progress.Percentage)
}

func TestCalculateGoalProgress_ZeroTarget(t *testing.T) {
	goal := &domain.Goal{
		TargetAmount:  decimal.Zero,
		CurrentAmount: decimal.NewFromInt(10),
	}

	progress := CalculateGoalProgress(goal)

	assert.Zero(t, progress.Percentage)
}
