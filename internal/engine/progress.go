package engine

import (
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculateBudgetProgress sums the expense transactions that fall inside
// the budget's window and category, then reports spent, remaining and
// percentage. Remaining may go negative; that is the overspend signal and
// is deliberately not clamped.
func CalculateBudgetProgress(budget *domain.Budget, txs []*domain.Transaction, now time.Time) *domain.BudgetProgress {
	end := now
	if budget.EndDate != nil {
		end = *budget.EndDate
	}

	spent := decimal.Zero
	for _, tx := range txs {
		if tx.Direction != domain.DirectionExpense {
			continue
		}
		if tx.CategoryID == nil || *tx.CategoryID != budget.CategoryID {
			continue
		}
		if tx.Date.Before(budget.StartDate) || tx.Date.After(end) {
			continue
		}
		spent = spent.Add(tx.Amount.Abs())
	}

	percentage := 0.0
	if budget.Amount.IsPositive() {
		percentage = spent.Div(budget.Amount).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return &domain.BudgetProgress{
		BudgetID:   budget.ID,
		CategoryID: budget.CategoryID,
		Amount:     budget.Amount,
		Spent:      spent,
		Remaining:  budget.Amount.Sub(spent),
		Percentage: percentage,
	}
}

// CalculateGoalProgress reports a goal's completion. Percentage clamps at
// 100. Remaining is target minus current as-is; contributions cannot exceed
// the target by construction, and the calculator only reports.
func CalculateGoalProgress(goal *domain.Goal) *domain.GoalProgress {
	return &domain.GoalProgress{
		GoalID:     goal.ID,
		Percentage: goalPercent(goal.CurrentAmount, goal.TargetAmount),
		Remaining:  goal.TargetAmount.Sub(goal.CurrentAmount),
	}
}
