package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/engine"
	"github.com/mintleaf/mintleaf-backend/internal/util"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// InsightService loads the two comparison periods and feeds them to the
// insight generator. The generator itself is pure; all I/O happens here.
type InsightService struct {
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
	goalRepo        domain.GoalRepository
	categoryRepo    domain.CategoryRepository
	generator       *engine.Generator
	now             func() time.Time
}

// NewInsightService creates a new InsightService
func NewInsightService(
	transactionRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	goalRepo domain.GoalRepository,
	categoryRepo domain.CategoryRepository,
	generator *engine.Generator,
) *InsightService {
	return &InsightService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		goalRepo:        goalRepo,
		categoryRepo:    categoryRepo,
		generator:       generator,
		now:             time.Now,
	}
}

// GetInsights generates insights comparing the current period against the
// previous one. An invalid period defaults to monthly.
func (s *InsightService) GetInsights(ctx context.Context, userID uuid.UUID, period domain.BudgetPeriod, locale string) ([]*domain.Insight, error) {
	if !period.Valid() {
		period = domain.PeriodMonthly
	}
	now := s.now().UTC()
	current := util.CurrentWindow(period, now)
	previous := util.PreviousWindow(period, now)

	var (
		currentTxs    []*domain.Transaction
		previousTxs   []*domain.Transaction
		budgets       []*domain.Budget
		goals         []*domain.Goal
		categories    []*domain.Category
		contributions []*domain.GoalContribution
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		currentTxs, err = s.transactionRepo.GetByDateRange(gctx, userID, current.Start, current.End)
		return err
	})
	g.Go(func() error {
		var err error
		previousTxs, err = s.transactionRepo.GetByDateRange(gctx, userID, previous.Start, previous.End)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgetRepo.GetByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.goalRepo.GetByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.categoryRepo.GetVisible(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		contributions, err = s.goalRepo.GetContributionsSince(gctx, userID, current.Start)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[int32]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	return s.generator.Generate(engine.InsightInput{
		Current:       currentTxs,
		Previous:      previousTxs,
		Budgets:       budgets,
		Goals:         goalSnapshots(goals, contributions),
		CategoryNames: names,
		Locale:        locale,
	}), nil
}

// goalSnapshots reconstructs each goal's amount at the start of the current
// period by subtracting the contributions made since then.
func goalSnapshots(goals []*domain.Goal, contributions []*domain.GoalContribution) []*domain.GoalSnapshot {
	contributed := make(map[int32]decimal.Decimal)
	for _, c := range contributions {
		contributed[c.GoalID] = contributed[c.GoalID].Add(c.Amount)
	}

	snapshots := make([]*domain.GoalSnapshot, 0, len(goals))
	for _, goal := range goals {
		snapshots = append(snapshots, &domain.GoalSnapshot{
			Goal:           goal,
			PreviousAmount: goal.CurrentAmount.Sub(contributed[goal.ID]),
		})
	}
	return snapshots
}
