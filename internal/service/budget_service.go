package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/engine"
	"github.com/shopspring/decimal"
)

// BudgetService handles budget definitions and their progress reports
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	categoryRepo    domain.CategoryRepository
	transactionRepo domain.TransactionRepository
	now             func() time.Time
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, categoryRepo domain.CategoryRepository, transactionRepo domain.TransactionRepository) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// CreateBudgetInput holds the input for creating a budget
type CreateBudgetInput struct {
	CategoryID int32
	Amount     decimal.Decimal
	Period     domain.BudgetPeriod
	StartDate  time.Time
	EndDate    *time.Time
}

// CreateBudget creates a new budget with validation
func (s *BudgetService) CreateBudget(ctx context.Context, userID uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Period.Valid() {
		return nil, domain.ErrInvalidPeriod
	}
	if _, err := s.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
		return nil, domain.ErrCategoryNotFound
	}

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = s.now().UTC().Truncate(24 * time.Hour)
	}

	return s.budgetRepo.Create(ctx, &domain.Budget{
		UserID:     userID,
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		Period:     input.Period,
		StartDate:  startDate,
		EndDate:    input.EndDate,
	})
}

// GetBudget retrieves a single budget
func (s *BudgetService) GetBudget(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	return s.budgetRepo.GetByID(ctx, userID, id)
}

// ListBudgets returns the user's budgets
func (s *BudgetService) ListBudgets(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	return s.budgetRepo.GetByUser(ctx, userID)
}

// GetProgress computes spent/remaining/percentage for one budget over
// [start date, end date or now]
func (s *BudgetService) GetProgress(ctx context.Context, userID uuid.UUID, id int32) (*domain.BudgetProgress, error) {
	budget, err := s.budgetRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	end := now
	if budget.EndDate != nil {
		end = *budget.EndDate
	}
	// The repository range is half-open; widen the end by a day so the
	// calculator's inclusive bound sees every transaction.
	txs, err := s.transactionRepo.GetByDateRange(ctx, userID, budget.StartDate, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return engine.CalculateBudgetProgress(budget, txs, now), nil
}

// DeleteBudget removes a budget
func (s *BudgetService) DeleteBudget(ctx context.Context, userID uuid.UUID, id int32) error {
	return s.budgetRepo.Delete(ctx, userID, id)
}
