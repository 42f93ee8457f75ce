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

// TransactionService handles transaction-related business logic, including
// the parse-then-categorize pipeline for free-text entry
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	accountRepo     domain.AccountRepository
	categoryRepo    domain.CategoryRepository
	parser          *engine.Parser
	categorizer     *engine.Categorizer
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	accountRepo domain.AccountRepository,
	categoryRepo domain.CategoryRepository,
	parser *engine.Parser,
	categorizer *engine.Categorizer,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
		parser:          parser,
		categorizer:     categorizer,
	}
}

// ParseText converts free text into a draft transaction without persisting
// anything. domain.ErrAmbiguousInput is returned verbatim when no amount is
// present.
func (s *TransactionService) ParseText(text, locale string) (*engine.DraftTransaction, error) {
	return s.parser.Parse(text, locale)
}

// Categorize resolves a category for a description. It never fails; the
// worst case is the default tier.
func (s *TransactionService) Categorize(ctx context.Context, userID uuid.UUID, description string, amount decimal.Decimal, locale string) domain.ClassificationResult {
	return s.categorizer.Categorize(ctx, userID, description, amount, locale)
}

// CreateFromText runs the full pipeline: parse, categorize, persist. When
// the draft needs review it is returned unpersisted and the transaction is
// nil; the caller must confirm with the user and call ConfirmDraft.
func (s *TransactionService) CreateFromText(ctx context.Context, userID uuid.UUID, accountID int32, text, locale string) (*domain.Transaction, *engine.DraftTransaction, error) {
	draft, err := s.parser.Parse(text, locale)
	if err != nil {
		return nil, nil, err
	}
	if draft.NeedsReview {
		return nil, draft, nil
	}
	tx, err := s.ConfirmDraft(ctx, userID, accountID, draft)
	if err != nil {
		return nil, draft, err
	}
	return tx, draft, nil
}

// ConfirmDraft categorizes and persists a draft the user has accepted.
func (s *TransactionService) ConfirmDraft(ctx context.Context, userID uuid.UUID, accountID int32, draft *engine.DraftTransaction) (*domain.Transaction, error) {
	if _, err := s.accountRepo.GetByID(ctx, userID, accountID); err != nil {
		return nil, domain.ErrAccountNotFound
	}

	var categoryID *int32
	result := s.categorizer.Categorize(ctx, userID, draft.Description, draft.Amount, draft.Locale)
	if result.CategoryID != nil {
		categoryID = s.validateCategoryForDirection(ctx, *result.CategoryID, draft.Direction)
	}

	return s.transactionRepo.Create(ctx, &domain.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		Description: draft.Description,
		Amount:      draft.Amount,
		Direction:   draft.Direction,
		Locale:      draft.Locale,
		Date:        draft.Date,
		CategoryID:  categoryID,
	})
}

// validateCategoryForDirection drops a category assignment whose type
// conflicts with the transaction direction. An expense must not end up in
// an income category.
func (s *TransactionService) validateCategoryForDirection(ctx context.Context, categoryID int32, direction domain.TransactionDirection) *int32 {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil || !category.MatchesDirection(direction) {
		return nil
	}
	return &categoryID
}

// CreateTransactionInput holds the input for direct transaction entry
type CreateTransactionInput struct {
	AccountID   int32
	Description string
	Amount      decimal.Decimal
	Direction   domain.TransactionDirection
	Date        *time.Time
	CategoryID  *int32
	Locale      string
}

// CreateTransaction creates a transaction from structured input with
// validation. A missing category is resolved through the categorizer.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrNameRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrNameTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if !input.Direction.Valid() {
		return nil, domain.ErrInvalidDirection
	}

	if _, err := s.accountRepo.GetByID(ctx, userID, input.AccountID); err != nil {
		return nil, domain.ErrAccountNotFound
	}

	// Default the date to today if not provided
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	var categoryID *int32
	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, domain.ErrCategoryNotFound
		}
		if !category.MatchesDirection(input.Direction) {
			return nil, domain.ErrCategoryMismatch
		}
		categoryID = input.CategoryID
	} else {
		result := s.categorizer.Categorize(ctx, userID, engine.NormalizeDescription(description), input.Amount, input.Locale)
		if result.CategoryID != nil {
			categoryID = s.validateCategoryForDirection(ctx, *result.CategoryID, input.Direction)
		}
	}

	return s.transactionRepo.Create(ctx, &domain.Transaction{
		UserID:      userID,
		AccountID:   input.AccountID,
		Description: description,
		Amount:      input.Amount,
		Direction:   input.Direction,
		Locale:      input.Locale,
		Date:        date,
		CategoryID:  categoryID,
	})
}

// GetTransaction retrieves a single transaction
func (s *TransactionService) GetTransaction(ctx context.Context, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, userID, id)
}

// ListTransactions returns the user's transactions with filters applied
func (s *TransactionService) ListTransactions(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = domain.DefaultPageSize
	}
	if filters.PageSize > domain.MaxPageSize {
		filters.PageSize = domain.MaxPageSize
	}
	return s.transactionRepo.GetByUser(ctx, userID, filters)
}

// DeleteTransaction removes a transaction
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID uuid.UUID, id int32) error {
	return s.transactionRepo.Delete(ctx, userID, id)
}
