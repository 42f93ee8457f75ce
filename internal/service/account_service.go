package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountService handles account-related business logic
type AccountService struct {
	accountRepo domain.AccountRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo domain.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// CreateAccountInput holds the input for creating an account
type CreateAccountInput struct {
	Name           string
	AccountType    domain.AccountType
	InitialBalance decimal.Decimal
	Currency       string
}

// CreateAccount creates a new account with validation
func (s *AccountService) CreateAccount(ctx context.Context, userID uuid.UUID, input CreateAccountInput) (*domain.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxAccountNameLength {
		return nil, domain.ErrNameTooLong
	}

	accountType := input.AccountType
	if accountType == "" {
		accountType = domain.AccountTypeChecking
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "USD"
	}

	return s.accountRepo.Create(ctx, &domain.Account{
		UserID:         userID,
		Name:           name,
		AccountType:    accountType,
		InitialBalance: input.InitialBalance,
		Currency:       currency,
	})
}

// GetAccount retrieves a single account
func (s *AccountService) GetAccount(ctx context.Context, userID uuid.UUID, id int32) (*domain.Account, error) {
	return s.accountRepo.GetByID(ctx, userID, id)
}

// ListAccounts returns the user's accounts
func (s *AccountService) ListAccounts(ctx context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	return s.accountRepo.GetByUser(ctx, userID)
}

// DeleteAccount removes an account
func (s *AccountService) DeleteAccount(ctx context.Context, userID uuid.UUID, id int32) error {
	return s.accountRepo.Delete(ctx, userID, id)
}
