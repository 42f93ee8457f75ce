// Package testutil provides hand-written mocks for the repository and
// classifier interfaces.
package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MockTransactionRepository is an in-memory domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	NextID       int32
	CreateErr    error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

// AddTransaction seeds a transaction into the mock
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	if tx.ID == 0 {
		tx.ID = m.NextID
	}
	if tx.ID >= m.NextID {
		m.NextID = tx.ID + 1
	}
	m.Transactions[tx.ID] = tx
}

// Create stores a new transaction
func (m *MockTransactionRepository) Create(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	tx.ID = m.NextID
	m.NextID++
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt
	m.Transactions[tx.ID] = tx
	return tx, nil
}

// GetByID retrieves a transaction by ID
func (m *MockTransactionRepository) GetByID(_ context.Context, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	tx, ok := m.Transactions[id]
	if !ok || tx.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return tx, nil
}

// GetByUser returns the user's transactions, paginated
func (m *MockTransactionRepository) GetByUser(_ context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	var all []*domain.Transaction
	for _, tx := range m.Transactions {
		if tx.UserID == userID {
			all = append(all, tx)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return &domain.PaginatedTransactions{
		Data:       all,
		Page:       1,
		PageSize:   int32(len(all)),
		TotalItems: int64(len(all)),
		TotalPages: 1,
	}, nil
}

// GetByDateRange returns transactions with dates in [start, end)
func (m *MockTransactionRepository) GetByDateRange(_ context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for _, tx := range m.Transactions {
		if tx.UserID != userID {
			continue
		}
		if tx.Date.Before(start) || !tx.Date.Before(end) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update replaces a stored transaction
func (m *MockTransactionRepository) Update(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if _, ok := m.Transactions[tx.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	tx.UpdatedAt = time.Now()
	m.Transactions[tx.ID] = tx
	return tx, nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(_ context.Context, userID uuid.UUID, id int32) error {
	tx, ok := m.Transactions[id]
	if !ok || tx.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// MockAccountRepository is an in-memory domain.AccountRepository
type MockAccountRepository struct {
	Accounts map[int32]*domain.Account
	NextID   int32
}

// NewMockAccountRepository creates a new MockAccountRepository
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[int32]*domain.Account),
		NextID:   1,
	}
}

// AddAccount seeds an account into the mock
func (m *MockAccountRepository) AddAccount(account *domain.Account) {
	if account.ID == 0 {
		account.ID = m.NextID
	}
	if account.ID >= m.NextID {
		m.NextID = account.ID + 1
	}
	m.Accounts[account.ID] = account
}

// Create stores a new account
func (m *MockAccountRepository) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	account.ID = m.NextID
	m.NextID++
	m.Accounts[account.ID] = account
	return account, nil
}

// GetByID retrieves an account by ID
func (m *MockAccountRepository) GetByID(_ context.Context, userID uuid.UUID, id int32) (*domain.Account, error) {
	account, ok := m.Accounts[id]
	if !ok || account.UserID != userID {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

// GetByUser returns the user's accounts
func (m *MockAccountRepository) GetByUser(_ context.Context, userID uuid.UUID) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, account := range m.Accounts {
		if account.UserID == userID {
			out = append(out, account)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update replaces a stored account
func (m *MockAccountRepository) Update(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if _, ok := m.Accounts[account.ID]; !ok {
		return nil, domain.ErrAccountNotFound
	}
	m.Accounts[account.ID] = account
	return account, nil
}

// Delete removes an account
func (m *MockAccountRepository) Delete(_ context.Context, userID uuid.UUID, id int32) error {
	account, ok := m.Accounts[id]
	if !ok || account.UserID != userID {
		return domain.ErrAccountNotFound
	}
	delete(m.Accounts, id)
	return nil
}

// MockCategoryRepository is an in-memory domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
	NextID     int32
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		NextID:     1,
	}
}

// AddCategory seeds a category into the mock
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	if category.ID == 0 {
		category.ID = m.NextID
	}
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
	m.Categories[category.ID] = category
}

// Create stores a new category
func (m *MockCategoryRepository) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	category.ID = m.NextID
	m.NextID++
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(_ context.Context, id int32) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

// GetByName retrieves a category by exact name
func (m *MockCategoryRepository) GetByName(_ context.Context, name string) (*domain.Category, error) {
	for _, category := range m.Categories {
		if category.Name == name {
			return category, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// GetVisible returns system categories plus the user's own
func (m *MockCategoryRepository) GetVisible(_ context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, category := range m.Categories {
		if category.Scope == domain.ScopeSystem {
			out = append(out, category)
			continue
		}
		if category.OwnerID != nil && *category.OwnerID == userID {
			out = append(out, category)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update replaces a stored category
func (m *MockCategoryRepository) Update(_ context.Context, userID uuid.UUID, category *domain.Category) (*domain.Category, error) {
	existing, ok := m.Categories[category.ID]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	if existing.Scope == domain.ScopeSystem {
		return nil, domain.ErrSystemCategory
	}
	m.Categories[category.ID] = category
	return category, nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(_ context.Context, userID uuid.UUID, id int32) error {
	existing, ok := m.Categories[id]
	if !ok {
		return domain.ErrCategoryNotFound
	}
	if existing.Scope == domain.ScopeSystem {
		return domain.ErrSystemCategory
	}
	delete(m.Categories, id)
	return nil
}

// MockCategoryRuleRepository is an in-memory domain.CategoryRuleRepository
type MockCategoryRuleRepository struct {
	Rules     map[int32]*domain.CategoryRule
	NextID    int32
	ActiveErr error
}

// NewMockCategoryRuleRepository creates a new MockCategoryRuleRepository
func NewMockCategoryRuleRepository() *MockCategoryRuleRepository {
	return &MockCategoryRuleRepository{
		Rules:  make(map[int32]*domain.CategoryRule),
		NextID: 1,
	}
}

// AddRule seeds a rule into the mock
func (m *MockCategoryRuleRepository) AddRule(rule *domain.CategoryRule) {
	if rule.ID == 0 {
		rule.ID = m.NextID
	}
	if rule.ID >= m.NextID {
		m.NextID = rule.ID + 1
	}
	m.Rules[rule.ID] = rule
}

// Create stores a new rule
func (m *MockCategoryRuleRepository) Create(_ context.Context, rule *domain.CategoryRule) (*domain.CategoryRule, error) {
	rule.ID = m.NextID
	m.NextID++
	m.Rules[rule.ID] = rule
	return rule, nil
}

// GetActive returns rules in evaluation order: user scope before system,
// then ascending priority, then id
func (m *MockCategoryRuleRepository) GetActive(_ context.Context, userID uuid.UUID, locale string) ([]*domain.CategoryRule, error) {
	if m.ActiveErr != nil {
		return nil, m.ActiveErr
	}
	var out []*domain.CategoryRule
	for _, rule := range m.Rules {
		if rule.Scope == domain.ScopeUser && (rule.OwnerID == nil || *rule.OwnerID != userID) {
			continue
		}
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Scope != b.Scope {
			return a.Scope == domain.ScopeUser
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.ID < b.ID
	})
	return out, nil
}

// Delete removes a rule
func (m *MockCategoryRuleRepository) Delete(_ context.Context, userID uuid.UUID, id int32) error {
	if _, ok := m.Rules[id]; !ok {
		return domain.ErrRuleNotFound
	}
	delete(m.Rules, id)
	return nil
}

// MockBudgetRepository is an in-memory domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[int32]*domain.Budget
	NextID  int32
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[int32]*domain.Budget),
		NextID:  1,
	}
}

// AddBudget seeds a budget into the mock
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) {
	if budget.ID == 0 {
		budget.ID = m.NextID
	}
	if budget.ID >= m.NextID {
		m.NextID = budget.ID + 1
	}
	m.Budgets[budget.ID] = budget
}

// Create stores a new budget
func (m *MockBudgetRepository) Create(_ context.Context, budget *domain.Budget) (*domain.Budget, error) {
	budget.ID = m.NextID
	m.NextID++
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// GetByID retrieves a budget by ID
func (m *MockBudgetRepository) GetByID(_ context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	budget, ok := m.Budgets[id]
	if !ok || budget.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	return budget, nil
}

// GetByUser returns the user's budgets
func (m *MockBudgetRepository) GetByUser(_ context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	var out []*domain.Budget
	for _, budget := range m.Budgets {
		if budget.UserID == userID {
			out = append(out, budget)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update replaces a stored budget
func (m *MockBudgetRepository) Update(_ context.Context, budget *domain.Budget) (*domain.Budget, error) {
	if _, ok := m.Budgets[budget.ID]; !ok {
		return nil, domain.ErrBudgetNotFound
	}
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// Delete removes a budget
func (m *MockBudgetRepository) Delete(_ context.Context, userID uuid.UUID, id int32) error {
	budget, ok := m.Budgets[id]
	if !ok || budget.UserID != userID {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets, id)
	return nil
}

// MockGoalRepository is an in-memory domain.GoalRepository
type MockGoalRepository struct {
	Goals         map[int32]*domain.Goal
	Contributions []*domain.GoalContribution
	NextID        int32
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{
		Goals:  make(map[int32]*domain.Goal),
		NextID: 1,
	}
}

// AddGoal seeds a goal into the mock
func (m *MockGoalRepository) AddGoal(goal *domain.Goal) {
	if goal.ID == 0 {
		goal.ID = m.NextID
	}
	if goal.ID >= m.NextID {
		m.NextID = goal.ID + 1
	}
	m.Goals[goal.ID] = goal
}

// Create stores a new goal
func (m *MockGoalRepository) Create(_ context.Context, goal *domain.Goal) (*domain.Goal, error) {
	goal.ID = m.NextID
	m.NextID++
	m.Goals[goal.ID] = goal
	return goal, nil
}

// GetByID retrieves a goal by ID
func (m *MockGoalRepository) GetByID(_ context.Context, userID uuid.UUID, id int32) (*domain.Goal, error) {
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	return goal, nil
}

// GetByUser returns the user's goals
func (m *MockGoalRepository) GetByUser(_ context.Context, userID uuid.UUID) ([]*domain.Goal, error) {
	var out []*domain.Goal
	for _, goal := range m.Goals {
		if goal.UserID == userID {
			out = append(out, goal)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AddContribution increases the goal's current amount and records the
// contribution
func (m *MockGoalRepository) AddContribution(_ context.Context, userID uuid.UUID, id int32, amount decimal.Decimal) (*domain.Goal, error) {
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	goal.CurrentAmount = goal.CurrentAmount.Add(amount)
	m.Contributions = append(m.Contributions, &domain.GoalContribution{
		ID:        int32(len(m.Contributions) + 1),
		GoalID:    id,
		Amount:    amount,
		CreatedAt: time.Now(),
	})
	return goal, nil
}

// GetContributionsSince returns contributions recorded on or after since
func (m *MockGoalRepository) GetContributionsSince(_ context.Context, userID uuid.UUID, since time.Time) ([]*domain.GoalContribution, error) {
	var out []*domain.GoalContribution
	for _, c := range m.Contributions {
		goal, ok := m.Goals[c.GoalID]
		if !ok || goal.UserID != userID {
			continue
		}
		if c.CreatedAt.Before(since) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Update replaces a stored goal
func (m *MockGoalRepository) Update(_ context.Context, goal *domain.Goal) (*domain.Goal, error) {
	if _, ok := m.Goals[goal.ID]; !ok {
		return nil, domain.ErrGoalNotFound
	}
	m.Goals[goal.ID] = goal
	return goal, nil
}

// Delete removes a goal
func (m *MockGoalRepository) Delete(_ context.Context, userID uuid.UUID, id int32) error {
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID {
		return domain.ErrGoalNotFound
	}
	delete(m.Goals, id)
	return nil
}

// StubClassifier is a deterministic engine.Classifier for tests
type StubClassifier struct {
	Suggestion *domain.CategorySuggestion
	Err        error
	Delay      time.Duration
	Calls      int
}

// Classify returns the configured suggestion or error, optionally after a
// delay so timeout behavior can be exercised
func (s *StubClassifier) Classify(ctx context.Context, description string, amount decimal.Decimal, locale string) (*domain.CategorySuggestion, error) {
	s.Calls++
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Suggestion, nil
}
