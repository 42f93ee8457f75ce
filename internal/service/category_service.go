package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

// CategoryService handles categories and category rules
type CategoryService struct {
	categoryRepo domain.CategoryRepository
	ruleRepo     domain.CategoryRuleRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository, ruleRepo domain.CategoryRuleRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		ruleRepo:     ruleRepo,
	}
}

// CreateCategoryInput holds the input for creating a user category
type CreateCategoryInput struct {
	Name  string
	Type  domain.CategoryType
	Icon  string
	Color string
}

// CreateCategory creates a private category owned by the user. System
// categories are seeded at install time and never created through here.
func (s *CategoryService) CreateCategory(ctx context.Context, userID uuid.UUID, input CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxAccountNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.Type != domain.CategoryTypeIncome && input.Type != domain.CategoryTypeExpense {
		return nil, domain.ErrInvalidInput
	}

	return s.categoryRepo.Create(ctx, &domain.Category{
		Name:    name,
		Type:    input.Type,
		Icon:    input.Icon,
		Color:   input.Color,
		Scope:   domain.ScopeUser,
		OwnerID: &userID,
	})
}

// ListCategories returns system categories plus the user's own
func (s *CategoryService) ListCategories(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.GetVisible(ctx, userID)
}

// UpdateCategory updates a user-owned category. System categories are
// read-only.
func (s *CategoryService) UpdateCategory(ctx context.Context, userID uuid.UUID, category *domain.Category) (*domain.Category, error) {
	existing, err := s.categoryRepo.GetByID(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	if existing.Scope == domain.ScopeSystem {
		return nil, domain.ErrSystemCategory
	}
	if existing.OwnerID == nil || *existing.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	return s.categoryRepo.Update(ctx, userID, category)
}

// DeleteCategory removes a user-owned category
func (s *CategoryService) DeleteCategory(ctx context.Context, userID uuid.UUID, id int32) error {
	existing, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Scope == domain.ScopeSystem {
		return domain.ErrSystemCategory
	}
	if existing.OwnerID == nil || *existing.OwnerID != userID {
		return domain.ErrForbidden
	}
	return s.categoryRepo.Delete(ctx, userID, id)
}

// CreateRuleInput holds the input for creating a category rule
type CreateRuleInput struct {
	Keyword    string
	CategoryID int32
	Priority   int32
	Locale     string
}

// CreateRule creates a user-scoped categorization rule
func (s *CategoryService) CreateRule(ctx context.Context, userID uuid.UUID, input CreateRuleInput) (*domain.CategoryRule, error) {
	keyword := strings.ToLower(strings.TrimSpace(input.Keyword))
	if keyword == "" {
		return nil, domain.ErrKeywordRequired
	}
	if len(keyword) > domain.MaxRuleKeywordLength {
		return nil, domain.ErrNameTooLong
	}
	if _, err := s.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
		return nil, domain.ErrCategoryNotFound
	}

	return s.ruleRepo.Create(ctx, &domain.CategoryRule{
		Keyword:    keyword,
		CategoryID: input.CategoryID,
		Priority:   input.Priority,
		Locale:     input.Locale,
		Scope:      domain.ScopeUser,
		OwnerID:    &userID,
	})
}

// ListRules returns the rules active for the user and locale, in
// evaluation order
func (s *CategoryService) ListRules(ctx context.Context, userID uuid.UUID, locale string) ([]*domain.CategoryRule, error) {
	return s.ruleRepo.GetActive(ctx, userID, locale)
}

// DeleteRule removes a user rule
func (s *CategoryService) DeleteRule(ctx context.Context, userID uuid.UUID, id int32) error {
	return s.ruleRepo.Delete(ctx, userID, id)
}
