package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/middleware"
	"github.com/mintleaf/mintleaf-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category and rule HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
	Scope string `json:"scope"`
}

// CreateCategory handles POST /api/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), userID, service.CreateCategoryInput{
		Name:  req.Name,
		Type:  domain.CategoryType(req.Type),
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Must be one of: income, expense"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create category")
		return NewInternalError(c, "Failed to create category")
	}

	log.Info().Str("user_id", userID.String()).Int32("category_id", category.ID).Msg("Category created")
	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

// GetCategories handles GET /api/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	categories, err := h.categoryService.ListCategories(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list categories")
		return NewInternalError(c, "Failed to list categories")
	}

	response := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = toCategoryResponse(category)
	}
	return c.JSON(http.StatusOK, response)
}

// DeleteCategory handles DELETE /api/categories/:id
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), userID, int32(id)); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		if errors.Is(err, domain.ErrSystemCategory) {
			return NewForbiddenError(c, "System categories are read-only")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return NewForbiddenError(c, "Category belongs to another user")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("category_id", id).Msg("Failed to delete category")
		return NewInternalError(c, "Failed to delete category")
	}

	log.Info().Str("user_id", userID.String()).Int("category_id", id).Msg("Category deleted")
	return c.NoContent(http.StatusNoContent)
}

// CreateRuleRequest represents the create rule request body
type CreateRuleRequest struct {
	Keyword    string `json:"keyword"`
	CategoryID int32  `json:"categoryId"`
	Priority   int32  `json:"priority,omitempty"`
	Locale     string `json:"locale,omitempty"`
}

// RuleResponse represents a categorization rule in API responses
type RuleResponse struct {
	ID         int32  `json:"id"`
	Keyword    string `json:"keyword"`
	CategoryID int32  `json:"categoryId"`
	Priority   int32  `json:"priority"`
	Locale     string `json:"locale,omitempty"`
	Scope      string `json:"scope"`
}

// CreateRule handles POST /api/categories/rules
func (h *CategoryHandler) CreateRule(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	var req CreateRuleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	locale := req.Locale
	if locale == "" {
		locale = middleware.GetLocale(c)
	}

	rule, err := h.categoryService.CreateRule(c.Request().Context(), userID, service.CreateRuleInput{
		Keyword:    req.Keyword,
		CategoryID: req.CategoryID,
		Priority:   req.Priority,
		Locale:     locale,
	})
	if err != nil {
		if errors.Is(err, domain.ErrKeywordRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "keyword", Message: "Keyword is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "keyword", Message: "Keyword must be 100 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category not found"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create rule")
		return NewInternalError(c, "Failed to create rule")
	}

	log.Info().Str("user_id", userID.String()).Int32("rule_id", rule.ID).Str("keyword", rule.Keyword).Msg("Categorization rule created")
	return c.JSON(http.StatusCreated, toRuleResponse(rule))
}

// GetRules handles GET /api/categories/rules
func (h *CategoryHandler) GetRules(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	locale := c.QueryParam("locale")
	if locale == "" {
		locale = middleware.GetLocale(c)
	}

	rules, err := h.categoryService.ListRules(c.Request().Context(), userID, locale)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list rules")
		return NewInternalError(c, "Failed to list rules")
	}

	response := make([]RuleResponse, len(rules))
	for i, rule := range rules {
		response[i] = toRuleResponse(rule)
	}
	return c.JSON(http.StatusOK, response)
}

// DeleteRule handles DELETE /api/categories/rules/:id
func (h *CategoryHandler) DeleteRule(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid rule ID", nil)
	}

	if err := h.categoryService.DeleteRule(c.Request().Context(), userID, int32(id)); err != nil {
		if errors.Is(err, domain.ErrRuleNotFound) {
			return NewNotFoundError(c, "Rule not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("rule_id", id).Msg("Failed to delete rule")
		return NewInternalError(c, "Failed to delete rule")
	}

	log.Info().Str("user_id", userID.String()).Int("rule_id", id).Msg("Categorization rule deleted")
	return c.NoContent(http.StatusNoContent)
}

// Helper function to convert domain.Category to CategoryResponse
func toCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:    category.ID,
		Name:  category.Name,
		Type:  string(category.Type),
		Icon:  category.Icon,
		Color: category.Color,
		Scope: string(category.Scope),
	}
}

// Helper function to convert domain.CategoryRule to RuleResponse
func toRuleResponse(rule *domain.CategoryRule) RuleResponse {
	return RuleResponse{
		ID:         rule.ID,
		Keyword:    rule.Keyword,
		CategoryID: rule.CategoryID,
		Priority:   rule.Priority,
		Locale:     rule.Locale,
		Scope:      string(rule.Scope),
	}
}
