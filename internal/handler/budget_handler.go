package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/middleware"
	"github.com/mintleaf/mintleaf-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the create budget request body
type CreateBudgetRequest struct {
	CategoryID int32   `json:"categoryId"`
	Amount     string  `json:"amount"`
	Period     string  `json:"period"`
	StartDate  *string `json:"startDate,omitempty"`
	EndDate    *string `json:"endDate,omitempty"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID         int32   `json:"id"`
	CategoryID int32   `json:"categoryId"`
	Amount     string  `json:"amount"`
	Period     string  `json:"period"`
	StartDate  string  `json:"startDate"`
	EndDate    *string `json:"endDate,omitempty"`
}

// BudgetProgressResponse represents budget progress in API responses
type BudgetProgressResponse struct {
	BudgetID   int32   `json:"budgetId"`
	CategoryID int32   `json:"categoryId"`
	Amount     string  `json:"amount"`
	Spent      string  `json:"spent"`
	Remaining  string  `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// CreateBudget handles POST /api/budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	input := service.CreateBudgetInput{
		CategoryID: req.CategoryID,
		Amount:     amount,
		Period:     domain.BudgetPeriod(req.Period),
	}
	if req.StartDate != nil && *req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return NewValidationError(c, "Invalid startDate", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		input.StartDate = parsed
	}
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return NewValidationError(c, "Invalid endDate", []ValidationError{
				{Field: "endDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		input.EndDate = &parsed
	}

	budget, err := h.budgetService.CreateBudget(c.Request().Context(), userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrInvalidPeriod) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "period", Message: "Must be one of: weekly, monthly, yearly"},
			})
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category not found"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create budget")
		return NewInternalError(c, "Failed to create budget")
	}

	log.Info().Str("user_id", userID.String()).Int32("budget_id", budget.ID).Msg("Budget created")
	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// GetBudgets handles GET /api/budgets
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	budgets, err := h.budgetService.ListBudgets(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list budgets")
		return NewInternalError(c, "Failed to list budgets")
	}

	response := make([]BudgetResponse, len(budgets))
	for i, budget := range budgets {
		response[i] = toBudgetResponse(budget)
	}
	return c.JSON(http.StatusOK, response)
}

// GetBudgetProgress handles GET /api/budgets/:id/progress
func (h *BudgetHandler) GetBudgetProgress(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	progress, err := h.budgetService.GetProgress(c.Request().Context(), userID, int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("budget_id", id).Msg("Failed to get budget progress")
		return NewInternalError(c, "Failed to get budget progress")
	}

	return c.JSON(http.StatusOK, BudgetProgressResponse{
		BudgetID:   progress.BudgetID,
		CategoryID: progress.CategoryID,
		Amount:     progress.Amount.StringFixed(2),
		Spent:      progress.Spent.StringFixed(2),
		Remaining:  progress.Remaining.StringFixed(2),
		Percentage: progress.Percentage,
	})
}

// DeleteBudget handles DELETE /api/budgets/:id
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.DeleteBudget(c.Request().Context(), userID, int32(id)); err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("budget_id", id).Msg("Failed to delete budget")
		return NewInternalError(c, "Failed to delete budget")
	}

	log.Info().Str("user_id", userID.String()).Int("budget_id", id).Msg("Budget deleted")
	return c.NoContent(http.StatusNoContent)
}

// Helper function to convert domain.Budget to BudgetResponse
func toBudgetResponse(budget *domain.Budget) BudgetResponse {
	resp := BudgetResponse{
		ID:         budget.ID,
		CategoryID: budget.CategoryID,
		Amount:     budget.Amount.StringFixed(2),
		Period:     string(budget.Period),
		StartDate:  budget.StartDate.Format("2006-01-02"),
	}
	if budget.EndDate != nil {
		endDate := budget.EndDate.Format("2006-01-02")
		resp.EndDate = &endDate
	}
	return resp
}
