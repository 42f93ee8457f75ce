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

// GoalHandler handles savings goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the create goal request body
type CreateGoalRequest struct {
	Name         string  `json:"name"`
	TargetAmount string  `json:"targetAmount"`
	Deadline     *string `json:"deadline,omitempty"`
}

// ContributeRequest represents the contribution request body
type ContributeRequest struct {
	Amount string `json:"amount"`
}

// GoalResponse represents a goal in API responses
type GoalResponse struct {
	ID            int32   `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  string  `json:"targetAmount"`
	CurrentAmount string  `json:"currentAmount"`
	Deadline      *string `json:"deadline,omitempty"`
}

// GoalProgressResponse represents goal progress in API responses
type GoalProgressResponse struct {
	GoalID     int32   `json:"goalId"`
	Percentage float64 `json:"percentage"`
	Remaining  string  `json:"remaining"`
}

// CreateGoal handles POST /api/goals
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	var req CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	target, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		return NewValidationError(c, "Invalid targetAmount", []ValidationError{
			{Field: "targetAmount", Message: "Must be a valid decimal number"},
		})
	}

	input := service.CreateGoalInput{
		Name:         req.Name,
		TargetAmount: target,
	}
	if req.Deadline != nil && *req.Deadline != "" {
		parsed, err := time.Parse("2006-01-02", *req.Deadline)
		if err != nil {
			return NewValidationError(c, "Invalid deadline", []ValidationError{
				{Field: "deadline", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		input.Deadline = &parsed
	}

	goal, err := h.goalService.CreateGoal(c.Request().Context(), userID, input)
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
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "targetAmount", Message: "Target amount must be positive"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create goal")
		return NewInternalError(c, "Failed to create goal")
	}

	log.Info().Str("user_id", userID.String()).Int32("goal_id", goal.ID).Msg("Goal created")
	return c.JSON(http.StatusCreated, toGoalResponse(goal))
}

// GetGoals handles GET /api/goals
func (h *GoalHandler) GetGoals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	goals, err := h.goalService.ListGoals(c.Request().Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list goals")
		return NewInternalError(c, "Failed to list goals")
	}

	response := make([]GoalResponse, len(goals))
	for i, goal := range goals {
		response[i] = toGoalResponse(goal)
	}
	return c.JSON(http.StatusOK, response)
}

// Contribute handles POST /api/goals/:id/contributions
func (h *GoalHandler) Contribute(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	var req ContributeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	goal, err := h.goalService.Contribute(c.Request().Context(), userID, int32(id), amount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("goal_id", id).Msg("Failed to add contribution")
		return NewInternalError(c, "Failed to add contribution")
	}

	log.Info().Str("user_id", userID.String()).Int32("goal_id", goal.ID).Str("amount", amount.String()).Msg("Goal contribution added")
	return c.JSON(http.StatusOK, toGoalResponse(goal))
}

// GetGoalProgress handles GET /api/goals/:id/progress
func (h *GoalHandler) GetGoalProgress(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	progress, err := h.goalService.GetProgress(c.Request().Context(), userID, int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("goal_id", id).Msg("Failed to get goal progress")
		return NewInternalError(c, "Failed to get goal progress")
	}

	return c.JSON(http.StatusOK, GoalProgressResponse{
		GoalID:     progress.GoalID,
		Percentage: progress.Percentage,
		Remaining:  progress.Remaining.StringFixed(2),
	})
}

// DeleteGoal handles DELETE /api/goals/:id
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", nil)
	}

	if err := h.goalService.DeleteGoal(c.Request().Context(), userID, int32(id)); err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			return NewNotFoundError(c, "Goal not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("goal_id", id).Msg("Failed to delete goal")
		return NewInternalError(c, "Failed to delete goal")
	}

	log.Info().Str("user_id", userID.String()).Int("goal_id", id).Msg("Goal deleted")
	return c.NoContent(http.StatusNoContent)
}

// Helper function to convert domain.Goal to GoalResponse
func toGoalResponse(goal *domain.Goal) GoalResponse {
	resp := GoalResponse{
		ID:            goal.ID,
		Name:          goal.Name,
		TargetAmount:  goal.TargetAmount.StringFixed(2),
		CurrentAmount: goal.CurrentAmount.StringFixed(2),
	}
	if goal.Deadline != nil {
		deadline := goal.Deadline.Format("2006-01-02")
		resp.Deadline = &deadline
	}
	return resp
}
