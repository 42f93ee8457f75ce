package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/middleware"
	"github.com/mintleaf/mintleaf-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// InsightHandler handles insight-related HTTP requests
type InsightHandler struct {
	insightService *service.InsightService
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(insightService *service.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// InsightResponse represents a generated insight in API responses
type InsightResponse struct {
	Kind       string `json:"kind"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	CategoryID *int32 `json:"categoryId,omitempty"`
	GoalID     *int32 `json:"goalId,omitempty"`
	Metric     string `json:"metric"`
}

// GetInsights handles GET /api/insights. Insights are computed on demand
// and never persisted; the same data always yields the same ordered list.
func (h *InsightHandler) GetInsights(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	period := domain.BudgetPeriod(c.QueryParam("period"))
	locale := c.QueryParam("locale")
	if locale == "" {
		locale = middleware.GetLocale(c)
	}

	insights, err := h.insightService.GetInsights(c.Request().Context(), userID, period, locale)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to generate insights")
		return NewInternalError(c, "Failed to generate insights")
	}

	response := make([]InsightResponse, len(insights))
	for i, insight := range insights {
		response[i] = InsightResponse{
			Kind:       string(insight.Kind),
			Severity:   string(insight.Severity),
			Message:    insight.Message,
			CategoryID: insight.CategoryID,
			GoalID:     insight.GoalID,
			Metric:     insight.Metric.String(),
		}
	}

	return c.JSON(http.StatusOK, response)
}
