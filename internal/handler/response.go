package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://mintleaf.app/errors/validation"
	ErrorTypeNotFound     = "https://mintleaf.app/errors/not-found"
	ErrorTypeUnauthorized = "https://mintleaf.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://mintleaf.app/errors/forbidden"
	ErrorTypeInternal     = "https://mintleaf.app/errors/internal"
)

func problem(c echo.Context, errorType, title string, status int, detail string, errors []ValidationError) error {
	return c.JSON(status, ProblemDetails{
		Type:     errorType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return problem(c, ErrorTypeValidation, "Validation Error", http.StatusBadRequest, detail, errors)
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return problem(c, ErrorTypeNotFound, "Not Found", http.StatusNotFound, detail, nil)
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return problem(c, ErrorTypeUnauthorized, "Unauthorized", http.StatusUnauthorized, detail, nil)
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return problem(c, ErrorTypeForbidden, "Forbidden", http.StatusForbidden, detail, nil)
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return problem(c, ErrorTypeInternal, "Internal Server Error", http.StatusInternalServerError, detail, nil)
}
