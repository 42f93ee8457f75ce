package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"
	// LocaleKey is the context key for the request locale
	LocaleKey contextKey = "locale"

	// UserIDHeader carries the user identity resolved by the gateway in
	// front of this service.
	UserIDHeader = "X-User-ID"
	// LocaleHeader carries the client's preferred locale tag.
	LocaleHeader = "X-Locale"
)

// UserContext returns an Echo middleware that extracts the user ID and
// locale headers and injects them into the request context. Requests
// without a valid user ID are rejected.
func UserContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(UserIDHeader)
			if header == "" {
				return unauthorizedError(c, "Missing "+UserIDHeader+" header")
			}

			userID, err := uuid.Parse(header)
			if err != nil || userID == uuid.Nil {
				return unauthorizedError(c, "Invalid "+UserIDHeader+" header")
			}

			ctx := context.WithValue(c.Request().Context(), UserIDKey, userID)
			if locale := c.Request().Header.Get(LocaleHeader); locale != "" {
				ctx = context.WithValue(ctx, LocaleKey, locale)
			}
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetUserID extracts the user ID from the context
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetLocale extracts the request locale from the context. Empty means the
// client expressed no preference and the server default applies.
func GetLocale(c echo.Context) string {
	if locale, ok := c.Request().Context().Value(LocaleKey).(string); ok {
		return locale
	}
	return ""
}

// problemDetails represents an RFC 7807 Problem Details response
type problemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

const errorTypeUnauthorized = "https://mintleaf.app/errors/unauthorized"

// unauthorizedError creates an unauthorized error response
func unauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, problemDetails{
		Type:     errorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}
