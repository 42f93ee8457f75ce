package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestUserContext_InjectsUserAndLocale(t *testing.T) {
	e := echo.New()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	req.Header.Set(UserIDHeader, userID.String())
	req.Header.Set(LocaleHeader, "de-DE")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUser uuid.UUID
	var gotLocale string
	handler := UserContext()(func(c echo.Context) error {
		gotUser = GetUserID(c)
		gotLocale = GetLocale(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gotUser != userID {
		t.Errorf("Expected user %s, got %s", userID, gotUser)
	}
	if gotLocale != "de-DE" {
		t.Errorf("Expected locale de-DE, got %q", gotLocale)
	}
}

func TestUserContext_MissingHeader(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handlerCalled := false
	handler := UserContext()(func(c echo.Context) error {
		handlerCalled = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
	if handlerCalled {
		t.Error("Handler should not be called without a user header")
	}
}

func TestUserContext_InvalidHeader(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	req.Header.Set(UserIDHeader, "not-a-uuid")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := UserContext()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestGetUserID_MissingReturnsNil(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if id := GetUserID(c); id != uuid.Nil {
		t.Errorf("Expected uuid.Nil, got %s", id)
	}
}
