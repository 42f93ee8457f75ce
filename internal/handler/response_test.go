package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestNewValidationError_ProblemShape(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/budgets", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	errs := []ValidationError{{Field: "amount", Message: "Amount must be positive"}}
	if err := NewValidationError(c, "Invalid input", errs); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Type != ErrorTypeValidation {
		t.Errorf("Expected type %s, got %s", ErrorTypeValidation, problem.Type)
	}
	if problem.Status != http.StatusBadRequest {
		t.Errorf("Expected status field 400, got %d", problem.Status)
	}
	if problem.Instance != "/api/budgets" {
		t.Errorf("Expected instance /api/budgets, got %s", problem.Instance)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "amount" {
		t.Errorf("Expected one validation error for amount, got %+v", problem.Errors)
	}
}

func TestNewNotFoundError_OmitsErrors(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/goals/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := NewNotFoundError(c, "Goal not found"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rec.Code)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if _, present := raw["errors"]; present {
		t.Error("Expected errors field to be omitted")
	}
}
