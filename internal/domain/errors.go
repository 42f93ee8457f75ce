package domain

import "errors"

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrAlreadyExists     = errors.New("resource already exists")
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
	ErrInternalError     = errors.New("internal error")
	ErrAccountNotFound   = errors.New("account not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrBudgetNotFound    = errors.New("budget not found")
	ErrGoalNotFound      = errors.New("goal not found")
	ErrRuleNotFound      = errors.New("category rule not found")
	ErrNameRequired      = errors.New("name is required")
	ErrNameTooLong       = errors.New("name exceeds maximum length")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidDirection  = errors.New("invalid transaction direction")
	ErrInvalidPeriod     = errors.New("invalid budget period")
	ErrCategoryMismatch  = errors.New("category type does not match transaction direction")
	ErrSystemCategory    = errors.New("system categories are read-only")
	ErrKeywordRequired   = errors.New("rule keyword is required")

	// ErrAmbiguousInput is fatal to parsing: no amount could be located in
	// the input text. It is surfaced to the caller verbatim.
	ErrAmbiguousInput = errors.New("could not find an amount in the input")

	// ErrClassificationUnavailable marks an external classifier failure. It
	// is absorbed inside the categorizer and never surfaced to callers.
	ErrClassificationUnavailable = errors.New("external classification unavailable")
)

// Validation constants
const (
	MaxAccountNameLength     = 255
	MaxDescriptionLength     = 500
	MaxGoalNameLength        = 255
	MaxRuleKeywordLength     = 100
)
