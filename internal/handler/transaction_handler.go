package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/engine"
	"github.com/mintleaf/mintleaf-backend/internal/middleware"
	"github.com/mintleaf/mintleaf-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// ParseRequest represents the free-text parse request body
type ParseRequest struct {
	Text   string `json:"text"`
	Locale string `json:"locale,omitempty"`
}

// DraftResponse represents a parsed draft in API responses
type DraftResponse struct {
	Description    string  `json:"description"`
	Amount         string  `json:"amount"`
	Direction      string  `json:"direction"`
	Date           string  `json:"date"`
	Locale         string  `json:"locale"`
	Confidence     float64 `json:"confidence"`
	NeedsReview    bool    `json:"needsReview"`
	LocaleFallback bool    `json:"localeFallback"`
}

// ParseTransaction handles POST /api/transactions/parse. It converts free
// text into a draft without persisting anything.
func (h *TransactionHandler) ParseTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	var req ParseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Text == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "text", Message: "Text is required"},
		})
	}

	locale := req.Locale
	if locale == "" {
		locale = middleware.GetLocale(c)
	}

	draft, err := h.transactionService.ParseText(req.Text, locale)
	if err != nil {
		if errors.Is(err, domain.ErrAmbiguousInput) {
			return NewValidationError(c, err.Error(), []ValidationError{
				{Field: "text", Message: "Could not find an amount in the input"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to parse transaction text")
		return NewInternalError(c, "Failed to parse text")
	}

	return c.JSON(http.StatusOK, toDraftResponse(draft))
}

// CategorizeRequest represents the categorize request body
type CategorizeRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount,omitempty"`
	Locale      string `json:"locale,omitempty"`
}

// ClassificationResponse represents a classification result in API responses
type ClassificationResponse struct {
	CategoryID *int32  `json:"categoryId,omitempty"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// CategorizeTransaction handles POST /api/transactions/categorize. The
// classification never fails; the worst case is the default category with
// zero confidence.
func (h *TransactionHandler) CategorizeTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	var req CategorizeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Description == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		})
	}

	amount := decimal.Zero
	if req.Amount != "" {
		parsed, err := decimal.NewFromString(req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		amount = parsed
	}

	locale := req.Locale
	if locale == "" {
		locale = middleware.GetLocale(c)
	}

	result := h.transactionService.Categorize(c.Request().Context(), userID, req.Description, amount, locale)
	return c.JSON(http.StatusOK, ClassificationResponse{
		CategoryID: result.CategoryID,
		Confidence: result.Confidence,
		Source:     string(result.Source),
	})
}

// CreateFromTextRequest represents the text entry request body
type CreateFromTextRequest struct {
	Text      string `json:"text"`
	AccountID int32  `json:"accountId"`
	Locale    string `json:"locale,omitempty"`
	// Confirm persists a draft even when it needs review.
	Confirm bool `json:"confirm,omitempty"`
}

// CreateFromTextResponse pairs the draft with the persisted transaction.
// Transaction is null when the draft needs review and was not confirmed.
type CreateFromTextResponse struct {
	Draft       DraftResponse        `json:"draft"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// CreateFromText handles POST /api/transactions/from-text. Low-confidence
// drafts come back unpersisted with needsReview set; the client re-submits
// with confirm once the user has accepted the draft.
func (h *TransactionHandler) CreateFromText(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	var req CreateFromTextRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Text == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "text", Message: "Text is required"},
		})
	}
	if req.AccountID <= 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "accountId", Message: "Account ID is required"},
		})
	}

	locale := req.Locale
	if locale == "" {
		locale = middleware.GetLocale(c)
	}

	ctx := c.Request().Context()
	draft, err := h.transactionService.ParseText(req.Text, locale)
	if err != nil {
		if errors.Is(err, domain.ErrAmbiguousInput) {
			return NewValidationError(c, err.Error(), []ValidationError{
				{Field: "text", Message: "Could not find an amount in the input"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to parse transaction text")
		return NewInternalError(c, "Failed to parse text")
	}

	if draft.NeedsReview && !req.Confirm {
		return c.JSON(http.StatusOK, CreateFromTextResponse{Draft: toDraftResponse(draft)})
	}

	transaction, err := h.transactionService.ConfirmDraft(ctx, userID, req.AccountID, draft)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "accountId", Message: "Account not found"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create transaction from text")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Str("user_id", userID.String()).Int32("transaction_id", transaction.ID).Float64("confidence", draft.Confidence).Msg("Transaction created from text")

	resp := toTransactionResponse(transaction)
	return c.JSON(http.StatusCreated, CreateFromTextResponse{
		Draft:       toDraftResponse(draft),
		Transaction: &resp,
	})
}

// CreateTransactionRequest represents the structured create request body
type CreateTransactionRequest struct {
	AccountID   int32   `json:"accountId"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Direction   string  `json:"direction"`
	Date        *string `json:"date,omitempty"`
	CategoryID  *int32  `json:"categoryId,omitempty"`
	Locale      string  `json:"locale,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          int32  `json:"id"`
	AccountID   int32  `json:"accountId"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Direction   string `json:"direction"`
	Locale      string `json:"locale,omitempty"`
	Date        string `json:"date"`
	CategoryID  *int32 `json:"categoryId,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if req.AccountID <= 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "accountId", Message: "Account ID is required"},
		})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = &parsed
	}

	locale := req.Locale
	if locale == "" {
		locale = middleware.GetLocale(c)
	}

	input := service.CreateTransactionInput{
		AccountID:   req.AccountID,
		Description: req.Description,
		Amount:      amount,
		Direction:   domain.TransactionDirection(req.Direction),
		Date:        date,
		CategoryID:  req.CategoryID,
		Locale:      locale,
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request().Context(), userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description must be 500 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrInvalidDirection) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "direction", Message: "Must be one of: income, expense, transfer"},
			})
		}
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "accountId", Message: "Account not found"},
			})
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category not found"},
			})
		}
		if errors.Is(err, domain.ErrCategoryMismatch) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category type does not match transaction direction"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Str("user_id", userID.String()).Int32("transaction_id", transaction.ID).Msg("Transaction created")
	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// PaginatedTransactionsResponse represents paginated transactions in API responses
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

// GetTransactions handles GET /api/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	filters := &domain.TransactionFilters{
		Page:     1,
		PageSize: domain.DefaultPageSize,
	}

	if s := c.QueryParam("accountId"); s != "" {
		var accountID int32
		if _, err := parseIntParam(s, &accountID); err != nil {
			return NewValidationError(c, "Invalid accountId", nil)
		}
		filters.AccountID = &accountID
	}
	if s := c.QueryParam("categoryId"); s != "" {
		var categoryID int32
		if _, err := parseIntParam(s, &categoryID); err != nil {
			return NewValidationError(c, "Invalid categoryId", nil)
		}
		filters.CategoryID = &categoryID
	}
	if s := c.QueryParam("startDate"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return NewValidationError(c, "Invalid startDate format (use YYYY-MM-DD)", nil)
		}
		filters.StartDate = &parsed
	}
	if s := c.QueryParam("endDate"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return NewValidationError(c, "Invalid endDate format (use YYYY-MM-DD)", nil)
		}
		filters.EndDate = &parsed
	}
	if s := c.QueryParam("direction"); s != "" {
		direction := domain.TransactionDirection(s)
		if !direction.Valid() {
			return NewValidationError(c, "Invalid direction (must be 'income', 'expense' or 'transfer')", nil)
		}
		filters.Direction = &direction
	}
	if s := c.QueryParam("page"); s != "" {
		var page int32
		if _, err := parseIntParam(s, &page); err != nil || page < 1 {
			return NewValidationError(c, "Invalid page (must be positive integer)", nil)
		}
		filters.Page = page
	}
	if s := c.QueryParam("pageSize"); s != "" {
		var pageSize int32
		if _, err := parseIntParam(s, &pageSize); err != nil || pageSize < 1 {
			return NewValidationError(c, "Invalid pageSize (must be positive integer)", nil)
		}
		filters.PageSize = pageSize
	}

	result, err := h.transactionService.ListTransactions(c.Request().Context(), userID, filters)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	response := PaginatedTransactionsResponse{
		Data:       make([]TransactionResponse, len(result.Data)),
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	}
	for i, transaction := range result.Data {
		response.Data[i] = toTransactionResponse(transaction)
	}

	return c.JSON(http.StatusOK, response)
}

// GetTransaction handles GET /api/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransaction(c.Request().Context(), userID, int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("transaction_id", id).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction handles DELETE /api/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "User required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(c.Request().Context(), userID, int32(id)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("transaction_id", id).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	log.Info().Str("user_id", userID.String()).Int("transaction_id", id).Msg("Transaction deleted")
	return c.NoContent(http.StatusNoContent)
}

// Helper function to parse int query params with overflow protection
func parseIntParam(s string, out *int32) (bool, error) {
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return false, errors.New("invalid integer")
	}
	*out = int32(v)
	return true, nil
}

// Helper function to convert an engine draft to DraftResponse
func toDraftResponse(draft *engine.DraftTransaction) DraftResponse {
	return DraftResponse{
		Description:    draft.Description,
		Amount:         draft.Amount.StringFixed(2),
		Direction:      string(draft.Direction),
		Date:           draft.Date.Format("2006-01-02"),
		Locale:         draft.Locale,
		Confidence:     draft.Confidence,
		NeedsReview:    draft.NeedsReview,
		LocaleFallback: draft.LocaleFallback,
	}
}

// Helper function to convert domain.Transaction to TransactionResponse
func toTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          transaction.ID,
		AccountID:   transaction.AccountID,
		Description: transaction.Description,
		Amount:      transaction.Amount.StringFixed(2),
		Direction:   string(transaction.Direction),
		Locale:      transaction.Locale,
		Date:        transaction.Date.Format("2006-01-02"),
		CategoryID:  transaction.CategoryID,
		CreatedAt:   transaction.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   transaction.UpdatedAt.Format(time.RFC3339),
	}
}
