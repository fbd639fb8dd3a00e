package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/labstack/echo/v4"
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

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      string  `json:"amount"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
}

// UpdateTransactionRequest represents a partial transaction update. Omitted
// fields are left unchanged.
type UpdateTransactionRequest struct {
	Type        *string `json:"type,omitempty"`
	Category    *string `json:"category,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          int32   `json:"id"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      string  `json:"amount"`
	Description *string `json:"description,omitempty"`
	Date        string  `json:"date"`
	ReceiptURL  *string `json:"receiptUrl,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// PaginatedTransactionsResponse represents one page of transactions
type PaginatedTransactionsResponse struct {
	Data         []TransactionResponse `json:"data"`
	CurrentPage  int32                 `json:"currentPage"`
	ItemsPerPage int32                 `json:"itemsPerPage"`
	TotalItems   int64                 `json:"totalItems"`
	TotalPages   int32                 `json:"totalPages"`
}

// CreateTransaction handles POST /transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "date", Message: "Must be an RFC 3339 timestamp"},
			})
		}
		date = &parsed
	}

	transaction, err := h.transactionService.Create(userID, service.CreateTransactionInput{
		Type:        domain.TransactionType(req.Type),
		Category:    req.Category,
		Amount:      amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			return NewValidationError(c, "Validation failed", fieldErrors(verrs))
		}
		log.Error().Err(err).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions handles GET /transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)

	page := parseQueryInt32(c.QueryParam("page"), 1)
	pageSize := parseQueryInt32(c.QueryParam("pageSize"), domain.DefaultPageSize)

	result, err := h.transactionService.List(userID, page, pageSize)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	data := make([]TransactionResponse, len(result.Data))
	for i, transaction := range result.Data {
		data[i] = toTransactionResponse(transaction)
	}

	return c.JSON(http.StatusOK, PaginatedTransactionsResponse{
		Data:         data,
		CurrentPage:  result.Page,
		ItemsPerPage: result.PageSize,
		TotalItems:   result.TotalItems,
		TotalPages:   result.TotalPages,
	})
}

// GetTransaction handles GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.Get(userID, id)
	if err != nil {
		return h.mapTransactionError(c, err, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction handles PUT /transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	data := &domain.UpdateTransactionData{
		Category:    req.Category,
		Description: req.Description,
	}

	if req.Type != nil {
		transactionType := domain.TransactionType(*req.Type)
		data.Type = &transactionType
	}

	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		data.Amount = &amount
	}

	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "date", Message: "Must be an RFC 3339 timestamp"},
			})
		}
		data.Date = &parsed
	}

	transaction, err := h.transactionService.Update(userID, id, data)
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			return NewValidationError(c, "Validation failed", fieldErrors(verrs))
		}
		return h.mapTransactionError(c, err, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction handles DELETE /transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if _, err := h.transactionService.Delete(userID, id); err != nil {
		return h.mapTransactionError(c, err, "Failed to delete transaction")
	}

	return c.NoContent(http.StatusNoContent)
}

// mapTransactionError maps service errors onto problem responses. Not found
// is checked before forbidden so a missing record never reads as someone
// else's.
func (h *TransactionHandler) mapTransactionError(c echo.Context, err error, detail string) error {
	if errors.Is(err, domain.ErrTransactionNotFound) {
		return NewNotFoundError(c, "Transaction not found")
	}
	if errors.Is(err, domain.ErrForbidden) {
		return NewForbiddenError(c, "Transaction belongs to another user")
	}
	log.Error().Err(err).Msg(detail)
	return NewInternalError(c, detail)
}

func toTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          transaction.ID,
		Type:        string(transaction.Type),
		Category:    transaction.Category,
		Amount:      transaction.Amount.StringFixed(2),
		Description: transaction.Description,
		Date:        transaction.Date.UTC().Format(time.RFC3339),
		ReceiptURL:  transaction.ReceiptURL,
		CreatedAt:   transaction.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   transaction.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func parseIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id < 1 {
		return 0, domain.ErrInvalidInput
	}
	return int32(id), nil
}

func parseQueryInt32(value string, fallback int32) int32 {
	if value == "" {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil || n < 1 {
		return fallback
	}
	return int32(n)
}
