package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReceiptHandler handles receipt upload and retrieval for transactions
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// ReceiptURLResponse carries a temporary link to a stored receipt
type ReceiptURLResponse struct {
	URL string `json:"url"`
}

// UploadReceipt handles POST /transactions/:id/receipt with a multipart
// "receipt" file field
func (h *ReceiptHandler) UploadReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "receipt", Message: "A receipt file is required"},
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxReceiptSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read uploaded file")
	}

	metadata, err := h.receiptService.Upload(c.Request().Context(), userID, id, data, fileHeader.Filename)
	if err != nil {
		return h.mapReceiptError(c, err, "Failed to upload receipt")
	}

	return c.JSON(http.StatusCreated, metadata)
}

// GetReceipt handles GET /transactions/:id/receipt
func (h *ReceiptHandler) GetReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	url, err := h.receiptService.PresignedURL(c.Request().Context(), userID, id)
	if err != nil {
		return h.mapReceiptError(c, err, "Failed to get receipt")
	}

	return c.JSON(http.StatusOK, ReceiptURLResponse{URL: url})
}

// DeleteReceipt handles DELETE /transactions/:id/receipt
func (h *ReceiptHandler) DeleteReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.receiptService.Delete(c.Request().Context(), userID, id); err != nil {
		return h.mapReceiptError(c, err, "Failed to delete receipt")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ReceiptHandler) mapReceiptError(c echo.Context, err error, detail string) error {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	case errors.Is(err, domain.ErrForbidden):
		return NewForbiddenError(c, "Transaction belongs to another user")
	case errors.Is(err, service.ErrNoReceipt):
		return NewNotFoundError(c, "Transaction has no receipt")
	case errors.Is(err, service.ErrReceiptTooLarge),
		errors.Is(err, service.ErrInvalidReceiptFormat),
		errors.Is(err, service.ErrReceiptTooSmall),
		errors.Is(err, service.ErrInvalidReceiptData):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "receipt", Message: err.Error()},
		})
	case errors.Is(err, service.ErrReceiptStorageNotEnabled):
		return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
			Type:     ErrorTypeInternal,
			Title:    "Service Unavailable",
			Status:   http.StatusServiceUnavailable,
			Detail:   "Receipt storage is not configured",
			Instance: c.Request().URL.Path,
		})
	default:
		log.Error().Err(err).Msg(detail)
		return NewInternalError(c, detail)
	}
}
