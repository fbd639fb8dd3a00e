package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/middleware"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/centsible/centsible-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the create budget request body
type CreateBudgetRequest struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Month    string `json:"month"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID        int32  `json:"id"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	Month     string `json:"month"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// BudgetWithSpendingResponse is a budget joined against actual spend
type BudgetWithSpendingResponse struct {
	BudgetResponse
	TotalSpent string `json:"totalSpent"`
	Overspent  bool   `json:"overspent"`
}

// CreateBudget handles POST /budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.budgetService.Create(userID, service.CreateBudgetInput{
		Category: req.Category,
		Amount:   amount,
		Month:    req.Month,
	})
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			return NewValidationError(c, "Validation failed", fieldErrors(verrs))
		}
		if errors.Is(err, domain.ErrBudgetExists) {
			return NewConflictError(c, "A budget already exists for this category and month")
		}
		log.Error().Err(err).Msg("Failed to create budget")
		return NewInternalError(c, "Failed to create budget")
	}

	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// GetBudgets handles GET /budgets, with spending joined in for the requested
// month (defaulting to the current one)
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)

	budgets, err := h.budgetService.ListWithSpending(userID, c.QueryParam("month"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMonth) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Must be in YYYY-MM format"},
			})
		}
		log.Error().Err(err).Msg("Failed to list budgets")
		return NewInternalError(c, "Failed to list budgets")
	}

	response := make([]BudgetWithSpendingResponse, len(budgets))
	for i, budget := range budgets {
		response[i] = BudgetWithSpendingResponse{
			BudgetResponse: toBudgetResponse(&budget.Budget),
			TotalSpent:     budget.TotalSpent.StringFixed(2),
			Overspent:      budget.Overspent,
		}
	}

	return c.JSON(http.StatusOK, response)
}

func toBudgetResponse(budget *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:        budget.ID,
		Category:  budget.Category,
		Amount:    budget.Amount.StringFixed(2),
		Month:     util.FormatMonth(budget.Month),
		CreatedAt: budget.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: budget.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
