package service

import (
	"strings"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/util"
	ws "github.com/centsible/centsible-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BudgetService handles per-category monthly spending limits
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
	publisher       ws.EventPublisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, transactionRepo domain.TransactionRepository, publisher ws.EventPublisher) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
	}
}

// CreateBudgetInput carries a new budget request. Month is a YYYY-MM string.
type CreateBudgetInput struct {
	Category string
	Amount   decimal.Decimal
	Month    string
}

// Create validates and persists a budget. At most one budget exists per
// (user, category, month); a duplicate yields ErrBudgetExists.
func (s *BudgetService) Create(userID uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
	var verrs domain.ValidationErrors

	category := normalizeCategory(input.Category)
	if category == "" || len(category) > domain.MaxCategoryLength {
		verrs.Add("category", "category must be between 1 and 50 characters")
	}

	validateAmount(input.Amount, &verrs)

	month, err := util.ParseMonth(input.Month)
	if err != nil {
		verrs.Add("month", "month must be in YYYY-MM format")
	}

	if err := verrs.Err(); err != nil {
		return nil, err
	}

	// Advisory pre-check for a friendlier error; the store's unique index is
	// the authoritative guard against races
	exists, err := s.budgetRepo.Exists(userID, category, month)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to check existing budget")
		return nil, err
	}
	if exists {
		return nil, domain.ErrBudgetExists
	}

	budget := &domain.Budget{
		UserID:   userID,
		Category: category,
		Amount:   input.Amount,
		Month:    month,
	}

	created, err := s.budgetRepo.Create(budget)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create budget")
		return nil, err
	}

	s.publisher.Publish(userID, ws.BudgetCreated(created))
	return created, nil
}

// ListWithSpending returns the user's budgets for one month, each joined
// against actual expense spend in that month. Month is a YYYY-MM string; an
// empty string means the current month.
func (s *BudgetService) ListWithSpending(userID uuid.UUID, monthStr string) ([]*domain.BudgetWithSpending, error) {
	var month time.Time
	if monthStr == "" {
		month = util.CurrentMonth()
	} else {
		var err error
		month, err = util.ParseMonth(monthStr)
		if err != nil {
			return nil, err
		}
	}

	start, end := util.MonthRange(month)

	budgets, err := s.budgetRepo.GetByUserForRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	sums, err := s.transactionRepo.SumExpensesByCategory(userID, start, end)
	if err != nil {
		return nil, err
	}

	spentByCategory := make(map[string]decimal.Decimal, len(sums))
	for _, sum := range sums {
		spentByCategory[strings.ToLower(sum.Category)] = sum.Total
	}

	result := make([]*domain.BudgetWithSpending, 0, len(budgets))
	for _, budget := range budgets {
		spent, ok := spentByCategory[strings.ToLower(budget.Category)]
		if !ok {
			spent = decimal.Zero
		}
		result = append(result, &domain.BudgetWithSpending{
			Budget:     *budget,
			TotalSpent: spent,
			Overspent:  spent.GreaterThan(budget.Amount),
		})
	}

	return result, nil
}
