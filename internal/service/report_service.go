package service

import (
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportService computes monthly financial summaries
type ReportService struct {
	transactionRepo domain.TransactionRepository
}

// NewReportService creates a new ReportService
func NewReportService(transactionRepo domain.TransactionRepository) *ReportService {
	return &ReportService{transactionRepo: transactionRepo}
}

// Monthly returns the income, expense, savings, and savings rate for one
// month. Month is a YYYY-MM string; an empty string means the current month.
// The savings rate is a percentage rounded to 2 decimal places, and 0 when
// there is no income.
func (s *ReportService) Monthly(userID uuid.UUID, monthStr string) (*domain.MonthlyReport, error) {
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

	sums, err := s.transactionRepo.SumByType(userID, start, end)
	if err != nil {
		return nil, err
	}

	income := decimal.Zero
	expense := decimal.Zero
	for _, sum := range sums {
		switch sum.Type {
		case domain.TransactionTypeIncome:
			income = sum.Total
		case domain.TransactionTypeExpense:
			expense = sum.Total
		}
	}

	savings := income.Sub(expense)

	savingsRate := decimal.Zero
	if income.IsPositive() {
		savingsRate = savings.Div(income).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &domain.MonthlyReport{
		Month:       util.FormatMonth(month),
		Income:      income,
		Expense:     expense,
		Savings:     savings,
		SavingsRate: savingsRate,
	}, nil
}
