package service

import (
	"errors"
	"testing"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestMonthlyReport_Success(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	reportService := NewReportService(transactionRepo)

	userID := uuid.New()
	september := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, Type: domain.TransactionTypeIncome, Category: "salary",
		Amount: decimal.NewFromInt(1000), Date: september,
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, Type: domain.TransactionTypeExpense, Category: "food",
		Amount: decimal.NewFromInt(400), Date: september,
	})

	report, err := reportService.Monthly(userID, "2026-09")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if report.Month != "2026-09" {
		t.Errorf("Expected month 2026-09, got %s", report.Month)
	}
	if !report.Income.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected income 1000, got %s", report.Income)
	}
	if !report.Expense.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Expected expense 400, got %s", report.Expense)
	}
	if !report.Savings.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected savings 600, got %s", report.Savings)
	}
	if report.SavingsRate.StringFixed(2) != "60.00" {
		t.Errorf("Expected savings rate 60.00, got %s", report.SavingsRate)
	}
}

func TestMonthlyReport_NoIncome(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	reportService := NewReportService(transactionRepo)

	userID := uuid.New()
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, Type: domain.TransactionTypeExpense, Category: "food",
		Amount: decimal.NewFromInt(200), Date: time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
	})

	report, err := reportService.Monthly(userID, "2026-09")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !report.Savings.Equal(decimal.NewFromInt(-200)) {
		t.Errorf("Expected savings -200, got %s", report.Savings)
	}
	if !report.SavingsRate.IsZero() {
		t.Errorf("Expected zero savings rate with no income, got %s", report.SavingsRate)
	}
}

func TestMonthlyReport_EmptyMonth(t *testing.T) {
	reportService := NewReportService(testutil.NewMockTransactionRepository())

	report, err := reportService.Monthly(uuid.New(), "2026-09")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !report.Income.IsZero() || !report.Expense.IsZero() || !report.Savings.IsZero() {
		t.Errorf("Expected all-zero report, got %+v", report)
	}
}

func TestMonthlyReport_ExcludesOtherMonths(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	reportService := NewReportService(transactionRepo)

	userID := uuid.New()
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, Type: domain.TransactionTypeIncome, Category: "salary",
		Amount: decimal.NewFromInt(999), Date: time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, Type: domain.TransactionTypeIncome, Category: "salary",
		Amount: decimal.NewFromInt(100), Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})

	report, err := reportService.Monthly(userID, "2026-09")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !report.Income.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected only September income 100, got %s", report.Income)
	}
}

func TestMonthlyReport_InvalidMonth(t *testing.T) {
	reportService := NewReportService(testutil.NewMockTransactionRepository())

	_, err := reportService.Monthly(uuid.New(), "09-2026")
	if !errors.Is(err, domain.ErrInvalidMonth) {
		t.Errorf("Expected ErrInvalidMonth, got %v", err)
	}
}
