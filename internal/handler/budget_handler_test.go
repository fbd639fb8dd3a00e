package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/service"
	"github.com/centsible/centsible-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newBudgetHandler() (*BudgetHandler, *testutil.MockTransactionRepository) {
	budgetRepo := testutil.NewMockBudgetRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	budgetService := service.NewBudgetService(budgetRepo, transactionRepo, testutil.NewMockPublisher())
	return NewBudgetHandler(budgetService), transactionRepo
}

func TestCreateBudget_Created(t *testing.T) {
	handler, _ := newBudgetHandler()

	c, rec := newJSONContext(http.MethodPost, "/api/v1/budgets",
		`{"category":"Food","amount":"100.00","month":"2026-09"}`)
	asUser(c, uuid.New())

	if err := handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Category != "food" || response.Month != "2026-09" {
		t.Errorf("Unexpected budget response: %+v", response)
	}
}

func TestCreateBudget_DuplicateConflict(t *testing.T) {
	handler, _ := newBudgetHandler()
	userID := uuid.New()

	body := `{"category":"food","amount":"100.00","month":"2026-09"}`
	c, rec := newJSONContext(http.MethodPost, "/api/v1/budgets", body)
	asUser(c, userID)
	if err := handler.CreateBudget(c); err != nil || rec.Code != http.StatusCreated {
		t.Fatalf("First create failed: %v (%d)", err, rec.Code)
	}

	c, rec = newJSONContext(http.MethodPost, "/api/v1/budgets", body)
	asUser(c, userID)
	if err := handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestCreateBudget_InvalidMonth(t *testing.T) {
	handler, _ := newBudgetHandler()

	c, rec := newJSONContext(http.MethodPost, "/api/v1/budgets",
		`{"category":"food","amount":"100.00","month":"September"}`)
	asUser(c, uuid.New())

	if err := handler.CreateBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetBudgets_WithSpending(t *testing.T) {
	handler, transactionRepo := newBudgetHandler()
	userID := uuid.New()

	c, rec := newJSONContext(http.MethodPost, "/api/v1/budgets",
		`{"category":"food","amount":"100.00","month":"2026-09"}`)
	asUser(c, userID)
	if err := handler.CreateBudget(c); err != nil || rec.Code != http.StatusCreated {
		t.Fatalf("Create failed: %v (%d)", err, rec.Code)
	}

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, Type: domain.TransactionTypeExpense, Category: "food",
		Amount: decimal.NewFromInt(120), Date: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	})

	c, rec = newJSONContext(http.MethodGet, "/api/v1/budgets?month=2026-09", "")
	asUser(c, userID)
	if err := handler.GetBudgets(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response []BudgetWithSpendingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("Expected 1 budget, got %d", len(response))
	}
	if response[0].TotalSpent != "120.00" || !response[0].Overspent {
		t.Errorf("Expected overspent budget with 120.00 spent, got %+v", response[0])
	}
}

func TestGetBudgets_BadMonthQuery(t *testing.T) {
	handler, _ := newBudgetHandler()

	c, rec := newJSONContext(http.MethodGet, "/api/v1/budgets?month=nope", "")
	asUser(c, uuid.New())

	if err := handler.GetBudgets(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
