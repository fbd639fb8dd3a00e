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

func TestCreateTransaction_Success(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	publisher := testutil.NewMockPublisher()
	transactionService := NewTransactionService(transactionRepo, publisher)

	userID := uuid.New()
	transaction, err := transactionService.Create(userID, CreateTransactionInput{
		Type:     domain.TransactionTypeExpense,
		Category: "  Food  ",
		Amount:   decimal.RequireFromString("12.50"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if transaction.Category != "food" {
		t.Errorf("Expected normalized category 'food', got %q", transaction.Category)
	}
	if transaction.Date.IsZero() {
		t.Error("Expected date to default to now")
	}
	if types := publisher.EventTypes(); len(types) != 1 || types[0] != "transaction.created" {
		t.Errorf("Expected transaction.created event, got %v", types)
	}
}

func TestCreateTransaction_InvalidType(t *testing.T) {
	transactionService := NewTransactionService(testutil.NewMockTransactionRepository(), testutil.NewMockPublisher())

	_, err := transactionService.Create(uuid.New(), CreateTransactionInput{
		Type:     "Income", // case-sensitive enum
		Category: "salary",
		Amount:   decimal.NewFromInt(100),
	})

	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected ValidationErrors, got %v", err)
	}
	if verrs[0].Field != "type" {
		t.Errorf("Expected type error, got %v", verrs)
	}
}

func TestCreateTransaction_AmountBounds(t *testing.T) {
	transactionService := NewTransactionService(testutil.NewMockTransactionRepository(), testutil.NewMockPublisher())
	userID := uuid.New()

	for _, amount := range []string{"0", "-5", "100000000.00", "1.999"} {
		_, err := transactionService.Create(userID, CreateTransactionInput{
			Type:     domain.TransactionTypeExpense,
			Category: "food",
			Amount:   decimal.RequireFromString(amount),
		})
		var verrs domain.ValidationErrors
		if !errors.As(err, &verrs) {
			t.Errorf("Amount %s: expected ValidationErrors, got %v", amount, err)
		}
	}
}

func TestListTransactions_Pagination(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	transactionService := NewTransactionService(transactionRepo, testutil.NewMockPublisher())

	userID := uuid.New()
	for i := 0; i < 15; i++ {
		transactionRepo.AddTransaction(&domain.Transaction{
			UserID:   userID,
			Type:     domain.TransactionTypeExpense,
			Category: "food",
			Amount:   decimal.NewFromInt(int64(i + 1)),
			Date:     time.Now().Add(-time.Duration(i) * time.Hour),
		})
	}

	page1, err := transactionService.List(userID, 1, 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(page1.Data) != 10 {
		t.Errorf("Expected 10 items on page 1, got %d", len(page1.Data))
	}
	if page1.TotalItems != 15 {
		t.Errorf("Expected 15 total items, got %d", page1.TotalItems)
	}
	if page1.TotalPages != 2 {
		t.Errorf("Expected 2 total pages, got %d", page1.TotalPages)
	}

	page2, err := transactionService.List(userID, 2, 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(page2.Data) != 5 {
		t.Errorf("Expected 5 items on page 2, got %d", len(page2.Data))
	}

	// Newest first
	if !page1.Data[0].Date.After(page1.Data[9].Date) {
		t.Error("Expected transactions ordered newest first")
	}
}

func TestListTransactions_ClampsPageSize(t *testing.T) {
	transactionService := NewTransactionService(testutil.NewMockTransactionRepository(), testutil.NewMockPublisher())

	result, err := transactionService.List(uuid.New(), 0, 500)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Page != 1 {
		t.Errorf("Expected page clamped to 1, got %d", result.Page)
	}
	if result.PageSize != domain.MaxPageSize {
		t.Errorf("Expected page size clamped to %d, got %d", domain.MaxPageSize, result.PageSize)
	}
}

func TestGetTransaction_OtherUsersRecord(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	transactionService := NewTransactionService(transactionRepo, testutil.NewMockPublisher())

	owner := uuid.New()
	created := transactionRepo.AddTransaction(&domain.Transaction{
		UserID:   owner,
		Type:     domain.TransactionTypeExpense,
		Category: "food",
		Amount:   decimal.NewFromInt(10),
		Date:     time.Now(),
	})

	_, err := transactionService.Get(uuid.New(), created.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestGetTransaction_NotFound(t *testing.T) {
	transactionService := NewTransactionService(testutil.NewMockTransactionRepository(), testutil.NewMockPublisher())

	_, err := transactionService.Get(uuid.New(), 42)
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestUpdateTransaction_Success(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	publisher := testutil.NewMockPublisher()
	transactionService := NewTransactionService(transactionRepo, publisher)

	userID := uuid.New()
	created := transactionRepo.AddTransaction(&domain.Transaction{
		UserID:   userID,
		Type:     domain.TransactionTypeExpense,
		Category: "food",
		Amount:   decimal.NewFromInt(10),
		Date:     time.Now(),
	})

	category := "Groceries"
	amount := decimal.RequireFromString("20.00")
	updated, err := transactionService.Update(userID, created.ID, &domain.UpdateTransactionData{
		Category: &category,
		Amount:   &amount,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.Category != "groceries" {
		t.Errorf("Expected normalized category 'groceries', got %q", updated.Category)
	}
	if !updated.Amount.Equal(amount) {
		t.Errorf("Expected amount 20.00, got %s", updated.Amount)
	}
	if types := publisher.EventTypes(); len(types) != 1 || types[0] != "transaction.updated" {
		t.Errorf("Expected transaction.updated event, got %v", types)
	}
}

func TestUpdateTransaction_OtherUsersRecord(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	transactionService := NewTransactionService(transactionRepo, testutil.NewMockPublisher())

	created := transactionRepo.AddTransaction(&domain.Transaction{
		UserID:   uuid.New(),
		Type:     domain.TransactionTypeExpense,
		Category: "food",
		Amount:   decimal.NewFromInt(10),
		Date:     time.Now(),
	})

	category := "travel"
	_, err := transactionService.Update(uuid.New(), created.ID, &domain.UpdateTransactionData{Category: &category})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestDeleteTransaction_Success(t *testing.T) {
	transactionRepo := testutil.NewMockTransactionRepository()
	publisher := testutil.NewMockPublisher()
	transactionService := NewTransactionService(transactionRepo, publisher)

	userID := uuid.New()
	created := transactionRepo.AddTransaction(&domain.Transaction{
		UserID:   userID,
		Type:     domain.TransactionTypeExpense,
		Category: "food",
		Amount:   decimal.NewFromInt(10),
		Date:     time.Now(),
	})

	if _, err := transactionService.Delete(userID, created.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := transactionService.Get(userID, created.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected record to be gone, got %v", err)
	}
	if types := publisher.EventTypes(); len(types) != 1 || types[0] != "transaction.deleted" {
		t.Errorf("Expected transaction.deleted event, got %v", types)
	}
}
