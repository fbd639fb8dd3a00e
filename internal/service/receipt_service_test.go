package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/centsible/centsible-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func newReceiptFixture() (*testutil.MockReceiptRepository, *testutil.MockTransactionRepository, *ReceiptService) {
	receiptRepo := testutil.NewMockReceiptRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	transactionService := NewTransactionService(transactionRepo, testutil.NewMockPublisher())
	return receiptRepo, transactionRepo, NewReceiptService(receiptRepo, transactionService)
}

func TestUploadReceipt_Success(t *testing.T) {
	receiptRepo, transactionRepo, receiptService := newReceiptFixture()

	userID := uuid.New()
	created := transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, Type: domain.TransactionTypeExpense, Category: "food",
		Amount: decimal.NewFromInt(10), Date: time.Now(),
	})

	metadata, err := receiptService.Upload(context.Background(), userID, created.ID, pngBytes(t, 100, 100), "receipt.png")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if metadata.ID == "" {
		t.Error("Expected a receipt ID")
	}
	if len(receiptRepo.Objects) != 3 {
		t.Errorf("Expected 3 stored variants, got %d", len(receiptRepo.Objects))
	}

	stored, err := transactionRepo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("Transaction vanished: %v", err)
	}
	if stored.ReceiptURL == nil || !strings.HasSuffix(*stored.ReceiptURL, "_display.jpg") {
		t.Errorf("Expected display path recorded on transaction, got %v", stored.ReceiptURL)
	}
}

func TestUploadReceipt_OtherUsersTransaction(t *testing.T) {
	_, transactionRepo, receiptService := newReceiptFixture()

	created := transactionRepo.AddTransaction(&domain.Transaction{
		UserID: uuid.New(), Type: domain.TransactionTypeExpense, Category: "food",
		Amount: decimal.NewFromInt(10), Date: time.Now(),
	})

	_, err := receiptService.Upload(context.Background(), uuid.New(), created.ID, pngBytes(t, 100, 100), "receipt.png")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestUploadReceipt_TooSmall(t *testing.T) {
	_, transactionRepo, receiptService := newReceiptFixture()

	userID := uuid.New()
	created := transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, Type: domain.TransactionTypeExpense, Category: "food",
		Amount: decimal.NewFromInt(10), Date: time.Now(),
	})

	_, err := receiptService.Upload(context.Background(), userID, created.ID, pngBytes(t, 20, 20), "receipt.png")
	if !errors.Is(err, ErrReceiptTooSmall) {
		t.Errorf("Expected ErrReceiptTooSmall, got %v", err)
	}
}

func TestUploadReceipt_BadExtension(t *testing.T) {
	_, transactionRepo, receiptService := newReceiptFixture()

	userID := uuid.New()
	created := transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, Type: domain.TransactionTypeExpense, Category: "food",
		Amount: decimal.NewFromInt(10), Date: time.Now(),
	})

	_, err := receiptService.Upload(context.Background(), userID, created.ID, pngBytes(t, 100, 100), "receipt.pdf")
	if !errors.Is(err, ErrInvalidReceiptFormat) {
		t.Errorf("Expected ErrInvalidReceiptFormat, got %v", err)
	}
}

func TestUploadReceipt_GarbageData(t *testing.T) {
	_, transactionRepo, receiptService := newReceiptFixture()

	userID := uuid.New()
	created := transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, Type: domain.TransactionTypeExpense, Category: "food",
		Amount: decimal.NewFromInt(10), Date: time.Now(),
	})

	_, err := receiptService.Upload(context.Background(), userID, created.ID, []byte("not an image"), "receipt.png")
	if !errors.Is(err, ErrInvalidReceiptData) {
		t.Errorf("Expected ErrInvalidReceiptData, got %v", err)
	}
}

func TestDeleteReceipt_Success(t *testing.T) {
	receiptRepo, transactionRepo, receiptService := newReceiptFixture()

	userID := uuid.New()
	created := transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, Type: domain.TransactionTypeExpense, Category: "food",
		Amount: decimal.NewFromInt(10), Date: time.Now(),
	})

	if _, err := receiptService.Upload(context.Background(), userID, created.ID, pngBytes(t, 100, 100), "receipt.png"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if err := receiptService.Delete(context.Background(), userID, created.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(receiptRepo.Objects) != 0 {
		t.Errorf("Expected all variants deleted, %d remain", len(receiptRepo.Objects))
	}
	stored, _ := transactionRepo.GetByID(created.ID)
	if stored.ReceiptURL != nil {
		t.Errorf("Expected receipt path cleared, got %v", *stored.ReceiptURL)
	}
}

func TestDeleteReceipt_NoReceipt(t *testing.T) {
	_, transactionRepo, receiptService := newReceiptFixture()

	userID := uuid.New()
	created := transactionRepo.AddTransaction(&domain.Transaction{
		UserID: userID, Type: domain.TransactionTypeExpense, Category: "food",
		Amount: decimal.NewFromInt(10), Date: time.Now(),
	})

	if err := receiptService.Delete(context.Background(), userID, created.ID); !errors.Is(err, ErrNoReceipt) {
		t.Errorf("Expected ErrNoReceipt, got %v", err)
	}
}

func TestReceiptService_Disabled(t *testing.T) {
	transactionService := NewTransactionService(testutil.NewMockTransactionRepository(), testutil.NewMockPublisher())
	receiptService := NewReceiptService(nil, transactionService)

	if receiptService.IsEnabled() {
		t.Error("Expected service disabled without storage")
	}
	_, err := receiptService.Upload(context.Background(), uuid.New(), 1, nil, "x.png")
	if !errors.Is(err, ErrReceiptStorageNotEnabled) {
		t.Errorf("Expected ErrReceiptStorageNotEnabled, got %v", err)
	}
}
