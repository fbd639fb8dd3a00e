package service

import (
	"strings"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	ws "github.com/centsible/centsible-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionService handles income and expense records
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	publisher       ws.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, publisher ws.EventPublisher) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		publisher:       publisher,
	}
}

// CreateTransactionInput carries a new transaction request. Date is optional
// and defaults to now.
type CreateTransactionInput struct {
	Type        domain.TransactionType
	Category    string
	Amount      decimal.Decimal
	Description *string
	Date        *time.Time
}

// Create validates and persists a new transaction for the user
func (s *TransactionService) Create(userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	var verrs domain.ValidationErrors

	if !input.Type.Valid() {
		verrs.Add("type", "type must be either income or expense")
	}

	category := normalizeCategory(input.Category)
	if category == "" || len(category) > domain.MaxCategoryLength {
		verrs.Add("category", "category must be between 1 and 50 characters")
	}

	validateAmount(input.Amount, &verrs)

	if input.Description != nil && len(*input.Description) > domain.MaxDescriptionLength {
		verrs.Add("description", "description cannot exceed 200 characters")
	}

	if err := verrs.Err(); err != nil {
		return nil, err
	}

	date := time.Now().UTC()
	if input.Date != nil {
		date = input.Date.UTC()
	}

	transaction := &domain.Transaction{
		UserID:      userID,
		Type:        input.Type,
		Category:    category,
		Amount:      input.Amount,
		Description: input.Description,
		Date:        date,
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create transaction")
		return nil, err
	}

	s.publisher.Publish(userID, ws.TransactionCreated(created))
	return created, nil
}

// List returns one page of the user's transactions, newest first. Page and
// pageSize are clamped to sane values.
func (s *TransactionService) List(userID uuid.UUID, page, pageSize int32) (*domain.PaginatedTransactions, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}

	return s.transactionRepo.GetByUser(userID, page, pageSize)
}

// Get returns a single transaction owned by the user. A transaction that
// exists but belongs to someone else yields ErrForbidden, not ErrNotFound.
func (s *TransactionService) Get(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if transaction.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return transaction, nil
}

// Update validates and applies a partial update to a transaction the user owns
func (s *TransactionService) Update(userID uuid.UUID, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	if _, err := s.Get(userID, id); err != nil {
		return nil, err
	}

	var verrs domain.ValidationErrors

	if data.Type != nil && !data.Type.Valid() {
		verrs.Add("type", "type must be either income or expense")
	}

	if data.Category != nil {
		category := normalizeCategory(*data.Category)
		if category == "" || len(category) > domain.MaxCategoryLength {
			verrs.Add("category", "category must be between 1 and 50 characters")
		} else {
			data.Category = &category
		}
	}

	if data.Amount != nil {
		validateAmount(*data.Amount, &verrs)
	}

	if data.Description != nil && len(*data.Description) > domain.MaxDescriptionLength {
		verrs.Add("description", "description cannot exceed 200 characters")
	}

	if err := verrs.Err(); err != nil {
		return nil, err
	}

	if data.Date != nil {
		utc := data.Date.UTC()
		data.Date = &utc
	}

	updated, err := s.transactionRepo.Update(id, data)
	if err != nil {
		log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to update transaction")
		return nil, err
	}

	s.publisher.Publish(userID, ws.TransactionUpdated(updated))
	return updated, nil
}

// Delete removes a transaction the user owns and returns the deleted record
func (s *TransactionService) Delete(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	if _, err := s.Get(userID, id); err != nil {
		return nil, err
	}

	deleted, err := s.transactionRepo.Delete(id)
	if err != nil {
		log.Error().Err(err).Int32("transaction_id", id).Msg("Failed to delete transaction")
		return nil, err
	}

	s.publisher.Publish(userID, ws.TransactionDeleted(deleted))
	return deleted, nil
}

// SetReceiptURL stores the receipt object path on a transaction the user owns
func (s *TransactionService) SetReceiptURL(userID uuid.UUID, id int32, receiptURL *string) (*domain.Transaction, error) {
	if _, err := s.Get(userID, id); err != nil {
		return nil, err
	}

	updated, err := s.transactionRepo.SetReceiptURL(id, receiptURL)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, ws.TransactionUpdated(updated))
	return updated, nil
}

// normalizeCategory trims and lowercases so "Food" and "food" are one category
func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

func validateAmount(amount decimal.Decimal, verrs *domain.ValidationErrors) {
	if !amount.IsPositive() {
		verrs.Add("amount", "amount must be positive")
		return
	}
	if amount.GreaterThan(domain.MaxAmount) {
		verrs.Add("amount", "amount cannot exceed 99999999.99")
		return
	}
	if amount.Exponent() < -2 {
		verrs.Add("amount", "amount cannot have more than 2 decimal places")
	}
}
