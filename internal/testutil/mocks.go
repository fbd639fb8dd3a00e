package testutil

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	ws "github.com/centsible/centsible-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockUserRepository is an in-memory implementation of domain.UserRepository
type MockUserRepository struct {
	ByID    map[uuid.UUID]*domain.User
	ByEmail map[string]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:    make(map[uuid.UUID]*domain.User),
		ByEmail: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.ByID[user.ID] = user
	m.ByEmail[strings.ToLower(user.Email)] = user
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if _, ok := m.ByEmail[strings.ToLower(user.Email)]; ok {
		return nil, domain.ErrEmailTaken
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	m.AddUser(user)
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email, case-insensitively
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[strings.ToLower(email)]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// Update applies a partial profile update
func (m *MockUserRepository) Update(id uuid.UUID, data *domain.UpdateUserData) (*domain.User, error) {
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if data.Email != nil {
		if other, taken := m.ByEmail[strings.ToLower(*data.Email)]; taken && other.ID != id {
			return nil, domain.ErrEmailTaken
		}
		delete(m.ByEmail, strings.ToLower(user.Email))
		user.Email = *data.Email
		m.ByEmail[strings.ToLower(user.Email)] = user
	}
	if data.Name != nil {
		user.Name = *data.Name
	}
	if data.CurrencyPreference != nil {
		user.CurrencyPreference = *data.CurrencyPreference
	}
	if data.MonthlyIncome != nil {
		user.MonthlyIncome = *data.MonthlyIncome
	}
	user.UpdatedAt = time.Now().UTC()
	return user, nil
}

// DeleteCascade removes the user
func (m *MockUserRepository) DeleteCascade(id uuid.UUID) error {
	user, ok := m.ByID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(m.ByEmail, strings.ToLower(user.Email))
	delete(m.ByID, id)
	return nil
}

// MockTransactionRepository is an in-memory implementation of
// domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	nextID       int32
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		nextID:       1,
	}
}

// AddTransaction adds a transaction with an assigned ID (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) *domain.Transaction {
	created, _ := m.Create(transaction)
	return created
}

// Create persists a new transaction record
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	clone := *transaction
	clone.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	m.Transactions[clone.ID] = &clone
	return &clone, nil
}

// GetByID retrieves a transaction by its primary key
func (m *MockTransactionRepository) GetByID(id int32) (*domain.Transaction, error) {
	if transaction, ok := m.Transactions[id]; ok {
		return transaction, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// GetByUser returns one page of the user's transactions, newest first
func (m *MockTransactionRepository) GetByUser(userID uuid.UUID, page, pageSize int32) (*domain.PaginatedTransactions, error) {
	owned := []*domain.Transaction{}
	for _, transaction := range m.Transactions {
		if transaction.UserID == userID {
			owned = append(owned, transaction)
		}
	}
	// Newest first
	for i := 0; i < len(owned); i++ {
		for j := i + 1; j < len(owned); j++ {
			if owned[j].Date.After(owned[i].Date) {
				owned[i], owned[j] = owned[j], owned[i]
			}
		}
	}

	totalItems := int64(len(owned))
	totalPages := int32(0)
	if totalItems > 0 {
		totalPages = int32((totalItems + int64(pageSize) - 1) / int64(pageSize))
	}

	start := int((page - 1) * pageSize)
	if start > len(owned) {
		start = len(owned)
	}
	end := start + int(pageSize)
	if end > len(owned) {
		end = len(owned)
	}

	return &domain.PaginatedTransactions{
		Data:       owned[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// Update applies a partial update
func (m *MockTransactionRepository) Update(id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	if data.Type != nil {
		transaction.Type = *data.Type
	}
	if data.Category != nil {
		transaction.Category = *data.Category
	}
	if data.Amount != nil {
		transaction.Amount = *data.Amount
	}
	if data.Description != nil {
		transaction.Description = data.Description
	}
	if data.Date != nil {
		transaction.Date = *data.Date
	}
	if data.ReceiptURL != nil {
		transaction.ReceiptURL = data.ReceiptURL
	}
	transaction.UpdatedAt = time.Now().UTC()
	return transaction, nil
}

// SetReceiptURL overwrites the receipt object path, nil included
func (m *MockTransactionRepository) SetReceiptURL(id int32, receiptURL *string) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.ReceiptURL = receiptURL
	transaction.UpdatedAt = time.Now().UTC()
	return transaction, nil
}

// Delete removes a transaction and returns the deleted record
func (m *MockTransactionRepository) Delete(id int32) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return transaction, nil
}

// SumExpensesByCategory sums expense amounts per category for [start, end)
func (m *MockTransactionRepository) SumExpensesByCategory(userID uuid.UUID, start, end time.Time) ([]*domain.CategorySum, error) {
	totals := map[string]decimal.Decimal{}
	for _, transaction := range m.Transactions {
		if transaction.UserID != userID || transaction.Type != domain.TransactionTypeExpense {
			continue
		}
		if transaction.Date.Before(start) || !transaction.Date.Before(end) {
			continue
		}
		totals[transaction.Category] = totals[transaction.Category].Add(transaction.Amount)
	}
	sums := []*domain.CategorySum{}
	for category, total := range totals {
		sums = append(sums, &domain.CategorySum{Category: category, Total: total})
	}
	return sums, nil
}

// SumByType sums amounts per transaction type for [start, end)
func (m *MockTransactionRepository) SumByType(userID uuid.UUID, start, end time.Time) ([]*domain.TypeSum, error) {
	totals := map[domain.TransactionType]decimal.Decimal{}
	for _, transaction := range m.Transactions {
		if transaction.UserID != userID {
			continue
		}
		if transaction.Date.Before(start) || !transaction.Date.Before(end) {
			continue
		}
		totals[transaction.Type] = totals[transaction.Type].Add(transaction.Amount)
	}
	sums := []*domain.TypeSum{}
	for transactionType, total := range totals {
		sums = append(sums, &domain.TypeSum{Type: transactionType, Total: total})
	}
	return sums, nil
}

// MockBudgetRepository is an in-memory implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[int32]*domain.Budget
	nextID  int32
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[int32]*domain.Budget),
		nextID:  1,
	}
}

// Create persists a budget, enforcing the (user, category, month) constraint
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	exists, _ := m.Exists(budget.UserID, budget.Category, budget.Month)
	if exists {
		return nil, domain.ErrBudgetExists
	}
	clone := *budget
	clone.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	m.Budgets[clone.ID] = &clone
	return &clone, nil
}

// Exists reports whether a budget is stored for the exact tuple
func (m *MockBudgetRepository) Exists(userID uuid.UUID, category string, month time.Time) (bool, error) {
	for _, budget := range m.Budgets {
		if budget.UserID == userID && budget.Category == category && budget.Month.Equal(month) {
			return true, nil
		}
	}
	return false, nil
}

// GetByUserForRange returns the user's budgets with month in [start, end)
func (m *MockBudgetRepository) GetByUserForRange(userID uuid.UUID, start, end time.Time) ([]*domain.Budget, error) {
	budgets := []*domain.Budget{}
	for _, budget := range m.Budgets {
		if budget.UserID != userID {
			continue
		}
		if budget.Month.Before(start) || !budget.Month.Before(end) {
			continue
		}
		budgets = append(budgets, budget)
	}
	return budgets, nil
}

// MockPublisher records published events for assertions
type MockPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// PublishedEvent is one captured Publish call
type PublishedEvent struct {
	UserID uuid.UUID
	Event  ws.Event
}

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records the event
func (m *MockPublisher) Publish(userID uuid.UUID, event ws.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// EventTypes returns the types of all captured events in order
func (m *MockPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Event.Type
	}
	return types
}

// MockReceiptRepository is an in-memory implementation of
// storage.ReceiptRepository
type MockReceiptRepository struct {
	Objects map[string][]byte
}

// NewMockReceiptRepository creates a new MockReceiptRepository
func NewMockReceiptRepository() *MockReceiptRepository {
	return &MockReceiptRepository{Objects: make(map[string][]byte)}
}

// Upload stores the object in memory
func (m *MockReceiptRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.Objects[objectPath] = buf
	return objectPath, nil
}

// Delete removes the object
func (m *MockReceiptRepository) Delete(ctx context.Context, objectPath string) error {
	delete(m.Objects, objectPath)
	return nil
}

// GeneratePresignedURL returns a fake URL for the object
func (m *MockReceiptRepository) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.example.com/%s?expires=%d", objectPath, int(expiry.Seconds())), nil
}
