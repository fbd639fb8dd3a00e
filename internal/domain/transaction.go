package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the two known values. The enum is
// case-sensitive.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single dated income or expense record. Amount is always
// positive; the sign is carried by Type.
type Transaction struct {
	ID          int32           `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	ReceiptURL  *string         `json:"receiptUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// UpdateTransactionData carries a partial update. Nil fields are left
// unchanged.
type UpdateTransactionData struct {
	Type        *TransactionType
	Category    *string
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
	ReceiptURL  *string
}

// Validation constants
const (
	MaxCategoryLength    = 50
	MaxDescriptionLength = 200

	DefaultPageSize = 10
	MaxPageSize     = 100
)

// MaxAmount is the ceiling for any monetary amount in the system.
var MaxAmount = decimal.RequireFromString("99999999.99")

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"currentPage"`
	PageSize   int32          `json:"itemsPerPage"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

// CategorySum is a per-category spend aggregate for a date range.
type CategorySum struct {
	Category string
	Total    decimal.Decimal
}

// TypeSum is a per-type aggregate for a date range.
type TypeSum struct {
	Type  TransactionType
	Total decimal.Decimal
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	// GetByID looks the record up by primary key alone; ownership is the
	// service's concern so "exists but not yours" stays distinguishable from
	// "does not exist".
	GetByID(id int32) (*Transaction, error)
	GetByUser(userID uuid.UUID, page, pageSize int32) (*PaginatedTransactions, error)
	Update(id int32, data *UpdateTransactionData) (*Transaction, error)
	// SetReceiptURL overwrites the receipt object path, nil included, which the
	// partial Update cannot express.
	SetReceiptURL(id int32, receiptURL *string) (*Transaction, error)
	Delete(id int32) (*Transaction, error)
	// SumExpensesByCategory groups the user's expense transactions with date in
	// [start, end) by category and sums their amounts.
	SumExpensesByCategory(userID uuid.UUID, start, end time.Time) ([]*CategorySum, error)
	// SumByType groups the user's transactions with date in [start, end) by
	// type and sums their amounts.
	SumByType(userID uuid.UUID, start, end time.Time) ([]*TypeSum, error)
}
