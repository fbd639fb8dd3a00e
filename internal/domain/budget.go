package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget is a per-category spending ceiling for one calendar month. Month is
// normalized to the first instant of the month in UTC, and at most one budget
// exists per (user, category, month); the store's unique index is the
// authoritative guard.
type Budget struct {
	ID        int32           `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Month     time.Time       `json:"month"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// BudgetWithSpending is a budget joined against actual category spend for its
// month. Computed at read time, never persisted.
type BudgetWithSpending struct {
	Budget
	TotalSpent decimal.Decimal `json:"totalSpent"`
	Overspent  bool            `json:"overspent"`
}

type BudgetRepository interface {
	// Create persists a budget and returns ErrBudgetExists when the
	// (user, category, month) unique constraint is violated.
	Create(budget *Budget) (*Budget, error)
	// Exists reports whether a budget is already stored for the exact
	// (user, category, month) tuple. Advisory pre-check only.
	Exists(userID uuid.UUID, category string, month time.Time) (bool, error)
	// GetByUserForRange returns the user's budgets with month in [start, end).
	GetByUserForRange(userID uuid.UUID, start, end time.Time) ([]*Budget, error)
}
