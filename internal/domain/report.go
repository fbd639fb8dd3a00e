package domain

import "github.com/shopspring/decimal"

// MonthlyReport is the income/expense/savings rollup for one calendar month.
// It is a pure function of the ledger at read time; nothing is persisted.
type MonthlyReport struct {
	Month       string          `json:"month"` // YYYY-MM
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
	Savings     decimal.Decimal `json:"savings"`
	SavingsRate decimal.Decimal `json:"savingsRate"`
}
