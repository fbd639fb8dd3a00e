package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is an account holder. PasswordHash is opaque to everything but the
// auth service.
type User struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	PasswordHash       string          `json:"-"`
	CurrencyPreference string          `json:"currencyPreference"`
	MonthlyIncome      decimal.Decimal `json:"monthlyIncome"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// UpdateUserData carries a partial profile update. Nil means "leave unchanged".
type UpdateUserData struct {
	Name               *string
	Email              *string
	CurrencyPreference *string
	MonthlyIncome      *decimal.Decimal
}

// Validation constants
const (
	MinUserNameLength = 2
	MaxUserNameLength = 100
	MinPasswordLength = 8
)

type UserRepository interface {
	Create(user *User) (*User, error)
	GetByID(id uuid.UUID) (*User, error)
	GetByEmail(email string) (*User, error)
	Update(id uuid.UUID, data *UpdateUserData) (*User, error)
	// DeleteCascade removes the user together with all owned transactions and
	// budgets in a single store transaction.
	DeleteCascade(id uuid.UUID) error
}
