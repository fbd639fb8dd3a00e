package postgres

import (
	"context"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, category, amount, month, created_at, updated_at`

// Create persists a new budget. A duplicate (user, category, month) maps to
// ErrBudgetExists.
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO budgets (user_id, category, amount, month)
		VALUES ($1, $2, $3, $4)
		RETURNING `+budgetColumns,
		uuidToPgUUID(budget.UserID), budget.Category, amount, budget.Month)

	created, err := scanBudget(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrBudgetExists
		}
		return nil, err
	}
	return created, nil
}

// Exists reports whether a budget is already stored for the tuple
func (r *BudgetRepository) Exists(userID uuid.UUID, category string, month time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(), `
		SELECT EXISTS (
			SELECT 1 FROM budgets
			WHERE user_id = $1 AND category = $2 AND month = $3
		)`,
		uuidToPgUUID(userID), category, month).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// GetByUserForRange returns the user's budgets with month in [start, end),
// ordered by category for stable output.
func (r *BudgetRepository) GetByUserForRange(userID uuid.UUID, start, end time.Time) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1 AND month >= $2 AND month < $3
		ORDER BY category`,
		uuidToPgUUID(userID), start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []*domain.Budget{}
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return budgets, nil
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		b         domain.Budget
		userID    pgtype.UUID
		amount    pgtype.Numeric
		month     pgtype.Timestamptz
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&b.ID, &userID, &b.Category, &amount, &month,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	b.UserID = uuid.UUID(userID.Bytes)
	b.Amount = pgNumericToDecimal(amount)
	b.Month = month.Time
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}
