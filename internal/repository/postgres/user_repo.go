package postgres

import (
	"context"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, currency_preference, monthly_income, created_at, updated_at`

// Create persists a new user. A duplicate email maps to ErrEmailTaken.
func (r *UserRepository) Create(user *domain.User) (*domain.User, error) {
	income, err := decimalToPgNumeric(user.MonthlyIncome)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO users (name, email, password_hash, currency_preference, monthly_income)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		user.Name, user.Email, user.PasswordHash, user.CurrencyPreference, income)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE id = $1`, uuidToPgUUID(id))

	user, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(email string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)

	user, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update applies a partial profile update, leaving nil fields unchanged
func (r *UserRepository) Update(id uuid.UUID, data *domain.UpdateUserData) (*domain.User, error) {
	var income pgtype.Numeric
	if data.MonthlyIncome != nil {
		var err error
		income, err = decimalToPgNumeric(*data.MonthlyIncome)
		if err != nil {
			return nil, err
		}
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE users SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			currency_preference = COALESCE($4, currency_preference),
			monthly_income = COALESCE($5, monthly_income),
			updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		uuidToPgUUID(id), stringPtrToPgText(data.Name), stringPtrToPgText(data.Email),
		stringPtrToPgText(data.CurrencyPreference), income)

	user, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// DeleteCascade removes the user and all owned transactions and budgets in a
// single database transaction so no orphaned financial records remain.
func (r *UserRepository) DeleteCascade(id uuid.UUID) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1`, uuidToPgUUID(id)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM budgets WHERE user_id = $1`, uuidToPgUUID(id)); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, uuidToPgUUID(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return tx.Commit(ctx)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u         domain.User
		id        pgtype.UUID
		income    pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash,
		&u.CurrencyPreference, &income, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	u.ID = uuid.UUID(id.Bytes)
	u.MonthlyIncome = pgNumericToDecimal(income)
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	return &u, nil
}
