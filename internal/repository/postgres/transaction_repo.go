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

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, type, category, amount, description, date, receipt_url, created_at, updated_at`

// Create persists a new transaction record
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO transactions (user_id, type, category, amount, description, date, receipt_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+transactionColumns,
		uuidToPgUUID(transaction.UserID), string(transaction.Type), transaction.Category,
		amount, stringPtrToPgText(transaction.Description), transaction.Date,
		stringPtrToPgText(transaction.ReceiptURL))

	return scanTransaction(row)
}

// GetByID retrieves a transaction by its primary key
func (r *TransactionRepository) GetByID(id int32) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)

	transaction, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// GetByUser returns one page of the user's transactions, newest first, along
// with the totals the client needs to render pagination controls.
func (r *TransactionRepository) GetByUser(userID uuid.UUID, page, pageSize int32) (*domain.PaginatedTransactions, error) {
	ctx := context.Background()

	var totalItems int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM transactions WHERE user_id = $1`, uuidToPgUUID(userID)).Scan(&totalItems)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3`,
		uuidToPgUUID(userID), pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []*domain.Transaction{}
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int32(0)
	if totalItems > 0 {
		totalPages = int32((totalItems + int64(pageSize) - 1) / int64(pageSize))
	}

	return &domain.PaginatedTransactions{
		Data:       transactions,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// Update applies a partial update, leaving nil fields unchanged
func (r *TransactionRepository) Update(id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	var amount pgtype.Numeric
	if data.Amount != nil {
		var err error
		amount, err = decimalToPgNumeric(*data.Amount)
		if err != nil {
			return nil, err
		}
	}

	var transactionType pgtype.Text
	if data.Type != nil {
		transactionType = pgtype.Text{String: string(*data.Type), Valid: true}
	}

	var date pgtype.Timestamptz
	if data.Date != nil {
		date = pgtype.Timestamptz{Time: *data.Date, Valid: true}
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE transactions SET
			type = COALESCE($2, type),
			category = COALESCE($3, category),
			amount = COALESCE($4, amount),
			description = COALESCE($5, description),
			date = COALESCE($6, date),
			receipt_url = COALESCE($7, receipt_url),
			updated_at = now()
		WHERE id = $1
		RETURNING `+transactionColumns,
		id, transactionType, stringPtrToPgText(data.Category), amount,
		stringPtrToPgText(data.Description), date, stringPtrToPgText(data.ReceiptURL))

	transaction, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// SetReceiptURL overwrites the receipt object path, including clearing it
func (r *TransactionRepository) SetReceiptURL(id int32, receiptURL *string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE transactions SET receipt_url = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+transactionColumns,
		id, stringPtrToPgText(receiptURL))

	transaction, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// Delete removes a transaction and returns the deleted record
func (r *TransactionRepository) Delete(id int32) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(),
		`DELETE FROM transactions WHERE id = $1 RETURNING `+transactionColumns, id)

	transaction, err := scanTransaction(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// SumExpensesByCategory sums the user's expense amounts per category for
// transactions dated in [start, end).
func (r *TransactionRepository) SumExpensesByCategory(userID uuid.UUID, start, end time.Time) ([]*domain.CategorySum, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT category, COALESCE(sum(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = 'expense' AND date >= $2 AND date < $3
		GROUP BY category`,
		uuidToPgUUID(userID), start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := []*domain.CategorySum{}
	for rows.Next() {
		var (
			sum   domain.CategorySum
			total pgtype.Numeric
		)
		if err := rows.Scan(&sum.Category, &total); err != nil {
			return nil, err
		}
		sum.Total = pgNumericToDecimal(total)
		sums = append(sums, &sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sums, nil
}

// SumByType sums the user's amounts per transaction type for transactions
// dated in [start, end).
func (r *TransactionRepository) SumByType(userID uuid.UUID, start, end time.Time) ([]*domain.TypeSum, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT type, COALESCE(sum(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
		GROUP BY type`,
		uuidToPgUUID(userID), start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := []*domain.TypeSum{}
	for rows.Next() {
		var (
			typeName string
			total    pgtype.Numeric
		)
		if err := rows.Scan(&typeName, &total); err != nil {
			return nil, err
		}
		sums = append(sums, &domain.TypeSum{
			Type:  domain.TransactionType(typeName),
			Total: pgNumericToDecimal(total),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sums, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t               domain.Transaction
		userID          pgtype.UUID
		transactionType string
		amount          pgtype.Numeric
		description     pgtype.Text
		date            pgtype.Timestamptz
		receiptURL      pgtype.Text
		createdAt       pgtype.Timestamptz
		updatedAt       pgtype.Timestamptz
	)
	if err := row.Scan(&t.ID, &userID, &transactionType, &t.Category, &amount,
		&description, &date, &receiptURL, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.UserID = uuid.UUID(userID.Bytes)
	t.Type = domain.TransactionType(transactionType)
	t.Amount = pgNumericToDecimal(amount)
	t.Description = pgTextToStringPtr(description)
	t.Date = date.Time
	t.ReceiptURL = pgTextToStringPtr(receiptURL)
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	return &t, nil
}
