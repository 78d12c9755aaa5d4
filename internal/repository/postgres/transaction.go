package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/logger"
	"github.com/SkAltmash/ZapSplit/internal/repository"
)

const selectTransaction = `SELECT id, user_id, type, amount, counterparty_id, counterparty_email, note, status, correlation_id, split_source, payment_ref, order_ref, created_at
                           FROM transactions`

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// execContexter covers *sql.DB and *sql.Tx so the insert is shared
// between the direct repository and the ledger transaction.
type execContexter interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertTransaction(ctx context.Context, db execContexter, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, user_id, type, amount, counterparty_id, counterparty_email, note, status, correlation_id, split_source, payment_ref, order_ref, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now()) RETURNING created_at`
	logger.DatabaseCall("INSERT", "transactions", "id", t.ID, "type", t.Type, "userID", t.UserID)
	return db.QueryRowContext(ctx, query,
		t.ID, t.UserID, t.Type, t.Amount,
		nullIfEmpty(t.CounterpartyID), nullIfEmpty(t.CounterpartyEmail),
		t.Note, t.Status, t.CorrelationID, t.SplitSource,
		nullIfEmpty(t.PaymentRef), nullIfEmpty(t.OrderRef),
	).Scan(&t.CreatedAt)
}

func scanTransaction(row scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	var counterpartyID, counterpartyEmail, paymentRef, orderRef sql.NullString
	err := row.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &counterpartyID, &counterpartyEmail, &t.Note, &t.Status, &t.CorrelationID, &t.SplitSource, &paymentRef, &orderRef, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.CounterpartyID = counterpartyID.String
	t.CounterpartyEmail = counterpartyEmail.String
	t.PaymentRef = paymentRef.String
	t.OrderRef = orderRef.String
	return &t, nil
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	return insertTransaction(ctx, r.db, t)
}

func (r *transactionRepository) GetByID(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	return scanTransaction(r.db.QueryRowContext(ctx, selectTransaction+` WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID string, page, pageSize int32) ([]domain.Transaction, int32, error) {
	offset := (page - 1) * pageSize
	query := selectTransaction + ` WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var count int32
	countQuery := `SELECT count(*) FROM transactions WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		txns = append(txns, *t)
	}
	return txns, count, rows.Err()
}

func (r *transactionRepository) MarkSplitSource(ctx context.Context, userID, id string) error {
	query := `UPDATE transactions SET split_source = TRUE WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
