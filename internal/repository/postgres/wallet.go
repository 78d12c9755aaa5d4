package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/repository"
)

type walletRepository struct {
	db *sql.DB
}

func NewWalletRepository(db *sql.DB) repository.WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (user_id, balance, credit_limit, used_credit, pay_later_enabled, pay_later_status, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, now()) RETURNING updated_at`
	return r.db.QueryRowContext(ctx, query, w.UserID, w.Balance, w.CreditLimit, w.UsedCredit, w.PayLaterEnabled, w.PayLaterStatus).Scan(&w.UpdatedAt)
}

func (r *walletRepository) Get(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `SELECT user_id, balance, credit_limit, used_credit, pay_later_enabled, pay_later_status, updated_at
	          FROM wallets WHERE user_id = $1`
	var w domain.Wallet
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&w.UserID, &w.Balance, &w.CreditLimit, &w.UsedCredit, &w.PayLaterEnabled, &w.PayLaterStatus, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdatePayLaterTerms writes only the credit-program fields. Balance
// and used credit are owned by the ledger transaction path.
func (r *walletRepository) UpdatePayLaterTerms(ctx context.Context, w *domain.Wallet) error {
	query := `UPDATE wallets SET credit_limit = $2, pay_later_enabled = $3, pay_later_status = $4, updated_at = now() WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, w.UserID, w.CreditLimit, w.PayLaterEnabled, w.PayLaterStatus)
	if err != nil {
		return err
	}
	return requireRow(res)
}
