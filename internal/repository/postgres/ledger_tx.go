package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/logger"
	"github.com/SkAltmash/ZapSplit/internal/repository"

	"github.com/lib/pq"
)

// WithinTx runs fn inside one database transaction. Rollback on any
// error from fn; commit otherwise. Every money-moving operation goes
// through here so its reads and writes are a single atomic unit.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&ledgerTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type ledgerTx struct {
	tx *sql.Tx
}

func (l *ledgerTx) GetWalletsForUpdate(ctx context.Context, userIDs []string) (map[string]*domain.Wallet, error) {
	// Sorted lock order: two operations touching the same pair of
	// wallets always lock them in the same sequence.
	ids := append([]string(nil), userIDs...)
	sort.Strings(ids)

	query := `SELECT user_id, balance, credit_limit, used_credit, pay_later_enabled, pay_later_status, updated_at
	          FROM wallets WHERE user_id = ANY($1) ORDER BY user_id FOR UPDATE`
	logger.DatabaseCall("SELECT FOR UPDATE", "wallets", "userIDs", ids)

	rows, err := l.tx.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wallets := make(map[string]*domain.Wallet, len(ids))
	for rows.Next() {
		var w domain.Wallet
		if err := rows.Scan(&w.UserID, &w.Balance, &w.CreditLimit, &w.UsedCredit, &w.PayLaterEnabled, &w.PayLaterStatus, &w.UpdatedAt); err != nil {
			return nil, err
		}
		wallets[w.UserID] = &w
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, id := range userIDs {
		if _, ok := wallets[id]; !ok {
			return nil, domain.ErrNotFound
		}
	}
	return wallets, nil
}

func (l *ledgerTx) UpdateWallet(ctx context.Context, w *domain.Wallet) error {
	query := `UPDATE wallets
	          SET balance = $2, credit_limit = $3, used_credit = $4, pay_later_enabled = $5, pay_later_status = $6, updated_at = now()
	          WHERE user_id = $1`
	res, err := l.tx.ExecContext(ctx, query, w.UserID, w.Balance, w.CreditLimit, w.UsedCredit, w.PayLaterEnabled, w.PayLaterStatus)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (l *ledgerTx) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	return insertTransaction(ctx, l.tx, t)
}

func (l *ledgerTx) GetSplitForUpdate(ctx context.Context, id string) (*domain.Split, error) {
	query := selectSplit + ` WHERE id = $1 FOR UPDATE`
	return scanSplit(l.tx.QueryRowContext(ctx, query, id))
}

func (l *ledgerTx) UpdateSplit(ctx context.Context, s *domain.Split) error {
	participants, err := json.Marshal(s.Participants)
	if err != nil {
		return err
	}
	query := `UPDATE splits SET participants = $2, status = $3 WHERE id = $1`
	_, err = l.tx.ExecContext(ctx, query, s.ID, participants, s.Status)
	return err
}

func (l *ledgerTx) CreateDraw(ctx context.Context, d *domain.CreditDraw) error {
	extensions, err := json.Marshal(d.Extensions)
	if err != nil {
		return err
	}
	query := `INSERT INTO paylater_draws (id, user_id, amount, note, due_date, status, extensions, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, now()) RETURNING created_at`
	return l.tx.QueryRowContext(ctx, query, d.ID, d.UserID, d.Amount, d.Note, d.DueDate, d.Status, extensions).Scan(&d.CreatedAt)
}

func (l *ledgerTx) GetDrawForUpdate(ctx context.Context, id string) (*domain.CreditDraw, error) {
	query := selectDraw + ` WHERE id = $1 FOR UPDATE`
	return scanDraw(l.tx.QueryRowContext(ctx, query, id))
}

func (l *ledgerTx) UpdateDraw(ctx context.Context, d *domain.CreditDraw) error {
	extensions, err := json.Marshal(d.Extensions)
	if err != nil {
		return err
	}
	query := `UPDATE paylater_draws SET due_date = $2, status = $3, paid_at = $4, extensions = $5 WHERE id = $1`
	_, err = l.tx.ExecContext(ctx, query, d.ID, d.DueDate, d.Status, d.PaidAt, extensions)
	return err
}

func (l *ledgerTx) GetUserForUpdate(ctx context.Context, id string) (*domain.User, error) {
	query := selectUser + ` WHERE id = $1 FOR UPDATE`
	return scanUser(l.tx.QueryRowContext(ctx, query, id))
}

func (l *ledgerTx) MarkRewardClaimed(ctx context.Context, userID string) error {
	query := `UPDATE users SET reward_claimed = TRUE, updated_at = now() WHERE id = $1`
	res, err := l.tx.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
