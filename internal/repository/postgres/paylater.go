package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/repository"
)

const selectDraw = `SELECT id, user_id, amount, note, due_date, status, paid_at, extensions, created_at
                    FROM paylater_draws`

type payLaterRepository struct {
	db *sql.DB
}

func NewPayLaterRepository(db *sql.DB) repository.PayLaterRepository {
	return &payLaterRepository{db: db}
}

func scanDraw(row scanner) (*domain.CreditDraw, error) {
	var d domain.CreditDraw
	var paidAt sql.NullTime
	var extensions []byte
	err := row.Scan(&d.ID, &d.UserID, &d.Amount, &d.Note, &d.DueDate, &d.Status, &paidAt, &extensions, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if paidAt.Valid {
		d.PaidAt = &paidAt.Time
	}
	if len(extensions) > 0 {
		if err := json.Unmarshal(extensions, &d.Extensions); err != nil {
			return nil, err
		}
	}
	return &d, nil
}

func (r *payLaterRepository) GetByID(ctx context.Context, id string) (*domain.CreditDraw, error) {
	return scanDraw(r.db.QueryRowContext(ctx, selectDraw+` WHERE id = $1`, id))
}

func (r *payLaterRepository) ListByUser(ctx context.Context, userID string) ([]domain.CreditDraw, error) {
	rows, err := r.db.QueryContext(ctx, selectDraw+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDraws(rows)
}

// ListDueWithin returns open draws whose due date falls inside the
// window from now. Used by the reminder job.
func (r *payLaterRepository) ListDueWithin(ctx context.Context, window time.Duration) ([]domain.CreditDraw, error) {
	query := selectDraw + ` WHERE status = $1 AND due_date BETWEEN now() AND now() + $2::interval ORDER BY due_date`
	rows, err := r.db.QueryContext(ctx, query, domain.DrawStatusDue, window.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDraws(rows)
}

func (r *payLaterRepository) ListPastDue(ctx context.Context, asOf time.Time) ([]domain.CreditDraw, error) {
	query := selectDraw + ` WHERE status = $1 AND due_date < $2 ORDER BY due_date`
	rows, err := r.db.QueryContext(ctx, query, domain.DrawStatusDue, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDraws(rows)
}

func (r *payLaterRepository) MarkOverdue(ctx context.Context, id string) error {
	query := `UPDATE paylater_draws SET status = $2 WHERE id = $1 AND status = $3`
	res, err := r.db.ExecContext(ctx, query, id, domain.DrawStatusOverdue, domain.DrawStatusDue)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func collectDraws(rows *sql.Rows) ([]domain.CreditDraw, error) {
	var draws []domain.CreditDraw
	for rows.Next() {
		d, err := scanDraw(rows)
		if err != nil {
			return nil, err
		}
		draws = append(draws, *d)
	}
	return draws, rows.Err()
}
