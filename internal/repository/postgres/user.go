package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/repository"
)

const selectUser = `SELECT id, email, name, photo_url, mobile, password_hash, pin_hash, referred_by, reward_claimed, is_ghost, fcm_token, created_at, updated_at
                    FROM users`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	var photoURL, mobile, fcmToken sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Name, &photoURL, &mobile, &u.PasswordHash, &u.PINHash, &u.ReferredBy, &u.RewardClaimed, &u.IsGhost, &fcmToken, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.PhotoURL = photoURL.String
	u.Mobile = mobile.String
	u.FCMToken = fcmToken.String
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, email, name, photo_url, mobile, password_hash, pin_hash, referred_by, reward_claimed, is_ghost, fcm_token, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now()) RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		u.ID, u.Email, u.Name, nullIfEmpty(u.PhotoURL), nullIfEmpty(u.Mobile),
		u.PasswordHash, u.PINHash, u.ReferredBy, u.RewardClaimed, u.IsGhost, nullIfEmpty(u.FCMToken),
	).Scan(&u.CreatedAt)
	if err != nil {
		return err
	}
	u.UpdatedAt = u.CreatedAt
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE email = $1`, email))
}

func (r *userRepository) GetByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE mobile = $1`, mobile))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email = $2, name = $3, photo_url = $4, mobile = $5, is_ghost = $6, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.Name, nullIfEmpty(u.PhotoURL), nullIfEmpty(u.Mobile), u.IsGhost)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *userRepository) SetPINHash(ctx context.Context, userID, pinHash string) error {
	query := `UPDATE users SET pin_hash = $2, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, pinHash)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *userRepository) SetFCMToken(ctx context.Context, userID, token string) error {
	query := `UPDATE users SET fcm_token = $2, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, nullIfEmpty(token))
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *userRepository) ListReferrals(ctx context.Context, referrerID string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+` WHERE referred_by = $1 ORDER BY created_at DESC`, referrerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
