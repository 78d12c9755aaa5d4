package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/logger"
	"github.com/SkAltmash/ZapSplit/internal/repository"
)

const selectSplit = `SELECT id, initiator_id, initiator_email, initiator_name, initiator_photo_url, amount, per_person, note, status, source_txn_id, participants, created_at
                     FROM splits`

type splitRepository struct {
	db *sql.DB
}

func NewSplitRepository(db *sql.DB) repository.SplitRepository {
	return &splitRepository{db: db}
}

func scanSplit(row scanner) (*domain.Split, error) {
	var s domain.Split
	var photoURL, sourceTxnID sql.NullString
	var participants []byte
	err := row.Scan(&s.ID, &s.InitiatorID, &s.InitiatorEmail, &s.InitiatorName, &photoURL, &s.Amount, &s.PerPerson, &s.Note, &s.Status, &sourceTxnID, &participants, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.InitiatorPhotoURL = photoURL.String
	s.SourceTxnID = sourceTxnID.String
	if len(participants) > 0 {
		if err := json.Unmarshal(participants, &s.Participants); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func (r *splitRepository) Create(ctx context.Context, s *domain.Split) error {
	logger.EnterMethod("splitRepository.Create", "splitID", s.ID, "initiatorID", s.InitiatorID)

	participants, err := json.Marshal(s.Participants)
	if err != nil {
		logger.ExitMethodWithError("splitRepository.Create", err, "reason", "failed to marshal participants")
		return err
	}

	query := `INSERT INTO splits (id, initiator_id, initiator_email, initiator_name, initiator_photo_url, amount, per_person, note, status, source_txn_id, participants, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now()) RETURNING created_at`
	logger.DatabaseCall("INSERT", "splits", "splitID", s.ID)

	err = r.db.QueryRowContext(ctx, query,
		s.ID, s.InitiatorID, s.InitiatorEmail, s.InitiatorName, nullIfEmpty(s.InitiatorPhotoURL),
		s.Amount, s.PerPerson, s.Note, s.Status, nullIfEmpty(s.SourceTxnID), participants,
	).Scan(&s.CreatedAt)

	if err != nil {
		logger.ExitMethodWithError("splitRepository.Create", err, "splitID", s.ID)
	} else {
		logger.ExitMethod("splitRepository.Create", "splitID", s.ID)
	}
	return err
}

func (r *splitRepository) GetByID(ctx context.Context, id string) (*domain.Split, error) {
	return scanSplit(r.db.QueryRowContext(ctx, selectSplit+` WHERE id = $1`, id))
}

// ListByUser returns splits where the user is the initiator or appears
// in the participants array.
func (r *splitRepository) ListByUser(ctx context.Context, userID string) ([]domain.Split, error) {
	query := selectSplit + ` WHERE initiator_id = $1 OR participants @> $2 ORDER BY created_at DESC`
	member, err := json.Marshal([]map[string]string{{"uid": userID}})
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, userID, member)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var splits []domain.Split
	for rows.Next() {
		s, err := scanSplit(rows)
		if err != nil {
			return nil, err
		}
		splits = append(splits, *s)
	}
	return splits, rows.Err()
}
