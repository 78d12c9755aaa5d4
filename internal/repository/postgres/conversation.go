package postgres

import (
	"context"
	"database/sql"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/repository"
)

type conversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) repository.ConversationRepository {
	return &conversationRepository{db: db}
}

// Upsert creates the thread on first contact and bumps the preview on
// every later message.
func (r *conversationRepository) Upsert(ctx context.Context, c *domain.Conversation) error {
	query := `INSERT INTO conversations (id, user_a, user_b, last_message, updated_at)
	          VALUES ($1, $2, $3, $4, now())
	          ON CONFLICT (id) DO UPDATE SET last_message = EXCLUDED.last_message, updated_at = now()`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.UserA, c.UserB, c.LastMessage)
	return err
}

func (r *conversationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	query := `SELECT id, user_a, user_b, last_message, updated_at
	          FROM conversations WHERE user_a = $1 OR user_b = $1 ORDER BY updated_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.ID, &c.UserA, &c.UserB, &c.LastMessage, &c.UpdatedAt); err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

func (r *conversationRepository) CreateMessage(ctx context.Context, m *domain.Message) error {
	query := `INSERT INTO messages (id, conversation_id, text, from_user, to_user, amount, note, type, status, txn_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now()) RETURNING created_at`
	return r.db.QueryRowContext(ctx, query,
		m.ID, m.ConversationID, m.Text, m.From, m.To, m.Amount, m.Note, m.Type, m.Status, nullIfEmpty(m.TxnID),
	).Scan(&m.CreatedAt)
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID string, limit, offset int32) ([]domain.Message, int32, error) {
	query := `SELECT id, conversation_id, text, from_user, to_user, amount, note, type, status, COALESCE(txn_id, ''), created_at
	          FROM messages WHERE conversation_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var count int32
	countQuery := `SELECT count(*) FROM messages WHERE conversation_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, conversationID).Scan(&count); err != nil {
		return nil, 0, err
	}

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Text, &m.From, &m.To, &m.Amount, &m.Note, &m.Type, &m.Status, &m.TxnID, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		msgs = append(msgs, m)
	}
	return msgs, count, rows.Err()
}
