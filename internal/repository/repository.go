package repository

import (
	"context"
	"time"

	"github.com/SkAltmash/ZapSplit/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByMobile(ctx context.Context, mobile string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	SetPINHash(ctx context.Context, userID, pinHash string) error
	SetFCMToken(ctx context.Context, userID, token string) error
	ListReferrals(ctx context.Context, referrerID string) ([]domain.User, error)
}

type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	Get(ctx context.Context, userID string) (*domain.Wallet, error)
	UpdatePayLaterTerms(ctx context.Context, wallet *domain.Wallet) error
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, userID, id string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int32) ([]domain.Transaction, int32, error)
	MarkSplitSource(ctx context.Context, userID, id string) error
}

type SplitRepository interface {
	Create(ctx context.Context, split *domain.Split) error
	GetByID(ctx context.Context, id string) (*domain.Split, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Split, error)
}

type PayLaterRepository interface {
	GetByID(ctx context.Context, id string) (*domain.CreditDraw, error)
	ListByUser(ctx context.Context, userID string) ([]domain.CreditDraw, error)
	ListDueWithin(ctx context.Context, window time.Duration) ([]domain.CreditDraw, error)
	ListPastDue(ctx context.Context, asOf time.Time) ([]domain.CreditDraw, error)
	MarkOverdue(ctx context.Context, id string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error)
	MarkSeen(ctx context.Context, id, userID string) error
}

type ConversationRepository interface {
	Upsert(ctx context.Context, conv *domain.Conversation) error
	ListByUser(ctx context.Context, userID string) ([]domain.Conversation, error)
	CreateMessage(ctx context.Context, msg *domain.Message) error
	ListMessages(ctx context.Context, conversationID string, limit, offset int32) ([]domain.Message, int32, error)
}

// LedgerTx is the unit of work every money-moving operation runs in.
// All reads observe the same snapshot as the writes; ForUpdate reads
// take row locks so concurrent operations on the same wallets serialize.
type LedgerTx interface {
	// GetWalletsForUpdate locks and returns the wallets for the given
	// users, keyed by user id. Locks are taken in sorted id order so
	// two overlapping operations can never deadlock on each other.
	GetWalletsForUpdate(ctx context.Context, userIDs []string) (map[string]*domain.Wallet, error)
	UpdateWallet(ctx context.Context, wallet *domain.Wallet) error

	CreateTransaction(ctx context.Context, txn *domain.Transaction) error

	GetSplitForUpdate(ctx context.Context, id string) (*domain.Split, error)
	UpdateSplit(ctx context.Context, split *domain.Split) error

	CreateDraw(ctx context.Context, draw *domain.CreditDraw) error
	GetDrawForUpdate(ctx context.Context, id string) (*domain.CreditDraw, error)
	UpdateDraw(ctx context.Context, draw *domain.CreditDraw) error

	GetUserForUpdate(ctx context.Context, id string) (*domain.User, error)
	MarkRewardClaimed(ctx context.Context, userID string) error
}

// LedgerStore runs fn inside a single database transaction. If fn
// returns an error the transaction rolls back and nothing fn wrote is
// visible; otherwise it commits atomically.
type LedgerStore interface {
	WithinTx(ctx context.Context, fn func(tx LedgerTx) error) error
}
