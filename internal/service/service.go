package service

import (
	"context"
	"time"

	"github.com/SkAltmash/ZapSplit/internal/domain"

	"github.com/shopspring/decimal"
)

type AuthService interface {
	Signup(ctx context.Context, email, password, name, mobile, referrerID string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
	SetPIN(ctx context.Context, userID, pin string) error
	RegisterFCMToken(ctx context.Context, userID, token string) error
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, *domain.Wallet, error)
	UpdateProfile(ctx context.Context, userID, name, photoURL, mobile string) error
	// ResolveMobileRecipient finds the user behind a mobile number,
	// creating a ghost recipient when nobody has registered it yet.
	ResolveMobileRecipient(ctx context.Context, mobile string) (*domain.User, error)
	ReferralDetails(ctx context.Context, userID string) ([]domain.User, error)
}

type LedgerService interface {
	Transfer(ctx context.Context, senderID, recipientID string, amount decimal.Decimal, note, pin string) (*domain.Transaction, error)
	PaySplit(ctx context.Context, splitID, userID, pin string) error
	UseCredit(ctx context.Context, userID string, amount decimal.Decimal, note, pin string) (*domain.CreditDraw, error)
	PayDue(ctx context.Context, userID, drawID, pin string) error
	ExtendDue(ctx context.Context, userID, drawID string, addedDays int, pin string) error
	ClaimReward(ctx context.Context, claimerID, invitedID string) error
	AddMoney(ctx context.Context, userID string, amount decimal.Decimal, upi string) (*domain.Transaction, error)
	GetWallet(ctx context.Context, userID string) (*domain.Wallet, error)
	GetTransactions(ctx context.Context, userID string, page, pageSize int32) ([]domain.Transaction, int32, error)
}

type SplitService interface {
	CreateSplit(ctx context.Context, initiatorID string, participantIDs []string, amount decimal.Decimal, note, sourceTxnID string) (*domain.Split, error)
	GetSplit(ctx context.Context, userID, splitID string) (*domain.Split, error)
	ListSplits(ctx context.Context, userID string) ([]domain.Split, error)
}

type PayLaterService interface {
	Apply(ctx context.Context, userID, occupation string, monthlyIncome decimal.Decimal, pan string) (*domain.Wallet, error)
	Dashboard(ctx context.Context, userID string) (*domain.Wallet, []domain.CreditDraw, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkSeen(ctx context.Context, userID, notificationID string) error
}

type ConversationService interface {
	ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error)
	GetMessages(ctx context.Context, userID, conversationID string, page, pageSize int32) ([]domain.Message, int32, error)
}

type EmailService interface {
	SendDueReminder(ctx context.Context, email, name string, amount decimal.Decimal, dueDate time.Time) error
}
