package postgres

import (
	"database/sql"

	"github.com/SkAltmash/ZapSplit/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.WalletRepository
	repository.TransactionRepository
	repository.SplitRepository
	repository.PayLaterRepository
	repository.NotificationRepository
	repository.ConversationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		WalletRepository:       NewWalletRepository(db),
		TransactionRepository:  NewTransactionRepository(db),
		SplitRepository:        NewSplitRepository(db),
		PayLaterRepository:     NewPayLaterRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		ConversationRepository: NewConversationRepository(db),
	}
}
