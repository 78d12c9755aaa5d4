package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/push"
	"github.com/SkAltmash/ZapSplit/internal/repository"
	"github.com/SkAltmash/ZapSplit/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	args := m.Called(ctx, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) SetPINHash(ctx context.Context, userID, pinHash string) error {
	args := m.Called(ctx, userID, pinHash)
	return args.Error(0)
}
func (m *MockUserRepo) SetFCMToken(ctx context.Context, userID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}
func (m *MockUserRepo) ListReferrals(ctx context.Context, referrerID string) ([]domain.User, error) {
	args := m.Called(ctx, referrerID)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockWalletRepo
type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) Create(ctx context.Context, wallet *domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}
func (m *MockWalletRepo) Get(ctx context.Context, userID string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) UpdatePayLaterTerms(ctx context.Context, wallet *domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, txn *domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListByUser(ctx context.Context, userID string, page, pageSize int32) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockTransactionRepo) MarkSplitSource(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockSplitRepo
type MockSplitRepo struct {
	mock.Mock
}

func (m *MockSplitRepo) Create(ctx context.Context, split *domain.Split) error {
	args := m.Called(ctx, split)
	return args.Error(0)
}
func (m *MockSplitRepo) GetByID(ctx context.Context, id string) (*domain.Split, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Split), args.Error(1)
}
func (m *MockSplitRepo) ListByUser(ctx context.Context, userID string) ([]domain.Split, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Split), args.Error(1)
}

// MockPayLaterRepo
type MockPayLaterRepo struct {
	mock.Mock
}

func (m *MockPayLaterRepo) GetByID(ctx context.Context, id string) (*domain.CreditDraw, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditDraw), args.Error(1)
}
func (m *MockPayLaterRepo) ListByUser(ctx context.Context, userID string) ([]domain.CreditDraw, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.CreditDraw), args.Error(1)
}
func (m *MockPayLaterRepo) ListDueWithin(ctx context.Context, window time.Duration) ([]domain.CreditDraw, error) {
	args := m.Called(ctx, window)
	return args.Get(0).([]domain.CreditDraw), args.Error(1)
}
func (m *MockPayLaterRepo) ListPastDue(ctx context.Context, asOf time.Time) ([]domain.CreditDraw, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.CreditDraw), args.Error(1)
}
func (m *MockPayLaterRepo) MarkOverdue(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkSeen(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockConversationRepo
type MockConversationRepo struct {
	mock.Mock
}

func (m *MockConversationRepo) Upsert(ctx context.Context, conv *domain.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}
func (m *MockConversationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Conversation), args.Error(1)
}
func (m *MockConversationRepo) CreateMessage(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
func (m *MockConversationRepo) ListMessages(ctx context.Context, conversationID string, limit, offset int32) ([]domain.Message, int32, error) {
	args := m.Called(ctx, conversationID, limit, offset)
	return args.Get(0).([]domain.Message), args.Get(1).(int32), args.Error(2)
}

// quietProjector builds a projector whose writes all land in
// accept-anything mocks, for tests that only care about the ledger.
func quietProjector() *service.Projector {
	noteRepo := new(MockNotificationRepo)
	noteRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	convRepo := new(MockConversationRepo)
	convRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	convRepo.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)
	userRepo := new(MockUserRepo)
	userRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	return service.NewProjector(noteRepo, convRepo, userRepo, push.NopSender{})
}

var errDriver = errors.New("driver: bad connection")

// brokenStore fails every transaction, standing in for a database
// outage.
type brokenStore struct {
	err error
}

func (b *brokenStore) WithinTx(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	return b.err
}

// fakeStore is an in-memory LedgerStore. WithinTx holds a single lock
// for the whole callback and applies staged writes only on success,
// mirroring the serialization the row locks give the real store.
type fakeStore struct {
	mu      sync.Mutex
	wallets map[string]*domain.Wallet
	splits  map[string]*domain.Split
	draws   map[string]*domain.CreditDraw
	users   map[string]*domain.User
	txns    []*domain.Transaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wallets: make(map[string]*domain.Wallet),
		splits:  make(map[string]*domain.Split),
		draws:   make(map[string]*domain.CreditDraw),
		users:   make(map[string]*domain.User),
	}
}

func (f *fakeStore) WithinTx(ctx context.Context, fn func(tx repository.LedgerTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tx := &fakeTx{
		store:   f,
		wallets: make(map[string]*domain.Wallet),
		splits:  make(map[string]*domain.Split),
		draws:   make(map[string]*domain.CreditDraw),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// transactions returns a copy of all committed transaction records.
func (f *fakeStore) transactions() []*domain.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Transaction, len(f.txns))
	copy(out, f.txns)
	return out
}

func (f *fakeStore) wallet(userID string) domain.Wallet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.wallets[userID]
}

type fakeTx struct {
	store         *fakeStore
	wallets       map[string]*domain.Wallet
	splits        map[string]*domain.Split
	draws         map[string]*domain.CreditDraw
	newDraws      []*domain.CreditDraw
	txns          []*domain.Transaction
	rewardClaimed []string
}

func (t *fakeTx) GetWalletsForUpdate(ctx context.Context, userIDs []string) (map[string]*domain.Wallet, error) {
	out := make(map[string]*domain.Wallet, len(userIDs))
	for _, id := range userIDs {
		w, ok := t.store.wallets[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		cp := *w
		t.wallets[id] = &cp
		out[id] = &cp
	}
	return out, nil
}

func (t *fakeTx) UpdateWallet(ctx context.Context, wallet *domain.Wallet) error {
	t.wallets[wallet.UserID] = wallet
	return nil
}

func (t *fakeTx) CreateTransaction(ctx context.Context, txn *domain.Transaction) error {
	cp := *txn
	t.txns = append(t.txns, &cp)
	return nil
}

func (t *fakeTx) GetSplitForUpdate(ctx context.Context, id string) (*domain.Split, error) {
	s, ok := t.store.splits[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	cp.Participants = append([]domain.SplitParticipant(nil), s.Participants...)
	t.splits[id] = &cp
	return &cp, nil
}

func (t *fakeTx) UpdateSplit(ctx context.Context, split *domain.Split) error {
	t.splits[split.ID] = split
	return nil
}

func (t *fakeTx) CreateDraw(ctx context.Context, draw *domain.CreditDraw) error {
	cp := *draw
	t.newDraws = append(t.newDraws, &cp)
	return nil
}

func (t *fakeTx) GetDrawForUpdate(ctx context.Context, id string) (*domain.CreditDraw, error) {
	d, ok := t.store.draws[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	cp.Extensions = append([]domain.DrawExtension(nil), d.Extensions...)
	t.draws[id] = &cp
	return &cp, nil
}

func (t *fakeTx) UpdateDraw(ctx context.Context, draw *domain.CreditDraw) error {
	t.draws[draw.ID] = draw
	return nil
}

func (t *fakeTx) GetUserForUpdate(ctx context.Context, id string) (*domain.User, error) {
	u, ok := t.store.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (t *fakeTx) MarkRewardClaimed(ctx context.Context, userID string) error {
	t.rewardClaimed = append(t.rewardClaimed, userID)
	return nil
}

func (t *fakeTx) commit() {
	for id, w := range t.wallets {
		t.store.wallets[id] = w
	}
	for id, s := range t.splits {
		t.store.splits[id] = s
	}
	for id, d := range t.draws {
		t.store.draws[id] = d
	}
	for _, d := range t.newDraws {
		t.store.draws[d.ID] = d
	}
	for _, id := range t.rewardClaimed {
		t.store.users[id].RewardClaimed = true
	}
	t.store.txns = append(t.store.txns, t.txns...)
}
