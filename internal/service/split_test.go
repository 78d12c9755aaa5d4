package service_test

import (
	"context"
	"testing"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSplitService(splitRepo *MockSplitRepo, userRepo *MockUserRepo, txnRepo *MockTransactionRepo) service.SplitService {
	return service.NewSplitService(splitRepo, userRepo, txnRepo, quietProjector())
}

func TestSplitService_CreateSplit(t *testing.T) {
	ctx := context.Background()

	setup := func(ids ...string) (*MockSplitRepo, *MockUserRepo) {
		userRepo := new(MockUserRepo)
		for _, id := range ids {
			userRepo.On("GetByID", ctx, id).Return(testUser(id), nil)
		}
		return new(MockSplitRepo), userRepo
	}

	t.Run("Success", func(t *testing.T) {
		splitRepo, userRepo := setup("alice", "bob", "carol")
		splitRepo.On("Create", ctx, mock.Anything).Return(nil)
		svc := newSplitService(splitRepo, userRepo, new(MockTransactionRepo))

		split, err := svc.CreateSplit(ctx, "alice", []string{"bob", "carol"}, rupees(300), "dinner", "")
		require.NoError(t, err)

		assert.Equal(t, domain.SplitStatusPending, split.Status)
		assert.True(t, split.PerPerson.Equal(rupees(100)))
		require.Len(t, split.Participants, 3)
		assert.Equal(t, "alice", split.Participants[0].UID)
		assert.True(t, split.Participants[0].Paid, "initiator starts settled")
		assert.False(t, split.Participants[1].Paid)
		assert.False(t, split.Participants[2].Paid)
	})

	t.Run("RoundsPerPerson", func(t *testing.T) {
		splitRepo, userRepo := setup("alice", "bob", "carol")
		splitRepo.On("Create", ctx, mock.Anything).Return(nil)
		svc := newSplitService(splitRepo, userRepo, new(MockTransactionRepo))

		split, err := svc.CreateSplit(ctx, "alice", []string{"bob", "carol"}, rupees(100), "", "")
		require.NoError(t, err)
		assert.True(t, split.PerPerson.Equal(decimal.NewFromFloat(33.33)))

		// Three shares of 33.33 account for 99.99; the leftover paisa
		// stays with whoever fronted the bill.
		shares := split.PerPerson.Mul(decimal.NewFromInt(3))
		assert.True(t, shares.Equal(decimal.NewFromFloat(99.99)))
		remainder := rupees(100).Sub(shares)
		assert.True(t, remainder.LessThan(decimal.NewFromFloat(0.03)))
	})

	t.Run("FlagsSourceTransaction", func(t *testing.T) {
		splitRepo, userRepo := setup("alice", "bob")
		splitRepo.On("Create", ctx, mock.Anything).Return(nil)
		txnRepo := new(MockTransactionRepo)
		txnRepo.On("MarkSplitSource", ctx, "alice", "txn-1").Return(nil)
		svc := newSplitService(splitRepo, userRepo, txnRepo)

		split, err := svc.CreateSplit(ctx, "alice", []string{"bob"}, rupees(200), "cab", "txn-1")
		require.NoError(t, err)
		assert.Equal(t, "txn-1", split.SourceTxnID)
		txnRepo.AssertExpectations(t)
	})

	t.Run("ParticipantLimits", func(t *testing.T) {
		splitRepo, userRepo := setup("alice")
		svc := newSplitService(splitRepo, userRepo, new(MockTransactionRepo))

		_, err := svc.CreateSplit(ctx, "alice", nil, rupees(100), "", "")
		assert.ErrorIs(t, err, domain.ErrTooManyParticipants)

		_, err = svc.CreateSplit(ctx, "alice", []string{"a", "b", "c", "d", "e"}, rupees(600), "", "")
		assert.ErrorIs(t, err, domain.ErrTooManyParticipants)
	})

	t.Run("TooSmallToSplit", func(t *testing.T) {
		splitRepo, userRepo := setup("alice")
		svc := newSplitService(splitRepo, userRepo, new(MockTransactionRepo))

		// 2.97 across three people is 0.99 a head, under the floor.
		_, err := svc.CreateSplit(ctx, "alice", []string{"bob", "carol"}, decimal.NewFromFloat(2.97), "", "")
		assert.ErrorIs(t, err, domain.ErrSplitTooSmall)
	})

	t.Run("InitiatorInParticipants", func(t *testing.T) {
		splitRepo, userRepo := setup("alice", "bob")
		svc := newSplitService(splitRepo, userRepo, new(MockTransactionRepo))

		_, err := svc.CreateSplit(ctx, "alice", []string{"bob", "alice"}, rupees(300), "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidRecipient)
	})

	t.Run("UnknownParticipant", func(t *testing.T) {
		splitRepo, userRepo := setup("alice")
		userRepo.On("GetByID", ctx, "nobody").Return(nil, domain.ErrNotFound)
		svc := newSplitService(splitRepo, userRepo, new(MockTransactionRepo))

		_, err := svc.CreateSplit(ctx, "alice", []string{"nobody"}, rupees(100), "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidRecipient)
	})
}

func TestSplitService_GetSplit(t *testing.T) {
	ctx := context.Background()
	split := &domain.Split{
		ID:          "s1",
		InitiatorID: "alice",
		Participants: []domain.SplitParticipant{
			{UID: "alice", Paid: true},
			{UID: "bob"},
		},
	}
	splitRepo := new(MockSplitRepo)
	splitRepo.On("GetByID", ctx, "s1").Return(split, nil)
	svc := newSplitService(splitRepo, new(MockUserRepo), new(MockTransactionRepo))

	t.Run("MemberCanRead", func(t *testing.T) {
		got, err := svc.GetSplit(ctx, "bob", "s1")
		require.NoError(t, err)
		assert.Equal(t, "s1", got.ID)
	})

	t.Run("OutsiderCannot", func(t *testing.T) {
		_, err := svc.GetSplit(ctx, "mallory", "s1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLedgerService_PaySplit(t *testing.T) {
	ctx := context.Background()
	bob := testUser("bob")

	newSplit := func() *domain.Split {
		return &domain.Split{
			ID:             "s1",
			InitiatorID:    "alice",
			InitiatorEmail: "alice@example.com",
			InitiatorName:  "alice",
			Amount:         rupees(300),
			PerPerson:      rupees(100),
			Note:           "dinner",
			Status:         domain.SplitStatusPending,
			Participants: []domain.SplitParticipant{
				{UID: "alice", Paid: true},
				{UID: "bob"},
				{UID: "carol"},
			},
		}
	}

	setup := func(split *domain.Split, bobBalance int64) (service.LedgerService, *fakeStore) {
		store := newFakeStore()
		store.splits[split.ID] = split
		store.wallets["alice"] = &domain.Wallet{UserID: "alice"}
		store.wallets["bob"] = &domain.Wallet{UserID: "bob", Balance: rupees(bobBalance)}
		userRepo := new(MockUserRepo)
		userRepo.On("GetByID", ctx, "bob").Return(bob, nil)
		return newLedger(store, userRepo, new(MockTransactionRepo)), store
	}

	t.Run("Success", func(t *testing.T) {
		svc, store := setup(newSplit(), 150)

		require.NoError(t, svc.PaySplit(ctx, "s1", "bob", testPIN))

		assert.True(t, store.wallet("bob").Balance.Equal(rupees(50)))
		assert.True(t, store.wallet("alice").Balance.Equal(rupees(100)))

		store.mu.Lock()
		split := store.splits["s1"]
		store.mu.Unlock()
		assert.True(t, split.Participant("bob").Paid)
		assert.Equal(t, domain.SplitStatusPending, split.Status, "carol has not paid yet")

		txns := store.transactions()
		require.Len(t, txns, 2)
		assert.Equal(t, domain.SplitSettlementID("s1", "bob"), txns[0].ID)
		assert.True(t, txns[0].Amount.Add(txns[1].Amount).IsZero())
		assert.Equal(t, txns[0].CorrelationID, txns[1].CorrelationID)
	})

	t.Run("LastPaymentSettles", func(t *testing.T) {
		split := newSplit()
		split.Participants[2].Paid = true
		svc, store := setup(split, 150)

		require.NoError(t, svc.PaySplit(ctx, "s1", "bob", testPIN))

		store.mu.Lock()
		defer store.mu.Unlock()
		assert.Equal(t, domain.SplitStatusSettled, store.splits["s1"].Status)
	})

	t.Run("Idempotent", func(t *testing.T) {
		svc, store := setup(newSplit(), 500)

		require.NoError(t, svc.PaySplit(ctx, "s1", "bob", testPIN))
		err := svc.PaySplit(ctx, "s1", "bob", testPIN)
		assert.ErrorIs(t, err, domain.ErrAlreadySettled)

		// Only the first settlement moved money.
		assert.True(t, store.wallet("bob").Balance.Equal(rupees(400)))
		assert.Len(t, store.transactions(), 2)
	})

	t.Run("NotAParticipant", func(t *testing.T) {
		split := newSplit()
		split.Participants = split.Participants[:2]
		store := newFakeStore()
		store.splits["s1"] = split
		store.wallets["carol"] = &domain.Wallet{UserID: "carol", Balance: rupees(500)}
		userRepo := new(MockUserRepo)
		userRepo.On("GetByID", ctx, "carol").Return(testUser("carol"), nil)
		svc := newLedger(store, userRepo, new(MockTransactionRepo))

		err := svc.PaySplit(ctx, "s1", "carol", testPIN)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		svc, store := setup(newSplit(), 60)

		err := svc.PaySplit(ctx, "s1", "bob", testPIN)
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

		store.mu.Lock()
		defer store.mu.Unlock()
		assert.False(t, store.splits["s1"].Participant("bob").Paid)
	})
}
