package domain_test

import (
	"testing"

	"github.com/SkAltmash/ZapSplit/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestConversationID(t *testing.T) {
	// Order of the pair never matters.
	assert.Equal(t, domain.ConversationID("alice", "bob"), domain.ConversationID("bob", "alice"))
	assert.Equal(t, "alice_bob", domain.ConversationID("bob", "alice"))
}

func TestGhostIdentity(t *testing.T) {
	assert.Equal(t, "ghost_9876543210", domain.GhostID("9876543210"))
	assert.Equal(t, "9876543210@zapghost.com", domain.GhostEmail("9876543210"))

	ghost := &domain.User{ID: domain.GhostID("9876543210"), IsGhost: true}
	assert.False(t, ghost.HasPIN())
}

func TestSplitSettlementID(t *testing.T) {
	assert.Equal(t, "split_s1_bob", domain.SplitSettlementID("s1", "bob"))
}

func TestSplit_AllPaid(t *testing.T) {
	split := &domain.Split{
		Participants: []domain.SplitParticipant{
			{UID: "alice", Paid: true},
			{UID: "bob"},
		},
	}
	assert.False(t, split.AllPaid())

	split.Participant("bob").Paid = true
	assert.True(t, split.AllPaid())

	assert.Nil(t, split.Participant("mallory"))
}

func TestTransferRecordsConserve(t *testing.T) {
	sender := &domain.User{ID: "alice", Email: "alice@example.com"}
	recipient := &domain.User{ID: "bob", Email: "bob@example.com"}
	amount := decimal.RequireFromString("123.45")

	send := domain.NewSendRecord("t1", sender.ID, recipient, amount, "note", "corr")
	receive := domain.NewReceiveRecord("t2", recipient.ID, sender, amount, "note", "corr")

	assert.True(t, send.Amount.Add(receive.Amount).IsZero())
	assert.Equal(t, send.CorrelationID, receive.CorrelationID)
	assert.Equal(t, recipient.ID, send.CounterpartyID)
	assert.Equal(t, sender.ID, receive.CounterpartyID)
}

func TestFailedRecordMovesNothing(t *testing.T) {
	recipient := &domain.User{ID: "bob", Email: "bob@example.com"}
	rec := domain.NewFailedRecord("t1", "alice", recipient, "rent", "Insufficient Balance", "corr")

	assert.True(t, rec.Amount.IsZero())
	assert.Equal(t, domain.TransactionStatusFailed, rec.Status)
	assert.Contains(t, rec.Note, "rent")
	assert.Contains(t, rec.Note, "Failed: Insufficient Balance")
}
