package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MessageType string

const (
	MessageTypePayment MessageType = "payment"
	MessageTypeSplit   MessageType = "split"
	MessageTypeSystem  MessageType = "system"
)

// ConversationID derives the stable id for the thread between two
// users: both ids joined lexicographically, so either side computes
// the same key.
func ConversationID(a, b string) string {
	if a < b {
		return a + "_" + b
	}
	return b + "_" + a
}

type Conversation struct {
	ID          string    `json:"id"`
	UserA       string    `json:"user_a"`
	UserB       string    `json:"user_b"`
	LastMessage string    `json:"last_message"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Message is a payment event rendered into a conversation thread.
type Message struct {
	ID             string            `json:"id"`
	ConversationID string            `json:"conversation_id"`
	Text           string            `json:"text"`
	From           string            `json:"from"`
	To             string            `json:"to"`
	Amount         decimal.Decimal   `json:"amount"`
	Note           string            `json:"note"`
	Type           MessageType       `json:"type"`
	Status         TransactionStatus `json:"status"`
	TxnID          string            `json:"txn_id"`
	CreatedAt      time.Time         `json:"created_at"`
}
