package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeSend            TransactionType = "send"
	TransactionTypeReceive         TransactionType = "receive"
	TransactionTypeSplitPayment    TransactionType = "split-payment"
	TransactionTypeSplitReceive    TransactionType = "split-receive"
	TransactionTypeCreditDraw      TransactionType = "paylater"
	TransactionTypeCreditRepayment TransactionType = "paylater-payment"
	TransactionTypeCreditExtension TransactionType = "paylater-extend"
	TransactionTypeReward          TransactionType = "reward"
	TransactionTypeTopUp           TransactionType = "add"
)

type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Transaction is one user's view of a ledger event. Two-sided events
// (transfers, split settlements) produce exactly two records sharing a
// correlation id whose amounts sum to zero. Single-sided events (top-up,
// credit movements, rewards) produce one.
type Transaction struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	Type              TransactionType   `json:"type"`
	Amount            decimal.Decimal   `json:"amount"` // negative for outflows
	CounterpartyID    string            `json:"counterparty_id,omitempty"`
	CounterpartyEmail string            `json:"counterparty_email,omitempty"`
	Note              string            `json:"note"`
	Status            TransactionStatus `json:"status"`
	CorrelationID     string            `json:"correlation_id"`
	SplitSource       bool              `json:"split_source"`
	PaymentRef        string            `json:"payment_ref,omitempty"`
	OrderRef          string            `json:"order_ref,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// NewSendRecord is the sender-side view of a direct transfer.
func NewSendRecord(id, userID string, recipient *User, amount decimal.Decimal, note, correlationID string) *Transaction {
	return &Transaction{
		ID:                id,
		UserID:            userID,
		Type:              TransactionTypeSend,
		Amount:            amount.Neg(),
		CounterpartyID:    recipient.ID,
		CounterpartyEmail: recipient.Email,
		Note:              note,
		Status:            TransactionStatusSuccess,
		CorrelationID:     correlationID,
	}
}

// NewReceiveRecord is the recipient-side view of a direct transfer.
func NewReceiveRecord(id, userID string, sender *User, amount decimal.Decimal, note, correlationID string) *Transaction {
	return &Transaction{
		ID:                id,
		UserID:            userID,
		Type:              TransactionTypeReceive,
		Amount:            amount,
		CounterpartyID:    sender.ID,
		CounterpartyEmail: sender.Email,
		Note:              note,
		Status:            TransactionStatusSuccess,
		CorrelationID:     correlationID,
	}
}

// SplitSettlementID is the idempotency key for one participant's
// settlement of a split. Replays collide on the primary key.
func SplitSettlementID(splitID, userID string) string {
	return fmt.Sprintf("split_%s_%s", splitID, userID)
}

// NewSplitPaymentRecord is the payer-side view of a split settlement.
func NewSplitPaymentRecord(splitID string, payer, initiator *User, perPerson decimal.Decimal, note string) *Transaction {
	return &Transaction{
		ID:                SplitSettlementID(splitID, payer.ID),
		UserID:            payer.ID,
		Type:              TransactionTypeSplitPayment,
		Amount:            perPerson.Neg(),
		CounterpartyID:    initiator.ID,
		CounterpartyEmail: initiator.Email,
		Note:              note,
		Status:            TransactionStatusSuccess,
		CorrelationID:     SplitSettlementID(splitID, payer.ID),
	}
}

// NewSplitReceiveRecord is the initiator-side view of a split settlement.
func NewSplitReceiveRecord(splitID string, payer, initiator *User, perPerson decimal.Decimal, note string) *Transaction {
	return &Transaction{
		ID:                SplitSettlementID(splitID, initiator.ID) + "_" + payer.ID,
		UserID:            initiator.ID,
		Type:              TransactionTypeSplitReceive,
		Amount:            perPerson,
		CounterpartyID:    payer.ID,
		CounterpartyEmail: payer.Email,
		Note:              note,
		Status:            TransactionStatusSuccess,
		CorrelationID:     SplitSettlementID(splitID, payer.ID),
	}
}

// NewCreditDrawRecord mirrors a pay-later draw into the transaction
// history. It shares its id with the draw so the two stay linked.
func NewCreditDrawRecord(drawID, userID string, amount decimal.Decimal) *Transaction {
	return &Transaction{
		ID:            drawID,
		UserID:        userID,
		Type:          TransactionTypeCreditDraw,
		Amount:        amount,
		Note:          "ZupPayLater credit",
		Status:        TransactionStatusSuccess,
		CorrelationID: drawID,
	}
}

// NewCreditRepaymentRecord records settling a pay-later due from the wallet.
func NewCreditRepaymentRecord(id, userID, drawID string, amount decimal.Decimal) *Transaction {
	return &Transaction{
		ID:            id,
		UserID:        userID,
		Type:          TransactionTypeCreditRepayment,
		Amount:        amount.Neg(),
		Note:          "ZupPayLater due payment",
		Status:        TransactionStatusSuccess,
		CorrelationID: drawID,
	}
}

// NewCreditExtensionRecord records the fee paid to push out a due date.
func NewCreditExtensionRecord(id, userID, drawID string, fee decimal.Decimal, addedDays int) *Transaction {
	return &Transaction{
		ID:            id,
		UserID:        userID,
		Type:          TransactionTypeCreditExtension,
		Amount:        fee.Neg(),
		Note:          fmt.Sprintf("Extended due by %d days", addedDays),
		Status:        TransactionStatusSuccess,
		CorrelationID: drawID,
	}
}

// NewRewardRecord credits a referral reward.
func NewRewardRecord(id, userID string, amount decimal.Decimal, invitedName string) *Transaction {
	return &Transaction{
		ID:            id,
		UserID:        userID,
		Type:          TransactionTypeReward,
		Amount:        amount,
		Note:          fmt.Sprintf("Referral reward from %s", invitedName),
		Status:        TransactionStatusSuccess,
		CorrelationID: id,
	}
}

// NewTopUpRecord credits a wallet top-up with its gateway references.
func NewTopUpRecord(id, userID string, amount decimal.Decimal, upi, paymentRef, orderRef string) *Transaction {
	return &Transaction{
		ID:            id,
		UserID:        userID,
		Type:          TransactionTypeTopUp,
		Amount:        amount,
		Note:          fmt.Sprintf("Wallet top-up (%s)", upi),
		Status:        TransactionStatusSuccess,
		CorrelationID: id,
		PaymentRef:    paymentRef,
		OrderRef:      orderRef,
	}
}

// NewFailedRecord is the sender-side audit trail of a rejected attempt.
// It never moves money: the amount is zero and the note carries the
// original note plus the failure reason.
func NewFailedRecord(id, userID string, recipient *User, note, reason, correlationID string) *Transaction {
	rec := &Transaction{
		ID:            id,
		UserID:        userID,
		Type:          TransactionTypeSend,
		Amount:        decimal.Zero,
		Note:          fmt.Sprintf("%s • Failed: %s", note, reason),
		Status:        TransactionStatusFailed,
		CorrelationID: correlationID,
	}
	if recipient != nil {
		rec.CounterpartyID = recipient.ID
		rec.CounterpartyEmail = recipient.Email
	}
	return rec
}
