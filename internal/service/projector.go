package service

import (
	"context"
	"fmt"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/logger"
	"github.com/SkAltmash/ZapSplit/internal/push"
	"github.com/SkAltmash/ZapSplit/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Projector turns committed ledger events into their user-facing
// projections: notifications, conversation messages and push. All of
// it is best effort; a projection failure never unwinds the ledger.
type Projector struct {
	noteRepo repository.NotificationRepository
	convRepo repository.ConversationRepository
	userRepo repository.UserRepository
	push     push.Sender
}

func NewProjector(
	noteRepo repository.NotificationRepository,
	convRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	sender push.Sender,
) *Projector {
	return &Projector{
		noteRepo: noteRepo,
		convRepo: convRepo,
		userRepo: userRepo,
		push:     sender,
	}
}

func (p *Projector) TransferSucceeded(ctx context.Context, sender, recipient *domain.User, amount decimal.Decimal, note, txnID string) {
	p.notify(ctx, recipient.ID, fmt.Sprintf("₹%s received from %s", amount.String(), sender.Name), map[string]string{
		"type":   "payment",
		"txn_id": txnID,
	})
	p.message(ctx, sender, recipient, amount, note, txnID, domain.TransactionStatusSuccess)
}

func (p *Projector) TransferFailed(ctx context.Context, sender, recipient *domain.User, amount decimal.Decimal, note, txnID string) {
	// No notification for the recipient; only the thread records the
	// attempt.
	p.message(ctx, sender, recipient, amount, note, txnID, domain.TransactionStatusFailed)
}

func (p *Projector) SplitPaid(ctx context.Context, payer *domain.User, split *domain.Split) {
	p.notify(ctx, split.InitiatorID, fmt.Sprintf("₹%s paid by %s towards %q", split.PerPerson.String(), payer.Email, split.Note), map[string]string{
		"type":     "split",
		"split_id": split.ID,
	})

	initiator := &domain.User{ID: split.InitiatorID, Email: split.InitiatorEmail, Name: split.InitiatorName}
	msg := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: domain.ConversationID(payer.ID, split.InitiatorID),
		Text:           fmt.Sprintf("₹%s paid towards %q", split.PerPerson.String(), split.Note),
		From:           payer.ID,
		To:             initiator.ID,
		Amount:         split.PerPerson,
		Note:           split.Note,
		Type:           domain.MessageTypeSplit,
		Status:         domain.TransactionStatusSuccess,
		TxnID:          domain.SplitSettlementID(split.ID, payer.ID),
	}
	p.deliverMessage(ctx, payer.ID, initiator.ID, msg)
}

func (p *Projector) DuePaid(ctx context.Context, user *domain.User, draw *domain.CreditDraw) {
	p.notify(ctx, user.ID, fmt.Sprintf("ZupPayLater due of ₹%s paid", draw.Amount.String()), map[string]string{
		"type":    "paylater",
		"draw_id": draw.ID,
	})
}

func (p *Projector) RewardClaimed(ctx context.Context, claimer, invited *domain.User, amount decimal.Decimal) {
	p.notify(ctx, claimer.ID, fmt.Sprintf("You earned ₹%s for inviting %s", amount.String(), invited.Name), map[string]string{
		"type": "reward",
	})
}

func (p *Projector) DueReminder(ctx context.Context, draw *domain.CreditDraw) {
	p.notify(ctx, draw.UserID, fmt.Sprintf("ZupPayLater due of ₹%s on %s", draw.Amount.String(), draw.DueDate.Format("02 Jan 2006")), map[string]string{
		"type":    "paylater",
		"draw_id": draw.ID,
	})
}

func (p *Projector) DrawOverdue(ctx context.Context, draw *domain.CreditDraw) {
	p.notify(ctx, draw.UserID, fmt.Sprintf("ZupPayLater due of ₹%s is overdue", draw.Amount.String()), map[string]string{
		"type":    "paylater",
		"draw_id": draw.ID,
	})
}

func (p *Projector) notify(ctx context.Context, userID, text string, attrs map[string]string) {
	note := &domain.Notification{
		ID:         uuid.NewString(),
		UserID:     userID,
		Text:       text,
		Attributes: attrs,
	}
	if err := p.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to write notification", "userID", userID, "error", err)
	}

	user, err := p.userRepo.GetByID(ctx, userID)
	if err != nil || user.FCMToken == "" {
		return
	}
	if err := p.push.Send(ctx, user.FCMToken, "ZapSplit", text); err != nil {
		logger.Warn("Failed to push notification", "userID", userID, "error", err)
	}
}

func (p *Projector) message(ctx context.Context, sender, recipient *domain.User, amount decimal.Decimal, note, txnID string, status domain.TransactionStatus) {
	text := fmt.Sprintf("₹%s sent", amount.String())
	if status == domain.TransactionStatusFailed {
		text = fmt.Sprintf("₹%s failed", amount.String())
	}
	msg := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: domain.ConversationID(sender.ID, recipient.ID),
		Text:           text,
		From:           sender.ID,
		To:             recipient.ID,
		Amount:         amount,
		Note:           note,
		Type:           domain.MessageTypePayment,
		Status:         status,
		TxnID:          txnID,
	}
	p.deliverMessage(ctx, sender.ID, recipient.ID, msg)
}

func (p *Projector) deliverMessage(ctx context.Context, a, b string, msg *domain.Message) {
	userA, userB := a, b
	if userB < userA {
		userA, userB = userB, userA
	}
	conv := &domain.Conversation{
		ID:          msg.ConversationID,
		UserA:       userA,
		UserB:       userB,
		LastMessage: msg.Text,
	}
	if err := p.convRepo.Upsert(ctx, conv); err != nil {
		logger.Warn("Failed to upsert conversation", "conversationID", conv.ID, "error", err)
		return
	}
	if err := p.convRepo.CreateMessage(ctx, msg); err != nil {
		logger.Warn("Failed to write conversation message", "conversationID", conv.ID, "error", err)
	}
}
