package service

import (
	"context"
	"fmt"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/logger"
	"github.com/SkAltmash/ZapSplit/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxSplitParticipants = 4

var one = decimal.NewFromInt(1)

type splitService struct {
	splitRepo repository.SplitRepository
	userRepo  repository.UserRepository
	txnRepo   repository.TransactionRepository
	projector *Projector
}

func NewSplitService(
	splitRepo repository.SplitRepository,
	userRepo repository.UserRepository,
	txnRepo repository.TransactionRepository,
	projector *Projector,
) SplitService {
	return &splitService{
		splitRepo: splitRepo,
		userRepo:  userRepo,
		txnRepo:   txnRepo,
		projector: projector,
	}
}

// CreateSplit freezes a shared obligation: the per-person share is
// computed once, here, and no money moves until participants settle.
func (s *splitService) CreateSplit(ctx context.Context, initiatorID string, participantIDs []string, amount decimal.Decimal, note, sourceTxnID string) (*domain.Split, error) {
	logger.EnterMethod("splitService.CreateSplit", "initiatorID", initiatorID, "participants", len(participantIDs))

	if len(participantIDs) == 0 || len(participantIDs) > maxSplitParticipants {
		return nil, domain.ErrTooManyParticipants
	}
	if amount.IsZero() {
		return nil, domain.ErrInvalidAmount
	}

	// The initiator is a participant too, already marked paid.
	headcount := int64(len(participantIDs) + 1)
	perPerson := amount.Abs().Div(decimal.NewFromInt(headcount)).Round(2)
	if perPerson.LessThan(one) {
		return nil, domain.ErrSplitTooSmall
	}

	initiator, err := s.userRepo.GetByID(ctx, initiatorID)
	if err != nil {
		return nil, err
	}

	participants := make([]domain.SplitParticipant, 0, headcount)
	participants = append(participants, domain.SplitParticipant{
		UID:      initiator.ID,
		Email:    initiator.Email,
		Name:     initiator.Name,
		PhotoURL: initiator.PhotoURL,
		Paid:     true,
	})
	for _, id := range participantIDs {
		if id == initiatorID {
			return nil, domain.ErrInvalidRecipient
		}
		u, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return nil, domain.ErrInvalidRecipient
		}
		participants = append(participants, domain.SplitParticipant{
			UID:      u.ID,
			Email:    u.Email,
			Name:     u.Name,
			PhotoURL: u.PhotoURL,
		})
	}

	split := &domain.Split{
		ID:                uuid.NewString(),
		InitiatorID:       initiator.ID,
		InitiatorEmail:    initiator.Email,
		InitiatorName:     initiator.Name,
		InitiatorPhotoURL: initiator.PhotoURL,
		Amount:            amount.Abs(),
		PerPerson:         perPerson,
		Note:              note,
		Status:            domain.SplitStatusPending,
		SourceTxnID:       sourceTxnID,
		Participants:      participants,
	}
	if err := s.splitRepo.Create(ctx, split); err != nil {
		logger.ExitMethodWithError("splitService.CreateSplit", err, "initiatorID", initiatorID)
		return nil, err
	}

	if sourceTxnID != "" {
		if err := s.txnRepo.MarkSplitSource(ctx, initiatorID, sourceTxnID); err != nil {
			logger.Warn("Failed to flag source transaction", "txnID", sourceTxnID, "error", err)
		}
	}

	for _, pt := range participants[1:] {
		s.projector.notify(ctx, pt.UID,
			fmt.Sprintf("%s split ₹%s with you. Your share is ₹%s", initiator.Name, split.Amount.String(), perPerson.String()),
			map[string]string{"type": "split", "split_id": split.ID})
	}

	logger.ExitMethod("splitService.CreateSplit", "splitID", split.ID)
	return split, nil
}

func (s *splitService) GetSplit(ctx context.Context, userID, splitID string) (*domain.Split, error) {
	split, err := s.splitRepo.GetByID(ctx, splitID)
	if err != nil {
		return nil, err
	}
	if split.InitiatorID != userID && split.Participant(userID) == nil {
		return nil, domain.ErrNotFound
	}
	return split, nil
}

func (s *splitService) ListSplits(ctx context.Context, userID string) ([]domain.Split, error) {
	return s.splitRepo.ListByUser(ctx, userID)
}
