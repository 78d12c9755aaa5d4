package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/logger"
	"github.com/SkAltmash/ZapSplit/internal/repository"
	"github.com/SkAltmash/ZapSplit/internal/security"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// minAmount is the smallest movable unit, one paisa.
var minAmount = decimal.New(1, -2)

type ledgerService struct {
	store        repository.LedgerStore
	userRepo     repository.UserRepository
	walletRepo   repository.WalletRepository
	txnRepo      repository.TransactionRepository
	projector    *Projector
	dueDays      int
	rewardAmount decimal.Decimal
}

func NewLedgerService(
	store repository.LedgerStore,
	userRepo repository.UserRepository,
	walletRepo repository.WalletRepository,
	txnRepo repository.TransactionRepository,
	projector *Projector,
	dueDays int,
	rewardAmount decimal.Decimal,
) LedgerService {
	return &ledgerService{
		store:        store,
		userRepo:     userRepo,
		walletRepo:   walletRepo,
		txnRepo:      txnRepo,
		projector:    projector,
		dueDays:      dueDays,
		rewardAmount: rewardAmount,
	}
}

func validateAmount(amount decimal.Decimal) error {
	if amount.LessThan(minAmount) {
		return domain.ErrInvalidAmount
	}
	return nil
}

// verifyPIN gates every outgoing money movement. Ghost users have no
// PIN and can never pass.
func (s *ledgerService) verifyPIN(user *domain.User, pin string) error {
	if !user.HasPIN() {
		return domain.ErrIncorrectPIN
	}
	if !security.CheckPIN(*user.PINHash, pin) {
		return domain.ErrIncorrectPIN
	}
	return nil
}

func (s *ledgerService) Transfer(ctx context.Context, senderID, recipientID string, amount decimal.Decimal, note, pin string) (*domain.Transaction, error) {
	logger.EnterMethod("ledgerService.Transfer", "senderID", senderID, "recipientID", recipientID)

	if senderID == recipientID {
		return nil, domain.ErrInvalidRecipient
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		return nil, domain.ErrInvalidRecipient
	}

	correlationID := uuid.NewString()

	// Rejections of the attempt itself (bad amount, wrong PIN, not
	// enough money) leave a failed record on the sender side; only
	// infrastructure errors skip the audit trail.
	if err := validateAmount(amount); err != nil {
		s.recordTransferFailure(ctx, sender, recipient, amount, note, correlationID, err)
		return nil, err
	}
	if err := s.verifyPIN(sender, pin); err != nil {
		s.recordTransferFailure(ctx, sender, recipient, amount, note, correlationID, err)
		return nil, err
	}

	var sendRec *domain.Transaction

	err = s.store.WithinTx(ctx, func(tx repository.LedgerTx) error {
		wallets, err := tx.GetWalletsForUpdate(ctx, []string{sender.ID, recipient.ID})
		if err != nil {
			return err
		}
		senderWallet := wallets[sender.ID]
		recipientWallet := wallets[recipient.ID]

		if !senderWallet.CanCover(amount) {
			return domain.ErrInsufficientBalance
		}

		senderWallet.Balance = senderWallet.Balance.Sub(amount)
		recipientWallet.Balance = recipientWallet.Balance.Add(amount)
		if err := tx.UpdateWallet(ctx, senderWallet); err != nil {
			return err
		}
		if err := tx.UpdateWallet(ctx, recipientWallet); err != nil {
			return err
		}

		sendRec = domain.NewSendRecord(uuid.NewString(), sender.ID, recipient, amount, note, correlationID)
		if err := tx.CreateTransaction(ctx, sendRec); err != nil {
			return err
		}
		return tx.CreateTransaction(ctx, domain.NewReceiveRecord(uuid.NewString(), recipient.ID, sender, amount, note, correlationID))
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) || errors.Is(err, domain.ErrNotFound) {
			s.recordTransferFailure(ctx, sender, recipient, amount, note, correlationID, err)
		}
		logger.ExitMethodWithError("ledgerService.Transfer", err, "senderID", senderID)
		return nil, err
	}

	s.projector.TransferSucceeded(ctx, sender, recipient, amount, note, sendRec.ID)
	logger.ExitMethod("ledgerService.Transfer", "txnID", sendRec.ID)
	return sendRec, nil
}

func (s *ledgerService) recordTransferFailure(ctx context.Context, sender, recipient *domain.User, amount decimal.Decimal, note, correlationID string, cause error) {
	failed := domain.NewFailedRecord(uuid.NewString(), sender.ID, recipient, note, cause.Error(), correlationID)
	if err := s.txnRepo.Create(ctx, failed); err != nil {
		logger.Warn("Failed to write failure record", "senderID", sender.ID, "error", err)
	}
	s.projector.TransferFailed(ctx, sender, recipient, amount, note, failed.ID)
}

func (s *ledgerService) PaySplit(ctx context.Context, splitID, userID, pin string) error {
	logger.EnterMethod("ledgerService.PaySplit", "splitID", splitID, "userID", userID)

	payer, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.verifyPIN(payer, pin); err != nil {
		return err
	}

	var split *domain.Split
	err = s.store.WithinTx(ctx, func(tx repository.LedgerTx) error {
		split, err = tx.GetSplitForUpdate(ctx, splitID)
		if err != nil {
			return err
		}
		participant := split.Participant(userID)
		if participant == nil {
			return domain.ErrNotFound
		}
		if participant.Paid {
			return domain.ErrAlreadySettled
		}

		wallets, err := tx.GetWalletsForUpdate(ctx, []string{userID, split.InitiatorID})
		if err != nil {
			return err
		}
		payerWallet := wallets[userID]
		initiatorWallet := wallets[split.InitiatorID]

		if !payerWallet.CanCover(split.PerPerson) {
			return domain.ErrInsufficientBalance
		}

		payerWallet.Balance = payerWallet.Balance.Sub(split.PerPerson)
		initiatorWallet.Balance = initiatorWallet.Balance.Add(split.PerPerson)
		if err := tx.UpdateWallet(ctx, payerWallet); err != nil {
			return err
		}
		if err := tx.UpdateWallet(ctx, initiatorWallet); err != nil {
			return err
		}

		participant.Paid = true
		if split.AllPaid() {
			split.Status = domain.SplitStatusSettled
		}
		if err := tx.UpdateSplit(ctx, split); err != nil {
			return err
		}

		initiator := &domain.User{ID: split.InitiatorID, Email: split.InitiatorEmail, Name: split.InitiatorName}
		if err := tx.CreateTransaction(ctx, domain.NewSplitPaymentRecord(splitID, payer, initiator, split.PerPerson, split.Note)); err != nil {
			return err
		}
		return tx.CreateTransaction(ctx, domain.NewSplitReceiveRecord(splitID, payer, initiator, split.PerPerson, split.Note))
	})
	if err != nil {
		logger.ExitMethodWithError("ledgerService.PaySplit", err, "splitID", splitID, "userID", userID)
		return err
	}

	s.projector.SplitPaid(ctx, payer, split)
	logger.ExitMethod("ledgerService.PaySplit", "splitID", splitID)
	return nil
}

func (s *ledgerService) UseCredit(ctx context.Context, userID string, amount decimal.Decimal, note, pin string) (*domain.CreditDraw, error) {
	logger.EnterMethod("ledgerService.UseCredit", "userID", userID)

	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.verifyPIN(user, pin); err != nil {
		return nil, err
	}
	if note == "" {
		note = "Used ZupPayLater credit"
	}

	draw := &domain.CreditDraw{
		ID:      uuid.NewString(),
		UserID:  userID,
		Amount:  amount,
		Note:    note,
		DueDate: time.Now().AddDate(0, 0, s.dueDays),
		Status:  domain.DrawStatusDue,
	}

	err = s.store.WithinTx(ctx, func(tx repository.LedgerTx) error {
		wallets, err := tx.GetWalletsForUpdate(ctx, []string{userID})
		if err != nil {
			return err
		}
		wallet := wallets[userID]

		if !wallet.PayLaterEnabled || wallet.PayLaterStatus != domain.PayLaterStatusApproved {
			return domain.ErrPayLaterDisabled
		}
		if amount.GreaterThan(wallet.AvailableCredit()) {
			return domain.ErrCreditLimitExceeded
		}

		// A draw raises the debt and the spendable balance by the
		// same amount.
		wallet.UsedCredit = wallet.UsedCredit.Add(amount)
		wallet.Balance = wallet.Balance.Add(amount)
		if err := tx.UpdateWallet(ctx, wallet); err != nil {
			return err
		}

		if err := tx.CreateDraw(ctx, draw); err != nil {
			return err
		}
		return tx.CreateTransaction(ctx, domain.NewCreditDrawRecord(draw.ID, userID, amount))
	})
	if err != nil {
		logger.ExitMethodWithError("ledgerService.UseCredit", err, "userID", userID)
		return nil, err
	}

	logger.ExitMethod("ledgerService.UseCredit", "drawID", draw.ID)
	return draw, nil
}

func (s *ledgerService) PayDue(ctx context.Context, userID, drawID, pin string) error {
	logger.EnterMethod("ledgerService.PayDue", "userID", userID, "drawID", drawID)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.verifyPIN(user, pin); err != nil {
		return err
	}

	var draw *domain.CreditDraw
	err = s.store.WithinTx(ctx, func(tx repository.LedgerTx) error {
		draw, err = tx.GetDrawForUpdate(ctx, drawID)
		if err != nil {
			return err
		}
		if draw.UserID != userID {
			return domain.ErrNotFound
		}
		if draw.Status == domain.DrawStatusPaid {
			return domain.ErrAlreadySettled
		}

		wallets, err := tx.GetWalletsForUpdate(ctx, []string{userID})
		if err != nil {
			return err
		}
		wallet := wallets[userID]

		if !wallet.CanCover(draw.Amount) {
			return domain.ErrInsufficientBalance
		}
		// The debt counter must always cover the draw being settled;
		// anything less means the two drifted apart.
		if wallet.UsedCredit.LessThan(draw.Amount) {
			return domain.ErrCorruptState
		}

		wallet.Balance = wallet.Balance.Sub(draw.Amount)
		wallet.UsedCredit = wallet.UsedCredit.Sub(draw.Amount)
		if err := tx.UpdateWallet(ctx, wallet); err != nil {
			return err
		}

		now := time.Now()
		draw.Status = domain.DrawStatusPaid
		draw.PaidAt = &now
		if err := tx.UpdateDraw(ctx, draw); err != nil {
			return err
		}

		return tx.CreateTransaction(ctx, domain.NewCreditRepaymentRecord(uuid.NewString(), userID, drawID, draw.Amount))
	})
	if err != nil {
		logger.ExitMethodWithError("ledgerService.PayDue", err, "drawID", drawID)
		return err
	}

	s.projector.DuePaid(ctx, user, draw)
	logger.ExitMethod("ledgerService.PayDue", "drawID", drawID)
	return nil
}

func (s *ledgerService) ExtendDue(ctx context.Context, userID, drawID string, addedDays int, pin string) error {
	logger.EnterMethod("ledgerService.ExtendDue", "userID", userID, "drawID", drawID, "addedDays", addedDays)

	switch addedDays {
	case 15, 30, 45:
	default:
		return domain.ErrInvalidExtension
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.verifyPIN(user, pin); err != nil {
		return err
	}

	err = s.store.WithinTx(ctx, func(tx repository.LedgerTx) error {
		draw, err := tx.GetDrawForUpdate(ctx, drawID)
		if err != nil {
			return err
		}
		if draw.UserID != userID {
			return domain.ErrNotFound
		}
		if draw.Status == domain.DrawStatusPaid {
			return domain.ErrAlreadySettled
		}

		fee := domain.ExtensionFee(draw.Amount, addedDays)

		wallets, err := tx.GetWalletsForUpdate(ctx, []string{userID})
		if err != nil {
			return err
		}
		wallet := wallets[userID]
		if !wallet.CanCover(fee) {
			return domain.ErrInsufficientBalance
		}

		wallet.Balance = wallet.Balance.Sub(fee)
		if err := tx.UpdateWallet(ctx, wallet); err != nil {
			return err
		}

		// The due amount never changes; only the date moves.
		now := time.Now()
		newDue := draw.DueDate.AddDate(0, 0, addedDays)
		draw.DueDate = newDue
		draw.Status = domain.DrawStatusDue
		draw.Extensions = append(draw.Extensions, domain.DrawExtension{
			ExtendedAt: now,
			AddedDays:  addedDays,
			NewDueDate: newDue,
			FeePaid:    fee,
		})
		if err := tx.UpdateDraw(ctx, draw); err != nil {
			return err
		}

		return tx.CreateTransaction(ctx, domain.NewCreditExtensionRecord(uuid.NewString(), userID, drawID, fee, addedDays))
	})
	if err != nil {
		logger.ExitMethodWithError("ledgerService.ExtendDue", err, "drawID", drawID)
		return err
	}

	logger.ExitMethod("ledgerService.ExtendDue", "drawID", drawID)
	return nil
}

func (s *ledgerService) ClaimReward(ctx context.Context, claimerID, invitedID string) error {
	logger.EnterMethod("ledgerService.ClaimReward", "claimerID", claimerID, "invitedID", invitedID)

	claimer, err := s.userRepo.GetByID(ctx, claimerID)
	if err != nil {
		return err
	}

	var invited *domain.User
	err = s.store.WithinTx(ctx, func(tx repository.LedgerTx) error {
		invited, err = tx.GetUserForUpdate(ctx, invitedID)
		if err != nil {
			return err
		}
		if invited.ReferredBy == nil || *invited.ReferredBy != claimerID {
			return domain.ErrNotFound
		}
		if invited.RewardClaimed {
			return domain.ErrAlreadyClaimed
		}
		if err := tx.MarkRewardClaimed(ctx, invitedID); err != nil {
			return err
		}

		wallets, err := tx.GetWalletsForUpdate(ctx, []string{claimerID})
		if err != nil {
			return err
		}
		wallet := wallets[claimerID]
		wallet.Balance = wallet.Balance.Add(s.rewardAmount)
		if err := tx.UpdateWallet(ctx, wallet); err != nil {
			return err
		}

		return tx.CreateTransaction(ctx, domain.NewRewardRecord(uuid.NewString(), claimerID, s.rewardAmount, invited.Name))
	})
	if err != nil {
		logger.ExitMethodWithError("ledgerService.ClaimReward", err, "invitedID", invitedID)
		return err
	}

	s.projector.RewardClaimed(ctx, claimer, invited, s.rewardAmount)
	logger.ExitMethod("ledgerService.ClaimReward", "claimerID", claimerID)
	return nil
}

func (s *ledgerService) AddMoney(ctx context.Context, userID string, amount decimal.Decimal, upi string) (*domain.Transaction, error) {
	logger.EnterMethod("ledgerService.AddMoney", "userID", userID)

	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	rec := domain.NewTopUpRecord(
		uuid.NewString(), userID, amount, upi,
		fmt.Sprintf("zuppay_%d", now),
		fmt.Sprintf("order_%d", now),
	)

	err := s.store.WithinTx(ctx, func(tx repository.LedgerTx) error {
		wallets, err := tx.GetWalletsForUpdate(ctx, []string{userID})
		if err != nil {
			return err
		}
		wallet := wallets[userID]
		wallet.Balance = wallet.Balance.Add(amount)
		if err := tx.UpdateWallet(ctx, wallet); err != nil {
			return err
		}
		return tx.CreateTransaction(ctx, rec)
	})
	if err != nil {
		logger.ExitMethodWithError("ledgerService.AddMoney", err, "userID", userID)
		return nil, err
	}

	logger.ExitMethod("ledgerService.AddMoney", "txnID", rec.ID)
	return rec, nil
}

func (s *ledgerService) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	return s.walletRepo.Get(ctx, userID)
}

func (s *ledgerService) GetTransactions(ctx context.Context, userID string, page, pageSize int32) ([]domain.Transaction, int32, error) {
	return s.txnRepo.ListByUser(ctx, userID, page, pageSize)
}
