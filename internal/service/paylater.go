package service

import (
	"context"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/logger"
	"github.com/SkAltmash/ZapSplit/internal/repository"

	"github.com/shopspring/decimal"
)

type payLaterService struct {
	walletRepo repository.WalletRepository
	drawRepo   repository.PayLaterRepository
}

func NewPayLaterService(walletRepo repository.WalletRepository, drawRepo repository.PayLaterRepository) PayLaterService {
	return &payLaterService{
		walletRepo: walletRepo,
		drawRepo:   drawRepo,
	}
}

// Apply decides the credit program terms from declared income. The
// decision is immediate: qualifying income gets an approved limit,
// anything below the floor is rejected outright.
func (s *payLaterService) Apply(ctx context.Context, userID, occupation string, monthlyIncome decimal.Decimal, pan string) (*domain.Wallet, error) {
	logger.EnterMethod("payLaterService.Apply", "userID", userID, "occupation", occupation)

	wallet, err := s.walletRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet.PayLaterStatus == domain.PayLaterStatusApproved {
		return nil, domain.ErrAlreadySettled
	}

	limit, approved := domain.CreditLimitFor(monthlyIncome)
	if approved {
		wallet.CreditLimit = limit
		wallet.PayLaterEnabled = true
		wallet.PayLaterStatus = domain.PayLaterStatusApproved
	} else {
		wallet.CreditLimit = decimal.Zero
		wallet.PayLaterEnabled = false
		wallet.PayLaterStatus = domain.PayLaterStatusRejected
	}

	if err := s.walletRepo.UpdatePayLaterTerms(ctx, wallet); err != nil {
		logger.ExitMethodWithError("payLaterService.Apply", err, "userID", userID)
		return nil, err
	}

	logger.ExitMethod("payLaterService.Apply", "userID", userID, "status", wallet.PayLaterStatus)
	return wallet, nil
}

func (s *payLaterService) Dashboard(ctx context.Context, userID string) (*domain.Wallet, []domain.CreditDraw, error) {
	wallet, err := s.walletRepo.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	draws, err := s.drawRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return wallet, draws, nil
}
