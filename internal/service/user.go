package service

import (
	"context"
	"errors"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/logger"
	"github.com/SkAltmash/ZapSplit/internal/repository"
)

type userService struct {
	userRepo   repository.UserRepository
	walletRepo repository.WalletRepository
}

func NewUserService(userRepo repository.UserRepository, walletRepo repository.WalletRepository) UserService {
	return &userService{
		userRepo:   userRepo,
		walletRepo: walletRepo,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*domain.User, *domain.Wallet, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	wallet, err := s.walletRepo.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, wallet, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID, name, photoURL, mobile string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if name != "" {
		user.Name = name
	}
	if photoURL != "" {
		user.PhotoURL = photoURL
	}
	if mobile != "" {
		user.Mobile = mobile
	}
	return s.userRepo.Update(ctx, user)
}

// ResolveMobileRecipient finds or creates the payee behind a mobile
// number. Nobody registered yet means a ghost user is minted: it can
// receive money and is claimed later when the number signs up.
func (s *userService) ResolveMobileRecipient(ctx context.Context, mobile string) (*domain.User, error) {
	user, err := s.userRepo.GetByMobile(ctx, mobile)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	logger.Info("Creating ghost recipient", "mobile", mobile)
	ghost := &domain.User{
		ID:      domain.GhostID(mobile),
		Email:   domain.GhostEmail(mobile),
		Name:    mobile,
		Mobile:  mobile,
		IsGhost: true,
	}
	if err := s.userRepo.Create(ctx, ghost); err != nil {
		return nil, err
	}
	wallet := &domain.Wallet{
		UserID:         ghost.ID,
		PayLaterStatus: domain.PayLaterStatusNone,
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}
	return ghost, nil
}

func (s *userService) ReferralDetails(ctx context.Context, userID string) ([]domain.User, error) {
	return s.userRepo.ListReferrals(ctx, userID)
}
