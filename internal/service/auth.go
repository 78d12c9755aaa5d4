package service

import (
	"context"
	"errors"

	"github.com/SkAltmash/ZapSplit/internal/domain"
	"github.com/SkAltmash/ZapSplit/internal/logger"
	"github.com/SkAltmash/ZapSplit/internal/repository"
	"github.com/SkAltmash/ZapSplit/internal/security"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
)

type authService struct {
	userRepo   repository.UserRepository
	walletRepo repository.WalletRepository
	tokens     security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, walletRepo repository.WalletRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo:   userRepo,
		walletRepo: walletRepo,
		tokens:     tokens,
	}
}

func (s *authService) Signup(ctx context.Context, email, password, name, mobile, referrerID string) (*domain.User, string, string, error) {
	logger.EnterMethod("authService.Signup", "email", email)

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Mobile:       mobile,
		PasswordHash: string(hash),
	}

	// A dangling referral code is ignored rather than rejected; the
	// signup itself must not fail over it.
	if referrerID != "" {
		if referrer, err := s.userRepo.GetByID(ctx, referrerID); err == nil && !referrer.IsGhost {
			user.ReferredBy = &referrer.ID
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", err
	}

	wallet := &domain.Wallet{
		UserID:         user.ID,
		PayLaterStatus: domain.PayLaterStatusNone,
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.generateTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	logger.ExitMethod("authService.Signup", "userID", user.ID)
	return user, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}
	if user.IsGhost {
		return nil, "", "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, refresh, err := s.generateTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil || claims.Type != security.TokenTypeRefresh {
		return "", "", ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	access, newRefresh, err := s.generateTokens(user)
	if err != nil {
		return "", "", err
	}
	return access, newRefresh, nil
}

func (s *authService) SetPIN(ctx context.Context, userID, pin string) error {
	hash, err := security.HashPIN(pin)
	if err != nil {
		return err
	}
	return s.userRepo.SetPINHash(ctx, userID, hash)
}

func (s *authService) RegisterFCMToken(ctx context.Context, userID, token string) error {
	return s.userRepo.SetFCMToken(ctx, userID, token)
}

func (s *authService) generateTokens(user *domain.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
