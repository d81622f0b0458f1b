package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"
	"clubhub-backend/internal/security"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	store  repository.Store
	notes  NotificationService
	tokens security.TokenManager
}

func NewAuthService(store repository.Store, notes NotificationService, tokens security.TokenManager) AuthService {
	return &authService{
		store:  store,
		notes:  notes,
		tokens: tokens,
	}
}

// Register creates a student account. Elevated roles are only granted through
// club approval or bootstrap configuration.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, *TokenPair, error) {
	logger.EnterMethod("authService.Register", "email", in.Email)

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(in); err != nil {
		logger.ExitMethodWithError("authService.Register", err)
		return nil, nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}

	ts := now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.UserRoleStudent,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	err = runCommand(ctx, s.store, s.notes, func(tx repository.Store, out *outbox) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		_, err := out.notify(ctx, user.ID, fmt.Sprintf("Welcome to ClubHub, %s", user.Username))
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("authService.Register", err, "email", in.Email)
		return nil, nil, err
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	logger.ExitMethod("authService.Register", "userID", user.ID)
	return user, pair, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	logger.EnterMethod("authService.Login", "email", email)

	user, err := s.store.Users().GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		logger.ExitMethodWithError("authService.Login", domain.ErrInvalidCredentials, "reason", "unknown email")
		return nil, nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.ExitMethodWithError("authService.Login", domain.ErrInvalidCredentials, "reason", "password mismatch")
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	logger.ExitMethod("authService.Login", "userID", user.ID)
	return user, pair, nil
}

// RefreshToken issues a new pair from a valid refresh token, picking up any
// role change since the last login.
func (s *authService) RefreshToken(ctx context.Context, refresh string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	if claims.Type != security.TokenTypeRefresh {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, security.ErrWrongTokenType)
	}
	user, err := s.store.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	return s.issue(user)
}

func (s *authService) issue(user *domain.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
