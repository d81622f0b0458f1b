package service

import (
	"context"
	"errors"
	"strings"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/logger"
	"clubhub-backend/internal/repository"

	"github.com/google/uuid"
)

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// RegisterDevice stores the push token used by the mobile deliverer. An empty
// token unregisters the device.
func (s *userService) RegisterDevice(ctx context.Context, userID, deviceToken string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.DeviceToken = strings.TrimSpace(deviceToken)
	user.UpdatedAt = now()
	return s.users.Update(ctx, user)
}

// EnsureUser creates u unless a user with the same email already exists, in
// which case the existing user is returned unchanged.
func (s *userService) EnsureUser(ctx context.Context, u BootstrapUser) (*domain.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := validateInput(u); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, u.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(u.Password)
	if err != nil {
		return nil, err
	}
	ts := now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: hash,
		Role:         u.Role,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.Info("Bootstrapped user", "userID", user.ID, "email", user.Email, "role", user.Role)
	return user, nil
}
