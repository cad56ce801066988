package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/ports"
)

// UserService handles profile operations
type UserService struct {
	userRepo ports.UserRepository
	logger   *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger.WithComponent("user"),
	}
}

// CreateUser creates an active account outside the registration flow.
func (s *UserService) CreateUser(ctx context.Context, req ports.CreateUserRequest) (*entities.User, error) {
	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, entities.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infow("User created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// GetProfile retrieves a user by ID
func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes the editable profile fields. When the requested
// username belongs to another account nothing is changed and
// ErrUsernameTaken is returned.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req ports.UpdateProfileRequest) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Username != user.Username {
		other, err := s.userRepo.GetByUsername(ctx, req.Username)
		switch {
		case err == nil && other.ID != user.ID:
			return nil, entities.ErrUsernameTaken
		case err != nil && !errors.Is(err, entities.ErrUserNotFound):
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
	}

	updated := *user
	updated.Username = req.Username
	updated.Email = req.Email
	updated.FirstName = req.FirstName
	updated.LastName = req.LastName

	if err := s.userRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, entities.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.LogUserAction(id.String(), "profile_updated", nil)
	return &updated, nil
}

// ChangePassword verifies the old password and stores the new hash. The
// returned user carries the new hash.
func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, req ports.ChangePasswordRequest) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, req.OldPassword) {
		s.logger.LogSecurityEvent("password_change_rejected", id.String(), "", nil)
		return nil, entities.ErrInvalidPassword
	}

	hashed, err := HashPassword(req.NewPassword1)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdatePassword(ctx, id, hashed); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	user.PasswordHash = hashed

	s.logger.LogUserAction(id.String(), "password_changed", nil)
	return user, nil
}
