package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	model "github.com/zdziszkee/bankmap/internal/model"
	"github.com/zdziszkee/bankmap/internal/repository"
)

// PermissionService manages the superuser flag of accounts
type PermissionService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	ToggleSuperuser(ctx context.Context, rawUserID string) error
}

type permissionService struct {
	users repository.UserRepository
	log   *zap.Logger
}

// NewPermissionService creates a new permission service
func NewPermissionService(users repository.UserRepository, log *zap.Logger) PermissionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &permissionService{users: users, log: log}
}

// ListUsers returns every account in ascending id order
func (s *permissionService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ToggleSuperuser flips the superuser flag of one account.
// ErrUserNotFound is returned for unknown or malformed ids.
func (s *permissionService) ToggleSuperuser(ctx context.Context, rawUserID string) error {
	id, ok := parseID(rawUserID)
	if !ok {
		return ErrUserNotFound
	}
	isSuperuser, err := s.users.ToggleSuperuser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("toggle superuser %d: %w", id, err)
	}

	s.log.Info("superuser flag toggled", zap.Int64("user_id", id), zap.Bool("is_superuser", isSuperuser))
	return nil
}
