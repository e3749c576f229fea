package mocks

import (
	"context"
	"errors"
	"time"

	model "github.com/zdziszkee/bankmap/internal/model"
)

// MockUserRepository implements the UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc          func(ctx context.Context, user *model.User) error
	FindByIDFunc        func(ctx context.Context, id int64) (*model.User, error)
	FindByUsernameFunc  func(ctx context.Context, username string) (*model.User, error)
	ListFunc            func(ctx context.Context) ([]model.User, error)
	ToggleSuperuserFunc func(ctx context.Context, id int64) (bool, error)
	TouchLastLoginFunc  func(ctx context.Context, id int64, at time.Time) error
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return errors.New("Create not implemented")
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, errors.New("FindByUsername not implemented")
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, errors.New("List not implemented")
}

func (m *MockUserRepository) ToggleSuperuser(ctx context.Context, id int64) (bool, error) {
	if m.ToggleSuperuserFunc != nil {
		return m.ToggleSuperuserFunc(ctx, id)
	}
	return false, errors.New("ToggleSuperuser not implemented")
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	if m.TouchLastLoginFunc != nil {
		return m.TouchLastLoginFunc(ctx, id, at)
	}
	return nil
}

// MockSessionRepository implements the SessionRepository interface for testing
type MockSessionRepository struct {
	CreateFunc        func(ctx context.Context, session *model.Session) error
	FindValidFunc     func(ctx context.Context, tokenHash string, now time.Time) (*model.User, error)
	DeleteFunc        func(ctx context.Context, tokenHash string) error
	DeleteExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
}

func (m *MockSessionRepository) Create(ctx context.Context, session *model.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return errors.New("Create not implemented")
}

func (m *MockSessionRepository) FindValid(ctx context.Context, tokenHash string, now time.Time) (*model.User, error) {
	if m.FindValidFunc != nil {
		return m.FindValidFunc(ctx, tokenHash, now)
	}
	return nil, errors.New("FindValid not implemented")
}

func (m *MockSessionRepository) Delete(ctx context.Context, tokenHash string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tokenHash)
	}
	return errors.New("Delete not implemented")
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx, now)
	}
	return 0, errors.New("DeleteExpired not implemented")
}
