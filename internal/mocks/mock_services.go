package mocks

import (
	"context"

	model "github.com/zdziszkee/bankmap/internal/model"
	"github.com/zdziszkee/bankmap/internal/service"
)

// MockLocationService implements service.LocationService.
type MockLocationService struct {
	SaveBankFunc      func(ctx context.Context, in service.BankInput) (*service.SaveResult, error)
	DeleteBankFunc    func(ctx context.Context, rawID string) error
	SaveBranchFunc    func(ctx context.Context, in service.BranchInput) (*service.SaveResult, error)
	DeleteBranchFunc  func(ctx context.Context, rawID string) error
	SaveATMFunc       func(ctx context.Context, in service.ATMInput) (*service.SaveResult, error)
	DeleteATMFunc     func(ctx context.Context, rawID string) error
	SetATMStatusFunc  func(ctx context.Context, rawIDs []string, status string) (int64, error)
	SnapshotFunc      func(ctx context.Context) (*service.Snapshot, error)
	ATMsByBankFunc    func(ctx context.Context, rawBankID string) ([]service.BankATM, error)
	ATMPinsByBankFunc func(ctx context.Context, rawBankID string) ([]service.ATMPin, error)
}

func (m *MockLocationService) SaveBank(ctx context.Context, in service.BankInput) (*service.SaveResult, error) {
	return m.SaveBankFunc(ctx, in)
}

func (m *MockLocationService) DeleteBank(ctx context.Context, rawID string) error {
	return m.DeleteBankFunc(ctx, rawID)
}

func (m *MockLocationService) SaveBranch(ctx context.Context, in service.BranchInput) (*service.SaveResult, error) {
	return m.SaveBranchFunc(ctx, in)
}

func (m *MockLocationService) DeleteBranch(ctx context.Context, rawID string) error {
	return m.DeleteBranchFunc(ctx, rawID)
}

func (m *MockLocationService) SaveATM(ctx context.Context, in service.ATMInput) (*service.SaveResult, error) {
	return m.SaveATMFunc(ctx, in)
}

func (m *MockLocationService) DeleteATM(ctx context.Context, rawID string) error {
	return m.DeleteATMFunc(ctx, rawID)
}

func (m *MockLocationService) SetATMStatus(ctx context.Context, rawIDs []string, status string) (int64, error) {
	return m.SetATMStatusFunc(ctx, rawIDs, status)
}

func (m *MockLocationService) Snapshot(ctx context.Context) (*service.Snapshot, error) {
	return m.SnapshotFunc(ctx)
}

func (m *MockLocationService) ATMsByBank(ctx context.Context, rawBankID string) ([]service.BankATM, error) {
	return m.ATMsByBankFunc(ctx, rawBankID)
}

func (m *MockLocationService) ATMPinsByBank(ctx context.Context, rawBankID string) ([]service.ATMPin, error) {
	return m.ATMPinsByBankFunc(ctx, rawBankID)
}

// MockAuthService implements service.AuthService.
type MockAuthService struct {
	RegisterFunc             func(ctx context.Context, in service.RegisterInput) (*model.User, error)
	LoginFunc                func(ctx context.Context, username, password string) (*service.LoginResult, error)
	LogoutFunc               func(ctx context.Context, token string) error
	AuthenticateFunc         func(ctx context.Context, token string) (*model.User, error)
	EnsureSuperuserFunc      func(ctx context.Context, username, password string) (bool, error)
	PurgeExpiredSessionsFunc func(ctx context.Context) (int64, error)
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	return m.RegisterFunc(ctx, in)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	return m.LoginFunc(ctx, username, password)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx, token)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if m.AuthenticateFunc == nil {
		return nil, service.ErrSessionInvalid
	}
	return m.AuthenticateFunc(ctx, token)
}

func (m *MockAuthService) EnsureSuperuser(ctx context.Context, username, password string) (bool, error) {
	return m.EnsureSuperuserFunc(ctx, username, password)
}

func (m *MockAuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return m.PurgeExpiredSessionsFunc(ctx)
}

// MockPermissionService implements service.PermissionService.
type MockPermissionService struct {
	ListUsersFunc       func(ctx context.Context) ([]model.User, error)
	ToggleSuperuserFunc func(ctx context.Context, rawUserID string) error
}

func (m *MockPermissionService) ListUsers(ctx context.Context) ([]model.User, error) {
	return m.ListUsersFunc(ctx)
}

func (m *MockPermissionService) ToggleSuperuser(ctx context.Context, rawUserID string) error {
	return m.ToggleSuperuserFunc(ctx, rawUserID)
}
