package mocks

import (
	"context"
	"errors"

	model "github.com/zdziszkee/bankmap/internal/model"
)

// MockBankRepository implements the BankRepository interface for testing
type MockBankRepository struct {
	FindByIDFunc   func(ctx context.Context, id int64) (*model.Bank, error)
	FindByCodeFunc func(ctx context.Context, code string) (*model.Bank, error)
	ListFunc       func(ctx context.Context) ([]model.Bank, error)
	SaveFunc       func(ctx context.Context, bank *model.Bank) error
	DeleteFunc     func(ctx context.Context, id int64) error
}

func (m *MockBankRepository) FindByID(ctx context.Context, id int64) (*model.Bank, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *MockBankRepository) FindByCode(ctx context.Context, code string) (*model.Bank, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	return nil, errors.New("FindByCode not implemented")
}

func (m *MockBankRepository) List(ctx context.Context) ([]model.Bank, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, errors.New("List not implemented")
}

func (m *MockBankRepository) Save(ctx context.Context, bank *model.Bank) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, bank)
	}
	return errors.New("Save not implemented")
}

func (m *MockBankRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return errors.New("Delete not implemented")
}

// MockBranchRepository implements the BranchRepository interface for testing
type MockBranchRepository struct {
	FindByIDFunc          func(ctx context.Context, id int64) (*model.Branch, error)
	FindByBankAndCodeFunc func(ctx context.Context, bankID int64, code string) (*model.Branch, error)
	ListFunc              func(ctx context.Context) ([]model.Branch, error)
	ListByBankFunc        func(ctx context.Context, bankID int64) ([]model.Branch, error)
	SaveFunc              func(ctx context.Context, branch *model.Branch) error
	DeleteFunc            func(ctx context.Context, id int64) error
}

func (m *MockBranchRepository) FindByID(ctx context.Context, id int64) (*model.Branch, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *MockBranchRepository) FindByBankAndCode(ctx context.Context, bankID int64, code string) (*model.Branch, error) {
	if m.FindByBankAndCodeFunc != nil {
		return m.FindByBankAndCodeFunc(ctx, bankID, code)
	}
	return nil, errors.New("FindByBankAndCode not implemented")
}

func (m *MockBranchRepository) List(ctx context.Context) ([]model.Branch, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, errors.New("List not implemented")
}

func (m *MockBranchRepository) ListByBank(ctx context.Context, bankID int64) ([]model.Branch, error) {
	if m.ListByBankFunc != nil {
		return m.ListByBankFunc(ctx, bankID)
	}
	return nil, errors.New("ListByBank not implemented")
}

func (m *MockBranchRepository) Save(ctx context.Context, branch *model.Branch) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, branch)
	}
	return errors.New("Save not implemented")
}

func (m *MockBranchRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return errors.New("Delete not implemented")
}

// MockATMRepository implements the ATMRepository interface for testing
type MockATMRepository struct {
	FindByIDFunc     func(ctx context.Context, id int64) (*model.ATM, error)
	FindByCodeFunc   func(ctx context.Context, code string) (*model.ATM, error)
	ListFunc         func(ctx context.Context) ([]model.ATM, error)
	ListByBankFunc   func(ctx context.Context, bankID int64) ([]model.ATM, error)
	SaveFunc         func(ctx context.Context, atm *model.ATM) error
	UpdateStatusFunc func(ctx context.Context, ids []int64, status model.ATMStatus) (int64, error)
	DeleteFunc       func(ctx context.Context, id int64) error
}

func (m *MockATMRepository) FindByID(ctx context.Context, id int64) (*model.ATM, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *MockATMRepository) FindByCode(ctx context.Context, code string) (*model.ATM, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	return nil, errors.New("FindByCode not implemented")
}

func (m *MockATMRepository) List(ctx context.Context) ([]model.ATM, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, errors.New("List not implemented")
}

func (m *MockATMRepository) ListByBank(ctx context.Context, bankID int64) ([]model.ATM, error) {
	if m.ListByBankFunc != nil {
		return m.ListByBankFunc(ctx, bankID)
	}
	return nil, errors.New("ListByBank not implemented")
}

func (m *MockATMRepository) Save(ctx context.Context, atm *model.ATM) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, atm)
	}
	return errors.New("Save not implemented")
}

func (m *MockATMRepository) UpdateStatus(ctx context.Context, ids []int64, status model.ATMStatus) (int64, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, ids, status)
	}
	return 0, errors.New("UpdateStatus not implemented")
}

func (m *MockATMRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return errors.New("Delete not implemented")
}
