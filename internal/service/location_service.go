package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zdziszkee/bankmap/internal/metrics"
	model "github.com/zdziszkee/bankmap/internal/model"
	"github.com/zdziszkee/bankmap/internal/repository"
)

// SaveResult is the outcome of a successful create-or-update
type SaveResult struct {
	ID      int64
	Created bool
}

// LocationService handles business logic for banks, branches and ATMs
type LocationService interface {
	SaveBank(ctx context.Context, in BankInput) (*SaveResult, error)
	DeleteBank(ctx context.Context, rawID string) error
	SaveBranch(ctx context.Context, in BranchInput) (*SaveResult, error)
	DeleteBranch(ctx context.Context, rawID string) error
	SaveATM(ctx context.Context, in ATMInput) (*SaveResult, error)
	DeleteATM(ctx context.Context, rawID string) error
	SetATMStatus(ctx context.Context, rawIDs []string, status string) (int64, error)

	Snapshot(ctx context.Context) (*Snapshot, error)
	ATMsByBank(ctx context.Context, rawBankID string) ([]BankATM, error)
	ATMPinsByBank(ctx context.Context, rawBankID string) ([]ATMPin, error)
}

// LocationRepositories groups the stores the location service works on
type LocationRepositories struct {
	Banks    repository.BankRepository
	Branches repository.BranchRepository
	ATMs     repository.ATMRepository
}

type locationService struct {
	banks    repository.BankRepository
	branches repository.BranchRepository
	atms     repository.ATMRepository
	loc      *time.Location
	log      *zap.Logger
	metrics  *metrics.Metrics
}

// NewLocationService creates a new location service. Snapshot timestamps are rendered in loc.
func NewLocationService(repos LocationRepositories, loc *time.Location, log *zap.Logger, m *metrics.Metrics) LocationService {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &locationService{
		banks:    repos.Banks,
		branches: repos.Branches,
		atms:     repos.ATMs,
		loc:      loc,
		log:      log,
		metrics:  m,
	}
}

func (s *locationService) SaveBank(ctx context.Context, in BankInput) (res *SaveResult, err error) {
	op := saveOp(in.ID)
	defer func() { s.record("bank", op, err) }()

	bank := &model.Bank{}
	if in.ID != "" {
		if bank, err = s.findBank(ctx, in.ID); err != nil {
			return nil, err
		}
	}

	bank.Code = in.Code
	bank.Name = in.Name
	bank.Address = in.Address
	bank.Phone = in.Phone
	bank.Image = in.Image
	bank.Latitude = &in.Latitude
	bank.Longitude = &in.Longitude

	if err = s.banks.Save(ctx, bank); err != nil {
		return nil, mapSaveError(err, ErrBankNotFound, ErrDuplicateBankCode, nil)
	}

	s.log.Info("bank saved", zap.Int64("id", bank.ID), zap.String("code", bank.Code), zap.String("op", op))
	return &SaveResult{ID: bank.ID, Created: in.ID == ""}, nil
}

func (s *locationService) DeleteBank(ctx context.Context, rawID string) (err error) {
	defer func() { s.record("bank", "delete", err) }()

	if rawID == "" {
		return ErrBankIDRequired
	}
	id, ok := parseID(rawID)
	if !ok {
		return ErrBankNotFound
	}
	if err = s.banks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBankNotFound
		}
		return fmt.Errorf("delete bank %d: %w", id, err)
	}

	s.log.Info("bank deleted", zap.Int64("id", id))
	return nil
}

func (s *locationService) SaveBranch(ctx context.Context, in BranchInput) (res *SaveResult, err error) {
	op := saveOp(in.ID)
	defer func() { s.record("branch", op, err) }()

	bank, err := s.findBank(ctx, in.BankID)
	if err != nil {
		return nil, err
	}

	branch := &model.Branch{}
	if in.ID != "" {
		if branch, err = s.findBranch(ctx, in.ID); err != nil {
			return nil, err
		}
	}

	branch.BankID = bank.ID
	branch.Code = in.Code
	branch.Name = in.Name
	branch.Address = in.Address
	branch.Phone = in.Phone
	branch.Image = in.Image
	branch.Latitude = &in.Latitude
	branch.Longitude = &in.Longitude

	if err = s.branches.Save(ctx, branch); err != nil {
		return nil, mapSaveError(err, ErrBranchNotFound, ErrDuplicateBranchCode, ErrBankNotFound)
	}

	s.log.Info("branch saved",
		zap.Int64("id", branch.ID),
		zap.Int64("bank_id", bank.ID),
		zap.String("code", branch.Code),
		zap.String("op", op),
	)
	return &SaveResult{ID: branch.ID, Created: in.ID == ""}, nil
}

func (s *locationService) DeleteBranch(ctx context.Context, rawID string) (err error) {
	defer func() { s.record("branch", "delete", err) }()

	if rawID == "" {
		return ErrBranchIDRequired
	}
	id, ok := parseID(rawID)
	if !ok {
		return ErrBranchNotFound
	}
	if err = s.branches.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBranchNotFound
		}
		return fmt.Errorf("delete branch %d: %w", id, err)
	}

	s.log.Info("branch deleted", zap.Int64("id", id))
	return nil
}

func (s *locationService) SaveATM(ctx context.Context, in ATMInput) (res *SaveResult, err error) {
	op := saveOp(in.ID)
	defer func() { s.record("atm", op, err) }()

	branch, err := s.findBranch(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}

	atm := &model.ATM{}
	if in.ID != "" {
		if atm, err = s.findATM(ctx, in.ID); err != nil {
			return nil, err
		}
	}

	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	atm.BranchID = branch.ID
	atm.Code = in.Code
	atm.Status = in.Status
	atm.Address = in.Address
	atm.Image = in.Image
	atm.Latitude = &in.Latitude
	atm.Longitude = &in.Longitude

	if err = s.atms.Save(ctx, atm); err != nil {
		return nil, mapSaveError(err, ErrATMNotFound, ErrDuplicateATMCode, ErrBranchNotFound)
	}

	s.log.Info("atm saved",
		zap.Int64("id", atm.ID),
		zap.Int64("branch_id", branch.ID),
		zap.String("code", atm.Code),
		zap.String("status", string(atm.Status)),
		zap.String("op", op),
	)
	return &SaveResult{ID: atm.ID, Created: in.ID == ""}, nil
}

func (s *locationService) DeleteATM(ctx context.Context, rawID string) (err error) {
	defer func() { s.record("atm", "delete", err) }()

	if rawID == "" {
		return ErrATMIDRequired
	}
	id, ok := parseID(rawID)
	if !ok {
		return ErrATMNotFound
	}
	if err = s.atms.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrATMNotFound
		}
		return fmt.Errorf("delete atm %d: %w", id, err)
	}

	s.log.Info("atm deleted", zap.Int64("id", id))
	return nil
}

// SetATMStatus applies one status to several ATMs. Ids that cannot match a
// row are skipped; the returned count is the number of ATMs updated.
func (s *locationService) SetATMStatus(ctx context.Context, rawIDs []string, status string) (n int64, err error) {
	defer func() { s.record("atm", "status", err) }()

	ids := make([]int64, 0, len(rawIDs))
	present := false
	for _, raw := range rawIDs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		present = true
		if id, ok := parseID(raw); ok {
			ids = append(ids, id)
		}
	}
	if !present {
		return 0, ErrATMIDRequired
	}

	st := model.ATMStatus(strings.TrimSpace(status))
	if !st.Valid() {
		return 0, ErrInvalidStatus
	}

	n, err = s.atms.UpdateStatus(ctx, ids, st)
	if err != nil {
		return 0, fmt.Errorf("update atm status: %w", err)
	}

	s.log.Info("atm status updated", zap.String("status", string(st)), zap.Int64("count", n))
	return n, nil
}

// Snapshot loads every bank, branch and ATM for the map page
func (s *locationService) Snapshot(ctx context.Context) (*Snapshot, error) {
	banks, err := s.banks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	branches, err := s.branches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	atms, err := s.atms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list atms: %w", err)
	}

	snap := &Snapshot{
		Banks:    make([]BankView, 0, len(banks)),
		Branches: make([]BranchView, 0, len(branches)),
		ATMs:     make([]ATMView, 0, len(atms)),
	}
	for _, b := range banks {
		snap.Banks = append(snap.Banks, newBankView(b, s.loc))
	}
	for _, br := range branches {
		snap.Branches = append(snap.Branches, newBranchView(br, s.loc))
	}
	for _, a := range atms {
		snap.ATMs = append(snap.ATMs, newATMView(a, s.loc))
	}
	return snap, nil
}

// ATMsByBank returns the ATMs under every branch of a bank.
// ErrNoATMs is returned when the bank exists but has none.
func (s *locationService) ATMsByBank(ctx context.Context, rawBankID string) ([]BankATM, error) {
	atms, err := s.listBankATMs(ctx, rawBankID)
	if err != nil {
		return nil, err
	}

	out := make([]BankATM, 0, len(atms))
	for _, a := range atms {
		out = append(out, BankATM{
			ID:         a.ID,
			Code:       a.Code,
			Status:     string(a.Status),
			Address:    a.Address,
			Latitude:   a.Latitude,
			Longitude:  a.Longitude,
			BranchName: a.BranchName,
			BankName:   a.BankName,
			Image:      a.Image,
		})
	}
	return out, nil
}

// ATMPinsByBank is the lean variant of ATMsByBank used by the legacy endpoint
func (s *locationService) ATMPinsByBank(ctx context.Context, rawBankID string) ([]ATMPin, error) {
	if strings.TrimSpace(rawBankID) == "" {
		return nil, ErrBankIDRequired
	}
	atms, err := s.listBankATMs(ctx, rawBankID)
	if err != nil {
		return nil, err
	}

	out := make([]ATMPin, 0, len(atms))
	for _, a := range atms {
		out = append(out, ATMPin{
			ID:        a.ID,
			Code:      a.Code,
			Latitude:  a.Latitude,
			Longitude: a.Longitude,
			Status:    string(a.Status),
		})
	}
	return out, nil
}

func (s *locationService) listBankATMs(ctx context.Context, rawBankID string) ([]model.ATM, error) {
	bank, err := s.findBank(ctx, rawBankID)
	if err != nil {
		return nil, err
	}
	atms, err := s.atms.ListByBank(ctx, bank.ID)
	if err != nil {
		return nil, fmt.Errorf("list atms of bank %d: %w", bank.ID, err)
	}
	if len(atms) == 0 {
		return nil, ErrNoATMs
	}
	return atms, nil
}

func (s *locationService) findBank(ctx context.Context, rawID string) (*model.Bank, error) {
	id, ok := parseID(rawID)
	if !ok {
		return nil, ErrBankNotFound
	}
	bank, err := s.banks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBankNotFound
		}
		return nil, fmt.Errorf("find bank %d: %w", id, err)
	}
	return bank, nil
}

func (s *locationService) findBranch(ctx context.Context, rawID string) (*model.Branch, error) {
	id, ok := parseID(rawID)
	if !ok {
		return nil, ErrBranchNotFound
	}
	branch, err := s.branches.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, fmt.Errorf("find branch %d: %w", id, err)
	}
	return branch, nil
}

func (s *locationService) findATM(ctx context.Context, rawID string) (*model.ATM, error) {
	id, ok := parseID(rawID)
	if !ok {
		return nil, ErrATMNotFound
	}
	atm, err := s.atms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrATMNotFound
		}
		return nil, fmt.Errorf("find atm %d: %w", id, err)
	}
	return atm, nil
}

// record counts a mutation as ok, rejected (client error) or error
func (s *locationService) record(entity, op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case IsClientError(err):
		result = "rejected"
	default:
		result = "error"
		s.log.Error("mutation failed", zap.String("entity", entity), zap.String("op", op), zap.Error(err))
	}
	s.metrics.RecordMutation(entity, op, result)
}

func saveOp(rawID string) string {
	if rawID == "" {
		return "create"
	}
	return "update"
}

// mapSaveError translates store errors of a save. A row that vanished between
// lookup and write is reported as notFound; a foreign-key failure means the
// parent was deleted concurrently.
func mapSaveError(err, notFound, duplicate, parentGone error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrDuplicate):
		return duplicate
	case parentGone != nil && errors.Is(err, repository.ErrInvalidData):
		return parentGone
	default:
		return fmt.Errorf("save: %w", err)
	}
}
