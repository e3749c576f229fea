package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	model "github.com/zdziszkee/bankmap/internal/model"
	"github.com/zdziszkee/bankmap/internal/parser"
	"github.com/zdziszkee/bankmap/internal/repository"
)

// ImportStats counts the rows written by one import
type ImportStats struct {
	Banks    int
	Branches int
	ATMs     int
}

// LocationTx runs fn with location repositories bound to one transaction.
// An error returned by fn rolls the transaction back.
type LocationTx func(ctx context.Context, fn func(repos LocationRepositories) error) error

// Importer upserts seed data: banks by code, branches by (bank code, code)
// and ATMs by code.
type Importer struct {
	parser parser.LocationParser
	inTx   LocationTx
	log    *zap.Logger
}

// NewImporter creates a seed importer
func NewImporter(p parser.LocationParser, inTx LocationTx, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{
		parser: p,
		inTx:   inTx,
		log:    log,
	}
}

// importRun holds the repositories and id caches of one import
type importRun struct {
	banks     repository.BankRepository
	branches  repository.BranchRepository
	atms      repository.ATMRepository
	bankIDs   map[string]int64
	branchIDs map[string]int64
}

// Import parses input and writes it level by level in a single transaction.
// Either every row is written or none is.
func (im *Importer) Import(ctx context.Context, input io.Reader) (ImportStats, error) {
	records, err := im.parser.ParseLocations(input)
	if err != nil {
		return ImportStats{}, fmt.Errorf("parse seed data: %w", err)
	}

	var stats ImportStats
	err = im.inTx(ctx, func(repos LocationRepositories) error {
		stats = ImportStats{}
		run := &importRun{
			banks:     repos.Banks,
			branches:  repos.Branches,
			atms:      repos.ATMs,
			bankIDs:   make(map[string]int64),
			branchIDs: make(map[string]int64),
		}
		return run.write(ctx, records, &stats)
	})
	if err != nil {
		return ImportStats{}, err
	}

	im.log.Info("seed data imported",
		zap.Int("banks", stats.Banks),
		zap.Int("branches", stats.Branches),
		zap.Int("atms", stats.ATMs),
	)
	return stats, nil
}

func (im *importRun) write(ctx context.Context, records []parser.LocationRecord, stats *ImportStats) error {
	for _, r := range filterKind(records, parser.KindBank) {
		id, err := im.upsertBank(ctx, r)
		if err != nil {
			return fmt.Errorf("line %d: %w", r.Line, err)
		}
		im.bankIDs[r.Code] = id
		stats.Banks++
	}

	for _, r := range filterKind(records, parser.KindBranch) {
		bankID, err := im.resolveBank(ctx, r.BankCode)
		if err != nil {
			return fmt.Errorf("line %d: %w", r.Line, err)
		}
		id, err := im.upsertBranch(ctx, bankID, r)
		if err != nil {
			return fmt.Errorf("line %d: %w", r.Line, err)
		}
		im.branchIDs[r.BankCode+"/"+r.Code] = id
		stats.Branches++
	}

	for _, r := range filterKind(records, parser.KindATM) {
		branchID, err := im.resolveBranch(ctx, r.BankCode, r.BranchCode)
		if err != nil {
			return fmt.Errorf("line %d: %w", r.Line, err)
		}
		if err := im.upsertATM(ctx, branchID, r); err != nil {
			return fmt.Errorf("line %d: %w", r.Line, err)
		}
		stats.ATMs++
	}
	return nil
}

func (im *importRun) upsertBank(ctx context.Context, r parser.LocationRecord) (int64, error) {
	bank, err := im.banks.FindByCode(ctx, r.Code)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("find bank %s: %w", r.Code, err)
		}
		bank = &model.Bank{}
	}

	bank.Code = r.Code
	bank.Name = r.Name
	bank.Address = r.Address
	bank.Phone = r.Phone
	bank.Image = r.Image
	bank.Latitude = r.Latitude
	bank.Longitude = r.Longitude

	if err := im.banks.Save(ctx, bank); err != nil {
		return 0, fmt.Errorf("save bank %s: %w", r.Code, err)
	}
	return bank.ID, nil
}

func (im *importRun) upsertBranch(ctx context.Context, bankID int64, r parser.LocationRecord) (int64, error) {
	branch, err := im.branches.FindByBankAndCode(ctx, bankID, r.Code)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("find branch %s/%s: %w", r.BankCode, r.Code, err)
		}
		branch = &model.Branch{}
	}

	branch.BankID = bankID
	branch.Code = r.Code
	branch.Name = r.Name
	branch.Address = r.Address
	branch.Phone = r.Phone
	branch.Image = r.Image
	branch.Latitude = r.Latitude
	branch.Longitude = r.Longitude

	if err := im.branches.Save(ctx, branch); err != nil {
		return 0, fmt.Errorf("save branch %s/%s: %w", r.BankCode, r.Code, err)
	}
	return branch.ID, nil
}

func (im *importRun) upsertATM(ctx context.Context, branchID int64, r parser.LocationRecord) error {
	atm, err := im.atms.FindByCode(ctx, r.Code)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("find atm %s: %w", r.Code, err)
		}
		atm = &model.ATM{}
	}

	atm.BranchID = branchID
	atm.Code = r.Code
	atm.Status = r.Status
	atm.Address = r.Address
	atm.Image = r.Image
	atm.Latitude = r.Latitude
	atm.Longitude = r.Longitude

	if err := im.atms.Save(ctx, atm); err != nil {
		return fmt.Errorf("save atm %s: %w", r.Code, err)
	}
	return nil
}

// resolveBank finds a bank imported earlier in this run or already stored
func (im *importRun) resolveBank(ctx context.Context, code string) (int64, error) {
	if id, ok := im.bankIDs[code]; ok {
		return id, nil
	}
	bank, err := im.banks.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s", ErrBankNotFound, code)
		}
		return 0, fmt.Errorf("find bank %s: %w", code, err)
	}
	im.bankIDs[code] = bank.ID
	return bank.ID, nil
}

func (im *importRun) resolveBranch(ctx context.Context, bankCode, code string) (int64, error) {
	key := bankCode + "/" + code
	if id, ok := im.branchIDs[key]; ok {
		return id, nil
	}
	bankID, err := im.resolveBank(ctx, bankCode)
	if err != nil {
		return 0, err
	}
	branch, err := im.branches.FindByBankAndCode(ctx, bankID, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s", ErrBranchNotFound, key)
		}
		return 0, fmt.Errorf("find branch %s: %w", key, err)
	}
	im.branchIDs[key] = branch.ID
	return branch.ID, nil
}

func filterKind(records []parser.LocationRecord, kind parser.RecordKind) []parser.LocationRecord {
	var out []parser.LocationRecord
	for _, r := range records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
