package service_test

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zdziszkee/bankmap/internal/mocks"
	model "github.com/zdziszkee/bankmap/internal/model"
	"github.com/zdziszkee/bankmap/internal/parser"
	"github.com/zdziszkee/bankmap/internal/repository"
	"github.com/zdziszkee/bankmap/internal/service"
)

const seedCSV = `kind,bank_code,branch_code,code,name,address,phone,image,latitude,longitude,status
bank,,,VCB,Vietcombank,198 Tran Quang Khai,1900545413,,21.0245,105.8572,
branch,VCB,,HN01,Ha Noi,,,,21.03,105.85,
atm,VCB,HN01,ATM-1,,1 Hang Bai,,,21.02,105.85,maintenance
`

var _ = Describe("Importer", func() {
	var (
		ctx      context.Context
		banks    *mocks.MockBankRepository
		branches *mocks.MockBranchRepository
		atms     *mocks.MockATMRepository
		im       *service.Importer
		txErr    error
		txCalls  int
	)

	BeforeEach(func() {
		ctx = context.Background()
		banks = &mocks.MockBankRepository{}
		branches = &mocks.MockBranchRepository{}
		atms = &mocks.MockATMRepository{}
		txErr, txCalls = nil, 0
		repos := service.LocationRepositories{Banks: banks, Branches: branches, ATMs: atms}
		inTx := func(ctx context.Context, fn func(service.LocationRepositories) error) error {
			txCalls++
			txErr = fn(repos)
			return txErr
		}
		im = service.NewImporter(parser.NewCSVLocationParser(), inTx, nil)
	})

	It("should insert new rows level by level", func() {
		banks.FindByCodeFunc = func(ctx context.Context, code string) (*model.Bank, error) {
			return nil, repository.ErrNotFound
		}
		banks.SaveFunc = func(ctx context.Context, bank *model.Bank) error {
			bank.ID = 1
			return nil
		}
		branches.FindByBankAndCodeFunc = func(ctx context.Context, bankID int64, code string) (*model.Branch, error) {
			return nil, repository.ErrNotFound
		}
		var savedBranch *model.Branch
		branches.SaveFunc = func(ctx context.Context, branch *model.Branch) error {
			savedBranch = branch
			branch.ID = 2
			return nil
		}
		atms.FindByCodeFunc = func(ctx context.Context, code string) (*model.ATM, error) {
			return nil, repository.ErrNotFound
		}
		var savedATM *model.ATM
		atms.SaveFunc = func(ctx context.Context, atm *model.ATM) error {
			savedATM = atm
			return nil
		}

		stats, err := im.Import(ctx, strings.NewReader(seedCSV))

		Expect(err).NotTo(HaveOccurred())
		Expect(stats).To(Equal(service.ImportStats{Banks: 1, Branches: 1, ATMs: 1}))
		Expect(savedBranch.BankID).To(Equal(int64(1)))
		Expect(savedATM.BranchID).To(Equal(int64(2)))
		Expect(savedATM.Status).To(Equal(model.ATMMaintenance))
	})

	It("should update rows that already exist", func() {
		banks.FindByCodeFunc = func(ctx context.Context, code string) (*model.Bank, error) {
			return &model.Bank{ID: 5, Code: code, Name: "Old"}, nil
		}
		var savedBank *model.Bank
		banks.SaveFunc = func(ctx context.Context, bank *model.Bank) error {
			savedBank = bank
			return nil
		}
		branches.FindByBankAndCodeFunc = func(ctx context.Context, bankID int64, code string) (*model.Branch, error) {
			return &model.Branch{ID: 6, BankID: bankID, Code: code}, nil
		}
		branches.SaveFunc = func(ctx context.Context, branch *model.Branch) error { return nil }
		atms.FindByCodeFunc = func(ctx context.Context, code string) (*model.ATM, error) {
			return &model.ATM{ID: 7, Code: code}, nil
		}
		var savedATM *model.ATM
		atms.SaveFunc = func(ctx context.Context, atm *model.ATM) error {
			savedATM = atm
			return nil
		}

		_, err := im.Import(ctx, strings.NewReader(seedCSV))

		Expect(err).NotTo(HaveOccurred())
		Expect(savedBank.ID).To(Equal(int64(5)))
		Expect(savedBank.Name).To(Equal("Vietcombank"))
		Expect(savedATM.ID).To(Equal(int64(7)))
		Expect(savedATM.BranchID).To(Equal(int64(6)))
	})

	It("should fail when a branch references an unknown bank", func() {
		input := "kind,bank_code,branch_code,code,name,address,phone,image,latitude,longitude,status\n" +
			"branch,NOPE,,HN01,Ha Noi,,,,,,\n"
		banks.FindByCodeFunc = func(ctx context.Context, code string) (*model.Bank, error) {
			return nil, repository.ErrNotFound
		}

		_, err := im.Import(ctx, strings.NewReader(input))

		Expect(err).To(MatchError(service.ErrBankNotFound))
		Expect(err.Error()).To(ContainSubstring("line 2"))
	})

	It("should hand a failed write back to the transaction and report nothing", func() {
		banks.FindByCodeFunc = func(ctx context.Context, code string) (*model.Bank, error) {
			return nil, repository.ErrNotFound
		}
		banks.SaveFunc = func(ctx context.Context, bank *model.Bank) error {
			bank.ID = 1
			return nil
		}
		branches.FindByBankAndCodeFunc = func(ctx context.Context, bankID int64, code string) (*model.Branch, error) {
			return nil, repository.ErrNotFound
		}
		branches.SaveFunc = func(ctx context.Context, branch *model.Branch) error {
			branch.ID = 2
			return nil
		}
		atms.FindByCodeFunc = func(ctx context.Context, code string) (*model.ATM, error) {
			return nil, repository.ErrNotFound
		}
		atms.SaveFunc = func(ctx context.Context, atm *model.ATM) error {
			return repository.ErrDuplicate
		}

		stats, err := im.Import(ctx, strings.NewReader(seedCSV))

		Expect(err).To(MatchError(repository.ErrDuplicate))
		Expect(txCalls).To(Equal(1))
		Expect(txErr).To(MatchError(repository.ErrDuplicate))
		Expect(stats).To(Equal(service.ImportStats{}))
	})

	It("should not write anything when parsing fails", func() {
		_, err := im.Import(ctx, strings.NewReader("kind,code\nbank,X\n"))
		Expect(err).To(MatchError(parser.ErrHeaderMismatch))
		Expect(txCalls).To(BeZero())
	})
})
