package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zdziszkee/bankmap/internal/metrics"
	"github.com/zdziszkee/bankmap/internal/mocks"
	model "github.com/zdziszkee/bankmap/internal/model"
	"github.com/zdziszkee/bankmap/internal/repository"
	"github.com/zdziszkee/bankmap/internal/service"
)

var _ = Describe("LocationService", func() {
	var (
		ctx      context.Context
		banks    *mocks.MockBankRepository
		branches *mocks.MockBranchRepository
		atms     *mocks.MockATMRepository
		m        *metrics.Metrics
		s        service.LocationService
	)

	BeforeEach(func() {
		ctx = context.Background()
		banks = &mocks.MockBankRepository{}
		branches = &mocks.MockBranchRepository{}
		atms = &mocks.MockATMRepository{}
		m = metrics.New()
		s = service.NewLocationService(service.LocationRepositories{
			Banks:    banks,
			Branches: branches,
			ATMs:     atms,
		}, time.UTC, nil, m)
	})

	Describe("SaveBank", func() {
		It("should create a bank when no id is given", func() {
			var saved *model.Bank
			banks.SaveFunc = func(ctx context.Context, bank *model.Bank) error {
				saved = bank
				bank.ID = 11
				return nil
			}

			res, err := s.SaveBank(ctx, service.BankInput{
				Code:        "VCB",
				Name:        "Vietcombank",
				Coordinates: service.Coordinates{Latitude: 10.5, Longitude: 106.7},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal(&service.SaveResult{ID: 11, Created: true}))
			Expect(saved.Code).To(Equal("VCB"))
			Expect(*saved.Latitude).To(Equal(10.5))
			Expect(*saved.Longitude).To(Equal(106.7))
			Expect(mutationCount(m, "bank", "create", "ok")).To(Equal(1.0))
		})

		It("should overwrite every field of an existing bank", func() {
			banks.FindByIDFunc = func(ctx context.Context, id int64) (*model.Bank, error) {
				Expect(id).To(Equal(int64(4)))
				return &model.Bank{ID: 4, Code: "OLD", Name: "Old", Phone: "123", Address: "somewhere"}, nil
			}
			var saved *model.Bank
			banks.SaveFunc = func(ctx context.Context, bank *model.Bank) error {
				saved = bank
				return nil
			}

			res, err := s.SaveBank(ctx, service.BankInput{ID: "4", Code: "NEW", Name: "New"})

			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal(&service.SaveResult{ID: 4, Created: false}))
			Expect(saved.Code).To(Equal("NEW"))
			Expect(saved.Phone).To(BeEmpty())
			Expect(saved.Address).To(BeEmpty())
		})

		It("should report an unknown or malformed id as not found", func() {
			banks.FindByIDFunc = func(ctx context.Context, id int64) (*model.Bank, error) {
				return nil, repository.ErrNotFound
			}

			_, err := s.SaveBank(ctx, service.BankInput{ID: "99"})
			Expect(err).To(MatchError(service.ErrBankNotFound))

			_, err = s.SaveBank(ctx, service.BankInput{ID: "abc"})
			Expect(err).To(MatchError(service.ErrBankNotFound))
		})

		It("should map a unique violation to a duplicate code error", func() {
			banks.SaveFunc = func(ctx context.Context, bank *model.Bank) error {
				return repository.ErrDuplicate
			}

			_, err := s.SaveBank(ctx, service.BankInput{Code: "VCB"})

			Expect(err).To(MatchError(service.ErrDuplicateBankCode))
			Expect(mutationCount(m, "bank", "create", "rejected")).To(Equal(1.0))
		})

		It("should wrap store failures", func() {
			storeErr := errors.New("connection reset")
			banks.SaveFunc = func(ctx context.Context, bank *model.Bank) error {
				return storeErr
			}

			_, err := s.SaveBank(ctx, service.BankInput{Code: "VCB"})

			Expect(err).To(MatchError(storeErr))
			Expect(service.IsClientError(err)).To(BeFalse())
			Expect(mutationCount(m, "bank", "create", "error")).To(Equal(1.0))
		})
	})

	Describe("DeleteBank", func() {
		It("should require an id", func() {
			Expect(s.DeleteBank(ctx, "")).To(MatchError(service.ErrBankIDRequired))
		})

		It("should treat non-numeric ids as not found", func() {
			Expect(s.DeleteBank(ctx, "x1")).To(MatchError(service.ErrBankNotFound))
		})

		It("should map a missing row to not found", func() {
			banks.DeleteFunc = func(ctx context.Context, id int64) error {
				return repository.ErrNotFound
			}
			Expect(s.DeleteBank(ctx, "5")).To(MatchError(service.ErrBankNotFound))
		})

		It("should delete an existing bank", func() {
			var deleted int64
			banks.DeleteFunc = func(ctx context.Context, id int64) error {
				deleted = id
				return nil
			}
			Expect(s.DeleteBank(ctx, "5")).To(Succeed())
			Expect(deleted).To(Equal(int64(5)))
		})
	})

	Describe("SaveBranch", func() {
		It("should check the parent bank before the branch", func() {
			banks.FindByIDFunc = func(ctx context.Context, id int64) (*model.Bank, error) {
				return nil, repository.ErrNotFound
			}

			_, err := s.SaveBranch(ctx, service.BranchInput{ID: "1", BankID: "2"})
			Expect(err).To(MatchError(service.ErrBankNotFound))
		})

		It("should report an empty parent as bank not found", func() {
			_, err := s.SaveBranch(ctx, service.BranchInput{Code: "B1"})
			Expect(err).To(MatchError(service.ErrBankNotFound))
		})

		It("should report an unknown branch id", func() {
			banks.FindByIDFunc = func(ctx context.Context, id int64) (*model.Bank, error) {
				return &model.Bank{ID: id}, nil
			}
			branches.FindByIDFunc = func(ctx context.Context, id int64) (*model.Branch, error) {
				return nil, repository.ErrNotFound
			}

			_, err := s.SaveBranch(ctx, service.BranchInput{ID: "8", BankID: "2"})
			Expect(err).To(MatchError(service.ErrBranchNotFound))
		})

		It("should move a branch to another bank on update", func() {
			banks.FindByIDFunc = func(ctx context.Context, id int64) (*model.Bank, error) {
				return &model.Bank{ID: id}, nil
			}
			branches.FindByIDFunc = func(ctx context.Context, id int64) (*model.Branch, error) {
				return &model.Branch{ID: id, BankID: 1, Code: "HN01"}, nil
			}
			var saved *model.Branch
			branches.SaveFunc = func(ctx context.Context, branch *model.Branch) error {
				saved = branch
				return nil
			}

			res, err := s.SaveBranch(ctx, service.BranchInput{ID: "8", BankID: "2", Code: "HN01", Name: "Ha Noi"})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.ID).To(Equal(int64(8)))
			Expect(res.Created).To(BeFalse())
			Expect(saved.BankID).To(Equal(int64(2)))
		})

		It("should map a duplicate (bank, code) pair", func() {
			banks.FindByIDFunc = func(ctx context.Context, id int64) (*model.Bank, error) {
				return &model.Bank{ID: id}, nil
			}
			branches.SaveFunc = func(ctx context.Context, branch *model.Branch) error {
				return repository.ErrDuplicate
			}

			_, err := s.SaveBranch(ctx, service.BranchInput{BankID: "2", Code: "HN01"})
			Expect(err).To(MatchError(service.ErrDuplicateBranchCode))
		})
	})

	Describe("SaveATM", func() {
		BeforeEach(func() {
			branches.FindByIDFunc = func(ctx context.Context, id int64) (*model.Branch, error) {
				return &model.Branch{ID: id, BankID: 1}, nil
			}
		})

		It("should create an ATM under the branch", func() {
			var saved *model.ATM
			atms.SaveFunc = func(ctx context.Context, atm *model.ATM) error {
				saved = atm
				atm.ID = 30
				return nil
			}

			res, err := s.SaveATM(ctx, service.ATMInput{BranchID: "3", Code: "ATM-1", Status: model.ATMMaintenance})

			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal(&service.SaveResult{ID: 30, Created: true}))
			Expect(saved.BranchID).To(Equal(int64(3)))
			Expect(saved.Status).To(Equal(model.ATMMaintenance))
		})

		It("should reject an unknown branch", func() {
			branches.FindByIDFunc = func(ctx context.Context, id int64) (*model.Branch, error) {
				return nil, repository.ErrNotFound
			}
			_, err := s.SaveATM(ctx, service.ATMInput{BranchID: "3", Status: model.ATMActive})
			Expect(err).To(MatchError(service.ErrBranchNotFound))
		})

		It("should reject an unknown ATM id before the status", func() {
			atms.FindByIDFunc = func(ctx context.Context, id int64) (*model.ATM, error) {
				return nil, repository.ErrNotFound
			}
			_, err := s.SaveATM(ctx, service.ATMInput{ID: "9", BranchID: "3", Status: "broken"})
			Expect(err).To(MatchError(service.ErrATMNotFound))
		})

		It("should reject an invalid status", func() {
			_, err := s.SaveATM(ctx, service.ATMInput{BranchID: "3", Status: "broken"})
			Expect(err).To(MatchError(service.ErrInvalidStatus))
		})

		It("should map a duplicate ATM code", func() {
			atms.SaveFunc = func(ctx context.Context, atm *model.ATM) error {
				return repository.ErrDuplicate
			}
			_, err := s.SaveATM(ctx, service.ATMInput{BranchID: "3", Code: "ATM-1", Status: model.ATMActive})
			Expect(err).To(MatchError(service.ErrDuplicateATMCode))
		})
	})

	Describe("DeleteBranch and DeleteATM", func() {
		It("should require ids", func() {
			Expect(s.DeleteBranch(ctx, "")).To(MatchError(service.ErrBranchIDRequired))
			Expect(s.DeleteATM(ctx, "")).To(MatchError(service.ErrATMIDRequired))
		})

		It("should map missing rows to not found", func() {
			branches.DeleteFunc = func(ctx context.Context, id int64) error { return repository.ErrNotFound }
			atms.DeleteFunc = func(ctx context.Context, id int64) error { return repository.ErrNotFound }

			Expect(s.DeleteBranch(ctx, "1")).To(MatchError(service.ErrBranchNotFound))
			Expect(s.DeleteATM(ctx, "1")).To(MatchError(service.ErrATMNotFound))
		})
	})

	Describe("SetATMStatus", func() {
		It("should require at least one id", func() {
			_, err := s.SetATMStatus(ctx, []string{"", " "}, "offline")
			Expect(err).To(MatchError(service.ErrATMIDRequired))
		})

		It("should reject an invalid status", func() {
			_, err := s.SetATMStatus(ctx, []string{"1"}, "broken")
			Expect(err).To(MatchError(service.ErrInvalidStatus))
		})

		It("should update the numeric ids only", func() {
			var gotIDs []int64
			atms.UpdateStatusFunc = func(ctx context.Context, ids []int64, status model.ATMStatus) (int64, error) {
				gotIDs = ids
				Expect(status).To(Equal(model.ATMOffline))
				return int64(len(ids)), nil
			}

			n, err := s.SetATMStatus(ctx, []string{"1", "x", "3"}, "offline")

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(2)))
			Expect(gotIDs).To(Equal([]int64{1, 3}))
		})
	})

	Describe("Snapshot", func() {
		It("should project all three levels with formatted timestamps", func() {
			hcm, err := time.LoadLocation("Asia/Ho_Chi_Minh")
			Expect(err).NotTo(HaveOccurred())
			s = service.NewLocationService(service.LocationRepositories{Banks: banks, Branches: branches, ATMs: atms}, hcm, nil, nil)

			created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
			banks.ListFunc = func(ctx context.Context) ([]model.Bank, error) {
				return []model.Bank{{ID: 1, Code: "VCB", Name: "Vietcombank", Latitude: ptr(10.5), CreatedAt: created, UpdatedAt: created}}, nil
			}
			branches.ListFunc = func(ctx context.Context) ([]model.Branch, error) {
				return []model.Branch{{ID: 2, BankID: 1, Code: "HN01", Name: "Ha Noi", BankName: "Vietcombank", BankCode: "VCB"}}, nil
			}
			atms.ListFunc = func(ctx context.Context) ([]model.ATM, error) {
				return []model.ATM{{
					ID: 3, BranchID: 2, Code: "ATM-1", Status: model.ATMOffline,
					BranchName: "Ha Noi", BranchCode: "HN01", BankID: 1, BankName: "Vietcombank", BankCode: "VCB",
				}}, nil
			}

			snap, err := s.Snapshot(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Banks).To(HaveLen(1))
			Expect(snap.Banks[0].CreatedAt).To(Equal("2024-01-02 10:04:05"))
			Expect(snap.Banks[0].Longitude).To(BeNil())
			Expect(snap.Branches[0].BankName).To(Equal("Vietcombank"))
			Expect(snap.Branches[0].CreatedAt).To(BeEmpty())
			Expect(snap.ATMs[0].StatusLabel).To(Equal("Ngừng/Offline"))
			Expect(snap.ATMs[0].BranchBankID).To(Equal(int64(1)))
			Expect(snap.ATMs[0].BranchBankCode).To(Equal("VCB"))
		})

		It("should return empty arrays for an empty store", func() {
			banks.ListFunc = func(ctx context.Context) ([]model.Bank, error) { return []model.Bank{}, nil }
			branches.ListFunc = func(ctx context.Context) ([]model.Branch, error) { return []model.Branch{}, nil }
			atms.ListFunc = func(ctx context.Context) ([]model.ATM, error) { return []model.ATM{}, nil }

			snap, err := s.Snapshot(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Banks).NotTo(BeNil())
			Expect(snap.Banks).To(BeEmpty())
			Expect(snap.ATMs).To(BeEmpty())
		})
	})

	Describe("ATMsByBank", func() {
		It("should reject an unknown bank", func() {
			banks.FindByIDFunc = func(ctx context.Context, id int64) (*model.Bank, error) {
				return nil, repository.ErrNotFound
			}
			_, err := s.ATMsByBank(ctx, "9")
			Expect(err).To(MatchError(service.ErrBankNotFound))
		})

		It("should report a bank without ATMs", func() {
			banks.FindByIDFunc = func(ctx context.Context, id int64) (*model.Bank, error) {
				return &model.Bank{ID: id}, nil
			}
			atms.ListByBankFunc = func(ctx context.Context, bankID int64) ([]model.ATM, error) {
				return []model.ATM{}, nil
			}
			_, err := s.ATMsByBank(ctx, "1")
			Expect(err).To(MatchError(service.ErrNoATMs))
		})

		It("should project the ATMs with branch and bank names", func() {
			banks.FindByIDFunc = func(ctx context.Context, id int64) (*model.Bank, error) {
				return &model.Bank{ID: id}, nil
			}
			atms.ListByBankFunc = func(ctx context.Context, bankID int64) ([]model.ATM, error) {
				Expect(bankID).To(Equal(int64(1)))
				return []model.ATM{{ID: 3, Code: "ATM-1", Status: model.ATMActive, BranchName: "Ha Noi", BankName: "Vietcombank"}}, nil
			}

			list, err := s.ATMsByBank(ctx, "1")

			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(Equal([]service.BankATM{{
				ID: 3, Code: "ATM-1", Status: "active", BranchName: "Ha Noi", BankName: "Vietcombank",
			}}))
		})
	})

	Describe("ATMPinsByBank", func() {
		It("should require a bank id", func() {
			_, err := s.ATMPinsByBank(ctx, "")
			Expect(err).To(MatchError(service.ErrBankIDRequired))
		})

		It("should return the lean projection", func() {
			banks.FindByIDFunc = func(ctx context.Context, id int64) (*model.Bank, error) {
				return &model.Bank{ID: id}, nil
			}
			atms.ListByBankFunc = func(ctx context.Context, bankID int64) ([]model.ATM, error) {
				return []model.ATM{{ID: 3, Code: "ATM-1", Status: model.ATMActive, Latitude: ptr(1), Longitude: ptr(2)}}, nil
			}

			pins, err := s.ATMPinsByBank(ctx, "1")

			Expect(err).NotTo(HaveOccurred())
			Expect(pins).To(Equal([]service.ATMPin{{ID: 3, Code: "ATM-1", Status: "active", Latitude: ptr(1), Longitude: ptr(2)}}))
		})
	})
})
