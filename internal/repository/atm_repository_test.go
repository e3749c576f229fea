package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zdziszkee/bankmap/internal/database"
	model "github.com/zdziszkee/bankmap/internal/model"
	repo "github.com/zdziszkee/bankmap/internal/repository"
)

var atmColumns = []string{"id", "branch_id", "code", "status", "address", "image", "latitude", "longitude",
	"created_at", "updated_at", "branch_name", "branch_code", "bank_id", "bank_name", "bank_code"}

var _ = Describe("SQLATMRepository", func() {
	var (
		mockDB     *sql.DB
		mock       sqlmock.Sqlmock
		repository repo.ATMRepository
		ctx        context.Context
		now        time.Time
	)

	BeforeEach(func() {
		var err error
		mockDB, mock, err = sqlmock.New()
		Expect(err).NotTo(HaveOccurred())

		repository = repo.NewSQLATMRepository(&database.Database{DB: mockDB})
		ctx = context.Background()
		now = time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		mockDB.Close()
	})

	Describe("Save", func() {
		It("should insert an ATM with its status", func() {
			atm := &model.ATM{BranchID: 11, Code: "ATM-001", Status: model.ATMMaintenance, Latitude: ptr(10.77), Longitude: ptr(106.69)}

			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO atms (branch_id, code, status, address, image, latitude, longitude)")).
				WithArgs(int64(11), "ATM-001", "maintenance", "", "", 10.77, 106.69).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(21, now, now))

			Expect(repository.Save(ctx, atm)).To(Succeed())
			Expect(atm.ID).To(Equal(int64(21)))
		})

		It("should reject a globally duplicated code", func() {
			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO atms")).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_atm_code"})

			Expect(repository.Save(ctx, &model.ATM{BranchID: 11, Code: "ATM-001"})).To(MatchError(repo.ErrDuplicate))
		})
	})

	Describe("ListByBank", func() {
		It("should join through branches to filter by bank", func() {
			mock.ExpectQuery(regexp.QuoteMeta("WHERE br.bank_id = $1")).
				WithArgs(int64(1)).
				WillReturnRows(sqlmock.NewRows(atmColumns).
					AddRow(21, 11, "ATM-001", "active", "1 Le Loi", "", 10.77, 106.69, now, now, "Ben Thanh", "HCM01", 1, "ACB", "ACB").
					AddRow(22, 11, "ATM-002", "offline", "", "", nil, nil, now, now, "Ben Thanh", "HCM01", 1, "ACB", "ACB"))

			atms, err := repository.ListByBank(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(atms).To(HaveLen(2))
			Expect(atms[0].Status).To(Equal(model.ATMActive))
			Expect(atms[0].BranchName).To(Equal("Ben Thanh"))
			Expect(atms[1].BankName).To(Equal("ACB"))
			Expect(atms[1].Latitude).To(BeNil())
		})
	})

	Describe("UpdateStatus", func() {
		It("should update every listed ATM in one statement", func() {
			mock.ExpectExec(regexp.QuoteMeta("UPDATE atms SET status = $1, updated_at = now() WHERE id IN ($2, $3)")).
				WithArgs("offline", int64(21), int64(22)).
				WillReturnResult(sqlmock.NewResult(0, 2))

			n, err := repository.UpdateStatus(ctx, []int64{21, 22}, model.ATMOffline)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(2)))
		})

		It("should not touch the database for an empty id list", func() {
			n, err := repository.UpdateStatus(ctx, nil, model.ATMOffline)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})
	})

	Describe("Delete", func() {
		It("should delete an existing ATM", func() {
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM atms WHERE id = $1")).
				WithArgs(int64(21)).
				WillReturnResult(sqlmock.NewResult(0, 1))

			Expect(repository.Delete(ctx, 21)).To(Succeed())
		})
	})
})
