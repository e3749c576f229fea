package service_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	model "github.com/zdziszkee/bankmap/internal/model"
	"github.com/zdziszkee/bankmap/internal/service"
)

var _ = Describe("Form parsing", func() {
	Describe("ParseBankForm", func() {
		It("should trim fields and parse coordinates", func() {
			in, err := service.ParseBankForm(form(
				"bank_id", " 7 ",
				"code", "  VCB ",
				"name", "Vietcombank",
				"latitude", " 10.5",
				"longitude", "106.7 ",
			))
			Expect(err).NotTo(HaveOccurred())
			Expect(in.ID).To(Equal("7"))
			Expect(in.Code).To(Equal("VCB"))
			Expect(in.Address).To(BeEmpty())
			Expect(in.Latitude).To(Equal(10.5))
			Expect(in.Longitude).To(Equal(106.7))
		})

		DescribeTable("should reject coordinates that are not floats",
			func(lat, lng string) {
				_, err := service.ParseBankForm(form("code", "X", "latitude", lat, "longitude", lng))
				Expect(err).To(MatchError(service.ErrInvalidCoordinates))
			},
			Entry("missing latitude", "", "106.7"),
			Entry("text longitude", "10.5", "abc"),
			Entry("NaN", "NaN", "1"),
			Entry("infinity", "1", "Inf"),
		)
	})

	Describe("ParseBranchForm", func() {
		It("should read the parent bank id", func() {
			in, err := service.ParseBranchForm(form("bank", "3", "code", "HN01", "latitude", "21", "longitude", "105"))
			Expect(err).NotTo(HaveOccurred())
			Expect(in.BankID).To(Equal("3"))
			Expect(in.ID).To(BeEmpty())
		})
	})

	Describe("ParseATMForm", func() {
		It("should default the status to active", func() {
			in, err := service.ParseATMForm(form("branch", "1", "code", "ATM1", "latitude", "1", "longitude", "2"))
			Expect(err).NotTo(HaveOccurred())
			Expect(in.Status).To(Equal(model.ATMActive))
		})

		It("should keep an unknown status for the service to reject", func() {
			in, err := service.ParseATMForm(form("status", "broken", "latitude", "1", "longitude", "2"))
			Expect(err).NotTo(HaveOccurred())
			Expect(in.Status).To(Equal(model.ATMStatus("broken")))
		})
	})

	Describe("FieldErrors", func() {
		It("should group messages by field", func() {
			errs := service.FieldErrors{
				{Field: "username", Message: "taken"},
				{Field: "email", Message: "invalid"},
			}
			Expect(errs.For("username")).To(ConsistOf("taken"))
			Expect(errs.Error()).To(Equal("username: taken; email: invalid"))
			Expect(service.IsClientError(errs)).To(BeTrue())
		})
	})
})
