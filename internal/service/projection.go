package service

import (
	"time"

	model "github.com/zdziszkee/bankmap/internal/model"
)

// TimestampLayout is the display format of created_at/updated_at in the snapshot
const TimestampLayout = "2006-01-02 15:04:05"

// Snapshot is the full view of the location hierarchy rendered by the map page
type Snapshot struct {
	Banks    []BankView   `json:"banks"`
	Branches []BranchView `json:"branches"`
	ATMs     []ATMView    `json:"atms"`
}

type BankView struct {
	ID        int64    `json:"id"`
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Phone     string   `json:"phone"`
	Image     string   `json:"image"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

type BranchView struct {
	ID        int64    `json:"id"`
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Phone     string   `json:"phone"`
	Image     string   `json:"image"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
	BankID    int64    `json:"bank_id"`
	BankName  string   `json:"bank__name"`
	BankCode  string   `json:"bank__code"`
}

type ATMView struct {
	ID             int64    `json:"id"`
	Code           string   `json:"code"`
	Status         string   `json:"status"`
	StatusLabel    string   `json:"status_label"`
	Address        string   `json:"address"`
	Image          string   `json:"image"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
	BranchID       int64    `json:"branch_id"`
	BranchName     string   `json:"branch__name"`
	BranchCode     string   `json:"branch__code"`
	BranchBankID   int64    `json:"branch__bank_id"`
	BranchBankName string   `json:"branch__bank__name"`
	BranchBankCode string   `json:"branch__bank__code"`
}

// BankATM is an element of the filtered ATM list
type BankATM struct {
	ID         int64    `json:"id"`
	Code       string   `json:"code"`
	Status     string   `json:"status"`
	Address    string   `json:"address"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	BranchName string   `json:"branch_name"`
	BankName   string   `json:"bank_name"`
	Image      string   `json:"image"`
}

// ATMPin is an element of the legacy filtered ATM list
type ATMPin struct {
	ID        int64    `json:"id"`
	Code      string   `json:"code"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Status    string   `json:"status"`
}

func formatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(TimestampLayout)
}

func newBankView(b model.Bank, loc *time.Location) BankView {
	return BankView{
		ID:        b.ID,
		Code:      b.Code,
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		Image:     b.Image,
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
		CreatedAt: formatTimestamp(b.CreatedAt, loc),
		UpdatedAt: formatTimestamp(b.UpdatedAt, loc),
	}
}

func newBranchView(br model.Branch, loc *time.Location) BranchView {
	return BranchView{
		ID:        br.ID,
		Code:      br.Code,
		Name:      br.Name,
		Address:   br.Address,
		Phone:     br.Phone,
		Image:     br.Image,
		Latitude:  br.Latitude,
		Longitude: br.Longitude,
		CreatedAt: formatTimestamp(br.CreatedAt, loc),
		UpdatedAt: formatTimestamp(br.UpdatedAt, loc),
		BankID:    br.BankID,
		BankName:  br.BankName,
		BankCode:  br.BankCode,
	}
}

func newATMView(a model.ATM, loc *time.Location) ATMView {
	return ATMView{
		ID:             a.ID,
		Code:           a.Code,
		Status:         string(a.Status),
		StatusLabel:    a.Status.Label(),
		Address:        a.Address,
		Image:          a.Image,
		Latitude:       a.Latitude,
		Longitude:      a.Longitude,
		CreatedAt:      formatTimestamp(a.CreatedAt, loc),
		UpdatedAt:      formatTimestamp(a.UpdatedAt, loc),
		BranchID:       a.BranchID,
		BranchName:     a.BranchName,
		BranchCode:     a.BranchCode,
		BranchBankID:   a.BankID,
		BranchBankName: a.BankName,
		BranchBankCode: a.BankCode,
	}
}
