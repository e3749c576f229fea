package model

import (
	"time"
)

// ATMStatus represents the operating state of an ATM
type ATMStatus string

const (
	ATMActive      ATMStatus = "active"
	ATMMaintenance ATMStatus = "maintenance"
	ATMOffline     ATMStatus = "offline"
)

var atmStatusLabels = map[ATMStatus]string{
	ATMActive:      "Hoạt động",
	ATMMaintenance: "Bảo trì",
	ATMOffline:     "Ngừng/Offline",
}

// Valid reports whether s is one of the known statuses
func (s ATMStatus) Valid() bool {
	_, ok := atmStatusLabels[s]
	return ok
}

// Label returns the display label, or the raw value for unknown statuses
func (s ATMStatus) Label() string {
	if label, ok := atmStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Bank is a row of the banks table
type Bank struct {
	ID        int64     `db:"id"`
	Code      string    `db:"code"`
	Name      string    `db:"name"`
	Address   string    `db:"address"`
	Phone     string    `db:"phone"`
	Image     string    `db:"image"`
	Latitude  *float64  `db:"latitude"`
	Longitude *float64  `db:"longitude"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Branch is a row of the branches table. BankName and BankCode are filled
// by queries that join the parent bank.
type Branch struct {
	ID        int64     `db:"id"`
	BankID    int64     `db:"bank_id"`
	Code      string    `db:"code"`
	Name      string    `db:"name"`
	Address   string    `db:"address"`
	Phone     string    `db:"phone"`
	Image     string    `db:"image"`
	Latitude  *float64  `db:"latitude"`
	Longitude *float64  `db:"longitude"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	BankName string `db:"bank_name"`
	BankCode string `db:"bank_code"`
}

// ATM is a row of the atms table. The Branch* and Bank* fields are filled
// by queries that join the owning branch and its bank.
type ATM struct {
	ID        int64     `db:"id"`
	BranchID  int64     `db:"branch_id"`
	Code      string    `db:"code"`
	Status    ATMStatus `db:"status"`
	Address   string    `db:"address"`
	Image     string    `db:"image"`
	Latitude  *float64  `db:"latitude"`
	Longitude *float64  `db:"longitude"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	BranchName string `db:"branch_name"`
	BranchCode string `db:"branch_code"`
	BankID     int64  `db:"bank_id"`
	BankName   string `db:"bank_name"`
	BankCode   string `db:"bank_code"`
}
