package service

import (
	"math"
	"strconv"
	"strings"

	model "github.com/zdziszkee/bankmap/internal/model"
)

// FormValues is the read side of a submitted form. url.Values satisfies it.
type FormValues interface {
	Get(key string) string
}

// Coordinates is a parsed latitude/longitude pair
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// BankInput is a validated bank form. ID is the raw bank_id, empty for a create.
type BankInput struct {
	ID      string
	Code    string
	Name    string
	Address string
	Phone   string
	Image   string
	Coordinates
}

// BranchInput is a validated branch form; BankID is the raw "bank" field.
type BranchInput struct {
	ID      string
	BankID  string
	Code    string
	Name    string
	Address string
	Phone   string
	Image   string
	Coordinates
}

// ATMInput is a validated ATM form; BranchID is the raw "branch" field.
type ATMInput struct {
	ID       string
	BranchID string
	Code     string
	Status   model.ATMStatus
	Address  string
	Image    string
	Coordinates
}

// ParseBankForm reads bank_id, code, name, address, phone, image, latitude and longitude
func ParseBankForm(v FormValues) (BankInput, error) {
	coords, err := parseCoordinates(v)
	if err != nil {
		return BankInput{}, err
	}
	return BankInput{
		ID:          field(v, "bank_id"),
		Code:        field(v, "code"),
		Name:        field(v, "name"),
		Address:     field(v, "address"),
		Phone:       field(v, "phone"),
		Image:       field(v, "image"),
		Coordinates: coords,
	}, nil
}

// ParseBranchForm reads branch_id, bank and the shared location fields
func ParseBranchForm(v FormValues) (BranchInput, error) {
	coords, err := parseCoordinates(v)
	if err != nil {
		return BranchInput{}, err
	}
	return BranchInput{
		ID:          field(v, "branch_id"),
		BankID:      field(v, "bank"),
		Code:        field(v, "code"),
		Name:        field(v, "name"),
		Address:     field(v, "address"),
		Phone:       field(v, "phone"),
		Image:       field(v, "image"),
		Coordinates: coords,
	}, nil
}

// ParseATMForm reads atm_id, branch, code, status, address, image and coordinates.
// The status defaults to active; its validity is checked by the service after
// the parent and record lookups.
func ParseATMForm(v FormValues) (ATMInput, error) {
	coords, err := parseCoordinates(v)
	if err != nil {
		return ATMInput{}, err
	}
	status := field(v, "status")
	if status == "" {
		status = string(model.ATMActive)
	}
	return ATMInput{
		ID:          field(v, "atm_id"),
		BranchID:    field(v, "branch"),
		Code:        field(v, "code"),
		Status:      model.ATMStatus(status),
		Address:     field(v, "address"),
		Image:       field(v, "image"),
		Coordinates: coords,
	}, nil
}

func field(v FormValues, key string) string {
	return strings.TrimSpace(v.Get(key))
}

func parseCoordinates(v FormValues) (Coordinates, error) {
	lat, okLat := parseFloat(v.Get("latitude"))
	lng, okLng := parseFloat(v.Get("longitude"))
	if !okLat || !okLng {
		return Coordinates{}, ErrInvalidCoordinates
	}
	return Coordinates{Latitude: lat, Longitude: lng}, nil
}

func parseFloat(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseID converts a raw primary key; non-numeric ids can never match a row
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
