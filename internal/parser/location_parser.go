package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	model "github.com/zdziszkee/bankmap/internal/model"
)

// Error definitions for better error handling
var (
	ErrHeaderMismatch       = errors.New("header does not match the seed format")
	ErrRecordInsufficient   = errors.New("record has insufficient columns")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidKind          = errors.New("invalid record kind")
	ErrInvalidCoordinate    = errors.New("invalid latitude/longitude")
	ErrInvalidStatus        = errors.New("invalid ATM status")
	ErrFieldTooLong         = errors.New("field too long")
)

// Header is the expected first line of a seed file
var Header = []string{
	"kind", "bank_code", "branch_code", "code", "name", "address",
	"phone", "image", "latitude", "longitude", "status",
}

// RecordKind selects which table a seed row targets
type RecordKind string

const (
	KindBank   RecordKind = "bank"
	KindBranch RecordKind = "branch"
	KindATM    RecordKind = "atm"
)

// LocationRecord is one validated seed row. BankCode is the parent bank of a
// branch or ATM; BranchCode is the parent branch of an ATM.
type LocationRecord struct {
	Line       int
	Kind       RecordKind
	BankCode   string
	BranchCode string
	Code       string
	Name       string
	Address    string
	Phone      string
	Image      string
	Latitude   *float64
	Longitude  *float64
	Status     model.ATMStatus
}

// LocationParser is an interface for parsing seed data
type LocationParser interface {
	ParseLocations(input io.Reader) ([]LocationRecord, error)
}

// CSVLocationParser implements the LocationParser interface for CSV format
type CSVLocationParser struct{}

// NewCSVLocationParser creates a new seed parser for CSV format
func NewCSVLocationParser() LocationParser {
	return &CSVLocationParser{}
}

// ParseLocations reads every row of the seed file. Rows repeating an earlier
// key (bank code, bank+branch code, ATM code) are skipped.
func (p *CSVLocationParser) ParseLocations(input io.Reader) ([]LocationRecord, error) {
	reader := csv.NewReader(input)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var records []LocationRecord
	seen := make(map[string]bool)
	lineNumber := 1

	for {
		lineNumber++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", lineNumber, err)
		}
		if isBlank(row) {
			continue
		}
		if len(row) < len(Header) {
			return nil, fmt.Errorf("%w at line %d", ErrRecordInsufficient, lineNumber)
		}

		record, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("at line %d: %w", lineNumber, err)
		}
		record.Line = lineNumber

		key := record.key()
		if seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, record)
	}

	return records, nil
}

func (r LocationRecord) key() string {
	switch r.Kind {
	case KindBranch:
		return "branch/" + r.BankCode + "/" + r.Code
	case KindATM:
		return "atm/" + r.Code
	default:
		return "bank/" + r.Code
	}
}

func checkHeader(header []string) error {
	if len(header) < len(Header) {
		return fmt.Errorf("%w: expected %d columns, got %d", ErrHeaderMismatch, len(Header), len(header))
	}
	for i, col := range Header {
		got := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
		if got != col {
			return fmt.Errorf("%w: expected %q at index %d, got %q", ErrHeaderMismatch, col, i, header[i])
		}
	}
	return nil
}

func parseRecord(row []string) (LocationRecord, error) {
	get := func(i int) string { return strings.TrimSpace(row[i]) }

	record := LocationRecord{
		Kind:       RecordKind(strings.ToLower(get(0))),
		BankCode:   get(1),
		BranchCode: get(2),
		Code:       get(3),
		Name:       sanitizeName(row[4]),
		Address:    get(5),
		Phone:      get(6),
		Image:      get(7),
	}

	var err error
	if record.Latitude, err = parseCoordinate(get(8)); err != nil {
		return record, err
	}
	if record.Longitude, err = parseCoordinate(get(9)); err != nil {
		return record, err
	}
	if (record.Latitude == nil) != (record.Longitude == nil) {
		return record, fmt.Errorf("%w: both or neither must be set", ErrInvalidCoordinate)
	}

	switch record.Kind {
	case KindBank:
		if record.Code == "" {
			record.Code = record.BankCode
		}
		record.BankCode = record.Code
		return record, validateRecord(record, 20, "code", "name")
	case KindBranch:
		return record, validateRecord(record, 20, "bank_code", "code", "name")
	case KindATM:
		status := get(10)
		if status == "" {
			status = string(model.ATMActive)
		}
		record.Status = model.ATMStatus(strings.ToLower(status))
		if !record.Status.Valid() {
			return record, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
		}
		return record, validateRecord(record, 30, "bank_code", "branch_code", "code")
	default:
		return record, fmt.Errorf("%w: %q", ErrInvalidKind, get(0))
	}
}

// validateRecord checks required columns and the column widths of the schema
func validateRecord(r LocationRecord, maxCode int, required ...string) error {
	values := map[string]string{
		"bank_code":   r.BankCode,
		"branch_code": r.BranchCode,
		"code":        r.Code,
		"name":        r.Name,
	}
	for _, col := range required {
		if values[col] == "" {
			return fmt.Errorf("%w: %s", ErrMissingRequiredField, col)
		}
	}

	limits := []struct {
		col   string
		value string
		max   int
	}{
		{"code", r.Code, maxCode},
		{"name", r.Name, 120},
		{"address", r.Address, 255},
		{"phone", r.Phone, 20},
		{"image", r.Image, 200},
	}
	for _, l := range limits {
		if len([]rune(l.value)) > l.max {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrFieldTooLong, l.col, l.max)
		}
	}
	return nil
}

func parseCoordinate(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCoordinate, raw)
	}
	return &f, nil
}

// sanitizeName collapses whitespace and strips control characters
func sanitizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")

	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
