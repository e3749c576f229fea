package service

import (
	"errors"
	"strings"
)

// Client errors. Their messages are returned verbatim in {ok:false, msg}.
var (
	ErrInvalidCoordinates = errors.New("latitude/longitude invalid")
	ErrInvalidStatus      = errors.New("status invalid")

	ErrBankNotFound   = errors.New("bank not found")
	ErrBranchNotFound = errors.New("branch not found")
	ErrATMNotFound    = errors.New("atm not found")
	ErrUserNotFound   = errors.New("user not found")

	ErrBankIDRequired   = errors.New("bank_id required")
	ErrBranchIDRequired = errors.New("branch_id required")
	ErrATMIDRequired    = errors.New("atm_id required")

	ErrDuplicateBankCode   = errors.New("bank code already exists")
	ErrDuplicateBranchCode = errors.New("branch code already exists")
	ErrDuplicateATMCode    = errors.New("atm code already exists")

	ErrNoATMs = errors.New("no ATMs found")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionInvalid     = errors.New("session invalid or expired")
)

var clientErrors = []error{
	ErrInvalidCoordinates,
	ErrInvalidStatus,
	ErrBankNotFound,
	ErrBranchNotFound,
	ErrATMNotFound,
	ErrUserNotFound,
	ErrBankIDRequired,
	ErrBranchIDRequired,
	ErrATMIDRequired,
	ErrDuplicateBankCode,
	ErrDuplicateBranchCode,
	ErrDuplicateATMCode,
}

// IsClientError reports whether err was caused by the request rather than the store
func IsClientError(err error) bool {
	var fieldErrs FieldErrors
	if errors.As(err, &fieldErrs) {
		return true
	}
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// FieldError describes one invalid form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the failed result of a form validation
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// For returns the messages attached to a field
func (e FieldErrors) For(field string) []string {
	var msgs []string
	for _, fe := range e {
		if fe.Field == field {
			msgs = append(msgs, fe.Message)
		}
	}
	return msgs
}
