package utils

import (
	"errors"
	"fmt"
)

// ErrorRecordNotFound is the base not-found error. The per-entity variants
// below wrap it so callers can match either the specific entity or the class:
//
//	errors.Is(err, utils.ErrorTransactionNotFound)
//	errors.Is(err, utils.ErrorRecordNotFound)
var ErrorRecordNotFound = errors.New("record not found")

var (
	ErrorBusinessNotFound    = fmt.Errorf("business: %w", ErrorRecordNotFound)
	ErrorCustomerNotFound    = fmt.Errorf("customer: %w", ErrorRecordNotFound)
	ErrorSupplierNotFound    = fmt.Errorf("supplier: %w", ErrorRecordNotFound)
	ErrorTransactionNotFound = fmt.Errorf("transaction: %w", ErrorRecordNotFound)
	ErrorUserNotFound        = fmt.Errorf("user: %w", ErrorRecordNotFound)
)

// ErrorDuplicateRecord reports a uniqueness/referential constraint violation.
// Transaction ids are caller-supplied, so a duplicate-key conflict on create is
// the caller's signal that a retried request already succeeded.
var ErrorDuplicateRecord = errors.New("duplicate record")

// ValidationError reports malformed input: bad enum value, missing required
// field, non-positive amount, ambiguous counterparty reference.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IntegrityError reports that the balance-mutation step of an atomic unit
// failed. The unit has been rolled back; no partial effect remains.
type IntegrityError struct {
	Op    string
	Cause error
}

func (e *IntegrityError) Error() string {
	return "integrity failure in " + e.Op + ": " + e.Cause.Error()
}

func (e *IntegrityError) Unwrap() error { return e.Cause }

func NewIntegrityError(op string, cause error) error {
	return &IntegrityError{Op: op, Cause: cause}
}
