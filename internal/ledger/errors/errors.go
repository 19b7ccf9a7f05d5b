package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotAuthenticated is returned when an operation runs without a caller identity.
var ErrNotAuthenticated = errors.New("not authenticated")

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	errorMessages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		errorMessages[i] = err.Error()
	}
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(errorMessages, "; "))
}

func (ve *ValidationErrors) Unwrap() []error {
	return ve.Errors
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

// Err returns nil when nothing was collected.
func (ve *ValidationErrors) Err() error {
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

func (ve *ValidationErrors) Messages() []string {
	messages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		messages[i] = err.Error()
	}
	return messages
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	return errors.As(err, &validationErrors)
}

// InvariantViolation reports a ledger rule that a mutation would break.
// The rules are predeclared below so callers can match them with errors.Is.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return e.Reason
}

func NewInvariantViolation(reason string) error {
	return &InvariantViolation{Reason: reason}
}

func IsInvariantViolation(err error) bool {
	var violation *InvariantViolation
	return errors.As(err, &violation)
}

var (
	ErrAmountNotPositive        = NewInvariantViolation("amount must be greater than zero")
	ErrInsufficientBalance      = NewInvariantViolation("insufficient balance in wallet")
	ErrInsufficientPocket       = NewInvariantViolation("insufficient balance in pocket")
	ErrAmountExceedsDebt        = NewInvariantViolation("amount exceeds current debt")
	ErrNoPendingCashback        = NewInvariantViolation("no pending cashback to transfer")
	ErrWalletHasBalance         = NewInvariantViolation("wallet has nonzero balance")
	ErrCardHasDebt              = NewInvariantViolation("card has outstanding debt")
	ErrCardHasCashback          = NewInvariantViolation("card has pending cashback, transfer it first")
	ErrLimitBelowDebt           = NewInvariantViolation("credit limit cannot be lower than current debt")
	ErrColorRequired            = NewInvariantViolation("color is required for parent categories and categories without a parent")
	ErrInterestFrequency        = NewInvariantViolation("interest payment frequency is required when interest rate is positive")
	ErrInvalidParent            = NewInvariantViolation("parent must be an existing parent category")
	ErrBalanceMismatch          = NewInvariantViolation("wallet total does not match available balance plus pockets")
	ErrNegativeAvailableBalance = NewInvariantViolation("available balance cannot be negative")
)

// Sides of a ReferentialBlock.
const (
	SideSelf  = "self"
	SideChild = "child"
)

// ReferentialBlock reports a deletion stopped by records that still reference the target.
type ReferentialBlock struct {
	Entity string
	ID     string
	Side   string
	Count  int
}

func (e *ReferentialBlock) Error() string {
	if e.Side == SideChild {
		return fmt.Sprintf("cannot delete %s %s: a subcategory is used by %d transactions", e.Entity, e.ID, e.Count)
	}
	return fmt.Sprintf("cannot delete %s %s: used by %d transactions", e.Entity, e.ID, e.Count)
}

func IsReferentialBlock(err error) bool {
	var block *ReferentialBlock
	return errors.As(err, &block)
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// StoreFailure wraps an error raised by the backing store.
type StoreFailure struct {
	Op  string
	Err error
}

func (e *StoreFailure) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreFailure) Unwrap() error {
	return e.Err
}

func NewStoreFailure(op string, err error) error {
	return &StoreFailure{Op: op, Err: err}
}

func IsStoreFailure(err error) bool {
	var failure *StoreFailure
	return errors.As(err, &failure)
}
