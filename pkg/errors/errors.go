package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLedgerImbalance      = errors.New("entry debit and credit totals do not balance")
	ErrEmptyEntry           = errors.New("entry has no lines")
	ErrImmutableInstallment = errors.New("installment is paid and cannot be changed")
	ErrInvalidTerm          = errors.New("term extension must be positive")
	ErrAccountNotEligible   = errors.New("account has no positive interest rate")
	ErrInvalidFrequency     = errors.New("unknown compounding frequency")
	ErrAccountNotFound      = errors.New("account not found")
	ErrLoanNotFound         = errors.New("loan not found")
	ErrInstallmentNotFound  = errors.New("installment not found")
	ErrInsufficientBalance  = errors.New("insufficient balance")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLedgerImbalance      = "LEDGER_IMBALANCE"
	ErrCodeEmptyEntry           = "EMPTY_ENTRY"
	ErrCodeImmutableInstallment = "IMMUTABLE_INSTALLMENT"
	ErrCodeInvalidTerm          = "INVALID_TERM"
	ErrCodeAccountNotEligible   = "ACCOUNT_NOT_ELIGIBLE"
	ErrCodeInvalidFrequency     = "INVALID_FREQUENCY"
	ErrCodeAccountNotFound      = "ACCOUNT_NOT_FOUND"
	ErrCodeLoanNotFound         = "LOAN_NOT_FOUND"
	ErrCodeInstallmentNotFound  = "INSTALLMENT_NOT_FOUND"
	ErrCodeInsufficientBalance  = "INSUFFICIENT_BALANCE"
	ErrCodePersistenceFailure   = "PERSISTENCE_FAILURE"
)

// Wrap common errors with business context

func WrapLedgerImbalance(debit, credit string) *BusinessError {
	return NewBusinessError(
		ErrCodeLedgerImbalance,
		fmt.Sprintf("debit total %s does not equal credit total %s", debit, credit),
		ErrLedgerImbalance,
	)
}

func WrapEmptyEntry() *BusinessError {
	return NewBusinessError(
		ErrCodeEmptyEntry,
		"journal entry must have at least one line",
		ErrEmptyEntry,
	)
}

func WrapImmutableInstallment(number int) *BusinessError {
	return NewBusinessError(
		ErrCodeImmutableInstallment,
		fmt.Sprintf("installment %d is already paid", number),
		ErrImmutableInstallment,
	)
}

func WrapInvalidTerm(months int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTerm,
		fmt.Sprintf("cannot extend term by %d months", months),
		ErrInvalidTerm,
	)
}

func WrapAccountNotEligible(accountID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAccountNotEligible,
		fmt.Sprintf("account %s is not eligible for interest accrual", accountID),
		ErrAccountNotEligible,
	)
}

func WrapInvalidFrequency(value string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidFrequency,
		fmt.Sprintf("compounding frequency %q is not recognized", value),
		ErrInvalidFrequency,
	)
}

func WrapAccountNotFound(accountID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAccountNotFound,
		fmt.Sprintf("account %s not found", accountID),
		ErrAccountNotFound,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("loan %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapInstallmentNotFound(loanID string, number int) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentNotFound,
		fmt.Sprintf("installment %d for loan %s not found", number, loanID),
		ErrInstallmentNotFound,
	)
}

func WrapInsufficientBalance(accountID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInsufficientBalance,
		fmt.Sprintf("account %s has insufficient balance", accountID),
		ErrInsufficientBalance,
	)
}

func WrapPersistenceFailure(err error) *BusinessError {
	return NewBusinessError(
		ErrCodePersistenceFailure,
		"store operation failed",
		err,
	)
}
