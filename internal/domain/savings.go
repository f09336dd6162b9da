package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingsTransactionType classifies a savings balance movement.
type SavingsTransactionType string

const (
	SavingsDeposit    SavingsTransactionType = "DEPOSIT"
	SavingsWithdrawal SavingsTransactionType = "WITHDRAWAL"
	SavingsInterest   SavingsTransactionType = "INTEREST"
)

// SavingsTransaction is an immutable record of a single balance movement.
// Interest accrual writes one per accrual event.
type SavingsTransaction struct {
	ID           uuid.UUID              `json:"id" db:"id"`
	AccountID    uuid.UUID              `json:"account_id" db:"account_id"`
	Type         SavingsTransactionType `json:"type" db:"type"`
	Amount       decimal.Decimal        `json:"amount" db:"amount"`
	BalanceAfter decimal.Decimal        `json:"balance_after" db:"balance_after"`
	Date         time.Time              `json:"date" db:"date"`
	Description  string                 `json:"description" db:"description"`
}

// AccrualResult reports one account's interest accrual: the amount posted and
// the period boundaries used, for audit logging.
type AccrualResult struct {
	AccountID   uuid.UUID       `json:"account_id"`
	Interest    decimal.Decimal `json:"interest"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	ElapsedDays int             `json:"elapsed_days"`
	Posted      bool            `json:"posted"`
}

// AccrualError ties a batch failure to the account it occurred on.
type AccrualError struct {
	AccountID uuid.UUID `json:"account_id"`
	Err       string    `json:"error"`
}

// BatchAccrualResult summarizes one run over all due accounts. A run always
// completes; per-account failures land in Errors.
type BatchAccrualResult struct {
	RunDate       time.Time       `json:"run_date"`
	Processed     int             `json:"processed"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	Errors        []AccrualError  `json:"errors,omitempty"`
}
