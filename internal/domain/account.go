package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AccountTypeSavings = "savings"
	AccountTypeLoan    = "loan"
	AccountTypeBank    = "bank"
)

// CompoundingFrequency controls how often accrued interest is folded back
// into the balance.
type CompoundingFrequency string

const (
	CompoundDaily     CompoundingFrequency = "DAILY"
	CompoundMonthly   CompoundingFrequency = "MONTHLY"
	CompoundQuarterly CompoundingFrequency = "QUARTERLY"
	CompoundAnnual    CompoundingFrequency = "ANNUAL"
)

// ParseFrequency validates a frequency string at the API boundary. Unknown
// values are rejected here; values already persisted bypass this and hit the
// legacy fallbacks in the accrual engine instead.
func ParseFrequency(s string) (CompoundingFrequency, error) {
	switch CompoundingFrequency(s) {
	case CompoundDaily, CompoundMonthly, CompoundQuarterly, CompoundAnnual:
		return CompoundingFrequency(s), nil
	}
	return "", fmt.Errorf("unknown compounding frequency %q", s)
}

// PeriodsPerYear returns the conventional period count for the frequency,
// 0 for unrecognized legacy values.
func (f CompoundingFrequency) PeriodsPerYear() int {
	switch f {
	case CompoundDaily:
		return 365
	case CompoundMonthly:
		return 12
	case CompoundQuarterly:
		return 4
	case CompoundAnnual:
		return 1
	}
	return 0
}

// AdvanceOnePeriod moves a date forward by one compounding period.
// Unrecognized legacy frequencies advance monthly.
func (f CompoundingFrequency) AdvanceOnePeriod(t time.Time) time.Time {
	switch f {
	case CompoundDaily:
		return t.AddDate(0, 0, 1)
	case CompoundQuarterly:
		return t.AddDate(0, 3, 0)
	case CompoundAnnual:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// Account represents a balance-bearing account (savings, loan, or bank).
// The balance is only ever mutated alongside a matching ledger posting.
type Account struct {
	ID               uuid.UUID            `json:"id" db:"id"`
	UserID           uuid.UUID            `json:"user_id" db:"user_id"`
	Name             string               `json:"name" db:"name"`
	AccountType      string               `json:"account_type" db:"account_type"`
	Balance          decimal.Decimal      `json:"balance" db:"balance"`
	InterestRate     *decimal.Decimal     `json:"interest_rate,omitempty" db:"interest_rate"`
	Frequency        CompoundingFrequency `json:"compounding_frequency" db:"compounding_frequency"`
	LastInterestDate *time.Time           `json:"last_interest_date,omitempty" db:"last_interest_date"`
	NextInterestDate *time.Time           `json:"next_interest_date,omitempty" db:"next_interest_date"`
	IsActive         bool                 `json:"is_active" db:"is_active"`
	IsDeleted        bool                 `json:"is_deleted" db:"is_deleted"`
	CreatedAt        time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at" db:"updated_at"`
}

// AccrualBase returns the date interest was last applied, falling back to the
// account creation date for accounts that have never accrued.
func (a *Account) AccrualBase() time.Time {
	if a.LastInterestDate != nil {
		return *a.LastInterestDate
	}
	return a.CreatedAt
}

// DTOs for requests and responses

type CreateAccountRequest struct {
	UserID       uuid.UUID       `json:"user_id" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	AccountType  string          `json:"account_type" validate:"required,oneof=savings loan bank"`
	Balance      decimal.Decimal `json:"balance"`
	InterestRate *string         `json:"interest_rate,omitempty"`
	Frequency    string          `json:"compounding_frequency,omitempty"`
}

type MovementRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description"`
}
