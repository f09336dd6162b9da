package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType classifies the financial event a journal entry records.
type EntryType string

const (
	EntryDisbursement   EntryType = "DISBURSEMENT"
	EntryPayment        EntryType = "PAYMENT"
	EntryFee            EntryType = "FEE"
	EntryDownPayment    EntryType = "DOWN_PAYMENT"
	EntryInterestIncome EntryType = "INTEREST_INCOME"
	EntryDeposit        EntryType = "DEPOSIT"
	EntryWithdrawal     EntryType = "WITHDRAWAL"
)

// ReferencePrefix returns the prefix used for generated reference codes.
func (t EntryType) ReferencePrefix() string {
	switch t {
	case EntryDisbursement:
		return "DISB"
	case EntryPayment:
		return "PAY"
	case EntryFee:
		return "FEE"
	case EntryDownPayment:
		return "DOWN"
	case EntryInterestIncome:
		return "INT"
	case EntryDeposit:
		return "DEP"
	case EntryWithdrawal:
		return "WDL"
	}
	return "JRNL"
}

// AccountClass is the ledger classification of a line's account.
type AccountClass string

const (
	ClassAsset     AccountClass = "ASSET"
	ClassLiability AccountClass = "LIABILITY"
	ClassExpense   AccountClass = "EXPENSE"
	ClassRevenue   AccountClass = "REVENUE"
)

// Side marks a line as a debit or a credit.
type Side string

const (
	Debit  Side = "DEBIT"
	Credit Side = "CREDIT"
)

// JournalEntry is a balanced double-entry record. The debit and credit totals
// must be equal; lines are created atomically with the entry and never
// mutated afterward.
type JournalEntry struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	UserID      uuid.UUID          `json:"user_id" db:"user_id"`
	LoanRef     *uuid.UUID         `json:"loan_ref,omitempty" db:"loan_ref"`
	EntryType   EntryType          `json:"entry_type" db:"entry_type"`
	EntryDate   time.Time          `json:"entry_date" db:"entry_date"`
	Description string             `json:"description" db:"description"`
	Reference   string             `json:"reference" db:"reference"`
	TotalDebit  decimal.Decimal    `json:"total_debit" db:"total_debit"`
	TotalCredit decimal.Decimal    `json:"total_credit" db:"total_credit"`
	Lines       []JournalEntryLine `json:"lines" db:"-"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
}

// JournalEntryLine is one side of a posting. Amount is always positive; the
// direction is carried by Side.
type JournalEntryLine struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	EntryID     uuid.UUID       `json:"entry_id" db:"entry_id"`
	AccountName string          `json:"account_name" db:"account_name"`
	Class       AccountClass    `json:"account_class" db:"account_class"`
	Side        Side            `json:"side" db:"side"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Description string          `json:"description" db:"description"`
}

// DebitTotal sums the DEBIT-side lines.
func DebitTotal(lines []JournalEntryLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.Side == Debit {
			total = total.Add(l.Amount)
		}
	}
	return total
}

// CreditTotal sums the CREDIT-side lines.
func CreditTotal(lines []JournalEntryLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.Side == Credit {
			total = total.Add(l.Amount)
		}
	}
	return total
}
