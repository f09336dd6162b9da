package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elie009/utlityhub360-sub002/internal/domain"
	"github.com/elie009/utlityhub360-sub002/internal/repository"
	customError "github.com/elie009/utlityhub360-sub002/pkg/errors"
)

// Ledger account names used by the canonical postings.
const (
	LedgerAccountCash            = "Cash"
	LedgerAccountLoanPayable     = "Loan Payable"
	LedgerAccountInterestExpense = "Interest Expense"
	LedgerAccountProcessingFee   = "Loan Processing Expense"
	LedgerAccountSavings         = "Savings Account"
	LedgerAccountInterestIncome  = "Interest Income"
)

// LedgerService builds and persists balanced double-entry journal entries.
// Callers construct the line sets; this service validates the balance and
// writes entry plus lines atomically. It never rebalances.
type LedgerService struct {
	journalRepo repository.JournalRepository
}

func NewLedgerService(journalRepo repository.JournalRepository) *LedgerService {
	return &LedgerService{journalRepo: journalRepo}
}

// BuildEntry validates a line set and assembles the entry without persisting
// it. Used by flows whose posting must commit atomically with another
// mutation (accrual, payment recording).
func (s *LedgerService) BuildEntry(entryType domain.EntryType, userID uuid.UUID, loanRef *uuid.UUID, date time.Time, lines []domain.JournalEntryLine, reference, description string) (*domain.JournalEntry, error) {
	if len(lines) == 0 {
		return nil, customError.WrapEmptyEntry()
	}

	debit := domain.DebitTotal(lines)
	credit := domain.CreditTotal(lines)
	if !debit.Equal(credit) {
		return nil, customError.WrapLedgerImbalance(debit.StringFixed(2), credit.StringFixed(2))
	}

	if reference == "" {
		reference = fmt.Sprintf("%s-%s", entryType.ReferencePrefix(), time.Now().UTC().Format("20060102150405"))
	}

	entry := &domain.JournalEntry{
		ID:          uuid.New(),
		UserID:      userID,
		LoanRef:     loanRef,
		EntryType:   entryType,
		EntryDate:   date,
		Description: description,
		Reference:   reference,
		TotalDebit:  debit,
		TotalCredit: credit,
		CreatedAt:   time.Now(),
	}

	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].EntryID = entry.ID
	}
	entry.Lines = lines

	return entry, nil
}

// PostEntry validates and persists a journal entry in one atomic write.
func (s *LedgerService) PostEntry(ctx context.Context, entryType domain.EntryType, userID uuid.UUID, loanRef *uuid.UUID, date time.Time, lines []domain.JournalEntryLine, reference, description string) (*domain.JournalEntry, error) {
	entry, err := s.BuildEntry(entryType, userID, loanRef, date, lines, reference, description)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.CreateEntry(ctx, entry); err != nil {
		return nil, customError.WrapPersistenceFailure(err)
	}

	return entry, nil
}

// Canonical line sets. Each is a fixed debit/credit pair (or triple) that
// balances by construction.

// DisbursementLines: cash out of the lender, liability onto the books.
func DisbursementLines(amount decimal.Decimal) []domain.JournalEntryLine {
	return []domain.JournalEntryLine{
		{AccountName: LedgerAccountCash, Class: domain.ClassAsset, Side: domain.Debit, Amount: amount, Description: "Loan proceeds received"},
		{AccountName: LedgerAccountLoanPayable, Class: domain.ClassLiability, Side: domain.Credit, Amount: amount, Description: "Loan obligation"},
	}
}

// PaymentLines splits a payment into its principal and interest portions,
// omitting either side when zero, against a single cash credit for the total.
func PaymentLines(principal, interest decimal.Decimal) []domain.JournalEntryLine {
	var lines []domain.JournalEntryLine
	if principal.IsPositive() {
		lines = append(lines, domain.JournalEntryLine{
			AccountName: LedgerAccountLoanPayable, Class: domain.ClassLiability, Side: domain.Debit, Amount: principal, Description: "Principal repayment",
		})
	}
	if interest.IsPositive() {
		lines = append(lines, domain.JournalEntryLine{
			AccountName: LedgerAccountInterestExpense, Class: domain.ClassExpense, Side: domain.Debit, Amount: interest, Description: "Interest portion",
		})
	}
	total := principal.Add(interest)
	lines = append(lines, domain.JournalEntryLine{
		AccountName: LedgerAccountCash, Class: domain.ClassAsset, Side: domain.Credit, Amount: total, Description: "Payment made",
	})
	return lines
}

// FeeLines: processing fee paid in cash.
func FeeLines(amount decimal.Decimal) []domain.JournalEntryLine {
	return []domain.JournalEntryLine{
		{AccountName: LedgerAccountProcessingFee, Class: domain.ClassExpense, Side: domain.Debit, Amount: amount, Description: "Loan processing fee"},
		{AccountName: LedgerAccountCash, Class: domain.ClassAsset, Side: domain.Credit, Amount: amount, Description: "Fee paid"},
	}
}

// DownPaymentLines: upfront principal reduction.
func DownPaymentLines(amount decimal.Decimal) []domain.JournalEntryLine {
	return []domain.JournalEntryLine{
		{AccountName: LedgerAccountLoanPayable, Class: domain.ClassLiability, Side: domain.Debit, Amount: amount, Description: "Down payment applied"},
		{AccountName: LedgerAccountCash, Class: domain.ClassAsset, Side: domain.Credit, Amount: amount, Description: "Down payment made"},
	}
}

// InterestIncomeLines: savings interest earned.
func InterestIncomeLines(amount decimal.Decimal) []domain.JournalEntryLine {
	return []domain.JournalEntryLine{
		{AccountName: LedgerAccountSavings, Class: domain.ClassAsset, Side: domain.Debit, Amount: amount, Description: "Interest credited"},
		{AccountName: LedgerAccountInterestIncome, Class: domain.ClassRevenue, Side: domain.Credit, Amount: amount, Description: "Interest income earned"},
	}
}

// DepositLines: cash moved into savings.
func DepositLines(amount decimal.Decimal) []domain.JournalEntryLine {
	return []domain.JournalEntryLine{
		{AccountName: LedgerAccountSavings, Class: domain.ClassAsset, Side: domain.Debit, Amount: amount, Description: "Deposit received"},
		{AccountName: LedgerAccountCash, Class: domain.ClassAsset, Side: domain.Credit, Amount: amount, Description: "Cash deposited"},
	}
}

// WithdrawalLines: cash moved out of savings.
func WithdrawalLines(amount decimal.Decimal) []domain.JournalEntryLine {
	return []domain.JournalEntryLine{
		{AccountName: LedgerAccountCash, Class: domain.ClassAsset, Side: domain.Debit, Amount: amount, Description: "Cash withdrawn"},
		{AccountName: LedgerAccountSavings, Class: domain.ClassAsset, Side: domain.Credit, Amount: amount, Description: "Withdrawal"},
	}
}
