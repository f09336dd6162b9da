package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/elie009/utlityhub360-sub002/internal/domain"
	"github.com/elie009/utlityhub360-sub002/internal/repository/mocks"
	customError "github.com/elie009/utlityhub360-sub002/pkg/errors"
)

func TestPostEntry_Balanced(t *testing.T) {
	mockJournalRepo := &mocks.MockJournalRepository{}
	ledger := NewLedgerService(mockJournalRepo)

	userID := uuid.New()
	amount := decimal.NewFromFloat(99.46)

	mockJournalRepo.On("CreateEntry", mock.Anything, mock.MatchedBy(func(entry *domain.JournalEntry) bool {
		return entry.TotalDebit.Equal(entry.TotalCredit) && len(entry.Lines) == 2
	})).Return(nil)

	entry, err := ledger.PostEntry(context.Background(), domain.EntryInterestIncome, userID, nil,
		time.Now(), InterestIncomeLines(amount), "", "savings interest")

	require.NoError(t, err)
	assert.True(t, entry.TotalDebit.Equal(amount))
	assert.True(t, entry.TotalCredit.Equal(amount))
	assert.True(t, strings.HasPrefix(entry.Reference, "INT-"))

	for _, line := range entry.Lines {
		assert.Equal(t, entry.ID, line.EntryID)
		assert.True(t, line.Amount.IsPositive())
	}

	mockJournalRepo.AssertExpectations(t)
}

func TestPostEntry_ImbalanceRejected(t *testing.T) {
	mockJournalRepo := &mocks.MockJournalRepository{}
	ledger := NewLedgerService(mockJournalRepo)

	lines := []domain.JournalEntryLine{
		{AccountName: LedgerAccountCash, Class: domain.ClassAsset, Side: domain.Debit, Amount: decimal.NewFromInt(100)},
		{AccountName: LedgerAccountLoanPayable, Class: domain.ClassLiability, Side: domain.Credit, Amount: decimal.NewFromInt(99)},
	}

	_, err := ledger.PostEntry(context.Background(), domain.EntryDisbursement, uuid.New(), nil,
		time.Now(), lines, "", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrLedgerImbalance)
	mockJournalRepo.AssertNotCalled(t, "CreateEntry", mock.Anything, mock.Anything)
}

func TestPostEntry_EmptyRejected(t *testing.T) {
	mockJournalRepo := &mocks.MockJournalRepository{}
	ledger := NewLedgerService(mockJournalRepo)

	_, err := ledger.PostEntry(context.Background(), domain.EntryFee, uuid.New(), nil,
		time.Now(), nil, "", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrEmptyEntry)
}

func TestPostEntry_KeepsCallerReference(t *testing.T) {
	mockJournalRepo := &mocks.MockJournalRepository{}
	ledger := NewLedgerService(mockJournalRepo)

	mockJournalRepo.On("CreateEntry", mock.Anything, mock.Anything).Return(nil)

	entry, err := ledger.PostEntry(context.Background(), domain.EntryFee, uuid.New(), nil,
		time.Now(), FeeLines(decimal.NewFromInt(25)), "FEE-CUSTOM-001", "")

	require.NoError(t, err)
	assert.Equal(t, "FEE-CUSTOM-001", entry.Reference)
}

func TestCanonicalLineSetsBalance(t *testing.T) {
	amount := decimal.NewFromFloat(1234.56)
	principal := decimal.NewFromFloat(972.80)
	interest := decimal.NewFromFloat(60.00)

	tests := []struct {
		name  string
		lines []domain.JournalEntryLine
	}{
		{"disbursement", DisbursementLines(amount)},
		{"payment", PaymentLines(principal, interest)},
		{"fee", FeeLines(amount)},
		{"down payment", DownPaymentLines(amount)},
		{"interest income", InterestIncomeLines(amount)},
		{"deposit", DepositLines(amount)},
		{"withdrawal", WithdrawalLines(amount)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debit := domain.DebitTotal(tt.lines)
			credit := domain.CreditTotal(tt.lines)
			assert.True(t, debit.Equal(credit), "debit %v != credit %v", debit, credit)
			for _, line := range tt.lines {
				assert.True(t, line.Amount.IsPositive())
			}
		})
	}
}

func TestPaymentLines_OmitsZeroPortions(t *testing.T) {
	// Interest-only payment: no principal debit.
	lines := PaymentLines(decimal.Zero, decimal.NewFromInt(60))
	require.Len(t, lines, 2)
	assert.Equal(t, LedgerAccountInterestExpense, lines[0].AccountName)
	assert.Equal(t, LedgerAccountCash, lines[1].AccountName)

	// Principal-only payment: no interest debit.
	lines = PaymentLines(decimal.NewFromInt(500), decimal.Zero)
	require.Len(t, lines, 2)
	assert.Equal(t, LedgerAccountLoanPayable, lines[0].AccountName)
}

func TestReferencePrefixes(t *testing.T) {
	assert.Equal(t, "DISB", domain.EntryDisbursement.ReferencePrefix())
	assert.Equal(t, "PAY", domain.EntryPayment.ReferencePrefix())
	assert.Equal(t, "FEE", domain.EntryFee.ReferencePrefix())
	assert.Equal(t, "DOWN", domain.EntryDownPayment.ReferencePrefix())
	assert.Equal(t, "INT", domain.EntryInterestIncome.ReferencePrefix())
}
