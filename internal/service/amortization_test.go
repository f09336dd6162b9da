package service

import (
	"context"
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

func newAmortizationFixture() (*AmortizationService, *mocks.MockLoanRepository, *mocks.MockScheduleRepository, *mocks.MockJournalRepository) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockScheduleRepo := &mocks.MockScheduleRepository{}
	mockJournalRepo := &mocks.MockJournalRepository{}
	svc := NewAmortizationService(mockLoanRepo, mockScheduleRepo, NewLedgerService(mockJournalRepo))
	return svc, mockLoanRepo, mockScheduleRepo, mockJournalRepo
}

func TestGenerateSchedule_PrincipalConservation(t *testing.T) {
	svc, _, mockScheduleRepo, _ := newAmortizationFixture()

	loanID := uuid.New()
	principal := decimal.NewFromInt(12000)
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	mockScheduleRepo.On("CreateInstallments", mock.Anything, mock.Anything).Return(nil)

	rows, err := svc.GenerateSchedule(context.Background(), loanID, principal,
		decimal.NewFromFloat(0.06), 12, start, domain.CompoundMonthly)

	require.NoError(t, err)
	require.Len(t, rows, 12)

	// Fixed payment for 12000 at 6%/12 over 12 periods.
	expectedPayment := decimal.NewFromFloat(1032.80)
	assert.True(t, rows[0].Total.Equal(expectedPayment),
		"expected first payment %v, got %v", expectedPayment, rows[0].Total)
	assert.True(t, rows[0].Interest.Equal(decimal.NewFromInt(60))) // 12000 * 0.005

	// Principal components sum exactly to the original principal: the
	// final installment absorbs all rounding drift.
	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(row.Principal)
		assert.Equal(t, domain.InstallmentPending, row.Status)
	}
	assert.True(t, sum.Equal(principal), "principal components sum to %v, want %v", sum, principal)

	// Numbers are contiguous from 1, due dates strictly increasing one
	// month apart starting one period after the loan start.
	for i, row := range rows {
		assert.Equal(t, i+1, row.Number)
		assert.Equal(t, start.AddDate(0, i+1, 0), row.DueDate)
		if i > 0 {
			assert.True(t, row.DueDate.After(rows[i-1].DueDate))
		}
	}

	mockScheduleRepo.AssertExpectations(t)
}

func TestGenerateSchedule_ZeroRate(t *testing.T) {
	svc, _, mockScheduleRepo, _ := newAmortizationFixture()

	mockScheduleRepo.On("CreateInstallments", mock.Anything, mock.Anything).Return(nil)

	rows, err := svc.GenerateSchedule(context.Background(), uuid.New(), decimal.NewFromInt(1200),
		decimal.Zero, 12, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), domain.CompoundMonthly)

	require.NoError(t, err)
	require.Len(t, rows, 12)
	for _, row := range rows {
		assert.True(t, row.Principal.Equal(decimal.NewFromInt(100)))
		assert.True(t, row.Interest.IsZero())
	}
}

func TestGenerateSchedule_QuarterlyCount(t *testing.T) {
	svc, _, mockScheduleRepo, _ := newAmortizationFixture()

	mockScheduleRepo.On("CreateInstallments", mock.Anything, mock.Anything).Return(nil)

	rows, err := svc.GenerateSchedule(context.Background(), uuid.New(), decimal.NewFromInt(12000),
		decimal.NewFromFloat(0.08), 12, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), domain.CompoundQuarterly)

	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), rows[0].DueDate)
}

func TestExtendTerm_InvalidTerm(t *testing.T) {
	svc, _, _, _ := newAmortizationFixture()

	_, err := svc.ExtendTerm(context.Background(), uuid.New(), 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrInvalidTerm)
}

func TestExtendTerm_AppendsContinuingInstallments(t *testing.T) {
	svc, mockLoanRepo, mockScheduleRepo, _ := newAmortizationFixture()

	loanID := uuid.New()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := &domain.Loan{
		ID:         loanID,
		UserID:     uuid.New(),
		Principal:  decimal.NewFromInt(10000),
		AnnualRate: decimal.Zero,
		TermMonths: 10,
		Frequency:  domain.CompoundMonthly,
		StartDate:  start,
		Status:     domain.LoanStatusActive,
	}

	// Existing schedule only covers 4000 of the 10000 principal.
	existing := []*domain.LoanSchedule{
		{LoanID: loanID, Number: 1, DueDate: start.AddDate(0, 1, 0), Principal: decimal.NewFromInt(2000), Interest: decimal.Zero, Total: decimal.NewFromInt(2000), Status: domain.InstallmentPaid},
		{LoanID: loanID, Number: 2, DueDate: start.AddDate(0, 2, 0), Principal: decimal.NewFromInt(2000), Interest: decimal.Zero, Total: decimal.NewFromInt(2000), Status: domain.InstallmentPending},
	}

	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	mockScheduleRepo.On("GetByLoanID", mock.Anything, loanID).Return(existing, nil)
	mockScheduleRepo.On("CreateInstallments", mock.Anything, mock.Anything).Return(nil)

	appended, err := svc.ExtendTerm(context.Background(), loanID, 3)

	require.NoError(t, err)
	require.Len(t, appended, 3)

	// Numbering and cadence continue from the existing tail.
	assert.Equal(t, 3, appended[0].Number)
	assert.Equal(t, start.AddDate(0, 3, 0), appended[0].DueDate)
	assert.Equal(t, 5, appended[2].Number)

	// The remaining 6000 is spread over the new installments.
	sum := decimal.Zero
	for _, row := range appended {
		sum = sum.Add(row.Principal)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(6000)))

	mockScheduleRepo.AssertExpectations(t)
}

func TestRegenerate_PreservesPaidInstallments(t *testing.T) {
	svc, mockLoanRepo, mockScheduleRepo, _ := newAmortizationFixture()

	loanID := uuid.New()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan := &domain.Loan{
		ID:         loanID,
		UserID:     uuid.New(),
		Principal:  decimal.NewFromInt(12000),
		AnnualRate: decimal.NewFromFloat(0.06),
		TermMonths: 12,
		Frequency:  domain.CompoundMonthly,
		StartDate:  start,
		Status:     domain.LoanStatusActive,
	}

	rows := make([]*domain.LoanSchedule, 0, 12)
	for i := 1; i <= 12; i++ {
		status := domain.InstallmentPending
		if i <= 3 {
			status = domain.InstallmentPaid
		}
		rows = append(rows, &domain.LoanSchedule{
			LoanID:    loanID,
			Number:    i,
			DueDate:   start.AddDate(0, i, 0),
			Principal: decimal.NewFromInt(1000),
			Interest:  decimal.NewFromInt(50),
			Total:     decimal.NewFromInt(1050),
			Status:    status,
		})
	}

	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	mockScheduleRepo.On("GetByLoanID", mock.Anything, loanID).Return(rows, nil)
	mockScheduleRepo.On("ReplaceUnpaid", mock.Anything, loanID, mock.MatchedBy(func(fresh []*domain.LoanSchedule) bool {
		return len(fresh) == 9 && fresh[0].Number == 4
	})).Return(nil)

	fresh, err := svc.Regenerate(context.Background(), loanID)

	require.NoError(t, err)
	require.Len(t, fresh, 9)

	// Recomputed from the 9000 remaining after the three paid rows,
	// resuming the cadence after installment 3.
	assert.Equal(t, 4, fresh[0].Number)
	assert.Equal(t, start.AddDate(0, 4, 0), fresh[0].DueDate)

	sum := decimal.Zero
	for _, row := range fresh {
		sum = sum.Add(row.Principal)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(9000)), "got %v", sum)

	mockScheduleRepo.AssertExpectations(t)
}

func TestMarkPaid_PostsPaymentSplit(t *testing.T) {
	svc, mockLoanRepo, mockScheduleRepo, _ := newAmortizationFixture()

	loanID := uuid.New()
	loan := &domain.Loan{ID: loanID, UserID: uuid.New(), Principal: decimal.NewFromInt(12000), Frequency: domain.CompoundMonthly, Status: domain.LoanStatusActive}

	row := &domain.LoanSchedule{
		LoanID:    loanID,
		Number:    1,
		Principal: decimal.NewFromFloat(972.80),
		Interest:  decimal.NewFromInt(60),
		Total:     decimal.NewFromFloat(1032.80),
		Status:    domain.InstallmentPending,
	}

	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	mockScheduleRepo.On("GetByLoanAndNumber", mock.Anything, loanID, 1).Return(row, nil)
	mockScheduleRepo.On("MarkPaid", mock.Anything, loanID, 1, mock.MatchedBy(func(entry *domain.JournalEntry) bool {
		return entry.EntryType == domain.EntryPayment &&
			entry.TotalDebit.Equal(entry.TotalCredit) &&
			entry.TotalDebit.Equal(decimal.NewFromFloat(1032.80)) &&
			len(entry.Lines) == 3
	})).Return(nil)
	mockScheduleRepo.On("GetByLoanID", mock.Anything, loanID).Return([]*domain.LoanSchedule{
		row,
		{LoanID: loanID, Number: 2, Status: domain.InstallmentPending},
	}, nil)

	paid, err := svc.MarkPaid(context.Background(), loanID, 1, time.Now())

	require.NoError(t, err)
	assert.Equal(t, domain.InstallmentPaid, paid.Status)

	// One unpaid installment remains, so the loan is not closed.
	mockLoanRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	mockScheduleRepo.AssertExpectations(t)
}

func TestMarkPaid_LastInstallmentClosesLoan(t *testing.T) {
	svc, mockLoanRepo, mockScheduleRepo, _ := newAmortizationFixture()

	loanID := uuid.New()
	loan := &domain.Loan{ID: loanID, UserID: uuid.New(), Frequency: domain.CompoundMonthly, Status: domain.LoanStatusActive}

	row := &domain.LoanSchedule{
		LoanID:    loanID,
		Number:    12,
		Principal: decimal.NewFromInt(1000),
		Interest:  decimal.NewFromInt(5),
		Total:     decimal.NewFromInt(1005),
		Status:    domain.InstallmentOverdue,
	}

	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	mockScheduleRepo.On("GetByLoanAndNumber", mock.Anything, loanID, 12).Return(row, nil)
	mockScheduleRepo.On("MarkPaid", mock.Anything, loanID, 12, mock.Anything).Return(nil)
	mockScheduleRepo.On("GetByLoanID", mock.Anything, loanID).Return([]*domain.LoanSchedule{row}, nil)
	mockLoanRepo.On("UpdateStatus", mock.Anything, loanID, domain.LoanStatusClosed).Return(nil)

	_, err := svc.MarkPaid(context.Background(), loanID, 12, time.Now())

	require.NoError(t, err)
	mockLoanRepo.AssertExpectations(t)
}

func TestMarkPaid_PaidIsImmutable(t *testing.T) {
	svc, mockLoanRepo, mockScheduleRepo, _ := newAmortizationFixture()

	loanID := uuid.New()
	loan := &domain.Loan{ID: loanID, UserID: uuid.New(), Frequency: domain.CompoundMonthly, Status: domain.LoanStatusActive}
	row := &domain.LoanSchedule{LoanID: loanID, Number: 1, Status: domain.InstallmentPaid}

	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	mockScheduleRepo.On("GetByLoanAndNumber", mock.Anything, loanID, 1).Return(row, nil)

	_, err := svc.MarkPaid(context.Background(), loanID, 1, time.Now())

	require.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrImmutableInstallment)
	assert.Equal(t, domain.InstallmentPaid, row.Status)
	mockScheduleRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteInstallment_PaidIsImmutable(t *testing.T) {
	svc, _, mockScheduleRepo, _ := newAmortizationFixture()

	loanID := uuid.New()
	row := &domain.LoanSchedule{LoanID: loanID, Number: 2, Status: domain.InstallmentPaid}

	mockScheduleRepo.On("GetByLoanAndNumber", mock.Anything, loanID, 2).Return(row, nil)

	err := svc.DeleteInstallment(context.Background(), loanID, 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrImmutableInstallment)
	mockScheduleRepo.AssertNotCalled(t, "DeleteWithRenumber", mock.Anything, mock.Anything, mock.Anything)
}
