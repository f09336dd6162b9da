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

func newAccrualFixture() (*AccrualService, *mocks.MockAccountRepository, *mocks.MockJournalRepository) {
	mockAccountRepo := &mocks.MockAccountRepository{}
	mockJournalRepo := &mocks.MockJournalRepository{}
	ledger := NewLedgerService(mockJournalRepo)
	svc := NewAccrualService(mockAccountRepo, ledger, decimal.NewFromFloat(0.01))
	return svc, mockAccountRepo, mockJournalRepo
}

func savingsAccount(balance float64, rate float64, freq domain.CompoundingFrequency, last time.Time) *domain.Account {
	r := decimal.NewFromFloat(rate)
	return &domain.Account{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Name:             "Emergency fund",
		AccountType:      domain.AccountTypeSavings,
		Balance:          decimal.NewFromFloat(balance),
		InterestRate:     &r,
		Frequency:        freq,
		LastInterestDate: &last,
		IsActive:         true,
		CreatedAt:        last,
	}
}

func TestApplyInterest_DailyCompounding(t *testing.T) {
	svc, mockAccountRepo, _ := newAccrualFixture()

	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	account := savingsAccount(10000, 0.12, domain.CompoundDaily, asOf.AddDate(0, 0, -30))

	expectedInterest := decimal.NewFromFloat(99.10) // 10000 * ((1+0.12/365)^30 - 1)

	mockAccountRepo.On("ApplyMovement", mock.Anything,
		mock.MatchedBy(func(a *domain.Account) bool {
			return a.Balance.Equal(decimal.NewFromFloat(10099.10))
		}),
		mock.MatchedBy(func(m *domain.SavingsTransaction) bool {
			return m.Type == domain.SavingsInterest && m.Amount.Equal(expectedInterest)
		}),
		mock.MatchedBy(func(e *domain.JournalEntry) bool {
			return e.EntryType == domain.EntryInterestIncome &&
				e.TotalDebit.Equal(expectedInterest) &&
				e.TotalCredit.Equal(expectedInterest)
		}),
	).Return(nil)

	result, err := svc.ApplyInterest(context.Background(), account, asOf)

	require.NoError(t, err)
	assert.True(t, result.Posted)
	assert.Equal(t, 30, result.ElapsedDays)
	assert.True(t, result.Interest.Equal(expectedInterest))
	assert.Equal(t, asOf, *account.LastInterestDate)
	assert.Equal(t, asOf.AddDate(0, 0, 1), *account.NextInterestDate)

	mockAccountRepo.AssertExpectations(t)
}

func TestApplyInterest_NotEligible(t *testing.T) {
	svc, mockAccountRepo, _ := newAccrualFixture()

	account := savingsAccount(10000, 0.12, domain.CompoundDaily, time.Now())
	account.InterestRate = nil

	_, err := svc.ApplyInterest(context.Background(), account, time.Now())

	require.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrAccountNotEligible)
	mockAccountRepo.AssertNotCalled(t, "ApplyMovement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyInterest_ZeroElapsedIsNoOp(t *testing.T) {
	svc, mockAccountRepo, _ := newAccrualFixture()

	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	account := savingsAccount(10000, 0.12, domain.CompoundDaily, asOf)

	result, err := svc.ApplyInterest(context.Background(), account, asOf)

	require.NoError(t, err)
	assert.False(t, result.Posted)
	assert.True(t, result.Interest.IsZero())
	assert.Equal(t, 0, result.ElapsedDays)

	// No writes of any kind: running twice on the same date cannot
	// produce a duplicate posting.
	mockAccountRepo.AssertNotCalled(t, "ApplyMovement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockAccountRepo.AssertNotCalled(t, "TouchAccrualDates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyInterest_SubCentAdvancesDatesOnly(t *testing.T) {
	svc, mockAccountRepo, _ := newAccrualFixture()

	asOf := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	account := savingsAccount(10, 0.001, domain.CompoundDaily, asOf.AddDate(0, 0, -1))

	mockAccountRepo.On("TouchAccrualDates", mock.Anything, account.ID, asOf, asOf.AddDate(0, 0, 1)).Return(nil)

	result, err := svc.ApplyInterest(context.Background(), account, asOf)

	require.NoError(t, err)
	assert.False(t, result.Posted)
	assert.True(t, result.Interest.IsZero())
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(10)))

	mockAccountRepo.AssertExpectations(t)
	mockAccountRepo.AssertNotCalled(t, "ApplyMovement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyInterestToDueAccounts_PartialFailure(t *testing.T) {
	svc, mockAccountRepo, _ := newAccrualFixture()

	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	broken := savingsAccount(5000, 0.05, domain.CompoundMonthly, asOf.AddDate(0, -1, 0))
	broken.InterestRate = nil // ineligible, fails mid-batch

	healthy := savingsAccount(10000, 0.12, domain.CompoundMonthly, asOf.AddDate(0, 0, -30))

	mockAccountRepo.On("GetDueForAccrual", mock.Anything, asOf).
		Return([]*domain.Account{broken, healthy}, nil)
	mockAccountRepo.On("ApplyMovement", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	batch, err := svc.ApplyInterestToDueAccounts(context.Background(), asOf)

	require.NoError(t, err)
	assert.Equal(t, 1, batch.Processed)
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, broken.ID, batch.Errors[0].AccountID)
	assert.True(t, batch.TotalInterest.Equal(decimal.NewFromInt(100)))

	mockAccountRepo.AssertExpectations(t)
}

func TestApplyInterestToDueAccounts_StopsOnCancel(t *testing.T) {
	svc, mockAccountRepo, _ := newAccrualFixture()

	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	accounts := []*domain.Account{
		savingsAccount(10000, 0.12, domain.CompoundMonthly, asOf.AddDate(0, 0, -30)),
	}

	mockAccountRepo.On("GetDueForAccrual", mock.Anything, asOf).Return(accounts, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := svc.ApplyInterestToDueAccounts(ctx, asOf)

	require.NoError(t, err)
	assert.Equal(t, 0, batch.Processed)
	mockAccountRepo.AssertNotCalled(t, "ApplyMovement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
