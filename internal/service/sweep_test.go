package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/elie009/utlityhub360-sub002/internal/domain"
	"github.com/elie009/utlityhub360-sub002/internal/notification"
	"github.com/elie009/utlityhub360-sub002/internal/repository/mocks"
)

func newSweepFixture(windowDays int) (*SweepService, *mocks.MockScheduleRepository, *mocks.MockLoanRepository, *mocks.MockDispatcher) {
	mockScheduleRepo := &mocks.MockScheduleRepository{}
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockDispatcher := &mocks.MockDispatcher{}
	svc := NewSweepService(mockScheduleRepo, mockLoanRepo, mockDispatcher, windowDays)
	return svc, mockScheduleRepo, mockLoanRepo, mockDispatcher
}

func pendingInstallment(loanID uuid.UUID, number int, due time.Time) *domain.LoanSchedule {
	return &domain.LoanSchedule{
		ID:        uuid.New(),
		LoanID:    loanID,
		Number:    number,
		DueDate:   due,
		Total:     decimal.NewFromFloat(1032.80),
		Principal: decimal.NewFromFloat(972.80),
		Interest:  decimal.NewFromInt(60),
		Status:    domain.InstallmentPending,
	}
}

func TestSweep_MarksOverdueAndNotifies(t *testing.T) {
	svc, mockScheduleRepo, mockLoanRepo, mockDispatcher := newSweepFixture(3)

	asOf := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	asOfDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	loanID := uuid.New()
	userID := uuid.New()
	row := pendingInstallment(loanID, 2, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	mockScheduleRepo.On("GetPendingDueBefore", mock.Anything, asOfDate).Return([]*domain.LoanSchedule{row}, nil)
	mockScheduleRepo.On("UpdateStatus", mock.Anything, loanID, 2, domain.InstallmentOverdue).Return(nil)
	mockScheduleRepo.On("GetPendingDueBetween", mock.Anything, asOfDate, asOfDate.AddDate(0, 0, 3)).Return([]*domain.LoanSchedule{}, nil)
	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(&domain.Loan{ID: loanID, UserID: userID}, nil)
	mockDispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(n notification.Notification) bool {
		return n.Type == notificationTypeOverdue &&
			n.Priority == notification.PriorityHigh &&
			n.UserID == userID &&
			n.Metadata["loan_id"] == loanID.String() &&
			n.DedupKey == row.ID.String()+":installment_overdue:2024-03-15"
	})).Return(nil)

	result, err := svc.Sweep(context.Background(), asOf)

	require.NoError(t, err)
	assert.Equal(t, 1, result.MarkedOverdue)
	assert.Equal(t, 0, result.RemindersSent)
	assert.Empty(t, result.Errors)
	assert.Equal(t, asOfDate, result.RunDate)

	mockScheduleRepo.AssertExpectations(t)
	mockDispatcher.AssertExpectations(t)
}

func TestSweep_ReminderPriorities(t *testing.T) {
	svc, mockScheduleRepo, mockLoanRepo, mockDispatcher := newSweepFixture(3)

	asOfDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	loanID := uuid.New()
	dueToday := pendingInstallment(loanID, 3, asOfDate)
	dueSoon := pendingInstallment(loanID, 4, asOfDate.AddDate(0, 0, 2))

	mockScheduleRepo.On("GetPendingDueBefore", mock.Anything, asOfDate).Return([]*domain.LoanSchedule{}, nil)
	mockScheduleRepo.On("GetPendingDueBetween", mock.Anything, asOfDate, asOfDate.AddDate(0, 0, 3)).
		Return([]*domain.LoanSchedule{dueToday, dueSoon}, nil)
	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(&domain.Loan{ID: loanID, UserID: uuid.New()}, nil)

	// Due today escalates to high priority; a future due date stays normal
	// and names the days remaining.
	mockDispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(n notification.Notification) bool {
		return n.Type == notificationTypeReminder && n.Priority == notification.PriorityHigh && n.Title == "Installment due today"
	})).Return(nil).Once()
	mockDispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(n notification.Notification) bool {
		return n.Type == notificationTypeReminder && n.Priority == notification.PriorityNormal && n.Message == "Installment 4 of 1032.80 is due in 2 day(s)."
	})).Return(nil).Once()

	result, err := svc.Sweep(context.Background(), asOfDate)

	require.NoError(t, err)
	assert.Equal(t, 2, result.RemindersSent)
	assert.Empty(t, result.Errors)

	mockDispatcher.AssertExpectations(t)
}

func TestSweep_PartialFailureContinues(t *testing.T) {
	svc, mockScheduleRepo, mockLoanRepo, mockDispatcher := newSweepFixture(3)

	asOfDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	loanID := uuid.New()
	broken := pendingInstallment(loanID, 1, asOfDate.AddDate(0, 0, -10))
	healthy := pendingInstallment(loanID, 2, asOfDate.AddDate(0, 0, -5))

	mockScheduleRepo.On("GetPendingDueBefore", mock.Anything, asOfDate).
		Return([]*domain.LoanSchedule{broken, healthy}, nil)
	mockScheduleRepo.On("UpdateStatus", mock.Anything, loanID, 1, domain.InstallmentOverdue).
		Return(errors.New("row locked"))
	mockScheduleRepo.On("UpdateStatus", mock.Anything, loanID, 2, domain.InstallmentOverdue).Return(nil)
	mockScheduleRepo.On("GetPendingDueBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]*domain.LoanSchedule{}, nil)
	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(&domain.Loan{ID: loanID, UserID: uuid.New()}, nil)
	mockDispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Sweep(context.Background(), asOfDate)

	require.NoError(t, err)
	assert.Equal(t, 1, result.MarkedOverdue)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Number)
	assert.Equal(t, "row locked", result.Errors[0].Err)

	// Only the successfully transitioned installment produced a notification.
	mockDispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestSweep_DispatchFailureIsRecorded(t *testing.T) {
	svc, mockScheduleRepo, mockLoanRepo, mockDispatcher := newSweepFixture(3)

	asOfDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	loanID := uuid.New()
	row := pendingInstallment(loanID, 5, asOfDate.AddDate(0, 0, -1))

	mockScheduleRepo.On("GetPendingDueBefore", mock.Anything, asOfDate).
		Return([]*domain.LoanSchedule{row}, nil)
	mockScheduleRepo.On("UpdateStatus", mock.Anything, loanID, 5, domain.InstallmentOverdue).Return(nil)
	mockScheduleRepo.On("GetPendingDueBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]*domain.LoanSchedule{}, nil)
	mockLoanRepo.On("GetByID", mock.Anything, loanID).Return(&domain.Loan{ID: loanID, UserID: uuid.New()}, nil)
	mockDispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	result, err := svc.Sweep(context.Background(), asOfDate)

	// The status transition already happened, so the run still counts it
	// and only records the notification failure.
	require.NoError(t, err)
	assert.Equal(t, 1, result.MarkedOverdue)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "broker down", result.Errors[0].Err)
}
