package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/elie009/utlityhub360-sub002/internal/domain"
	"github.com/elie009/utlityhub360-sub002/internal/notification"
	"github.com/elie009/utlityhub360-sub002/internal/repository"
	customError "github.com/elie009/utlityhub360-sub002/pkg/errors"
	"github.com/elie009/utlityhub360-sub002/pkg/utils"
)

const (
	notificationTypeOverdue  = "installment_overdue"
	notificationTypeReminder = "installment_reminder"
)

// SweepError ties a sweep failure to the installment it occurred on.
type SweepError struct {
	LoanID uuid.UUID `json:"loan_id"`
	Number int       `json:"installment_number"`
	Err    string    `json:"error"`
}

// SweepResult summarizes one due-date sweep run.
type SweepResult struct {
	RunDate       time.Time    `json:"run_date"`
	MarkedOverdue int          `json:"marked_overdue"`
	RemindersSent int          `json:"reminders_sent"`
	Errors        []SweepError `json:"errors,omitempty"`
}

// SweepService scans the repayment schedules: installments past due flip to
// OVERDUE, installments coming due get reminders. Both phases tolerate
// per-installment failures and always run to completion.
type SweepService struct {
	scheduleRepo repository.ScheduleRepository
	loanRepo     repository.LoanRepository
	dispatcher   notification.Dispatcher
	windowDays   int
}

func NewSweepService(scheduleRepo repository.ScheduleRepository, loanRepo repository.LoanRepository, dispatcher notification.Dispatcher, windowDays int) *SweepService {
	return &SweepService{
		scheduleRepo: scheduleRepo,
		loanRepo:     loanRepo,
		dispatcher:   dispatcher,
		windowDays:   windowDays,
	}
}

// Sweep runs the overdue transition followed by the upcoming reminders, both
// against UTC calendar dates. The dispatcher dedups repeated same-day runs;
// the sweep itself keeps no state.
func (s *SweepService) Sweep(ctx context.Context, asOf time.Time) (*SweepResult, error) {
	asOfDate := utils.DateOnly(asOf)
	result := &SweepResult{RunDate: asOfDate}

	if err := s.markOverdue(ctx, asOfDate, result); err != nil {
		return nil, err
	}
	if err := s.remindUpcoming(ctx, asOfDate, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *SweepService) markOverdue(ctx context.Context, asOfDate time.Time, result *SweepResult) error {
	rows, err := s.scheduleRepo.GetPendingDueBefore(ctx, asOfDate)
	if err != nil {
		return customError.WrapPersistenceFailure(err)
	}

	for _, row := range rows {
		if ctx.Err() != nil {
			break
		}

		if err := s.scheduleRepo.UpdateStatus(ctx, row.LoanID, row.Number, domain.InstallmentOverdue); err != nil {
			result.Errors = append(result.Errors, SweepError{LoanID: row.LoanID, Number: row.Number, Err: err.Error()})
			continue
		}
		result.MarkedOverdue++

		if err := s.notify(ctx, row, notification.Notification{
			Title:    "Installment overdue",
			Message:  fmt.Sprintf("Installment %d of %s was due on %s and is now overdue.", row.Number, row.Total.StringFixed(2), row.DueDate.Format("2006-01-02")),
			Type:     notificationTypeOverdue,
			Priority: notification.PriorityHigh,
			DedupKey: fmt.Sprintf("%s:%s:%s", row.ID, notificationTypeOverdue, asOfDate.Format("2006-01-02")),
		}); err != nil {
			result.Errors = append(result.Errors, SweepError{LoanID: row.LoanID, Number: row.Number, Err: err.Error()})
		}
	}

	return nil
}

func (s *SweepService) remindUpcoming(ctx context.Context, asOfDate time.Time, result *SweepResult) error {
	windowEnd := asOfDate.AddDate(0, 0, s.windowDays)

	rows, err := s.scheduleRepo.GetPendingDueBetween(ctx, asOfDate, windowEnd)
	if err != nil {
		return customError.WrapPersistenceFailure(err)
	}

	for _, row := range rows {
		if ctx.Err() != nil {
			break
		}

		daysLeft := utils.DaysUntil(asOfDate, row.DueDate)

		n := notification.Notification{
			Type:     notificationTypeReminder,
			DedupKey: fmt.Sprintf("%s:%s:%s", row.ID, notificationTypeReminder, asOfDate.Format("2006-01-02")),
		}
		if daysLeft == 0 {
			n.Title = "Installment due today"
			n.Message = fmt.Sprintf("Installment %d of %s is due today.", row.Number, row.Total.StringFixed(2))
			n.Priority = notification.PriorityHigh
		} else {
			n.Title = "Upcoming installment"
			n.Message = fmt.Sprintf("Installment %d of %s is due in %d day(s).", row.Number, row.Total.StringFixed(2), daysLeft)
			n.Priority = notification.PriorityNormal
		}

		if err := s.notify(ctx, row, n); err != nil {
			result.Errors = append(result.Errors, SweepError{LoanID: row.LoanID, Number: row.Number, Err: err.Error()})
			continue
		}
		result.RemindersSent++
	}

	return nil
}

// notify resolves the loan owner and dispatches, tagging the loan id so the
// notification can deep-link back.
func (s *SweepService) notify(ctx context.Context, row *domain.LoanSchedule, n notification.Notification) error {
	loan, err := s.loanRepo.GetByID(ctx, row.LoanID)
	if err != nil {
		return err
	}

	n.UserID = loan.UserID
	n.Metadata = map[string]string{"loan_id": row.LoanID.String()}

	return s.dispatcher.Dispatch(ctx, n)
}
