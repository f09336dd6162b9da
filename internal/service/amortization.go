package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elie009/utlityhub360-sub002/internal/domain"
	"github.com/elie009/utlityhub360-sub002/internal/repository"
	customError "github.com/elie009/utlityhub360-sub002/pkg/errors"
	"github.com/elie009/utlityhub360-sub002/pkg/utils"
)

// AmortizationService generates and mutates fixed-installment repayment
// schedules and records payments against them.
type AmortizationService struct {
	loanRepo     repository.LoanRepository
	scheduleRepo repository.ScheduleRepository
	ledger       *LedgerService
}

func NewAmortizationService(loanRepo repository.LoanRepository, scheduleRepo repository.ScheduleRepository, ledger *LedgerService) *AmortizationService {
	return &AmortizationService{
		loanRepo:     loanRepo,
		scheduleRepo: scheduleRepo,
		ledger:       ledger,
	}
}

// periodsForTerm converts a term in months into an installment count for the
// payment frequency. Loans pay monthly, quarterly or annually; anything else
// is treated as monthly.
func periodsForTerm(termMonths int, freq domain.CompoundingFrequency) int {
	var n int
	switch freq {
	case domain.CompoundQuarterly:
		n = (termMonths + 2) / 3
	case domain.CompoundAnnual:
		n = (termMonths + 11) / 12
	default:
		n = termMonths
	}
	if n < 1 {
		n = 1
	}
	return n
}

func periodicRate(annualRate decimal.Decimal, freq domain.CompoundingFrequency) decimal.Decimal {
	periods := freq.PeriodsPerYear()
	if periods == 0 {
		periods = 12
	}
	return annualRate.Div(decimal.NewFromInt(int64(periods)))
}

// buildInstallments produces n reducing-balance installments starting at
// startNumber. The final installment absorbs residual cents so the principal
// components sum exactly to the opening balance.
func buildInstallments(loanID uuid.UUID, balance, rate decimal.Decimal, n int, firstDue time.Time, startNumber int, freq domain.CompoundingFrequency) []*domain.LoanSchedule {
	payment := utils.AmortizedPayment(balance, rate, n)

	rows := make([]*domain.LoanSchedule, 0, n)
	remaining := balance
	due := firstDue

	for i := 0; i < n; i++ {
		interest := remaining.Mul(rate).Round(2)
		principal := payment.Sub(interest)

		// Final installment clears whatever is left, absorbing the
		// rounding drift of all earlier rows.
		if i == n-1 {
			principal = remaining
		}

		rows = append(rows, &domain.LoanSchedule{
			ID:        uuid.New(),
			LoanID:    loanID,
			Number:    startNumber + i,
			DueDate:   due,
			Total:     principal.Add(interest),
			Principal: principal,
			Interest:  interest,
			Status:    domain.InstallmentPending,
			CreatedAt: time.Now(),
		})

		remaining = remaining.Sub(principal)
		due = freq.AdvanceOnePeriod(due)
	}

	return rows
}

// GenerateSchedule produces and persists the full repayment schedule for a
// new loan. The first installment falls one period after the start date.
func (s *AmortizationService) GenerateSchedule(ctx context.Context, loanID uuid.UUID, principal, annualRate decimal.Decimal, termMonths int, startDate time.Time, freq domain.CompoundingFrequency) ([]*domain.LoanSchedule, error) {
	if termMonths <= 0 {
		return nil, customError.WrapInvalidTerm(termMonths)
	}

	n := periodsForTerm(termMonths, freq)
	rate := periodicRate(annualRate, freq)
	firstDue := freq.AdvanceOnePeriod(utils.DateOnly(startDate))

	rows := buildInstallments(loanID, principal, rate, n, firstDue, 1, freq)

	if err := s.scheduleRepo.CreateInstallments(ctx, rows); err != nil {
		return nil, customError.WrapPersistenceFailure(err)
	}

	return rows, nil
}

// CreateLoan creates the loan, generates its schedule and posts the
// disbursement, plus fee and down-payment entries when present.
func (s *AmortizationService) CreateLoan(ctx context.Context, req *domain.CreateLoanRequest) (*domain.Loan, []*domain.LoanSchedule, error) {
	freq := domain.CompoundMonthly
	if req.Frequency != "" {
		parsed, err := domain.ParseFrequency(req.Frequency)
		if err != nil {
			return nil, nil, customError.WrapInvalidFrequency(req.Frequency)
		}
		freq = parsed
	}

	now := time.Now()
	loan := &domain.Loan{
		ID:         uuid.New(),
		UserID:     req.UserID,
		Principal:  req.Principal,
		AnnualRate: req.AnnualRate,
		TermMonths: req.TermMonths,
		Frequency:  freq,
		StartDate:  utils.DateOnly(now),
		Status:     domain.LoanStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, nil, customError.WrapPersistenceFailure(err)
	}

	schedule, err := s.GenerateSchedule(ctx, loan.ID, loan.Principal, loan.AnnualRate, loan.TermMonths, loan.StartDate, freq)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.ledger.PostEntry(ctx, domain.EntryDisbursement, loan.UserID, &loan.ID, loan.StartDate, DisbursementLines(loan.Principal), "", "Loan disbursement"); err != nil {
		return nil, nil, err
	}

	if req.ProcessingFee.IsPositive() {
		if _, err := s.ledger.PostEntry(ctx, domain.EntryFee, loan.UserID, &loan.ID, loan.StartDate, FeeLines(req.ProcessingFee), "", "Loan processing fee"); err != nil {
			return nil, nil, err
		}
	}

	if req.DownPayment.IsPositive() {
		if _, err := s.ledger.PostEntry(ctx, domain.EntryDownPayment, loan.UserID, &loan.ID, loan.StartDate, DownPaymentLines(req.DownPayment), "", "Loan down payment"); err != nil {
			return nil, nil, err
		}
	}

	return loan, schedule, nil
}

// GetSchedule returns a loan's schedule ordered by installment number.
func (s *AmortizationService) GetSchedule(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanSchedule, error) {
	rows, err := s.scheduleRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapPersistenceFailure(err)
	}
	return rows, nil
}

// Outstanding sums the totals of all not-yet-paid installments.
func (s *AmortizationService) Outstanding(ctx context.Context, loanID uuid.UUID) (decimal.Decimal, error) {
	rows, err := s.scheduleRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return decimal.Zero, customError.WrapPersistenceFailure(err)
	}

	outstanding := decimal.Zero
	for _, row := range rows {
		if row.Status != domain.InstallmentPaid {
			outstanding = outstanding.Add(row.Total)
		}
	}
	return outstanding, nil
}

// ExtendTerm appends installments amortizing the balance left after the
// current last installment, keeping the numbering and due-date cadence.
func (s *AmortizationService) ExtendTerm(ctx context.Context, loanID uuid.UUID, extraMonths int) ([]*domain.LoanSchedule, error) {
	if extraMonths <= 0 {
		return nil, customError.WrapInvalidTerm(extraMonths)
	}

	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	rows, err := s.scheduleRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapPersistenceFailure(err)
	}

	remaining := loan.Principal
	lastNumber := 0
	lastDue := loan.StartDate
	for _, row := range rows {
		remaining = remaining.Sub(row.Principal)
		if row.Number > lastNumber {
			lastNumber = row.Number
			lastDue = row.DueDate
		}
	}

	n := periodsForTerm(extraMonths, loan.Frequency)
	rate := periodicRate(loan.AnnualRate, loan.Frequency)
	firstDue := loan.Frequency.AdvanceOnePeriod(lastDue)

	appended := buildInstallments(loanID, remaining, rate, n, firstDue, lastNumber+1, loan.Frequency)

	if err := s.scheduleRepo.CreateInstallments(ctx, appended); err != nil {
		return nil, customError.WrapPersistenceFailure(err)
	}

	return appended, nil
}

// AddInstallment inserts one installment at the given position, shifting
// later numbers up to keep them contiguous.
func (s *AmortizationService) AddInstallment(ctx context.Context, loanID uuid.UUID, number int, principal, interest decimal.Decimal, dueDate time.Time) (*domain.LoanSchedule, error) {
	if number <= 0 {
		return nil, customError.WrapInstallmentNotFound(loanID.String(), number)
	}

	existing, err := s.scheduleRepo.GetByLoanAndNumber(ctx, loanID, number)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapPersistenceFailure(err)
	}
	if existing != nil && existing.Status == domain.InstallmentPaid {
		return nil, customError.WrapImmutableInstallment(number)
	}

	row := &domain.LoanSchedule{
		ID:        uuid.New(),
		LoanID:    loanID,
		Number:    number,
		DueDate:   utils.DateOnly(dueDate),
		Total:     principal.Add(interest),
		Principal: principal,
		Interest:  interest,
		Status:    domain.InstallmentPending,
		CreatedAt: time.Now(),
	}

	if err := s.scheduleRepo.InsertWithRenumber(ctx, row); err != nil {
		return nil, customError.WrapPersistenceFailure(err)
	}

	return row, nil
}

// DeleteInstallment removes a non-PAID installment and renumbers the tail.
func (s *AmortizationService) DeleteInstallment(ctx context.Context, loanID uuid.UUID, number int) error {
	row, err := s.scheduleRepo.GetByLoanAndNumber(ctx, loanID, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapInstallmentNotFound(loanID.String(), number)
		}
		return customError.WrapPersistenceFailure(err)
	}

	if row.Status == domain.InstallmentPaid {
		return customError.WrapImmutableInstallment(number)
	}

	if err := s.scheduleRepo.DeleteWithRenumber(ctx, loanID, number); err != nil {
		return customError.WrapPersistenceFailure(err)
	}
	return nil
}

// Regenerate discards all non-PAID installments and recomputes the schedule
// from the balance remaining after the paid ones. PAID rows are immutable
// and stay exactly as they are.
func (s *AmortizationService) Regenerate(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanSchedule, error) {
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	rows, err := s.scheduleRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapPersistenceFailure(err)
	}

	remaining := loan.Principal
	paidCount := 0
	lastPaidDue := loan.StartDate
	for _, row := range rows {
		if row.Status == domain.InstallmentPaid {
			remaining = remaining.Sub(row.Principal)
			paidCount++
			lastPaidDue = row.DueDate
		}
	}

	n := len(rows) - paidCount
	if n <= 0 {
		return nil, nil
	}

	rate := periodicRate(loan.AnnualRate, loan.Frequency)
	firstDue := loan.Frequency.AdvanceOnePeriod(lastPaidDue)

	fresh := buildInstallments(loanID, remaining, rate, n, firstDue, paidCount+1, loan.Frequency)

	if err := s.scheduleRepo.ReplaceUnpaid(ctx, loanID, fresh); err != nil {
		return nil, customError.WrapPersistenceFailure(err)
	}

	return fresh, nil
}

// MarkPaid transitions an installment to PAID and records the payment
// posting with the installment's principal/interest split, atomically with
// the status change. A PAID installment cannot be paid again.
func (s *AmortizationService) MarkPaid(ctx context.Context, loanID uuid.UUID, number int, paymentDate time.Time) (*domain.LoanSchedule, error) {
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	row, err := s.scheduleRepo.GetByLoanAndNumber(ctx, loanID, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapInstallmentNotFound(loanID.String(), number)
		}
		return nil, customError.WrapPersistenceFailure(err)
	}

	if row.Status == domain.InstallmentPaid {
		return nil, customError.WrapImmutableInstallment(number)
	}

	entry, err := s.ledger.BuildEntry(
		domain.EntryPayment,
		loan.UserID,
		&loanID,
		utils.DateOnly(paymentDate),
		PaymentLines(row.Principal, row.Interest),
		"",
		"Installment payment",
	)
	if err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.MarkPaid(ctx, loanID, number, entry); err != nil {
		return nil, customError.WrapPersistenceFailure(err)
	}
	row.Status = domain.InstallmentPaid

	// Close the loan once nothing is left unpaid.
	rows, err := s.scheduleRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return row, nil
	}
	for _, r := range rows {
		if r.Status != domain.InstallmentPaid {
			return row, nil
		}
	}
	if err := s.loanRepo.UpdateStatus(ctx, loanID, domain.LoanStatusClosed); err != nil {
		return row, customError.WrapPersistenceFailure(err)
	}

	return row, nil
}

func (s *AmortizationService) getLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapPersistenceFailure(err)
	}
	return loan, nil
}
