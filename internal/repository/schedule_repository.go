package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/elie009/utlityhub360-sub002/internal/domain"
)

type scheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

const insertInstallmentQuery = `
	INSERT INTO loan_schedule (id, loan_id, installment_number, due_date, total_amount, principal, interest, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func insertInstallmentTx(ctx context.Context, tx *sqlx.Tx, row *domain.LoanSchedule) error {
	_, err := tx.ExecContext(ctx, insertInstallmentQuery,
		row.ID,
		row.LoanID,
		row.Number,
		row.DueDate,
		row.Total,
		row.Principal,
		row.Interest,
		row.Status,
		row.CreatedAt,
	)
	return err
}

func (r *scheduleRepository) CreateInstallments(ctx context.Context, rows []*domain.LoanSchedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, row := range rows {
		if err = insertInstallmentTx(ctx, tx, row); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *scheduleRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanSchedule, error) {
	query := `
		SELECT id, loan_id, installment_number, due_date, total_amount, principal, interest, status, created_at
		FROM loan_schedule
		WHERE loan_id = $1
		ORDER BY installment_number
	`

	var rows []*domain.LoanSchedule
	if err := r.db.SelectContext(ctx, &rows, query, loanID); err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *scheduleRepository) GetByLoanAndNumber(ctx context.Context, loanID uuid.UUID, number int) (*domain.LoanSchedule, error) {
	query := `
		SELECT id, loan_id, installment_number, due_date, total_amount, principal, interest, status, created_at
		FROM loan_schedule
		WHERE loan_id = $1 AND installment_number = $2
	`

	var row domain.LoanSchedule
	if err := r.db.GetContext(ctx, &row, query, loanID, number); err != nil {
		return nil, err
	}

	return &row, nil
}

func (r *scheduleRepository) UpdateStatus(ctx context.Context, loanID uuid.UUID, number int, status domain.InstallmentStatus) error {
	query := `
		UPDATE loan_schedule
		SET status = $3
		WHERE loan_id = $1 AND installment_number = $2
	`

	_, err := r.db.ExecContext(ctx, query, loanID, number, status)
	return err
}

// MarkPaid commits the status transition and the payment posting together.
func (r *scheduleRepository) MarkPaid(ctx context.Context, loanID uuid.UUID, number int, entry *domain.JournalEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE loan_schedule
		SET status = $3
		WHERE loan_id = $1 AND installment_number = $2 AND status <> $3
	`

	_, err = tx.ExecContext(ctx, query, loanID, number, domain.InstallmentPaid)
	if err != nil {
		return err
	}

	if err = insertEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *scheduleRepository) ReplaceUnpaid(ctx context.Context, loanID uuid.UUID, rows []*domain.LoanSchedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	deleteQuery := `
		DELETE FROM loan_schedule
		WHERE loan_id = $1 AND status <> $2
	`

	if _, err = tx.ExecContext(ctx, deleteQuery, loanID, domain.InstallmentPaid); err != nil {
		return err
	}

	for _, row := range rows {
		if err = insertInstallmentTx(ctx, tx, row); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *scheduleRepository) InsertWithRenumber(ctx context.Context, row *domain.LoanSchedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Shift the tail from the highest number down so the unique
	// (loan_id, installment_number) constraint never collides mid-update.
	shiftQuery := `
		UPDATE loan_schedule
		SET installment_number = installment_number + 1
		WHERE id IN (
			SELECT id FROM loan_schedule
			WHERE loan_id = $1 AND installment_number >= $2
			ORDER BY installment_number DESC
		)
	`

	if _, err = tx.ExecContext(ctx, shiftQuery, row.LoanID, row.Number); err != nil {
		return err
	}

	if err = insertInstallmentTx(ctx, tx, row); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *scheduleRepository) DeleteWithRenumber(ctx context.Context, loanID uuid.UUID, number int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	deleteQuery := `
		DELETE FROM loan_schedule
		WHERE loan_id = $1 AND installment_number = $2
	`

	if _, err = tx.ExecContext(ctx, deleteQuery, loanID, number); err != nil {
		return err
	}

	shiftQuery := `
		UPDATE loan_schedule
		SET installment_number = installment_number - 1
		WHERE loan_id = $1 AND installment_number > $2
	`

	if _, err = tx.ExecContext(ctx, shiftQuery, loanID, number); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *scheduleRepository) GetPendingDueBefore(ctx context.Context, cutoff time.Time) ([]*domain.LoanSchedule, error) {
	query := `
		SELECT id, loan_id, installment_number, due_date, total_amount, principal, interest, status, created_at
		FROM loan_schedule
		WHERE status = $1 AND due_date < $2
		ORDER BY loan_id, installment_number
	`

	var rows []*domain.LoanSchedule
	if err := r.db.SelectContext(ctx, &rows, query, domain.InstallmentPending, cutoff); err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *scheduleRepository) GetPendingDueBetween(ctx context.Context, from, to time.Time) ([]*domain.LoanSchedule, error) {
	query := `
		SELECT id, loan_id, installment_number, due_date, total_amount, principal, interest, status, created_at
		FROM loan_schedule
		WHERE status = $1 AND due_date >= $2 AND due_date <= $3
		ORDER BY loan_id, installment_number
	`

	var rows []*domain.LoanSchedule
	if err := r.db.SelectContext(ctx, &rows, query, domain.InstallmentPending, from, to); err != nil {
		return nil, err
	}

	return rows, nil
}
