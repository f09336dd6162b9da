package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/elie009/utlityhub360-sub002/internal/domain"
)

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	// Create creates a new account
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetDueForAccrual retrieves active, non-deleted accounts with a positive
	// rate whose next interest date is null or not after asOf
	GetDueForAccrual(ctx context.Context, asOf time.Time) ([]*domain.Account, error)

	// TouchAccrualDates advances the interest bookkeeping dates without
	// touching the balance
	TouchAccrualDates(ctx context.Context, id uuid.UUID, last, next time.Time) error

	// ApplyMovement persists a balance mutation, its savings transaction and
	// its journal entry as one atomic unit
	ApplyMovement(ctx context.Context, account *domain.Account, movement *domain.SavingsTransaction, entry *domain.JournalEntry) error

	// SoftDelete flags an account as deleted
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// JournalRepository defines the interface for ledger data operations
type JournalRepository interface {
	// CreateEntry inserts a journal entry and all of its lines atomically
	CreateEntry(ctx context.Context, entry *domain.JournalEntry) error

	// GetByID retrieves an entry with its lines
	GetByID(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error)

	// GetByLoan retrieves all entries referencing a loan
	GetByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.JournalEntry, error)
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// UpdateStatus updates a loan's status
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// ScheduleRepository defines the interface for repayment schedule operations
type ScheduleRepository interface {
	// CreateInstallments inserts schedule rows in one transaction
	CreateInstallments(ctx context.Context, rows []*domain.LoanSchedule) error

	// GetByLoanID retrieves a loan's schedule ordered by installment number
	GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanSchedule, error)

	// GetByLoanAndNumber retrieves one installment
	GetByLoanAndNumber(ctx context.Context, loanID uuid.UUID, number int) (*domain.LoanSchedule, error)

	// UpdateStatus updates the status of one installment
	UpdateStatus(ctx context.Context, loanID uuid.UUID, number int, status domain.InstallmentStatus) error

	// MarkPaid sets an installment PAID and records its payment posting
	// in the same transaction
	MarkPaid(ctx context.Context, loanID uuid.UUID, number int, entry *domain.JournalEntry) error

	// ReplaceUnpaid deletes all non-PAID rows for a loan and inserts the
	// replacement rows in one transaction
	ReplaceUnpaid(ctx context.Context, loanID uuid.UUID, rows []*domain.LoanSchedule) error

	// InsertWithRenumber shifts installment numbers at and after the new
	// row's position up by one, then inserts the row, in one transaction
	InsertWithRenumber(ctx context.Context, row *domain.LoanSchedule) error

	// DeleteWithRenumber removes one installment and closes the numbering gap
	DeleteWithRenumber(ctx context.Context, loanID uuid.UUID, number int) error

	// GetPendingDueBefore retrieves PENDING rows, across loans, due strictly
	// before the cutoff date
	GetPendingDueBefore(ctx context.Context, cutoff time.Time) ([]*domain.LoanSchedule, error)

	// GetPendingDueBetween retrieves PENDING rows due in [from, to]
	GetPendingDueBetween(ctx context.Context, from, to time.Time) ([]*domain.LoanSchedule, error)
}

// SavingsTransactionRepository defines the interface for movement records
type SavingsTransactionRepository interface {
	// Create inserts a movement record
	Create(ctx context.Context, tx *domain.SavingsTransaction) error

	// GetByAccountID retrieves an account's movements, newest first
	GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.SavingsTransaction, error)
}
