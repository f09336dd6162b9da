package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/elie009/utlityhub360-sub002/internal/domain"
	"github.com/elie009/utlityhub360-sub002/internal/notification"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetDueForAccrual(ctx context.Context, asOf time.Time) ([]*domain.Account, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) TouchAccrualDates(ctx context.Context, id uuid.UUID, last, next time.Time) error {
	args := m.Called(ctx, id, last, next)
	return args.Error(0)
}

func (m *MockAccountRepository) ApplyMovement(ctx context.Context, account *domain.Account, movement *domain.SavingsTransaction, entry *domain.JournalEntry) error {
	args := m.Called(ctx, account, movement, entry)
	return args.Error(0)
}

func (m *MockAccountRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) CreateEntry(ctx context.Context, entry *domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) GetByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.JournalEntry, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.JournalEntry), args.Error(1)
}

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) CreateInstallments(ctx context.Context, rows []*domain.LoanSchedule) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockScheduleRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanSchedule, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanSchedule), args.Error(1)
}

func (m *MockScheduleRepository) GetByLoanAndNumber(ctx context.Context, loanID uuid.UUID, number int) (*domain.LoanSchedule, error) {
	args := m.Called(ctx, loanID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanSchedule), args.Error(1)
}

func (m *MockScheduleRepository) UpdateStatus(ctx context.Context, loanID uuid.UUID, number int, status domain.InstallmentStatus) error {
	args := m.Called(ctx, loanID, number, status)
	return args.Error(0)
}

func (m *MockScheduleRepository) MarkPaid(ctx context.Context, loanID uuid.UUID, number int, entry *domain.JournalEntry) error {
	args := m.Called(ctx, loanID, number, entry)
	return args.Error(0)
}

func (m *MockScheduleRepository) ReplaceUnpaid(ctx context.Context, loanID uuid.UUID, rows []*domain.LoanSchedule) error {
	args := m.Called(ctx, loanID, rows)
	return args.Error(0)
}

func (m *MockScheduleRepository) InsertWithRenumber(ctx context.Context, row *domain.LoanSchedule) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockScheduleRepository) DeleteWithRenumber(ctx context.Context, loanID uuid.UUID, number int) error {
	args := m.Called(ctx, loanID, number)
	return args.Error(0)
}

func (m *MockScheduleRepository) GetPendingDueBefore(ctx context.Context, cutoff time.Time) ([]*domain.LoanSchedule, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanSchedule), args.Error(1)
}

func (m *MockScheduleRepository) GetPendingDueBetween(ctx context.Context, from, to time.Time) ([]*domain.LoanSchedule, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanSchedule), args.Error(1)
}

type MockSavingsTransactionRepository struct {
	mock.Mock
}

func (m *MockSavingsTransactionRepository) Create(ctx context.Context, tx *domain.SavingsTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockSavingsTransactionRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.SavingsTransaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SavingsTransaction), args.Error(1)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, n notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
