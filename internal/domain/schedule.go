package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentStatus is the lifecycle state of a schedule row.
// PENDING may move to PAID or OVERDUE; PAID is terminal.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "PENDING"
	InstallmentPaid    InstallmentStatus = "PAID"
	InstallmentOverdue InstallmentStatus = "OVERDUE"
)

// LoanSchedule is one installment of a loan's repayment schedule.
// Installment numbers are 1-based, contiguous and unique per loan.
type LoanSchedule struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	LoanID    uuid.UUID         `json:"loan_id" db:"loan_id"`
	Number    int               `json:"installment_number" db:"installment_number"`
	DueDate   time.Time         `json:"due_date" db:"due_date"`
	Total     decimal.Decimal   `json:"total_amount" db:"total_amount"`
	Principal decimal.Decimal   `json:"principal" db:"principal"`
	Interest  decimal.Decimal   `json:"interest" db:"interest"`
	Status    InstallmentStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}

const (
	LoanStatusActive = "active"
	LoanStatusClosed = "closed"
)

// Loan is the borrowing side: principal disbursed against a repayment schedule.
type Loan struct {
	ID         uuid.UUID            `json:"id" db:"id"`
	UserID     uuid.UUID            `json:"user_id" db:"user_id"`
	Principal  decimal.Decimal      `json:"principal" db:"principal"`
	AnnualRate decimal.Decimal      `json:"annual_rate" db:"annual_rate"`
	TermMonths int                  `json:"term_months" db:"term_months"`
	Frequency  CompoundingFrequency `json:"payment_frequency" db:"payment_frequency"`
	StartDate  time.Time            `json:"start_date" db:"start_date"`
	Status     string               `json:"status" db:"status"`
	CreatedAt  time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	UserID        uuid.UUID       `json:"user_id" validate:"required"`
	Principal     decimal.Decimal `json:"principal" validate:"required"`
	AnnualRate    decimal.Decimal `json:"annual_rate"`
	TermMonths    int             `json:"term_months" validate:"required,gt=0"`
	Frequency     string          `json:"payment_frequency,omitempty"`
	ProcessingFee decimal.Decimal `json:"processing_fee"`
	DownPayment   decimal.Decimal `json:"down_payment"`
}

type CreateLoanResponse struct {
	Loan     *Loan           `json:"loan"`
	Schedule []*LoanSchedule `json:"schedule"`
}

type ScheduleResponse struct {
	LoanID   uuid.UUID       `json:"loan_id"`
	Schedule []*LoanSchedule `json:"schedule"`
}

type RecordPaymentRequest struct {
	Number      int    `json:"installment_number" validate:"required,gt=0"`
	PaymentDate string `json:"payment_date,omitempty"`
}

type ExtendTermRequest struct {
	ExtraMonths int `json:"extra_months" validate:"required"`
}

type AddInstallmentRequest struct {
	Number    int             `json:"installment_number" validate:"required,gt=0"`
	Principal decimal.Decimal `json:"principal" validate:"required"`
	Interest  decimal.Decimal `json:"interest"`
	DueDate   string          `json:"due_date" validate:"required"`
}
