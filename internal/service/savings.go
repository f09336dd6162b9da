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

// SavingsService covers the thin account flows around the accrual engine:
// opening accounts and moving money in and out, always through postings.
type SavingsService struct {
	accountRepo repository.AccountRepository
	savingsRepo repository.SavingsTransactionRepository
	ledger      *LedgerService
}

func NewSavingsService(accountRepo repository.AccountRepository, savingsRepo repository.SavingsTransactionRepository, ledger *LedgerService) *SavingsService {
	return &SavingsService{
		accountRepo: accountRepo,
		savingsRepo: savingsRepo,
		ledger:      ledger,
	}
}

// CreateAccount opens an account. An unknown compounding frequency is
// rejected here rather than silently defaulted later.
func (s *SavingsService) CreateAccount(ctx context.Context, req *domain.CreateAccountRequest) (*domain.Account, error) {
	freq := domain.CompoundMonthly
	if req.Frequency != "" {
		parsed, err := domain.ParseFrequency(req.Frequency)
		if err != nil {
			return nil, customError.WrapInvalidFrequency(req.Frequency)
		}
		freq = parsed
	}

	var rate *decimal.Decimal
	if req.InterestRate != nil {
		parsed, err := decimal.NewFromString(*req.InterestRate)
		if err != nil || parsed.IsNegative() {
			return nil, customError.WrapAccountNotEligible(req.Name)
		}
		rate = &parsed
	}

	now := time.Now()
	account := &domain.Account{
		ID:           uuid.New(),
		UserID:       req.UserID,
		Name:         req.Name,
		AccountType:  req.AccountType,
		Balance:      req.Balance,
		InterestRate: rate,
		Frequency:    freq,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, customError.WrapPersistenceFailure(err)
	}

	return account, nil
}

// GetAccount fetches one account.
func (s *SavingsService) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapAccountNotFound(id.String())
		}
		return nil, customError.WrapPersistenceFailure(err)
	}
	return account, nil
}

// GetMovements lists an account's movement history, newest first.
func (s *SavingsService) GetMovements(ctx context.Context, id uuid.UUID) ([]*domain.SavingsTransaction, error) {
	txs, err := s.savingsRepo.GetByAccountID(ctx, id)
	if err != nil {
		return nil, customError.WrapPersistenceFailure(err)
	}
	return txs, nil
}

// DeleteAccount soft-deletes an account, keeping its ledger history.
func (s *SavingsService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := s.accountRepo.SoftDelete(ctx, id); err != nil {
		return customError.WrapPersistenceFailure(err)
	}
	return nil
}

// Deposit adds funds: balance, movement record and posting commit together.
func (s *SavingsService) Deposit(ctx context.Context, id uuid.UUID, amount decimal.Decimal, description string) (*domain.Account, error) {
	return s.move(ctx, id, amount, domain.SavingsDeposit, description)
}

// Withdraw removes funds; overdrawing is rejected.
func (s *SavingsService) Withdraw(ctx context.Context, id uuid.UUID, amount decimal.Decimal, description string) (*domain.Account, error) {
	return s.move(ctx, id, amount.Neg(), domain.SavingsWithdrawal, description)
}

func (s *SavingsService) move(ctx context.Context, id uuid.UUID, delta decimal.Decimal, kind domain.SavingsTransactionType, description string) (*domain.Account, error) {
	if delta.IsZero() {
		return nil, customError.WrapInsufficientBalance(id.String())
	}

	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	newBalance := account.Balance.Add(delta)
	if newBalance.IsNegative() {
		return nil, customError.WrapInsufficientBalance(id.String())
	}
	account.Balance = newBalance

	amount := delta.Abs()
	today := utils.DateOnly(time.Now())

	movement := &domain.SavingsTransaction{
		ID:           uuid.New(),
		AccountID:    account.ID,
		Type:         kind,
		Amount:       amount,
		BalanceAfter: newBalance,
		Date:         today,
		Description:  description,
	}

	lines := DepositLines(amount)
	entryType := domain.EntryDeposit
	if kind == domain.SavingsWithdrawal {
		lines = WithdrawalLines(amount)
		entryType = domain.EntryWithdrawal
	}

	entry, err := s.ledger.BuildEntry(entryType, account.UserID, nil, today, lines, "", description)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.ApplyMovement(ctx, account, movement, entry); err != nil {
		return nil, customError.WrapPersistenceFailure(err)
	}

	return account, nil
}
