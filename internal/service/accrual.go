package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elie009/utlityhub360-sub002/internal/domain"
	"github.com/elie009/utlityhub360-sub002/internal/repository"
	customError "github.com/elie009/utlityhub360-sub002/pkg/errors"
	"github.com/elie009/utlityhub360-sub002/pkg/utils"
)

// AccrualService computes compound interest for balance-bearing accounts and
// applies it through balanced ledger postings.
type AccrualService struct {
	accountRepo repository.AccountRepository
	ledger      *LedgerService
	minPostable decimal.Decimal
}

func NewAccrualService(accountRepo repository.AccountRepository, ledger *LedgerService, minPostable decimal.Decimal) *AccrualService {
	return &AccrualService{
		accountRepo: accountRepo,
		ledger:      ledger,
		minPostable: minPostable,
	}
}

// ApplyInterest accrues interest on one account up to asOf.
//
// Zero elapsed whole days is a no-op, not an error: calling twice with the
// same date produces no duplicate posting. Interest below the posting
// threshold advances the bookkeeping dates only, so sub-cent amounts never
// generate ledger noise.
func (s *AccrualService) ApplyInterest(ctx context.Context, account *domain.Account, asOf time.Time) (*domain.AccrualResult, error) {
	if account.InterestRate == nil || !account.InterestRate.IsPositive() {
		return nil, customError.WrapAccountNotEligible(account.ID.String())
	}

	periodStart := account.AccrualBase()
	days := utils.ElapsedDays(periodStart, asOf)

	result := &domain.AccrualResult{
		AccountID:   account.ID,
		Interest:    decimal.Zero,
		PeriodStart: periodStart,
		PeriodEnd:   asOf,
		ElapsedDays: days,
	}

	if days <= 0 {
		return result, nil
	}

	interest, err := utils.CompoundInterest(account.Balance, *account.InterestRate, account.Frequency, days)
	if err != nil {
		return nil, err
	}
	result.Interest = interest

	asOfDate := utils.DateOnly(asOf)
	next := account.Frequency.AdvanceOnePeriod(asOfDate)

	if interest.LessThan(s.minPostable) {
		result.Interest = decimal.Zero
		if err := s.accountRepo.TouchAccrualDates(ctx, account.ID, asOfDate, next); err != nil {
			return nil, customError.WrapPersistenceFailure(err)
		}
		account.LastInterestDate = &asOfDate
		account.NextInterestDate = &next
		return result, nil
	}

	account.Balance = account.Balance.Add(interest)
	account.LastInterestDate = &asOfDate
	account.NextInterestDate = &next

	movement := &domain.SavingsTransaction{
		ID:           uuid.New(),
		AccountID:    account.ID,
		Type:         domain.SavingsInterest,
		Amount:       interest,
		BalanceAfter: account.Balance,
		Date:         asOfDate,
		Description:  fmt.Sprintf("Interest for %d day(s) ending %s", days, asOfDate.Format("2006-01-02")),
	}

	entry, err := s.ledger.BuildEntry(
		domain.EntryInterestIncome,
		account.UserID,
		nil,
		asOfDate,
		InterestIncomeLines(interest),
		"",
		fmt.Sprintf("Savings interest on account %s", account.Name),
	)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.ApplyMovement(ctx, account, movement, entry); err != nil {
		return nil, customError.WrapPersistenceFailure(err)
	}

	result.Posted = true
	return result, nil
}

// ApplyInterestToDueAccounts runs accrual over every account due as of the
// given date. Accounts are processed sequentially; one account's failure is
// recorded and does not abort the rest. The run stops taking new accounts
// once ctx is cancelled, but never fails the batch for it.
func (s *AccrualService) ApplyInterestToDueAccounts(ctx context.Context, asOf time.Time) (*domain.BatchAccrualResult, error) {
	accounts, err := s.accountRepo.GetDueForAccrual(ctx, asOf)
	if err != nil {
		return nil, customError.WrapPersistenceFailure(err)
	}

	batch := &domain.BatchAccrualResult{
		RunDate:       asOf,
		TotalInterest: decimal.Zero,
	}

	for _, account := range accounts {
		if ctx.Err() != nil {
			break
		}

		result, err := s.ApplyInterest(ctx, account, asOf)
		if err != nil {
			batch.Errors = append(batch.Errors, domain.AccrualError{
				AccountID: account.ID,
				Err:       err.Error(),
			})
			continue
		}

		batch.Processed++
		batch.TotalInterest = batch.TotalInterest.Add(result.Interest)
	}

	return batch, nil
}
