package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/elie009/utlityhub360-sub002/internal/domain"
)

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, name, account_type, balance, interest_rate, compounding_frequency, last_interest_date, next_interest_date, is_active, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.UserID,
		account.Name,
		account.AccountType,
		account.Balance,
		account.InterestRate,
		account.Frequency,
		account.LastInterestDate,
		account.NextInterestDate,
		account.IsActive,
		account.IsDeleted,
		account.CreatedAt,
		account.UpdatedAt,
	)

	return err
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, user_id, name, account_type, balance, interest_rate, compounding_frequency, last_interest_date, next_interest_date, is_active, is_deleted, created_at, updated_at
		FROM accounts
		WHERE id = $1 AND is_deleted = false
	`

	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, err
	}

	return &account, nil
}

func (r *accountRepository) GetDueForAccrual(ctx context.Context, asOf time.Time) ([]*domain.Account, error) {
	query := `
		SELECT id, user_id, name, account_type, balance, interest_rate, compounding_frequency, last_interest_date, next_interest_date, is_active, is_deleted, created_at, updated_at
		FROM accounts
		WHERE is_active = true
		  AND is_deleted = false
		  AND interest_rate IS NOT NULL
		  AND interest_rate > 0
		  AND (next_interest_date IS NULL OR next_interest_date <= $1)
		ORDER BY created_at
	`

	var accounts []*domain.Account
	if err := r.db.SelectContext(ctx, &accounts, query, asOf); err != nil {
		return nil, err
	}

	return accounts, nil
}

func (r *accountRepository) TouchAccrualDates(ctx context.Context, id uuid.UUID, last, next time.Time) error {
	query := `
		UPDATE accounts
		SET last_interest_date = $2, next_interest_date = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, last, next, time.Now())
	return err
}

// ApplyMovement is the write path behind every balance change: the account
// row, the movement record and the ledger posting commit together or not
// at all.
func (r *accountRepository) ApplyMovement(ctx context.Context, account *domain.Account, movement *domain.SavingsTransaction, entry *domain.JournalEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	accountQuery := `
		UPDATE accounts
		SET balance = $2, last_interest_date = $3, next_interest_date = $4, updated_at = $5
		WHERE id = $1
	`

	_, err = tx.ExecContext(ctx, accountQuery,
		account.ID,
		account.Balance,
		account.LastInterestDate,
		account.NextInterestDate,
		time.Now(),
	)
	if err != nil {
		return err
	}

	movementQuery := `
		INSERT INTO savings_transactions (id, account_id, type, amount, balance_after, date, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.ExecContext(ctx, movementQuery,
		movement.ID,
		movement.AccountID,
		movement.Type,
		movement.Amount,
		movement.BalanceAfter,
		movement.Date,
		movement.Description,
	)
	if err != nil {
		return err
	}

	if err = insertEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *accountRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE accounts
		SET is_deleted = true, is_active = false, updated_at = $2
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, time.Now())
	return err
}
