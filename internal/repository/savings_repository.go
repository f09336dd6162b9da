package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/elie009/utlityhub360-sub002/internal/domain"
)

type savingsTransactionRepository struct {
	db *sqlx.DB
}

func NewSavingsTransactionRepository(db *sqlx.DB) SavingsTransactionRepository {
	return &savingsTransactionRepository{db: db}
}

func (r *savingsTransactionRepository) Create(ctx context.Context, tx *domain.SavingsTransaction) error {
	query := `
		INSERT INTO savings_transactions (id, account_id, type, amount, balance_after, date, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.AccountID,
		tx.Type,
		tx.Amount,
		tx.BalanceAfter,
		tx.Date,
		tx.Description,
	)

	return err
}

func (r *savingsTransactionRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.SavingsTransaction, error) {
	query := `
		SELECT id, account_id, type, amount, balance_after, date, description
		FROM savings_transactions
		WHERE account_id = $1
		ORDER BY date DESC
	`

	var txs []*domain.SavingsTransaction
	if err := r.db.SelectContext(ctx, &txs, query, accountID); err != nil {
		return nil, err
	}

	return txs, nil
}
