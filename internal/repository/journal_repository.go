package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/elie009/utlityhub360-sub002/internal/domain"
)

type journalRepository struct {
	db *sqlx.DB
}

func NewJournalRepository(db *sqlx.DB) JournalRepository {
	return &journalRepository{db: db}
}

// insertEntryTx writes an entry and its lines inside an existing transaction.
// Shared with the account and schedule repositories so postings stay atomic
// with the balance or status mutation they record.
func insertEntryTx(ctx context.Context, tx *sqlx.Tx, entry *domain.JournalEntry) error {
	entryQuery := `
		INSERT INTO journal_entries (id, user_id, loan_ref, entry_type, entry_date, description, reference, total_debit, total_credit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.ExecContext(ctx, entryQuery,
		entry.ID,
		entry.UserID,
		entry.LoanRef,
		entry.EntryType,
		entry.EntryDate,
		entry.Description,
		entry.Reference,
		entry.TotalDebit,
		entry.TotalCredit,
		entry.CreatedAt,
	)
	if err != nil {
		return err
	}

	lineQuery := `
		INSERT INTO journal_entry_lines (id, entry_id, account_name, account_class, side, amount, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, line := range entry.Lines {
		_, err = tx.ExecContext(ctx, lineQuery,
			line.ID,
			line.EntryID,
			line.AccountName,
			line.Class,
			line.Side,
			line.Amount,
			line.Description,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *journalRepository) CreateEntry(ctx context.Context, entry *domain.JournalEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err = insertEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *journalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error) {
	query := `
		SELECT id, user_id, loan_ref, entry_type, entry_date, description, reference, total_debit, total_credit, created_at
		FROM journal_entries
		WHERE id = $1
	`

	var entry domain.JournalEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}

	lineQuery := `
		SELECT id, entry_id, account_name, account_class, side, amount, description
		FROM journal_entry_lines
		WHERE entry_id = $1
	`

	if err := r.db.SelectContext(ctx, &entry.Lines, lineQuery, id); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *journalRepository) GetByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.JournalEntry, error) {
	query := `
		SELECT id, user_id, loan_ref, entry_type, entry_date, description, reference, total_debit, total_credit, created_at
		FROM journal_entries
		WHERE loan_ref = $1
		ORDER BY entry_date, created_at
	`

	var entries []*domain.JournalEntry
	if err := r.db.SelectContext(ctx, &entries, query, loanID); err != nil {
		return nil, err
	}

	return entries, nil
}
