package journals

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/odyssey-erp/odyssey-assets/internal/accounting/shared"
	"github.com/odyssey-erp/odyssey-assets/internal/platform/db"
)

// Repository encapsulates DB operations for journal entries.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]JournalEntry, error)
	Count(ctx context.Context) (int, error)
	GetEntryWithLines(ctx context.Context, entryID int64) (JournalEntry, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes ledger writes available within a transaction. Other
// modules posting as part of their own unit of work obtain one from
// NewTxRepository over their open pgx.Tx.
type TxRepository interface {
	InsertEntry(ctx context.Context, in PostingInput) (JournalEntry, error)
	InsertLines(ctx context.Context, entryID int64, lines []PostingLineInput) error
	LinkSource(ctx context.Context, module string, ref uuid.UUID, entryID int64) error
	GetEntryWithLines(ctx context.Context, entryID int64) (JournalEntry, error)
	MarkCancelled(ctx context.Context, entryID int64) error
}

var _ Repository = (*repository)(nil)
var _ TxRepository = (*txRepository)(nil)

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a pgx-backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]JournalEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT id, number, voucher_type, posting_date, company_id, remark, source_module, source_id, status, posted_at, cancelled_at, created_at, updated_at
FROM journal_entries ORDER BY number DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.ID, &e.Number, &e.VoucherType, &e.PostingDate, &e.CompanyID, &e.Remark, &e.SourceModule, &e.SourceID, &e.Status, &e.PostedAt, &e.CancelledAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM journal_entries`).Scan(&total)
	return total, err
}

func (r *repository) GetEntryWithLines(ctx context.Context, entryID int64) (JournalEntry, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return JournalEntry{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	entry, err := (&txRepository{tx: tx}).GetEntryWithLines(ctx, entryID)
	if err != nil {
		return JournalEntry{}, err
	}
	return entry, tx.Commit(ctx)
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

// NewTxRepository wraps an open transaction with ledger write operations.
func NewTxRepository(tx pgx.Tx) TxRepository {
	return &txRepository{tx: tx}
}

func (r *txRepository) InsertEntry(ctx context.Context, in PostingInput) (JournalEntry, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO journal_entries (voucher_type, posting_date, company_id, remark, source_module, source_id, status)
VALUES ($1,$2,$3,$4,$5,$6,'POSTED') RETURNING id, number, posted_at, created_at, updated_at`,
		in.VoucherType, in.PostingDate, in.CompanyID, in.Remark, in.SourceModule, in.SourceID)
	entry := JournalEntry{
		VoucherType:  in.VoucherType,
		PostingDate:  in.PostingDate,
		CompanyID:    in.CompanyID,
		Remark:       in.Remark,
		SourceModule: in.SourceModule,
		SourceID:     in.SourceID,
		Status:       EntryStatusPosted,
	}
	if err := row.Scan(&entry.ID, &entry.Number, &entry.PostedAt, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

func (r *txRepository) InsertLines(ctx context.Context, entryID int64, lines []PostingLineInput) error {
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO journal_lines (je_id, account_id, debit, credit, cost_center_id, reference_type, reference_id)
VALUES ($1,$2,$3,$4,$5,$6,$7)`, entryID, line.AccountID, line.Debit, line.Credit, line.CostCenterID, nullStr(line.ReferenceType), line.ReferenceID); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) LinkSource(ctx context.Context, module string, ref uuid.UUID, entryID int64) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO source_links (module, ref_id, je_id) VALUES ($1,$2,$3)`, module, ref, entryID)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.ConstraintName == "uq_source_links" {
			return shared.ErrSourceConflict
		}
		return err
	}
	return nil
}

func (r *txRepository) GetEntryWithLines(ctx context.Context, entryID int64) (JournalEntry, error) {
	var entry JournalEntry
	err := r.tx.QueryRow(ctx, `SELECT id, number, voucher_type, posting_date, company_id, remark, source_module, source_id, status, posted_at, cancelled_at, created_at, updated_at
FROM journal_entries WHERE id=$1`, entryID).
		Scan(&entry.ID, &entry.Number, &entry.VoucherType, &entry.PostingDate, &entry.CompanyID, &entry.Remark, &entry.SourceModule, &entry.SourceID, &entry.Status, &entry.PostedAt, &entry.CancelledAt, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, shared.ErrJournalNotFound
		}
		return JournalEntry{}, err
	}
	rows, err := r.tx.Query(ctx, `SELECT id, je_id, account_id, debit, credit, cost_center_id, COALESCE(reference_type,''), reference_id, created_at
FROM journal_lines WHERE je_id=$1 ORDER BY id ASC`, entryID)
	if err != nil {
		return JournalEntry{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var line JournalLine
		if err := rows.Scan(&line.ID, &line.EntryID, &line.AccountID, &line.Debit, &line.Credit, &line.CostCenterID, &line.ReferenceType, &line.ReferenceID, &line.CreatedAt); err != nil {
			return JournalEntry{}, err
		}
		entry.Lines = append(entry.Lines, line)
	}
	return entry, rows.Err()
}

func (r *txRepository) MarkCancelled(ctx context.Context, entryID int64) error {
	tag, err := r.tx.Exec(ctx, `UPDATE journal_entries SET status='CANCELLED', cancelled_at=now(), updated_at=now() WHERE id=$1 AND status='POSTED'`, entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrInvalidStatus
	}
	return nil
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
