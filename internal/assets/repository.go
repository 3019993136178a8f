package assets

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/odyssey-assets/internal/accounting/journals"
	"github.com/odyssey-erp/odyssey-assets/internal/platform/db"
	"github.com/odyssey-erp/odyssey-assets/internal/shared"
)

// Repository defines asset data access.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error

	GetAsset(ctx context.Context, id int64) (Asset, error)
	FindDueAssets(ctx context.Context, asOf time.Time) ([]int64, error)
	GetCategoryAccounts(ctx context.Context, categoryID, companyID int64) (CategoryAccounts, error)
}

// TxRepository defines operations within a transaction. Journal writes ride
// the same transaction so an asset's postings and its valuation update commit
// together.
type TxRepository interface {
	GetAssetForUpdate(ctx context.Context, id int64) (Asset, error)
	StampScheduleLine(ctx context.Context, lineID, entryID int64) error
	UpdateAssetValuation(ctx context.Context, assetID int64, currentValue float64, status AssetStatus) error
	SetScrapEntry(ctx context.Context, assetID int64, entryID *int64, status AssetStatus) error

	PostJournalEntry(ctx context.Context, in journals.PostingInput) (journals.JournalEntry, error)
	CancelJournalEntry(ctx context.Context, entryID int64) error
}

var _ Repository = (*pgRepository)(nil)
var _ TxRepository = (*pgTxRepository)(nil)

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &pgTxRepository{tx: tx, ledger: journals.NewTxRepository(tx)})
	})
}

func (r *pgRepository) GetAsset(ctx context.Context, id int64) (Asset, error) {
	return loadAsset(ctx, r.pool, id, false)
}

// FindDueAssets returns ids of submitted assets with at least one unposted
// schedule line due on or before asOf. Ordered by id for determinism.
func (r *pgRepository) FindDueAssets(ctx context.Context, asOf time.Time) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT a.id
FROM assets a
JOIN asset_schedule_lines sl ON sl.asset_id = a.id
WHERE a.docstatus = 1
  AND a.status IN ('Submitted', 'Partially Depreciated')
  AND sl.schedule_date <= $1
  AND sl.journal_entry_id IS NULL
ORDER BY a.id`, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *pgRepository) GetCategoryAccounts(ctx context.Context, categoryID, companyID int64) (CategoryAccounts, error) {
	var ca CategoryAccounts
	err := r.pool.QueryRow(ctx, `SELECT fixed_asset_account_id, accumulated_depreciation_account_id, depreciation_expense_account_id
FROM asset_category_accounts WHERE category_id=$1 AND company_id=$2`, categoryID, companyID).
		Scan(&ca.FixedAssetAccount, &ca.AccumulatedDepreciationAccount, &ca.DepreciationExpenseAccount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No category override row; resolver falls back to company defaults.
			return CategoryAccounts{}, nil
		}
		return CategoryAccounts{}, err
	}
	return ca, nil
}

type pgTxRepository struct {
	tx     pgx.Tx
	ledger journals.TxRepository
}

func (r *pgTxRepository) GetAssetForUpdate(ctx context.Context, id int64) (Asset, error) {
	return loadAsset(ctx, r.tx, id, true)
}

func (r *pgTxRepository) StampScheduleLine(ctx context.Context, lineID, entryID int64) error {
	tag, err := r.tx.Exec(ctx, `UPDATE asset_schedule_lines SET journal_entry_id=$2, updated_at=now()
WHERE id=$1 AND journal_entry_id IS NULL`, lineID, entryID)
	if err != nil {
		return err
	}
	// The empty-reference predicate is the idempotency marker; zero rows means
	// another run already posted this line.
	if tag.RowsAffected() == 0 {
		return ErrLineAlreadyPosted
	}
	return nil
}

func (r *pgTxRepository) UpdateAssetValuation(ctx context.Context, assetID int64, currentValue float64, status AssetStatus) error {
	_, err := r.tx.Exec(ctx, `UPDATE assets SET current_value=$2, status=$3, updated_at=now() WHERE id=$1`,
		assetID, currentValue, status)
	return err
}

func (r *pgTxRepository) SetScrapEntry(ctx context.Context, assetID int64, entryID *int64, status AssetStatus) error {
	_, err := r.tx.Exec(ctx, `UPDATE assets SET scrap_entry_id=$2, status=$3, updated_at=now() WHERE id=$1`,
		assetID, entryID, status)
	return err
}

func (r *pgTxRepository) PostJournalEntry(ctx context.Context, in journals.PostingInput) (journals.JournalEntry, error) {
	return journals.PostTx(ctx, r.ledger, in)
}

func (r *pgTxRepository) CancelJournalEntry(ctx context.Context, entryID int64) error {
	return journals.CancelTx(ctx, r.ledger, entryID)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func loadAsset(ctx context.Context, q querier, id int64, forUpdate bool) (Asset, error) {
	query := `SELECT id, name, company_id, category_id, gross_purchase_amount, current_value, status, docstatus, scrap_entry_id, created_at, updated_at
FROM assets WHERE id=$1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var a Asset
	err := q.QueryRow(ctx, query, id).
		Scan(&a.ID, &a.Name, &a.CompanyID, &a.CategoryID, &a.GrossPurchaseAmount, &a.CurrentValue, &a.Status, &a.DocStatus, &a.ScrapEntryID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, shared.ErrNotFound
		}
		return Asset{}, err
	}
	rows, err := q.Query(ctx, `SELECT id, asset_id, idx, schedule_date, amount, journal_entry_id, created_at, updated_at
FROM asset_schedule_lines WHERE asset_id=$1 ORDER BY idx ASC`, id)
	if err != nil {
		return Asset{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var line ScheduleLine
		if err := rows.Scan(&line.ID, &line.AssetID, &line.Idx, &line.ScheduleDate, &line.Amount, &line.JournalEntryID, &line.CreatedAt, &line.UpdatedAt); err != nil {
			return Asset{}, err
		}
		a.Schedules = append(a.Schedules, line)
	}
	return a, rows.Err()
}
