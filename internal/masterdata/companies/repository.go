package companies

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/odyssey-erp/odyssey-assets/internal/shared"
)

// Repository provides read access to company master data.
type Repository interface {
	GetCompany(ctx context.Context, id int64) (Company, error)
	GetDepreciationDefaults(ctx context.Context, companyID int64) (DepreciationDefaults, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*pgRepository)(nil)

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) GetCompany(ctx context.Context, id int64) (Company, error) {
	var c Company
	err := r.pool.QueryRow(ctx, `SELECT id, code, name, created_at, updated_at FROM companies WHERE id=$1`, id).
		Scan(&c.ID, &c.Code, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, shared.ErrNotFound
		}
		return Company{}, err
	}
	return c, nil
}

func (r *pgRepository) GetDepreciationDefaults(ctx context.Context, companyID int64) (DepreciationDefaults, error) {
	var d DepreciationDefaults
	err := r.pool.QueryRow(ctx, `SELECT accumulated_depreciation_account_id, depreciation_expense_account_id, disposal_account_id, depreciation_cost_center_id
FROM companies WHERE id=$1`, companyID).
		Scan(&d.AccumulatedDepreciationAccount, &d.DepreciationExpenseAccount, &d.DisposalAccount, &d.DepreciationCostCenter)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DepreciationDefaults{}, shared.ErrNotFound
		}
		return DepreciationDefaults{}, err
	}
	return d, nil
}
