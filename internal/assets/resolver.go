package assets

import (
	"context"

	"github.com/odyssey-erp/odyssey-assets/internal/shared"
)

type accountsKey struct {
	categoryID int64
	companyID  int64
}

// ResolveDepreciationAccounts resolves the account triple for depreciation
// postings: category-level overrides first, with accumulated-depreciation and
// depreciation-expense falling back to company defaults.
func (s *Service) ResolveDepreciationAccounts(ctx context.Context, asset Asset) (DepreciationAccounts, error) {
	return s.resolveDepreciationAccounts(ctx, asset, nil)
}

func (s *Service) resolveDepreciationAccounts(ctx context.Context, asset Asset, cache map[accountsKey]DepreciationAccounts) (DepreciationAccounts, error) {
	key := accountsKey{categoryID: asset.CategoryID, companyID: asset.CompanyID}
	if cache != nil {
		if got, ok := cache[key]; ok {
			return got, nil
		}
	}

	ca, err := s.repo.GetCategoryAccounts(ctx, asset.CategoryID, asset.CompanyID)
	if err != nil {
		return DepreciationAccounts{}, err
	}
	fixed := ca.FixedAssetAccount
	accum := ca.AccumulatedDepreciationAccount
	expense := ca.DepreciationExpenseAccount

	if accum == nil || expense == nil {
		defaults, err := s.companies.GetDepreciationDefaults(ctx, asset.CompanyID)
		if err != nil {
			return DepreciationAccounts{}, err
		}
		if accum == nil {
			accum = defaults.AccumulatedDepreciationAccount
		}
		if expense == nil {
			expense = defaults.DepreciationExpenseAccount
		}
	}

	if fixed == nil || accum == nil || expense == nil {
		return DepreciationAccounts{}, &shared.ConfigurationError{
			CompanyID:  asset.CompanyID,
			CategoryID: asset.CategoryID,
			Missing:    "depreciation accounts",
		}
	}

	resolved := DepreciationAccounts{
		FixedAsset:              *fixed,
		AccumulatedDepreciation: *accum,
		DepreciationExpense:     *expense,
	}
	if cache != nil {
		cache[key] = resolved
	}
	return resolved, nil
}

// ResolveDisposalAccounts resolves the company-level disposal account and
// depreciation cost center used by disposal postings.
func (s *Service) ResolveDisposalAccounts(ctx context.Context, companyID int64) (DisposalAccounts, error) {
	defaults, err := s.companies.GetDepreciationDefaults(ctx, companyID)
	if err != nil {
		return DisposalAccounts{}, err
	}
	if defaults.DisposalAccount == nil {
		return DisposalAccounts{}, &shared.ConfigurationError{CompanyID: companyID, Missing: "asset disposal account"}
	}
	if defaults.DepreciationCostCenter == nil {
		return DisposalAccounts{}, &shared.ConfigurationError{CompanyID: companyID, Missing: "asset depreciation cost center"}
	}
	return DisposalAccounts{
		Disposal:   *defaults.DisposalAccount,
		CostCenter: *defaults.DepreciationCostCenter,
	}, nil
}
