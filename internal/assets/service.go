package assets

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/odyssey-erp/odyssey-assets/internal/accounting/journals"
	"github.com/odyssey-erp/odyssey-assets/internal/masterdata/companies"
	"github.com/odyssey-erp/odyssey-assets/internal/shared"
)

const (
	sourceDepreciation = "assets:depreciation"
	sourceDisposal     = "assets:disposal"
)

// CompanyDirectory is the slice of company master data this service reads.
type CompanyDirectory interface {
	GetCompany(ctx context.Context, id int64) (companies.Company, error)
	GetDepreciationDefaults(ctx context.Context, companyID int64) (companies.DepreciationDefaults, error)
}

// Service orchestrates depreciation posting and asset disposal.
type Service struct {
	repo      Repository
	companies CompanyDirectory
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a Service instance.
func NewService(repo Repository, companies CompanyDirectory, logger *slog.Logger) *Service {
	return &Service{repo: repo, companies: companies, logger: logger, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// PostDueEntries runs the depreciation batch as of the given date (today when
// zero). Each asset commits independently, so a failure aborts the run but
// leaves already processed assets fully posted; the next scheduled run picks
// up the remainder via the empty journal-reference predicate.
func (s *Service) PostDueEntries(ctx context.Context, asOf time.Time) (BatchResult, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	asOf = truncateToDay(asOf)

	var result BatchResult
	ids, err := s.repo.FindDueAssets(ctx, asOf)
	if err != nil {
		return result, err
	}

	// Resolution cache lives for this run only; configuration edits are
	// picked up by the next batch.
	cache := make(map[accountsKey]DepreciationAccounts)
	for _, id := range ids {
		posted, amount, err := s.postAssetDepreciation(ctx, id, asOf, cache)
		if err != nil {
			return result, fmt.Errorf("asset %d: %w", id, err)
		}
		result.AssetsProcessed++
		result.EntriesPosted += posted
		result.AmountPosted += amount
	}
	return result, nil
}

// PostAssetDepreciation posts all due, unposted schedule lines for one asset
// as of the given date (today when zero). Returns the number of entries
// posted; zero when every qualifying line already carries a reference.
func (s *Service) PostAssetDepreciation(ctx context.Context, assetID int64, asOf time.Time) (int, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	posted, _, err := s.postAssetDepreciation(ctx, assetID, truncateToDay(asOf), nil)
	return posted, err
}

func (s *Service) postAssetDepreciation(ctx context.Context, assetID int64, asOf time.Time, cache map[accountsKey]DepreciationAccounts) (int, float64, error) {
	asset, err := s.repo.GetAsset(ctx, assetID)
	if err != nil {
		return 0, 0, err
	}

	// Resolution failures abort before any journal entry exists.
	accounts, err := s.resolveDepreciationAccounts(ctx, asset, cache)
	if err != nil {
		return 0, 0, err
	}
	defaults, err := s.companies.GetDepreciationDefaults(ctx, asset.CompanyID)
	if err != nil {
		return 0, 0, err
	}
	costCenter := defaults.DepreciationCostCenter

	var posted int
	var amount float64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		a, err := tx.GetAssetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		for i := range a.Schedules {
			line := &a.Schedules[i]
			if line.Posted() || !line.Due(asOf) {
				continue
			}
			entry, err := tx.PostJournalEntry(ctx, journals.PostingInput{
				VoucherType:  journals.VoucherDepreciation,
				PostingDate:  line.ScheduleDate,
				CompanyID:    a.CompanyID,
				Remark:       fmt.Sprintf("Depreciation entry against asset %d worth %.2f", a.ID, line.Amount),
				SourceModule: sourceDepreciation,
				SourceID:     uuid.New(),
				Lines: []journals.PostingLineInput{
					{
						AccountID:     accounts.AccumulatedDepreciation,
						Credit:        line.Amount,
						ReferenceType: journals.ReferenceAsset,
						ReferenceID:   &a.ID,
					},
					{
						AccountID:     accounts.DepreciationExpense,
						Debit:         line.Amount,
						CostCenterID:  costCenter,
						ReferenceType: journals.ReferenceAsset,
						ReferenceID:   &a.ID,
					},
				},
			})
			if err != nil {
				return err
			}
			if err := tx.StampScheduleLine(ctx, line.ID, entry.ID); err != nil {
				return err
			}
			entryID := entry.ID
			line.JournalEntryID = &entryID
			a.CurrentValue -= line.Amount
			posted++
			amount += line.Amount
		}
		// Valuation and status persist even when no line qualified.
		return tx.UpdateAssetValuation(ctx, a.ID, a.CurrentValue, a.RecomputeStatus())
	})
	if err != nil {
		return 0, 0, err
	}
	if posted > 0 && s.logger != nil {
		s.logger.Info("depreciation posted",
			slog.Int64("asset_id", assetID),
			slog.Int("entries", posted),
			slog.Float64("amount", amount),
			slog.String("as_of", asOf.Format("2006-01-02")))
	}
	return posted, amount, nil
}

// Scrap removes the asset from the books: it posts a closing journal entry
// that zeroes the carrying value, records the entry on the asset, and sets
// the status to Scrapped.
func (s *Service) Scrap(ctx context.Context, assetID int64) (Asset, error) {
	asset, err := s.repo.GetAsset(ctx, assetID)
	if err != nil {
		return Asset{}, err
	}
	if asset.DocStatus != DocStatusSubmitted {
		return Asset{}, &shared.StateError{AssetID: assetID, Reason: "must be submitted before it can be scrapped"}
	}
	switch asset.Status {
	case StatusCancelled, StatusSold, StatusScrapped:
		return Asset{}, &shared.StateError{AssetID: assetID, Status: string(asset.Status), Reason: "cannot be scrapped"}
	}

	accounts, err := s.ResolveDepreciationAccounts(ctx, asset)
	if err != nil {
		return Asset{}, err
	}
	disposal, err := s.ResolveDisposalAccounts(ctx, asset.CompanyID)
	if err != nil {
		return Asset{}, err
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		a, err := tx.GetAssetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		entry, err := tx.PostJournalEntry(ctx, journals.PostingInput{
			VoucherType:  journals.VoucherJournal,
			PostingDate:  truncateToDay(s.now()),
			CompanyID:    a.CompanyID,
			Remark:       fmt.Sprintf("Scrap entry for asset %d", a.ID),
			SourceModule: sourceDisposal,
			SourceID:     uuid.New(),
			Lines:        disposalLines(a, 0, accounts, disposal),
		})
		if err != nil {
			return err
		}
		entryID := entry.ID
		asset = a
		asset.ScrapEntryID = &entryID
		asset.Status = StatusScrapped
		return tx.SetScrapEntry(ctx, a.ID, &entryID, StatusScrapped)
	})
	if err != nil {
		return Asset{}, err
	}
	if s.logger != nil {
		attrs := []any{slog.Int64("asset_id", assetID), slog.Int64("journal_entry_id", *asset.ScrapEntryID)}
		if company, err := s.companies.GetCompany(ctx, asset.CompanyID); err == nil {
			attrs = append(attrs, slog.String("company", company.Code))
		}
		s.logger.Info("asset scrapped", attrs...)
	}
	return asset, nil
}

// Restore undoes a scrap: it clears the scrap reference, cancels the scrap
// journal entry, and recomputes the asset status from its schedule.
func (s *Service) Restore(ctx context.Context, assetID int64) (Asset, error) {
	asset, err := s.repo.GetAsset(ctx, assetID)
	if err != nil {
		return Asset{}, err
	}
	if asset.ScrapEntryID == nil {
		return Asset{}, &shared.StateError{AssetID: assetID, Status: string(asset.Status), Reason: "has no scrap journal entry to restore"}
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		a, err := tx.GetAssetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if a.ScrapEntryID == nil {
			return &shared.StateError{AssetID: assetID, Status: string(a.Status), Reason: "has no scrap journal entry to restore"}
		}
		entryID := *a.ScrapEntryID
		a.ScrapEntryID = nil
		status := a.RecomputeStatus()
		if err := tx.SetScrapEntry(ctx, a.ID, nil, status); err != nil {
			return err
		}
		if err := tx.CancelJournalEntry(ctx, entryID); err != nil {
			return err
		}
		asset = a
		asset.Status = status
		return nil
	})
	if err != nil {
		return Asset{}, err
	}
	if s.logger != nil {
		s.logger.Info("asset restored", slog.Int64("asset_id", assetID), slog.String("status", string(asset.Status)))
	}
	return asset, nil
}

// ComputeDisposalEntries returns the ledger lines a disposal of the asset
// would post for the given selling amount, without posting anything.
func (s *Service) ComputeDisposalEntries(ctx context.Context, assetID int64, sellingAmount float64) ([]journals.PostingLineInput, error) {
	asset, err := s.repo.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.ResolveDepreciationAccounts(ctx, asset)
	if err != nil {
		return nil, err
	}
	disposal, err := s.ResolveDisposalAccounts(ctx, asset.CompanyID)
	if err != nil {
		return nil, err
	}
	return disposalLines(asset, sellingAmount, accounts, disposal), nil
}

// disposalLines builds the closing lines for a disposal: remove the cost
// basis and accumulated depreciation, then book any gain or loss versus book
// value on the disposal account.
func disposalLines(asset Asset, sellingAmount float64, accounts DepreciationAccounts, disposal DisposalAccounts) []journals.PostingLineInput {
	assetID := asset.ID
	lines := []journals.PostingLineInput{
		{
			AccountID:     accounts.FixedAsset,
			Credit:        asset.GrossPurchaseAmount,
			ReferenceType: journals.ReferenceAsset,
			ReferenceID:   &assetID,
		},
		{
			AccountID:     accounts.AccumulatedDepreciation,
			Debit:         asset.AccumulatedDepreciation(),
			ReferenceType: journals.ReferenceAsset,
			ReferenceID:   &assetID,
		},
	}

	profit := sellingAmount - asset.CurrentValue
	if asset.CurrentValue != 0 && profit != 0 {
		costCenter := disposal.CostCenter
		line := journals.PostingLineInput{
			AccountID:     disposal.Disposal,
			CostCenterID:  &costCenter,
			ReferenceType: journals.ReferenceAsset,
			ReferenceID:   &assetID,
		}
		if profit > 0 {
			line.Credit = math.Abs(profit)
		} else {
			line.Debit = math.Abs(profit)
		}
		lines = append(lines, line)
	}
	return lines
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
