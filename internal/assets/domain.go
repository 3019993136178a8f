package assets

import "time"

// AssetStatus enumerates asset lifecycle values.
type AssetStatus string

const (
	StatusDraft                AssetStatus = "Draft"
	StatusSubmitted            AssetStatus = "Submitted"
	StatusPartiallyDepreciated AssetStatus = "Partially Depreciated"
	StatusFullyDepreciated     AssetStatus = "Fully Depreciated"
	StatusScrapped             AssetStatus = "Scrapped"
	StatusSold                 AssetStatus = "Sold"
	StatusCancelled            AssetStatus = "Cancelled"
)

// DocStatus is the record lifecycle flag: draft, submitted (posted/locked),
// or cancelled.
type DocStatus int16

const (
	DocStatusDraft     DocStatus = 0
	DocStatusSubmitted DocStatus = 1
	DocStatusCancelled DocStatus = 2
)

// ScheduleLine is one scheduled, dated charge of depreciation expense.
// Once JournalEntryID is set the line is posted and never touched again.
type ScheduleLine struct {
	ID             int64
	AssetID        int64
	Idx            int
	ScheduleDate   time.Time
	Amount         float64
	JournalEntryID *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Posted reports whether the line already carries a journal reference.
func (l ScheduleLine) Posted() bool {
	return l.JournalEntryID != nil
}

// Due reports whether the line is scheduled on or before asOf.
func (l ScheduleLine) Due(asOf time.Time) bool {
	return !l.ScheduleDate.After(asOf)
}

// Asset is a fixed asset with its owned depreciation schedule.
// CurrentValue tracks book value: gross purchase amount minus the sum of
// posted depreciation amounts.
type Asset struct {
	ID                  int64
	Name                string
	CompanyID           int64
	CategoryID          int64
	GrossPurchaseAmount float64
	CurrentValue        float64
	Status              AssetStatus
	DocStatus           DocStatus
	ScrapEntryID        *int64
	Schedules           []ScheduleLine
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// AccumulatedDepreciation is the depreciation taken so far.
func (a Asset) AccumulatedDepreciation() float64 {
	return a.GrossPurchaseAmount - a.CurrentValue
}

// RecomputeStatus derives the asset status from docstatus, the scrap entry
// reference, the running book value, and the schedule.
func (a Asset) RecomputeStatus() AssetStatus {
	switch a.DocStatus {
	case DocStatusDraft:
		return StatusDraft
	case DocStatusCancelled:
		return StatusCancelled
	}
	if a.Status == StatusSold {
		return StatusSold
	}
	if a.ScrapEntryID != nil {
		return StatusScrapped
	}
	if len(a.Schedules) == 0 {
		return StatusSubmitted
	}
	if a.CurrentValue <= 0 {
		return StatusFullyDepreciated
	}
	for _, line := range a.Schedules {
		if line.Posted() {
			return StatusPartiallyDepreciated
		}
	}
	return StatusSubmitted
}

// CategoryAccounts holds the category-level account overrides scoped to one
// (category, company) pair. Unset fields fall back to company defaults.
type CategoryAccounts struct {
	FixedAssetAccount              *int64
	AccumulatedDepreciationAccount *int64
	DepreciationExpenseAccount     *int64
}

// DepreciationAccounts is the resolved account triple used for depreciation
// postings. Recomputed on demand, never persisted.
type DepreciationAccounts struct {
	FixedAsset              int64
	AccumulatedDepreciation int64
	DepreciationExpense     int64
}

// DisposalAccounts is the resolved pair used for disposal postings.
type DisposalAccounts struct {
	Disposal   int64
	CostCenter int64
}

// BatchResult summarises one depreciation batch run.
type BatchResult struct {
	AssetsProcessed int
	EntriesPosted   int
	AmountPosted    float64
}
