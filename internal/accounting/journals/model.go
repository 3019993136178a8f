package journals

import (
	"time"

	"github.com/google/uuid"
)

// VoucherType distinguishes the origin of an entry.
type VoucherType string

const (
	// VoucherDepreciation marks entries produced by the depreciation poster.
	VoucherDepreciation VoucherType = "Depreciation Entry"
	// VoucherJournal marks manually shaped entries such as disposal postings.
	VoucherJournal VoucherType = "Journal Entry"
)

// EntryStatus enumerates journal lifecycle values. Posted entries are
// immutable; cancellation reverses their balance effect in the ledger.
type EntryStatus string

const (
	EntryStatusPosted    EntryStatus = "POSTED"
	EntryStatusCancelled EntryStatus = "CANCELLED"
)

// ReferenceAsset tags lines that point back at a fixed asset.
const ReferenceAsset = "Asset"

// JournalEntry captures posting metadata.
type JournalEntry struct {
	ID           int64
	Number       int64
	VoucherType  VoucherType
	PostingDate  time.Time
	CompanyID    int64
	Remark       string
	SourceModule string
	SourceID     uuid.UUID
	Status       EntryStatus
	PostedAt     time.Time
	CancelledAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Lines        []JournalLine
}

// JournalLine stores a debit or credit amount for an account in account
// currency, with optional cost center and asset reference dimensions.
type JournalLine struct {
	ID            int64
	EntryID       int64
	AccountID     int64
	Debit         float64
	Credit        float64
	CostCenterID  *int64
	ReferenceType string
	ReferenceID   *int64
	CreatedAt     time.Time
}
