package journals

import (
	"context"
	"time"

	"github.com/odyssey-erp/odyssey-assets/internal/accounting/shared"
	appshared "github.com/odyssey-erp/odyssey-assets/internal/shared"
)

// Service is the ledger-posting primitive. Post validates and submits a
// balanced entry; Cancel reverses a posted entry's balance effect. Submitted
// entries are never mutated otherwise.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// List returns one page of journal entries, newest first.
func (s *Service) List(ctx context.Context, page, perPage int) ([]JournalEntry, appshared.Pagination, error) {
	if perPage <= 0 || perPage > 200 {
		perPage = 50
	}
	if page <= 0 {
		page = 1
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, appshared.Pagination{}, err
	}
	entries, err := s.repo.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, appshared.Pagination{}, err
	}
	return entries, appshared.NewPagination(page, perPage, total), nil
}

// Get returns an entry with its lines.
func (s *Service) Get(ctx context.Context, entryID int64) (JournalEntry, error) {
	return s.repo.GetEntryWithLines(ctx, entryID)
}

// Post validates and submits an entry in its own transaction.
func (s *Service) Post(ctx context.Context, in PostingInput) (JournalEntry, error) {
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var e error
		entry, e = PostTx(ctx, tx, in)
		return e
	})
	if err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

// Cancel reverses a posted entry in its own transaction.
func (s *Service) Cancel(ctx context.Context, entryID int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return CancelTx(ctx, tx, entryID)
	})
}

// PostTx validates in and writes the entry, its lines, and the source link
// inside the caller's transaction. Every posting path goes through here, so
// the balance invariant holds regardless of which module submits.
func PostTx(ctx context.Context, tx TxRepository, in PostingInput) (JournalEntry, error) {
	if err := in.Validate(); err != nil {
		return JournalEntry{}, err
	}
	entry, err := tx.InsertEntry(ctx, in)
	if err != nil {
		return JournalEntry{}, err
	}
	if err := tx.InsertLines(ctx, entry.ID, in.Lines); err != nil {
		return JournalEntry{}, err
	}
	if err := tx.LinkSource(ctx, in.SourceModule, in.SourceID, entry.ID); err != nil {
		return JournalEntry{}, err
	}
	entry.Lines = toJournalLines(entry.ID, in.Lines, entry.CreatedAt)
	return entry, nil
}

// CancelTx flips a posted entry to cancelled inside the caller's transaction.
func CancelTx(ctx context.Context, tx TxRepository, entryID int64) error {
	entry, err := tx.GetEntryWithLines(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.Status != EntryStatusPosted {
		return shared.ErrInvalidStatus
	}
	return tx.MarkCancelled(ctx, entryID)
}

func toJournalLines(entryID int64, lines []PostingLineInput, ts time.Time) []JournalLine {
	out := make([]JournalLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, JournalLine{
			EntryID:       entryID,
			AccountID:     line.AccountID,
			Debit:         line.Debit,
			Credit:        line.Credit,
			CostCenterID:  line.CostCenterID,
			ReferenceType: line.ReferenceType,
			ReferenceID:   line.ReferenceID,
			CreatedAt:     ts,
		})
	}
	return out
}
