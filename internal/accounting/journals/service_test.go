package journals

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-assets/internal/accounting/shared"
)

type memoryLedger struct {
	entries map[int64]*JournalEntry
	links   map[string]int64
	nextID  int64
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		entries: make(map[int64]*JournalEntry),
		links:   make(map[string]int64),
	}
}

func (m *memoryLedger) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *memoryLedger) List(ctx context.Context, limit, offset int) ([]JournalEntry, error) {
	var out []JournalEntry
	for id := m.nextID; id > 0 && len(out) < limit; id-- {
		if offset > 0 {
			offset--
			continue
		}
		if e, ok := m.entries[id]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memoryLedger) Count(ctx context.Context) (int, error) {
	return len(m.entries), nil
}

func (m *memoryLedger) GetEntryWithLines(ctx context.Context, entryID int64) (JournalEntry, error) {
	e, ok := m.entries[entryID]
	if !ok {
		return JournalEntry{}, shared.ErrJournalNotFound
	}
	return *e, nil
}

func (m *memoryLedger) InsertEntry(ctx context.Context, in PostingInput) (JournalEntry, error) {
	m.nextID++
	now := time.Date(2026, time.March, 31, 12, 0, 0, 0, time.UTC)
	entry := JournalEntry{
		ID:           m.nextID,
		Number:       m.nextID,
		VoucherType:  in.VoucherType,
		PostingDate:  in.PostingDate,
		CompanyID:    in.CompanyID,
		Remark:       in.Remark,
		SourceModule: in.SourceModule,
		SourceID:     in.SourceID,
		Status:       EntryStatusPosted,
		PostedAt:     now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.entries[entry.ID] = &entry
	return entry, nil
}

func (m *memoryLedger) InsertLines(ctx context.Context, entryID int64, lines []PostingLineInput) error {
	entry := m.entries[entryID]
	entry.Lines = toJournalLines(entryID, lines, entry.CreatedAt)
	return nil
}

func (m *memoryLedger) LinkSource(ctx context.Context, module string, ref uuid.UUID, entryID int64) error {
	key := module + "/" + ref.String()
	if _, exists := m.links[key]; exists {
		return shared.ErrSourceConflict
	}
	m.links[key] = entryID
	return nil
}

func (m *memoryLedger) MarkCancelled(ctx context.Context, entryID int64) error {
	entry, ok := m.entries[entryID]
	if !ok {
		return shared.ErrJournalNotFound
	}
	if entry.Status != EntryStatusPosted {
		return shared.ErrInvalidStatus
	}
	cancelled := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	entry.Status = EntryStatusCancelled
	entry.CancelledAt = &cancelled
	return nil
}

func TestPostValidatesAndWrites(t *testing.T) {
	ledger := newMemoryLedger()
	svc := NewService(ledger)

	entry, err := svc.Post(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, EntryStatusPosted, entry.Status)
	require.Len(t, entry.Lines, 2)
	require.Len(t, ledger.links, 1)

	stored, err := svc.Get(context.Background(), entry.ID)
	require.NoError(t, err)
	require.Equal(t, entry.Remark, stored.Remark)
}

func TestPostRejectsUnbalanced(t *testing.T) {
	ledger := newMemoryLedger()
	svc := NewService(ledger)

	in := validInput()
	in.Lines[1].Debit = 99
	_, err := svc.Post(context.Background(), in)
	require.ErrorIs(t, err, shared.ErrUnbalanced)
	require.Empty(t, ledger.links)
}

func TestPostRejectsDuplicateSource(t *testing.T) {
	ledger := newMemoryLedger()
	svc := NewService(ledger)

	in := validInput()
	_, err := svc.Post(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.Post(context.Background(), in)
	require.ErrorIs(t, err, shared.ErrSourceConflict)
}

func TestCancelFlipsPostedEntry(t *testing.T) {
	ledger := newMemoryLedger()
	svc := NewService(ledger)

	entry, err := svc.Post(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), entry.ID))
	stored, err := svc.Get(context.Background(), entry.ID)
	require.NoError(t, err)
	require.Equal(t, EntryStatusCancelled, stored.Status)
	require.NotNil(t, stored.CancelledAt)

	// A second cancel finds the entry no longer posted.
	require.ErrorIs(t, svc.Cancel(context.Background(), entry.ID), shared.ErrInvalidStatus)
}

func TestCancelUnknownEntry(t *testing.T) {
	svc := NewService(newMemoryLedger())
	require.ErrorIs(t, svc.Cancel(context.Background(), 404), shared.ErrJournalNotFound)
}

func TestListPaginates(t *testing.T) {
	ledger := newMemoryLedger()
	svc := NewService(ledger)

	for i := 0; i < 5; i++ {
		in := validInput()
		in.SourceID = uuid.New()
		_, err := svc.Post(context.Background(), in)
		require.NoError(t, err)
	}

	entries, pagination, err := svc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 2, pagination.Page)
	require.Equal(t, 5, pagination.Total)
	require.Equal(t, 3, pagination.TotalPages)
}
