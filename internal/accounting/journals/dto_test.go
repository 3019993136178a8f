package journals

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-assets/internal/accounting/shared"
)

func validInput() PostingInput {
	return PostingInput{
		VoucherType:  VoucherDepreciation,
		PostingDate:  time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
		CompanyID:    1,
		Remark:       "test posting",
		SourceModule: "assets:depreciation",
		SourceID:     uuid.New(),
		Lines: []PostingLineInput{
			{AccountID: 1720, Credit: 100},
			{AccountID: 5300, Debit: 100},
		},
	}
}

func TestPostingInputValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validInput().Validate())
	})

	t.Run("missing voucher type", func(t *testing.T) {
		in := validInput()
		in.VoucherType = ""
		require.Error(t, in.Validate())
	})

	t.Run("missing company", func(t *testing.T) {
		in := validInput()
		in.CompanyID = 0
		require.Error(t, in.Validate())
	})

	t.Run("missing posting date", func(t *testing.T) {
		in := validInput()
		in.PostingDate = time.Time{}
		require.Error(t, in.Validate())
	})

	t.Run("single line rejected", func(t *testing.T) {
		in := validInput()
		in.Lines = in.Lines[:1]
		require.ErrorIs(t, in.Validate(), shared.ErrTooFewLines)
	})

	t.Run("line missing account", func(t *testing.T) {
		in := validInput()
		in.Lines[0].AccountID = 0
		require.Error(t, in.Validate())
	})

	t.Run("negative amount", func(t *testing.T) {
		in := validInput()
		in.Lines[0].Credit = -5
		require.Error(t, in.Validate())
	})

	t.Run("line on both sides", func(t *testing.T) {
		in := validInput()
		in.Lines[0].Debit = 50
		require.Error(t, in.Validate())
	})

	t.Run("unbalanced", func(t *testing.T) {
		in := validInput()
		in.Lines[1].Debit = 99
		require.ErrorIs(t, in.Validate(), shared.ErrUnbalanced)
	})

	t.Run("sub-cent drift passes", func(t *testing.T) {
		in := validInput()
		in.Lines[0].Credit = 100.001
		in.Lines[1].Debit = 100.0
		require.NoError(t, in.Validate())
	})

	t.Run("missing source module", func(t *testing.T) {
		in := validInput()
		in.SourceModule = ""
		require.Error(t, in.Validate())
	})

	t.Run("missing source id", func(t *testing.T) {
		in := validInput()
		in.SourceID = uuid.Nil
		require.Error(t, in.Validate())
	})
}
