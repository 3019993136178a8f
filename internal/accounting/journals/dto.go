package journals

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/odyssey-erp/odyssey-assets/internal/accounting/shared"
)

// PostingLineInput describes a journal line for a posting request.
type PostingLineInput struct {
	AccountID     int64
	Debit         float64
	Credit        float64
	CostCenterID  *int64
	ReferenceType string
	ReferenceID   *int64
}

// PostingInput groups fields required to create a journal entry.
type PostingInput struct {
	VoucherType  VoucherType
	PostingDate  time.Time
	CompanyID    int64
	Remark       string
	SourceModule string
	SourceID     uuid.UUID
	Lines        []PostingLineInput
}

// Validate ensures posting input meets minimum criteria. Submission rejects
// unbalanced entries; rounding to cents decides equality.
func (in PostingInput) Validate() error {
	if in.VoucherType == "" {
		return errors.New("accounting: voucher type required")
	}
	if in.CompanyID == 0 {
		return errors.New("accounting: company required")
	}
	if in.PostingDate.IsZero() {
		return errors.New("accounting: posting date required")
	}
	if len(in.Lines) < 2 {
		return shared.ErrTooFewLines
	}
	var debit, credit float64
	for idx, line := range in.Lines {
		if line.AccountID == 0 {
			return fmt.Errorf("accounting: line %d missing account", idx)
		}
		if line.Debit < 0 || line.Credit < 0 {
			return fmt.Errorf("accounting: line %d negative amount", idx)
		}
		if line.Debit > 0 && line.Credit > 0 {
			return fmt.Errorf("accounting: line %d cannot be both debit and credit", idx)
		}
		debit += line.Debit
		credit += line.Credit
	}
	if fmt.Sprintf("%.2f", debit) != fmt.Sprintf("%.2f", credit) {
		return shared.ErrUnbalanced
	}
	if in.SourceModule == "" {
		return errors.New("accounting: source module required")
	}
	if in.SourceID == uuid.Nil {
		return errors.New("accounting: source id required")
	}
	return nil
}
