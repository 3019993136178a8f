package journals

import (
	"time"

	appshared "github.com/odyssey-erp/odyssey-assets/internal/shared"
)

// EntryResponse is the JSON shape for journal inspection endpoints.
type EntryResponse struct {
	ID          int64          `json:"id"`
	Number      int64          `json:"number"`
	VoucherType VoucherType    `json:"voucher_type"`
	PostingDate string         `json:"posting_date"`
	CompanyID   int64          `json:"company_id"`
	Remark      string         `json:"remark"`
	Status      EntryStatus    `json:"status"`
	PostedAt    time.Time      `json:"posted_at"`
	CancelledAt *time.Time     `json:"cancelled_at,omitempty"`
	Lines       []LineResponse `json:"lines,omitempty"`
}

// LineResponse mirrors a single journal line.
type LineResponse struct {
	AccountID     int64   `json:"account_id"`
	Debit         float64 `json:"debit"`
	Credit        float64 `json:"credit"`
	CostCenterID  *int64  `json:"cost_center_id,omitempty"`
	ReferenceType string  `json:"reference_type,omitempty"`
	ReferenceID   *int64  `json:"reference_id,omitempty"`
}

func toEntryResponse(e JournalEntry) EntryResponse {
	resp := EntryResponse{
		ID:          e.ID,
		Number:      e.Number,
		VoucherType: e.VoucherType,
		PostingDate: e.PostingDate.Format("2006-01-02"),
		CompanyID:   e.CompanyID,
		Remark:      e.Remark,
		Status:      e.Status,
		PostedAt:    e.PostedAt,
		CancelledAt: e.CancelledAt,
	}
	for _, line := range e.Lines {
		resp.Lines = append(resp.Lines, LineResponse{
			AccountID:     line.AccountID,
			Debit:         line.Debit,
			Credit:        line.Credit,
			CostCenterID:  line.CostCenterID,
			ReferenceType: line.ReferenceType,
			ReferenceID:   line.ReferenceID,
		})
	}
	return resp
}

// ListResponse wraps a page of entries with pagination metadata.
type ListResponse struct {
	Entries    []EntryResponse `json:"entries"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
}

func toListResponse(entries []JournalEntry, p appshared.Pagination) ListResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return ListResponse{
		Entries:    out,
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}
