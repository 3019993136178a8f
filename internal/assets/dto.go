package assets

import (
	"time"

	"github.com/odyssey-erp/odyssey-assets/internal/accounting/journals"
)

// AssetResponse is the JSON shape returned by disposal endpoints.
type AssetResponse struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	CompanyID      int64       `json:"company_id"`
	CategoryID     int64       `json:"category_id"`
	GrossAmount    float64     `json:"gross_purchase_amount"`
	CurrentValue   float64     `json:"current_value"`
	Status         AssetStatus `json:"status"`
	ScrapEntryID   *int64      `json:"scrap_entry_id,omitempty"`
	ScheduleLines  int         `json:"schedule_lines"`
	LinesPosted    int         `json:"schedule_lines_posted"`
	LastScheduleAt *time.Time  `json:"last_schedule_at,omitempty"`
}

func toAssetResponse(a Asset) AssetResponse {
	resp := AssetResponse{
		ID:            a.ID,
		Name:          a.Name,
		CompanyID:     a.CompanyID,
		CategoryID:    a.CategoryID,
		GrossAmount:   a.GrossPurchaseAmount,
		CurrentValue:  a.CurrentValue,
		Status:        a.Status,
		ScrapEntryID:  a.ScrapEntryID,
		ScheduleLines: len(a.Schedules),
	}
	for _, line := range a.Schedules {
		if line.Posted() {
			resp.LinesPosted++
		}
	}
	if n := len(a.Schedules); n > 0 {
		last := a.Schedules[n-1].ScheduleDate
		resp.LastScheduleAt = &last
	}
	return resp
}

// DisposalLineResponse mirrors one computed disposal ledger line.
type DisposalLineResponse struct {
	AccountID    int64   `json:"account_id"`
	Debit        float64 `json:"debit"`
	Credit       float64 `json:"credit"`
	CostCenterID *int64  `json:"cost_center_id,omitempty"`
}

// DisposalPreviewResponse wraps the computed lines for an asset disposal.
type DisposalPreviewResponse struct {
	AssetID       int64                  `json:"asset_id"`
	SellingAmount float64                `json:"selling_amount"`
	Lines         []DisposalLineResponse `json:"lines"`
}

func toDisposalPreview(assetID int64, selling float64, lines []journals.PostingLineInput) DisposalPreviewResponse {
	resp := DisposalPreviewResponse{AssetID: assetID, SellingAmount: selling}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, DisposalLineResponse{
			AccountID:    line.AccountID,
			Debit:        line.Debit,
			Credit:       line.Credit,
			CostCenterID: line.CostCenterID,
		})
	}
	return resp
}

// DisposalPreviewRequest carries query parameters for the preview endpoint.
type DisposalPreviewRequest struct {
	SellingAmount float64 `validate:"gte=0"`
}

// RunDepreciationRequest triggers a manual batch run.
type RunDepreciationRequest struct {
	AsOfDate string `json:"as_of_date" validate:"omitempty,datetime=2006-01-02"`
}

// RunDepreciationResponse acknowledges an enqueued batch.
type RunDepreciationResponse struct {
	Enqueued bool   `json:"enqueued"`
	AsOfDate string `json:"as_of_date"`
}
