package companies

import "time"

// Company represents a company entity.
type Company struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DepreciationDefaults carries the company-level fallback configuration read
// by the account resolvers. Unset fields stay nil.
type DepreciationDefaults struct {
	AccumulatedDepreciationAccount *int64
	DepreciationExpenseAccount     *int64
	DisposalAccount                *int64
	DepreciationCostCenter         *int64
}
