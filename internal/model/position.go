package model

import (
	"lv-paperdesk/internal/types"

	"github.com/shopspring/decimal"
)

// Position aggregates all holdings of one symbol under a single
// weighted average cost. Qty never goes negative; a position whose
// qty reaches zero is removed from the ledger, not kept as a zero row.
type Position struct {
	Symbol    string          `json:"symbol"`
	AssetType types.AssetType `json:"asset_type"`
	Qty       decimal.Decimal `json:"qty"`
	AvgCost   decimal.Decimal `json:"avg_cost"`

	// Real-ledger only. TotalInvestment is maintained incrementally and
	// stays consistent with Qty*AvgCost up to decimal division precision.
	TotalInvestment decimal.Decimal `json:"total_investment,omitempty"`
	Name            string          `json:"name,omitempty"`
	Category        string          `json:"category,omitempty"`
}
