package model

import (
	"time"

	"lv-paperdesk/internal/types"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID             string            `json:"id"`
	Symbol         string            `json:"symbol"`
	Side           types.OrderSide   `json:"side"`
	Kind           types.OrderKind   `json:"kind"`
	Status         types.OrderStatus `json:"status"`
	AssetType      types.AssetType   `json:"asset_type"`
	Qty            decimal.Decimal   `json:"qty"`
	RequestedPrice decimal.Decimal   `json:"requested_price"`
	LimitPrice     *decimal.Decimal  `json:"limit_price,omitempty"`
	StopPrice      *decimal.Decimal  `json:"stop_price,omitempty"`
	ExecutedPrice  *decimal.Decimal  `json:"executed_price,omitempty"`
	ExecutedValue  *decimal.Decimal  `json:"executed_value,omitempty"`
	SubmittedAt    time.Time         `json:"submitted_at"`
}
