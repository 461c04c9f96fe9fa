package portfolio

import (
	"time"

	"lv-paperdesk/internal/model"
	"lv-paperdesk/internal/paper"
	"lv-paperdesk/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger is the real-account position book: a position map with
// weighted-average-cost accounting and an append-only trade history.
// It is pure bookkeeping, not a risk gate: funding checks belong to
// the caller. Like the paper ledger it is single-writer and does not
// lock.
type Ledger struct {
	positions map[string]model.Position
	history   []model.TradeHistoryEntry
}

func NewLedger() *Ledger {
	return &Ledger{positions: map[string]model.Position{}}
}

type AddRequest struct {
	Symbol     string
	Qty        decimal.Decimal
	Price      decimal.Decimal
	TotalValue decimal.Decimal
	Name       string
	AssetType  types.AssetType
	Category   string
}

// AddPosition records a buy: a new position at the traded price, or a
// weighted merge into the existing one. TotalInvestment is carried
// incrementally; the average is total investment over total qty. A
// BUY history entry is always appended.
func (l *Ledger) AddPosition(req AddRequest) (model.Position, error) {
	if req.Symbol == "" {
		return model.Position{}, &paper.ValidationError{Reason: "symbol is required"}
	}
	if req.Qty.LessThanOrEqual(decimal.Zero) {
		return model.Position{}, &paper.ValidationError{Reason: "qty must be positive"}
	}
	if req.Price.LessThanOrEqual(decimal.Zero) {
		return model.Position{}, &paper.ValidationError{Reason: "price must be positive"}
	}
	totalValue := req.TotalValue
	if totalValue.LessThanOrEqual(decimal.Zero) {
		totalValue = req.Qty.Mul(req.Price)
	}
	pos, ok := l.positions[req.Symbol]
	if !ok {
		pos = model.Position{
			Symbol:          req.Symbol,
			AssetType:       req.AssetType,
			Qty:             req.Qty,
			AvgCost:         req.Price,
			TotalInvestment: totalValue,
			Name:            req.Name,
			Category:        req.Category,
		}
		if pos.AssetType == "" {
			pos.AssetType = types.AssetTypeOther
		}
	} else {
		pos.Qty = pos.Qty.Add(req.Qty)
		pos.TotalInvestment = pos.TotalInvestment.Add(totalValue)
		pos.AvgCost = pos.TotalInvestment.Div(pos.Qty)
		if req.Name != "" {
			pos.Name = req.Name
		}
	}
	l.positions[req.Symbol] = pos
	l.appendHistory(req.Symbol, pos.Name, types.OrderSideBuy, req.Qty, req.Price, totalValue)
	return pos, nil
}

// SellPosition reduces a position by qty at execPrice, shrinking the
// total investment proportionally so the average cost is preserved.
// Selling the whole position removes it. The proportional reduction
// lives here, in one place, instead of being recomputed by every
// caller.
func (l *Ledger) SellPosition(symbol string, qty, execPrice decimal.Decimal) (model.Position, error) {
	if qty.LessThanOrEqual(decimal.Zero) {
		return model.Position{}, &paper.ValidationError{Reason: "qty must be positive"}
	}
	if execPrice.LessThanOrEqual(decimal.Zero) {
		return model.Position{}, &paper.ValidationError{Reason: "price must be positive"}
	}
	pos, ok := l.positions[symbol]
	if !ok || pos.Qty.LessThan(qty) {
		held := decimal.Zero
		if ok {
			held = pos.Qty
		}
		return model.Position{}, &paper.InsufficientHoldingsError{Symbol: symbol, Requested: qty, Held: held}
	}
	total := qty.Mul(execPrice)
	newQty := pos.Qty.Sub(qty)
	if newQty.IsZero() {
		delete(l.positions, symbol)
		l.appendHistory(symbol, pos.Name, types.OrderSideSell, qty, execPrice, total)
		return model.Position{}, nil
	}
	pos.TotalInvestment = pos.TotalInvestment.Mul(newQty).Div(pos.Qty)
	pos.Qty = newQty
	l.positions[symbol] = pos
	l.appendHistory(symbol, pos.Name, types.OrderSideSell, qty, execPrice, total)
	return pos, nil
}

// UpdatePosition overwrites the numeric fields of an existing
// position. Unknown symbols are a silent no-op. Kept for callers that
// compute partial sells themselves; SellPosition is the safe path.
func (l *Ledger) UpdatePosition(symbol string, qty, avgPrice, totalInvestment decimal.Decimal) (model.Position, bool) {
	pos, ok := l.positions[symbol]
	if !ok {
		return model.Position{}, false
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		delete(l.positions, symbol)
		return model.Position{}, true
	}
	pos.Qty = qty
	pos.AvgCost = avgPrice
	pos.TotalInvestment = totalInvestment
	l.positions[symbol] = pos
	return pos, true
}

// RemovePosition deletes the position outright, whatever its qty.
// No history entry is written; a sell record, if wanted, is the
// caller's call.
func (l *Ledger) RemovePosition(symbol string) bool {
	if _, ok := l.positions[symbol]; !ok {
		return false
	}
	delete(l.positions, symbol)
	return true
}

// ClearPortfolio empties the position map. Trade history survives.
func (l *Ledger) ClearPortfolio() {
	l.positions = map[string]model.Position{}
}

func (l *Ledger) appendHistory(symbol, name string, side types.OrderSide, qty, price, total decimal.Decimal) {
	l.history = append(l.history, model.TradeHistoryEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Symbol:    symbol,
		Name:      name,
		Side:      side,
		Qty:       qty,
		Price:     price,
		Total:     total,
	})
}

func (l *Ledger) Positions() []model.Position {
	out := make([]model.Position, 0, len(l.positions))
	for _, p := range l.positions {
		out = append(out, p)
	}
	return out
}

func (l *Ledger) Position(symbol string) (model.Position, bool) {
	p, ok := l.positions[symbol]
	return p, ok
}

func (l *Ledger) History() []model.TradeHistoryEntry {
	out := make([]model.TradeHistoryEntry, len(l.history))
	copy(out, l.history)
	return out
}

func (l *Ledger) TotalInvestment() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.positions {
		total = total.Add(p.TotalInvestment)
	}
	return total
}

// MarketValue prices the book with the supplied source, falling back
// to average cost for unquoted symbols.
func (l *Ledger) MarketValue(price func(symbol string) (decimal.Decimal, bool)) decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.positions {
		px, ok := price(p.Symbol)
		if !ok {
			px = p.AvgCost
		}
		total = total.Add(p.Qty.Mul(px))
	}
	return total
}
