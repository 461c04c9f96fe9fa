package paper

import (
	"lv-paperdesk/internal/model"

	"github.com/shopspring/decimal"
)

// Snapshot is the serializable form of a ledger, shaped as a plain
// keyed record so the host can store it in any local key-value store.
type Snapshot struct {
	Cash      decimal.Decimal           `json:"cash"`
	Orders    []model.Order             `json:"orders"`
	Positions map[string]model.Position `json:"positions"`
}

func (l *Ledger) Snapshot() Snapshot {
	snap := Snapshot{
		Cash:      l.cash,
		Orders:    make([]model.Order, len(l.orders)),
		Positions: make(map[string]model.Position, len(l.positions)),
	}
	copy(snap.Orders, l.orders)
	for sym, pos := range l.positions {
		snap.Positions[sym] = pos
	}
	return snap
}

// Restore replaces the ledger state with a stored snapshot. Rows that
// violate the ledger invariants (non-positive qty, empty symbol) are
// dropped rather than propagated; a damaged snapshot degrades to a
// partial or default state instead of crashing the account.
func (l *Ledger) Restore(snap Snapshot) {
	l.cash = snap.Cash
	l.orders = nil
	for _, o := range snap.Orders {
		if o.ID == "" || o.Symbol == "" {
			continue
		}
		l.orders = append(l.orders, o)
	}
	l.positions = map[string]model.Position{}
	for sym, pos := range snap.Positions {
		if sym == "" || pos.Qty.LessThanOrEqual(decimal.Zero) {
			continue
		}
		pos.Symbol = sym
		l.positions[sym] = pos
	}
}
