package paper

import (
	"time"

	"lv-paperdesk/internal/model"
	"lv-paperdesk/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger holds the virtual cash balance, open positions and order log
// of one paper-trading account. It is a single-writer structure: the
// owning service serializes access, the ledger itself does not lock.
//
// Order lifecycle:
//
//	SubmitOrder(market) -> completed
//	SubmitOrder(other)  -> pending
//	pending -- ExecuteOrder --> completed
//	pending -- CancelOrder  --> cancelled
//
// Completed and cancelled are terminal. Every mutation is
// all-or-nothing: a rejected request leaves the ledger untouched.
type Ledger struct {
	initialCash decimal.Decimal
	cash        decimal.Decimal
	orders      []model.Order
	positions   map[string]model.Position
}

func NewLedger(initialCash decimal.Decimal) *Ledger {
	return &Ledger{
		initialCash: initialCash,
		cash:        initialCash,
		positions:   map[string]model.Position{},
	}
}

type SubmitRequest struct {
	Symbol     string
	Side       types.OrderSide
	Kind       types.OrderKind
	Qty        decimal.Decimal
	Price      decimal.Decimal
	LimitPrice *decimal.Decimal
	StopPrice  *decimal.Decimal
	// AssetType should always be supplied by the caller; when empty the
	// ledger falls back to classifySymbol.
	AssetType types.AssetType
}

// SubmitOrder validates the request, executes market orders
// immediately and queues every other kind as pending.
func (l *Ledger) SubmitOrder(req SubmitRequest) (model.Order, error) {
	if req.Symbol == "" {
		return model.Order{}, validationErr("symbol is required")
	}
	if !req.Side.Valid() {
		return model.Order{}, validationErr("invalid side")
	}
	if !req.Kind.Valid() {
		return model.Order{}, validationErr("invalid order kind")
	}
	if req.Qty.LessThanOrEqual(decimal.Zero) {
		return model.Order{}, validationErr("qty must be positive")
	}
	switch req.Kind {
	case types.OrderKindLimit:
		if req.LimitPrice == nil || req.LimitPrice.LessThanOrEqual(decimal.Zero) {
			return model.Order{}, validationErr("limit_price must be positive")
		}
	case types.OrderKindStop:
		if req.StopPrice == nil || req.StopPrice.LessThanOrEqual(decimal.Zero) {
			return model.Order{}, validationErr("stop_price must be positive")
		}
	case types.OrderKindStopLimit:
		if req.LimitPrice == nil || req.LimitPrice.LessThanOrEqual(decimal.Zero) {
			return model.Order{}, validationErr("limit_price must be positive")
		}
		if req.StopPrice == nil || req.StopPrice.LessThanOrEqual(decimal.Zero) {
			return model.Order{}, validationErr("stop_price must be positive")
		}
	case types.OrderKindMarket:
		if req.Price.LessThanOrEqual(decimal.Zero) {
			return model.Order{}, validationErr("price must be positive")
		}
	}

	assetType := req.AssetType
	if assetType == "" {
		assetType = classifySymbol(req.Symbol)
	}
	order := model.Order{
		ID:             uuid.NewString(),
		Symbol:         req.Symbol,
		Side:           req.Side,
		Kind:           req.Kind,
		Status:         types.OrderStatusPending,
		AssetType:      assetType,
		Qty:            req.Qty,
		RequestedPrice: req.Price,
		LimitPrice:     req.LimitPrice,
		StopPrice:      req.StopPrice,
		SubmittedAt:    time.Now().UTC(),
	}

	if req.Kind == types.OrderKindMarket {
		if err := l.apply(req.Symbol, req.Side, req.Qty, req.Price, assetType); err != nil {
			return model.Order{}, err
		}
		fill(&order, req.Price)
	}
	l.orders = append(l.orders, order)
	return order, nil
}

// CancelOrder moves a pending order to cancelled. Unknown or terminal
// orders are a silent no-op; callers rely on that contract. The second
// return reports whether anything changed.
func (l *Ledger) CancelOrder(id string) (model.Order, bool) {
	for i := range l.orders {
		if l.orders[i].ID != id {
			continue
		}
		if l.orders[i].Status != types.OrderStatusPending {
			return l.orders[i], false
		}
		l.orders[i].Status = types.OrderStatusCancelled
		return l.orders[i], true
	}
	return model.Order{}, false
}

// ExecuteOrder fills a pending order at currentPrice, re-pricing it:
// the requested price is ignored, the execution value is
// qty*currentPrice. The limit/stop trigger is validated here rather
// than trusted to the caller; ErrTriggerNotMet leaves the order
// pending. Unknown or terminal orders are a no-op (found == false).
func (l *Ledger) ExecuteOrder(id string, currentPrice decimal.Decimal) (model.Order, bool, error) {
	idx := -1
	for i := range l.orders {
		if l.orders[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 || l.orders[idx].Status != types.OrderStatusPending {
		return model.Order{}, false, nil
	}
	if currentPrice.LessThanOrEqual(decimal.Zero) {
		return model.Order{}, true, validationErr("price must be positive")
	}
	order := l.orders[idx]
	if !triggerSatisfied(order, currentPrice) {
		return order, true, ErrTriggerNotMet
	}
	if err := l.apply(order.Symbol, order.Side, order.Qty, currentPrice, order.AssetType); err != nil {
		return order, true, err
	}
	fill(&l.orders[idx], currentPrice)
	return l.orders[idx], true, nil
}

// apply settles a fill against cash and positions. Rejections happen
// before any mutation.
func (l *Ledger) apply(symbol string, side types.OrderSide, qty, price decimal.Decimal, assetType types.AssetType) error {
	value := qty.Mul(price)
	if side == types.OrderSideSell {
		pos, ok := l.positions[symbol]
		if !ok || pos.Qty.LessThan(qty) {
			held := decimal.Zero
			if ok {
				held = pos.Qty
			}
			return &InsufficientHoldingsError{Symbol: symbol, Requested: qty, Held: held}
		}
		pos.Qty = pos.Qty.Sub(qty)
		if pos.Qty.IsZero() {
			delete(l.positions, symbol)
		} else {
			l.positions[symbol] = pos
		}
		l.cash = l.cash.Add(value)
		return nil
	}
	pos, ok := l.positions[symbol]
	if !ok {
		l.positions[symbol] = model.Position{
			Symbol:    symbol,
			AssetType: assetType,
			Qty:       qty,
			AvgCost:   price,
		}
	} else {
		newQty := pos.Qty.Add(qty)
		pos.AvgCost = pos.Qty.Mul(pos.AvgCost).Add(value).Div(newQty)
		pos.Qty = newQty
		l.positions[symbol] = pos
	}
	l.cash = l.cash.Sub(value)
	return nil
}

func fill(o *model.Order, price decimal.Decimal) {
	value := o.Qty.Mul(price)
	o.Status = types.OrderStatusCompleted
	o.ExecutedPrice = &price
	o.ExecutedValue = &value
}

func triggerSatisfied(o model.Order, price decimal.Decimal) bool {
	switch o.Kind {
	case types.OrderKindLimit:
		if o.Side == types.OrderSideBuy {
			return price.LessThanOrEqual(*o.LimitPrice)
		}
		return price.GreaterThanOrEqual(*o.LimitPrice)
	case types.OrderKindStop:
		if o.Side == types.OrderSideBuy {
			return price.GreaterThanOrEqual(*o.StopPrice)
		}
		return price.LessThanOrEqual(*o.StopPrice)
	case types.OrderKindStopLimit:
		if o.Side == types.OrderSideBuy {
			return price.GreaterThanOrEqual(*o.StopPrice) && price.LessThanOrEqual(*o.LimitPrice)
		}
		return price.LessThanOrEqual(*o.StopPrice) && price.GreaterThanOrEqual(*o.LimitPrice)
	}
	return true
}

// AddFunds credits cash. There is no upper bound.
func (l *Ledger) AddFunds(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return validationErr("amount must be positive")
	}
	l.cash = l.cash.Add(amount)
	return nil
}

// ResetAccount restores the initial cash balance and clears all orders
// and positions. Calling it twice is the same as calling it once.
func (l *Ledger) ResetAccount() {
	l.cash = l.initialCash
	l.orders = nil
	l.positions = map[string]model.Position{}
}

func (l *Ledger) Cash() decimal.Decimal {
	return l.cash
}

func (l *Ledger) Orders() []model.Order {
	out := make([]model.Order, len(l.orders))
	copy(out, l.orders)
	return out
}

func (l *Ledger) PendingOrders() []model.Order {
	out := make([]model.Order, 0)
	for _, o := range l.orders {
		if o.Status == types.OrderStatusPending {
			out = append(out, o)
		}
	}
	return out
}

func (l *Ledger) Order(id string) (model.Order, bool) {
	for _, o := range l.orders {
		if o.ID == id {
			return o, true
		}
	}
	return model.Order{}, false
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

// PortfolioValue sums qty*price over all positions, falling back to
// the average cost when the price source has no quote for a symbol.
func (l *Ledger) PortfolioValue(price func(symbol string) (decimal.Decimal, bool)) decimal.Decimal {
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

// classifySymbol guesses the asset type from the symbol shape when the
// caller did not supply one. Short plain tickers read as stocks,
// everything else as crypto. Known to be fragile; callers over HTTP
// always pass an explicit type.
func classifySymbol(symbol string) types.AssetType {
	if len(symbol) <= 5 && !containsDash(symbol) {
		return types.AssetTypeStock
	}
	return types.AssetTypeCrypto
}

func containsDash(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '-' {
			return true
		}
	}
	return false
}
