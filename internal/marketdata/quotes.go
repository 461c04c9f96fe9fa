package marketdata

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Source resolves a symbol to a best-effort current price. Both
// ledgers take a Source by injection; nothing reads ambient market
// state.
type Source interface {
	GetPrice(symbol string) (decimal.Decimal, bool)
}

// QuoteBoard is the in-memory quote table behind Source. The feed
// writes it, ledgers and handlers read it.
type QuoteBoard struct {
	mu   sync.RWMutex
	data map[string]decimal.Decimal
}

func NewQuoteBoard() *QuoteBoard {
	return &QuoteBoard{data: map[string]decimal.Decimal{}}
}

func (b *QuoteBoard) Set(symbol string, price decimal.Decimal) {
	if symbol == "" || price.LessThanOrEqual(decimal.Zero) {
		return
	}
	b.mu.Lock()
	b.data[symbol] = price
	b.mu.Unlock()
}

func (b *QuoteBoard) GetPrice(symbol string) (decimal.Decimal, bool) {
	b.mu.RLock()
	px, ok := b.data[symbol]
	b.mu.RUnlock()
	return px, ok
}

func (b *QuoteBoard) All() map[string]decimal.Decimal {
	b.mu.RLock()
	out := make(map[string]decimal.Decimal, len(b.data))
	for sym, px := range b.data {
		out[sym] = px
	}
	b.mu.RUnlock()
	return out
}
