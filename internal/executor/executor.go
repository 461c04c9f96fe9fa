package executor

import (
	"log"

	"lv-paperdesk/internal/marketdata"

	"github.com/shopspring/decimal"
)

// Sweeper is the slice of the paper service the executor needs.
type Sweeper interface {
	SweepSymbol(symbol string, price decimal.Decimal) int
}

// Executor is the price-tick loop that turns pending limit/stop
// orders into fills. It only decides when to try; whether a price
// satisfies an order's trigger is the ledger's call.
type Executor struct {
	bus     *marketdata.Bus
	sweeper Sweeper
	events  chan marketdata.Event
	done    chan struct{}
}

func New(bus *marketdata.Bus, sweeper Sweeper) *Executor {
	return &Executor{bus: bus, sweeper: sweeper, done: make(chan struct{})}
}

func (e *Executor) Start() {
	e.events = e.bus.Subscribe()
	go func() {
		defer close(e.done)
		for evt := range e.events {
			if evt.Type != "quote" {
				continue
			}
			quote, ok := evt.Data.(marketdata.Quote)
			if !ok {
				continue
			}
			price, err := decimal.NewFromString(quote.Price)
			if err != nil || price.LessThanOrEqual(decimal.Zero) {
				continue
			}
			if filled := e.sweeper.SweepSymbol(quote.Symbol, price); filled > 0 {
				log.Printf("[Executor] filled %d order(s) for %s at %s", filled, quote.Symbol, quote.Price)
			}
		}
	}()
}

func (e *Executor) Stop() {
	e.bus.Unsubscribe(e.events)
	<-e.done
}
