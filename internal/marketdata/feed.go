package marketdata

import (
	"log"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type Quote struct {
	Type      string `json:"type"`
	Symbol    string `json:"symbol"`
	Price     string `json:"price"`
	Timestamp int64  `json:"ts"`
}

type symbolState struct {
	price float64
	vol   float64
	prec  int32
}

// Feed simulates a market: one random-walk price series per symbol,
// published to the bus and mirrored onto the quote board on every
// tick. The walk is a pure function of symbol and tick time, so two
// feeds over the same symbols produce the same series.
type Feed struct {
	bus      *Bus
	board    *QuoteBoard
	interval time.Duration
	states   map[string]*symbolState
	stop     chan struct{}
	done     chan struct{}
}

func NewFeed(bus *Bus, board *QuoteBoard, symbols []string, interval time.Duration) *Feed {
	f := &Feed{
		bus:      bus,
		board:    board,
		interval: interval,
		states:   map[string]*symbolState{},
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, sym := range symbols {
		if sym == "" {
			continue
		}
		f.states[sym] = seedState(sym)
	}
	return f
}

// Start publishes one initial tick synchronously so the board is never
// empty, then runs the walk in the background until Stop.
func (f *Feed) Start() {
	now := time.Now().UTC()
	for sym := range f.states {
		f.tick(sym, now)
	}
	log.Printf("[Feed] publishing %d symbols every %s", len(f.states), f.interval)
	go func() {
		defer close(f.done)
		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()
		for {
			select {
			case <-f.stop:
				return
			case t := <-ticker.C:
				for sym := range f.states {
					f.tick(sym, t.UTC())
				}
			}
		}
	}()
}

func (f *Feed) Stop() {
	close(f.stop)
	<-f.done
}

func (f *Feed) tick(symbol string, now time.Time) {
	st := f.states[symbol]
	st.price = evolvePrice(symbol, st.price, st.vol, now.UnixMilli())
	px := decimal.NewFromFloat(st.price).Round(st.prec)
	f.board.Set(symbol, px)
	f.bus.Publish(Event{Type: "quote", Data: Quote{
		Type:      "quote",
		Symbol:    symbol,
		Price:     px.String(),
		Timestamp: now.UnixMilli(),
	}})
}

// seedState derives a stable starting price and volatility from the
// symbol name, so restarts begin in the same neighborhood.
func seedState(symbol string) *symbolState {
	h := int64(0)
	for i := 0; i < len(symbol); i++ {
		h = h*31 + int64(symbol[i])
	}
	base := 20 + math.Abs(float64(h%977))
	return &symbolState{
		price: base,
		vol:   0.0005 + rand01(h)*0.002,
		prec:  4,
	}
}

func evolvePrice(symbol string, prev, vol float64, nowMillis int64) float64 {
	seed := nowMillis
	for i := 0; i < len(symbol); i++ {
		seed += int64(symbol[i]) * 131
	}
	next := prev * (1 + randNorm(seed)*vol)
	if next <= 0.0001 {
		next = prev
	}
	return next
}

func randNorm(seed int64) float64 {
	u1 := rand01(seed + 17)
	u2 := rand01(seed + 71)
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

func rand01(seed int64) float64 {
	x := uint64(seed)
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	return float64(x%1000000)/1000000 + 0.000001
}
