package marketdata

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// QuoteWS streams quotes for one symbol to a websocket client at a
// fixed cadence, reading from the quote board rather than the bus so
// a slow client only affects itself.
type QuoteWS struct {
	origin   string
	board    *QuoteBoard
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewQuoteWS(origin string, board *QuoteBoard, interval time.Duration) *QuoteWS {
	return &QuoteWS{
		origin:   origin,
		board:    board,
		interval: interval,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return allowOrigin(r, origin) }},
	}
}

func (h *QuoteWS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		return
	}
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	for {
		select {
		case <-ticker.C:
			px, ok := h.board.GetPrice(symbol)
			if !ok {
				continue
			}
			msg := Quote{Type: "quote", Symbol: symbol, Price: px.String(), Timestamp: time.Now().UTC().UnixMilli()}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func allowOrigin(r *http.Request, origin string) bool {
	if origin == "*" {
		return true
	}
	return strings.EqualFold(r.Header.Get("Origin"), origin)
}
