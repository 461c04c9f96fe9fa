package marketdata

import (
	"net/http"
	"strings"

	"lv-paperdesk/internal/httputil"
)

type Handler struct {
	board *QuoteBoard
	WS    *QuoteWS
}

func NewHandler(board *QuoteBoard, ws *QuoteWS) *Handler {
	return &Handler{board: board, WS: ws}
}

type quotesResponse struct {
	Quotes map[string]string `json:"quotes"`
}

// Quotes returns current prices, either the whole board or the
// requested comma-separated symbols.
func (h *Handler) Quotes(w http.ResponseWriter, r *http.Request) {
	out := quotesResponse{Quotes: map[string]string{}}
	raw := strings.TrimSpace(r.URL.Query().Get("symbols"))
	if raw == "" {
		for sym, px := range h.board.All() {
			out.Quotes[sym] = px.String()
		}
		httputil.WriteJSON(w, http.StatusOK, out)
		return
	}
	for _, sym := range strings.Split(raw, ",") {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		if px, ok := h.board.GetPrice(sym); ok {
			out.Quotes[sym] = px.String()
		}
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
