package paper

import (
	"errors"
	"net/http"
	"strings"

	"lv-paperdesk/internal/httputil"
	"lv-paperdesk/internal/marketdata"
	"lv-paperdesk/internal/types"

	"github.com/shopspring/decimal"
)

type Handler struct {
	svc   *Service
	board *marketdata.QuoteBoard
}

func NewHandler(svc *Service, board *marketdata.QuoteBoard) *Handler {
	return &Handler{svc: svc, board: board}
}

type submitOrderRequest struct {
	Symbol     string `json:"symbol"`
	Side       string `json:"side"`
	Kind       string `json:"kind"`
	Qty        string `json:"qty"`
	Price      string `json:"price"`
	LimitPrice string `json:"limit_price"`
	StopPrice  string `json:"stop_price"`
	AssetType  string `json:"asset_type"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request, userID string) {
	var req submitOrderRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "symbol is required"})
		return
	}
	qty, err := decimal.NewFromString(req.Qty)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid qty"})
		return
	}
	var price decimal.Decimal
	if req.Price != "" {
		price, err = decimal.NewFromString(req.Price)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid price"})
			return
		}
	} else if px, ok := h.board.GetPrice(symbol); ok {
		price = px
	}
	var limitPrice *decimal.Decimal
	if req.LimitPrice != "" {
		p, err := decimal.NewFromString(req.LimitPrice)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid limit_price"})
			return
		}
		limitPrice = &p
	}
	var stopPrice *decimal.Decimal
	if req.StopPrice != "" {
		p, err := decimal.NewFromString(req.StopPrice)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid stop_price"})
			return
		}
		stopPrice = &p
	}
	order, err := h.svc.SubmitOrder(userID, SubmitRequest{
		Symbol:     symbol,
		Side:       types.OrderSide(req.Side),
		Kind:       types.OrderKind(req.Kind),
		Qty:        qty,
		Price:      price,
		LimitPrice: limitPrice,
		StopPrice:  stopPrice,
		AssetType:  types.AssetType(req.AssetType),
	})
	if err != nil {
		httputil.WriteJSON(w, statusFor(err), httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, order)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request, userID, orderID string) {
	order, changed := h.svc.CancelOrder(userID, orderID)
	if order.ID == "" {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"cancelled": false})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"cancelled": changed, "order": order})
}

type executeOrderRequest struct {
	Price string `json:"price"`
}

// Execute fills a pending order, at the body price when given and at
// the current quote otherwise.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request, userID, orderID string) {
	var req executeOrderRequest
	if err := httputil.ReadJSON(r, &req); err != nil && r.ContentLength > 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	var price decimal.Decimal
	if req.Price != "" {
		p, err := decimal.NewFromString(req.Price)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid price"})
			return
		}
		price = p
	} else {
		pending := h.svc.PendingOrders(userID)
		for _, o := range pending {
			if o.ID == orderID {
				if px, ok := h.board.GetPrice(o.Symbol); ok {
					price = px
				}
				break
			}
		}
		if price.IsZero() {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "no price available"})
			return
		}
	}
	order, found, err := h.svc.ExecuteOrder(userID, orderID, price)
	if err != nil {
		httputil.WriteJSON(w, statusFor(err), httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if !found {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"executed": false})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"executed": true, "order": order})
}

func (h *Handler) Orders(w http.ResponseWriter, r *http.Request, userID string) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"orders": h.svc.Orders(userID)})
}

func (h *Handler) Pending(w http.ResponseWriter, r *http.Request, userID string) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"orders": h.svc.PendingOrders(userID)})
}

func (h *Handler) Positions(w http.ResponseWriter, r *http.Request, userID string) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"positions": h.svc.Positions(userID)})
}

func (h *Handler) Account(w http.ResponseWriter, r *http.Request, userID string) {
	httputil.WriteJSON(w, http.StatusOK, h.svc.Summary(userID))
}

type depositRequest struct {
	Amount string `json:"amount"`
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request, userID string) {
	var req depositRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid amount"})
		return
	}
	cash, err := h.svc.AddFunds(userID, amount)
	if err != nil {
		httputil.WriteJSON(w, statusFor(err), httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"cash": cash})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request, userID string) {
	h.svc.ResetAccount(userID)
	httputil.WriteJSON(w, http.StatusOK, h.svc.Summary(userID))
}

// Sweep forces an execution pass over every quoted symbol. Internal
// endpoint for hosts that poll instead of running the tick executor.
func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	filled := 0
	for symbol, px := range h.board.All() {
		filled += h.svc.SweepSymbol(symbol, px)
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"filled": filled})
}

func statusFor(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsInsufficientHoldings(err):
		return http.StatusConflict
	case errors.Is(err, ErrTriggerNotMet):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
