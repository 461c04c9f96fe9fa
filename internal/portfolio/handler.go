package portfolio

import (
	"errors"
	"net/http"
	"strings"

	"lv-paperdesk/internal/httputil"
	"lv-paperdesk/internal/paper"
	"lv-paperdesk/internal/types"

	"github.com/shopspring/decimal"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type addPositionRequest struct {
	Symbol     string `json:"symbol"`
	Qty        string `json:"qty"`
	Price      string `json:"price"`
	TotalValue string `json:"total_value"`
	Name       string `json:"name"`
	AssetType  string `json:"asset_type"`
	Category   string `json:"category"`
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request, userID string) {
	var req addPositionRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	qty, err := decimal.NewFromString(req.Qty)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid qty"})
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid price"})
		return
	}
	totalValue := decimal.Zero
	if req.TotalValue != "" {
		totalValue, err = decimal.NewFromString(req.TotalValue)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid total_value"})
			return
		}
	}
	pos, err := h.svc.AddPosition(userID, AddRequest{
		Symbol:     symbol,
		Qty:        qty,
		Price:      price,
		TotalValue: totalValue,
		Name:       strings.TrimSpace(req.Name),
		AssetType:  types.AssetType(req.AssetType),
		Category:   strings.TrimSpace(req.Category),
	})
	if err != nil {
		httputil.WriteJSON(w, statusFor(err), httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, pos)
}

type sellPositionRequest struct {
	Qty   string `json:"qty"`
	Price string `json:"price"`
}

func (h *Handler) Sell(w http.ResponseWriter, r *http.Request, userID, symbol string) {
	var req sellPositionRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	qty, err := decimal.NewFromString(req.Qty)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid qty"})
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid price"})
		return
	}
	pos, err := h.svc.SellPosition(userID, strings.ToUpper(symbol), qty, price)
	if err != nil {
		httputil.WriteJSON(w, statusFor(err), httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pos)
}

type updatePositionRequest struct {
	Qty             string `json:"qty"`
	AvgPrice        string `json:"avg_price"`
	TotalInvestment string `json:"total_investment"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, userID, symbol string) {
	var req updatePositionRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	qty, err := decimal.NewFromString(req.Qty)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid qty"})
		return
	}
	avgPrice, err := decimal.NewFromString(req.AvgPrice)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid avg_price"})
		return
	}
	totalInvestment, err := decimal.NewFromString(req.TotalInvestment)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid total_investment"})
		return
	}
	pos, found, err := h.svc.UpdatePosition(userID, strings.ToUpper(symbol), qty, avgPrice, totalInvestment)
	if err != nil {
		httputil.WriteJSON(w, statusFor(err), httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"updated": found, "position": pos})
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request, userID, symbol string) {
	removed, err := h.svc.RemovePosition(userID, strings.ToUpper(symbol))
	if err != nil {
		httputil.WriteJSON(w, statusFor(err), httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.svc.ClearPortfolio(userID); err != nil {
		httputil.WriteJSON(w, statusFor(err), httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

func (h *Handler) Positions(w http.ResponseWriter, r *http.Request, userID string) {
	positions, err := h.svc.Positions(userID)
	if err != nil {
		httputil.WriteJSON(w, statusFor(err), httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"positions": positions})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request, userID string) {
	history, err := h.svc.History(userID)
	if err != nil {
		httputil.WriteJSON(w, statusFor(err), httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"history": history})
}

func (h *Handler) Valuation(w http.ResponseWriter, r *http.Request, userID string) {
	valuation, err := h.svc.Valuation(userID)
	if err != nil {
		httputil.WriteJSON(w, statusFor(err), httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, valuation)
}

func statusFor(err error) int {
	var ve *paper.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	var he *paper.InsufficientHoldingsError
	if errors.As(err, &he) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
