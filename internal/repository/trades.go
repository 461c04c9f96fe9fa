package repository

import (
	"time"

	"lv-paperdesk/internal/model"
	"lv-paperdesk/internal/types"
)

// Trade history rows are append-only: inserted once, never updated or
// deleted, not even by a portfolio clear.
type tradeRecord struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index;not null"`
	Timestamp time.Time
	Symbol    string
	Name      string
	Side      string
	Qty       string
	Price     string
	Total     string
}

func (tradeRecord) TableName() string { return "trade_history" }

func (r *Repository) InsertTrade(userID string, entry model.TradeHistoryEntry) error {
	rec := tradeRecord{
		ID:        entry.ID,
		UserID:    userID,
		Timestamp: entry.Timestamp,
		Symbol:    entry.Symbol,
		Name:      entry.Name,
		Side:      string(entry.Side),
		Qty:       entry.Qty.String(),
		Price:     entry.Price.String(),
		Total:     entry.Total.String(),
	}
	return r.db.Create(&rec).Error
}

func (r *Repository) ListTrades(userID string) ([]model.TradeHistoryEntry, error) {
	var recs []tradeRecord
	if err := r.db.Where("user_id = ?", userID).Order("timestamp desc, id desc").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]model.TradeHistoryEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, model.TradeHistoryEntry{
			ID:        rec.ID,
			Timestamp: rec.Timestamp,
			Symbol:    rec.Symbol,
			Name:      rec.Name,
			Side:      types.OrderSide(rec.Side),
			Qty:       mustDecimal(rec.Qty),
			Price:     mustDecimal(rec.Price),
			Total:     mustDecimal(rec.Total),
		})
	}
	return out, nil
}
