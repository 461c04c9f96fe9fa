package repository

import (
	"time"

	"lv-paperdesk/internal/model"
	"lv-paperdesk/internal/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// Decimals are stored as strings. sqlite would otherwise coerce them
// to float and leak precision into the average-cost arithmetic.
type positionRecord struct {
	ID              uint   `gorm:"primaryKey"`
	UserID          string `gorm:"uniqueIndex:idx_positions_user_symbol;not null"`
	Symbol          string `gorm:"uniqueIndex:idx_positions_user_symbol;not null"`
	AssetType       string
	Name            string
	Category        string
	Qty             string
	AvgCost         string
	TotalInvestment string
	UpdatedAt       time.Time
}

func (positionRecord) TableName() string { return "positions" }

func (rec positionRecord) toModel() model.Position {
	return model.Position{
		Symbol:          rec.Symbol,
		AssetType:       types.AssetType(rec.AssetType),
		Qty:             mustDecimal(rec.Qty),
		AvgCost:         mustDecimal(rec.AvgCost),
		TotalInvestment: mustDecimal(rec.TotalInvestment),
		Name:            rec.Name,
		Category:        rec.Category,
	}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (r *Repository) ListPositions(userID string) ([]model.Position, error) {
	var recs []positionRecord
	if err := r.db.Where("user_id = ?", userID).Order("symbol").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]model.Position, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toModel())
	}
	return out, nil
}

func (r *Repository) SavePosition(userID string, pos model.Position) error {
	rec := positionRecord{
		UserID:          userID,
		Symbol:          pos.Symbol,
		AssetType:       string(pos.AssetType),
		Name:            pos.Name,
		Category:        pos.Category,
		Qty:             pos.Qty.String(),
		AvgCost:         pos.AvgCost.String(),
		TotalInvestment: pos.TotalInvestment.String(),
		UpdatedAt:       time.Now().UTC(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"asset_type", "name", "category", "qty", "avg_cost", "total_investment", "updated_at"}),
	}).Create(&rec).Error
}

func (r *Repository) DeletePosition(userID, symbol string) error {
	return r.db.Where("user_id = ? and symbol = ?", userID, symbol).Delete(&positionRecord{}).Error
}

func (r *Repository) DeleteAllPositions(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&positionRecord{}).Error
}
