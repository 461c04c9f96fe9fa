package portfolio

import (
	"testing"

	"lv-paperdesk/internal/paper"
	"lv-paperdesk/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddPositionCreates(t *testing.T) {
	l := NewLedger()

	pos, err := l.AddPosition(AddRequest{
		Symbol:    "AAPL",
		Qty:       dec("10"),
		Price:     dec("150"),
		Name:      "Apple Inc.",
		AssetType: types.AssetTypeStock,
		Category:  "tech",
	})
	require.NoError(t, err)
	assert.True(t, pos.Qty.Equal(dec("10")))
	assert.True(t, pos.AvgCost.Equal(dec("150")))
	assert.True(t, pos.TotalInvestment.Equal(dec("1500")))
	assert.Equal(t, types.AssetTypeStock, pos.AssetType)

	history := l.History()
	require.Len(t, history, 1)
	assert.Equal(t, types.OrderSideBuy, history[0].Side)
	assert.True(t, history[0].Total.Equal(dec("1500")))
}

func TestAddPositionMergesWeighted(t *testing.T) {
	l := NewLedger()

	_, err := l.AddPosition(AddRequest{Symbol: "AAPL", Qty: dec("10"), Price: dec("100")})
	require.NoError(t, err)
	pos, err := l.AddPosition(AddRequest{Symbol: "AAPL", Qty: dec("5"), Price: dec("200")})
	require.NoError(t, err)

	assert.True(t, pos.Qty.Equal(dec("15")))
	assert.True(t, pos.TotalInvestment.Equal(dec("2000")))
	want := dec("2000").Div(dec("15"))
	assert.True(t, pos.AvgCost.Equal(want), "avg cost %s want %s", pos.AvgCost, want)
	assert.Len(t, l.History(), 2)
}

func TestAddPositionExplicitTotalValue(t *testing.T) {
	l := NewLedger()

	// total value includes fees, so it can differ from qty*price
	pos, err := l.AddPosition(AddRequest{
		Symbol: "VOO", Qty: dec("2"), Price: dec("400"), TotalValue: dec("805"),
	})
	require.NoError(t, err)
	assert.True(t, pos.TotalInvestment.Equal(dec("805")))
	assert.True(t, pos.AvgCost.Equal(dec("400")))
}

func TestAddPositionValidation(t *testing.T) {
	l := NewLedger()

	tests := []struct {
		name string
		req  AddRequest
	}{
		{name: "missing symbol", req: AddRequest{Qty: dec("1"), Price: dec("10")}},
		{name: "zero qty", req: AddRequest{Symbol: "AAPL", Qty: dec("0"), Price: dec("10")}},
		{name: "zero price", req: AddRequest{Symbol: "AAPL", Qty: dec("1"), Price: dec("0")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.AddPosition(tt.req)
			require.Error(t, err)
			assert.True(t, paper.IsValidation(err))
		})
	}
	assert.Empty(t, l.Positions())
	assert.Empty(t, l.History())
}

func TestSellPositionPartialPreservesAvgCost(t *testing.T) {
	l := NewLedger()

	_, err := l.AddPosition(AddRequest{Symbol: "AAPL", Qty: dec("10"), Price: dec("100")})
	require.NoError(t, err)

	pos, err := l.SellPosition("AAPL", dec("4"), dec("130"))
	require.NoError(t, err)
	assert.True(t, pos.Qty.Equal(dec("6")))
	// investment shrinks proportionally: 1000 * 6/10
	assert.True(t, pos.TotalInvestment.Equal(dec("600")), "investment %s", pos.TotalInvestment)
	assert.True(t, pos.AvgCost.Equal(dec("100")), "avg cost must not move on sell")

	history := l.History()
	require.Len(t, history, 2)
	last := history[len(history)-1]
	assert.Equal(t, types.OrderSideSell, last.Side)
	assert.True(t, last.Price.Equal(dec("130")))
	assert.True(t, last.Total.Equal(dec("520")))
}

func TestSellPositionFullRemoves(t *testing.T) {
	l := NewLedger()

	_, err := l.AddPosition(AddRequest{Symbol: "AAPL", Qty: dec("3"), Price: dec("100")})
	require.NoError(t, err)
	_, err = l.SellPosition("AAPL", dec("3"), dec("110"))
	require.NoError(t, err)

	_, ok := l.Position("AAPL")
	assert.False(t, ok)
	assert.Len(t, l.History(), 2, "sell history entry must survive removal")
}

func TestSellPositionInsufficient(t *testing.T) {
	l := NewLedger()

	_, err := l.AddPosition(AddRequest{Symbol: "AAPL", Qty: dec("2"), Price: dec("100")})
	require.NoError(t, err)

	_, err = l.SellPosition("AAPL", dec("3"), dec("100"))
	require.Error(t, err)
	assert.True(t, paper.IsInsufficientHoldings(err))
	pos, ok := l.Position("AAPL")
	require.True(t, ok)
	assert.True(t, pos.Qty.Equal(dec("2")), "rejected sell must not touch the position")

	_, err = l.SellPosition("GHOST", dec("1"), dec("100"))
	require.Error(t, err)
	assert.True(t, paper.IsInsufficientHoldings(err))
}

func TestUpdatePosition(t *testing.T) {
	l := NewLedger()

	_, err := l.AddPosition(AddRequest{Symbol: "AAPL", Qty: dec("10"), Price: dec("100")})
	require.NoError(t, err)

	pos, ok := l.UpdatePosition("AAPL", dec("8"), dec("95"), dec("760"))
	require.True(t, ok)
	assert.True(t, pos.Qty.Equal(dec("8")))
	assert.True(t, pos.AvgCost.Equal(dec("95")))
	assert.True(t, pos.TotalInvestment.Equal(dec("760")))

	_, ok = l.UpdatePosition("GHOST", dec("1"), dec("1"), dec("1"))
	assert.False(t, ok, "unknown symbol is a no-op")

	_, ok = l.UpdatePosition("AAPL", dec("0"), dec("95"), dec("0"))
	require.True(t, ok)
	_, found := l.Position("AAPL")
	assert.False(t, found, "zero qty update removes the position")
}

func TestRemovePosition(t *testing.T) {
	l := NewLedger()

	_, err := l.AddPosition(AddRequest{Symbol: "AAPL", Qty: dec("10"), Price: dec("100")})
	require.NoError(t, err)

	assert.True(t, l.RemovePosition("AAPL"))
	assert.False(t, l.RemovePosition("AAPL"))
	assert.Len(t, l.History(), 1, "remove writes no history entry")
}

func TestClearPortfolioKeepsHistory(t *testing.T) {
	l := NewLedger()

	_, err := l.AddPosition(AddRequest{Symbol: "AAPL", Qty: dec("10"), Price: dec("100")})
	require.NoError(t, err)
	_, err = l.AddPosition(AddRequest{Symbol: "VOO", Qty: dec("2"), Price: dec("400")})
	require.NoError(t, err)

	l.ClearPortfolio()
	assert.Empty(t, l.Positions())
	assert.Len(t, l.History(), 2)
}

func TestTotalInvestmentAndMarketValue(t *testing.T) {
	l := NewLedger()

	_, err := l.AddPosition(AddRequest{Symbol: "AAPL", Qty: dec("10"), Price: dec("100")})
	require.NoError(t, err)
	_, err = l.AddPosition(AddRequest{Symbol: "VOO", Qty: dec("2"), Price: dec("400")})
	require.NoError(t, err)

	assert.True(t, l.TotalInvestment().Equal(dec("1800")))

	quotes := map[string]decimal.Decimal{"AAPL": dec("120")}
	value := l.MarketValue(func(symbol string) (decimal.Decimal, bool) {
		px, ok := quotes[symbol]
		return px, ok
	})
	// 10*120 quoted + 2*400 at avg cost fallback
	assert.True(t, value.Equal(dec("2000")), "value %s", value)
}
