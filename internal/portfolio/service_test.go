package portfolio

import (
	"testing"

	"lv-paperdesk/internal/repository"
	"lv-paperdesk/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource map[string]string

func (f fakeSource) GetPrice(symbol string) (decimal.Decimal, bool) {
	s, ok := f[symbol]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.RequireFromString(s), true
}

func newTestService(t *testing.T) (*Service, *repository.Repository) {
	t.Helper()
	repo, err := repository.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return NewService(repo, fakeSource{"AAPL": "120"}), repo
}

func TestServiceAddPersistsPositionAndTrade(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.AddPosition("u1", AddRequest{
		Symbol: "AAPL", Qty: dec("10"), Price: dec("100"), Name: "Apple Inc.",
		AssetType: types.AssetTypeStock,
	})
	require.NoError(t, err)

	stored, err := repo.ListPositions("u1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Qty.Equal(dec("10")))

	history, err := svc.History("u1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, types.OrderSideBuy, history[0].Side)
	assert.True(t, history[0].Total.Equal(dec("1000")))
}

func TestServiceHydratesFromRepository(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.AddPosition("u1", AddRequest{Symbol: "AAPL", Qty: dec("10"), Price: dec("100")})
	require.NoError(t, err)

	// fresh service over the same repository, as after a restart
	reloaded := NewService(repo, fakeSource{})
	positions, err := reloaded.Positions("u1")
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.True(t, positions[0].AvgCost.Equal(dec("100")))
}

func TestServiceSellUpdatesRepository(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.AddPosition("u1", AddRequest{Symbol: "AAPL", Qty: dec("10"), Price: dec("100")})
	require.NoError(t, err)

	pos, err := svc.SellPosition("u1", "AAPL", dec("4"), dec("130"))
	require.NoError(t, err)
	assert.True(t, pos.Qty.Equal(dec("6")))

	stored, err := repo.ListPositions("u1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Qty.Equal(dec("6")))
	assert.True(t, stored[0].TotalInvestment.Equal(dec("600")))

	_, err = svc.SellPosition("u1", "AAPL", dec("6"), dec("130"))
	require.NoError(t, err)
	stored, err = repo.ListPositions("u1")
	require.NoError(t, err)
	assert.Empty(t, stored, "full sell deletes the stored row")

	history, err := svc.History("u1")
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestServiceClearKeepsHistory(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.AddPosition("u1", AddRequest{Symbol: "AAPL", Qty: dec("10"), Price: dec("100")})
	require.NoError(t, err)
	_, err = svc.AddPosition("u1", AddRequest{Symbol: "VOO", Qty: dec("2"), Price: dec("400")})
	require.NoError(t, err)

	require.NoError(t, svc.ClearPortfolio("u1"))

	positions, err := svc.Positions("u1")
	require.NoError(t, err)
	assert.Empty(t, positions)
	stored, err := repo.ListPositions("u1")
	require.NoError(t, err)
	assert.Empty(t, stored)

	history, err := svc.History("u1")
	require.NoError(t, err)
	assert.Len(t, history, 2, "trade history survives a clear")
}

func TestServiceRemoveAndUpdate(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.AddPosition("u1", AddRequest{Symbol: "AAPL", Qty: dec("10"), Price: dec("100")})
	require.NoError(t, err)

	_, found, err := svc.UpdatePosition("u1", "AAPL", dec("8"), dec("95"), dec("760"))
	require.NoError(t, err)
	require.True(t, found)
	stored, err := repo.ListPositions("u1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Qty.Equal(dec("8")))

	_, found, err = svc.UpdatePosition("u1", "GHOST", dec("1"), dec("1"), dec("1"))
	require.NoError(t, err)
	assert.False(t, found)

	removed, err := svc.RemovePosition("u1", "AAPL")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = svc.RemovePosition("u1", "AAPL")
	require.NoError(t, err)
	assert.False(t, removed)

	history, err := svc.History("u1")
	require.NoError(t, err)
	assert.Len(t, history, 1, "update and remove write no trade entries")
}

func TestServiceValuation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddPosition("u1", AddRequest{Symbol: "AAPL", Qty: dec("10"), Price: dec("100")})
	require.NoError(t, err)
	_, err = svc.AddPosition("u1", AddRequest{Symbol: "VOO", Qty: dec("2"), Price: dec("400")})
	require.NoError(t, err)

	v, err := svc.Valuation("u1")
	require.NoError(t, err)
	assert.True(t, v.TotalInvestment.Equal(dec("1800")))
	// AAPL quoted at 120, VOO falls back to avg cost
	assert.True(t, v.MarketValue.Equal(dec("2000")), "market value %s", v.MarketValue)
}
