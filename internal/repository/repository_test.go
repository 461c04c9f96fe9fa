package repository

import (
	"testing"
	"time"

	"lv-paperdesk/internal/model"
	"lv-paperdesk/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

func TestCreateUser(t *testing.T) {
	repo := openTestRepo(t)

	u, err := repo.CreateUser("Trader@Example.com", "hash1")
	require.NoError(t, err)
	assert.Equal(t, "trader@example.com", u.Email, "email is normalized")
	assert.NotEmpty(t, u.ID)

	_, err = repo.CreateUser("trader@example.com", "hash2")
	assert.ErrorIs(t, err, ErrEmailTaken)

	byEmail, err := repo.UserByEmail("TRADER@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "hash1", byEmail.Hash)

	byID, err := repo.UserByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)

	_, err = repo.UserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.UserByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSavePositionUpsert(t *testing.T) {
	repo := openTestRepo(t)

	pos := model.Position{
		Symbol:          "AAPL",
		AssetType:       types.AssetTypeStock,
		Qty:             dec("10"),
		AvgCost:         dec("150.25"),
		TotalInvestment: dec("1502.5"),
		Name:            "Apple Inc.",
		Category:        "tech",
	}
	require.NoError(t, repo.SavePosition("u1", pos))

	pos.Qty = dec("15")
	pos.TotalInvestment = dec("2252.5")
	require.NoError(t, repo.SavePosition("u1", pos))

	got, err := repo.ListPositions("u1")
	require.NoError(t, err)
	require.Len(t, got, 1, "same user+symbol must upsert, not duplicate")
	assert.True(t, got[0].Qty.Equal(dec("15")))
	assert.True(t, got[0].AvgCost.Equal(dec("150.25")), "decimals survive the string round trip")
	assert.True(t, got[0].TotalInvestment.Equal(dec("2252.5")))
	assert.Equal(t, types.AssetTypeStock, got[0].AssetType)
}

func TestPositionsScopedByUser(t *testing.T) {
	repo := openTestRepo(t)

	require.NoError(t, repo.SavePosition("u1", model.Position{Symbol: "AAPL", Qty: dec("1"), AvgCost: dec("100"), TotalInvestment: dec("100")}))
	require.NoError(t, repo.SavePosition("u2", model.Position{Symbol: "AAPL", Qty: dec("2"), AvgCost: dec("90"), TotalInvestment: dec("180")}))
	require.NoError(t, repo.SavePosition("u2", model.Position{Symbol: "VOO", Qty: dec("3"), AvgCost: dec("400"), TotalInvestment: dec("1200")}))

	p1, err := repo.ListPositions("u1")
	require.NoError(t, err)
	assert.Len(t, p1, 1)

	p2, err := repo.ListPositions("u2")
	require.NoError(t, err)
	require.Len(t, p2, 2)
	assert.Equal(t, "AAPL", p2[0].Symbol, "listed in symbol order")
	assert.Equal(t, "VOO", p2[1].Symbol)

	require.NoError(t, repo.DeletePosition("u2", "AAPL"))
	p2, err = repo.ListPositions("u2")
	require.NoError(t, err)
	assert.Len(t, p2, 1)

	require.NoError(t, repo.DeleteAllPositions("u2"))
	p2, err = repo.ListPositions("u2")
	require.NoError(t, err)
	assert.Empty(t, p2)

	p1, err = repo.ListPositions("u1")
	require.NoError(t, err)
	assert.Len(t, p1, 1, "other users are untouched")
}

func TestTradeHistory(t *testing.T) {
	repo := openTestRepo(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []model.TradeHistoryEntry{
		{ID: uuid.NewString(), Timestamp: base, Symbol: "AAPL", Side: types.OrderSideBuy, Qty: dec("10"), Price: dec("100"), Total: dec("1000")},
		{ID: uuid.NewString(), Timestamp: base.Add(time.Minute), Symbol: "AAPL", Side: types.OrderSideSell, Qty: dec("4"), Price: dec("110"), Total: dec("440")},
	}
	for _, e := range entries {
		require.NoError(t, repo.InsertTrade("u1", e))
	}
	require.NoError(t, repo.InsertTrade("u2", model.TradeHistoryEntry{
		ID: uuid.NewString(), Timestamp: base, Symbol: "VOO", Side: types.OrderSideBuy, Qty: dec("1"), Price: dec("400"), Total: dec("400"),
	}))

	got, err := repo.ListTrades("u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entries[1].ID, got[0].ID, "newest first")
	assert.Equal(t, types.OrderSideSell, got[0].Side)
	assert.True(t, got[0].Total.Equal(dec("440")))
	assert.Equal(t, entries[0].ID, got[1].ID)
}
