package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futuresOrderBot/internal/domain"
)

func TestForType(t *testing.T) {
	t.Run("market", func(t *testing.T) {
		strat, err := ForType("market")
		require.NoError(t, err)
		assert.Equal(t, domain.Market, strat.OrderType())
	})

	t.Run("limit case insensitive", func(t *testing.T) {
		strat, err := ForType("  LIMIT ")
		require.NoError(t, err)
		assert.Equal(t, domain.Limit, strat.OrderType())
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ForType("stop_limit")
		require.ErrorIs(t, err, ErrUnknownStrategy)
		assert.Contains(t, err.Error(), "limit, market")
	})
}

func TestSupportedTypes(t *testing.T) {
	assert.Equal(t, []string{"limit", "market"}, SupportedTypes())
}

func TestMarketStrategy_BuildOrder(t *testing.T) {
	strat := &MarketStrategy{}
	req := &domain.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     domain.Buy,
		Quantity: decimal.RequireFromString("0.001"),
		Type:     domain.Market,
	}

	payload, err := strat.BuildOrder(req)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", payload.Symbol)
	assert.Equal(t, domain.Buy, payload.Side)
	assert.Equal(t, domain.Market, payload.Type)
	assert.Equal(t, "0.001", payload.Quantity)
	// Market payloads must not carry a price or a time-in-force.
	assert.Empty(t, payload.Price)
	assert.Empty(t, payload.TimeInForce)
	assert.NotEmpty(t, payload.ClientOrderID)
}

func TestMarketStrategy_RejectsPrice(t *testing.T) {
	strat := &MarketStrategy{}
	price := decimal.RequireFromString("50000")
	_, err := strat.BuildOrder(&domain.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     domain.Buy,
		Quantity: decimal.RequireFromString("0.001"),
		Type:     domain.Market,
		Price:    &price,
	})
	require.Error(t, err)
}

func TestLimitStrategy_BuildOrder(t *testing.T) {
	strat := &LimitStrategy{}
	price := decimal.RequireFromString("2500.50")
	req := &domain.OrderRequest{
		Symbol:   "ETHUSDT",
		Side:     domain.Sell,
		Quantity: decimal.RequireFromString("0.1"),
		Type:     domain.Limit,
		Price:    &price,
	}

	payload, err := strat.BuildOrder(req)
	require.NoError(t, err)
	assert.Equal(t, "ETHUSDT", payload.Symbol)
	assert.Equal(t, domain.Limit, payload.Type)
	assert.Equal(t, "0.1", payload.Quantity)
	assert.Equal(t, "2500.5", payload.Price)
	assert.Equal(t, domain.TimeInForceGTC, payload.TimeInForce)
	assert.NotEmpty(t, payload.ClientOrderID)
}

func TestLimitStrategy_RequiresPrice(t *testing.T) {
	strat := &LimitStrategy{}
	_, err := strat.BuildOrder(&domain.OrderRequest{
		Symbol:   "ETHUSDT",
		Side:     domain.Sell,
		Quantity: decimal.RequireFromString("0.1"),
		Type:     domain.Limit,
	})
	require.Error(t, err)
}

func TestClientOrderIDsAreUnique(t *testing.T) {
	strat := &MarketStrategy{}
	req := &domain.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     domain.Buy,
		Quantity: decimal.RequireFromString("1"),
		Type:     domain.Market,
	}

	a, err := strat.BuildOrder(req)
	require.NoError(t, err)
	b, err := strat.BuildOrder(req)
	require.NoError(t, err)
	assert.NotEqual(t, a.ClientOrderID, b.ClientOrderID)
}
