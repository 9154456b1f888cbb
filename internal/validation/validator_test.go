package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futuresOrderBot/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidate_ValidMarketOrder(t *testing.T) {
	req, errs := Validate(RawParams{
		Symbol:   "BTCUSDT",
		Side:     "buy",
		Quantity: "0.001",
		Type:     "market",
	}, nil, nil)

	require.Empty(t, errs)
	require.NotNil(t, req)
	assert.Equal(t, "BTCUSDT", req.Symbol)
	assert.Equal(t, domain.Buy, req.Side)
	assert.Equal(t, domain.Market, req.Type)
	assert.True(t, req.Quantity.Equal(dec("0.001")))
	assert.Nil(t, req.Price)
}

func TestValidate_ValidLimitOrder(t *testing.T) {
	req, errs := Validate(RawParams{
		Symbol:   "ethusdt", // lower case input is normalized
		Side:     "SELL",
		Quantity: "0.1",
		Type:     "Limit",
		Price:    "2500.50",
	}, nil, nil)

	require.Empty(t, errs)
	require.NotNil(t, req)
	assert.Equal(t, "ETHUSDT", req.Symbol)
	assert.Equal(t, domain.Sell, req.Side)
	assert.Equal(t, domain.Limit, req.Type)
	require.NotNil(t, req.Price)
	assert.True(t, req.Price.Equal(dec("2500.50")))
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	// Four independent problems must yield four distinct failures, never a
	// partial pass.
	req, errs := Validate(RawParams{
		Symbol:   "",
		Side:     "hold",
		Quantity: "-1",
		Type:     "limit",
	}, nil, nil)

	require.Nil(t, req)
	assert.Equal(t, []string{
		CodeInvalidSymbol,
		CodeInvalidSide,
		CodeInvalidQuantity,
		CodeMissingPrice,
	}, errs.Codes())
}

func TestValidate_LimitWithoutPrice(t *testing.T) {
	req, errs := Validate(RawParams{
		Symbol:   "BTCUSDT",
		Side:     "sell",
		Quantity: "0.1",
		Type:     "limit",
	}, nil, nil)

	require.Nil(t, req)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeMissingPrice, errs[0].Code)
}

func TestValidate_MarketWithPrice(t *testing.T) {
	req, errs := Validate(RawParams{
		Symbol:   "BTCUSDT",
		Side:     "buy",
		Quantity: "0.1",
		Type:     "market",
		Price:    "50000",
	}, nil, nil)

	require.Nil(t, req)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeInvalidPrice, errs[0].Code)
}

func TestValidate_FieldFailures(t *testing.T) {
	tests := []struct {
		name     string
		raw      RawParams
		wantCode string
	}{
		{
			name:     "symbol too short",
			raw:      RawParams{Symbol: "BTC", Side: "buy", Quantity: "1", Type: "market"},
			wantCode: CodeInvalidSymbol,
		},
		{
			name:     "symbol with lowercase punctuation",
			raw:      RawParams{Symbol: "BTC-USDT!", Side: "buy", Quantity: "1", Type: "market"},
			wantCode: CodeInvalidSymbol,
		},
		{
			name:     "quantity not a number",
			raw:      RawParams{Symbol: "BTCUSDT", Side: "buy", Quantity: "abc", Type: "market"},
			wantCode: CodeInvalidQuantity,
		},
		{
			name:     "quantity zero",
			raw:      RawParams{Symbol: "BTCUSDT", Side: "buy", Quantity: "0", Type: "market"},
			wantCode: CodeInvalidQuantity,
		},
		{
			name:     "unsupported type",
			raw:      RawParams{Symbol: "BTCUSDT", Side: "buy", Quantity: "1", Type: "stop_limit"},
			wantCode: CodeInvalidType,
		},
		{
			name:     "limit price not positive",
			raw:      RawParams{Symbol: "BTCUSDT", Side: "buy", Quantity: "1", Type: "limit", Price: "-5"},
			wantCode: CodeInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, errs := Validate(tt.raw, nil, nil)
			require.Nil(t, req)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantCode, errs[0].Code)
		})
	}
}

func TestValidate_SymbolLimits(t *testing.T) {
	limits := &domain.SymbolLimits{
		Symbol:   "BTCUSDT",
		MinQty:   dec("0.001"),
		MaxQty:   dec("1000"),
		StepSize: dec("0.001"),
		MinPrice: dec("0.1"),
		MaxPrice: dec("1000000"),
		TickSize: dec("0.1"),
	}

	tests := []struct {
		name     string
		raw      RawParams
		wantCode string
	}{
		{
			name:     "quantity below minimum lot",
			raw:      RawParams{Symbol: "BTCUSDT", Side: "buy", Quantity: "0.0001", Type: "market"},
			wantCode: CodeInvalidQuantity,
		},
		{
			name:     "quantity off lot step",
			raw:      RawParams{Symbol: "BTCUSDT", Side: "buy", Quantity: "0.0015", Type: "market"},
			wantCode: CodeInvalidQuantity,
		},
		{
			name:     "quantity above maximum",
			raw:      RawParams{Symbol: "BTCUSDT", Side: "buy", Quantity: "5000", Type: "market"},
			wantCode: CodeInvalidQuantity,
		},
		{
			name:     "price off tick size",
			raw:      RawParams{Symbol: "BTCUSDT", Side: "buy", Quantity: "0.001", Type: "limit", Price: "50000.05"},
			wantCode: CodeInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, errs := Validate(tt.raw, limits, nil)
			require.Nil(t, req)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantCode, errs[0].Code)
		})
	}

	t.Run("conforming order passes", func(t *testing.T) {
		req, errs := Validate(RawParams{
			Symbol: "BTCUSDT", Side: "buy", Quantity: "0.002", Type: "limit", Price: "50000.1",
		}, limits, nil)
		require.Empty(t, errs)
		require.NotNil(t, req)
	})
}

func TestValidate_BalanceCheck(t *testing.T) {
	acct := &domain.AccountSnapshot{
		AvailableBalance: dec("100"),
		MarkPrice:        dec("50000"),
	}

	t.Run("limit buy exceeding balance", func(t *testing.T) {
		req, errs := Validate(RawParams{
			Symbol: "BTCUSDT", Side: "buy", Quantity: "0.01", Type: "limit", Price: "50000",
		}, nil, acct)
		require.Nil(t, req)
		require.Len(t, errs, 1)
		assert.Equal(t, CodeInsufficientBalance, errs[0].Code)
		// The message must name both sides of the comparison.
		assert.Contains(t, errs[0].Message, "500")
		assert.Contains(t, errs[0].Message, "100")
	})

	t.Run("limit buy within balance", func(t *testing.T) {
		req, errs := Validate(RawParams{
			Symbol: "BTCUSDT", Side: "buy", Quantity: "0.001", Type: "limit", Price: "50000",
		}, nil, acct)
		require.Empty(t, errs)
		require.NotNil(t, req)
	})

	t.Run("market buy costed at mark price", func(t *testing.T) {
		req, errs := Validate(RawParams{
			Symbol: "BTCUSDT", Side: "buy", Quantity: "0.01", Type: "market",
		}, nil, acct)
		require.Nil(t, req)
		require.Len(t, errs, 1)
		assert.Equal(t, CodeInsufficientBalance, errs[0].Code)
	})

	t.Run("sell needs no margin", func(t *testing.T) {
		req, errs := Validate(RawParams{
			Symbol: "BTCUSDT", Side: "sell", Quantity: "100", Type: "market",
		}, nil, acct)
		require.Empty(t, errs)
		require.NotNil(t, req)
	})

	t.Run("skipped when snapshot absent", func(t *testing.T) {
		req, errs := Validate(RawParams{
			Symbol: "BTCUSDT", Side: "buy", Quantity: "100", Type: "limit", Price: "50000",
		}, nil, nil)
		require.Empty(t, errs)
		require.NotNil(t, req)
	})
}
