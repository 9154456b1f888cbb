package domain

import (
	"github.com/shopspring/decimal"
)

// OrderSide represents the side of an order (BUY or SELL).
type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

// OrderType represents the supported exchange order types.
type OrderType string

const (
	Market OrderType = "MARKET"
	Limit  OrderType = "LIMIT"
)

// TimeInForceGTC is the default time-in-force for limit orders.
const TimeInForceGTC = "GTC"

// OrderRequest is a fully validated order, constructed once per invocation
// and consumed by exactly one strategy call.
// Invariant: Price is non-nil if and only if Type is Limit.
type OrderRequest struct {
	Symbol   string
	Side     OrderSide
	Quantity decimal.Decimal
	Type     OrderType
	Price    *decimal.Decimal
}

// OrderPayload is the exchange-ready form of an order produced by a strategy.
// Quantity and Price are pre-formatted strings because the exchange API
// consumes decimal strings, not floats. Price and TimeInForce are empty for
// market orders.
type OrderPayload struct {
	Symbol        string
	Side          OrderSide
	Type          OrderType
	Quantity      string
	Price         string
	TimeInForce   string
	ClientOrderID string
}

// SymbolLimits holds the exchange-imposed constraints for one futures symbol,
// parsed from the LOT_SIZE and PRICE_FILTER exchange info filters.
type SymbolLimits struct {
	Symbol   string
	MinQty   decimal.Decimal
	MaxQty   decimal.Decimal
	StepSize decimal.Decimal
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	TickSize decimal.Decimal
}

// AccountSnapshot carries the account data needed for the optional balance
// sufficiency check. MarkPrice is used to cost market buys, where the fill
// price is not known up front.
type AccountSnapshot struct {
	AvailableBalance decimal.Decimal
	MarkPrice        decimal.Decimal
}
