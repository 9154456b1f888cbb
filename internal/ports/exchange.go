package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"futuresOrderBot/internal/domain"
)

// OrderResponse represents the essential details returned after placing an order.
type OrderResponse struct {
	OrderID       int64     // Exchange's order ID
	Symbol        string    // Symbol for the order
	ClientOrderID string    // User-defined order ID
	Price         float64   // Price of the order (0 for market orders initially)
	AvgPrice      float64   // Average filled price
	OrigQuantity  float64   // Original quantity requested
	ExecutedQty   float64   // Quantity filled
	Status        string    // Order status (e.g., NEW, FILLED, CANCELED)
	TimeInForce   string    // Time in force (e.g., GTC, IOC, FOK)
	Type          string    // Order type (MARKET, LIMIT)
	Side          string    // Order side (BUY, SELL)
	Timestamp     time.Time // Time the order response was generated
}

// ExchangeClient defines the interface for interacting with a cryptocurrency
// exchange. This abstraction decouples the order pipeline from the specific
// exchange implementation; failures it returns carry enough signal (wrapped
// sentinel errors from this package) for the classifier to categorize them.
type ExchangeClient interface {
	// Ping checks the connectivity to the exchange API.
	Ping(ctx context.Context) error

	// SetServerTime synchronizes the client's time with the server's time.
	SetServerTime(ctx context.Context) error

	// GetSymbolLimits retrieves the trading constraints for a symbol from the
	// exchange info endpoint. Returns ErrSymbolNotFound (wrapped) if the
	// symbol does not exist or is not actively trading.
	GetSymbolLimits(ctx context.Context, symbol string) (*domain.SymbolLimits, error)

	// GetAvailableBalance retrieves the available (free) balance for an asset
	// such as "USDT".
	GetAvailableBalance(ctx context.Context, asset string) (decimal.Decimal, error)

	// GetMarkPrice retrieves the current mark price for a symbol.
	GetMarkPrice(ctx context.Context, symbol string) (decimal.Decimal, error)

	// PlaceOrder submits a prepared order payload (market or limit) and
	// returns the essential order details on success.
	PlaceOrder(ctx context.Context, payload *domain.OrderPayload) (*OrderResponse, error)
}
