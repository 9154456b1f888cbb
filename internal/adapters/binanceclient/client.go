package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"

	"futuresOrderBot/internal/domain"
	"futuresOrderBot/internal/ports"
)

const (
	// Base URLs
	baseURLProduction = "https://fapi.binance.com"
	baseURLTestnet    = "https://testnet.binancefuture.com"
)

// Client implements the ports.ExchangeClient interface using the go-binance library.
type Client struct {
	futuresClient *futures.Client
	logger        ports.Logger
}

// Config holds configuration specific to the Binance client adapter.
type Config struct {
	APIKey     string
	SecretKey  string
	UseTestnet bool
	Logger     ports.Logger
}

// New creates a new Binance client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		cfg.Logger.Warn(context.Background(), "APIKey or SecretKey is empty. Client will only work for public endpoints.")
	}

	client := futures.NewClient(cfg.APIKey, cfg.SecretKey)

	// Set BaseURL directly instead of using the global futures.UseTestnet
	if cfg.UseTestnet {
		client.BaseURL = baseURLTestnet
		cfg.Logger.Info(context.Background(), "Binance client configured for Testnet", map[string]interface{}{"baseURL": client.BaseURL})
	} else {
		client.BaseURL = baseURLProduction
		cfg.Logger.Info(context.Background(), "Binance client configured for Production", map[string]interface{}{"baseURL": client.BaseURL})
	}

	return &Client{
		futuresClient: client,
		logger:        cfg.Logger,
	}, nil
}

// handleError translates common Binance API errors into standardized ports
// errors. The classifier downstream only ever matches on the ports sentinels,
// never on raw exchange codes.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		// Map specific Binance error codes to custom errors
		var mappedErr error
		switch apiErr.Code {
		case -1003, -1015: // Too many requests / too many new orders
			mappedErr = ports.ErrRateLimited
		case -1021: // Timestamp for this request is outside of the recvWindow
			mappedErr = ports.ErrTimeout
		case -1022: // Signature for this request is not valid
			mappedErr = ports.ErrAuthenticationFailed
		case -1002: // Unauthorized request
			mappedErr = ports.ErrAuthenticationFailed
		case -2014: // API-key format invalid
			mappedErr = ports.ErrInvalidAPIKeys
		case -2015: // Invalid API-key, IP, or permissions for action
			mappedErr = ports.ErrInvalidAPIKeys
		case -1101, -1102, -1103, -1104, -1105, -1106, -1111, -1115, -1116, -1117, -1120, -1121, -1125, -1127, -1128, -1130: // Parameter/Request format errors
			mappedErr = ports.ErrInvalidRequest
		case -2010: // New order rejected
			mappedErr = ports.ErrOrderPlacementFailed
		case -2019: // Margin is insufficient
			mappedErr = ports.ErrInsufficientFunds
		case -3005: // Insufficient balance
			mappedErr = ports.ErrInsufficientFunds
		case -4003: // Qty not within permissible range
			mappedErr = ports.ErrInvalidRequest
		case -4014: // Price not within permissible range
			mappedErr = ports.ErrInvalidRequest
		default:
			if apiErr.Code >= 500 && apiErr.Code < 600 { // HTTP 5xx surfaced as positive codes
				mappedErr = ports.ErrExchangeUnavailable
			} else {
				// General classification for unmapped API errors
				mappedErr = ports.ErrUnknown
			}
		}
		finalErr := fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return finalErr
	}

	// Handle non-API errors (network, context cancellation, etc.)
	var finalErr error
	if errors.Is(err, context.DeadlineExceeded) {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	} else if errors.Is(err, context.Canceled) {
		finalErr = fmt.Errorf("%s operation canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	} else if strings.Contains(err.Error(), "use of closed network connection") ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "connection reset by peer") ||
		strings.Contains(err.Error(), "no such host") {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrConnectionFailed, err)
	} else {
		// Default for other errors (e.g., parsing errors within the adapter)
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUnknown, err)
	}

	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}

// Ping checks the connectivity to the exchange API.
func (c *Client) Ping(ctx context.Context) error {
	op := "Ping"
	err := c.futuresClient.NewPingService().Do(ctx)
	if err != nil {
		return c.handleError(ctx, fmt.Errorf("ping failed: %w", err), op)
	}
	c.logger.Debug(ctx, op+" successful")
	return nil
}

// SetServerTime synchronizes the client's time with the server's time.
func (c *Client) SetServerTime(ctx context.Context) error {
	op := "SetServerTime"
	_, err := c.futuresClient.NewSetServerTimeService().Do(ctx)
	if err != nil {
		return c.handleError(ctx, err, op)
	}
	c.logger.Debug(ctx, op+" successful")
	return nil
}

// GetSymbolLimits retrieves the lot size and price filter constraints for a
// symbol from the exchange info endpoint. Symbols that do not exist or are
// not actively trading yield ErrSymbolNotFound.
func (c *Client) GetSymbolLimits(ctx context.Context, symbol string) (*domain.SymbolLimits, error) {
	op := "GetSymbolLimits"
	info, err := c.futuresClient.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	for i := range info.Symbols {
		s := &info.Symbols[i]
		if s.Symbol != symbol {
			continue
		}
		if s.Status != "TRADING" {
			err := fmt.Errorf("%w: %s has status %s", ports.ErrSymbolNotFound, symbol, s.Status)
			c.logger.Warn(ctx, op+": symbol not trading", map[string]interface{}{"symbol": symbol, "status": s.Status})
			return nil, err
		}

		limits := &domain.SymbolLimits{Symbol: symbol}
		if lot := s.LotSizeFilter(); lot != nil {
			limits.MinQty, err = parseDecimal(lot.MinQuantity, "minQty")
			if err != nil {
				return nil, c.handleError(ctx, err, op)
			}
			limits.MaxQty, err = parseDecimal(lot.MaxQuantity, "maxQty")
			if err != nil {
				return nil, c.handleError(ctx, err, op)
			}
			limits.StepSize, err = parseDecimal(lot.StepSize, "stepSize")
			if err != nil {
				return nil, c.handleError(ctx, err, op)
			}
		}
		if pf := s.PriceFilter(); pf != nil {
			limits.MinPrice, err = parseDecimal(pf.MinPrice, "minPrice")
			if err != nil {
				return nil, c.handleError(ctx, err, op)
			}
			limits.MaxPrice, err = parseDecimal(pf.MaxPrice, "maxPrice")
			if err != nil {
				return nil, c.handleError(ctx, err, op)
			}
			limits.TickSize, err = parseDecimal(pf.TickSize, "tickSize")
			if err != nil {
				return nil, c.handleError(ctx, err, op)
			}
		}
		c.logger.Debug(ctx, op+" successful", map[string]interface{}{
			"symbol":   symbol,
			"minQty":   limits.MinQty.String(),
			"stepSize": limits.StepSize.String(),
			"tickSize": limits.TickSize.String(),
		})
		return limits, nil
	}

	err = fmt.Errorf("%w: %s", ports.ErrSymbolNotFound, symbol)
	c.logger.Warn(ctx, op+": symbol not found", map[string]interface{}{"symbol": symbol})
	return nil, err
}

// GetAvailableBalance retrieves the available (free) balance for a specific
// asset (e.g., "USDT").
func (c *Client) GetAvailableBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	op := "GetAvailableBalance"
	account, err := c.futuresClient.NewGetAccountService().Do(ctx)
	if err != nil {
		return decimal.Zero, c.handleError(ctx, err, op)
	}

	for _, bal := range account.Assets {
		if bal.Asset == asset {
			balance, err := decimal.NewFromString(bal.AvailableBalance)
			if err != nil {
				parseErr := fmt.Errorf("could not parse balance '%s' for asset %s: %w", bal.AvailableBalance, asset, err)
				return decimal.Zero, c.handleError(ctx, parseErr, op)
			}
			return balance, nil
		}
	}

	// Asset not found in the account details
	err = fmt.Errorf("asset %s not found in account balance", asset)
	return decimal.Zero, c.handleError(ctx, err, op)
}

// GetMarkPrice retrieves the current mark price for a given symbol.
func (c *Client) GetMarkPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	op := "GetMarkPrice"
	tickers, err := c.futuresClient.NewPremiumIndexService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Zero, c.handleError(ctx, err, op)
	}
	if len(tickers) == 0 {
		err := fmt.Errorf("no price data returned for symbol %s", symbol)
		return decimal.Zero, c.handleError(ctx, err, op)
	}

	price, err := decimal.NewFromString(tickers[0].MarkPrice)
	if err != nil {
		parseErr := fmt.Errorf("could not parse price '%s': %w", tickers[0].MarkPrice, err)
		return decimal.Zero, c.handleError(ctx, parseErr, op)
	}
	return price, nil
}

// PlaceOrder submits a prepared order payload as a single authenticated call.
func (c *Client) PlaceOrder(ctx context.Context, payload *domain.OrderPayload) (*ports.OrderResponse, error) {
	op := "PlaceOrder"
	if payload == nil {
		return nil, c.handleError(ctx, fmt.Errorf("%w: nil payload", ports.ErrInvalidRequest), op)
	}

	svc := c.futuresClient.NewCreateOrderService().
		Symbol(payload.Symbol).
		Side(futures.SideType(payload.Side)).
		Type(futures.OrderType(payload.Type)).
		Quantity(payload.Quantity)

	if payload.ClientOrderID != "" {
		svc = svc.NewClientOrderID(payload.ClientOrderID)
	}
	if payload.Type == domain.Limit {
		svc = svc.Price(payload.Price).
			TimeInForce(futures.TimeInForceType(payload.TimeInForce))
	}

	order, err := svc.Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	resp := translateOrderResponse(order)
	c.logger.Info(ctx, op+" successful", map[string]interface{}{
		"symbol":   payload.Symbol,
		"side":     payload.Side,
		"type":     payload.Type,
		"quantity": payload.Quantity,
		"orderID":  resp.OrderID,
		"status":   resp.Status,
	})
	return resp, nil
}

// --- Translation Helpers ---

func translateOrderResponse(order *futures.CreateOrderResponse) *ports.OrderResponse {
	if order == nil {
		return nil
	}
	price, _ := strconv.ParseFloat(order.Price, 64)
	avgPrice, _ := strconv.ParseFloat(order.AvgPrice, 64)
	origQty, _ := strconv.ParseFloat(order.OrigQuantity, 64)
	execQty, _ := strconv.ParseFloat(order.ExecutedQuantity, 64)

	return &ports.OrderResponse{
		OrderID:       order.OrderID,
		Symbol:        order.Symbol,
		ClientOrderID: order.ClientOrderID,
		Price:         price,
		AvgPrice:      avgPrice,
		OrigQuantity:  origQty,
		ExecutedQty:   execQty,
		Status:        string(order.Status),
		TimeInForce:   string(order.TimeInForce),
		Type:          string(order.Type),
		Side:          string(order.Side),
		Timestamp:     time.UnixMilli(order.UpdateTime),
	}
}

func parseDecimal(raw, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not parse %s '%s': %w", field, raw, err)
	}
	return d, nil
}
