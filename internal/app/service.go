// Package app wires the order pipeline together: pre-trade data, validation,
// strategy dispatch, and the retry-wrapped exchange call.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"futuresOrderBot/config"
	"futuresOrderBot/internal/domain"
	"futuresOrderBot/internal/execution"
	"futuresOrderBot/internal/ports"
	"futuresOrderBot/internal/strategy"
	"futuresOrderBot/internal/validation"
)

// Service orchestrates a single order placement per invocation.
type Service struct {
	cfg      *config.Config
	logger   ports.Logger
	exchange ports.ExchangeClient
}

// OrderParams are the raw CLI inputs for one order.
type OrderParams struct {
	validation.RawParams
	// SkipBalanceCheck disables the optional balance sufficiency validation
	// (and the account fetches backing it).
	SkipBalanceCheck bool
}

// NewService creates the application service.
func NewService(cfg *config.Config, logger ports.Logger, exchange ports.ExchangeClient) (*Service, error) {
	if cfg == nil || logger == nil || exchange == nil {
		return nil, fmt.Errorf("missing required dependencies for Service")
	}
	return &Service{
		cfg:      cfg,
		logger:   logger,
		exchange: exchange,
	}, nil
}

// Preflight verifies connectivity and synchronizes client time with the
// exchange before any authenticated call is attempted.
func (s *Service) Preflight(ctx context.Context) error {
	if err := s.exchange.Ping(ctx); err != nil {
		return fmt.Errorf("exchange connectivity check failed: %w", err)
	}
	if err := s.exchange.SetServerTime(ctx); err != nil {
		return fmt.Errorf("failed to synchronize server time: %w", err)
	}
	s.logger.Debug(ctx, "Preflight checks passed")
	return nil
}

// PlaceOrder runs the complete pipeline for one order and always returns a
// terminal outcome: validation failures surface as a failed outcome without
// the exchange ever being called.
func (s *Service) PlaceOrder(ctx context.Context, params OrderParams) execution.Outcome {
	symbol := strings.ToUpper(strings.TrimSpace(params.Symbol))

	limits, failed := s.fetchSymbolLimits(ctx, symbol)
	if failed != nil {
		return *failed
	}
	acct := s.fetchAccountSnapshot(ctx, symbol, params)

	req, verrs := validation.Validate(params.RawParams, limits, acct)
	if len(verrs) > 0 {
		s.logger.Warn(ctx, "Order rejected by validation", map[string]interface{}{
			"failures": verrs.Codes(),
			"detail":   verrs.Error(),
		})
		return execution.Fail(execution.BusinessLogic, verrs)
	}

	strat, err := strategy.ForType(params.Type)
	if err != nil {
		// Unreachable after validation, but the registry stays authoritative.
		s.logger.Error(ctx, err, "No strategy for order type", map[string]interface{}{"type": params.Type})
		return execution.Fail(execution.BusinessLogic, err)
	}

	payload, err := strat.BuildOrder(req)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to build order payload")
		return execution.Fail(execution.BusinessLogic, err)
	}

	s.logger.Info(ctx, "Placing order", map[string]interface{}{
		"symbol":        payload.Symbol,
		"side":          payload.Side,
		"type":          payload.Type,
		"quantity":      payload.Quantity,
		"price":         payload.Price,
		"clientOrderID": payload.ClientOrderID,
	})

	outcome := execution.Execute(ctx, s.cfg.Retry, func(ctx context.Context) (*ports.OrderResponse, error) {
		return s.exchange.PlaceOrder(ctx, payload)
	}, s.logger)

	if outcome.Placed {
		s.logger.Info(ctx, "Order placed", map[string]interface{}{
			"orderID":  outcome.Order.OrderID,
			"status":   outcome.Order.Status,
			"attempts": outcome.Attempts,
			"duration": outcome.Duration.String(),
		})
	} else {
		s.logger.Error(ctx, outcome.Err, "Order failed", map[string]interface{}{
			"category": string(outcome.Category),
			"attempts": outcome.Attempts,
			"duration": outcome.Duration.String(),
		})
	}
	return outcome
}

// fetchSymbolLimits retrieves exchange constraints for the symbol. An unknown
// symbol is a terminal failure; any other fetch error downgrades to a warning
// and validation proceeds without exchange limits.
func (s *Service) fetchSymbolLimits(ctx context.Context, symbol string) (*domain.SymbolLimits, *execution.Outcome) {
	if symbol == "" {
		return nil, nil // the validator reports the empty symbol
	}

	limits, err := s.exchange.GetSymbolLimits(ctx, symbol)
	if err != nil {
		if errors.Is(err, ports.ErrSymbolNotFound) {
			s.logger.Warn(ctx, "Symbol not available on the exchange", map[string]interface{}{"symbol": symbol})
			outcome := execution.Fail(execution.BusinessLogic, err)
			return nil, &outcome
		}
		s.logger.Warn(ctx, "Could not fetch symbol limits, validating without them", map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		})
		return nil, nil
	}
	return limits, nil
}

// fetchAccountSnapshot gathers the balance and mark price backing the optional
// balance check. Best-effort: any failure logs a warning and the check is
// skipped. Sells are never costed, so nothing is fetched for them.
func (s *Service) fetchAccountSnapshot(ctx context.Context, symbol string, params OrderParams) *domain.AccountSnapshot {
	if params.SkipBalanceCheck {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(params.Side), "buy") {
		return nil
	}

	balance, err := s.exchange.GetAvailableBalance(ctx, s.cfg.MarginAsset)
	if err != nil {
		s.logger.Warn(ctx, "Could not fetch balance, skipping balance check", map[string]interface{}{
			"asset": s.cfg.MarginAsset,
			"error": err.Error(),
		})
		return nil
	}

	snapshot := &domain.AccountSnapshot{AvailableBalance: balance}
	if symbol != "" {
		markPrice, err := s.exchange.GetMarkPrice(ctx, symbol)
		if err != nil {
			s.logger.Warn(ctx, "Could not fetch mark price, market buys will not be costed", map[string]interface{}{
				"symbol": symbol,
				"error":  err.Error(),
			})
		} else {
			snapshot.MarkPrice = markPrice
		}
	}
	return snapshot
}
