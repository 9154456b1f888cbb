package strategy

import (
	"fmt"

	"futuresOrderBot/internal/domain"
)

// MarketStrategy builds orders that execute immediately at the current market
// price. The payload carries no price and no time-in-force.
type MarketStrategy struct{}

func (s *MarketStrategy) OrderType() domain.OrderType { return domain.Market }

func (s *MarketStrategy) BuildOrder(req *domain.OrderRequest) (*domain.OrderPayload, error) {
	if req == nil {
		return nil, fmt.Errorf("market strategy: nil request")
	}
	if req.Price != nil {
		return nil, fmt.Errorf("market strategy: request carries a price; use a limit order to set one")
	}

	return &domain.OrderPayload{
		Symbol:        req.Symbol,
		Side:          req.Side,
		Type:          domain.Market,
		Quantity:      req.Quantity.String(),
		ClientOrderID: newClientOrderID(),
	}, nil
}
