package strategy

import (
	"fmt"

	"futuresOrderBot/internal/domain"
)

// LimitStrategy builds orders that rest on the book until the market reaches
// the requested price. Defaults to GTC time-in-force.
type LimitStrategy struct{}

func (s *LimitStrategy) OrderType() domain.OrderType { return domain.Limit }

func (s *LimitStrategy) BuildOrder(req *domain.OrderRequest) (*domain.OrderPayload, error) {
	if req == nil {
		return nil, fmt.Errorf("limit strategy: nil request")
	}
	if req.Price == nil {
		return nil, fmt.Errorf("limit strategy: request is missing a price")
	}
	if !req.Price.IsPositive() {
		return nil, fmt.Errorf("limit strategy: price must be positive, got %s", req.Price)
	}

	return &domain.OrderPayload{
		Symbol:        req.Symbol,
		Side:          req.Side,
		Type:          domain.Limit,
		Quantity:      req.Quantity.String(),
		Price:         req.Price.String(),
		TimeInForce:   domain.TimeInForceGTC,
		ClientOrderID: newClientOrderID(),
	}, nil
}
