// Package strategy translates validated order requests into exchange-ready
// payloads, one strategy per order type. Adding a new order type means adding
// one new variant and one registry entry; nothing else changes.
package strategy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"futuresOrderBot/internal/domain"
)

// ErrUnknownStrategy is returned by ForType for unregistered order types.
var ErrUnknownStrategy = errors.New("unknown order strategy")

// Strategy defines the capability each order type variant implements.
type Strategy interface {
	// OrderType returns the exchange order type this strategy emits.
	OrderType() domain.OrderType

	// BuildOrder translates a validated request into the exact payload the
	// exchange API expects for this order type.
	BuildOrder(req *domain.OrderRequest) (*domain.OrderPayload, error)
}

// registry maps lower-case order type labels to their strategy.
var registry = map[string]Strategy{
	"market": &MarketStrategy{},
	"limit":  &LimitStrategy{},
}

// ForType selects the strategy for an order type label (case-insensitive).
func ForType(label string) (Strategy, error) {
	strat, ok := registry[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnknownStrategy, label, strings.Join(SupportedTypes(), ", "))
	}
	return strat, nil
}

// SupportedTypes returns the registered order type labels, sorted for stable
// CLI help and error messages.
func SupportedTypes() []string {
	types := make([]string, 0, len(registry))
	for label := range registry {
		types = append(types, label)
	}
	sort.Strings(types)
	return types
}

// newClientOrderID generates a client order ID the exchange will echo back,
// letting log lines be correlated with exchange records. Binance caps the
// field at 36 characters, exactly a UUID.
func newClientOrderID() string {
	return uuid.NewString()
}
