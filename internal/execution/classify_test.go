package execution

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"futuresOrderBot/internal/ports"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"connection failed", ports.ErrConnectionFailed, Network},
		{"timeout", ports.ErrTimeout, Network},
		{"exchange unavailable", ports.ErrExchangeUnavailable, Network},
		{"context deadline", context.DeadlineExceeded, Network},
		{"dns failure", &net.DNSError{Err: "no such host", Name: "fapi.binance.com"}, Network},
		{"rate limited", ports.ErrRateLimited, RateLimit},
		{"authentication failed", ports.ErrAuthenticationFailed, Authentication},
		{"invalid api keys", ports.ErrInvalidAPIKeys, Authentication},
		{"permission denied", ports.ErrPermissionDenied, Authentication},
		{"insufficient funds", ports.ErrInsufficientFunds, BusinessLogic},
		{"order rejected", ports.ErrOrderPlacementFailed, BusinessLogic},
		{"invalid request", ports.ErrInvalidRequest, BusinessLogic},
		{"unknown", ports.ErrUnknown, BusinessLogic},
		{"plain error", errors.New("something odd"), BusinessLogic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassify_WalksWrappedChains(t *testing.T) {
	// The gateway wraps sentinels the way the adapter does: op + sentinel + raw.
	err := fmt.Errorf("PlaceOrder failed: %w: %w", ports.ErrRateLimited, errors.New("code=-1003"))
	assert.Equal(t, RateLimit, Classify(err))
}

func TestClassify_Deterministic(t *testing.T) {
	err := fmt.Errorf("op failed: %w", ports.ErrConnectionFailed)
	first := Classify(err)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(err))
	}
}

func TestCategory_Retryable(t *testing.T) {
	assert.True(t, Network.Retryable())
	assert.True(t, RateLimit.Retryable())
	assert.False(t, BusinessLogic.Retryable())
	assert.False(t, Authentication.Retryable())
}
