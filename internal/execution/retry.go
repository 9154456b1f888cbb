package execution

import (
	"context"
	"time"

	"github.com/jpillora/backoff"

	"futuresOrderBot/internal/ports"
)

// Policy configures the retry behaviour around the order placement call.
// It is plain configuration and is never mutated at runtime.
type Policy struct {
	MaxAttempts    int           // total attempts including the first (default 3)
	BaseDelay      time.Duration // first backoff delay for network errors (default 1s)
	Factor         float64       // backoff multiplier per attempt (default 2)
	MaxDelay       time.Duration // cap for the network backoff (default 60s)
	RateLimitDelay time.Duration // first backoff delay after a rate limit (default 10s)
	RateLimitCap   time.Duration // cap for any single rate-limit wait (default 5m)
	Jitter         bool          // randomize delays to avoid thundering herd
}

// DefaultPolicy returns the standard retry configuration.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		BaseDelay:      time.Second,
		Factor:         2.0,
		MaxDelay:       60 * time.Second,
		RateLimitDelay: 10 * time.Second,
		RateLimitCap:   5 * time.Minute,
		Jitter:         true,
	}
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = def.BaseDelay
	}
	if p.Factor <= 1 {
		p.Factor = def.Factor
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = def.MaxDelay
	}
	if p.RateLimitDelay <= 0 {
		p.RateLimitDelay = def.RateLimitDelay
	}
	if p.RateLimitCap <= 0 {
		p.RateLimitCap = def.RateLimitCap
	}
	return p
}

// Outcome is the terminal result of an order placement run. Exactly one of
// Placed/Failed holds: on success Order is set, on failure Category, Message
// and Err describe the last error. Errors never propagate past this boundary.
type Outcome struct {
	Placed   bool
	Order    *ports.OrderResponse
	Category Category
	Message  string
	Err      error
	Attempts int
	Duration time.Duration
}

// Call is the underlying exchange operation being retried. It must represent
// a single in-flight request; Execute never runs two calls concurrently.
type Call func(ctx context.Context) (*ports.OrderResponse, error)

// Execute runs call under the retry policy.
//
// Network failures are retried up to MaxAttempts with exponential backoff
// (BaseDelay, BaseDelay x Factor, ...), rate limits on a longer schedule
// capped at RateLimitCap per wait. Business and authentication failures fail
// immediately. Waits abort promptly when ctx is cancelled.
func Execute(ctx context.Context, policy Policy, call Call, logger ports.Logger) Outcome {
	policy = policy.withDefaults()
	start := time.Now()

	netDelays := &backoff.Backoff{
		Min:    policy.BaseDelay,
		Max:    policy.MaxDelay,
		Factor: policy.Factor,
		Jitter: policy.Jitter,
	}
	rateLimitDelays := &backoff.Backoff{
		Min:    policy.RateLimitDelay,
		Max:    policy.RateLimitCap,
		Factor: policy.Factor,
		Jitter: policy.Jitter,
	}

	var lastErr error
	var lastCategory Category

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		resp, err := call(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info(ctx, "Order placement succeeded after retries", map[string]interface{}{
					"attempts": attempt,
				})
			}
			return Outcome{
				Placed:   true,
				Order:    resp,
				Attempts: attempt,
				Duration: time.Since(start),
			}
		}

		lastErr = err
		lastCategory = Classify(err)
		logger.Warn(ctx, "Order placement attempt failed", map[string]interface{}{
			"attempt":  attempt,
			"category": string(lastCategory),
			"error":    err.Error(),
		})

		if !lastCategory.Retryable() {
			logger.Error(ctx, err, "Order placement failed permanently", map[string]interface{}{
				"category": string(lastCategory),
				"attempts": attempt,
			})
			return failedOutcome(lastCategory, err, attempt, start)
		}
		if attempt == policy.MaxAttempts {
			break
		}

		// Each schedule only advances when it is the one consulted, so a
		// rate-limit wait does not skip a step of the network schedule.
		var delay time.Duration
		if lastCategory == RateLimit {
			delay = rateLimitDelays.Duration()
		} else {
			delay = netDelays.Duration()
		}
		logger.Info(ctx, "Retrying order placement after backoff", map[string]interface{}{
			"attempt":  attempt,
			"category": string(lastCategory),
			"delay":    delay.String(),
		})

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Warn(ctx, "Retry wait aborted by context", map[string]interface{}{
				"attempt": attempt,
			})
			return failedOutcome(lastCategory, ctx.Err(), attempt, start)
		case <-timer.C:
		}
	}

	logger.Error(ctx, lastErr, "Order placement failed, retry attempts exhausted", map[string]interface{}{
		"category": string(lastCategory),
		"attempts": policy.MaxAttempts,
	})
	return failedOutcome(lastCategory, lastErr, policy.MaxAttempts, start)
}

func failedOutcome(category Category, err error, attempts int, start time.Time) Outcome {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Outcome{
		Category: category,
		Message:  msg,
		Err:      err,
		Attempts: attempts,
		Duration: time.Since(start),
	}
}

// Fail builds a terminal failed outcome without invoking the exchange, used
// by the service when validation rejects the request up front.
func Fail(category Category, err error) Outcome {
	return failedOutcome(category, err, 0, time.Now())
}
