package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"muscledynamics/workout-builder/internal/config"
)

// ErrNotReady is returned once the readiness probe gives up.
var ErrNotReady = errors.New("api did not become ready")

// HealthPolicy bounds WaitReady: the wait between attempts doubles from
// InitialInterval up to MaxInterval, and probing stops after MaxAttempts or
// Timeout, whichever comes first.
type HealthPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxAttempts     int
	Timeout         time.Duration
}

// PolicyFromConfig converts the client's health configuration.
func PolicyFromConfig(cfg config.HealthConfig) HealthPolicy {
	return HealthPolicy{
		InitialInterval: cfg.InitialInterval,
		MaxInterval:     cfg.MaxInterval,
		MaxAttempts:     cfg.MaxAttempts,
		Timeout:         cfg.Timeout,
	}
}

func (p HealthPolicy) withDefaults() HealthPolicy {
	if p.InitialInterval <= 0 {
		p.InitialInterval = 500 * time.Millisecond
	}
	if p.MaxInterval < p.InitialInterval {
		p.MaxInterval = p.InitialInterval
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 10
	}
	return p
}

// Backoff returns the wait after the given 1-based failed attempt.
func (p HealthPolicy) Backoff(attempt int) time.Duration {
	p = p.withDefaults()
	d := p.InitialInterval
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.MaxInterval {
			return p.MaxInterval
		}
	}
	return d
}

// WaitReady polls Health until it succeeds, the policy is exhausted or ctx is
// cancelled. onAttempt, when non-nil, sees every failed attempt.
func (c *Client) WaitReady(ctx context.Context, policy HealthPolicy, onAttempt func(attempt int, err error)) error {
	policy = policy.withDefaults()
	if policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, policy.Timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		lastErr = c.Health(ctx)
		if lastErr == nil {
			c.logger.Info("API ready", zap.Int("attempts", attempt))
			return nil
		}
		if onAttempt != nil {
			onAttempt(attempt, lastErr)
		}
		c.logger.Debug("API not ready", zap.Int("attempt", attempt), zap.Error(lastErr))
		if attempt == policy.MaxAttempts {
			break
		}

		timer := time.NewTimer(policy.Backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %w (last error: %v)", ErrNotReady, ctx.Err(), lastErr)
		case <-timer.C:
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrNotReady, policy.MaxAttempts, lastErr)
}
