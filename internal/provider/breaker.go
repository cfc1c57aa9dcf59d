package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/baliomega/nextflix/internal/logging"
	"github.com/baliomega/nextflix/internal/media"
	"github.com/baliomega/nextflix/internal/services"
)

// BreakerSettings configures the circuit breaker decorator.
type BreakerSettings struct {
	Name                string
	ConsecutiveFailures uint32
	HalfOpenRequests    uint32
	Interval            time.Duration
	OpenTimeout         time.Duration
	// OnStateChange receives 0 closed, 1 half-open, 2 open.
	OnStateChange func(name string, state int)
}

// Breaker stops calling a failing provider until it has had time to recover.
// Calls rejected by an open breaker fail fast with ErrProviderUnavailable,
// which the aggregator and enricher already degrade on.
type Breaker struct {
	next   Provider
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
}

var _ Provider = (*Breaker)(nil)

// NewBreaker wraps next with a circuit breaker.
func NewBreaker(next Provider, settings BreakerSettings, logger *slog.Logger) *Breaker {
	logger = logging.NewComponentLogger(logger, "provider-breaker")
	name := settings.Name
	if name == "" {
		name = next.Name()
	}
	failures := settings.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}
	notify := settings.OnStateChange

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.HalfOpenRequests,
		Interval:    settings.Interval,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// Callers cancelling (superseded searches, shutdown) say nothing
			// about provider health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			attrs := []logging.Attr{
				logging.String("breaker", name),
				logging.String("from", from.String()),
				logging.String("to", to.String()),
			}
			if to == gobreaker.StateOpen {
				logging.WarnWithContext(logger, "provider circuit opened", "breaker_open",
					append(attrs,
						logging.String(logging.FieldErrorHint, "provider is failing repeatedly; check network and API key"),
						logging.String(logging.FieldImpact, "searches return no results until the breaker closes"),
					)...)
			} else {
				logger.Info("provider circuit state changed", logging.Args(attrs...)...)
			}
			if notify != nil {
				notify(name, stateValue(to))
			}
		},
	})
	return &Breaker{next: next, cb: cb, logger: logger}
}

// Name reports the wrapped provider name.
func (b *Breaker) Name() string {
	return b.next.Name()
}

// State returns the breaker state name.
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// SearchMulti forwards to the wrapped provider through the breaker.
func (b *Breaker) SearchMulti(ctx context.Context, query string, page int) (Page, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.SearchMulti(ctx, query, page)
	})
	if err != nil {
		return Page{}, b.translate(err, "search")
	}
	return result.(Page), nil
}

// Credits forwards to the wrapped provider through the breaker.
func (b *Breaker) Credits(ctx context.Context, id int64, kind media.Kind) (Credits, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Credits(ctx, id, kind)
	})
	if err != nil {
		return Credits{}, b.translate(err, "credits")
	}
	return result.(Credits), nil
}

func (b *Breaker) translate(err error, operation string) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return services.Wrap(services.ErrProviderUnavailable, "provider", operation, "circuit open", err)
	}
	return err
}

func stateValue(state gobreaker.State) int {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
