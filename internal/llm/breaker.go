package llm

import (
	"fmt"

	"github.com/sony/gobreaker/v2"

	"github.com/jonathan/resume-packer/internal/logger"
)

// Breaker guards one kind of remote call with a circuit breaker
type Breaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// NewBreaker creates a breaker named after the operation it protects
func NewBreaker[T any](operation string, cfg BreakerConfig) *Breaker[T] {
	log := logger.Component("llm")
	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("gemini-%s", operation),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}
	return &Breaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// Execute runs fn through the breaker. A nil breaker runs fn directly.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// Open reports whether calls are currently being rejected
func (b *Breaker[T]) Open() bool {
	if b == nil || b.cb == nil {
		return false
	}
	return b.cb.State() == gobreaker.StateOpen
}
