package realm

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Realm at construction.
type Option func(*Realm) *Realm

// WithStrategy selects the strategy by its registered name.
func WithStrategy(name string) Option {
	return func(r *Realm) *Realm {
		r.strategyName = name
		return r
	}
}

// WithParallel sets whether the realm supports per-name locking.  When
// false, every top-level lookup on the realm holds a realm-wide lock.
func WithParallel(parallel bool) Option {
	return func(r *Realm) *Realm {
		r.parallel = parallel
		return r
	}
}

// WithCycleGuard makes lookups that re-enter the realm for a name that is
// already being resolved on the same call chain come back as not found,
// instead of recursing.
func WithCycleGuard() Option {
	return func(r *Realm) *Realm {
		r.cycleGuard = true
		return r
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Realm) *Realm {
		r.logger = logger
		return r
	}
}

// WithTracer sets the tracer used for spans around top-level lookups.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Realm) *Realm {
		r.tracer = tracer
		return r
	}
}

var defaultOptions = []Option{
	WithStrategy(DefaultStrategyName),
	WithParallel(true),
	WithLogger(zerolog.Nop()),
}
