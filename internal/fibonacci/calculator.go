package fibonacci

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agbru/fibbench/internal/bignum"
)

var (
	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibonacci_calculations_total",
			Help: "The total number of Fibonacci calculations processed",
		},
		[]string{"algorithm", "status"},
	)
	calculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fibonacci_calculation_duration_seconds",
			Help:    "The duration of Fibonacci calculations in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		},
		[]string{"algorithm"},
	)
	doublingIterationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibonacci_doubling_iterations_total",
			Help: "The total number of fast doubling iterations performed",
		},
		[]string{"algorithm"},
	)
	progressGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fibonacci_calculation_progress",
			Help: "Current progress of Fibonacci calculations (0.0 to 1.0)",
		},
		[]string{"calculator_index"},
	)
)

// Calculator is the public interface of a Fibonacci strategy, as used by the
// orchestration, service and device layers.
type Calculator interface {
	// Calculate computes F(n), forwarding progress for calcIndex to
	// progressChan when it is not nil. It is safe for concurrent use,
	// honors cancellation of ctx and returns ErrIndexOutOfRange for an n
	// above opts.MaxIndex.
	Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, opts Options) (bignum.Number, error)

	// Name returns the display name of the strategy.
	Name() string
}

// TimedCalculator is implemented by calculators that can report the time
// spent in the strategy alone, excluding their own metrics, tracing and
// logging. The device uses it to time reads.
type TimedCalculator interface {
	CalculateTimed(ctx context.Context, n uint64, opts Options) (bignum.Number, time.Duration, error)
}

// coreCalculator is a bare strategy without instrumentation.
type coreCalculator interface {
	CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) (bignum.Number, error)
	Name() string
}

// FibCalculator decorates a coreCalculator with index validation, progress
// fan-out, Prometheus metrics, tracing and debug logging.
type FibCalculator struct {
	core coreCalculator
}

// NewCalculator wraps core. It panics if core is nil.
func NewCalculator(core coreCalculator) Calculator {
	if core == nil {
		panic("fibonacci: the `coreCalculator` implementation cannot be nil")
	}
	return &FibCalculator{core: core}
}

// Name returns the name of the wrapped strategy.
func (c *FibCalculator) Name() string {
	return c.core.Name()
}

// Calculate runs the calculation and forwards progress to progressChan,
// which may be nil.
func (c *FibCalculator) Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, opts Options) (bignum.Number, error) {
	subject := NewProgressSubject()
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	return c.CalculateWithObservers(ctx, subject, calcIndex, n, opts)
}

// CalculateWithObservers runs the calculation and notifies every observer
// registered on subject. A nil subject disables progress reporting.
func (c *FibCalculator) CalculateWithObservers(ctx context.Context, subject *ProgressSubject, calcIndex int, n uint64, opts Options) (bignum.Number, error) {
	result, _, err := c.run(ctx, subject, calcIndex, n, opts)
	return result, err
}

// CalculateTimed runs the calculation without progress reporting and
// returns the time spent in the strategy itself. Validation, metrics, the
// trace span and the completion log fall outside the measured interval.
func (c *FibCalculator) CalculateTimed(ctx context.Context, n uint64, opts Options) (bignum.Number, time.Duration, error) {
	return c.run(ctx, nil, 0, n, opts)
}

func (c *FibCalculator) run(ctx context.Context, subject *ProgressSubject, calcIndex int, n uint64, opts Options) (result bignum.Number, elapsed time.Duration, err error) {
	opts = normalizeOptions(opts)
	algoName := c.core.Name()

	ctx, span := otel.Tracer("fibonacci").Start(ctx, "Calculate")
	span.SetAttributes(
		attribute.String("fibonacci.algorithm", algoName),
		attribute.Int64("fibonacci.n", int64(n)),
	)
	defer span.End()

	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
		}
		calculationsTotal.WithLabelValues(algoName, status).Inc()
		calculationDuration.WithLabelValues(algoName).Observe(elapsed.Seconds())

		log.Debug().
			Str("algo", algoName).
			Uint64("n", n).
			Dur("duration", elapsed).
			Int("digits", result.Len()).
			Str("status", status).
			Msg("calculation completed")
	}()

	if err := ValidateIndex(n, opts); err != nil {
		return bignum.Number{}, 0, err
	}

	reporter := ProgressReporter(func(float64) {})
	if subject != nil {
		reporter = subject.AsProgressReporter(calcIndex)
	}

	start := time.Now()
	result, err = c.core.CalculateCore(ctx, reporter, n, opts)
	elapsed = time.Since(start)
	if err != nil {
		return bignum.Number{}, elapsed, err
	}
	reporter(1.0)
	return result, elapsed, nil
}

// ValidateIndex reports whether n is within the index range allowed by opts.
func ValidateIndex(n uint64, opts Options) error {
	opts = normalizeOptions(opts)
	if n > opts.MaxIndex {
		return fmt.Errorf("%w: %d exceeds maximum index %d", ErrIndexOutOfRange, n, opts.MaxIndex)
	}
	return nil
}
