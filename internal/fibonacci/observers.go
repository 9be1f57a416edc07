package fibonacci

import (
	"strconv"
	"sync"

	"github.com/rs/zerolog"
)

// ChannelObserver forwards progress events to a channel, dropping events
// when the channel is full so a slow consumer never stalls a calculation.
type ChannelObserver struct {
	channel chan<- ProgressUpdate
}

// NewChannelObserver returns an observer that sends to ch. A nil channel
// discards every event.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{channel: ch}
}

// Update implements ProgressObserver.
func (o *ChannelObserver) Update(calcIndex int, progress float64) {
	if o.channel == nil {
		return
	}
	if progress > 1 {
		progress = 1
	}
	select {
	case o.channel <- ProgressUpdate{CalculatorIndex: calcIndex, Value: progress}:
	default:
	}
}

// LoggingObserver writes throttled progress events to a zerolog logger.
type LoggingObserver struct {
	logger    zerolog.Logger
	threshold float64

	mu      sync.Mutex
	lastLog map[int]float64
}

// NewLoggingObserver returns an observer that logs at debug level each time
// progress of a calculator moves by at least threshold. A non-positive
// threshold defaults to 10%.
func NewLoggingObserver(logger zerolog.Logger, threshold float64) *LoggingObserver {
	if threshold <= 0 {
		threshold = 0.1
	}
	return &LoggingObserver{
		logger:    logger,
		threshold: threshold,
		lastLog:   make(map[int]float64),
	}
}

// Update implements ProgressObserver.
func (o *LoggingObserver) Update(calcIndex int, progress float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	last, seen := o.lastLog[calcIndex]
	if seen && progress < 1 && progress-last < o.threshold {
		return
	}
	o.logger.Debug().
		Int("calculator", calcIndex).
		Float64("progress", progress).
		Msg("calculation progress")
	o.lastLog[calcIndex] = progress
}

// MetricsObserver mirrors progress into the fibonacci_calculation_progress
// gauge.
type MetricsObserver struct{}

// NewMetricsObserver returns a Prometheus-backed observer.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// Update implements ProgressObserver.
func (o *MetricsObserver) Update(calcIndex int, progress float64) {
	progressGauge.WithLabelValues(strconv.Itoa(calcIndex)).Set(progress)
}

// ResetMetrics clears the gauge before a new batch of calculations.
func (o *MetricsObserver) ResetMetrics() {
	progressGauge.Reset()
}

// NoOpObserver discards every event.
type NoOpObserver struct{}

// NewNoOpObserver returns a NoOpObserver.
func NewNoOpObserver() *NoOpObserver {
	return &NoOpObserver{}
}

// Update implements ProgressObserver.
func (o *NoOpObserver) Update(int, float64) {}
