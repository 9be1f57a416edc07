package cli

import (
	"fmt"
	"time"
)

const (
	// etaWarmup is the elapsed time before any estimate is produced.
	etaWarmup = 100 * time.Millisecond
	// etaSmoothing is the weight of the previous rate in the moving average.
	etaSmoothing = 0.7
	maxETA       = 24 * time.Hour
)

// ProgressWithETA is a ProgressState that also estimates the remaining time
// from a smoothed progress rate.
type ProgressWithETA struct {
	*ProgressState
	start        time.Time
	lastUpdate   time.Time
	lastProgress float64
	rate         float64 // progress per second
	now          func() time.Time
}

// NewProgressWithETA tracks numCalculators strategies starting now.
func NewProgressWithETA(numCalculators int) *ProgressWithETA {
	return newProgressWithETA(numCalculators, time.Now)
}

func newProgressWithETA(numCalculators int, now func() time.Time) *ProgressWithETA {
	t := now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(numCalculators),
		start:         t,
		lastUpdate:    t,
		now:           now,
	}
}

// UpdateWithETA records value for the strategy at index and returns the
// average progress with the current estimate. The estimate is zero until
// enough progress has been observed.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	progress := p.CalculateAverage()
	now := p.now()

	if now.Sub(p.start) < etaWarmup || progress <= 0.001 {
		p.lastUpdate, p.lastProgress = now, progress
		return progress, 0
	}

	if dt := now.Sub(p.lastUpdate).Seconds(); dt > 0.05 {
		if delta := progress - p.lastProgress; delta > 0 {
			if p.rate > 0 {
				p.rate = etaSmoothing*p.rate + (1-etaSmoothing)*delta/dt
			} else {
				p.rate = progress / now.Sub(p.start).Seconds()
			}
		}
		p.lastUpdate, p.lastProgress = now, progress
	}
	return progress, p.eta(progress)
}

// GetETA returns the current estimate without recording progress.
func (p *ProgressWithETA) GetETA() time.Duration {
	return p.eta(p.CalculateAverage())
}

func (p *ProgressWithETA) eta(progress float64) time.Duration {
	if p.rate <= 0 || progress >= 1 {
		return 0
	}
	eta := time.Duration((1 - progress) / p.rate * float64(time.Second))
	return min(eta, maxETA)
}

// FormatETA renders an estimate compactly, for example "45s" or "1h15m".
// A zero estimate reads "calculating...".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m, s := int(eta.Minutes()), int(eta.Seconds())%60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h, m := int(eta.Hours()), int(eta.Minutes())%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%dm", h, m)
}

// FormatProgressBarWithETA renders "45.00% [████░░░░] ETA: 2m30s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("%6.2f%% [%s] ETA: %s", progress*100, progressBar(progress, width), FormatETA(eta))
}
