package fibonacci

import (
	"sync"
)

// ProgressUpdate carries the progress of one calculation from a calculator
// to the presentation layer.
type ProgressUpdate struct {
	// CalculatorIndex distinguishes concurrent calculations.
	CalculatorIndex int
	// Value is the normalized progress, from 0.0 to 1.0.
	Value float64
}

// ProgressReporter is the callback strategies use to report normalized
// progress without knowing how it is consumed.
type ProgressReporter func(progress float64)

// powersOf4 holds 4^i for every possible bit position of a uint64 index.
var powersOf4 [64]float64

func init() {
	powersOf4[0] = 1
	for i := 1; i < len(powersOf4); i++ {
		powersOf4[i] = powersOf4[i-1] * 4
	}
}

// CalcTotalWork estimates the work of a doubling scan over numBits bits.
// Each doubling step multiplies numbers about twice as long as the previous
// step, and schoolbook multiplication is quadratic, so the cost of step j is
// modeled as 4^j and the total as the geometric sum (4^numBits - 1) / 3.
func CalcTotalWork(numBits int) float64 {
	if numBits <= 0 {
		return 0
	}
	var total float64
	for _, p := range PrecomputePowers4(numBits) {
		total += p
	}
	return total
}

// PrecomputePowers4 returns 4^0 .. 4^(numBits-1). The returned slice must not
// be modified.
func PrecomputePowers4(numBits int) []float64 {
	if numBits <= 0 {
		return nil
	}
	if numBits > len(powersOf4) {
		numBits = len(powersOf4)
	}
	return powersOf4[:numBits]
}

// ReportStepProgress accounts for the doubling step at bit i and calls the
// reporter when progress moved by at least ProgressReportThreshold, or at
// the first and last step. It returns the updated cumulative work.
func ReportStepProgress(reporter ProgressReporter, lastReported *float64, totalWork, workDone float64, i, numBits int, powers []float64) float64 {
	stepIndex := numBits - 1 - i
	if stepIndex < 0 || stepIndex >= len(powers) {
		return workDone
	}
	done := workDone + powers[stepIndex]
	if totalWork > 0 {
		progress := done / totalWork
		if progress-*lastReported >= ProgressReportThreshold || i == 0 || i == numBits-1 {
			reporter(progress)
			*lastReported = progress
		}
	}
	return done
}

// ─────────────────────────────────────────────────────────────────────────────
// Observer Pattern
// ─────────────────────────────────────────────────────────────────────────────

// ProgressObserver receives progress events.
type ProgressObserver interface {
	// Update is called with the calculator index and normalized progress.
	Update(calcIndex int, progress float64)
}

// ProgressSubject fans progress events out to registered observers. It is
// safe for concurrent use.
type ProgressSubject struct {
	mu        sync.RWMutex
	observers []ProgressObserver
}

// NewProgressSubject returns a subject with no observers.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{}
}

// Register adds an observer. A nil observer is ignored.
func (s *ProgressSubject) Register(observer ProgressObserver) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Unregister removes an observer, preserving the order of the others.
func (s *ProgressSubject) Unregister(observer ProgressObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.observers {
		if o == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Notify delivers an event to every observer, in registration order.
func (s *ProgressSubject) Notify(calcIndex int, progress float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.Update(calcIndex, progress)
	}
}

// ObserverCount returns the number of registered observers.
func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// AsProgressReporter binds the subject to a calculator index.
func (s *ProgressSubject) AsProgressReporter(calcIndex int) ProgressReporter {
	return func(progress float64) {
		s.Notify(calcIndex, progress)
	}
}
