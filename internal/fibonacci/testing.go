package fibonacci

import (
	"context"
	"fmt"
	"sort"

	"github.com/agbru/fibbench/internal/bignum"
)

// MockCalculator is a Calculator with canned behavior, exported for tests in
// other packages.
type MockCalculator struct {
	// CalcName is returned by Name. Defaults to "mock".
	CalcName string
	Result   bignum.Number
	Err      error
	Fn       func(ctx context.Context, n uint64) (bignum.Number, error)
	// OnCalculate, when set, sees every request before it is served.
	OnCalculate func(n uint64, opts Options)
}

// Name returns the configured name.
func (m *MockCalculator) Name() string {
	if m.CalcName == "" {
		return "mock"
	}
	return m.CalcName
}

// Calculate returns Result and Err, or delegates to Fn when set.
func (m *MockCalculator) Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, opts Options) (bignum.Number, error) {
	if m.OnCalculate != nil {
		m.OnCalculate(n, opts)
	}
	if m.Fn != nil {
		return m.Fn(ctx, n)
	}
	if progressChan != nil {
		select {
		case progressChan <- ProgressUpdate{CalculatorIndex: calcIndex, Value: 1.0}:
		default:
		}
	}
	return m.Result, m.Err
}

// TestFactory is a CalculatorFactory over a fixed set of calculators.
type TestFactory struct {
	calculators map[string]Calculator
}

// NewTestFactory returns a factory serving the given calculators.
func NewTestFactory(calculators map[string]Calculator) *TestFactory {
	if calculators == nil {
		calculators = make(map[string]Calculator)
	}
	return &TestFactory{calculators: calculators}
}

// Create returns the calculator registered under name.
func (f *TestFactory) Create(name string) (Calculator, error) {
	return f.Get(name)
}

// Get returns the calculator registered under name.
func (f *TestFactory) Get(name string) (Calculator, error) {
	calc, ok := f.calculators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	return calc, nil
}

// List returns the registered names in sorted order.
func (f *TestFactory) List() []string {
	names := make([]string, 0, len(f.calculators))
	for name := range f.calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register is a no-op; calculators are fixed at construction.
func (f *TestFactory) Register(string, func() coreCalculator) error {
	return nil
}

// GetAll returns a copy of the calculator map.
func (f *TestFactory) GetAll() map[string]Calculator {
	out := make(map[string]Calculator, len(f.calculators))
	for k, v := range f.calculators {
		out[k] = v
	}
	return out
}
