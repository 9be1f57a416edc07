package fibonacci

import (
	"fmt"
	"sort"
	"sync"
)

// CalculatorFactory creates and caches Calculator instances by name.
type CalculatorFactory interface {
	// Create returns a fresh Calculator for name.
	Create(name string) (Calculator, error)
	// Get returns the cached Calculator for name, creating it on first use.
	Get(name string) (Calculator, error)
	// List returns the registered names in sorted order.
	List() []string
	// Register adds or replaces a calculator type.
	Register(name string, creator func() coreCalculator) error
	// GetAll returns every registered calculator.
	GetAll() map[string]Calculator
}

// DefaultFactory is the thread-safe CalculatorFactory used by the
// application.
type DefaultFactory struct {
	mu          sync.RWMutex
	creators    map[string]func() coreCalculator
	calculators map[string]Calculator
}

// NewDefaultFactory returns a factory with the three strategies registered
// under their Algorithm names: "dp", "doubling" and "doubling-clz".
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators:    make(map[string]func() coreCalculator),
		calculators: make(map[string]Calculator),
	}
	for _, algo := range Algorithms() {
		algo := algo
		_ = f.Register(algo.String(), func() coreCalculator { return newCore(algo) })
	}
	return f
}

// newCore returns the bare strategy for algo.
func newCore(algo Algorithm) coreCalculator {
	switch algo {
	case FastDoubling:
		return &DoublingCalculator{}
	case FastDoublingCLZ:
		return &DoublingCalculator{CLZ: true}
	default:
		return &LinearDPCalculator{}
	}
}

// Register adds a calculator type. An existing registration with the same
// name is replaced and its cached instance dropped.
func (f *DefaultFactory) Register(name string, creator func() coreCalculator) error {
	if creator == nil {
		return fmt.Errorf("fibonacci: nil creator for %q", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = creator
	delete(f.calculators, name)
	return nil
}

// Create returns a new, uncached Calculator.
func (f *DefaultFactory) Create(name string) (Calculator, error) {
	f.mu.RLock()
	creator, ok := f.creators[name]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	return NewCalculator(creator()), nil
}

// Get returns the cached Calculator for name.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	calc, ok := f.calculators[name]
	f.mu.RUnlock()
	if ok {
		return calc, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if calc, ok := f.calculators[name]; ok {
		return calc, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	calc = NewCalculator(creator())
	f.calculators[name] = calc
	return calc, nil
}

// ForAlgorithm returns the cached Calculator registered for algo.
func (f *DefaultFactory) ForAlgorithm(algo Algorithm) (Calculator, error) {
	if !algo.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, uint8(algo))
	}
	return f.Get(algo.String())
}

// List returns the registered names in sorted order.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll initializes and returns every registered calculator. The returned
// map is a copy.
func (f *DefaultFactory) GetAll() map[string]Calculator {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, creator := range f.creators {
		if _, ok := f.calculators[name]; !ok {
			f.calculators[name] = NewCalculator(creator())
		}
	}
	out := make(map[string]Calculator, len(f.calculators))
	for name, calc := range f.calculators {
		out[name] = calc
	}
	return out
}

// MustGet is like Get but panics for an unknown name.
func (f *DefaultFactory) MustGet(name string) Calculator {
	calc, err := f.Get(name)
	if err != nil {
		panic(fmt.Sprintf("fibonacci: required calculator not found: %s", name))
	}
	return calc
}

// Has reports whether name is registered.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.creators[name]
	return ok
}

var globalFactory = NewDefaultFactory()

// GlobalFactory returns the process-wide factory.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}

// RegisterCalculator registers a calculator type in the global factory.
func RegisterCalculator(name string, creator func() coreCalculator) error {
	return globalFactory.Register(name, creator)
}
