// Package fibonacci computes exact Fibonacci numbers on top of the decimal
// bignum package. Three strategies are provided so their performance can be
// compared on identical inputs:
//
//   - LinearDP walks the recurrence F(i) = F(i-1) + F(i-2), keeping only the
//     last two values.
//   - FastDoubling applies the doubling identities while scanning a fixed
//     32-bit window of the index, most significant bit first.
//   - FastDoublingCLZ applies the same identities but starts the scan at the
//     highest set bit of the index.
//
// Every strategy is a pure function of the index. Nothing is cached between
// calls.
package fibonacci

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agbru/fibbench/internal/bignum"
)

var (
	// ErrIndexOutOfRange is returned when the requested index exceeds the
	// configured maximum or the scan window of the selected strategy.
	ErrIndexOutOfRange = errors.New("fibonacci: index out of range")
	// ErrUnknownAlgorithm is returned for an algorithm selector that does not
	// name one of the supported strategies.
	ErrUnknownAlgorithm = errors.New("fibonacci: unknown algorithm")
)

// Algorithm selects one of the computation strategies. Its numeric value is
// the selector byte accepted by the device interface.
type Algorithm uint8

const (
	// LinearDP is the iterative dynamic-programming strategy.
	LinearDP Algorithm = iota
	// FastDoubling is the doubling strategy with a fixed 32-bit scan window.
	FastDoubling
	// FastDoublingCLZ is the doubling strategy whose scan starts at the
	// highest set bit of the index.
	FastDoublingCLZ
)

var algorithmNames = [...]string{
	LinearDP:        "dp",
	FastDoubling:    "doubling",
	FastDoublingCLZ: "doubling-clz",
}

// Algorithms returns every supported algorithm in selector order.
func Algorithms() []Algorithm {
	return []Algorithm{LinearDP, FastDoubling, FastDoublingCLZ}
}

// Valid reports whether a names a supported strategy.
func (a Algorithm) Valid() bool {
	return int(a) < len(algorithmNames)
}

// String returns the short registry name of the algorithm.
func (a Algorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Algorithm(%d)", uint8(a))
	}
	return algorithmNames[a]
}

// ParseAlgorithm maps a registry name (case-insensitive) to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range algorithmNames {
		if n == name {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Compute returns F(k) using the selected strategy. It is the plain,
// synchronous entry point: no context, no progress, no metrics. Use a
// Calculator from the factory when those are needed.
func Compute(k uint64, algo Algorithm) (bignum.Number, error) {
	ctx := context.Background()
	switch algo {
	case LinearDP:
		return linearDP(ctx, k, nil)
	case FastDoubling:
		if k > MaxWindowIndex {
			return bignum.Number{}, windowError(k)
		}
		r, _, err := fastDoubling(ctx, k, FixedWindowBits-1, 0, nil)
		return r, err
	case FastDoublingCLZ:
		r, _, err := fastDoubling(ctx, k, clzStart(k), 0, nil)
		return r, err
	default:
		return bignum.Number{}, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, uint8(algo))
	}
}

func windowError(k uint64) error {
	return fmt.Errorf("%w: %d does not fit the %d-bit window", ErrIndexOutOfRange, k, FixedWindowBits)
}
