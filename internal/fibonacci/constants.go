package fibonacci

// ─────────────────────────────────────────────────────────────────────────────
// Index Bounds
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DefaultMaxIndex is the largest index accepted when Options.MaxIndex is
	// left at zero. F(150) has 31 decimal digits.
	DefaultMaxIndex = 150

	// FixedWindowBits is the width of the scan window used by FastDoubling.
	// Indices are scanned from bit FixedWindowBits-1 down to bit 0 whatever
	// their magnitude, so small indices pay for leading zero steps.
	FixedWindowBits = 32

	// MaxWindowIndex is the largest index representable in the fixed window.
	MaxWindowIndex = 1<<FixedWindowBits - 1

	// MaxFibUint64 is the largest index whose Fibonacci number fits in a
	// uint64. F(94) exceeds 2^64.
	MaxFibUint64 = 93
)

// ─────────────────────────────────────────────────────────────────────────────
// Performance Tuning Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DefaultParallelThreshold is the digit length at which the products of
	// a doubling step are computed on separate goroutines. Below it the
	// goroutine overhead exceeds the cost of a schoolbook product.
	DefaultParallelThreshold = 2000
)

// ─────────────────────────────────────────────────────────────────────────────
// Progress Reporting Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ProgressReportThreshold is the minimum progress change (0.0 to 1.0)
	// required before a new progress update is sent.
	ProgressReportThreshold = 0.01

	// cancelCheckInterval is how many linear steps run between two context
	// checks in LinearDP.
	cancelCheckInterval = 64
)
