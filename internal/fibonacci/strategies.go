package fibonacci

import (
	"context"
	"fmt"
	"math/bits"
	"sync"

	"github.com/agbru/fibbench/internal/bignum"
	"github.com/agbru/fibbench/internal/parallel"
)

// ─────────────────────────────────────────────────────────────────────────────
// Linear Dynamic Programming
// ─────────────────────────────────────────────────────────────────────────────

// LinearDPCalculator implements coreCalculator with the iterative recurrence.
// It performs k-1 additions and holds only two numbers at a time.
type LinearDPCalculator struct{}

// Name returns the display name of the strategy.
func (c *LinearDPCalculator) Name() string {
	return "Linear DP"
}

// Algorithm returns the selector of the strategy.
func (c *LinearDPCalculator) Algorithm() Algorithm {
	return LinearDP
}

// CalculateCore computes F(n) by walking the recurrence from F(0).
func (c *LinearDPCalculator) CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) (bignum.Number, error) {
	return linearDP(ctx, n, reporter)
}

func linearDP(ctx context.Context, k uint64, reporter ProgressReporter) (bignum.Number, error) {
	if k < 2 {
		return bignum.New(k), nil
	}
	prev, curr := bignum.New(0), bignum.New(1)
	var lastReported float64
	for i := uint64(2); i <= k; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return bignum.Number{}, err
			}
		}
		prev, curr = curr, bignum.Add(prev, curr)
		if reporter != nil {
			progress := float64(i) / float64(k)
			if progress-lastReported >= ProgressReportThreshold || i == k {
				reporter(progress)
				lastReported = progress
			}
		}
	}
	return curr, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fast Doubling
// ─────────────────────────────────────────────────────────────────────────────

// DoublingCalculator implements coreCalculator with the fast doubling
// identities:
//
//	F(2n)   = F(n) * (2*F(n+1) - F(n))
//	F(2n+1) = F(n+1)² + F(n)²
//
// The CLZ field chooses where the bit scan starts. When false the scan
// covers a fixed FixedWindowBits-wide window; when true it starts at the
// highest set bit of the index. Both produce identical results and differ
// only in the number of doubling iterations.
type DoublingCalculator struct {
	CLZ bool
}

// Name returns the display name of the strategy.
func (c *DoublingCalculator) Name() string {
	if c.CLZ {
		return "Fast Doubling (CLZ)"
	}
	return "Fast Doubling (32-bit window)"
}

// Algorithm returns the selector of the strategy.
func (c *DoublingCalculator) Algorithm() Algorithm {
	if c.CLZ {
		return FastDoublingCLZ
	}
	return FastDoubling
}

// CalculateCore computes F(n) with the doubling loop.
func (c *DoublingCalculator) CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) (bignum.Number, error) {
	opts = normalizeOptions(opts)
	start := FixedWindowBits - 1
	if c.CLZ {
		start = clzStart(n)
	} else if n > MaxWindowIndex {
		return bignum.Number{}, windowError(n)
	}
	result, iterations, err := fastDoubling(ctx, n, start, opts.ParallelThreshold, reporter)
	doublingIterationsTotal.WithLabelValues(c.Algorithm().String()).Add(float64(iterations))
	return result, err
}

// clzStart returns the position of the highest set bit of k, or -1 for 0.
func clzStart(k uint64) int {
	return bits.Len64(k) - 1
}

// fastDoubling scans k from bit start down to bit 0 and returns F(k)
// together with the number of doubling iterations performed. Bits above
// start must be zero. Leading zero bits leave (a, b) = (F(0), F(1))
// unchanged, so any start at or above the highest set bit gives the same
// result.
//
// The three products of a step run concurrently once F(n) has at least
// parallelThreshold digits. A non-positive threshold keeps every step
// sequential.
func fastDoubling(ctx context.Context, k uint64, start, parallelThreshold int, reporter ProgressReporter) (bignum.Number, int, error) {
	a, b := bignum.New(0), bignum.New(1)

	numBits := start + 1
	var (
		lastReported float64
		workDone     float64
		totalWork    = CalcTotalWork(numBits)
		powers       = PrecomputePowers4(numBits)
		iterations   int
	)

	for i := start; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return bignum.Number{}, iterations, err
		}

		inParallel := parallelThreshold > 0 && a.Len() >= parallelThreshold
		t1, t2, err := doublingStep(a, b, inParallel)
		if err != nil {
			return bignum.Number{}, iterations, fmt.Errorf("doubling step at bit %d: %w", i, err)
		}
		a, b = t1, t2

		if (k>>uint(i))&1 == 1 {
			a, b = b, bignum.Add(a, b)
		}
		iterations++

		if reporter != nil {
			workDone = ReportStepProgress(reporter, &lastReported, totalWork, workDone, i, numBits, powers)
		}
	}
	return a, iterations, nil
}

// doublingStep maps (F(n), F(n+1)) to (F(2n), F(2n+1)).
func doublingStep(a, b bignum.Number, inParallel bool) (t1, t2 bignum.Number, err error) {
	// 2b - a cannot underflow for consecutive Fibonacci numbers; the
	// checked form turns a broken invariant into an error.
	diff, err := bignum.SubChecked(bignum.Double(b), a)
	if err != nil {
		return bignum.Number{}, bignum.Number{}, err
	}

	if !inParallel {
		return bignum.Mul(a, diff), bignum.Add(bignum.Square(a), bignum.Square(b)), nil
	}

	var (
		wg       sync.WaitGroup
		ec       parallel.ErrorCollector
		aSquared bignum.Number
		bSquared bignum.Number
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		defer recoverInto(&ec, "multiply F(n) * (2F(n+1) - F(n))")
		t1 = bignum.Mul(a, diff)
	}()
	go func() {
		defer wg.Done()
		defer recoverInto(&ec, "square F(n)")
		aSquared = bignum.Square(a)
	}()
	go func() {
		defer wg.Done()
		defer recoverInto(&ec, "square F(n+1)")
		bSquared = bignum.Square(b)
	}()
	wg.Wait()
	if err := ec.Err(); err != nil {
		return bignum.Number{}, bignum.Number{}, err
	}
	return t1, bignum.Add(aSquared, bSquared), nil
}

// recoverInto records a panic of a worker goroutine in ec.
func recoverInto(ec *parallel.ErrorCollector, op string) {
	if r := recover(); r != nil {
		ec.SetError(fmt.Errorf("parallel %s failed: %v", op, r))
	}
}
