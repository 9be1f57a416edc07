// Package sweep benchmarks the Fibonacci strategies through the device
// contract. For each strategy it opens the device, selects the strategy and
// reads every index from 0 to the maximum, recording the compute time of
// each read.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/agbru/fibbench/internal/bignum"
	"github.com/agbru/fibbench/internal/device"
	"github.com/agbru/fibbench/internal/fibonacci"
	"github.com/agbru/fibbench/internal/logging"
	"github.com/agbru/fibbench/pkg/models"
)

// MaxSweepIndex is the largest device MaxIndex a Runner accepts. A sweep
// recomputes F(k) for every k up to it, so the bound keeps both the run
// time and the read buffer reasonable.
const MaxSweepIndex = 100_000

// ErrRangeTooLarge is returned by Run for a device whose MaxIndex exceeds
// MaxSweepIndex.
var ErrRangeTooLarge = errors.New("sweep: index range too large")

// Options configures a sweep.
type Options struct {
	// Algorithms are swept in order. Nil means every algorithm.
	Algorithms []fibonacci.Algorithm
	// Repeat is the number of reads per point; the fastest is kept.
	Repeat int
	Logger logging.Logger
}

// Runner drives a Device through a sweep.
type Runner struct {
	dev    *device.Device
	opts   Options
	logger logging.Logger
}

// NewRunner creates a Runner over dev.
func NewRunner(dev *device.Device, opts Options) *Runner {
	if len(opts.Algorithms) == 0 {
		opts.Algorithms = fibonacci.Algorithms()
	}
	if opts.Repeat < 1 {
		opts.Repeat = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Runner{dev: dev, opts: opts, logger: logger}
}

// Algorithms returns the names of the swept algorithms, in sweep order.
func (r *Runner) Algorithms() []string {
	names := make([]string, len(r.opts.Algorithms))
	for i, a := range r.opts.Algorithms {
		names[i] = a.String()
	}
	return names
}

// Run sweeps k = 0..MaxIndex for every algorithm and returns the points
// grouped by algorithm, in index order. It stops at the first error,
// including device.ErrBusy when another session holds the device.
func (r *Runner) Run(ctx context.Context) ([]models.SweepPoint, error) {
	maxIndex := r.dev.MaxIndex()
	if maxIndex > MaxSweepIndex {
		return nil, fmt.Errorf("%w: max index %d, limit %d", ErrRangeTooLarge, maxIndex, MaxSweepIndex)
	}
	buf := make([]byte, bignum.DigitsBound(maxIndex))
	var points []models.SweepPoint

	for _, algo := range r.opts.Algorithms {
		start := time.Now()
		algoPoints, err := r.sweepAlgorithm(ctx, algo, maxIndex, buf)
		if err != nil {
			return nil, fmt.Errorf("sweep %s: %w", algo, err)
		}
		points = append(points, algoPoints...)
		r.logger.Info("sweep completed",
			logging.String("algorithm", algo.String()),
			logging.Uint64("max_index", maxIndex),
			logging.Int("repeat", r.opts.Repeat),
			logging.Duration("duration", time.Since(start)),
		)
	}
	return points, nil
}

func (r *Runner) sweepAlgorithm(ctx context.Context, algo fibonacci.Algorithm, maxIndex uint64, buf []byte) (_ []models.SweepPoint, err error) {
	sess, err := r.dev.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := sess.Write([]byte{byte(algo)}); err != nil {
		return nil, err
	}

	points := make([]models.SweepPoint, 0, maxIndex+1)
	for k := uint64(0); k <= maxIndex; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := sess.Seek(int64(k), io.SeekStart); err != nil {
			return nil, err
		}
		var n int
		best := time.Duration(-1)
		for i := 0; i < r.opts.Repeat; i++ {
			var elapsed time.Duration
			n, elapsed, err = sess.ReadFibContext(ctx, buf)
			if err != nil {
				return nil, fmt.Errorf("read F(%d): %w", k, err)
			}
			if best < 0 || elapsed < best {
				best = elapsed
			}
		}
		points = append(points, models.SweepPoint{
			K:         k,
			Algorithm: algo.String(),
			Digits:    n,
			ElapsedNS: best.Nanoseconds(),
		})
	}
	return points, nil
}
