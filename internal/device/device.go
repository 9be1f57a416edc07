// Package device exposes the Fibonacci strategies through a character-device
// style contract: an exclusive open, a one-byte write that selects the
// strategy, a seek that sets the index, and a read that returns the decimal
// digits of F(index) together with the time spent computing it.
//
// It mirrors the semantics of a kernel driver so user-space benchmark tools
// can be exercised without one, and it is what the sweep package measures.
package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/fibbench/internal/bignum"
	"github.com/agbru/fibbench/internal/fibonacci"
	"github.com/agbru/fibbench/internal/logging"
)

// Name is the device name used in logs and reports.
const Name = "fibonacci"

var (
	// ErrBusy is returned by Open while another session holds the device.
	ErrBusy = errors.New("device: busy")
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("device: session closed")
	// ErrInvalidWhence is returned by Seek for an unknown whence value.
	ErrInvalidWhence = errors.New("device: invalid whence")
	// ErrShortBuffer is returned by ReadFib when the destination cannot hold
	// every digit of the result.
	ErrShortBuffer = bignum.ErrShortBuffer
)

// CalculatorProvider resolves an algorithm selector to a Calculator.
// *fibonacci.DefaultFactory satisfies it.
type CalculatorProvider interface {
	ForAlgorithm(algo fibonacci.Algorithm) (fibonacci.Calculator, error)
}

// Options configures a Device.
type Options struct {
	// MaxIndex bounds seek positions. If 0, fibonacci.DefaultMaxIndex is used.
	MaxIndex uint64
	// Provider resolves strategies. If nil, the global factory is used.
	Provider CalculatorProvider
	// Logger receives selection and rejection events. If nil, logs are
	// discarded.
	Logger logging.Logger
	// Calculation is passed to every computation. Its MaxIndex is replaced
	// by the device's.
	Calculation fibonacci.Options
}

// Device is a single Fibonacci device. At most one Session is open at a
// time.
type Device struct {
	maxIndex uint64
	provider CalculatorProvider
	logger   logging.Logger
	calcOpts fibonacci.Options
	lock     sync.Mutex
}

// New creates a Device.
func New(opts Options) *Device {
	d := &Device{
		maxIndex: opts.MaxIndex,
		provider: opts.Provider,
		logger:   opts.Logger,
		calcOpts: opts.Calculation,
	}
	if d.maxIndex == 0 {
		d.maxIndex = fibonacci.DefaultMaxIndex
	}
	d.calcOpts.MaxIndex = d.maxIndex
	if d.provider == nil {
		d.provider = fibonacci.GlobalFactory()
	}
	if d.logger == nil {
		d.logger = logging.NewNopLogger()
	}
	return d
}

// MaxIndex returns the largest reachable offset.
func (d *Device) MaxIndex() uint64 {
	return d.maxIndex
}

// Open acquires the device. It never blocks: if another session is open it
// fails immediately with ErrBusy.
func (d *Device) Open() (*Session, error) {
	if !d.lock.TryLock() {
		d.logger.Info("device is in use", logging.String("device", Name))
		return nil, ErrBusy
	}
	return &Session{dev: d, algo: fibonacci.LinearDP}, nil
}

// Session is an open handle on a Device. A Session is not safe for
// concurrent use, like a file descriptor shared without coordination.
type Session struct {
	dev    *Device
	algo   fibonacci.Algorithm
	offset int64
	closed bool
}

// Algorithm returns the strategy selected for this session.
func (s *Session) Algorithm() fibonacci.Algorithm {
	return s.algo
}

// Offset returns the current index.
func (s *Session) Offset() int64 {
	return s.offset
}

// Write selects the strategy from the first byte of p: 0 for LinearDP,
// 1 for FastDoubling, 2 for FastDoublingCLZ. Unknown selectors leave the
// current strategy unchanged. Write reports len(p) bytes consumed.
func (s *Session) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	algo := fibonacci.Algorithm(p[0])
	if !algo.Valid() {
		s.dev.logger.Debug("ignoring unknown algorithm selector", logging.Int("selector", int(p[0])))
		return len(p), nil
	}
	s.algo = algo
	s.dev.logger.Debug("algorithm selected", logging.String("algorithm", algo.String()))
	return len(p), nil
}

// Seek sets the index for the next read and implements io.Seeker. The
// resulting position is clamped to [0, MaxIndex]. For io.SeekEnd the
// position is MaxIndex - offset.
func (s *Session) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	maxPos := int64(s.dev.maxIndex)
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		// s.offset is in [0, maxPos], so only a large positive offset can
		// overflow.
		if offset > maxPos-s.offset {
			pos = maxPos
		} else {
			pos = s.offset + offset
		}
	case io.SeekEnd:
		if offset < 0 {
			pos = maxPos
		} else {
			pos = maxPos - offset
		}
	default:
		return s.offset, fmt.Errorf("%w: %d", ErrInvalidWhence, whence)
	}
	if pos > maxPos {
		pos = maxPos
	}
	if pos < 0 {
		pos = 0
	}
	s.offset = pos
	return pos, nil
}

// ReadFib computes F(offset) with the session's strategy and writes its
// decimal digits to p, most significant first. It returns the number of
// bytes written and the time spent in the computation alone, excluding
// formatting. The offset is not advanced.
//
// If p is too small for the result, nothing is written and ErrShortBuffer
// is returned along with the elapsed time.
func (s *Session) ReadFib(p []byte) (int, time.Duration, error) {
	return s.ReadFibContext(context.Background(), p)
}

// ReadFibContext is ReadFib with cancellation.
func (s *Session) ReadFibContext(ctx context.Context, p []byte) (int, time.Duration, error) {
	result, elapsed, err := s.compute(ctx)
	if err != nil {
		return 0, elapsed, err
	}
	n, err := result.Format(p)
	if err != nil {
		return 0, elapsed, fmt.Errorf("read F(%d) with %d digits into %d bytes: %w", s.offset, result.Len(), len(p), err)
	}
	return n, elapsed, nil
}

// Value computes F(offset) like ReadFib but returns the number itself.
func (s *Session) Value(ctx context.Context) (bignum.Number, time.Duration, error) {
	return s.compute(ctx)
}

func (s *Session) compute(ctx context.Context) (bignum.Number, time.Duration, error) {
	if s.closed {
		return bignum.Number{}, 0, ErrClosed
	}
	calc, err := s.dev.provider.ForAlgorithm(s.algo)
	if err != nil {
		return bignum.Number{}, 0, err
	}
	n := uint64(s.offset)

	var (
		result  bignum.Number
		elapsed time.Duration
	)
	if tc, ok := calc.(fibonacci.TimedCalculator); ok {
		result, elapsed, err = tc.CalculateTimed(ctx, n, s.dev.calcOpts)
	} else {
		start := time.Now()
		result, err = calc.Calculate(ctx, nil, 0, n, s.dev.calcOpts)
		elapsed = time.Since(start)
	}
	if err != nil {
		return bignum.Number{}, elapsed, err
	}
	return result, elapsed, nil
}

// Close releases the device. Closing twice returns ErrClosed.
func (s *Session) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.dev.lock.Unlock()
	return nil
}
