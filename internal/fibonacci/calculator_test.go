package fibonacci

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestFibCalculator_Name(t *testing.T) {
	t.Parallel()
	cores := []coreCalculator{
		&LinearDPCalculator{},
		&DoublingCalculator{},
		&DoublingCalculator{CLZ: true},
	}
	for _, core := range cores {
		if got := NewCalculator(core).Name(); got != core.Name() {
			t.Errorf("Name() = %q, want %q", got, core.Name())
		}
	}
}

func TestNewCalculator_PanicsOnNil(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("NewCalculator(nil) did not panic")
		}
	}()
	NewCalculator(nil)
}

func TestFibCalculator_Calculate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for _, algo := range Algorithms() {
		calc := NewCalculator(newCore(algo))
		for _, tc := range knownFibResults {
			got, err := calc.Calculate(ctx, nil, 0, tc.n, Options{})
			if err != nil {
				t.Fatalf("%s: Calculate(%d) error: %v", algo, tc.n, err)
			}
			if got.String() != tc.result {
				t.Errorf("%s: Calculate(%d) = %s, want %s", algo, tc.n, got, tc.result)
			}
		}
	}
}

func TestFibCalculator_MaxIndex(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	calc := NewCalculator(&DoublingCalculator{CLZ: true})

	if _, err := calc.Calculate(ctx, nil, 0, DefaultMaxIndex, Options{}); err != nil {
		t.Errorf("Calculate(DefaultMaxIndex) error: %v", err)
	}
	if _, err := calc.Calculate(ctx, nil, 0, DefaultMaxIndex+1, Options{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Calculate(DefaultMaxIndex+1) error = %v, want ErrIndexOutOfRange", err)
	}
	got, err := calc.Calculate(ctx, nil, 0, 300, Options{MaxIndex: 300})
	if err != nil {
		t.Fatalf("Calculate(300) with MaxIndex 300: %v", err)
	}
	if got.Len() != 63 {
		t.Errorf("F(300) has %d digits, want 63", got.Len())
	}
}

func TestFibCalculator_CalculateTimed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for _, algo := range Algorithms() {
		calc, ok := NewCalculator(newCore(algo)).(TimedCalculator)
		if !ok {
			t.Fatalf("%s: calculator is not a TimedCalculator", algo)
		}
		want, err := Compute(DefaultMaxIndex, algo)
		if err != nil {
			t.Fatal(err)
		}
		got, elapsed, err := calc.CalculateTimed(ctx, DefaultMaxIndex, Options{})
		if err != nil {
			t.Fatalf("%s: CalculateTimed error: %v", algo, err)
		}
		if got.String() != want.String() {
			t.Errorf("%s: CalculateTimed = %s, want %s", algo, got, want)
		}
		if elapsed < 0 {
			t.Errorf("%s: elapsed = %v, want >= 0", algo, elapsed)
		}
		if _, _, err := calc.CalculateTimed(ctx, DefaultMaxIndex+1, Options{}); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("%s: error = %v, want ErrIndexOutOfRange", algo, err)
		}
	}
}

func TestFibCalculator_ProgressCompletes(t *testing.T) {
	t.Parallel()
	for _, algo := range Algorithms() {
		ch := make(chan ProgressUpdate, 256)
		calc := NewCalculator(newCore(algo))
		if _, err := calc.Calculate(context.Background(), ch, 3, 150, Options{}); err != nil {
			t.Fatalf("%s: %v", algo, err)
		}
		close(ch)

		var last ProgressUpdate
		count := 0
		prev := -1.0
		for u := range ch {
			if u.CalculatorIndex != 3 {
				t.Errorf("%s: update for calculator %d, want 3", algo, u.CalculatorIndex)
			}
			if u.Value < prev {
				t.Errorf("%s: progress went backwards: %f after %f", algo, u.Value, prev)
			}
			prev = u.Value
			last = u
			count++
		}
		if count == 0 {
			t.Fatalf("%s: no progress updates", algo)
		}
		if last.Value != 1.0 {
			t.Errorf("%s: final progress = %f, want 1.0", algo, last.Value)
		}
	}
}

type recordingObserver struct {
	mu      sync.Mutex
	updates []float64
}

func (o *recordingObserver) Update(_ int, progress float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.updates = append(o.updates, progress)
}

func TestFibCalculator_CalculateWithObservers(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(&LinearDPCalculator{}).(*FibCalculator)

	subject := NewProgressSubject()
	obs := &recordingObserver{}
	subject.Register(obs)
	subject.Register(NewMetricsObserver())

	if _, err := calc.CalculateWithObservers(context.Background(), subject, 0, 100, Options{}); err != nil {
		t.Fatal(err)
	}
	if len(obs.updates) == 0 || obs.updates[len(obs.updates)-1] != 1.0 {
		t.Errorf("observer updates = %v, want trailing 1.0", obs.updates)
	}

	if _, err := calc.CalculateWithObservers(context.Background(), nil, 0, 100, Options{}); err != nil {
		t.Errorf("nil subject: %v", err)
	}
}

func TestFibCalculator_ContextTimeout(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	calc := NewCalculator(&DoublingCalculator{})
	if _, err := calc.Calculate(ctx, nil, 0, 120, Options{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestValidateIndex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n       uint64
		opts    Options
		wantErr bool
	}{
		{0, Options{}, false},
		{150, Options{}, false},
		{151, Options{}, true},
		{151, Options{MaxIndex: 1000}, false},
		{1001, Options{MaxIndex: 1000}, true},
	}
	for _, tt := range tests {
		err := ValidateIndex(tt.n, tt.opts)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateIndex(%d, %+v) error = %v, wantErr %v", tt.n, tt.opts, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("ValidateIndex error %v does not wrap ErrIndexOutOfRange", err)
		}
	}
}

func TestNormalizeOptions(t *testing.T) {
	t.Parallel()
	defaults := normalizeOptions(Options{})
	if defaults.MaxIndex != DefaultMaxIndex {
		t.Errorf("MaxIndex = %d, want %d", defaults.MaxIndex, DefaultMaxIndex)
	}
	if defaults.ParallelThreshold != DefaultParallelThreshold {
		t.Errorf("ParallelThreshold = %d, want %d", defaults.ParallelThreshold, DefaultParallelThreshold)
	}
	custom := normalizeOptions(Options{MaxIndex: 42, ParallelThreshold: -1})
	if custom.MaxIndex != 42 || custom.ParallelThreshold != -1 {
		t.Errorf("normalizeOptions overwrote explicit values: %+v", custom)
	}
}

func TestParallelDoublingMatchesSequential(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	opts := Options{MaxIndex: 2000, ParallelThreshold: 1}
	seq := Options{MaxIndex: 2000, ParallelThreshold: -1}
	for _, clz := range []bool{false, true} {
		calc := NewCalculator(&DoublingCalculator{CLZ: clz})
		for _, n := range []uint64{0, 1, 2, 150, 1999} {
			par, err := calc.Calculate(ctx, nil, 0, n, opts)
			if err != nil {
				t.Fatalf("parallel F(%d): %v", n, err)
			}
			want, err := calc.Calculate(ctx, nil, 0, n, seq)
			if err != nil {
				t.Fatalf("sequential F(%d): %v", n, err)
			}
			if !par.Equal(want) {
				t.Errorf("%s: parallel F(%d) = %s, sequential %s", calc.Name(), n, par, want)
			}
		}
	}
}
