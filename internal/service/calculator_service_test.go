package service

import (
	"context"
	"errors"
	"testing"

	"github.com/agbru/fibbench/internal/bignum"
	"github.com/agbru/fibbench/internal/config"
	"github.com/agbru/fibbench/internal/fibonacci"
)

func TestNewCalculatorService(t *testing.T) {
	t.Parallel()
	factory := fibonacci.NewTestFactory(nil)

	svc := NewCalculatorService(factory, config.AppConfig{MaxIndex: 150, Threshold: 10}, 0)
	if svc.MaxN() != 150 {
		t.Errorf("MaxN() = %d, want the config max index 150", svc.MaxN())
	}
	if svc.opts.ParallelThreshold != 10 {
		t.Errorf("ParallelThreshold = %d, want 10", svc.opts.ParallelThreshold)
	}

	svc = NewCalculatorService(factory, config.AppConfig{MaxIndex: 150}, 1000)
	if svc.MaxN() != 1000 || svc.opts.MaxIndex != 1000 {
		t.Errorf("explicit maxN not applied: MaxN=%d opts.MaxIndex=%d", svc.MaxN(), svc.opts.MaxIndex)
	}
}

func TestCalculate(t *testing.T) {
	t.Parallel()
	calcErr := errors.New("calculation failed")

	tests := []struct {
		name     string
		algoName string
		n        uint64
		maxN     uint64
		calc     fibonacci.Calculator
		wantErr  error
		want     string
	}{
		{
			name:     "success",
			algoName: "doubling",
			n:        10,
			maxN:     100,
			calc:     &fibonacci.MockCalculator{Result: bignum.New(55)},
			want:     "55",
		},
		{
			name:     "exceeds max n",
			algoName: "doubling",
			n:        200,
			maxN:     100,
			calc:     &fibonacci.MockCalculator{Result: bignum.New(1)},
			wantErr:  ErrMaxValueExceeded,
		},
		{
			name:     "unknown algorithm",
			algoName: "matrix",
			n:        10,
			maxN:     100,
			wantErr:  fibonacci.ErrUnknownAlgorithm,
		},
		{
			name:     "calculation error",
			algoName: "doubling",
			n:        10,
			maxN:     100,
			calc:     &fibonacci.MockCalculator{Err: calcErr},
			wantErr:  calcErr,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			calcs := map[string]fibonacci.Calculator{}
			if tc.calc != nil {
				calcs[tc.algoName] = tc.calc
			}
			svc := NewCalculatorService(fibonacci.NewTestFactory(calcs), config.AppConfig{}, tc.maxN)

			got, err := svc.Calculate(context.Background(), tc.algoName, tc.n)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tc.want {
				t.Errorf("result = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestCalculate_RealFactory(t *testing.T) {
	t.Parallel()
	svc := NewCalculatorService(fibonacci.NewDefaultFactory(), config.AppConfig{MaxIndex: 150}, 0)

	for _, name := range svc.Algorithms() {
		got, err := svc.Calculate(context.Background(), name, 150)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if got.String() != "9969216677189303386214405760200" {
			t.Errorf("%s: F(150) = %s", name, got)
		}
	}
	if _, err := svc.Calculate(context.Background(), "dp", 151); !errors.Is(err, ErrMaxValueExceeded) {
		t.Errorf("F(151) err = %v, want ErrMaxValueExceeded", err)
	}
}

func TestCalculate_ContextCanceled(t *testing.T) {
	t.Parallel()
	factory := fibonacci.NewTestFactory(map[string]fibonacci.Calculator{
		"dp": &fibonacci.MockCalculator{Fn: func(ctx context.Context, n uint64) (bignum.Number, error) {
			return bignum.Number{}, ctx.Err()
		}},
	})
	svc := NewCalculatorService(factory, config.AppConfig{}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Calculate(ctx, "dp", 10); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestAlgorithms(t *testing.T) {
	t.Parallel()
	svc := NewCalculatorService(fibonacci.NewDefaultFactory(), config.AppConfig{}, 0)
	got := svc.Algorithms()
	want := []string{"doubling", "doubling-clz", "dp"}
	if len(got) != len(want) {
		t.Fatalf("Algorithms() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Algorithms()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
