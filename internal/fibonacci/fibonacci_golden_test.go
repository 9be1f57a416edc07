package fibonacci

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/agbru/fibbench/internal/bignum"
)

// GoldenData is an entry of the golden file written by cmd/generate-golden.
type GoldenData struct {
	N      uint64        `json:"n"`
	Result bignum.Number `json:"result"`
}

func loadGolden(t *testing.T) []GoldenData {
	t.Helper()
	goldenPath := filepath.Join("testdata", "fibonacci_golden.json")
	file, err := os.Open(goldenPath)
	if err != nil {
		t.Fatalf("Failed to open golden file: %v. Did you run 'go run ./cmd/generate-golden'?", err)
	}
	defer file.Close()

	var cases []GoldenData
	if err := json.NewDecoder(file).Decode(&cases); err != nil {
		t.Fatalf("Failed to decode golden file: %v", err)
	}
	return cases
}

func TestCalculatorsAgainstGoldenFile(t *testing.T) {
	t.Parallel()
	cases := loadGolden(t)
	if len(cases) == 0 {
		t.Fatal("golden file is empty")
	}
	ctx := context.Background()
	opts := Options{MaxIndex: 1000}

	for _, algo := range Algorithms() {
		calc := NewCalculator(newCore(algo))
		t.Run(algo.String(), func(t *testing.T) {
			t.Parallel()
			for _, tc := range cases {
				t.Run(fmt.Sprintf("N=%d", tc.N), func(t *testing.T) {
					got, err := calc.Calculate(ctx, nil, 0, tc.N, opts)
					if err != nil {
						t.Fatalf("Calculation failed for N=%d: %v", tc.N, err)
					}
					if !got.Equal(tc.Result) {
						t.Errorf("Mismatch for N=%d.\nExpected: %s\nGot:      %s", tc.N, tc.Result, got)
					}
				})
			}
		})
	}
}

func TestFormatterAgainstGoldenFile(t *testing.T) {
	t.Parallel()
	for _, tc := range loadGolden(t) {
		if tc.N > DefaultMaxIndex {
			continue
		}
		got, err := Compute(tc.N, FastDoublingCLZ)
		if err != nil {
			t.Fatal(err)
		}
		buf := make([]byte, bignum.DigitsBound(tc.N))
		n, err := got.Format(buf)
		if err != nil {
			t.Fatalf("Format(F(%d)) into %d bytes: %v", tc.N, len(buf), err)
		}
		if string(buf[:n]) != tc.Result.String() {
			t.Errorf("F(%d) formatted as %q, want %q", tc.N, buf[:n], tc.Result)
		}
	}
}
