// Command generate-golden writes the reference Fibonacci values used by the
// golden-file tests. Values are produced with math/big, independently of the
// decimal arithmetic under test.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

// GoldenData is a single entry of the golden file.
type GoldenData struct {
	N      uint64 `json:"n"`
	Result string `json:"result"`
}

func main() {
	outputDir := flag.String("out", "internal/fibonacci/testdata", "Output directory for the golden file")
	maxIndex := flag.Uint64("max", 150, "Every index from 0 to max is included")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "fibonacci_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	// The dense range covers the default maximum index; a few larger
	// indices exercise multi-word products and the CLZ scan on 9-bit values.
	targets := make([]uint64, 0, *maxIndex+4)
	for n := uint64(0); n <= *maxIndex; n++ {
		targets = append(targets, n)
	}
	for _, n := range []uint64{200, 256, 300} {
		if n > *maxIndex {
			targets = append(targets, n)
		}
	}

	data := make([]GoldenData, 0, len(targets))
	a, b := big.NewInt(0), big.NewInt(1)
	next := uint64(0)
	for _, n := range targets {
		for ; next < n; next++ {
			a.Add(a, b)
			a, b = b, a
		}
		data = append(data, GoldenData{N: n, Result: a.String()})
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %d entries in %s\n", len(data), filename)
}
