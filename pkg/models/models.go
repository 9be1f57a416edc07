/*
Package models defines the JSON documents exchanged by fibbench.

These models are used for:
  - **HTTP API**: responses of /calculate, /algorithms and /health.
  - **CLI JSON output**: one CalculationResult per strategy with -json.
  - **Sweep reports**: the benchmark table saved with -sweep-report.
*/
package models

import (
	"time"

	"github.com/agbru/fibbench/internal/bignum"
)

// CalculateResponse is the body of GET /calculate.
type CalculateResponse struct {
	N         uint64 `json:"n"`
	Algorithm string `json:"algorithm"`
	// Result is a bare JSON number. It is omitted when Error is set.
	Result *bignum.Number `json:"result,omitempty"`
	Digits int            `json:"digits,omitempty"`
	// Duration is the formatted compute time, e.g. "1.2ms".
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AlgorithmsResponse is the body of GET /algorithms.
type AlgorithmsResponse struct {
	Algorithms []string `json:"algorithms"`
	MaxIndex   uint64   `json:"max_index"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// CalculationResult is one strategy's outcome in CLI JSON output.
type CalculationResult struct {
	Algorithm string `json:"algorithm"`
	Duration  string `json:"duration"`
	Result    string `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SweepPoint is one measurement: the fastest of the repeated reads of F(K).
type SweepPoint struct {
	K         uint64 `json:"k"`
	Algorithm string `json:"algorithm"`
	Digits    int    `json:"digits"`
	ElapsedNS int64  `json:"elapsed_ns"`
}

// SweepReport is a complete benchmark sweep.
type SweepReport struct {
	ID         string       `json:"id"`
	CreatedAt  time.Time    `json:"created_at"`
	MaxIndex   uint64       `json:"max_index"`
	Repeat     int          `json:"repeat"`
	Algorithms []string     `json:"algorithms"`
	GoVersion  string       `json:"go_version"`
	GOOS       string       `json:"goos"`
	GOARCH     string       `json:"goarch"`
	NumCPU     int          `json:"num_cpu"`
	Points     []SweepPoint `json:"points"`
}
