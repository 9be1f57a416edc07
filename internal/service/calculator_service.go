// Package service validates and runs single Fibonacci calculations on
// behalf of request-driven callers such as the HTTP server.
package service

//go:generate mockgen -source=calculator_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/agbru/fibbench/internal/bignum"
	"github.com/agbru/fibbench/internal/config"
	"github.com/agbru/fibbench/internal/fibonacci"
)

// ErrMaxValueExceeded is returned when n exceeds the configured maximum.
var ErrMaxValueExceeded = errors.New("maximum n value exceeded")

// Service computes Fibonacci numbers by algorithm name.
type Service interface {
	// Calculate returns F(n) computed with the algorithm registered as
	// algoName. Unknown names yield an error wrapping
	// fibonacci.ErrUnknownAlgorithm.
	Calculate(ctx context.Context, algoName string, n uint64) (bignum.Number, error)
	// Algorithms lists the accepted algorithm names.
	Algorithms() []string
}

// CalculatorService implements Service on top of a CalculatorFactory.
type CalculatorService struct {
	factory fibonacci.CalculatorFactory
	opts    fibonacci.Options
	maxN    uint64
}

var _ Service = (*CalculatorService)(nil)

// NewCalculatorService creates a CalculatorService. maxN caps the accepted
// index; 0 falls back to cfg.MaxIndex.
func NewCalculatorService(factory fibonacci.CalculatorFactory, cfg config.AppConfig, maxN uint64) *CalculatorService {
	if maxN == 0 {
		maxN = cfg.MaxIndex
	}
	opts := cfg.ToCalculationOptions()
	if maxN > 0 {
		opts.MaxIndex = maxN
	}
	return &CalculatorService{
		factory: factory,
		opts:    opts,
		maxN:    maxN,
	}
}

// Calculate validates n, resolves the calculator and runs it without
// progress reporting.
func (s *CalculatorService) Calculate(ctx context.Context, algoName string, n uint64) (bignum.Number, error) {
	if s.maxN > 0 && n > s.maxN {
		return bignum.Number{}, fmt.Errorf("%w: n=%d, max=%d", ErrMaxValueExceeded, n, s.maxN)
	}

	calc, err := s.factory.Get(algoName)
	if err != nil {
		return bignum.Number{}, err
	}
	return calc.Calculate(ctx, nil, 0, n, s.opts)
}

// Algorithms returns the registered algorithm names in sorted order.
func (s *CalculatorService) Algorithms() []string {
	return s.factory.List()
}

// MaxN returns the largest accepted index, or 0 if unbounded.
func (s *CalculatorService) MaxN() uint64 {
	return s.maxN
}
