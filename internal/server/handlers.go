package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/fibbench/internal/bignum"
	apperrors "github.com/agbru/fibbench/internal/errors"
	"github.com/agbru/fibbench/internal/fibonacci"
	"github.com/agbru/fibbench/internal/logging"
	"github.com/agbru/fibbench/internal/service"
	"github.com/agbru/fibbench/pkg/models"
)

// defaultAlgorithm is used when /calculate has no algo parameter.
var defaultAlgorithm = fibonacci.FastDoublingCLZ.String()

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
	})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.AlgorithmsResponse{
		Algorithms: s.service.Algorithms(),
		MaxIndex:   s.securityConfig.MaxNValue,
	})
}

// handleCalculate serves GET /calculate?n=<k>&algo=<name>.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	n, algo, err := parseCalculateParams(r)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.service.Calculate(ctx, algo, n)
	duration := time.Since(start)

	switch {
	case errors.Is(err, service.ErrMaxValueExceeded), errors.Is(err, fibonacci.ErrIndexOutOfRange):
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Value of 'n' exceeds maximum allowed (%d).", s.securityConfig.MaxNValue))
		return
	case errors.Is(err, fibonacci.ErrUnknownAlgorithm):
		s.writeErrorResponse(w, http.StatusNotFound,
			fmt.Sprintf("Unknown algorithm '%s'. See /algorithms.", algo))
		return
	case err != nil:
		s.logger.Error("calculation failed", err,
			logging.String("algorithm", algo),
			logging.Uint64("n", n),
		)
	}

	s.writeJSONResponse(w, http.StatusOK, buildCalculateResponse(n, algo, result, duration, err))
}

// parseCalculateParams reads n and algo from the query string. A missing
// algo selects the CLZ doubling strategy.
func parseCalculateParams(r *http.Request) (uint64, string, error) {
	q := r.URL.Query()
	nStr := q.Get("n")
	if nStr == "" {
		return 0, "", apperrors.NewValidationError("n", "missing parameter", nil)
	}
	n, err := strconv.ParseUint(nStr, 10, 64)
	if err != nil {
		return 0, "", apperrors.NewValidationError("n", "must be a non-negative integer", nStr)
	}

	algo := strings.ToLower(strings.TrimSpace(q.Get("algo")))
	if algo == "" {
		algo = defaultAlgorithm
	}
	return n, algo, nil
}

func buildCalculateResponse(n uint64, algo string, result bignum.Number, duration time.Duration, err error) models.CalculateResponse {
	resp := models.CalculateResponse{
		N:         n,
		Algorithm: algo,
		Duration:  duration.String(),
	}
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Result = &result
	resp.Digits = result.Len()
	return resp
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
