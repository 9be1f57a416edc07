package sweep

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/agbru/fibbench/pkg/models"
)

// NewReport wraps points with the run parameters and host description.
func NewReport(points []models.SweepPoint, maxIndex uint64, repeat int, algorithms []string) models.SweepReport {
	return models.SweepReport{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		MaxIndex:   maxIndex,
		Repeat:     repeat,
		Algorithms: algorithms,
		GoVersion:  runtime.Version(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		NumCPU:     runtime.NumCPU(),
		Points:     points,
	}
}

// SaveReport writes report as indented JSON to path on fsys, creating
// parent directories as needed.
func SaveReport(fsys afero.Fs, path string, report models.SweepReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sweep report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sweep report: %w", err)
	}
	return nil
}

// LoadReport reads a report written by SaveReport.
func LoadReport(fsys afero.Fs, path string) (models.SweepReport, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return models.SweepReport{}, fmt.Errorf("failed to read sweep report: %w", err)
	}
	var report models.SweepReport
	if err := json.Unmarshal(data, &report); err != nil {
		return models.SweepReport{}, fmt.Errorf("failed to parse sweep report: %w", err)
	}
	return report, nil
}
