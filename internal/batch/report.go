package batch

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrReportNotFound is returned when no run has been recorded yet.
var ErrReportNotFound = errors.New("batch: report not found")

// ReportStore persists the last run's Result as JSON.
type ReportStore struct {
	path string
}

// NewReportStore stores the report at path.
func NewReportStore(path string) *ReportStore {
	return &ReportStore{path: path}
}

// Path returns the report location.
func (s *ReportStore) Path() string {
	return s.path
}

// Load reads the persisted report if present.
func (s *ReportStore) Load() (Result, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, ErrReportNotFound
		}
		return Result{}, err
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, err
	}
	return result, nil
}

// Save writes the report, replacing any previous one.
func (s *ReportStore) Save(result Result) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(encoded, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Hook returns a finish hook that saves every result.
func (s *ReportStore) Hook() FinishHook {
	return func(_ context.Context, result Result) error {
		return s.Save(result)
	}
}
