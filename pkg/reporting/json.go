package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ducminhle1904/genome-evolver/pkg/evolution"
)

// BestResult is the best.json document
type BestResult struct {
	RunID       string               `json:"run_id"`
	Target      string               `json:"target"`
	Genome      string               `json:"genome"`
	Fitness     uint64               `json:"fitness"`
	ExactMatch  bool                 `json:"exact_match"`
	Generations uint64               `json:"generations"`
	Reason      evolution.StopReason `json:"reason"`
	ElapsedMS   int64                `json:"elapsed_ms"`
	Config      interface{}          `json:"config,omitempty"`
}

// JSONWriter writes best.json once the run stops
type JSONWriter struct {
	path   string
	config interface{}
}

// NewJSONWriter creates a writer for path. config, when non-nil, is embedded
// so the result can be reproduced.
func NewJSONWriter(path string, config interface{}) *JSONWriter {
	return &JSONWriter{path: path, config: config}
}

// Path returns the output path
func (w *JSONWriter) Path() string { return w.path }

// Finalize writes the best organism of the run
func (w *JSONWriter) Finalize(result *evolution.RunResult) error {
	return WriteBestJSON(NewBestResult(result, w.config), w.path)
}

// NewBestResult builds the best.json document from a run result
func NewBestResult(result *evolution.RunResult, config interface{}) BestResult {
	return BestResult{
		RunID:       result.RunID,
		Target:      result.Target,
		Genome:      result.Best.Genome,
		Fitness:     result.Best.Fitness,
		ExactMatch:  result.Best.Fitness == 0 && result.Best.Genome == result.Target,
		Generations: result.Generations,
		Reason:      result.Reason,
		ElapsedMS:   result.Elapsed.Milliseconds(),
		Config:      config,
	}
}

// FormatBestResult formats a result as indented JSON
func FormatBestResult(best BestResult) ([]byte, error) {
	return json.MarshalIndent(best, "", "  ")
}

// WriteBestJSON writes the document to path, creating parent directories
func WriteBestJSON(best BestResult, path string) error {
	data, err := FormatBestResult(best)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return os.WriteFile(path, data, 0644)
}
