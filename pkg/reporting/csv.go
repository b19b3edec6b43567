package reporting

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/ducminhle1904/genome-evolver/pkg/evolution"
)

var csvHeader = []string{
	"Generation",
	"Rank",
	"Genome",
	"Fitness",
	"Best",
	"Mean",
	"Std_Dev",
	"Population",
}

// CSVSink streams every reported organism to a CSV file
type CSVSink struct {
	path string

	mu   sync.Mutex
	file *os.File
	w    *csv.Writer
}

// NewCSVSink creates the file and writes the header
func NewCSVSink(path string) (*CSVSink, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, err
	}
	return &CSVSink{path: path, file: f, w: w}, nil
}

// Name returns the sink name
func (s *CSVSink) Name() string { return "csv" }

// Path returns the CSV path
func (s *CSVSink) Path() string { return s.path }

// Report appends one row per reported organism and flushes
func (s *CSVSink) Report(_ context.Context, report evolution.GenerationReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return fmt.Errorf("csv sink %s is closed", s.path)
	}

	gen := strconv.FormatUint(report.Generation, 10)
	best := strconv.FormatUint(report.Stats.Best, 10)
	mean := strconv.FormatFloat(report.Stats.Mean, 'f', 2, 64)
	stdDev := strconv.FormatFloat(report.Stats.StdDev, 'f', 2, 64)
	population := strconv.Itoa(report.Stats.PopulationSize)

	for _, e := range report.Entries {
		if err := s.w.Write([]string{
			gen,
			strconv.Itoa(e.Rank),
			e.Genome,
			strconv.FormatUint(e.Fitness, 10),
			best,
			mean,
			stdDev,
			population,
		}); err != nil {
			return err
		}
	}
	s.w.Flush()
	return s.w.Error()
}

// Finalize flushes and closes the file
func (s *CSVSink) Finalize(*evolution.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	s.w.Flush()
	flushErr := s.w.Error()
	closeErr := s.file.Close()
	s.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
