package evolution

import (
	"context"
	"time"
)

// ReportEntry is one reported organism
type ReportEntry struct {
	Rank    int    `json:"rank"`
	Genome  string `json:"genome"`
	Fitness uint64 `json:"fitness"`
}

// GenerationReport is what the driver hands to reporters once per generation.
// Entries are ordered by ascending fitness.
type GenerationReport struct {
	RunID        string          `json:"run_id"`
	Generation   uint64          `json:"generation"`
	Target       string          `json:"target"`
	Entries      []ReportEntry   `json:"entries"`
	Best         ReportEntry     `json:"best"`
	Stats        GenerationStats `json:"stats"`
	StepDuration time.Duration   `json:"step_duration_ns"`
	Timestamp    time.Time       `json:"timestamp"`
}

// Reporter consumes generation reports
type Reporter interface {
	ReportGeneration(ctx context.Context, report GenerationReport) error
}

// ReporterFunc adapts a function to the Reporter interface
type ReporterFunc func(ctx context.Context, report GenerationReport) error

// ReportGeneration calls f
func (f ReporterFunc) ReportGeneration(ctx context.Context, report GenerationReport) error {
	return f(ctx, report)
}

// Logger is the logging surface the driver needs
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

// StopReason explains why Run returned
type StopReason string

const (
	StopMaxGenerations   StopReason = "max_generations"
	StopFitnessThreshold StopReason = "fitness_threshold"
	StopCancelled        StopReason = "cancelled"
	StopFailed           StopReason = "failed"
)

// RunResult summarizes a completed run
type RunResult struct {
	RunID           string        `json:"run_id"`
	Target          string        `json:"target"`
	Generations     uint64        `json:"generations"`
	Best            ReportEntry   `json:"best"`
	Reason          StopReason    `json:"reason"`
	Elapsed         time.Duration `json:"elapsed_ns"`
	ReportingErrors int           `json:"reporting_errors"`
}
