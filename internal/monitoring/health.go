package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/ducminhle1904/genome-evolver/pkg/evolution"
)

var startTime = time.Now()

// DefaultRecoveryGenerations is how many generations without a new error
// bring a degraded run back to healthy
const DefaultRecoveryGenerations = 10

// HealthChecker remembers the latest generation report of a run
type HealthChecker struct {
	mu             sync.RWMutex
	runID          string
	target         string
	lastReport     *evolution.GenerationReport
	lastReportedAt time.Time
	errors         []string
	maxErrors      int

	recoverAfter          int
	generationsSinceError int
}

// HealthStatus is the /health payload
type HealthStatus struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	LastGeneration time.Time `json:"last_generation,omitempty"`
	Uptime         string    `json:"uptime"`
	Errors         []string  `json:"errors,omitempty"`
}

// RunStatus is the /status payload
type RunStatus struct {
	RunID       string                     `json:"run_id"`
	Target      string                     `json:"target"`
	Generation  uint64                     `json:"generation"`
	BestGenome  string                     `json:"best_genome"`
	BestFitness uint64                     `json:"best_fitness"`
	Stats       *evolution.GenerationStats `json:"stats,omitempty"`
	Uptime      string                     `json:"uptime"`
}

// NewHealthChecker creates a checker for the given run
func NewHealthChecker(runID, target string) *HealthChecker {
	return &HealthChecker{
		runID:        runID,
		target:       target,
		errors:       make([]string, 0),
		maxErrors:    10,
		recoverAfter: DefaultRecoveryGenerations,
	}
}

// SetRecoveryGenerations sets how many clean generations end a degraded state
func (h *HealthChecker) SetRecoveryGenerations(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recoverAfter = max(n, 1)
}

// ReportGeneration stores the report as the current state of the run
func (h *HealthChecker) ReportGeneration(_ context.Context, report evolution.GenerationReport) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastReport = &report
	h.lastReportedAt = time.Now()
	h.generationsSinceError++
	return nil
}

// RecordError keeps the most recent error messages
func (h *HealthChecker) RecordError(err error) {
	if err == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.errors = append(h.errors, err.Error())
	if len(h.errors) > h.maxErrors {
		h.errors = h.errors[1:]
	}
	h.generationsSinceError = 0
}

// Health reports "starting" until the first generation, "healthy" afterwards
// and "degraded" until recoverAfter generations pass without a new error.
// Recent errors stay in the payload either way.
func (h *HealthChecker) Health() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if h.lastReport == nil {
		status = "starting"
	} else if len(h.errors) > 0 && h.generationsSinceError <= h.recoverAfter {
		status = "degraded"
	}

	return HealthStatus{
		Status:         status,
		Timestamp:      time.Now(),
		LastGeneration: h.lastReportedAt,
		Uptime:         time.Since(startTime).String(),
		Errors:         append([]string(nil), h.errors...),
	}
}

// Status returns the current generation and best organism
func (h *HealthChecker) Status() RunStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := RunStatus{
		RunID:  h.runID,
		Target: h.target,
		Uptime: time.Since(startTime).String(),
	}
	if h.lastReport != nil {
		stats := h.lastReport.Stats
		status.Generation = h.lastReport.Generation
		status.BestGenome = h.lastReport.Best.Genome
		status.BestFitness = h.lastReport.Best.Fitness
		status.Stats = &stats
	}
	return status
}
