package reporting

import (
	"context"
	"errors"
	"fmt"

	"github.com/ducminhle1904/genome-evolver/pkg/evolution"
)

// ReportingManager fans generation reports out to every configured sink.
// It implements evolution.Reporter.
type ReportingManager struct {
	sinks      []Sink
	finalizers []namedFinalizer
	onError    func(err error)
}

type namedFinalizer struct {
	name string
	Finalizer
}

// NewReportingManager creates an empty manager
func NewReportingManager() *ReportingManager {
	return &ReportingManager{}
}

// AddSink registers a sink; sinks that implement Finalizer are finalized too
func (m *ReportingManager) AddSink(sink Sink) {
	m.sinks = append(m.sinks, sink)
	if f, ok := sink.(Finalizer); ok {
		m.finalizers = append(m.finalizers, namedFinalizer{name: sink.Name(), Finalizer: f})
	}
}

// AddFinalizer registers an end-of-run writer that takes no per-generation input
func (m *ReportingManager) AddFinalizer(name string, f Finalizer) {
	m.finalizers = append(m.finalizers, namedFinalizer{name: name, Finalizer: f})
}

// OnError installs a hook called for each individual sink failure
func (m *ReportingManager) OnError(hook func(err error)) {
	m.onError = hook
}

// Sinks returns the registered sinks
func (m *ReportingManager) Sinks() []Sink {
	return m.sinks
}

// ReportGeneration hands the report to every sink. A failing sink does not
// prevent the others from running; all failures are joined.
func (m *ReportingManager) ReportGeneration(ctx context.Context, report evolution.GenerationReport) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.Report(ctx, report); err != nil {
			err = fmt.Errorf("%s sink: %w", sink.Name(), err)
			m.notify(err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Finalize runs every finalizer once the run has stopped
func (m *ReportingManager) Finalize(result *evolution.RunResult) error {
	var errs []error
	for _, f := range m.finalizers {
		if err := f.Finalize(result); err != nil {
			err = fmt.Errorf("finalize %s: %w", f.name, err)
			m.notify(err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *ReportingManager) notify(err error) {
	if m.onError != nil {
		m.onError(err)
	}
}
