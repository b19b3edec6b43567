// Package reporting renders and exports generation reports: console tables,
// CSV and Excel history, best.json and a NATS stream.
package reporting

import (
	"context"

	"github.com/ducminhle1904/genome-evolver/pkg/evolution"
)

// Sink consumes one report per generation
type Sink interface {
	Name() string
	Report(ctx context.Context, report evolution.GenerationReport) error
}

// Finalizer is implemented by sinks that write their output once the run stops
type Finalizer interface {
	Finalize(result *evolution.RunResult) error
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc struct {
	SinkName string
	Fn       func(ctx context.Context, report evolution.GenerationReport) error
}

// Name returns the sink name
func (f SinkFunc) Name() string { return f.SinkName }

// Report calls Fn
func (f SinkFunc) Report(ctx context.Context, report evolution.GenerationReport) error {
	return f.Fn(ctx, report)
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle  int
	BaseStyle    int
	NumberStyle  int
	DecimalStyle int
	GenomeStyle  int
	SummaryStyle int
}
