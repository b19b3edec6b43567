package reporting

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/genome-evolver/pkg/evolution"
)

// ConsoleStyle selects the per-generation console rendering
type ConsoleStyle int

const (
	// ConsoleStyleCompact prints one line per reported organism
	ConsoleStyleCompact ConsoleStyle = iota
	// ConsoleStyleTable prints a table per generation
	ConsoleStyleTable
)

// ConsoleSink prints generation reports to a terminal
type ConsoleSink struct {
	out   io.Writer
	style ConsoleStyle
}

// NewConsoleSink creates a console sink writing to stdout
func NewConsoleSink(style ConsoleStyle) *ConsoleSink {
	return &ConsoleSink{out: os.Stdout, style: style}
}

// SetOutput redirects the sink output
func (c *ConsoleSink) SetOutput(w io.Writer) {
	c.out = w
}

// Name returns the sink name
func (c *ConsoleSink) Name() string { return "console" }

// Report prints the reported organisms in ascending fitness order
func (c *ConsoleSink) Report(_ context.Context, report evolution.GenerationReport) error {
	if c.style == ConsoleStyleCompact {
		for _, e := range report.Entries {
			if _, err := fmt.Fprintln(c.out, FormatCompactLine(report.Generation, e)); err != nil {
				return err
			}
		}
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetTitle(fmt.Sprintf("GENERATION %d", report.Generation))
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Genome", "Error"})
	for _, e := range report.Entries {
		t.AppendRow(table.Row{e.Rank, e.Genome, e.Fitness})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("mean %.1f ± %.1f", report.Stats.Mean, report.Stats.StdDev), report.Stats.Best})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMin: 20, WidthMax: 60, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
	return nil
}

// FormatCompactLine renders one organism as
// "[GENERATION    n]    <genome right-aligned in 45>  [ERR:    f]"
func FormatCompactLine(generation uint64, entry evolution.ReportEntry) string {
	return fmt.Sprintf("[GENERATION %4d]    %45s  [ERR: %4d]", generation, entry.Genome, entry.Fitness)
}

// PrintConfig prints the run configuration as a table
func PrintConfig(w io.Writer, runID string, cfg evolution.Config) {
	threshold := "none"
	if cfg.FitnessThreshold != nil {
		threshold = fmt.Sprintf("%d", *cfg.FitnessThreshold)
	}
	maxGenerations := "unbounded"
	if cfg.MaxGenerations > 0 {
		maxGenerations = fmt.Sprintf("%d", cfg.MaxGenerations)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("EVOLUTION CONFIGURATION")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"🆔 Run", runID},
		{"🎯 Target", fmt.Sprintf("%q", cfg.Target)},
		{"🔤 Alphabet", fmt.Sprintf("%q", cfg.Alphabet)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"👥 Population", cfg.PopulationSize},
		{"🏆 Survivors", cfg.SurvivorCount},
		{"🧬 Children", cfg.BreedCount},
		{"🌱 Immigrants", cfg.ImmigrantCount},
		{"📣 Reported", cfg.ReportCount},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"🎲 Mutation", fmt.Sprintf("1/%d, shift ±%d, %s", cfg.MutationRate, cfg.MaxShift, cfg.MutationPolicy)},
		{"⏹️ Generations", maxGenerations},
		{"📉 Threshold", threshold},
		{"⚙️ Workers", cfg.Workers},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 16, WidthMax: 16, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 60, Align: text.AlignLeft},
	})
	t.Render()
}

// PrintSummary prints the final result of a run as a table
func PrintSummary(w io.Writer, result *evolution.RunResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("EVOLUTION RESULT")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"🆔 Run", result.RunID},
		{"⏹️ Stopped", strings.ReplaceAll(string(result.Reason), "_", " ")},
		{"🔄 Generations", result.Generations},
		{"⏱️ Elapsed", result.Elapsed.Round(time.Millisecond).String()},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"🎯 Target", fmt.Sprintf("%q", result.Target)},
		{"🧬 Best", fmt.Sprintf("%q", result.Best.Genome)},
		{"📉 Error", result.Best.Fitness},
	})
	if result.ReportingErrors > 0 {
		t.AppendSeparator()
		t.AppendRow(table.Row{"⚠️ Report errors", result.ReportingErrors})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 16, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 60, Align: text.AlignLeft},
	})
	t.Render()
}
