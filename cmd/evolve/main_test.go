package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/genome-evolver/internal/logger"
	"github.com/ducminhle1904/genome-evolver/pkg/config"
	"github.com/ducminhle1904/genome-evolver/pkg/evolution"
	"github.com/ducminhle1904/genome-evolver/pkg/reporting"
)

func TestEvolve_WritesArtifacts(t *testing.T) {
	dir := t.TempDir()

	cfg := config.NewDefaultRunConfig()
	cfg.Evolution.Target = "HI"
	cfg.Evolution.PopulationSize = 60
	cfg.Evolution.SurvivorCount = 10
	cfg.Evolution.BreedCount = 5
	cfg.Evolution.ImmigrantCount = 5
	cfg.Evolution.MaxGenerations = 4
	cfg.Evolution.Seed = 99
	cfg.Reporting.Console = config.ConsoleOff
	cfg.Reporting.OutputDir = filepath.Join(dir, "results")
	cfg.Reporting.CSV = true
	cfg.Monitoring.LogDir = filepath.Join(dir, "logs")
	require.NoError(t, config.NewRunValidator().Validate(cfg))

	var out bytes.Buffer
	console := logger.NewConsole()
	console.SetOutput(&out)
	console.SetSilentMode(true)

	require.NoError(t, evolve(context.Background(), cfg, config.NewManager(), console))

	runDirs, err := os.ReadDir(cfg.Reporting.OutputDir)
	require.NoError(t, err)
	require.Len(t, runDirs, 1)
	runDir := filepath.Join(cfg.Reporting.OutputDir, runDirs[0].Name())

	for _, name := range []string{
		reporting.BestFileName,
		reporting.WorkbookFileName,
		reporting.CSVFileName,
		reporting.ConfigFileName,
	} {
		_, err := os.Stat(filepath.Join(runDir, name))
		assert.NoError(t, err, name)
	}

	logs, err := os.ReadDir(cfg.Monitoring.LogDir)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestEvolve_CancelledRunStillFinalizes(t *testing.T) {
	dir := t.TempDir()

	cfg := config.NewDefaultRunConfig()
	cfg.Evolution.MaxGenerations = 0
	cfg.Reporting.Console = config.ConsoleOff
	cfg.Reporting.Excel = false
	cfg.Reporting.OutputDir = dir
	cfg.Monitoring.FileLog = false

	console := logger.NewConsole()
	console.SetOutput(&bytes.Buffer{})
	console.SetSilentMode(true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, evolve(ctx, cfg, config.NewManager(), console))

	matches, err := filepath.Glob(filepath.Join(dir, "*", reporting.BestFileName))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestFinalizeReports_FailedRunClosesSinks(t *testing.T) {
	dir := t.TempDir()
	csvSink, err := reporting.NewCSVSink(filepath.Join(dir, reporting.CSVFileName))
	require.NoError(t, err)

	reports := reporting.NewReportingManager()
	reports.AddSink(csvSink)
	reports.AddFinalizer("json", reporting.NewJSONWriter(filepath.Join(dir, reporting.BestFileName), nil))
	assert.Equal(t, []string{"csv"}, sinkNames(reports.Sinks()))

	report := evolution.GenerationReport{
		Generation: 0,
		Entries:    []evolution.ReportEntry{{Rank: 1, Genome: "HJ", Fitness: 2}},
		Best:       evolution.ReportEntry{Rank: 1, Genome: "HJ", Fitness: 2},
	}
	require.NoError(t, reports.ReportGeneration(context.Background(), report))

	console := logger.NewConsole()
	console.SetOutput(&bytes.Buffer{})
	finalizeReports(reports, &evolution.RunResult{
		RunID:       "failed-run",
		Target:      "HI",
		Generations: 1,
		Best:        report.Best,
		Reason:      evolution.StopFailed,
	}, console)

	_, err = os.Stat(filepath.Join(dir, reporting.BestFileName))
	assert.NoError(t, err)

	// a closed sink refuses further rows
	assert.Error(t, csvSink.Report(context.Background(), report))

	data, err := os.ReadFile(filepath.Join(dir, reporting.CSVFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "HJ")

	finalizeReports(reports, nil, console)
}
