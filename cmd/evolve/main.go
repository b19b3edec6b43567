package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ducminhle1904/genome-evolver/cmd/common"
	everr "github.com/ducminhle1904/genome-evolver/internal/errors"
	"github.com/ducminhle1904/genome-evolver/internal/logger"
	"github.com/ducminhle1904/genome-evolver/internal/monitoring"
	"github.com/ducminhle1904/genome-evolver/pkg/config"
	"github.com/ducminhle1904/genome-evolver/pkg/evolution"
	"github.com/ducminhle1904/genome-evolver/pkg/reporting"
)

const appName = "evolve"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet(appName, flag.ExitOnError)
	commonFlags := common.RegisterCommonFlags(fs)
	evolveFlags := RegisterEvolveFlags(fs)

	formatter := common.NewUsageFormatter(appName, "evolve a population of strings towards a target").
		AddExample(appName+" -target \"HELLO WORLD\" -threshold 0", "Evolve until an exact match").
		AddExample(appName+" -generations 0 -console compact", "Run until interrupted, one line per organism").
		AddExample(appName+" -config run.json -metrics-addr :9090", "Load a config file and expose metrics")
	fs.Usage = func() { formatter.PrintUsage(fs) }

	if err := fs.Parse(args); err != nil {
		return err
	}
	if common.CheckHelpAndVersion(appName, fs, commonFlags, formatter) {
		return nil
	}

	console := logger.NewConsole()
	common.SetupLogger(console, commonFlags)

	loaded, err := config.LoadEnvFile(*commonFlags.EnvFile)
	if err != nil {
		console.Warn("Could not load environment file %s: %v", *commonFlags.EnvFile, err)
	} else if loaded {
		console.Debug("Environment loaded from %s", *commonFlags.EnvFile)
	}

	if err := evolveFlags.Validate(fs); err != nil {
		return err
	}

	manager := config.NewManager()
	cfg, err := manager.LoadConfig(*evolveFlags.ConfigFile, evolveFlags.Overrides(fs))
	if err != nil {
		return err
	}
	if !*commonFlags.Verbose {
		console.Level = logger.ParseLevel(cfg.Monitoring.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return evolve(ctx, cfg, manager, console)
}

// evolve wires the driver to its sinks and monitoring, runs it and writes the
// final artifacts
func evolve(ctx context.Context, cfg *config.RunConfig, manager *config.Manager, console *logger.Console) error {
	reports := reporting.NewReportingManager()
	driver, err := evolution.NewDriver(cfg.Evolution, evolution.NewRandomSource(cfg.Evolution.Seed), reports)
	if err != nil {
		return err
	}
	runID := driver.RunID()

	var runLogger logger.LeveledLogger = console
	if cfg.Monitoring.FileLog {
		fileLogger, err := logger.NewFileLogger(cfg.Monitoring.LogDir, runID, cfg.Evolution.Target)
		if err != nil {
			return everr.NewIOError("cli", "NewFileLogger", err)
		}
		defer fileLogger.Close()
		runLogger = logger.Tee{console, fileLogger}

		reports.AddSink(reporting.SinkFunc{SinkName: "file-log", Fn: func(_ context.Context, r evolution.GenerationReport) error {
			fileLogger.Generation(r.Generation, r.Best.Genome, r.Best.Fitness, r.Stats.Mean)
			return nil
		}})
		console.Debug("Logging run to %s", fileLogger.GetLogPath())
	}
	driver.SetLogger(runLogger)

	switch cfg.Reporting.Console {
	case config.ConsoleTable:
		reports.AddSink(reporting.NewConsoleSink(reporting.ConsoleStyleTable))
	case config.ConsoleCompact:
		reports.AddSink(reporting.NewConsoleSink(reporting.ConsoleStyleCompact))
	}

	paths := reporting.NewPathManager(cfg.Reporting.OutputDir)
	runDir := paths.RunDir(runID)
	if cfg.Reporting.Excel || cfg.Reporting.JSON || cfg.Reporting.CSV {
		if err := paths.EnsureDirectoryExists(runDir); err != nil {
			return everr.NewIOError("cli", "EnsureDirectoryExists", err).WithContext("path", runDir)
		}
		if err := manager.SaveConfig(cfg, paths.File(runDir, reporting.ConfigFileName)); err != nil {
			console.Warn("Could not save configuration: %v", err)
		}
	}
	if cfg.Reporting.Excel {
		reports.AddSink(reporting.NewExcelRecorder(paths.File(runDir, reporting.WorkbookFileName)))
	}
	if cfg.Reporting.CSV {
		csvSink, err := reporting.NewCSVSink(paths.File(runDir, reporting.CSVFileName))
		if err != nil {
			return everr.NewIOError("cli", "NewCSVSink", err)
		}
		reports.AddSink(csvSink)
	}
	if cfg.Reporting.JSON {
		reports.AddFinalizer("json", reporting.NewJSONWriter(paths.File(runDir, reporting.BestFileName), cfg.Evolution))
	}

	if cfg.Reporting.NATSURL != "" {
		nc, err := reporting.ConnectNATS(ctx, cfg.Reporting.NATSURL, appName+"-"+runID, 3)
		if err != nil {
			// the run still has its local sinks
			console.Warn("NATS unavailable at %s: %v", cfg.Reporting.NATSURL, err)
		} else {
			defer nc.Close()
			reports.AddSink(reporting.NewNATSSink(nc, cfg.Reporting.NATSSubject))
			console.Info("Publishing generations to %s on %s", cfg.Reporting.NATSURL, cfg.Reporting.NATSSubject)
		}
	}

	metrics := monitoring.NewMetrics()
	health := monitoring.NewHealthChecker(runID, cfg.Evolution.Target)
	reports.OnError(func(err error) {
		metrics.RecordError(everr.NewReportingError("reporting", "ReportGeneration", err))
		health.RecordError(err)
	})

	serverDone := make(chan struct{})
	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()
	if cfg.Monitoring.MetricsAddr != "" {
		reports.AddSink(reporting.SinkFunc{SinkName: "metrics", Fn: metrics.ReportGeneration})
		reports.AddSink(reporting.SinkFunc{SinkName: "health", Fn: health.ReportGeneration})

		server := monitoring.NewServer(cfg.Monitoring.MetricsAddr, health, metrics)
		go func() {
			defer close(serverDone)
			if err := server.Run(serverCtx); err != nil {
				console.Error("Status server stopped: %v", err)
			}
		}()
		console.Info("Status server listening on %s", cfg.Monitoring.MetricsAddr)
	} else {
		close(serverDone)
	}

	runLogger.Info("%s %s, run %s", common.ProjectName, common.GetFullVersion(), runID)
	console.Debug("Reporting to: %s", strings.Join(sinkNames(reports.Sinks()), ", "))

	console.Header(common.ProjectName)
	if !console.SilentMode {
		reporting.PrintConfig(os.Stdout, runID, cfg.Evolution)
	}

	result, runErr := driver.Run(ctx)
	if runErr != nil {
		metrics.RecordError(runErr)
		console.Error("Run failed at generation %d: %v", driver.Generation(), runErr)
	}
	finalizeReports(reports, result, console)

	if result != nil {
		console.Section("Summary")
		if !console.SilentMode {
			reporting.PrintSummary(os.Stdout, result)
		}
	}
	if runErr == nil && (cfg.Reporting.Excel || cfg.Reporting.JSON || cfg.Reporting.CSV) {
		console.Success("Results saved to %s", runDir)
	}

	stopServer()
	select {
	case <-serverDone:
	case <-time.After(10 * time.Second):
		console.Warn("Status server did not stop in time")
	}
	return runErr
}

// finalizeReports closes the streaming sinks and writes the end-of-run
// artifacts, also for a run that stopped on an error
func finalizeReports(reports *reporting.ReportingManager, result *evolution.RunResult, console *logger.Console) {
	if result == nil {
		return
	}
	if err := reports.Finalize(result); err != nil {
		console.Warn("Some reports could not be written: %v", err)
	}
}

func sinkNames(sinks []reporting.Sink) []string {
	names := make([]string, len(sinks))
	for i, sink := range sinks {
		names[i] = sink.Name()
	}
	return names
}
