package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileLogger writes a run's activity to logs/evolve_<run>_<date>.log
type FileLogger struct {
	runID   string
	target  string
	logFile *os.File
	logger  *log.Logger
	mu      sync.Mutex
	logPath string
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo       LogLevel = "INFO"
	LogLevelWarning    LogLevel = "WARN"
	LogLevelError      LogLevel = "ERROR"
	LogLevelDebug      LogLevel = "DEBUG"
	LogLevelGeneration LogLevel = "GENERATION"
)

// NewFileLogger creates a file logger for the given run inside logDir.
// An empty logDir defaults to "logs".
func NewFileLogger(logDir, runID, target string) (*FileLogger, error) {
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	started := time.Now()
	filename := fmt.Sprintf("evolve_%s_%s.log", shortRunID(runID), started.Format("2006-01-02"))
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &FileLogger{
		runID:   runID,
		target:  target,
		logFile: file,
		logger:  log.New(file, "", 0),
		logPath: logPath,
	}
	l.writeSessionHeader(started)

	return l, nil
}

func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	if runID == "" {
		return "run"
	}
	return runID
}

func (l *FileLogger) writeSessionHeader(started time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🧬 EVOLUTION RUN STARTED
================================================================================
Run: %s
Target: %q
Started: %s
================================================================================
`, l.runID, l.target, started.Format("2006-01-02 15:04:05"))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *FileLogger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Println(fmt.Sprintf("[%s] [%s] %s", timestamp, level, message))
}

// Info logs an info message
func (l *FileLogger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *FileLogger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Warn is an alias of Warning
func (l *FileLogger) Warn(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *FileLogger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// Debug logs a debug message
func (l *FileLogger) Debug(format string, args ...interface{}) {
	l.Log(LogLevelDebug, format, args...)
}

// Generation logs the best organism of one generation
func (l *FileLogger) Generation(generation uint64, genome string, fitness uint64, mean float64) {
	l.Log(LogLevelGeneration, "#%d best=%d mean=%.2f genome=%q", generation, fitness, mean, genome)
}

// Close writes the session footer and closes the log file
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile == nil {
		return nil
	}

	footer := fmt.Sprintf(`
================================================================================
🛑 EVOLUTION RUN ENDED
================================================================================
Ended: %s
================================================================================

`, time.Now().Format("2006-01-02 15:04:05"))
	l.logger.Print(footer)

	err := l.logFile.Close()
	l.logFile = nil
	return err
}

// GetLogPath returns the log file path
func (l *FileLogger) GetLogPath() string {
	return l.logPath
}
