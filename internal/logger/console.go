package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Level represents console verbosity
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel maps a level name to a Level, defaulting to info
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return LevelError
	case "warn", "warning":
		return LevelWarn
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Console provides leveled logging for the CLI
type Console struct {
	Level      Level
	ShowEmojis bool
	SilentMode bool

	out io.Writer
}

// NewConsole creates a console logger writing to stdout
func NewConsole() *Console {
	return &Console{
		Level:      LevelInfo,
		ShowEmojis: true,
		out:        os.Stdout,
	}
}

// SetOutput redirects the console output
func (c *Console) SetOutput(w io.Writer) {
	c.out = w
}

// SetSilentMode enables or disables silent mode
func (c *Console) SetSilentMode(silent bool) {
	c.SilentMode = silent
}

func (c *Console) emoji(symbol, plain string) string {
	if c.ShowEmojis {
		return symbol
	}
	return plain
}

// Header prints a formatted header
func (c *Console) Header(title string) {
	if c.SilentMode {
		return
	}
	fmt.Fprintf(c.out, "\n%s %s\n", c.emoji("🧬", "***"), strings.ToUpper(title))
	fmt.Fprintf(c.out, "%s\n", strings.Repeat("=", len(title)+5))
}

// Section prints a formatted section header
func (c *Console) Section(title string) {
	if c.SilentMode {
		return
	}
	fmt.Fprintf(c.out, "\n%s %s\n", c.emoji("📋", "---"), title)
	fmt.Fprintf(c.out, "%s\n", strings.Repeat("-", len(title)+5))
}

// Info prints an info message
func (c *Console) Info(format string, args ...interface{}) {
	if c.SilentMode || c.Level < LevelInfo {
		return
	}
	fmt.Fprintf(c.out, "%s  %s\n", c.emoji("ℹ️", "[INFO]"), fmt.Sprintf(format, args...))
}

// Error prints an error message, even in silent mode
func (c *Console) Error(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", c.emoji("❌", "[ERROR]"), fmt.Sprintf(format, args...))
}

// Success prints a success message
func (c *Console) Success(format string, args ...interface{}) {
	if c.SilentMode {
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", c.emoji("✅", "[SUCCESS]"), fmt.Sprintf(format, args...))
}

// Warn prints a warning message
func (c *Console) Warn(format string, args ...interface{}) {
	if c.Level < LevelWarn {
		return
	}
	fmt.Fprintf(c.out, "%s  %s\n", c.emoji("⚠️", "[WARN]"), fmt.Sprintf(format, args...))
}

// Debug prints a debug message
func (c *Console) Debug(format string, args ...interface{}) {
	if c.SilentMode || c.Level < LevelDebug {
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", c.emoji("🔍", "[DEBUG]"), fmt.Sprintf(format, args...))
}

// LeveledLogger is the common surface of Console and FileLogger
type LeveledLogger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// Tee forwards every entry to all loggers
type Tee []LeveledLogger

func (t Tee) Info(format string, args ...interface{}) {
	for _, l := range t {
		l.Info(format, args...)
	}
}

func (t Tee) Warn(format string, args ...interface{}) {
	for _, l := range t {
		l.Warn(format, args...)
	}
}

func (t Tee) Debug(format string, args ...interface{}) {
	for _, l := range t {
		l.Debug(format, args...)
	}
}
