package common

import (
	"bytes"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/genome-evolver/internal/logger"
)

func TestFlagValidator(t *testing.T) {
	v := NewFlagValidator()
	assert.NoError(t, v.GetError())

	v.ValidateInt("workers", 4, 0, 64).
		ValidateChoice("console", "table", []string{"table", "compact", "off"})
	assert.False(t, v.HasErrors())

	v.ValidateInt("workers", -1, 0, 64)
	require.Error(t, v.GetError())
	assert.Contains(t, v.GetError().Error(), "workers must be between 0 and 64")

	v.ValidateChoice("console", "fancy", []string{"table", "compact"})
	assert.Len(t, v.GetErrors(), 2)
	assert.Contains(t, v.GetError().Error(), "validation errors:")

	var buf bytes.Buffer
	v.PrintErrors(&buf)
	assert.Contains(t, buf.String(), "console must be one of [table, compact]")
}

func TestCommonFlagsAndLogger(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cf := RegisterCommonFlags(fs)
	require.NoError(t, fs.Parse([]string{"-verbose", "-no-emojis"}))

	assert.True(t, FlagWasSet(fs, "verbose"))
	assert.False(t, FlagWasSet(fs, "silent"))

	console := logger.NewConsole()
	SetupLogger(console, cf)
	assert.Equal(t, logger.LevelDebug, console.Level)
	assert.False(t, console.ShowEmojis)
	assert.False(t, console.SilentMode)
}

func TestCheckHelpAndVersion(t *testing.T) {
	var buf bytes.Buffer
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(&buf)
	cf := RegisterCommonFlags(fs)
	require.NoError(t, fs.Parse([]string{"-version"}))

	formatter := NewUsageFormatter("evolve", "string evolver")
	assert.True(t, CheckHelpAndVersion("evolve", fs, cf, formatter))
	assert.Contains(t, buf.String(), "evolve v"+ProjectVersion)
	assert.Contains(t, GetFullVersion(), ProjectVersion+"-")

	buf.Reset()
	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(&buf)
	cf = RegisterCommonFlags(fs)
	require.NoError(t, fs.Parse([]string{"-help"}))
	formatter.AddExample("evolve -target HELLO", "Evolve a short word")
	assert.True(t, CheckHelpAndVersion("evolve", fs, cf, formatter))
	assert.Contains(t, buf.String(), "EXAMPLES:")
	assert.Contains(t, buf.String(), "-env")
}
