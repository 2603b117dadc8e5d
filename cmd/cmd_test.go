package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/josephlewis42/guish/core/config"
	"github.com/josephlewis42/guish/core/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	out, err := executeErr(t, args...)
	require.NoError(t, err)
	return out
}

func executeErr(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		reportSessions = nil
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestBuiltinsCmd(t *testing.T) {
	assert.Equal(t, "cd\nexit\nhist\nr\n", execute(t, "builtins"))
}

func TestInitCmd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "guish")
	out := execute(t, "init", "--config", dir)
	assert.Contains(t, out, "guish is ready: history keeps 10 commands, events go to events.log")

	_, err := os.Stat(filepath.Join(dir, config.ConfigurationName))
	assert.NoError(t, err)

	_, err = config.Load(dir)
	assert.NoError(t, err)
}

func TestEventsReportCmd(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadOrDefault(dir)
	require.NoError(t, err)

	fd, err := cfg.OpenAppLog()
	require.NoError(t, err)
	recorder := logger.NewJsonLinesLogRecorder(fd)
	first := recorder.NewSession()
	require.NoError(t, first.Record(logger.Builtin{Command: []string{"hist"}}))
	require.NoError(t, first.Record(logger.SessionEnd{Reason: "exit"}))
	second := recorder.NewSession()
	require.NoError(t, second.Record(logger.SessionEnd{Reason: "eof"}))
	require.NoError(t, fd.Close())

	t.Run("all sessions", func(t *testing.T) {
		out := execute(t, "events", "report", "--config", dir)
		assert.Contains(t, out, "# guish: 3 events across 2 sessions\n")
		assert.Contains(t, out, "log_entries: 3")
		assert.Contains(t, out, "hist: 1")
	})

	t.Run("one session", func(t *testing.T) {
		out := execute(t, "events", "report", "--config", dir, "--session", second.SessionID())
		assert.Contains(t, out, "# guish: 1 events across 1 sessions\n")
		assert.Contains(t, out, "log_entries: 1")
		assert.NotContains(t, out, "hist: 1")
	})
}

func TestEventsReportCmd_NoLog(t *testing.T) {
	dir := t.TempDir()

	_, err := executeErr(t, "events", "report", "--config", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 'guish init --config")
}
