package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.UnixMicro(1_600_000_000_000_000)
}

func newTestLogger(buf *bytes.Buffer) *Logger {
	l := NewJsonLinesLogRecorder(buf)
	l.now = fixedClock
	return l
}

func readAll(t *testing.T, buf *bytes.Buffer) []*LogEntry {
	t.Helper()

	var out []*LogEntry
	require.NoError(t, ReadJSONLinesLog(buf, func(le *LogEntry) {
		out = append(out, le)
	}))
	return out
}

func TestJsonLinesLogRecorder_RoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	session := newTestLogger(buf).NewSession()
	assert.Len(t, session.SessionID(), 16)

	require.NoError(t, session.Record(RunCommand{
		Command:      []string{"ls", "-l"},
		ResolvedPath: "/bin/ls",
	}))
	require.NoError(t, session.Record(CommandExit{
		Command:  []string{"ls", "-l"},
		ExitCode: 2,
	}))
	require.NoError(t, session.Record(LaunchFailure{
		Command: []string{"nope"},
		Errno:   2,
		Error:   "No such file or directory",
	}))

	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("\n")))

	entries := readAll(t, buf)
	require.Len(t, entries, 3)

	for _, le := range entries {
		assert.Equal(t, session.SessionID(), le.SessionID)
		assert.Equal(t, fixedClock(), le.Time())
	}

	assert.Equal(t, TypeRunCommand, entries[0].LogType)
	assert.Equal(t, []string{"ls", "-l"}, entries[0].GetStrings("command"))
	assert.Equal(t, "/bin/ls", entries[0].GetString("resolved_path"))

	assert.Equal(t, TypeCommandExit, entries[1].LogType)
	assert.EqualValues(t, 2, entries[1].GetInt("exit_code"))
	assert.Equal(t, "", entries[1].GetString("signal"))

	assert.Equal(t, TypeLaunchFailure, entries[2].LogType)
	assert.EqualValues(t, 2, entries[2].GetInt("errno"))
	assert.Equal(t, false, entries[2].Fields["spawn"])
}

func TestJsonLinesLogRecorder_ValidJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	newTestLogger(buf).Sessionless().Record(Interrupt{Count: 4})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, TypeInterrupt)
	assert.Equal(t, "", decoded["session_id"])
}

func TestNopLogger(t *testing.T) {
	assert.NoError(t, NewNopLogger().NewSession().Record(SessionEnd{Reason: "eof"}))
}

func TestReadJSONLinesLog_Invalid(t *testing.T) {
	err := ReadJSONLinesLog(bytes.NewBufferString("{\"a\": [1,"), func(*LogEntry) {
		t.Fatal("handler should not be called")
	})
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(buf)
	first := logger.NewSession()
	second := logger.NewSession()

	first.Record(RunCommand{Command: []string{"echo", "hi"}, ResolvedPath: "/bin/echo"})
	first.Record(CommandExit{Command: []string{"echo", "hi"}})
	first.Record(Builtin{Command: []string{"hist"}})
	first.Record(Recall{Selector: "", Line: "hist"})
	first.Record(Builtin{Command: []string{"hist"}})
	first.Record(RecallFailure{Selector: "9", Error: "out of range"})
	first.Record(SessionEnd{Reason: "exit"})

	second.Record(RunCommand{Command: []string{"sh", "-c", "exit 3"}, ResolvedPath: "/bin/sh"})
	second.Record(CommandExit{Command: []string{"sh", "-c", "exit 3"}, ExitCode: 3})
	second.Record(LaunchFailure{Command: []string{"missing"}, Errno: 2, Error: "no such file"})
	second.Record(Interrupt{Count: 2})
	second.Record(SessionEnd{Reason: "eof", Interrupts: 2})

	report := NewReport()
	for _, le := range readAll(t, buf) {
		report.Update(le)
	}

	assert.Equal(t, 12, report.LogEntries)
	assert.Equal(t, 2, report.Sessions.Len())
	assert.Equal(t, 0, report.InvalidEntries.Len())

	assert.Equal(t, 1, report.RunCommand.CommandNames.Get("echo"))
	assert.Equal(t, 1, report.RunCommand.ResolvedCommandPaths.Get("/bin/sh"))
	assert.Equal(t, 2, report.Builtin.CommandNames.Get("hist"))

	assert.Equal(t, 1, report.Recall.Count)
	assert.Equal(t, 1, report.Recall.Lines.Get("hist"))
	assert.Equal(t, 1, report.Recall.Failures.Get("out of range"))

	assert.Equal(t, 2, report.CommandExit.Count)
	assert.Equal(t, 1, report.CommandExit.Failures.Get("sh -c exit 3", "3", ""))

	assert.Equal(t, 1, report.LaunchFailure.Count)
	assert.Equal(t, 0, report.LaunchFailure.SpawnCount)
	assert.Equal(t, 1, report.LaunchFailure.Errors.Get("missing", "no such file"))

	assert.EqualValues(t, 2, report.Interrupt.Total)
	assert.Equal(t, 1, report.Interrupt.SessionEnds.Get("eof"))

	_, err := json.Marshal(report)
	assert.NoError(t, err)
}

func TestReport_UnknownEntry(t *testing.T) {
	report := NewReport()
	report.Update(&LogEntry{LogType: "mystery"})

	assert.Equal(t, 1, report.InvalidEntries.Get(`"mystery"`))
}
