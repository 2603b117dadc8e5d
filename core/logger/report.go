package logger

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       StrCounter `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand    RunCommandReport    `json:"run_command_report"`
	Builtin       BuiltinReport       `json:"builtin_report"`
	Recall        RecallReport        `json:"recall_report"`
	CommandExit   CommandExitReport   `json:"command_exit_report"`
	LaunchFailure LaunchFailureReport `json:"launch_failure_report"`
	Interrupt     InterruptReport     `json:"interrupt_report"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		CommandExit: CommandExitReport{
			Failures: NewPathCounter("command", "exit_code", "signal"),
		},
		LaunchFailure: LaunchFailureReport{
			Errors: NewPathCounter("command", "error"),
		},
	}
}

// Update adds a single log entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++
	if le.SessionID != "" {
		r.Sessions.Increment(le.SessionID)
	}

	switch le.LogType {
	case TypeRunCommand:
		r.RunCommand.update(le)
	case TypeBuiltin:
		r.Builtin.update(le)
	case TypeRecall:
		r.Recall.Count++
		r.Recall.Lines.Increment(le.GetString("line"))
	case TypeRecallFailure:
		r.Recall.Failures.Increment(le.GetString("error"))
	case TypeCommandExit:
		r.CommandExit.update(le)
	case TypeLaunchFailure:
		r.LaunchFailure.update(le)
	case TypeInterrupt:
		r.Interrupt.Total += le.GetInt("count")
	case TypeSessionEnd:
		r.Interrupt.SessionEnds.Increment(le.GetString("reason"))
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%q", le.LogType))
	}
}

type RunCommandReport struct {
	// Full path of the launched program
	ResolvedCommandPaths StrCounter `json:"resolved_command_paths"`
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
}

func (r *RunCommandReport) update(le *LogEntry) {
	r.ResolvedCommandPaths.Increment(le.GetString("resolved_path"))
	if cmd := le.GetStrings("command"); len(cmd) > 0 {
		r.CommandNames.Increment(cmd[0])
	}
}

type BuiltinReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *BuiltinReport) update(le *LogEntry) {
	if cmd := le.GetStrings("command"); len(cmd) > 0 {
		r.CommandNames.Increment(cmd[0])
	}
}

type RecallReport struct {
	Count    int        `json:"count"`
	Lines    StrCounter `json:"lines"`
	Failures StrCounter `json:"failures"`
}

type CommandExitReport struct {
	Count int `json:"count"`
	// Commands that exited non-zero or were killed by a signal.
	Failures *PathCounter `json:"failures"`
}

func (r *CommandExitReport) update(le *LogEntry) {
	r.Count++

	code := le.GetInt("exit_code")
	signal := le.GetString("signal")
	if code == 0 && signal == "" {
		return
	}

	r.Failures.Increment(commandName(le), fmt.Sprint(code), signal)
}

type LaunchFailureReport struct {
	Count      int          `json:"count"`
	SpawnCount int          `json:"spawn_failures"`
	Errors     *PathCounter `json:"errors"`
}

func (r *LaunchFailureReport) update(le *LogEntry) {
	r.Count++
	if spawn, _ := le.Fields["spawn"].(bool); spawn {
		r.SpawnCount++
	}
	r.Errors.Increment(commandName(le), le.GetString("error"))
}

type InterruptReport struct {
	Total       int64      `json:"total"`
	SessionEnds StrCounter `json:"session_ends"`
}

func commandName(le *LogEntry) string {
	cmd := le.GetStrings("command")
	if len(cmd) == 0 {
		return ""
	}
	return strings.Join(cmd, " ")
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for the given key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// Len returns the number of distinct keys.
func (s *StrCounter) Len() int {
	return len(s.internal)
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the given tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
