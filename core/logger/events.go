package logger

// Event is a single loggable occurrence in a shell session.
type Event interface {
	// LogType names the event in the log, e.g. "run_command".
	LogType() string

	fields() map[string]interface{}
}

const (
	TypeRunCommand    = "run_command"
	TypeBuiltin       = "builtin"
	TypeRecall        = "recall"
	TypeRecallFailure = "recall_failure"
	TypeCommandExit   = "command_exit"
	TypeLaunchFailure = "launch_failure"
	TypeInterrupt     = "interrupt"
	TypeSessionEnd    = "session_end"
)

func toList(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// RunCommand is logged for every command dispatched to an external program.
// ResolvedPath is empty if the program couldn't be found.
type RunCommand struct {
	Command      []string
	ResolvedPath string
}

func (RunCommand) LogType() string { return TypeRunCommand }

func (e RunCommand) fields() map[string]interface{} {
	return map[string]interface{}{
		"command":       toList(e.Command),
		"resolved_path": e.ResolvedPath,
	}
}

// Builtin is logged when the shell handles a command itself.
type Builtin struct {
	Command  []string
	ExitCode int
}

func (Builtin) LogType() string { return TypeBuiltin }

func (e Builtin) fields() map[string]interface{} {
	return map[string]interface{}{
		"command":   toList(e.Command),
		"exit_code": int64(e.ExitCode),
	}
}

// Recall is logged when a history entry is re-submitted.
type Recall struct {
	Selector string
	Line     string
}

func (Recall) LogType() string { return TypeRecall }

func (e Recall) fields() map[string]interface{} {
	return map[string]interface{}{
		"selector": e.Selector,
		"line":     e.Line,
	}
}

// RecallFailure is logged when a selector doesn't resolve.
type RecallFailure struct {
	Selector string
	Error    string
}

func (RecallFailure) LogType() string { return TypeRecallFailure }

func (e RecallFailure) fields() map[string]interface{} {
	return map[string]interface{}{
		"selector": e.Selector,
		"error":    e.Error,
	}
}

// CommandExit is logged when an external program terminates.
type CommandExit struct {
	Command  []string
	ExitCode int
	// Signal is the name of the terminating signal, if any.
	Signal string
}

func (CommandExit) LogType() string { return TypeCommandExit }

func (e CommandExit) fields() map[string]interface{} {
	return map[string]interface{}{
		"command":   toList(e.Command),
		"exit_code": int64(e.ExitCode),
		"signal":    e.Signal,
	}
}

// LaunchFailure is logged when a program couldn't be started.
type LaunchFailure struct {
	Command []string
	Errno   int
	Error   string
	// Spawn is true when no child process could be created at all.
	Spawn bool
}

func (LaunchFailure) LogType() string { return TypeLaunchFailure }

func (e LaunchFailure) fields() map[string]interface{} {
	return map[string]interface{}{
		"command": toList(e.Command),
		"errno":   int64(e.Errno),
		"error":   e.Error,
		"spawn":   e.Spawn,
	}
}

// Interrupt is logged by the shell loop after interrupts were delivered.
type Interrupt struct {
	Count int64
}

func (Interrupt) LogType() string { return TypeInterrupt }

func (e Interrupt) fields() map[string]interface{} {
	return map[string]interface{}{
		"count": e.Count,
	}
}

// SessionEnd is logged once when the shell terminates.
type SessionEnd struct {
	// Reason is "exit" or "eof".
	Reason     string
	Interrupts int64
}

func (SessionEnd) LogType() string { return TypeSessionEnd }

func (e SessionEnd) fields() map[string]interface{} {
	return map[string]interface{}{
		"reason":     e.Reason,
		"interrupts": e.Interrupts,
	}
}
