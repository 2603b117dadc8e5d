package core

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/josephlewis42/guish/core/config"
	"github.com/josephlewis42/guish/core/history"
	"github.com/josephlewis42/guish/core/logger"
	"github.com/josephlewis42/guish/core/shell"
	"github.com/josephlewis42/guish/core/vos"
	"golang.org/x/sys/unix"
)

// ErrExit is returned by Submit when the exit builtin ran.
var ErrExit = errors.New("exit")

const (
	reasonExit = "exit"
	reasonEOF  = "eof"
)

// Shell reads lines, keeps their history and runs them as builtins or
// external programs.
type Shell struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	input      LineSource
	env        vos.VEnv
	history    *history.Store
	launcher   *Launcher
	interrupts *InterruptTracker
	events     *logger.SessionLogger
	printer    *ColorPrinter
	log        *log.Logger

	shellName string
	prompt    string

	// Set by the exit builtin.
	quit bool
	// Interrupts already written to the event log.
	loggedInterrupts int64
	finished         bool
}

// ShellOpt customizes a Shell at construction.
type ShellOpt func(*Shell)

// WithIO replaces the process's standard streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) ShellOpt {
	return func(s *Shell) {
		s.Stdin = stdin
		s.Stdout = stdout
		s.Stderr = stderr
	}
}

// WithInput sets where lines are read from. Defaults to a scanner over Stdin.
func WithInput(input LineSource) ShellOpt {
	return func(s *Shell) {
		s.input = input
	}
}

// WithEnv sets the environment, defaults to a copy of the process's.
func WithEnv(env vos.VEnv) ShellOpt {
	return func(s *Shell) {
		s.env = env
	}
}

// WithInterruptTracker shares a tracker fed by a signal listener.
func WithInterruptTracker(tracker *InterruptTracker) ShellOpt {
	return func(s *Shell) {
		s.interrupts = tracker
	}
}

// WithEventLogger records shell events to the given session.
func WithEventLogger(events *logger.SessionLogger) ShellOpt {
	return func(s *Shell) {
		s.events = events
	}
}

// WithLogger sets where internal failures, like unwritable event logs, are
// reported.
func WithLogger(l *log.Logger) ShellOpt {
	return func(s *Shell) {
		s.log = l
	}
}

// NewShell creates a shell configured by cfg.
func NewShell(cfg *config.Configuration, opts ...ShellOpt) (*Shell, error) {
	s := &Shell{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		history:   history.New(cfg.HistorySize),
		shellName: cfg.ShellName,
		prompt:    cfg.Prompt,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.input == nil {
		s.input = NewScannerSource(s.Stdin, s.Stdout)
	}
	if s.env == nil {
		s.env = vos.HostEnv()
	}
	if s.interrupts == nil {
		s.interrupts = NewInterruptTracker(s.Stdout, cfg.InterruptNotice)
	}
	if s.events == nil {
		s.events = logger.NewNopLogger().Sessionless()
	}
	if s.log == nil {
		s.log = log.New(ioutil.Discard, "", 0)
	}
	s.printer = NewColorPrinter(cfg.Color)

	launcher, err := NewLauncher(s.env, s.Stdin, s.Stdout, s.Stderr, cfg.LookupCacheSize)
	if err != nil {
		return nil, err
	}
	s.launcher = launcher

	return s, nil
}

// History returns the shell's command history.
func (s *Shell) History() *history.Store {
	return s.history
}

// Interrupts returns the tracker counting the shell's interrupts.
func (s *Shell) Interrupts() *InterruptTracker {
	return s.interrupts
}

// Env returns the environment programs are resolved in.
func (s *Shell) Env() vos.VEnv {
	return s.env
}

// Prompt expands the configured prompt.
func (s *Shell) Prompt() string {
	if !strings.Contains(s.prompt, `\`) {
		return s.prompt
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = "?"
	}

	return strings.NewReplacer(
		`\s`, s.shellName,
		`\w`, wd,
		`\#`, strconv.Itoa(s.history.Len()+1),
	).Replace(s.prompt)
}

// Run reads and executes lines until exit or end of input, then reports the
// number of interrupts caught.
func (s *Shell) Run() error {
	for {
		s.logInterrupts()

		s.input.SetPrompt(s.Prompt())
		line, err := s.input.Readline()
		switch {
		case errors.Is(err, ErrInterrupt):
			// The line editor swallows Ctrl+C in raw mode.
			s.interrupts.Interrupt()
			continue

		case errors.Is(err, io.EOF):
			fmt.Fprintln(s.Stdout)
			s.finish(reasonEOF)
			return nil

		case err != nil:
			s.finish(reasonEOF)
			return fmt.Errorf("reading input: %w", err)
		}

		if err := s.Submit(line); errors.Is(err, ErrExit) {
			s.finish(reasonExit)
			return nil
		}
	}
}

// Submit executes a single line of input. It returns ErrExit if the line
// asked the shell to terminate.
func (s *Shell) Submit(line string) error {
	if selector, ok := shell.ParseRecall(line); ok {
		return s.recall(selector)
	}

	args := shell.Split(line)
	if len(args) == 0 {
		return nil
	}

	builtin, isBuiltin := AllBuiltins[args[0]]
	if args[0] != ExitBuiltin {
		s.history.Record(line)
	}

	if isBuiltin {
		code := builtin.Main(s, args)
		s.record(logger.Builtin{Command: args, ExitCode: code})
		if s.quit {
			return ErrExit
		}
		return nil
	}

	s.launch(args)
	return nil
}

func (s *Shell) recall(selector string) error {
	line, err := s.history.Resolve(selector)
	if err != nil {
		s.record(logger.RecallFailure{Selector: selector, Error: err.Error()})

		switch {
		case errors.Is(err, history.ErrInvalidSelector):
			s.printer.Fprintf(s.Stderr, ColorBoldRed, "Invalid number for 'r': %s\n", selector)
		case errors.Is(err, history.ErrOutOfRange):
			s.printer.Fprintf(s.Stderr, ColorBoldRed, "Number for 'r' is out of range: %s\n", selector)
		}
		s.printer.Fprintf(s.Stderr, ColorBoldRed, "History command not found.\n")
		return nil
	}

	s.printer.Fprintf(s.Stdout, ColorBoldCyan, "Executing: %s\n", line)
	s.record(logger.Recall{Selector: selector, Line: line})

	return s.Submit(line)
}

func (s *Shell) launch(args []string) {
	status, err := s.launcher.Launch(args)
	if err != nil {
		s.printer.Fprintf(s.Stderr, ColorBoldRed, "%v\n", err)
		s.record(logger.LaunchFailure{
			Command: args,
			Errno:   int(errnoOf(err)),
			Error:   err.Error(),
			Spawn:   true,
		})
		return
	}

	s.record(logger.RunCommand{Command: args, ResolvedPath: status.Path})
	status.Report(s.printer, s.Stdout, s.Stderr)

	if status.LoadErr != nil {
		errno := errnoOf(status.LoadErr)
		s.record(logger.LaunchFailure{
			Command: args,
			Errno:   int(errno),
			Error:   errno.Error(),
		})
	}

	exit := logger.CommandExit{Command: args, ExitCode: status.ExitCode}
	if status.Signaled() {
		exit.Signal = unix.SignalName(status.Signal)
	}
	s.record(exit)
}

// logInterrupts writes interrupts delivered since the last call to the event
// log. Signal delivery itself never touches the log.
func (s *Shell) logInterrupts() {
	if !s.interrupts.TakePending() {
		return
	}

	count := s.interrupts.Count()
	if delta := count - s.loggedInterrupts; delta > 0 {
		s.record(logger.Interrupt{Count: delta})
	}
	s.loggedInterrupts = count
}

// finish prints the final interrupt report, at most once.
func (s *Shell) finish(reason string) {
	if s.finished {
		return
	}
	s.finished = true

	s.logInterrupts()
	s.interrupts.Report(s.Stdout)
	s.record(logger.SessionEnd{Reason: reason, Interrupts: s.interrupts.Count()})
}

func (s *Shell) record(event logger.Event) {
	if err := s.events.Record(event); err != nil {
		s.log.Printf("couldn't log %s event: %v", event.LogType(), err)
	}
}
