package core

import (
	"errors"
	"fmt"
	"os"

	"github.com/josephlewis42/guish/core/shell"
	"github.com/josephlewis42/guish/core/vos"
	"github.com/pborman/getopt/v2"
)

// ExitBuiltin terminates the shell, it's never recorded in history.
const ExitBuiltin = "exit"

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Cd is the cd shell builtin. Extra operands are ignored.
func Cd(s *Shell, args []string) int {
	opts := getopt.New()
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.Stderr
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: cd [dir]")
		fmt.Fprintln(w, "Change the shell working directory, HOME by default.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		return 1
	}

	var dir string
	if opts.NArgs() > 0 {
		dir = opts.Arg(0)
	} else {
		home, err := s.env.UserHomeDir()
		if errors.Is(err, vos.ErrNoHome) {
			s.printer.Fprintf(s.Stderr, ColorBoldRed, "%s: HOME not set\n", args[0])
			return 1
		}
		dir = home
	}

	if err := os.Chdir(dir); err != nil {
		s.printer.Fprintf(s.Stderr, ColorBoldRed, "cd failed: %v\n", err)
		return 1
	}

	if wd, err := os.Getwd(); err == nil {
		_ = s.env.Setenv(vos.EnvPWD, wd)
	}
	return 0
}

// Exit quits the shell
func Exit(s *Shell, args []string) int {
	s.quit = true
	return 0
}

// History lists the recorded commands, oldest first.
func History(s *Shell, args []string) int {
	opts := getopt.New()
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.Stderr
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "Display the history list with line numbers.")
		fmt.Fprintf(w, "Re-run an entry with '%s [n]', the most recent if n is omitted.\n", shell.RecallCommand)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		return 1
	}

	for i, line := range s.history.List() {
		fmt.Fprintf(s.Stdout, "  %d: %s\n", i, line)
	}
	return 0
}

func init() {
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["hist"] = ShellBuiltinFunc(History)
	AllBuiltins[ExitBuiltin] = ShellBuiltinFunc(Exit)
}
