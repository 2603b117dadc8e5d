package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/abiosoft/readline"
	"github.com/mattn/go-isatty"
)

// ErrInterrupt is returned by a LineSource when the user interrupts line
// editing, the partially typed line is discarded.
var ErrInterrupt = readline.ErrInterrupt

// LineSource supplies raw input lines to the shell. Readline returns io.EOF
// once input is exhausted.
type LineSource interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

// ScannerSource reads newline delimited input, writing the prompt before
// every line. It's used when input isn't a terminal.
type ScannerSource struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompt  string
}

var _ LineSource = (*ScannerSource)(nil)

// NewScannerSource creates a source reading lines from r and prompting on
// out, which may be nil.
func NewScannerSource(r io.Reader, out io.Writer) *ScannerSource {
	return &ScannerSource{scanner: bufio.NewScanner(r), out: out}
}

// SetPrompt implements LineSource.SetPrompt.
func (s *ScannerSource) SetPrompt(prompt string) {
	s.prompt = prompt
}

// Readline implements LineSource.Readline.
func (s *ScannerSource) Readline() (string, error) {
	if s.out != nil && s.prompt != "" {
		fmt.Fprint(s.out, s.prompt)
	}

	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

// ReadlineSource is an interactive line editor on a terminal.
type ReadlineSource struct {
	*readline.Instance
}

var _ LineSource = (*ReadlineSource)(nil)

// NewReadlineSource sets up line editing over the given streams.
func NewReadlineSource(stdin io.ReadCloser, stdout, stderr io.Writer) (*ReadlineSource, error) {
	cfg := &readline.Config{
		Stdin:           readline.NewCancelableStdin(stdin),
		Stdout:          stdout,
		Stderr:          stderr,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	instance, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &ReadlineSource{Instance: instance}, nil
}

// Readline implements LineSource.Readline.
func (r *ReadlineSource) Readline() (string, error) {
	line, err := r.Instance.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupt
	}
	return line, err
}

// NewStdinSource picks the line editor for terminals and a plain scanner
// otherwise.
func NewStdinSource(stdin *os.File, stdout, stderr io.Writer) (LineSource, io.Closer, error) {
	if isatty.IsTerminal(stdin.Fd()) || isatty.IsCygwinTerminal(stdin.Fd()) {
		source, err := NewReadlineSource(stdin, stdout, stderr)
		if err != nil {
			return nil, nil, err
		}
		return source, source.Instance, nil
	}

	return NewScannerSource(stdin, stdout), nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
