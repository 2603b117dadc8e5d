package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/josephlewis42/guish/core/vos"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// ExitProgramMissing is the status reported for a program that couldn't be
// loaded.
const ExitProgramMissing = 127

// ErrNotFound is the error resulting if a path search failed to find an
// executable file. It wraps ENOENT so it reports the same code a failed exec
// would.
var ErrNotFound = fmt.Errorf("executable file not found in $PATH: %w", unix.ENOENT)

func findExecutable(fsys afero.Fs, file string) error {
	d, err := fsys.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return &fs.PathError{Op: "exec", Path: file, Err: unix.EACCES}
}

// LookPath searches for an executable named file in the directories named by
// the PATH variable of env. If file contains a slash, it is tried directly
// and the PATH is not consulted. The result may be an absolute path or a path
// relative to the current directory.
func LookPath(fsys afero.Fs, env vos.VEnv, file string) (string, error) {
	if strings.Contains(file, "/") {
		err := findExecutable(fsys, file)
		if err == nil {
			return file, nil
		}
		return "", err
	}
	for _, dir := range filepath.SplitList(env.Getenv(vos.EnvPath)) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(fsys, path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// ProcessStatus describes how a launched program finished.
type ProcessStatus struct {
	// Name of the program as typed.
	Name string
	// Path the program was resolved to, empty if resolution failed.
	Path string
	// ExitCode holds the exit status, -1 if the program was killed by a signal.
	ExitCode int
	// Signal holds the terminating signal, if any.
	Signal syscall.Signal
	// LoadErr is set when the program image couldn't be loaded.
	LoadErr error
}

// Signaled reports whether the program was terminated by a signal.
func (p *ProcessStatus) Signaled() bool {
	return p.Signal != 0
}

// SpawnError is returned by Launch when no child process could be created at
// all, e.g. because of resource exhaustion.
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: fork failed: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Launcher starts external programs and waits for them.
type Launcher struct {
	// Fs is consulted to resolve program names.
	Fs afero.Fs
	// Env is searched for PATH and passed to every child.
	Env vos.VEnv

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	paths *lru.Cache[string, string]
}

// NewLauncher creates a launcher resolving programs on the host filesystem.
// Successful lookups are remembered for up to cacheSize names, a cacheSize of
// zero disables the cache.
func NewLauncher(env vos.VEnv, stdin io.Reader, stdout, stderr io.Writer, cacheSize int) (*Launcher, error) {
	l := &Launcher{
		Fs:     afero.NewOsFs(),
		Env:    env,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	if cacheSize > 0 {
		cache, err := lru.New[string, string](cacheSize)
		if err != nil {
			return nil, err
		}
		l.paths = cache
	}

	return l, nil
}

func (l *Launcher) cacheKey(name string) string {
	return l.Env.Getenv(vos.EnvPath) + "\x00" + name
}

func (l *Launcher) resolve(name string) (string, error) {
	cacheable := l.paths != nil && !strings.Contains(name, "/")
	if cacheable {
		if path, ok := l.paths.Get(l.cacheKey(name)); ok {
			return path, nil
		}
	}

	path, err := LookPath(l.Fs, l.Env, name)
	if err != nil {
		return "", err
	}

	// Relative results depend on the working directory, which cd changes.
	if cacheable && filepath.IsAbs(path) {
		l.paths.Add(l.cacheKey(name), path)
	}
	return path, nil
}

// Forget drops any cached resolution for name.
func (l *Launcher) Forget(name string) {
	if l.paths != nil {
		l.paths.Remove(l.cacheKey(name))
	}
}

// Launch runs argv[0] with argv as its argument vector and blocks until it
// terminates. Interrupts delivered to the shell don't cancel the child.
//
// A returned error is always a *SpawnError, meaning nothing ran. Programs
// that couldn't be loaded are reported through ProcessStatus.LoadErr with
// ExitProgramMissing as their exit code.
func (l *Launcher) Launch(argv []string) (*ProcessStatus, error) {
	if len(argv) == 0 {
		return nil, &SpawnError{Err: errors.New("empty command")}
	}

	status := &ProcessStatus{Name: argv[0]}

	path, err := l.resolve(argv[0])
	if err != nil {
		status.ExitCode = ExitProgramMissing
		status.LoadErr = err
		return status, nil
	}
	status.Path = path

	cmd := &exec.Cmd{
		Path:   path,
		Args:   argv,
		Env:    l.Env.Environ(),
		Stdin:  l.Stdin,
		Stdout: l.Stdout,
		Stderr: l.Stderr,
	}

	if err := cmd.Start(); err != nil {
		if isSpawnFailure(err) {
			return nil, &SpawnError{Name: argv[0], Err: err}
		}
		l.Forget(argv[0])
		status.ExitCode = ExitProgramMissing
		status.LoadErr = err
		return status, nil
	}

	err = cmd.Wait()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// The child ran but its I/O couldn't be copied; its state is still
		// available below.
		fmt.Fprintf(l.Stderr, "%s: %v\n", argv[0], err)
	}

	state := cmd.ProcessState
	if state == nil {
		status.ExitCode = -1
		return status, nil
	}
	status.ExitCode = state.ExitCode()
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		status.Signal = ws.Signal()
	}

	return status, nil
}

func isSpawnFailure(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.ENOMEM)
}

// errnoOf digs the OS error number out of err, defaulting to ENOENT for
// lookups that never reached the OS.
func errnoOf(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return unix.ENOENT
}

// Report writes the user visible outcome of a launch, nothing is written for
// programs that exited successfully.
func (p *ProcessStatus) Report(printer *ColorPrinter, stdout, stderr io.Writer) {
	if p.LoadErr != nil {
		errno := errnoOf(p.LoadErr)
		printer.Fprintf(stderr, ColorBoldRed,
			"The program '%s' seems missing. Error code is: %d (%s)\n",
			p.Name, int(errno), errno.Error())
	}

	switch {
	case p.Signaled():
		printer.Fprintf(stdout, ColorBoldYellow,
			"[ Program '%s' terminated by signal %d (%s) ]\n",
			p.Name, int(p.Signal), unix.SignalName(p.Signal))
	case p.ExitCode != 0:
		printer.Fprintf(stdout, ColorBoldYellow,
			"[ Program '%s' returned exit code %d ]\n", p.Name, p.ExitCode)
	}
}
