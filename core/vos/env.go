package vos

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

const (
	EnvHome = "HOME"
	EnvPath = "PATH"
	EnvPWD  = "PWD"
)

// ErrNoHome is returned by UserHomeDir when HOME is unset or empty.
var ErrNoHome = errors.New("HOME not set")

// VEnv represents the environment the shell resolves commands in and passes
// to the programs it starts.
type VEnv interface {
	// UserHomeDir returns the current user's home directory.
	UserHomeDir() (string, error)

	// Setenv sets the value of the environment variable named by the key.
	Setenv(key, value string) error

	// LookupEnv retrieves the value of the environment variable named by the key.
	// If the variable is present in the environment the value (which may be
	// empty) is returned and the boolean is true. Otherwise the returned value
	// will be empty and the boolean will be false.
	LookupEnv(key string) (string, bool)

	// Getenv retrieves the value of the environment variable named by the key.
	Getenv(key string) string

	// Environ returns a copy of strings representing the environment, in the
	// form "key=value".
	Environ() []string
}

// CopyEnv copies all the "key=value" pairs in src to dst.
func CopyEnv(dst VEnv, src []string) error {
	for _, e := range src {
		key, value := splitEnv(e)
		if err := dst.Setenv(key, value); err != nil {
			return err
		}
	}

	return nil
}

func splitEnv(e string) (key, value string) {
	split := strings.SplitN(e, "=", 2)
	key = split[0]
	if len(split) > 1 {
		value = split[1]
	}
	return
}

// NewMapEnv creates a new environment backed by a map.
func NewMapEnv() *MapEnv {
	return &MapEnv{}
}

// NewMapEnvFromEnvList creates an environment holding the given "key=value"
// pairs. Entries without a value are set to the empty string.
func NewMapEnvFromEnvList(environ []string) *MapEnv {
	out := &MapEnv{}
	for _, e := range environ {
		key, value := splitEnv(e)
		// Skips entries with an empty key, such as the "=C:" style variables
		// some platforms expose.
		_ = out.Setenv(key, value)
	}
	return out
}

// HostEnv snapshots the environment of the running process.
func HostEnv() *MapEnv {
	return NewMapEnvFromEnvList(os.Environ())
}

// MapEnv implements an in-memory VEnv.
type MapEnv struct {
	rw  sync.RWMutex
	env map[string]string
}

var _ VEnv = (*MapEnv)(nil)

// UserHomeDir implements VEnv.UserHomeDir.
func (m *MapEnv) UserHomeDir() (string, error) {
	home := m.Getenv(EnvHome)
	if home == "" {
		return "", ErrNoHome
	}
	return home, nil
}

// Setenv implements VEnv.Setenv.
func (m *MapEnv) Setenv(key, value string) error {
	if key == "" {
		return fmt.Errorf("setenv: invalid key %q", key)
	}

	m.rw.Lock()
	defer m.rw.Unlock()

	if m.env == nil {
		m.env = make(map[string]string)
	}
	m.env[key] = value
	return nil
}

// LookupEnv implements VEnv.LookupEnv.
func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.rw.RLock()
	defer m.rw.RUnlock()

	val, ok := m.env[key]
	return val, ok
}

// Getenv implements VEnv.Getenv.
func (m *MapEnv) Getenv(key string) string {
	val, _ := m.LookupEnv(key)
	return val
}

// Environ implements VEnv.Environ. The result is sorted by key.
func (m *MapEnv) Environ() []string {
	m.rw.RLock()
	defer m.rw.RUnlock()

	env := make([]string, 0, len(m.env))
	for k, v := range m.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)

	return env
}
