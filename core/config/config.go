package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	AppLogName        = "events.log"
)

type Configuration struct {
	configFs afero.Fs

	ShellName string `json:"shell_name" validate:"required"`
	// Prompt supports \s (shell name), \w (working directory) and \# (next
	// history number).
	Prompt      string `json:"prompt"`
	HistorySize int    `json:"history_size" validate:"gte=1"`
	Color       string `json:"color" validate:"oneof=auto always never"`
	EventLog    bool   `json:"event_log"`
	// InterruptNotice is printed on every SIGINT, empty uses the default.
	InterruptNotice string `json:"interrupt_notice"`
	LookupCacheSize int    `json:"lookup_cache_size" validate:"gte=0"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		c.configFs = afero.NewMemMapFs()
	}
	return c.configFs
}

// OpenAppLog opens the event log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) ReadAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_RDONLY, 0600)
}

// Default returns the built-in configuration, backed by an in-memory
// filesystem.
func Default() *Configuration {
	out := defaultConfig()
	out.configFs = afero.NewMemMapFs()
	return out
}

// dirFs roots a filesystem at dir. BasePathFs needs an absolute base to
// resolve names under it.
func dirFs(dir string) (afero.Fs, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return afero.NewBasePathFs(afero.NewOsFs(), abs), nil
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
