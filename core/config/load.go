package config

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	configFs, err := dirFs(path)
	if err != nil {
		return nil, err
	}
	return loadFs(configFs)
}

// LoadOrDefault loads the configuration from the directory, falling back to
// the built-in configuration if the directory has none. The fallback never
// writes an event log, only an initialized directory gets one.
func LoadOrDefault(path string) (*Configuration, error) {
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	configFs, err := dirFs(path)
	if err != nil {
		return nil, err
	}
	cfg, err := loadFs(configFs)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = defaultConfig()
		cfg.configFs = configFs
		cfg.EventLog = false
		return cfg, nil
	}
	return cfg, err
}

func loadFs(configFs afero.Fs) (*Configuration, error) {
	configContents, err := afero.ReadFile(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}
	var out Configuration
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	out.configFs = configFs
	return &out, nil
}
