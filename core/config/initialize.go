package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir, creating dir if
// needed. An existing configuration is left untouched.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	configFs, err := dirFs(dir)
	if err != nil {
		return nil, err
	}
	exists, err := afero.Exists(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}

	if exists {
		logger.Printf("Configuration %s already exists, skipping\n", filepath.Join(dir, ConfigurationName))
	} else {
		logger.Printf("Writing %s\n", filepath.Join(dir, ConfigurationName))
		if err := afero.WriteFile(configFs, ConfigurationName, defaultConfigData, 0600); err != nil {
			return nil, fmt.Errorf("writing configuration: %w", err)
		}
	}

	return loadFs(configFs)
}
