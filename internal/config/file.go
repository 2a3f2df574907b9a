package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileName is the project configuration file cdiag looks for.
const fileName = ".cdiag.yaml"

// FindConfigPath locates the configuration file: the local directory
// first, then the user config dir (e.g. ~/.config/cdiag/.cdiag.yaml).
// Returns "" when no file exists.
func FindConfigPath() string {
	if _, err := os.Stat(fileName); err == nil {
		return fileName
	}

	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	path := filepath.Join(configHome, "cdiag", fileName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// Load reads settings from the YAML file at path, merged over the
// defaults. An empty path means "use defaults"; a missing or malformed
// file is an error so broken configuration never degrades silently.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return s, nil
}
