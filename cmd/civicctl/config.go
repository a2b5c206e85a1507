package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/linesmerrill/civicdesk/models"
)

const defaultBaseURL = "http://localhost:8080"

// cliConfig is what ~/.civicctl.yaml holds
type cliConfig struct {
	BaseURL string      `yaml:"base_url"`
	Token   string      `yaml:"token,omitempty"`
	UserID  string      `yaml:"user_id,omitempty"`
	Role    models.Role `yaml:"role,omitempty"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".civicctl.yaml"
	}
	return filepath.Join(home, ".civicctl.yaml")
}

// loadConfig reads the config file. A missing file is an empty config.
func loadConfig(path string) (cliConfig, error) {
	var c cliConfig
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parsing %s: %w", path, err)
	}
	return c, nil
}

// saveConfig writes the config readable only by the current user; it holds a token
func saveConfig(path string, c cliConfig) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o600)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: timeout}
}
