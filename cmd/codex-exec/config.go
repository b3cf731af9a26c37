package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds default settings from ~/.codex-exec.yaml. Flags always win
// over the file.
type Config struct {
	CodexPath       string `yaml:"codex_path"`
	BaseURL         string `yaml:"base_url"`
	Model           string `yaml:"model"`
	SandboxMode     string `yaml:"sandbox_mode"`
	ReasoningEffort string `yaml:"reasoning_effort"`
	ApprovalPolicy  string `yaml:"approval_policy"`
}

// loadConfig loads the defaults file. A missing file yields an empty config.
func loadConfig(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return &Config{}, nil
		}
		path = filepath.Join(home, ".codex-exec.yaml")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}
