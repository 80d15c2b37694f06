// Package config loads the cmd/agentforest YAML configuration file.
// The core library never parses configuration itself — this package
// exists only behind the CLI, mirroring the teacher's separation
// between internal/config and the agent runtime it configures.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level cmd/agentforest configuration document. LLM
// is intentionally opaque: the CLI's provider wiring decides what
// fields it expects there, the core never inspects it.
type Config struct {
	LLM           map[string]any `yaml:"llm"`
	MaxIterations int            `yaml:"max_iterations"`
}

const defaultMaxIterations = 10

// Load reads and parses the YAML file at path, expanding ${VAR}
// environment references the way the teacher's loader does, and
// applying the package's default MaxIterations when the file omits
// it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	return &cfg, nil
}
