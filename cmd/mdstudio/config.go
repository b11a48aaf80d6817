package main

import (
	"fmt"
	"os"
	"time"

	"github.com/avasseur/mdstudio/internal/yamlutil"
)

// defaultAddr binds to loopback only; the studio serves a single local
// editing session.
const defaultAddr = "127.0.0.1:8750"

// config is the YAML server configuration. Every field has a working
// default so the file is optional.
type config struct {
	Addr     string `yaml:"addr"`
	StateDir string `yaml:"stateDir"`
	Workers  int    `yaml:"workers"`
	Timeout  string `yaml:"timeout"`
	Verbose  bool   `yaml:"verbose"`
}

// loadConfig reads the YAML config file when a path is given, then layers
// the flags on top. Flags win over file values.
func loadConfig(flags *studioFlags) (config, error) {
	cfg := config{Addr: defaultAddr}

	if flags.config != "" {
		data, err := os.ReadFile(flags.config)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
		if cfg.Addr == "" {
			cfg.Addr = defaultAddr
		}
	}

	if flags.addr != "" {
		cfg.Addr = flags.addr
	}
	if flags.stateDir != "" {
		cfg.StateDir = flags.stateDir
	}
	if flags.workers != 0 {
		cfg.Workers = flags.workers
	}
	if flags.timeout != "" {
		cfg.Timeout = flags.timeout
	}
	if flags.verbose {
		cfg.Verbose = true
	}

	if cfg.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Timeout); err != nil {
			return cfg, fmt.Errorf("invalid timeout %q: %w", cfg.Timeout, err)
		}
	}
	return cfg, nil
}

// exportTimeout returns the configured PDF timeout, or zero when unset.
func (c config) exportTimeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Timeout)
	return d
}
