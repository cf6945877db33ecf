package servient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk and environment shape of Config. Every field
// is optional; absent fields keep their defaults. Durations are strings
// in Go syntax ("30s", "2m").
type fileConfig struct {
	Hostname  string         `yaml:"hostname" env:"HOSTNAME"`
	HTTP      httpFileConfig `yaml:"http" envPrefix:"HTTP_"`
	WS        wsFileConfig   `yaml:"ws" envPrefix:"WS_"`
	MDNS      mdnsFileConfig `yaml:"mdns" envPrefix:"MDNS_"`
	TraceFile string         `yaml:"trace_file" env:"TRACE_FILE"`
}

type httpFileConfig struct {
	Enabled *bool  `yaml:"enabled" env:"ENABLED"`
	Addr    string `yaml:"addr" env:"ADDR"`
}

type wsFileConfig struct {
	Enabled        *bool    `yaml:"enabled" env:"ENABLED"`
	Addr           string   `yaml:"addr" env:"ADDR"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	PingInterval   string   `yaml:"ping_interval" env:"PING_INTERVAL"`
}

type mdnsFileConfig struct {
	Enabled   *bool  `yaml:"enabled" env:"ENABLED"`
	Interface string `yaml:"interface" env:"INTERFACE"`
	TTL       string `yaml:"ttl" env:"TTL"`
}

// LoadConfig builds a Config from defaults, the YAML file at path, and
// WOT_-prefixed environment variables (e.g. WOT_HTTP_ADDR), in increasing
// precedence. A missing file is not an error; an empty path skips the
// file entirely. Unknown YAML keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var fc fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults plus environment only.
		case err != nil:
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		default:
			dec := yaml.NewDecoder(bytes.NewReader(data))
			dec.KnownFields(true)
			if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
				return cfg, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := env.ParseWithOptions(&fc, env.Options{Prefix: "WOT_"}); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := fc.apply(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// apply copies the populated fields onto cfg.
func (fc *fileConfig) apply(cfg *Config) error {
	if fc.Hostname != "" {
		cfg.Hostname = fc.Hostname
	}
	if fc.TraceFile != "" {
		cfg.TraceFile = fc.TraceFile
	}

	if fc.HTTP.Enabled != nil {
		cfg.EnableHTTP = *fc.HTTP.Enabled
	}
	if fc.HTTP.Addr != "" {
		cfg.HTTP.Addr = fc.HTTP.Addr
	}

	if fc.WS.Enabled != nil {
		cfg.EnableWS = *fc.WS.Enabled
	}
	if fc.WS.Addr != "" {
		cfg.WS.Addr = fc.WS.Addr
	}
	if len(fc.WS.AllowedOrigins) > 0 {
		cfg.WS.AllowedOrigins = fc.WS.AllowedOrigins
	}
	if fc.WS.PingInterval != "" {
		d, err := time.ParseDuration(fc.WS.PingInterval)
		if err != nil {
			return fmt.Errorf("failed to parse ws ping_interval: %w", err)
		}
		cfg.WS.PingInterval = d
	}

	if fc.MDNS.Enabled != nil {
		cfg.EnableMDNS = *fc.MDNS.Enabled
	}
	if fc.MDNS.Interface != "" {
		cfg.MDNS.Interface = fc.MDNS.Interface
	}
	if fc.MDNS.TTL != "" {
		d, err := time.ParseDuration(fc.MDNS.TTL)
		if err != nil {
			return fmt.Errorf("failed to parse mdns ttl: %w", err)
		}
		cfg.MDNS.TTL = d
	}

	return nil
}
