// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package config loads configuration for a JSTP server or client
// process: listen/dial addresses, heartbeat and parse timeouts, TLS
// material, the login auth strategy's user table, and the usual
// logging/metrics/health knobs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration structure
type Config struct {
	Environment string         `yaml:"environment" json:"environment"`
	Server      *ServerConfig  `yaml:"server" json:"server"`
	Client      *ClientConfig  `yaml:"client" json:"client"`
	Auth        *AuthConfig    `yaml:"auth" json:"auth"`
	Logging     *LoggingConfig `yaml:"logging" json:"logging"`
	Metrics     *MetricsConfig `yaml:"metrics" json:"metrics"`
	Health      *HealthConfig  `yaml:"health" json:"health"`
}

// ServerConfig configures a JSTP server's listener.
type ServerConfig struct {
	ListenAddr   string        `yaml:"listen_addr" json:"listen_addr"`
	Transport    string        `yaml:"transport" json:"transport"` // tcp, tls, ws
	TLSCertFile  string        `yaml:"tls_cert_file" json:"tls_cert_file"`
	TLSKeyFile   string        `yaml:"tls_key_file" json:"tls_key_file"`
	Heartbeat    time.Duration `yaml:"heartbeat" json:"heartbeat"`
	ParseTimeout time.Duration `yaml:"parse_timeout" json:"parse_timeout"`
}

// ClientConfig configures a JSTP client dial.
type ClientConfig struct {
	DialAddr     string        `yaml:"dial_addr" json:"dial_addr"`
	Transport    string        `yaml:"transport" json:"transport"`
	Application  string        `yaml:"application" json:"application"`
	Heartbeat    time.Duration `yaml:"heartbeat" json:"heartbeat"`
	ParseTimeout time.Duration `yaml:"parse_timeout" json:"parse_timeout"`
}

// AuthConfig configures the server-side connect/auth policy.
type AuthConfig struct {
	DefaultStrategy string            `yaml:"default_strategy" json:"default_strategy"`
	Users           map[string]string `yaml:"users" json:"users"` // username -> bcrypt hash
	JWTSecretEnv    string            `yaml:"jwt_secret_env" json:"jwt_secret_env"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
	Path    string `yaml:"path" json:"path"`
}

// HealthConfig represents health check configuration
type HealthConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
	Path    string `yaml:"path" json:"path"`
}

// LoadFromFile loads configuration from a file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}

	// Try to parse as YAML first
	if err := yaml.Unmarshal(data, cfg); err != nil {
		// Try JSON if YAML fails
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON): %w", err)
		}
	}

	// Set defaults
	setDefaults(cfg)

	return cfg, nil
}

// SaveToFile saves configuration to a file
func SaveToFile(cfg *Config, path string) error {
	// Determine format by extension
	var data []byte
	var err error

	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setDefaults sets default values for configuration
func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Server == nil {
		cfg.Server = &ServerConfig{}
	}
	if cfg.Client == nil {
		cfg.Client = &ClientConfig{}
	}
	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Logging == nil {
		cfg.Logging = &LoggingConfig{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &MetricsConfig{}
	}
	if cfg.Health == nil {
		cfg.Health = &HealthConfig{}
	}

	if cfg.Server != nil {
		if cfg.Server.ListenAddr == "" {
			cfg.Server.ListenAddr = ":4000"
		}
		if cfg.Server.Transport == "" {
			cfg.Server.Transport = "tcp"
		}
		if cfg.Server.Heartbeat == 0 {
			cfg.Server.Heartbeat = 30 * time.Second
		}
		if cfg.Server.ParseTimeout == 0 {
			cfg.Server.ParseTimeout = 30 * time.Millisecond
		}
	}

	if cfg.Client != nil {
		if cfg.Client.Transport == "" {
			cfg.Client.Transport = "tcp"
		}
		if cfg.Client.Application == "" {
			cfg.Client.Application = "jstp"
		}
		if cfg.Client.Heartbeat == 0 {
			cfg.Client.Heartbeat = 30 * time.Second
		}
		if cfg.Client.ParseTimeout == 0 {
			cfg.Client.ParseTimeout = 30 * time.Millisecond
		}
	}

	if cfg.Auth != nil {
		if cfg.Auth.DefaultStrategy == "" {
			cfg.Auth.DefaultStrategy = "anonymous"
		}
	}

	if cfg.Logging != nil {
		if cfg.Logging.Level == "" {
			cfg.Logging.Level = "info"
		}
		if cfg.Logging.Format == "" {
			cfg.Logging.Format = "json"
		}
		if cfg.Logging.Output == "" {
			cfg.Logging.Output = "stdout"
		}
	}

	if cfg.Metrics != nil {
		if cfg.Metrics.Addr == "" {
			cfg.Metrics.Addr = ":9090"
		}
		if cfg.Metrics.Path == "" {
			cfg.Metrics.Path = "/metrics"
		}
	}

	if cfg.Health != nil {
		if cfg.Health.Addr == "" {
			cfg.Health.Addr = ":9091"
		}
		if cfg.Health.Path == "" {
			cfg.Health.Path = "/healthz"
		}
	}
}
