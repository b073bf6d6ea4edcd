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

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoaderOptions configures the configuration loader
type LoaderOptions struct {
	// ConfigDir is the directory containing config files (default: ./config)
	ConfigDir string
	// Environment overrides automatic environment detection
	Environment string
	// SkipEnvSubstitution disables environment variable substitution
	SkipEnvSubstitution bool
	// SkipValidation disables configuration validation
	SkipValidation bool
}

// DefaultLoaderOptions returns default loader options
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{
		ConfigDir:           "config",
		Environment:         "",
		SkipEnvSubstitution: false,
		SkipValidation:      false,
	}
}

// ValidationError describes a single configuration validation issue.
type ValidationError struct {
	Field   string
	Message string
	Level   string // "error" or "warning"
}

// ValidateConfiguration checks a loaded Config for obvious misconfiguration.
// Only "error"-level entries cause Load to fail; "warning" entries are
// informational and left for the caller to log if desired.
func ValidateConfiguration(cfg *Config) []ValidationError {
	var errs []ValidationError

	if cfg.Server != nil {
		if cfg.Server.ListenAddr == "" {
			errs = append(errs, ValidationError{Field: "server.listen_addr", Message: "must not be empty", Level: "error"})
		}
		switch cfg.Server.Transport {
		case "tcp", "tls", "ws":
		default:
			errs = append(errs, ValidationError{Field: "server.transport", Message: "must be one of tcp, tls, ws", Level: "error"})
		}
		if cfg.Server.Transport == "tls" && (cfg.Server.TLSCertFile == "" || cfg.Server.TLSKeyFile == "") {
			errs = append(errs, ValidationError{Field: "server.tls_cert_file", Message: "tls transport requires both cert and key files", Level: "error"})
		}
	}

	if cfg.Client != nil {
		switch cfg.Client.Transport {
		case "tcp", "tls", "ws":
		default:
			errs = append(errs, ValidationError{Field: "client.transport", Message: "must be one of tcp, tls, ws", Level: "error"})
		}
	}

	if cfg.Auth != nil {
		switch cfg.Auth.DefaultStrategy {
		case "anonymous", "login":
		default:
			errs = append(errs, ValidationError{Field: "auth.default_strategy", Message: "must be anonymous or login", Level: "error"})
		}
		if cfg.Auth.DefaultStrategy == "login" && cfg.Auth.JWTSecretEnv == "" {
			errs = append(errs, ValidationError{Field: "auth.jwt_secret_env", Message: "login strategy requires a JWT secret env var name", Level: "error"})
		}
		if cfg.Auth.DefaultStrategy == "login" && len(cfg.Auth.Users) == 0 {
			errs = append(errs, ValidationError{Field: "auth.users", Message: "login strategy configured with no users", Level: "warning"})
		}
	}

	return errs
}

// Load loads configuration with automatic environment detection
func Load(opts ...LoaderOptions) (*Config, error) {
	options := DefaultLoaderOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	// Load .env before anything reads the process environment, so its
	// values participate in ${VAR} substitution and the JSTP_* overrides
	// below. Real environment variables still win: godotenv never
	// overwrites a variable that is already set.
	_ = godotenv.Load()

	// Determine environment
	env := options.Environment
	if env == "" {
		env = GetEnvironment()
	}

	// Try to load environment-specific config file
	envConfigPath := filepath.Join(options.ConfigDir, fmt.Sprintf("%s.yaml", env))
	cfg, err := loadConfigFile(envConfigPath)
	if err != nil {
		// Fall back to default config file
		defaultConfigPath := filepath.Join(options.ConfigDir, "default.yaml")
		cfg, err = loadConfigFile(defaultConfigPath)
		if err != nil {
			// Fall back to config.yaml
			configPath := filepath.Join(options.ConfigDir, "config.yaml")
			cfg, err = loadConfigFile(configPath)
			if err != nil {
				// Return empty config with defaults
				cfg = &Config{}
			}
		}
	}

	// Set environment
	if cfg.Environment == "" {
		cfg.Environment = env
	}

	// Apply defaults
	setDefaults(cfg)

	// Substitute environment variables
	if !options.SkipEnvSubstitution {
		SubstituteEnvVarsInConfig(cfg)
	}

	// Override with environment variables (highest priority)
	applyEnvironmentOverrides(cfg)

	// Validate configuration
	if !options.SkipValidation {
		errs := ValidateConfiguration(cfg)
		// Only fail on error-level validation issues
		for _, e := range errs {
			if e.Level == "error" {
				return nil, fmt.Errorf("configuration validation failed: %s - %s", e.Field, e.Message)
			}
		}
	}

	return cfg, nil
}

// loadConfigFile loads a single config file
func loadConfigFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	return LoadFromFile(path)
}

// applyEnvironmentOverrides overrides config with environment variables
func applyEnvironmentOverrides(cfg *Config) {
	if addr := os.Getenv("JSTP_LISTEN_ADDR"); addr != "" && cfg.Server != nil {
		cfg.Server.ListenAddr = addr
	}
	if transport := os.Getenv("JSTP_SERVER_TRANSPORT"); transport != "" && cfg.Server != nil {
		cfg.Server.Transport = transport
	}
	if dial := os.Getenv("JSTP_DIAL_ADDR"); dial != "" && cfg.Client != nil {
		cfg.Client.DialAddr = dial
	}

	// Auth overrides
	if strategy := os.Getenv("JSTP_AUTH_STRATEGY"); strategy != "" && cfg.Auth != nil {
		cfg.Auth.DefaultStrategy = strategy
	}

	// Logging overrides
	if logLevel := os.Getenv("JSTP_LOG_LEVEL"); logLevel != "" && cfg.Logging != nil {
		cfg.Logging.Level = logLevel
	}
	if logFormat := os.Getenv("JSTP_LOG_FORMAT"); logFormat != "" && cfg.Logging != nil {
		cfg.Logging.Format = logFormat
	}

	// Metrics overrides
	if os.Getenv("JSTP_METRICS_ENABLED") == "true" && cfg.Metrics != nil {
		cfg.Metrics.Enabled = true
	}
	if os.Getenv("JSTP_METRICS_ENABLED") == "false" && cfg.Metrics != nil {
		cfg.Metrics.Enabled = false
	}
	if addr := os.Getenv("JSTP_METRICS_ADDR"); addr != "" && cfg.Metrics != nil {
		cfg.Metrics.Addr = addr
	}
}

// LoadForEnvironment loads configuration for a specific environment
func LoadForEnvironment(environment string) (*Config, error) {
	return Load(LoaderOptions{
		ConfigDir:   "config",
		Environment: environment,
	})
}

// MustLoad loads configuration or panics on error
func MustLoad(opts ...LoaderOptions) *Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	return cfg
}
