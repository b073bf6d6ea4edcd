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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	cfg := &Config{
		Server:  &ServerConfig{},
		Client:  &ClientConfig{},
		Auth:    &AuthConfig{},
		Logging: &LoggingConfig{},
		Metrics: &MetricsConfig{},
		Health:  &HealthConfig{},
	}

	setDefaults(cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":4000", cfg.Server.ListenAddr)
	assert.Equal(t, "tcp", cfg.Server.Transport)
	assert.Equal(t, "tcp", cfg.Client.Transport)
	assert.Equal(t, "jstp", cfg.Client.Application)
	assert.Equal(t, "anonymous", cfg.Auth.DefaultStrategy)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, ":9091", cfg.Health.Addr)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{
		Environment: "staging",
		Server: &ServerConfig{
			ListenAddr: ":5000",
			Transport:  "ws",
		},
		Auth: &AuthConfig{
			DefaultStrategy: "login",
			Users:           map[string]string{"alice": "hash"},
		},
	}

	t.Run("YAML", func(t *testing.T) {
		path := filepath.Join(dir, "jstp.yaml")
		require.NoError(t, SaveToFile(cfg, path))

		loaded, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "staging", loaded.Environment)
		assert.Equal(t, ":5000", loaded.Server.ListenAddr)
		assert.Equal(t, "ws", loaded.Server.Transport)
		assert.Equal(t, "hash", loaded.Auth.Users["alice"])
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(dir, "jstp.json")
		require.NoError(t, SaveToFile(cfg, path))

		loaded, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "staging", loaded.Environment)
		assert.Equal(t, "login", loaded.Auth.DefaultStrategy)
	})
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/jstp.yaml")
	assert.Error(t, err)
}

func TestSubstituteEnvVars(t *testing.T) {
	os.Setenv("JSTP_TEST_VAR", "hello")
	defer os.Unsetenv("JSTP_TEST_VAR")

	assert.Equal(t, "hello", SubstituteEnvVars("${JSTP_TEST_VAR}"))
	assert.Equal(t, "fallback", SubstituteEnvVars("${JSTP_TEST_VAR_UNSET:fallback}"))
	assert.Equal(t, "prefix-hello-suffix", SubstituteEnvVars("prefix-${JSTP_TEST_VAR}-suffix"))
}

func TestSubstituteEnvVarsInConfig(t *testing.T) {
	os.Setenv("JSTP_TEST_ADDR", ":6000")
	defer os.Unsetenv("JSTP_TEST_ADDR")

	cfg := &Config{
		Server: &ServerConfig{ListenAddr: "${JSTP_TEST_ADDR}"},
	}
	SubstituteEnvVarsInConfig(cfg)
	assert.Equal(t, ":6000", cfg.Server.ListenAddr)
}

func TestGetEnvironment(t *testing.T) {
	os.Unsetenv("JSTP_ENV")
	os.Unsetenv("ENVIRONMENT")
	assert.Equal(t, "development", GetEnvironment())

	os.Setenv("JSTP_ENV", "PRODUCTION")
	defer os.Unsetenv("JSTP_ENV")
	assert.Equal(t, "production", GetEnvironment())
	assert.True(t, IsProduction())
	assert.False(t, IsDevelopment())
}

func TestValidateConfiguration(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{
			Server: &ServerConfig{ListenAddr: ":4000", Transport: "tcp"},
			Client: &ClientConfig{Transport: "tcp"},
			Auth:   &AuthConfig{DefaultStrategy: "anonymous"},
		}
		errs := ValidateConfiguration(cfg)
		assert.Empty(t, errs)
	})

	t.Run("bad transport", func(t *testing.T) {
		cfg := &Config{Server: &ServerConfig{ListenAddr: ":4000", Transport: "carrier-pigeon"}}
		errs := ValidateConfiguration(cfg)
		require.NotEmpty(t, errs)
		assert.Equal(t, "error", errs[0].Level)
	})

	t.Run("login without secret", func(t *testing.T) {
		cfg := &Config{Auth: &AuthConfig{DefaultStrategy: "login"}}
		errs := ValidateConfiguration(cfg)
		var found bool
		for _, e := range errs {
			if e.Field == "auth.jwt_secret_env" {
				found = true
			}
		}
		assert.True(t, found)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "default.yaml")
	require.NoError(t, SaveToFile(&Config{
		Server: &ServerConfig{ListenAddr: ":7000", Transport: "tcp"},
		Auth:   &AuthConfig{DefaultStrategy: "anonymous"},
	}, cfgPath))

	cfg, err := Load(LoaderOptions{ConfigDir: dir, Environment: "test"})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.ListenAddr)
}

func TestLoadWithoutAnyFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(LoaderOptions{ConfigDir: dir, Environment: "test"})
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.Server.ListenAddr)
}
