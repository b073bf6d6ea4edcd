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

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/jstp/app"
	"github.com/sage-x-project/jstp/config"
	"github.com/sage-x-project/jstp/conn"
	"github.com/sage-x-project/jstp/health"
	"github.com/sage-x-project/jstp/internal/chatstore"
	"github.com/sage-x-project/jstp/internal/demoapps"
	"github.com/sage-x-project/jstp/internal/logger"
	"github.com/sage-x-project/jstp/internal/metrics"
	"github.com/sage-x-project/jstp/policy"
	"github.com/sage-x-project/jstp/server"
	"github.com/sage-x-project/jstp/transport/tcp"
	"github.com/sage-x-project/jstp/transport/tls"
	wsx "github.com/sage-x-project/jstp/transport/websocket"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept JSTP connections and dispatch calc/chat demo apps",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML/JSON config file (if omitted, config is loaded from ./config plus JSTP_* environment overrides)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			return fmt.Errorf("jstp-server: %w", err)
		}
		cfg = loaded
	} else {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("jstp-server: %w", err)
		}
		cfg = loaded
	}

	log := logger.NewDefaultLogger()
	log.SetLevel(levelFromString(cfg.Logging.Level))

	auth, err := buildAuthPolicy(cfg.Auth)
	if err != nil {
		return fmt.Errorf("jstp-server: %w", err)
	}

	var store *chatstore.Store
	if addr := os.Getenv("JSTP_CHATSTORE_DSN_HOST"); addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store, err = chatstore.Open(ctx, chatstore.Config{
			Host:     addr,
			Port:     5432,
			User:     os.Getenv("JSTP_CHATSTORE_USER"),
			Password: os.Getenv("JSTP_CHATSTORE_PASSWORD"),
			Database: os.Getenv("JSTP_CHATSTORE_DATABASE"),
			SSLMode:  "disable",
		})
		if err != nil {
			log.Warn("chatstore: continuing without persistence", logger.Error(err))
			store = nil
		} else if err := store.EnsureSchema(ctx); err != nil {
			log.Warn("chatstore: schema setup failed, continuing without persistence", logger.Error(err))
			store = nil
		}
	}

	apps := []*app.Application{demoapps.Calc(), demoapps.Chat(store)}

	srv := server.New(auth, apps, server.WithHeartbeat(cfg.Server.Heartbeat), server.WithLogger(log))

	checker := health.NewHealthChecker(5 * time.Second)
	checker.SetLogger(log)
	checker.RegisterCheck("connections", health.ConnectionCountHealthCheck(srv.ClientCount, 0))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		go func() {
			log.Info("metrics: listening", logger.String("addr", cfg.Metrics.Addr))
			if err := metrics.StartServer(cfg.Metrics.Addr); err != nil {
				log.Error("metrics: server exited", logger.Error(err))
			}
		}()
	}
	if cfg.Health.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Health.Path, checker.Handler())
		healthSrv := &http.Server{Addr: cfg.Health.Addr, Handler: mux}
		go func() {
			log.Info("health: listening", logger.String("addr", cfg.Health.Addr))
			if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("health: server exited", logger.Error(err))
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = healthSrv.Shutdown(shutdownCtx)
		}()
	}

	log.Info("jstp-server: starting",
		logger.String("transport", cfg.Server.Transport),
		logger.String("listen_addr", cfg.Server.ListenAddr),
	)

	switch cfg.Server.Transport {
	case "tcp":
		ln, err := tcp.Listen(cfg.Server.ListenAddr)
		if err != nil {
			return fmt.Errorf("jstp-server: listening: %w", err)
		}
		return srv.Serve(ctx, ln)
	case "tls":
		ln, err := tls.Listen(cfg.Server.ListenAddr, cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("jstp-server: listening: %w", err)
		}
		return srv.Serve(ctx, ln)
	case "ws":
		return serveWebSocket(ctx, cfg.Server.ListenAddr, srv, log)
	default:
		return fmt.Errorf("jstp-server: unknown transport %q", cfg.Server.Transport)
	}
}

// serveWebSocket mounts the JSTP WebSocket upgrader on an HTTP server,
// since gorilla's upgrade model is push-style rather than the
// pull-style server.Listener the tcp/tls transports satisfy.
func serveWebSocket(ctx context.Context, addr string, srv *server.Server, log logger.Logger) error {
	upgrader := wsx.NewUpgrader(func(t *wsx.Transport) {
		if _, err := srv.Accept(asTransport(t)); err != nil {
			log.Error("ws: rejecting accepted transport", logger.Error(err))
		}
	})
	mux := http.NewServeMux()
	mux.Handle("/jstp", upgrader.Handler())
	httpSrv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("jstp-server: ws listen: %w", err)
	}
	return nil
}

func asTransport(t *wsx.Transport) conn.Transport { return t }

func buildAuthPolicy(cfg *config.AuthConfig) (conn.AuthPolicy, error) {
	if cfg == nil || len(cfg.Users) == 0 {
		return policy.AnonymousAuth{}, nil
	}
	secret := []byte(os.Getenv(cfg.JWTSecretEnv))
	if len(secret) == 0 {
		return nil, fmt.Errorf("login auth configured but %s is unset", cfg.JWTSecretEnv)
	}
	return policy.LoginAuth{Users: cfg.Users, JWTSecret: secret, TTL: 24 * time.Hour}, nil
}

func levelFromString(s string) logger.Level {
	switch s {
	case "debug":
		return logger.DebugLevel
	case "warn":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}
