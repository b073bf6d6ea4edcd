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

// Package metrics exposes the Prometheus counters and gauges emitted by
// the conn package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jstp"

// Registry is the registry all JSTP metrics are registered against. A
// dedicated registry (rather than prometheus.DefaultRegisterer) keeps
// a server's metrics free of the Go runtime collectors a host process
// may already register.
var Registry = prometheus.NewRegistry()

var (
	// ConnectionsOpen tracks the number of currently open connections.
	ConnectionsOpen = promauto.With(Registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connections_open",
		Help:      "Number of currently open JSTP connections.",
	})

	// ConnectionsTotal counts every connection ever accepted or dialed.
	ConnectionsTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connections_total",
		Help:      "Total JSTP connections by origin (server, client).",
	}, []string{"origin"})

	// HandshakesTotal counts handshake attempts by outcome.
	HandshakesTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "handshakes_total",
		Help:      "Total handshake attempts by outcome (ok, rejected, error).",
	}, []string{"outcome"})

	// CallsTotal counts dispatched calls by application and outcome
	// (ok, error, panic).
	CallsTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calls_total",
		Help:      "Total calls dispatched by application and outcome.",
	}, []string{"application", "outcome"})

	// CallDuration observes call handler latency in seconds.
	CallDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "call_duration_seconds",
		Help:      "Call handler latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"application"})

	// EventsTotal counts emitted events.
	EventsTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Total events emitted to remote proxies.",
	}, []string{"application"})

	// HeartbeatsTotal counts heartbeat pings sent.
	HeartbeatsTotal = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "heartbeats_total",
		Help:      "Total heartbeat pings sent across all connections.",
	})

	// PacketsRejectedTotal counts packets rejected for protocol violations.
	PacketsRejectedTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "packets_rejected_total",
		Help:      "Total packets rejected by reason.",
	}, []string{"reason"})
)
