// Copyright (C) 2025 sage-x-project
//
// SPDX-License-Identifier: LGPL-3.0-or-later

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestConnectionsTotal(t *testing.T) {
	ConnectionsTotal.Reset()
	ConnectionsTotal.WithLabelValues("server").Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(ConnectionsTotal.WithLabelValues("server")))
}

func TestHandshakesTotal(t *testing.T) {
	HandshakesTotal.Reset()
	HandshakesTotal.WithLabelValues("ok").Inc()
	HandshakesTotal.WithLabelValues("rejected").Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(HandshakesTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HandshakesTotal.WithLabelValues("rejected")))
}

func TestHandler(t *testing.T) {
	h := Handler()
	assert.NotNil(t, h)
}
