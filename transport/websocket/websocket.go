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

// Package websocket implements JSTP's WebSocket transport: one text
// frame carries exactly one record, so no byte-level framing is
// needed beyond what gorilla/websocket already provides.
package websocket

import (
	"net/http"
	"sync"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/sage-x-project/jstp/conn"
	"github.com/sage-x-project/jstp/record"
)

// Transport adapts a *gorilla.Conn into a conn.Transport. Every Send
// call writes one text frame; every inbound text frame is parsed as
// one record.
type Transport struct {
	ws        *gorilla.Conn
	sink      conn.Sink
	writeMu   sync.Mutex
	parseOpts record.ParseOptions
}

// NewTransport wraps an already-established WebSocket connection.
func NewTransport(ws *gorilla.Conn, opts ...record.ParseOptions) *Transport {
	o := record.DefaultParseOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	return &Transport{ws: ws, parseOpts: o}
}

// Dial connects to a JSTP WebSocket endpoint at url.
func Dial(url string) (*Transport, error) {
	ws, _, err := gorilla.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return NewTransport(ws), nil
}

// SetSink implements conn.Transport: it starts the reader goroutine.
func (t *Transport) SetSink(sink conn.Sink) {
	t.sink = sink
	go t.readLoop()
}

// Send implements conn.Transport.
func (t *Transport) Send(data string) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.ws.WriteMessage(gorilla.TextMessage, []byte(data))
}

// End implements conn.Transport.
func (t *Transport) End(data string) error {
	if data != "" {
		if err := t.Send(data); err != nil {
			return err
		}
	}
	t.writeMu.Lock()
	_ = t.ws.WriteMessage(gorilla.CloseMessage, gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, ""))
	t.writeMu.Unlock()
	return t.ws.Close()
}

// RemoteAddress implements conn.Transport.
func (t *Transport) RemoteAddress() string {
	if addr := t.ws.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

func (t *Transport) readLoop() {
	for {
		kind, data, err := t.ws.ReadMessage()
		if err != nil {
			t.sink.OnClose()
			return
		}
		if kind != gorilla.TextMessage {
			continue
		}
		v, perr := record.Parse(string(data), t.parseOpts)
		if perr != nil {
			t.sink.OnError(perr)
			continue
		}
		t.sink.OnPacket(v)
	}
}

// Upgrader upgrades inbound HTTP connections to JSTP WebSocket
// transports and hands each one to onAccept.
type Upgrader struct {
	upgrader  gorilla.Upgrader
	onAccept  func(*Transport)
	parseOpts record.ParseOptions
}

// NewUpgrader builds an Upgrader that calls onAccept once per accepted
// connection, before any packets are dispatched to it.
func NewUpgrader(onAccept func(*Transport)) *Upgrader {
	return &Upgrader{
		upgrader: gorilla.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },

			ReadBufferSize:   4096,
			WriteBufferSize:  4096,
			HandshakeTimeout: 10 * time.Second,
		},
		onAccept:  onAccept,
		parseOpts: record.DefaultParseOptions(),
	}
}

// Handler returns an http.Handler suitable for mounting at a JSTP
// WebSocket endpoint.
func (u *Upgrader) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := u.upgrader.Upgrade(w, r, nil)
		if err != nil {
			http.Error(w, "websocket upgrade failed", http.StatusBadRequest)
			return
		}
		t := NewTransport(ws, u.parseOpts)
		u.onAccept(t)
	})
}
