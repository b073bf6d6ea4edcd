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

package transport

import (
	"io"
	"net"
	"sync"

	"github.com/sage-x-project/jstp/conn"
	"github.com/sage-x-project/jstp/record"
)

// StreamTransport adapts a net.Conn (plain TCP or TLS) into a
// conn.Transport by scanning inbound bytes for balanced top-level
// records via Framer. One StreamTransport serves exactly one
// Connection, installed through SetSink.
type StreamTransport struct {
	conn      net.Conn
	sink      conn.Sink
	writeMu   sync.Mutex
	parseOpts record.ParseOptions
}

// NewStreamTransport wraps nc. opts configures the parse timeout
// applied to every decoded frame; DefaultParseOptions is used if opts
// is omitted.
func NewStreamTransport(nc net.Conn, opts ...record.ParseOptions) *StreamTransport {
	o := record.DefaultParseOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	return &StreamTransport{conn: nc, parseOpts: o}
}

// SetSink implements conn.Transport: it starts the reader goroutine.
func (t *StreamTransport) SetSink(sink conn.Sink) {
	t.sink = sink
	go t.readLoop()
}

// Send implements conn.Transport.
func (t *StreamTransport) Send(data string) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	_, err := t.conn.Write([]byte(data))
	return err
}

// End implements conn.Transport.
func (t *StreamTransport) End(data string) error {
	if data != "" {
		if err := t.Send(data); err != nil {
			return err
		}
	}
	return t.conn.Close()
}

// RemoteAddress implements conn.Transport.
func (t *StreamTransport) RemoteAddress() string {
	if addr := t.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

func (t *StreamTransport) readLoop() {
	framer := &Framer{}
	buf := make([]byte, 4096)
	for {
		n, err := t.conn.Read(buf)
		if n > 0 {
			for _, frame := range framer.Feed(buf[:n]) {
				v, perr := record.Parse(frame, t.parseOpts)
				if perr != nil {
					t.sink.OnError(perr)
					continue
				}
				t.sink.OnPacket(v)
			}
		}
		if err != nil {
			if err == io.EOF {
				t.sink.OnClose()
			} else {
				t.sink.OnError(err)
			}
			return
		}
	}
}
