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

// Package demoapps bundles the calc and chat applications registered
// by the jstp-server command: small, self-contained interfaces that
// exercise a real call/event round trip end to end.
package demoapps

import (
	"context"
	"sync"
	"time"

	"github.com/sage-x-project/jstp/app"
	"github.com/sage-x-project/jstp/internal/chatstore"
	"github.com/sage-x-project/jstp/internal/logger"
	"github.com/sage-x-project/jstp/jstperr"
	"github.com/sage-x-project/jstp/record"
)

// Calc returns the "calc" application: a single interface exposing
// add/sub/mul arithmetic over integers.
func Calc() *app.Application {
	iface := app.NewInterface()
	iface.Register("add", arith(func(a, b int64) int64 { return a + b }))
	iface.Register("sub", arith(func(a, b int64) int64 { return a - b }))
	iface.Register("mul", arith(func(a, b int64) int64 { return a * b }))
	return app.New("calc", map[string]*app.Interface{"calc": iface})
}

func arith(op func(a, b int64) int64) app.Handler {
	return func(c app.Conn, args []record.Value, cb app.Callback) {
		if len(args) != 2 {
			cb(jstperr.New(jstperr.InvalidSignature, "expected exactly 2 arguments"))
			return
		}
		a, ok1 := args[0].Int()
		b, ok2 := args[1].Int()
		if !ok1 || !ok2 {
			cb(jstperr.New(jstperr.InvalidSignature, "arguments must be integers"))
			return
		}
		cb(nil, record.Int(op(a, b)))
	}
}

// Chat returns the "chat" application: a "chat" interface with a
// "send" method that broadcasts a "message" event to every other
// connection subscribed through the shared Room, optionally persisting
// history through store. store may be nil, in which case history is
// not recorded.
func Chat(store *chatstore.Store) *app.Application {
	room := newRoom()
	iface := app.NewInterface()
	iface.Register("send", room.send(store))
	iface.Register("history", room.history(store))
	return app.New("chat", map[string]*app.Interface{"chat": iface})
}

// room tracks which connections have called send at least once, so a
// broadcast can reach every other participant via its own Emit;
// calling history does not join the room.
type room struct {
	mu      sync.Mutex
	members map[app.Conn]string
}

func newRoom() *room {
	return &room{members: make(map[app.Conn]string)}
}

func (r *room) send(store *chatstore.Store) app.Handler {
	return func(c app.Conn, args []record.Value, cb app.Callback) {
		if len(args) != 1 {
			cb(jstperr.New(jstperr.InvalidSignature, "expected exactly 1 argument"))
			return
		}
		body, ok := args[0].String()
		if !ok {
			cb(jstperr.New(jstperr.InvalidSignature, "message must be a string"))
			return
		}
		username, _ := c.SessionID()

		r.mu.Lock()
		r.members[c] = username
		peers := make([]app.Conn, 0, len(r.members))
		for peer := range r.members {
			if peer != c {
				peers = append(peers, peer)
			}
		}
		r.mu.Unlock()

		for _, peer := range peers {
			_ = peer.Emit("chat", "message", []record.Value{record.String(username), record.String(body)})
		}

		if store != nil {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := store.Append(ctx, chatstore.Message{
					Room: "default", Username: username, Body: body, SentAt: time.Now(),
				}); err != nil {
					logger.GetDefaultLogger().Warn("chat: persisting message failed", logger.Error(err))
				}
			}()
		}

		cb(nil)
	}
}

func (r *room) history(store *chatstore.Store) app.Handler {
	return func(c app.Conn, args []record.Value, cb app.Callback) {
		if store == nil {
			cb(nil, record.Array())
			return
		}
		limit := 20
		if len(args) == 1 {
			if n, ok := args[0].Int(); ok {
				limit = int(n)
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		msgs, err := store.History(ctx, "default", limit)
		if err != nil {
			cb(jstperr.New(jstperr.InternalApiError, err.Error()))
			return
		}
		entries := make([]record.Value, len(msgs))
		for i, m := range msgs {
			entries[i] = record.Array(record.String(m.Username), record.String(m.Body))
		}
		cb(nil, record.Array(entries...))
	}
}
