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

// Package chatstore is an optional Postgres-backed message history for
// the bundled chat demo application. It is independent of connection
// session state: losing the database does not affect an open
// connection's handshake or session id, only the chat app's ability to
// recall past messages.
package chatstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Message is one recorded chat message.
type Message struct {
	Room     string
	Username string
	Body     string
	SentAt   time.Time
}

// Store persists chat messages in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// Config holds the PostgreSQL connection parameters.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// Open connects to Postgres and verifies the connection, but does not
// create schema; call EnsureSchema for that.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	connString := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("chatstore: creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("chatstore: pinging database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// EnsureSchema creates the chat_messages table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chat_messages (
			id SERIAL PRIMARY KEY,
			room TEXT NOT NULL,
			username TEXT NOT NULL,
			body TEXT NOT NULL,
			sent_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("chatstore: ensuring schema: %w", err)
	}
	return nil
}

// Append records one message in room.
func (s *Store) Append(ctx context.Context, msg Message) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO chat_messages (room, username, body, sent_at) VALUES ($1, $2, $3, $4)`,
		msg.Room, msg.Username, msg.Body, msg.SentAt,
	)
	if err != nil {
		return fmt.Errorf("chatstore: appending message: %w", err)
	}
	return nil
}

// History returns up to limit of room's most recent messages, oldest
// first.
func (s *Store) History(ctx context.Context, room string, limit int) ([]Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT username, body, sent_at FROM (
			SELECT username, body, sent_at FROM chat_messages
			WHERE room = $1
			ORDER BY sent_at DESC
			LIMIT $2
		) recent ORDER BY sent_at ASC
	`, room, limit)
	if err != nil {
		return nil, fmt.Errorf("chatstore: querying history: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		m.Room = room
		if err := rows.Scan(&m.Username, &m.Body, &m.SentAt); err != nil {
			return nil, fmt.Errorf("chatstore: scanning message: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chatstore: reading history: %w", err)
	}
	return out, nil
}

// ErrNoRows re-exports pgx's no-rows sentinel so callers using QueryRow
// directly against this package's pool do not need to import pgx.
var ErrNoRows = pgx.ErrNoRows

// Close releases the connection pool.
func (s *Store) Close() { s.pool.Close() }
