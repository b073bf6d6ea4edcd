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

package policy

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
	"github.com/sage-x-project/jstp/app"
	"github.com/sage-x-project/jstp/conn"
	"github.com/sage-x-project/jstp/jstperr"
	"github.com/sage-x-project/jstp/record"
	"golang.org/x/crypto/bcrypt"
)

// AnonymousAuth is an AuthPolicy that admits every anonymous handshake
// with a random opaque session id and no username. Any other strategy
// fails with AuthFailed.
type AnonymousAuth struct{}

// StartSession implements conn.AuthPolicy.
func (AnonymousAuth) StartSession(c *conn.Connection, application *app.Application, strategy string, credentials []record.Value) (username, sessionID string, err error) {
	if strategy != "anonymous" {
		return "", "", jstperr.New(jstperr.AuthFailed, "unknown strategy "+strategy)
	}
	sid, err := randomSessionID()
	if err != nil {
		return "", "", err
	}
	return "", sid, nil
}

func randomSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("policy: generating session id: %w", err)
	}
	return base58.Encode(buf), nil
}

// LoginAuth is an AuthPolicy that verifies a username/password pair
// against bcrypt-hashed credentials and mints a signed JWT as the
// session id. A zero TTL mints a token with no expiry claim. Anonymous
// handshakes are still admitted (random session id, no username);
// strategies other than anonymous/login fail with AuthFailed.
type LoginAuth struct {
	Users     map[string]string // username -> bcrypt hash
	JWTSecret []byte
	TTL       time.Duration
}

// StartSession implements conn.AuthPolicy.
func (l LoginAuth) StartSession(c *conn.Connection, application *app.Application, strategy string, credentials []record.Value) (username, sessionID string, err error) {
	switch strategy {
	case "anonymous":
		sid, err := randomSessionID()
		if err != nil {
			return "", "", err
		}
		return "", sid, nil
	case "login":
	default:
		return "", "", jstperr.New(jstperr.AuthFailed, "unknown strategy "+strategy)
	}
	if len(credentials) != 2 {
		return "", "", jstperr.New(jstperr.AuthFailed, "expected [username, password]")
	}
	user, ok1 := credentials[0].String()
	pass, ok2 := credentials[1].String()
	if !ok1 || !ok2 {
		return "", "", jstperr.New(jstperr.AuthFailed, "credentials must be strings")
	}
	hash, ok := l.Users[user]
	if !ok {
		return "", "", jstperr.New(jstperr.AuthFailed, "unknown user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass)); err != nil {
		return "", "", jstperr.New(jstperr.AuthFailed, "bad credentials")
	}

	token, err := l.mintToken(user)
	if err != nil {
		return "", "", fmt.Errorf("policy: minting session token: %w", err)
	}
	return user, token, nil
}

func (l LoginAuth) mintToken(user string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user,
		"jti": user + "-" + now.Format(time.RFC3339Nano),
		"iat": now.Unix(),
	}
	if l.TTL > 0 {
		claims["exp"] = now.Add(l.TTL).Unix()
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(l.JWTSecret)
}

// VerifySession validates a session id minted by LoginAuth and returns
// its subject username.
func (l LoginAuth) VerifySession(sessionID string) (username string, err error) {
	tok, err := jwt.Parse(sessionID, func(t *jwt.Token) (interface{}, error) {
		return l.JWTSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("policy: invalid session token: %w", err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("policy: malformed session claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("policy: session token missing subject")
	}
	return sub, nil
}
