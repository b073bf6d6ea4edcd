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

// Package jstperr defines JSTP's canonical wire error model: a fixed
// table of numeric codes plus a human-message tail, both directions
// convertible to the wire sequence `[code, ...messages]`.
package jstperr

import (
	"fmt"
	"strings"
)

// Code is one of the seven canonical JSTP error codes.
type Code int

const (
	AppNotFound       Code = 1
	AuthFailed        Code = 2
	InterfaceNotFound Code = 3
	MethodNotFound    Code = 4
	NotAServer        Code = 5
	InvalidSignature  Code = 6
	InternalApiError  Code = 7
)

var codeNames = map[Code]string{
	AppNotFound:       "AppNotFound",
	AuthFailed:        "AuthFailed",
	InterfaceNotFound: "InterfaceNotFound",
	MethodNotFound:    "MethodNotFound",
	NotAServer:        "NotAServer",
	InvalidSignature:  "InvalidSignature",
	InternalApiError:  "InternalApiError",
}

// Name returns the code's symbolic name, or "Unknown(N)" for a code
// outside the canonical table.
func Name(code Code) string {
	if name, ok := codeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(code))
}

// IsKnown reports whether code is one of the seven canonical codes.
func IsKnown(code Code) bool {
	_, ok := codeNames[code]
	return ok
}

// Error is a JSTP wire error: a code plus zero or more human-readable
// messages. It satisfies the standard error interface.
type Error struct {
	Code     Code
	Messages []string
}

// New constructs an Error.
func New(code Code, messages ...string) *Error {
	return &Error{Code: code, Messages: messages}
}

func (e *Error) Error() string {
	name := Name(e.Code)
	if len(e.Messages) == 0 {
		return name
	}
	return name + ": " + strings.Join(e.Messages, "; ")
}

// Is reports whether target is a *Error with the same code, so callers
// can write `errors.Is(err, jstperr.New(jstperr.MethodNotFound))`.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

// ToValues renders the error's wire sequence `[code, ...messages]` as
// plain Go values (int64 code, string messages), ready for a caller to
// convert into record.Value without jstperr importing record.
func (e *Error) ToValues() []interface{} {
	seq := make([]interface{}, 0, 1+len(e.Messages))
	seq = append(seq, int64(e.Code))
	for _, m := range e.Messages {
		seq = append(seq, m)
	}
	return seq
}

// FromValues reconstructs an Error from a decoded wire sequence. The
// first element must be an integer code; remaining elements are
// coerced to strings via fmt.Sprint when not already strings.
func FromValues(values []interface{}) (*Error, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("jstperr: empty error sequence")
	}
	var code int64
	switch c := values[0].(type) {
	case int64:
		code = c
	case int:
		code = int64(c)
	default:
		return nil, fmt.Errorf("jstperr: error sequence code must be an integer, got %T", values[0])
	}

	messages := make([]string, 0, len(values)-1)
	for _, v := range values[1:] {
		if s, ok := v.(string); ok {
			messages = append(messages, s)
		} else {
			messages = append(messages, fmt.Sprint(v))
		}
	}
	return &Error{Code: Code(code), Messages: messages}, nil
}
