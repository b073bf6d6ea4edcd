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
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/jstp/record"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Dial, handshake, and drop into an interactive call loop",
	Long: `repl reads lines of the form:

    <interface>.<method> [arg1] [arg2] ...

each argument parsed as a record literal, issues the call, and prints
its result. Type "exit" or Ctrl-D to quit.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	c, err := dialAndHandshake(transport, dialAddr, application, username, password)
	if err != nil {
		return err
	}
	defer c.Close()

	fmt.Printf("connected to %s (%s), application %q\n", dialAddr, transport, application)
	c.On("event", func(args ...interface{}) {
		fmt.Printf("\n< event %v\n%s ", args, prompt())
	})

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print(prompt())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Print(prompt())
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		if err := evalReplLine(c, line); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		fmt.Print(prompt())
	}
	return nil
}

func prompt() string { return "jstp> " }

func evalReplLine(c interface {
	Call(interfaceName, methodName string, args []record.Value, cb func(err error, results ...record.Value)) error
}, line string) error {
	head, rest, _ := strings.Cut(line, " ")
	interfaceName, method, ok := strings.Cut(head, ".")
	if !ok {
		return fmt.Errorf("expected <interface>.<method>, got %q", head)
	}

	callArgs, err := parseArgs(tokenize(rest))
	if err != nil {
		return err
	}

	done := make(chan struct{})
	var callErr error
	var results []record.Value
	if err := c.Call(interfaceName, method, callArgs, func(err error, rs ...record.Value) {
		callErr, results = err, rs
		close(done)
	}); err != nil {
		return err
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		return fmt.Errorf("call timed out")
	}

	if callErr != nil {
		return callErr
	}
	for _, r := range results {
		fmt.Println(record.Stringify(r))
	}
	return nil
}

// tokenize splits a REPL argument string on whitespace, honoring
// single-quoted spans as one token.
func tokenize(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var tokens []string
	var cur strings.Builder
	inQuote := false
	for _, r := range s {
		switch {
		case r == '\'':
			inQuote = !inQuote
			cur.WriteRune(r)
		case r == ' ' && !inQuote:
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}
