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
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/jstp/conn"
	"github.com/sage-x-project/jstp/record"
)

var callCmd = &cobra.Command{
	Use:   "call <interface> <method> [args]",
	Short: "Dial, handshake, issue one call, and print its result",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCall,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <interface>",
	Short: "Dial, handshake, and print an interface's method names",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(inspectCmd)
}

func runCall(cmd *cobra.Command, args []string) error {
	c, err := dialAndHandshake(transport, dialAddr, application, username, password)
	if err != nil {
		return err
	}
	defer c.Close()

	interfaceName, method := args[0], args[1]
	callArgs, err := parseArgs(args[2:])
	if err != nil {
		return fmt.Errorf("jstp-cli: parsing arguments: %w", err)
	}

	done := make(chan struct{})
	var callErr error
	var results []record.Value
	if err := c.Call(interfaceName, method, callArgs, func(err error, rs ...record.Value) {
		callErr, results = err, rs
		close(done)
	}); err != nil {
		return fmt.Errorf("jstp-cli: sending call: %w", err)
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		return fmt.Errorf("jstp-cli: call timed out")
	}

	if callErr != nil {
		return fmt.Errorf("jstp-cli: remote error: %w", callErr)
	}
	for _, r := range results {
		fmt.Println(record.Stringify(r))
	}
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	c, err := dialAndHandshake(transport, dialAddr, application, username, password)
	if err != nil {
		return err
	}
	defer c.Close()

	done := make(chan struct{})
	var inspectErr error
	var methods []string
	if err := c.Inspect(args[0], func(proxy *conn.RemoteProxy, err error) {
		inspectErr = err
		if proxy != nil {
			methods = proxy.Methods()
		}
		close(done)
	}); err != nil {
		return fmt.Errorf("jstp-cli: sending inspect: %w", err)
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		return fmt.Errorf("jstp-cli: inspect timed out")
	}

	if inspectErr != nil {
		return fmt.Errorf("jstp-cli: remote error: %w", inspectErr)
	}
	for _, m := range methods {
		fmt.Println(m)
	}
	return nil
}

// parseArgs parses each raw command-line token as a record literal
// (e.g. "2", "'hello'", "true") into a record.Value.
func parseArgs(raw []string) ([]record.Value, error) {
	out := make([]record.Value, len(raw))
	for i, s := range raw {
		v, err := record.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%q): %w", i, s, err)
		}
		out[i] = v
	}
	return out, nil
}
