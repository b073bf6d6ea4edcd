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

// Command jstp-cli is an interactive JSTP client: it dials a server,
// completes the handshake, and either issues a single call/inspect or
// drops into a REPL for repeated ad hoc calls and event subscriptions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dialAddr    string
	transport   string
	application string
	username    string
	password    string
)

var rootCmd = &cobra.Command{
	Use:   "jstp-cli",
	Short: "jstp-cli dials a JSTP server and issues calls interactively",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&dialAddr, "addr", "a", "127.0.0.1:4000", "server address to dial")
	rootCmd.PersistentFlags().StringVarP(&transport, "transport", "t", "tcp", "transport: tcp, tls, ws")
	rootCmd.PersistentFlags().StringVar(&application, "app", "jstp", "application name to handshake against")
	rootCmd.PersistentFlags().StringVarP(&username, "user", "u", "", "login strategy username (anonymous handshake if empty)")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", "", "login strategy password")
	// Commands are registered in their respective files:
	// - call.go: callCmd, inspectCmd
	// - repl.go: replCmd
}
