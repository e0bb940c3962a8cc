// Package connection provides connection management for kvshard-cli.
//
// This package manages the client's connection to a kvshardd instance:
//
//   - manager.go: Connection profile state and lifecycle
//   - tcp.go: Line-protocol TCP client
//
// Features:
//
//   - A single connection profile per Manager
//   - Automatic connection on first command
package connection
