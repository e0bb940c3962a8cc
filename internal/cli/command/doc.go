// Package command provides CLI command definitions for kvshard-cli.
//
// It uses urfave/cli/v2 for command parsing: one subcommand per store
// operation (get, set, setex, del, ex, expire, ttl, ping), each dialing
// the server fresh over the line protocol in internal/cli/connection.
package command
