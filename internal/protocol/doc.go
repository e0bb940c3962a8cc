// Package protocol implements the line-oriented text protocol clients
// speak over TCP: one command per line, whitespace-separated tokens,
// a short newline-terminated reply per command. Unrecognized lines are
// ignored without closing the connection.
package protocol
