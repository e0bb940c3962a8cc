// Package logger provides structured logging for kvshardd.
//
// This package wraps the standard library log/slog:
//
//   - logger.go: slog-backed logger construction and configuration
//   - context.go: Context-aware logging with request/trace IDs
//   - redact.go: Sensitive data redaction
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering
//   - Automatic sensitive data masking
//   - Context propagation for request tracing
package logger
