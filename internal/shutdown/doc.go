// Package shutdown provides graceful shutdown for kvshardd.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Timeout-based forced shutdown
//   - Cleanup callback registration
//   - Shutdown coordination
//
// Usage:
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return srv.Close() })
//	err := h.Wait() // blocks for a signal, then runs hooks in reverse order
package shutdown
