// Package logging provides a structured logging system for aapmcp with
// unified log handling and level filtering.
//
// This package is built on Go's standard slog package. Every log entry
// carries a timestamp, a level, a subsystem identifier and a formatted
// message, plus an optional error.
//
// # Usage
//
//	import "aapmcp/pkg/logging"
//
//	// Initialize with Info level logging to stderr
//	logging.Init(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Bootstrap", "Application starting up")
//	logging.Debug("Controller", "Fetching page %d", page)
//	logging.Warn("Cache", "Serving stale templates")
//	logging.Error("Invoker", err, "Failed to launch template %d", id)
//
// # Subsystem Organization
//
// Logs are organized by subsystem to enable filtering:
//
//   - **Bootstrap**: application initialization and startup
//   - **Config**: configuration loading and validation
//   - **Controller**: outbound calls to the automation controller
//   - **Cache**: template cache population and refresh
//   - **Server**: MCP server lifecycle and tool synthesis
//   - **Invoker**: job launch, status and log retrieval
//
// # Output Discipline
//
// When the stdio MCP transport is active, stdout belongs to the protocol
// stream. All logging goes to the writer passed to Init, which the serve
// command sets to stderr.
//
// The logging system is fully thread-safe; concurrent logging from multiple
// goroutines is supported.
package logging
