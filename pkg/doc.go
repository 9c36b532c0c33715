// Package pkg provides shared utilities for the usbdesc descriptor generator.
//
// This package contains common functionality used by the descriptor core,
// the schema layer and the usbgen command, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel errors for encoding and schema failures
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] with a component attribute:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogDebug(pkg.ComponentRender, "resolved container", "type", 0x02, "total", 32)
//
// # Errors
//
// Encoder failures are returned as [*FieldError] values that name the
// field label and the offending value, and wrap one of the sentinels:
//
//	if errors.Is(err, pkg.ErrRange) {
//	    // value did not fit its field width
//	}
package pkg
