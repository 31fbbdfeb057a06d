// Package log provides structured logging for the PostText toolchain.
//
// Package: log
// Title: PostText Structured Logging
// Description: Leveled, structured logging with immutable derived loggers,
//              several output formats and integration with the foundation
//              error type. The parser, the printer and the build pipeline log
//              through this package.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-09-28
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-09-28 v0.2.0: Removed async buffering and request context, sorted field output
//
// Usage:
//
//	import mdwlog "github.com/msto63/posttext/foundation/core/log"
//
//	logger := mdwlog.NewWithConfig(mdwlog.Config{
//		Level:  mdwlog.LevelDebug,
//		Format: mdwlog.FormatText,
//		Name:   "posttext",
//	}).WithField("component", "printer")
//
//	logger.Info("render started", mdwlog.Fields{"render_id": id})
//
//	timer := logger.StartTimer("preload")
//	// ...
//	timer.Stop()
package log
