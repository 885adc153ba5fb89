// Package logger provides slog attribute helpers shared across the module.
//
// All helpers return an empty slog.Attr for zero inputs, which slog drops
// silently, so callers never guard against nil errors or empty ids:
//
//	log.Warn("session touch failed",
//		logger.SessionID(id),
//		logger.Error(err),
//	)
package logger
