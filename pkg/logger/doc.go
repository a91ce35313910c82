// Package logger provides slog attribute helpers shared across purchasekit packages.
//
// The helpers keep attribute keys consistent ("error", "component", "request_id",
// "code", "path") so log records emitted by the transport, the purchase flow, and the
// panel client can be correlated without per-package key conventions.
//
// Usage:
//
//	log.InfoContext(ctx, "quote refreshed",
//		logger.Component("purchase"),
//		logger.RequestID(reqID),
//	)
package logger
