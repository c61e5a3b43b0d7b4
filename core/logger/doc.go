// Package logger builds the zap loggers used across the service.
//
// Level selects the minimum enabled level; "debug" switches to zap's
// development preset with ISO8601 timestamps. Format picks json or console
// encoding.
//
// WithRayID tags a logger with the RayID of the current Fiber request, so every
// line logged while serving it can be correlated.
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "json"})
//	log.Info("Server started")
//
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
