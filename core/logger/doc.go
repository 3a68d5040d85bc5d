// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and integrates with the Fiber operational API.
//
// # Context Awareness
//
// The WithRayID helper extracts the request RayID from a Fiber context and
// attaches it to the log entry, so all logs produced while handling a single
// operational request can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Pass started")
package logger
