// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and integrates with the Fiber web framework.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches it
// to the log entry, so every line logged while serving a request can be
// correlated.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (machines) or console (terminals, the CLI default)
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("File uploaded", zap.String("bucket", bucket))
package logger
