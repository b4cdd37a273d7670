// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different
// environments (development vs production) and two encodings: console for
// interactive CLI runs, json for pipelines that collect logs.
//
// # Run correlation
//
// A load run spans several phases (staging creation, bulk load,
// reconciliation, cleanup). WithRunID attaches a per-run identifier so all
// lines of one run can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log = logger.WithRunID(log)
//	log.Info("load started", zap.String("table", "products"))
package logger
