// Package logger provides structured logging for the sfpl client and CLI.
//
// It wraps zerolog behind the Logger interface so library packages never
// depend on a concrete backend:
//
//	cfg := &config.LoggingConfig{Level: "debug", File: "/tmp/sfpl.log"}
//	if err := logger.Initialize(cfg); err != nil {
//	    return err
//	}
//	logger.WithField("barcode", "2122...").Info("logged in")
//
// Console output is colored and goes to stderr. When File is set, JSON
// lines are appended to it as well.
package logger
