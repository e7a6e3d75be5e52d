// Package logging provides structured logging configuration for castlepact.
//
// This package wraps log/slog so every component logs the same way. It
// supports configurable log levels, text or JSON output, and an optional log
// file that receives a copy of everything written to stderr.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("rest server listening", "addr", ":8080")
//
// Components accept a *slog.Logger through an option and fall back to
// logging.Nop() when none is given.
package logging
