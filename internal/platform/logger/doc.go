// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels. Error attributes pass through the redact package before
// they are written, and a request-scoped logger travels in the context so that every
// record emitted while serving a request carries its trace id.
package logger
