// Package logging defines the structured-logging interface used across the
// server and the CLI.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// key/value pairs:
//
//	log.Info(ctx, "request served", "route", "/api/auth/register", "status", 201)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}
