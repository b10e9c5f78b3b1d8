// Package logging assembles the structured slog loggers used by hdrmeta.
//
// It owns the console and JSON handlers, level parsing and output routing
// (stderr plus an optional diagnostic file), and a small set of attribute
// helpers so components tag their lines with the same keys. A no-op logger
// is provided for tests and for library code called without one.
package logging
