// Package log builds the [log/slog] handler used by the CLI.
package log
