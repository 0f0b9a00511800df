// Package logging builds the slog loggers used across sceneforge and the
// attribute helpers components attach to their records. Console output is a
// single line per record with flattened key=value pairs; JSON output is the
// standard slog JSON handler with normalized keys.
package logging
