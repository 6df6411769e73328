// Package logging sets up the JSON slog logger used by expgen.
//
// The CLI installs it once flags are parsed, with the level taken from
// --log-level or the LOG_LEVEL environment variable:
//
//	logging.SetDefaultStructuredLoggerWithLevel("expgen", version, level)
//
// Records go to stderr so candidate output on stdout stays machine readable.
// Every record carries module and version attributes. Level names are
// case-insensitive (debug, info, warn, error) and anything else means info.
// At debug level records also include their source location.
package logging
