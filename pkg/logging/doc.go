// Package logging configures the slog JSON logger shared by cropwise and
// cropwised.
//
// Every record goes to stderr as one JSON object carrying the binary name
// ("module") and build version:
//
//	{"time":"2025-06-01T06:12:09Z","level":"WARN","msg":"weather lookup failed, using normals",
//	 "module":"cropwised","version":"v0.3.1","location":"Erode","code":"UPSTREAM_DATA_UNAVAILABLE"}
//
// Level names are case-insensitive: debug, info, warn (or warning) and
// error. Anything else means info. At debug level records also carry the
// source location of the call.
//
// Binaries install the logger once at startup:
//
//	logging.SetDefaultStructuredLoggerWithLevel("cropwised", version, cfg.Log.Level)
//
// and packages log through slog directly. SetDefaultStructuredLogger reads
// the level from LOG_LEVEL instead:
//
//	LOG_LEVEL=debug cropwise recommend --location Erode --n 90 --p 42 --k 43
//
// NewLogLogger adapts the current default to a *log.Logger for libraries
// that only accept the standard logger.
package logging
