// Package applog wires up the process-wide structured logger. Every line
// is a JSON object on stdout with timestamp and message fields; event
// details are written as flat top-level fields prefixed data_ (for example
// data_address), not nested under a data object. The helpers follow the
// request/response-timing decorator logging_handler.h applies around
// request dispatch.
package applog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog.Logger writing JSON lines to stdout with its time
// and message fields named timestamp and message.
func New() zerolog.Logger {
	zerolog.TimestampFieldName = "timestamp"
	zerolog.MessageFieldName = "message"
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// ServerStarted logs the "server started" event with the listen address
// and port, mirroring LogStartServer in the original's logging_handler.h.
func ServerStarted(log zerolog.Logger, address string) {
	log.Info().Str("data_address", address).Msg("server started")
}

// ServerExited logs the "server exited" event with a process exit code.
func ServerExited(log zerolog.Logger, code int) {
	log.Info().Int("data_code", code).Msg("server exited")
}

// RequestReceived logs an inbound HTTP request before it is dispatched.
func RequestReceived(log zerolog.Logger, ip, uri, method string) {
	log.Info().
		Str("data_ip", ip).
		Str("data_uri", uri).
		Str("data_method", method).
		Msg("request received")
}

// ResponseSent logs the outcome of a dispatched HTTP request, including
// elapsed time, matching the duration the original's LoggingRequestHandler
// measures around the decorated handler call.
func ResponseSent(log zerolog.Logger, responseTime time.Duration, code int, contentType string) {
	log.Info().
		Int64("data_response_time_ms", responseTime.Milliseconds()).
		Int("data_code", code).
		Str("data_content_type", contentType).
		Msg("response sent")
}

// Error logs an unexpected error with its context.
func Error(log zerolog.Logger, where string, err error) {
	log.Error().
		Str("data_where", where).
		Err(err).
		Msg("error")
}
