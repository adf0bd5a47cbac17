package api

import (
	"errors"
	"fmt"
)

// ErrUnableToConnect marks transport-level failures: the request never
// completed, or the response body was not usable JSON.
var ErrUnableToConnect = errors.New("unable to connect")

// ServerError is a completed request the server rejected (non-2xx), or a
// 2xx response missing an expected field. Message holds the server's own
// `message` field when one was present.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error, status %d", e.StatusCode)
	}
	return fmt.Sprintf("server error, status %d: %s", e.StatusCode, e.Message)
}

// UserMessage extracts a message suitable for a one-shot user
// notification: the server's message for server failures, the given
// fallback otherwise.
func UserMessage(err error, fallback string) string {
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	if errors.Is(err, ErrUnableToConnect) {
		return "Unable to connect"
	}
	return fallback
}
