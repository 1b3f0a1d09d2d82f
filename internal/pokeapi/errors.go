package pokeapi

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned when the request URL cannot be constructed.
var ErrInvalidRequest = errors.New("invalid request")

// TransportError wraps a failure to complete the HTTP round trip.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError reports a response status outside [200, 300).
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// DecodeError reports a body that does not match the expected list shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrorKind classifies fetch failures for logs, metrics and API responses.
type ErrorKind string

const (
	KindNone           ErrorKind = ""
	KindInvalidRequest ErrorKind = "invalid_request"
	KindTransport      ErrorKind = "transport"
	KindServer         ErrorKind = "server"
	KindDecode         ErrorKind = "decode"
	KindUnknown        ErrorKind = "unknown"
)

// KindOf returns the kind of err and, for server errors, the HTTP status.
func KindOf(err error) (ErrorKind, int) {
	if err == nil {
		return KindNone, 0
	}

	var serverErr *ServerError
	var transportErr *TransportError
	var decodeErr *DecodeError
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest, 0
	case errors.As(err, &serverErr):
		return KindServer, serverErr.StatusCode
	case errors.As(err, &transportErr):
		return KindTransport, 0
	case errors.As(err, &decodeErr):
		return KindDecode, 0
	}
	return KindUnknown, 0
}
