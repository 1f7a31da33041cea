package client

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned %d", e.Code)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Body)
}

// TransportError means the request never produced an HTTP answer.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// Class groups backend failures by how the UI reacts to them.
type Class int

const (
	ClassNone Class = iota
	ClassTransport
	ClassUnauthenticated
	ClassRejected
	ClassServer
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassTransport:
		return "transport"
	case ClassUnauthenticated:
		return "unauthenticated"
	case ClassRejected:
		return "rejected"
	default:
		return "server"
	}
}

// Classify maps err onto the single status-to-UI table used by every flow.
func Classify(err error) Class {
	if err == nil {
		return ClassNone
	}
	var te *TransportError
	if errors.As(err, &te) {
		return ClassTransport
	}
	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.Code == http.StatusUnauthorized, se.Code == http.StatusForbidden, se.Code == http.StatusNotFound:
			return ClassUnauthenticated
		case se.Code >= 400 && se.Code < 500:
			return ClassRejected
		}
	}
	return ClassServer
}
