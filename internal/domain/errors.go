package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedInput matches every *DecodeError via errors.Is.
var ErrMalformedInput = errors.New("malformed input")

// ErrUnknownEndpoint is returned when an endpoint name is not one of the four
// AWDB families.
var ErrUnknownEndpoint = errors.New("unknown endpoint")

// DecodeError reports a document that does not match its endpoint schema.
// Document is the zero-based position of the document in the batch. Path is a
// JSON path into the document (e.g. "[2].data[0].stationElement.elementCode")
// when the failure is a missing required field or a bad value, and empty for
// syntax errors.
type DecodeError struct {
	Endpoint Endpoint
	Document int
	Path     string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decode %s document %d: %v", e.Endpoint, e.Document, e.Err)
	}
	return fmt.Sprintf("decode %s document %d at %s: %v", e.Endpoint, e.Document, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrMalformedInput, e.Err}
}

// fieldError is a validation failure at a path inside one document.
type fieldError struct {
	path string
	err  error
}

func (e *fieldError) Error() string { return e.path + ": " + e.err.Error() }

var errRequired = errors.New("required field missing")

func required(path string) error {
	return &fieldError{path: path, err: errRequired}
}
