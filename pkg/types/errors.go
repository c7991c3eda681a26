// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// Error kinds returned by the catalog client. Match them with errors.Is.
var (
	// ErrInvalidArgument is returned for a non-numeric id or barcode, or
	// when mutually exclusive inputs are combined. Never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when the server has no data for the key.
	ErrNotFound = errors.New("not found")

	// ErrParse is returned when a response body cannot be interpreted as
	// the expected format at all.
	ErrParse = errors.New("parse error")

	// ErrServer is returned for transport failures, including exhausted
	// rate-limit retries.
	ErrServer = errors.New("server error")

	// ErrDataIntegrity is returned when the server's answers contradict each
	// other, e.g. a barcode search whose holdings lack that barcode.
	ErrDataIntegrity = errors.New("data integrity error")
)

// ServerError describes a failed request to a catalog endpoint.
type ServerError struct {
	Endpoint string
	Err      error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("problem contacting %s: %v", e.Endpoint, e.Err)
}

func (e *ServerError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrServer) true for every ServerError.
func (e *ServerError) Is(target error) bool { return target == ErrServer }

// ParseError describes a payload that could not be interpreted.
type ParseError struct {
	// Format names the expected format, e.g. "MARC XML" or "holdings JSON".
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed %s", e.Format)
	}
	return fmt.Sprintf("malformed %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrParse) true for every ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
