package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeArgument indicates a malformed or ambiguous resolution request.
	ErrCodeArgument ErrorCode = "ARGUMENT"
	// ErrCodeType indicates an unsupported value type supplied as source or data.
	ErrCodeType ErrorCode = "TYPE"
	// ErrCodeEncoding indicates a host that cannot be IDNA-encoded or a
	// payload the declared encoding cannot handle.
	ErrCodeEncoding ErrorCode = "ENCODING"
	// ErrCodeNotSupported indicates a write on a read-only stream.
	ErrCodeNotSupported ErrorCode = "NOT_SUPPORTED"
	// ErrCodeHTTP indicates a non-success HTTP response.
	ErrCodeHTTP ErrorCode = "HTTP"
	// ErrCodeIO indicates a filesystem or network failure.
	ErrCodeIO ErrorCode = "IO"
	// ErrCodeUnsupportedFormat indicates an unsupported RDF format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeInvalidTriple indicates a structurally invalid triple.
	ErrCodeInvalidTriple ErrorCode = "INVALID_TRIPLE"
	// ErrCodeParse indicates a general parse error.
	ErrCodeParse ErrorCode = "PARSE_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
)

var (
	// ErrSourceArguments indicates that not exactly one of source,
	// location, file and data was supplied to the resolver.
	ErrSourceArguments = errors.New("rdf: exactly one of source, location, file or data must be given")
	// ErrSourceType indicates an unsupported value type for source or data.
	ErrSourceType = errors.New("rdf: unsupported source type")
	// ErrEncoding indicates an encoding failure (IDNA host or payload charset).
	ErrEncoding = errors.New("rdf: encoding failure")
	// ErrReadOnly indicates a write on a stream produced by this package.
	ErrReadOnly = errors.New("rdf: stream is read-only")
	// ErrUnsupportedFormat indicates an unsupported RDF format.
	ErrUnsupportedFormat = errors.New("rdf: unsupported format")
	// ErrInvalidTriple indicates a triple violating the RDF data model.
	ErrInvalidTriple = errors.New("rdf: invalid triple")
)

// HTTPError reports a non-success HTTP response during negotiation.
type HTTPError struct {
	// URL is the request URL that produced the response.
	URL string
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the HTTP status line.
	Status string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("rdf: http %s fetching %s", e.Status, e.URL)
}

// ResolveError wraps a failure to resolve a location, keeping the
// attempted location for diagnosis.
type ResolveError struct {
	// Location is the location that was being resolved.
	Location string
	// Err is the underlying error.
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("rdf: resolving %q: %v", e.Location, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Code returns the error code for an error, or ErrCodeParse if unknown.
// Returns empty string for nil errors or io.EOF (which is not an error
// condition).
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrSourceArguments):
		return ErrCodeArgument
	case errors.Is(err, ErrSourceType):
		return ErrCodeType
	case errors.Is(err, ErrEncoding):
		return ErrCodeEncoding
	case errors.Is(err, ErrReadOnly):
		return ErrCodeNotSupported
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrInvalidTriple):
		return ErrCodeInvalidTriple
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return ErrCodeHTTP
	}

	var resolveErr *ResolveError
	if errors.As(err, &resolveErr) {
		// Classify by the underlying failure when it is more specific.
		if code := Code(resolveErr.Err); code != "" && code != ErrCodeParse {
			return code
		}
		return ErrCodeIO
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeContextCanceled
	}

	return ErrCodeParse
}
