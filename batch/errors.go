package batch

import (
	"fmt"

	"github.com/teranos/batchrest/errors"
)

var (
	// ErrUnresolvedTemplate marks a path placeholder without a value. The
	// request was never sent.
	ErrUnresolvedTemplate = errors.New("unresolved URI template")

	// ErrUnknownOperation marks an operation missing from the route table.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrTransport marks failures of the transport itself (connection,
	// TLS, timeout, cancellation). The original error stays in the chain.
	ErrTransport = errors.New("transport failure")

	// ErrDecode marks a successful response whose body could not be decoded.
	ErrDecode = errors.New("undecodable response")
)

// ServerError is a non-2xx response. Body holds the raw response body.
type ServerError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s %s: server returned status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// IsTemplateError reports errors raised before any request was sent.
func IsTemplateError(err error) bool {
	return err != nil && errors.IsAny(err, ErrUnresolvedTemplate, ErrUnknownOperation)
}

// IsTransportError reports connection-level failures.
func IsTransportError(err error) bool {
	return err != nil && errors.Is(err, ErrTransport)
}

// IsDecodeError reports responses that arrived but could not be read.
func IsDecodeError(err error) bool {
	return err != nil && errors.Is(err, ErrDecode)
}

// AsServerError extracts the *ServerError from err, if any.
func AsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
