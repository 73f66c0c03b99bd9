package weather

import (
	"fmt"
	"net/http"
)

// UpstreamError reports a failed call to the archive API. StatusCode is the
// upstream status when one was received, otherwise 500.
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status to surface to the caller.
func (e *UpstreamError) Status() int {
	if e.StatusCode == 0 {
		return http.StatusInternalServerError
	}
	return e.StatusCode
}

// SchemaError reports an archive response missing an expected field.
type SchemaError struct {
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("Unexpected weather API response format, %s field not present", e.Field)
}

// NotFoundError reports a stored file that does not exist.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return e.Name + " does not exist"
}
