package exportapi

import "fmt"

// StatusError is returned for any non-2xx response from the export service.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	// Body holds at most the first 4 KiB of the response body.
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("export service %s %s: %s", e.Method, e.Path, e.Status)
}
