package remote

import (
	"errors"
	"fmt"
)

var ErrUnauthorized = errors.New("unauthorized")

// StatusError reports a non-2xx response from the server.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http %d", e.Code)
	}
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}
