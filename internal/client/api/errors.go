package api

import (
	"errors"
	"fmt"
)

// ErrUnavailable reports that the server could not be reached at all.
var ErrUnavailable = errors.New("server unavailable")

// Error is a server-reported failure that maps to no sentinel.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}
