package artifact

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by sources when the name is not known to them.
var ErrNotFound = errors.New("artifact not found")

// MalformedLocationError is returned when a source location is not a
// well-formed addressable location.
type MalformedLocationError struct {
	// Location is the offending location, as given.
	Location string
	// Err is the underlying parse error, if any.
	Err error
}

func (e *MalformedLocationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed source location %q", e.Location)
	}
	return fmt.Sprintf("malformed source location %q: %v", e.Location, e.Err)
}

func (e *MalformedLocationError) Unwrap() error {
	return e.Err
}

func notFound(name string, src Source) error {
	return fmt.Errorf("%s in %s: %w", name, src, ErrNotFound)
}
