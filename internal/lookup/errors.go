package lookup

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Resolve when no record matches the name.
var ErrNotFound = errors.New("player not found")

// LoadError means the lookup resource could not be read or was malformed.
// No partial store accompanies it.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load player profiles from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// AsLoadError attempts to unwrap err into a LoadError.
func AsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
