package lang

import (
	"errors"
	"fmt"
)

// ErrResourceUnavailable reports that an n-gram or frequency corpus could not
// be read or parsed. Match it with errors.Is.
var ErrResourceUnavailable = errors.New("language resource unavailable")

// ResourceError carries the language and resource that failed to load.
type ResourceError struct {
	Language string
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("%s: language %q: %v", ErrResourceUnavailable, e.Language, e.Err)
	}
	return fmt.Sprintf("%s: language %q resource %q: %v", ErrResourceUnavailable, e.Language, e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// Is makes every ResourceError match ErrResourceUnavailable.
func (e *ResourceError) Is(target error) bool { return target == ErrResourceUnavailable }
