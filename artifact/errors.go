package artifact

import "fmt"

// UnresolvedReferenceError reports an input artifact reference that is not a
// declared project dependency. Input artifacts are never fetched remotely, so
// the fix is always to declare the dependency.
type UnresolvedReferenceError struct {
	Reference string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("no artifact was found matching %s, please update your project dependencies", e.Reference)
}

// ResolutionError reports a coordinate that could not be turned into a file.
type ResolutionError struct {
	Coordinate   string
	Repositories Repositories
	Err          error
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("cannot resolve artifact %s", e.Coordinate)
	if len(e.Repositories) > 0 {
		msg += " from " + e.Repositories.String()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() error { return e.Err }
