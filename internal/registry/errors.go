package registry

import "fmt"

// NotFoundError reports an id that is not in the registry.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// ConflictError reports a state that does not allow the requested change.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// ValidationError reports unusable input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Conflict reasons surfaced to API callers.
const (
	ReasonDriverNotAvailable = "Driver not available"
	ReasonTripCompleted      = "Trip already completed"
)
