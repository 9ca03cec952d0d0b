package registration

import (
	"errors"

	"github.com/alem-hub/course-registration/internal/domain/shared"
)

// Outcome classifies the result of an enroll or drop request.
// It is a normal return value, not a failure of the registry.
type Outcome int

const (
	// OutcomeSuccess means the edge was created or removed on both sides.
	OutcomeSuccess Outcome = iota
	// OutcomeNotFound means the student id or the course code is unknown.
	OutcomeNotFound
	// OutcomeFull means the course had no free seat.
	OutcomeFull
	// OutcomeAlreadyEnrolled means the student already holds the course.
	OutcomeAlreadyEnrolled
	// OutcomeNotEnrolled means a drop was requested for a course the student does not hold.
	OutcomeNotEnrolled
)

// String returns the snake_case name used in logs and events.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFull:
		return "full"
	case OutcomeAlreadyEnrolled:
		return "already_enrolled"
	case OutcomeNotEnrolled:
		return "not_enrolled"
	default:
		return "unknown"
	}
}

// IsSuccess reports whether the request changed state.
func (o Outcome) IsSuccess() bool {
	return o == OutcomeSuccess
}

// outcomeOf maps an entity-level reason to an Outcome.
func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, shared.ErrAlreadyEnrolled):
		return OutcomeAlreadyEnrolled
	case errors.Is(err, shared.ErrNotEnrolled):
		return OutcomeNotEnrolled
	case shared.IsCapacityExceeded(err):
		return OutcomeFull
	case shared.IsNotFound(err):
		return OutcomeNotFound
	default:
		return OutcomeNotEnrolled
	}
}
