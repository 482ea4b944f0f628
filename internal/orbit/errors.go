package orbit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput is matched by every *InputValidationError.
	ErrInvalidInput = errors.New("orbit: invalid state vector")

	// ErrUndefinedElement is matched by a *ComputationError raised in strict mode.
	ErrUndefinedElement = errors.New("orbit: element undefined for this orbit")

	// ErrRectilinear indicates position and velocity are collinear, so the
	// angular momentum vanishes and the orbital plane is undefined.
	ErrRectilinear = errors.New("orbit: rectilinear trajectory (zero angular momentum)")

	// ErrOutOfRange indicates finite inputs whose elements cannot be
	// represented in float64.
	ErrOutOfRange = errors.New("orbit: elements out of float64 range")
)

// ValidationRule identifies which input check failed.
type ValidationRule string

const (
	RuleLength     ValidationRule = "must have exactly 3 components"
	RuleFinite     ValidationRule = "must contain only finite numbers"
	RuleZeroVector ValidationRule = "must not be the zero vector"
	RulePositiveMu ValidationRule = "must be strictly positive"
	RuleFiniteMu   ValidationRule = "must be finite"
)

// InputValidationError is returned by Validate for malformed inputs.
type InputValidationError struct {
	Field string         // "position", "velocity" or "mu"
	Rule  ValidationRule // violated rule
	Index int            // offending component, -1 when not applicable
	Value float64        // offending value when meaningful
}

func (e *InputValidationError) Error() string {
	switch {
	case e.Rule == RuleLength:
		return fmt.Sprintf("orbit: %s %s (got %d)", e.Field, e.Rule, int(e.Value))
	case e.Index >= 0:
		return fmt.Sprintf("orbit: %s %s (component %d is %v)", e.Field, e.Rule, e.Index, e.Value)
	case e.Field == "mu":
		return fmt.Sprintf("orbit: mu %s (got %v)", e.Rule, e.Value)
	default:
		return fmt.Sprintf("orbit: %s %s", e.Field, e.Rule)
	}
}

func (e *InputValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Absent is one element left without a value and the reason.
type Absent struct {
	Element   string
	Condition Condition
}

// ComputationError names the element that could not be produced and the
// orbit shape responsible. In strict mode Absent lists every missing
// element, starting with Element.
type ComputationError struct {
	Element   string
	Condition Condition
	Absent    []Absent
}

func (e *ComputationError) Error() string {
	msg := fmt.Sprintf("orbit: %s is undefined: orbit is %s (%s)", e.Element, e.Condition, e.Condition.detail())
	if len(e.Absent) > 1 {
		also := make([]string, 0, len(e.Absent)-1)
		for _, a := range e.Absent[1:] {
			also = append(also, fmt.Sprintf("%s (%s)", a.Element, a.Condition))
		}
		msg += "; also undefined: " + strings.Join(also, ", ")
	}
	return msg
}

// Elements returns the names of every undefined element.
func (e *ComputationError) Elements() []string {
	if len(e.Absent) == 0 {
		return []string{e.Element}
	}
	names := make([]string, len(e.Absent))
	for i, a := range e.Absent {
		names[i] = a.Element
	}
	return names
}

func (e *ComputationError) Is(target error) bool {
	switch e.Condition {
	case Rectilinear:
		return target == ErrRectilinear || target == ErrUndefinedElement
	case OutOfRange:
		return target == ErrOutOfRange
	default:
		return target == ErrUndefinedElement
	}
}
