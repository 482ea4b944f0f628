package orbit

import "math"

// StateVector is a validated position (km), velocity (km/s) and
// gravitational parameter (km^3/s^2).
type StateVector struct {
	Position Vec3
	Velocity Vec3
	Mu       float64
}

// Validate checks raw caller input and builds a StateVector. mu is optional;
// when omitted DefaultMu is used. Checks run position, velocity, then mu, and
// the first violation is returned as an *InputValidationError.
func Validate(position, velocity []float64, mu ...float64) (StateVector, error) {
	r, err := validateVector("position", position)
	if err != nil {
		return StateVector{}, err
	}
	v, err := validateVector("velocity", velocity)
	if err != nil {
		return StateVector{}, err
	}

	m := DefaultMu
	if len(mu) > 0 {
		m = mu[0]
	}
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return StateVector{}, &InputValidationError{Field: "mu", Rule: RuleFiniteMu, Index: -1, Value: m}
	}
	if m <= 0 {
		return StateVector{}, &InputValidationError{Field: "mu", Rule: RulePositiveMu, Index: -1, Value: m}
	}

	return StateVector{Position: r, Velocity: v, Mu: m}, nil
}

func validateVector(field string, xs []float64) (Vec3, error) {
	if len(xs) != 3 {
		return Vec3{}, &InputValidationError{Field: field, Rule: RuleLength, Index: -1, Value: float64(len(xs))}
	}
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Vec3{}, &InputValidationError{Field: field, Rule: RuleFinite, Index: i, Value: x}
		}
	}
	v := Vec3{xs[0], xs[1], xs[2]}
	if v.Norm() == 0 {
		return Vec3{}, &InputValidationError{Field: field, Rule: RuleZeroVector, Index: -1}
	}
	return v, nil
}

// Validate re-checks an already constructed StateVector, for callers that
// build one directly instead of going through the package-level Validate.
func (sv StateVector) Validate() error {
	_, err := Validate(sv.Position.Slice(), sv.Velocity.Slice(), sv.Mu)
	return err
}
