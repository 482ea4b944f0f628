package orbit

import "math"

// Reference gravitational parameter (km^3/s^2).
const MuEarth = 398600.4418

// DefaultMu is used when a caller does not supply a gravitational parameter.
const DefaultMu = MuEarth

// Degeneracy thresholds. All comparisons in Compute go through these; they are
// exported so callers and tests can probe the boundaries.
const (
	// EccentricityTol: orbits with e below this are treated as circular.
	EccentricityTol = 1e-8

	// NodeTol is compared against |n|/|h|, which equals sin(i).
	NodeTol = 1e-10

	// ParabolicTol: |e-1| below this leaves the semi-major axis undefined.
	ParabolicTol = 1e-9

	// AngularMomentumTol is compared against |h|/(|r||v|), the sine of the
	// angle between position and velocity.
	AngularMomentumTol = 1e-10

	// AcosOvershootTol bounds how far past ±1 rounding can plausibly push a
	// cosine. SafeAcos clamps regardless; the bound is only used for reporting.
	AcosOvershootTol = 1e-9
)

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
)

// Tolerances groups the thresholds so a single computation can override them.
// Zero or negative fields take their default value.
type Tolerances struct {
	Eccentricity    float64
	Node            float64
	Parabolic       float64
	AngularMomentum float64
}

func DefaultTolerances() Tolerances {
	return Tolerances{
		Eccentricity:    EccentricityTol,
		Node:            NodeTol,
		Parabolic:       ParabolicTol,
		AngularMomentum: AngularMomentumTol,
	}
}

func (t Tolerances) withDefaults() Tolerances {
	d := DefaultTolerances()
	if !(t.Eccentricity > 0) {
		t.Eccentricity = d.Eccentricity
	}
	if !(t.Node > 0) {
		t.Node = d.Node
	}
	if !(t.Parabolic > 0) {
		t.Parabolic = d.Parabolic
	}
	if !(t.AngularMomentum > 0) {
		t.AngularMomentum = d.AngularMomentum
	}
	return t
}
