package orbit

import (
	"io"
	"log/slog"
	"math"
)

type options struct {
	strict bool
	tol    Tolerances
	logger *slog.Logger
}

// Option configures a single Compute call.
type Option func(*options)

// WithStrict makes Compute fail with a *ComputationError instead of returning
// an undefined element.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

func WithTolerances(tol Tolerances) Option {
	return func(o *options) { o.tol = tol }
}

// WithLogger enables debug logging of degeneracy decisions.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Compute derives the Classical Orbital Elements of sv. sv must come from
// Validate (or satisfy its invariants).
//
// Elements without a geometric reference are returned as Undefined values:
// RAAN for equatorial orbits, argument of perigee for equatorial or circular
// orbits, true anomaly for circular orbits and semi-major axis for parabolic
// ones. With WithStrict(true) they are reported as a *ComputationError
// naming each of them. A rectilinear trajectory (|h| ≈ 0) is always an
// error, since it has no orbital plane and no inclination, and so is any
// element whose magnitude leaves float64 range (ErrOutOfRange).
func Compute(sv StateVector, opts ...Option) (Elements, error) {
	o := options{tol: DefaultTolerances(), logger: discard}
	for _, opt := range opts {
		opt(&o)
	}
	tol := o.tol.withDefaults()
	log := o.logger

	// Directions and magnitudes are kept apart so that finite inputs of any
	// scale stay inside float64 range.
	r, v, mu := sv.Position, sv.Velocity, sv.Mu
	rNorm := r.Norm()
	vNorm := v.Norm()
	if math.IsInf(rNorm, 0) || math.IsInf(vNorm, 0) {
		return Elements{}, &ComputationError{Element: KeyAngularMomentum, Condition: OutOfRange}
	}
	rHat, vHat := r.Unit(), v.Unit()
	cosRV := rHat.Dot(vHat)

	hDir := rHat.Cross(vHat)
	sinRV := hDir.Norm()
	if sinRV <= tol.AngularMomentum {
		log.Debug("rectilinear trajectory", "sin_rv", sinRV, "r", rNorm, "v", vNorm)
		return Elements{}, &ComputationError{Element: KeyInclination, Condition: Rectilinear}
	}
	hHat := hDir.Unit()
	hNorm := rNorm * vNorm * sinRV
	if hNorm == 0 || math.IsInf(hNorm, 0) {
		log.Debug("angular momentum out of range", "r", rNorm, "v", vNorm)
		return Elements{}, &ComputationError{Element: KeyAngularMomentum, Condition: OutOfRange}
	}

	// n is the node direction scaled by sin(i).
	n := KHat.Cross(hHat)
	nNorm := n.Norm()
	equatorial := nNorm < tol.Node

	// q = r v^2 / mu; e = (q - 1) r^ - q cos(r,v) v^
	q := rNorm / mu * vNorm * vNorm
	eVec := rHat.Scale(q - 1).Sub(vHat.Scale(q * cosRV))
	e := eVec.Norm()
	if math.IsNaN(e) || math.IsInf(e, 0) {
		return Elements{}, &ComputationError{Element: KeyEccentricity, Condition: OutOfRange}
	}
	circular := e < tol.Eccentricity

	el := Elements{
		SpecificAngularMomentum: hNorm,
		Eccentricity:            e,
		Inclination:             Degrees(acos(log, "inclination", hHat[2])),
	}

	if equatorial {
		log.Debug("equatorial orbit", "sin_i", nNorm, "inclination", el.Inclination)
		el.RAAN = Undefined(Equatorial)
	} else {
		raan := Degrees(acos(log, "raan", n[0]/nNorm))
		if n[1] < 0 {
			raan = 360 - raan
		}
		el.RAAN = Defined(NormalizeDegrees(raan))
	}

	switch {
	case circular:
		log.Debug("circular orbit", "eccentricity", e)
		el.ArgumentOfPerigee = Undefined(Circular)
	case equatorial:
		el.ArgumentOfPerigee = Undefined(Equatorial)
	default:
		argp := Degrees(acos(log, "argument_of_perigee", n.Dot(eVec)/(nNorm*e)))
		if eVec[2] < 0 {
			argp = 360 - argp
		}
		el.ArgumentOfPerigee = Defined(NormalizeDegrees(argp))
	}

	if circular {
		el.TrueAnomaly = Undefined(Circular)
	} else {
		nu := Degrees(acos(log, "true_anomaly", eVec.Dot(rHat)/e))
		if cosRV < 0 {
			nu = 360 - nu
		}
		el.TrueAnomaly = Defined(NormalizeDegrees(nu))
	}

	if math.Abs(e-1) < tol.Parabolic {
		log.Debug("parabolic orbit", "eccentricity", e)
		el.SemiMajorAxis = Undefined(Parabolic)
	} else {
		// a = 1/(2/r - v^2/mu)
		el.SemiMajorAxis = Defined(rNorm / (2 - q))
	}

	if k, bad := el.nonFinite(); bad {
		log.Debug("element out of range", "element", k)
		return Elements{}, &ComputationError{Element: k, Condition: OutOfRange}
	}

	if o.strict {
		return el.Strict()
	}
	return el, nil
}

// ComputeRaw validates raw input and computes its elements.
func ComputeRaw(position, velocity []float64, mu float64, opts ...Option) (Elements, error) {
	sv, err := Validate(position, velocity, mu)
	if err != nil {
		return Elements{}, err
	}
	return Compute(sv, opts...)
}

func acos(log *slog.Logger, what string, x float64) float64 {
	if AcosOvershoot(x) {
		log.Debug("cosine outside [-1, 1] beyond rounding", "element", what, "x", x)
	}
	return SafeAcos(x)
}
