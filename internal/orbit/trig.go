package orbit

import "math"

// SafeAcos returns the arccosine of x after clamping x to [-1, 1].
//
// Dot-product and normalization chains can land a few ULPs outside the
// domain; those inputs map to 0 or π instead of NaN. The clamp is
// unconditional: SafeAcos never fails. Use AcosOvershoot to detect inputs that
// are further out than rounding explains.
func SafeAcos(x float64) float64 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return math.Acos(x)
}

// AcosOvershoot reports whether x lies beyond ±(1 + AcosOvershootTol).
func AcosOvershoot(x float64) bool {
	return math.Abs(x) > 1+AcosOvershootTol
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * rad2deg
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * deg2rad
}

// NormalizeDegrees maps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}
