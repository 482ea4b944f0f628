package orbit

import "math"

// Vec3 is a cartesian 3-vector.
type Vec3 [3]float64

// KHat is the reference-plane normal used for the node vector.
var KHat = Vec3{0, 0, 1}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v[0] * f, v[1] * f, v[2] * f}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Norm is computed with scaling so that finite vectors never overflow or
// underflow to a wrong magnitude.
func (v Vec3) Norm() float64 {
	return math.Hypot(math.Hypot(v[0], v[1]), v[2])
}

// Unit returns v divided by its norm. The zero vector yields NaN components.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	return Vec3{v[0] / n, v[1] / n, v[2] / n}
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) Slice() []float64 {
	return []float64{v[0], v[1], v[2]}
}
