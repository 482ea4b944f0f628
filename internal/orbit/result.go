package orbit

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Condition names the orbit shape that leaves an element without a geometric
// reference.
type Condition int

const (
	Regular Condition = iota
	Circular
	Equatorial
	Parabolic
	Rectilinear
	OutOfRange
)

func (c Condition) String() string {
	switch c {
	case Circular:
		return "near-circular"
	case Equatorial:
		return "near-equatorial"
	case Parabolic:
		return "near-parabolic"
	case Rectilinear:
		return "rectilinear"
	case OutOfRange:
		return "out of range"
	default:
		return "regular"
	}
}

func (c Condition) detail() string {
	switch c {
	case Circular:
		return "eccentricity ≈ 0, no perigee direction"
	case Equatorial:
		return "inclination ≈ 0 or 180, no ascending node"
	case Parabolic:
		return "eccentricity ≈ 1, semi-major axis is infinite"
	case Rectilinear:
		return "position and velocity are collinear"
	case OutOfRange:
		return "magnitudes exceed float64 range"
	default:
		return "no degeneracy"
	}
}

// Value is either a defined float64 or an absent marker carrying the reason.
// The zero Value is undefined with condition Regular.
type Value struct {
	v    float64
	ok   bool
	cond Condition
}

func Defined(v float64) Value {
	return Value{v: v, ok: true}
}

func Undefined(cond Condition) Value {
	return Value{cond: cond}
}

func (o Value) Get() (float64, bool) {
	return o.v, o.ok
}

func (o Value) IsDefined() bool { return o.ok }

// Condition is Regular for defined values.
func (o Value) Condition() Condition {
	if o.ok {
		return Regular
	}
	return o.cond
}

// Ptr returns nil for undefined values.
func (o Value) Ptr() *float64 {
	if !o.ok {
		return nil
	}
	v := o.v
	return &v
}

func (o Value) String() string {
	if !o.ok {
		return "undefined"
	}
	return strconv.FormatFloat(o.v, 'g', -1, 64)
}

func (o Value) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}

// MarshalYAML emits a plain float or null, never a tagged value.
func (o Value) MarshalYAML() (interface{}, error) {
	if !o.ok {
		return nil, nil
	}
	return o.v, nil
}

// Result keys, in presentation order.
const (
	KeyAngularMomentum   = "specific_angular_momentum"
	KeyInclination       = "inclination"
	KeyRAAN              = "raan"
	KeyEccentricity      = "eccentricity"
	KeyArgumentOfPerigee = "argument_of_perigee"
	KeyTrueAnomaly       = "true_anomaly"
	KeySemiMajorAxis     = "semi_major_axis"
)

var Keys = []string{
	KeyAngularMomentum,
	KeyInclination,
	KeyRAAN,
	KeyEccentricity,
	KeyArgumentOfPerigee,
	KeyTrueAnomaly,
	KeySemiMajorAxis,
}

// Units maps each key to its display unit. Eccentricity is dimensionless.
var Units = map[string]string{
	KeyAngularMomentum:   "km^2/s",
	KeyInclination:       "deg",
	KeyRAAN:              "deg",
	KeyEccentricity:      "",
	KeyArgumentOfPerigee: "deg",
	KeyTrueAnomaly:       "deg",
	KeySemiMajorAxis:     "km",
}

// Elements holds the Classical Orbital Elements derived from one state vector.
// Angles are in degrees, lengths in km.
type Elements struct {
	SpecificAngularMomentum float64 `json:"specific_angular_momentum" yaml:"specific_angular_momentum"`
	Inclination             float64 `json:"inclination" yaml:"inclination"`
	RAAN                    Value   `json:"raan" yaml:"raan"`
	Eccentricity            float64 `json:"eccentricity" yaml:"eccentricity"`
	ArgumentOfPerigee       Value   `json:"argument_of_perigee" yaml:"argument_of_perigee"`
	TrueAnomaly             Value   `json:"true_anomaly" yaml:"true_anomaly"`
	SemiMajorAxis           Value   `json:"semi_major_axis" yaml:"semi_major_axis"`
}

// Get returns the slot for key. Unknown keys yield an undefined Regular value.
func (e Elements) Get(key string) Value {
	switch key {
	case KeyAngularMomentum:
		return Defined(e.SpecificAngularMomentum)
	case KeyInclination:
		return Defined(e.Inclination)
	case KeyRAAN:
		return e.RAAN
	case KeyEccentricity:
		return Defined(e.Eccentricity)
	case KeyArgumentOfPerigee:
		return e.ArgumentOfPerigee
	case KeyTrueAnomaly:
		return e.TrueAnomaly
	case KeySemiMajorAxis:
		return e.SemiMajorAxis
	}
	return Value{}
}

// Map returns the mapping view: all seven keys, nil for absent values.
func (e Elements) Map() map[string]*float64 {
	m := make(map[string]*float64, len(Keys))
	for _, k := range Keys {
		m[k] = e.Get(k).Ptr()
	}
	return m
}

// Undefined lists the absent keys in Keys order.
func (e Elements) Undefined() []string {
	var keys []string
	for _, k := range Keys {
		if !e.Get(k).IsDefined() {
			keys = append(keys, k)
		}
	}
	return keys
}

// Strict returns e unchanged when every element is defined, otherwise a
// *ComputationError naming every absent element, the first one in Element.
func (e Elements) Strict() (Elements, error) {
	var absent []Absent
	for _, k := range Keys {
		if v := e.Get(k); !v.IsDefined() {
			absent = append(absent, Absent{Element: k, Condition: v.Condition()})
		}
	}
	if len(absent) == 0 {
		return e, nil
	}
	return Elements{}, &ComputationError{
		Element:   absent[0].Element,
		Condition: absent[0].Condition,
		Absent:    absent,
	}
}

// nonFinite returns the first defined element that is NaN or infinite.
func (e Elements) nonFinite() (string, bool) {
	for _, k := range Keys {
		if x, ok := e.Get(k).Get(); ok && (math.IsNaN(x) || math.IsInf(x, 0)) {
			return k, true
		}
	}
	return "", false
}

func (e Elements) String() string {
	return fmt.Sprintf("h=%v i=%v raan=%v e=%v argp=%v nu=%v a=%v",
		e.SpecificAngularMomentum, e.Inclination, e.RAAN, e.Eccentricity,
		e.ArgumentOfPerigee, e.TrueAnomaly, e.SemiMajorAxis)
}

// ElementsFromMap rebuilds Elements from the mapping view. Missing or nil
// entries become undefined; the Condition is not recoverable and is
// reported as Regular.
func ElementsFromMap(m map[string]*float64) Elements {
	get := func(k string) Value {
		if p := m[k]; p != nil {
			return Defined(*p)
		}
		return Value{}
	}
	scalar := func(k string) float64 {
		v, _ := get(k).Get()
		return v
	}
	return Elements{
		SpecificAngularMomentum: scalar(KeyAngularMomentum),
		Inclination:             scalar(KeyInclination),
		RAAN:                    get(KeyRAAN),
		Eccentricity:            scalar(KeyEccentricity),
		ArgumentOfPerigee:       get(KeyArgumentOfPerigee),
		TrueAnomaly:             get(KeyTrueAnomaly),
		SemiMajorAxis:           get(KeySemiMajorAxis),
	}
}
