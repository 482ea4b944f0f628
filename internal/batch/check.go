package batch

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/coe/internal/orbit"
)

// aliases accepts the short and labelled key spellings used by older case
// files alongside the canonical result keys.
var aliases = map[string]string{
	"h":           orbit.KeyAngularMomentum,
	"h (km^2/s)":  orbit.KeyAngularMomentum,
	"i":           orbit.KeyInclination,
	"i (deg)":     orbit.KeyInclination,
	"raan (deg)":  orbit.KeyRAAN,
	"e":           orbit.KeyEccentricity,
	"omega":       orbit.KeyArgumentOfPerigee,
	"omega (deg)": orbit.KeyArgumentOfPerigee,
	"argp":        orbit.KeyArgumentOfPerigee,
	"nu":          orbit.KeyTrueAnomaly,
	"nu (deg)":    orbit.KeyTrueAnomaly,
	"a":           orbit.KeySemiMajorAxis,
	"a (km)":      orbit.KeySemiMajorAxis,
}

// CanonicalKey maps an expectation key to a result key.
func CanonicalKey(name string) (string, bool) {
	k := strings.ToLower(strings.TrimSpace(name))
	for _, key := range orbit.Keys {
		if k == key {
			return key, true
		}
	}
	key, ok := aliases[k]
	return key, ok
}

// Mismatch is one failed expectation.
type Mismatch struct {
	Key       string
	Expected  float64
	Got       orbit.Value
	Tolerance float64
	Unknown   bool
}

func (m Mismatch) String() string {
	if m.Unknown {
		return fmt.Sprintf("%s: unknown element", m.Key)
	}
	want := fmt.Sprintf("%v", m.Expected)
	if math.IsNaN(m.Expected) {
		want = "undefined"
	}
	got := "undefined"
	if v, ok := m.Got.Get(); ok {
		got = fmt.Sprintf("%.4f", v)
	}
	return fmt.Sprintf("%s: expected %s, got %s (tol=%v)", m.Key, want, got, m.Tolerance)
}

// Check compares an outcome against its case expectations using an absolute
// tolerance. An expected NaN means the element must be undefined.
func Check(o Outcome) []Mismatch {
	names := make([]string, 0, len(o.Case.Expected))
	for name := range o.Case.Expected {
		names = append(names, name)
	}
	sort.Strings(names)

	tol := o.Case.Tolerance
	var out []Mismatch
	for _, name := range names {
		want := o.Case.Expected[name]
		key, ok := CanonicalKey(name)
		if !ok {
			out = append(out, Mismatch{Key: name, Unknown: true})
			continue
		}
		got := o.Elements.Get(key)
		v, defined := got.Get()
		switch {
		case math.IsNaN(want) && !defined:
		case math.IsNaN(want) || !defined:
			out = append(out, Mismatch{Key: key, Expected: want, Got: got, Tolerance: tol})
		case math.Abs(v-want) > tol:
			out = append(out, Mismatch{Key: key, Expected: want, Got: got, Tolerance: tol})
		}
	}
	return out
}
