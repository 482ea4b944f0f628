package config

import (
	"sort"
	"strings"
)

// Body is a central body with its gravitational parameter (km^3/s^2) and
// equatorial radius (km).
type Body struct {
	Name   string
	Mu     float64
	Radius float64
}

var Bodies = map[string]Body{
	"sun":     {Name: "sun", Mu: 1.32712440018e11, Radius: 695700},
	"mercury": {Name: "mercury", Mu: 22032.09, Radius: 2439.7},
	"venus":   {Name: "venus", Mu: 324858.592, Radius: 6051.8},
	"earth":   {Name: "earth", Mu: 398600.4418, Radius: 6378.137},
	"moon":    {Name: "moon", Mu: 4902.800066, Radius: 1737.4},
	"mars":    {Name: "mars", Mu: 42828.37, Radius: 3396.19},
	"jupiter": {Name: "jupiter", Mu: 126686534, Radius: 71492},
	"saturn":  {Name: "saturn", Mu: 37931187, Radius: 60268},
	"uranus":  {Name: "uranus", Mu: 5793939, Radius: 25559},
	"neptune": {Name: "neptune", Mu: 6836529, Radius: 24764},
	"pluto":   {Name: "pluto", Mu: 871, Radius: 1188.3},
}

// GetBody looks a body up by case-insensitive name.
func GetBody(name string) (Body, bool) {
	b, ok := Bodies[strings.ToLower(strings.TrimSpace(name))]
	return b, ok
}

// ListBodies returns body names sorted by mu, smallest first.
func ListBodies() []string {
	names := make([]string, 0, len(Bodies))
	for name := range Bodies {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return Bodies[names[i]].Mu < Bodies[names[j]].Mu
	})
	return names
}

// BodyForMu returns the body whose mu matches exactly, if any.
func BodyForMu(mu float64) (Body, bool) {
	for _, b := range Bodies {
		if b.Mu == mu {
			return b, true
		}
	}
	return Body{}, false
}
