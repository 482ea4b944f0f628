package viz

import (
	"errors"
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/coe/internal/orbit"
)

var ErrNoConic = errors.New("viz: conic cannot be plotted")

// openLimitFraction keeps open conics away from their asymptotes, where the
// radius diverges.
const openLimitFraction = 0.9

// ConicRadii samples r(ν) = p / (1 + e cos ν), p = h²/mu, over n points.
// Closed orbits cover [0, 360); hyperbolic ones stay inside the asymptotes.
// Parabolic results have no semi-major axis and are rejected. The sampled anomalies are returned in degrees.
func ConicRadii(el orbit.Elements, mu float64, n int) (nu, r []float64, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("%w: need at least 2 samples", ErrNoConic)
	}
	if mu <= 0 || el.SpecificAngularMomentum <= 0 {
		return nil, nil, fmt.Errorf("%w: no orbital plane", ErrNoConic)
	}
	if !el.SemiMajorAxis.IsDefined() {
		return nil, nil, fmt.Errorf("%w: semi-major axis is %s", ErrNoConic, el.SemiMajorAxis.Condition())
	}
	p := el.SpecificAngularMomentum * el.SpecificAngularMomentum / mu
	e := el.Eccentricity

	lo, hi := 0.0, 2*math.Pi
	closed := e < 1-orbit.ParabolicTol
	if !closed {
		limit := orbit.SafeAcos(-1/e) * openLimitFraction
		lo, hi = -limit, limit
	}

	nu = make([]float64, n)
	r = make([]float64, n)
	for i := 0; i < n; i++ {
		var theta float64
		if closed {
			theta = lo + (hi-lo)*float64(i)/float64(n)
		} else {
			theta = lo + (hi-lo)*float64(i)/float64(n-1)
		}
		nu[i] = orbit.NormalizeDegrees(orbit.Degrees(theta))
		r[i] = p / (1 + e*math.Cos(theta))
	}
	return nu, r, nil
}

// PlotConic draws the orbit radius over true anomaly. A positive bodyRadius
// adds a flat reference line for the central body's surface.
func PlotConic(el orbit.Elements, mu, bodyRadius float64, width, height int) (string, error) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 12
	}
	nu, r, err := ConicRadii(el, mu, width)
	if err != nil {
		return "", err
	}

	caption := fmt.Sprintf("radius (km) vs true anomaly, %.0f..%.0f deg", nu[0], nu[len(nu)-1])
	if x, ok := el.TrueAnomaly.Get(); ok {
		caption += fmt.Sprintf(", now at %.2f deg", x)
	}

	series := [][]float64{r}
	if bodyRadius > 0 {
		surface := make([]float64, len(r))
		for i := range surface {
			surface[i] = bodyRadius
		}
		series = append(series, surface)
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}
