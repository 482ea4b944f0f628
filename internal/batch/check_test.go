package batch_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/coe/internal/batch"
	"github.com/san-kum/coe/internal/config"
	"github.com/san-kum/coe/internal/orbit"
)

func outcomeFor(c config.Resolved) batch.Outcome {
	el, err := orbit.ComputeRaw(c.R, c.V, c.Mu)
	Expect(err).NotTo(HaveOccurred())
	return batch.Outcome{Case: c, Elements: el}
}

var _ = Describe("Check", func() {
	It("passes within tolerance", func() {
		c := goodCase(0, "textbook")
		c.Tolerance = 0.01
		c.Expected = map[string]float64{
			"inclination":     87.87,
			"RAAN":            227.90,
			"e":               0.8329,
			"omega (deg)":     53.38,
			"nu":              92.34,
			"semi_major_axis": 36127.34,
		}
		Expect(batch.Check(outcomeFor(c))).To(BeEmpty())
	})

	It("reports values outside tolerance", func() {
		c := goodCase(0, "textbook")
		c.Tolerance = 1e-3
		c.Expected = map[string]float64{"inclination": 80}
		mismatches := batch.Check(outcomeFor(c))
		Expect(mismatches).To(HaveLen(1))
		Expect(mismatches[0].Key).To(Equal(orbit.KeyInclination))
		Expect(mismatches[0].String()).To(ContainSubstring("expected 80"))
	})

	It("treats NaN as expecting undefined", func() {
		c := circularCase(0)
		c.Tolerance = 1e-3
		c.Expected = map[string]float64{"raan": math.NaN(), "nu": math.NaN(), "e": 0}
		Expect(batch.Check(outcomeFor(c))).To(BeEmpty())

		c.Expected = map[string]float64{"true_anomaly": 10}
		mismatches := batch.Check(outcomeFor(c))
		Expect(mismatches).To(HaveLen(1))
		Expect(mismatches[0].String()).To(ContainSubstring("got undefined"))
	})

	It("flags unknown keys", func() {
		c := goodCase(0, "x")
		c.Expected = map[string]float64{"period": 1}
		mismatches := batch.Check(outcomeFor(c))
		Expect(mismatches).To(HaveLen(1))
		Expect(mismatches[0].Unknown).To(BeTrue())
	})

	DescribeTable("CanonicalKey",
		func(in, want string, ok bool) {
			got, found := batch.CanonicalKey(in)
			Expect(found).To(Equal(ok))
			Expect(got).To(Equal(want))
		},
		Entry("canonical", "eccentricity", orbit.KeyEccentricity, true),
		Entry("upper case", "RAAN", orbit.KeyRAAN, true),
		Entry("labelled", "a (km)", orbit.KeySemiMajorAxis, true),
		Entry("short", "i", orbit.KeyInclination, true),
		Entry("unknown", "period", "", false),
	)
})
