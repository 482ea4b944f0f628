package batch_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/coe/internal/batch"
	"github.com/san-kum/coe/internal/config"
	"github.com/san-kum/coe/internal/orbit"
)

var vCirc = math.Sqrt(orbit.MuEarth / 7000)

func goodCase(i int, name string) config.Resolved {
	return config.Resolved{
		Index: i,
		Name:  name,
		R:     []float64{6524.834, 6862.875, 6448.296},
		V:     []float64{4.901327, 5.533756, -1.976341},
		Mu:    orbit.MuEarth,
	}
}

func badCase(i int, name string) config.Resolved {
	return config.Resolved{
		Index: i,
		Name:  name,
		R:     []float64{7000, 0},
		V:     []float64{0, 7.5, 0},
		Mu:    orbit.MuEarth,
	}
}

func circularCase(i int) config.Resolved {
	return config.Resolved{
		Index: i,
		Name:  "circular",
		R:     []float64{7000, 0, 0},
		V:     []float64{0, vCirc, 0},
		Mu:    orbit.MuEarth,
	}
}

var _ = Describe("Runner", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with valid cases", func() {
		It("keeps input order", func() {
			cases := make([]config.Resolved, 50)
			for i := range cases {
				cases[i] = goodCase(i, "ok")
				cases[i].Mu = orbit.MuEarth * float64(i+1)
			}
			outcomes, err := batch.New(8, batch.FailFast).Run(ctx, cases)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes).To(HaveLen(50))
			for i, o := range outcomes {
				Expect(o.OK()).To(BeTrue())
				Expect(o.Case.Index).To(Equal(i))
				Expect(o.Case.Mu).To(Equal(orbit.MuEarth * float64(i+1)))
			}
		})

		It("matches a direct computation", func() {
			outcomes, err := batch.New(1, batch.FailFast).Run(ctx, []config.Resolved{goodCase(0, "a")})
			Expect(err).NotTo(HaveOccurred())
			direct, err := orbit.ComputeRaw(goodCase(0, "a").R, goodCase(0, "a").V, orbit.MuEarth)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes[0].Elements).To(Equal(direct))
		})

		It("defaults workers to the CPU count", func() {
			Expect(batch.New(0, batch.SkipBad).Workers).To(BeNumerically(">", 0))
		})
	})

	Context("with a malformed case", func() {
		var cases []config.Resolved

		BeforeEach(func() {
			cases = []config.Resolved{goodCase(0, "first"), badCase(1, "broken"), goodCase(2, "third")}
		})

		It("aborts under fail-fast", func() {
			outcomes, err := batch.New(1, batch.FailFast).Run(ctx, cases)
			Expect(err).To(HaveOccurred())

			var cerr *batch.CaseError
			Expect(errors.As(err, &cerr)).To(BeTrue())
			Expect(cerr.Name).To(Equal("broken"))
			Expect(cerr.Index).To(Equal(1))
			Expect(errors.Is(err, orbit.ErrInvalidInput)).To(BeTrue())

			Expect(outcomes[0].OK()).To(BeTrue())
			Expect(outcomes[2].OK()).To(BeFalse())
		})

		It("continues under skip-bad", func() {
			outcomes, err := batch.New(2, batch.SkipBad).Run(ctx, cases)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes[0].OK()).To(BeTrue())
			Expect(outcomes[1].OK()).To(BeFalse())
			Expect(outcomes[1].Skipped).To(BeFalse())
			Expect(outcomes[2].OK()).To(BeTrue())

			failures := batch.Failures(outcomes)
			Expect(failures).To(HaveLen(1))
			Expect(failures[0].Err.Error()).To(ContainSubstring("broken"))
		})
	})

	Context("strict mode", func() {
		It("turns undefined elements into failures", func() {
			r := batch.New(1, batch.SkipBad)
			r.Strict = true
			outcomes, err := r.Run(ctx, []config.Resolved{circularCase(0), goodCase(1, "ok")})
			Expect(err).NotTo(HaveOccurred())
			Expect(errors.Is(outcomes[0].Err, orbit.ErrUndefinedElement)).To(BeTrue())
			Expect(outcomes[1].OK()).To(BeTrue())
		})

		It("leaves them undefined otherwise", func() {
			outcomes, err := batch.New(1, batch.FailFast).Run(ctx, []config.Resolved{circularCase(0)})
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes[0].Elements.Undefined()).To(ConsistOf(orbit.KeyRAAN, orbit.KeyArgumentOfPerigee, orbit.KeyTrueAnomaly))
		})
	})

	Context("custom tolerances", func() {
		It("are passed to the engine", func() {
			tol := orbit.DefaultTolerances()
			tol.Eccentricity = 0.9
			r := batch.New(1, batch.FailFast)
			r.Tolerances = &tol
			outcomes, err := r.Run(ctx, []config.Resolved{goodCase(0, "loose")})
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes[0].Elements.TrueAnomaly.Condition()).To(Equal(orbit.Circular))
		})
	})

	It("stops when the context is cancelled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		outcomes, err := batch.New(2, batch.SkipBad).Run(cctx, []config.Resolved{goodCase(0, "a"), goodCase(1, "b")})
		Expect(err).To(MatchError(context.Canceled))
		for _, o := range outcomes {
			Expect(o.Skipped).To(BeTrue())
		}
	})
})
