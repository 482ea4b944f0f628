package batch_test

import (
	"bytes"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/coe/internal/batch"
	"github.com/san-kum/coe/internal/config"
)

var _ = Describe("Metrics", func() {
	It("counts results and undefined elements", func() {
		m := batch.NewMetrics()
		r := batch.New(2, batch.SkipBad)
		r.Metrics = m

		cases := []config.Resolved{goodCase(0, "a"), goodCase(1, "b"), badCase(2, "c"), circularCase(3)}
		_, err := r.Run(context.Background(), cases)
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		Expect(m.WriteText(&buf)).To(Succeed())
		out := buf.String()
		Expect(out).To(ContainSubstring(`coe_cases_total{result="ok"} 3`))
		Expect(out).To(ContainSubstring(`coe_cases_total{result="invalid"} 1`))
		Expect(out).To(ContainSubstring(`coe_undefined_elements_total{condition="near-circular",element="true_anomaly"} 1`))
		Expect(out).To(ContainSubstring(`coe_undefined_elements_total{condition="near-equatorial",element="raan"} 1`))
		Expect(out).To(ContainSubstring("coe_compute_duration_seconds_count 4"))
	})

	It("is optional", func() {
		_, err := batch.New(1, batch.FailFast).Run(context.Background(), []config.Resolved{goodCase(0, "a")})
		Expect(err).NotTo(HaveOccurred())
	})
})
