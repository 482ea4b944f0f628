package batch

import (
	"errors"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/san-kum/coe/internal/orbit"
)

// Metrics counts batch results on a private registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry  *prometheus.Registry
	cases     *prometheus.CounterVec
	undefined *prometheus.CounterVec
	duration  prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coe",
			Name:      "cases_total",
			Help:      "State vectors processed, by result.",
		}, []string{"result"}),
		undefined: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coe",
			Name:      "undefined_elements_total",
			Help:      "Elements left undefined, by element and orbit condition.",
		}, []string{"element", "condition"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coe",
			Name:      "compute_duration_seconds",
			Help:      "Time spent validating and computing one case.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10),
		}),
	}
	m.registry.MustRegister(m.cases, m.undefined, m.duration)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Result labels for coe_cases_total.
const (
	ResultOK          = "ok"
	ResultInvalid     = "invalid"
	ResultUndefined   = "undefined"
	ResultRectilinear = "rectilinear"
	ResultError       = "error"
)

func resultLabel(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, orbit.ErrInvalidInput):
		return ResultInvalid
	case errors.Is(err, orbit.ErrRectilinear):
		return ResultRectilinear
	case errors.Is(err, orbit.ErrUndefinedElement):
		return ResultUndefined
	default:
		return ResultError
	}
}

func (m *Metrics) observe(o Outcome) {
	if m == nil {
		return
	}
	m.cases.WithLabelValues(resultLabel(o.Err)).Inc()
	m.duration.Observe(o.Duration.Seconds())
	if o.Err != nil {
		return
	}
	for _, k := range o.Elements.Undefined() {
		m.undefined.WithLabelValues(k, o.Elements.Get(k).Condition().String()).Inc()
	}
}

// WriteText writes the registry in the Prometheus text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
