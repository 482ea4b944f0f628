package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/coe/internal/config"
	"github.com/san-kum/coe/internal/orbit"
)

// Policy decides what a bad case does to the rest of the batch.
type Policy int

const (
	// FailFast stops scheduling after the first failing case.
	FailFast Policy = iota
	// SkipBad records the failure and keeps going.
	SkipBad
)

func (p Policy) String() string {
	if p == SkipBad {
		return "skip-bad"
	}
	return "fail-fast"
}

// CaseError ties a failure to the case that produced it.
type CaseError struct {
	Index int
	Name  string
	Err   error
}

func (e *CaseError) Error() string {
	return fmt.Sprintf("case %q: %v", e.Name, e.Err)
}

func (e *CaseError) Unwrap() error {
	return e.Err
}

// Outcome is the result of one case. Exactly one of Elements/Err is meaningful;
// Skipped marks cases never run because the batch was aborted.
type Outcome struct {
	Case     config.Resolved
	Elements orbit.Elements
	Err      error
	Skipped  bool
	Duration time.Duration
}

func (o Outcome) OK() bool {
	return o.Err == nil && !o.Skipped
}

// Runner maps cases through Validate and Compute in parallel.
type Runner struct {
	Workers    int
	Policy     Policy
	Strict     bool
	Tolerances *orbit.Tolerances
	Logger     *slog.Logger
	Metrics    *Metrics
}

func New(workers int, policy Policy) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{
		Workers: workers,
		Policy:  policy,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (r *Runner) computeOptions() []orbit.Option {
	opts := []orbit.Option{orbit.WithStrict(r.Strict), orbit.WithLogger(r.Logger)}
	if r.Tolerances != nil {
		opts = append(opts, orbit.WithTolerances(*r.Tolerances))
	}
	return opts
}

// Compute runs a single case.
func (r *Runner) Compute(c config.Resolved) (orbit.Elements, error) {
	sv, err := orbit.Validate(c.R, c.V, c.Mu)
	if err != nil {
		return orbit.Elements{}, err
	}
	return orbit.Compute(sv, r.computeOptions()...)
}

// Run processes every case and returns outcomes in input order. Under
// FailFast the returned error is the lowest-index *CaseError; under SkipBad
// the error is nil unless ctx was cancelled, and failures live in the
// outcomes.
func (r *Runner) Run(ctx context.Context, cases []config.Resolved) ([]Outcome, error) {
	outcomes := make([]Outcome, len(cases))
	for i, c := range cases {
		outcomes[i] = Outcome{Case: c, Skipped: true}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Workers)

	for i := range cases {
		if gctx.Err() != nil {
			break
		}
		idx := i
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			c := cases[idx]
			start := time.Now()
			el, err := r.Compute(c)
			elapsed := time.Since(start)

			outcomes[idx] = Outcome{Case: c, Elements: el, Err: err, Duration: elapsed}
			r.Metrics.observe(outcomes[idx])

			if err != nil {
				cerr := &CaseError{Index: c.Index, Name: c.Name, Err: err}
				outcomes[idx].Err = cerr
				if r.Policy == FailFast {
					r.Logger.Debug("case failed, aborting batch", "case", c.Name, "err", err)
					return cerr
				}
				r.Logger.Warn("skipping bad case", "case", c.Name, "err", err)
				return nil
			}
			r.Logger.Debug("case computed", "case", c.Name, "undefined", el.Undefined(), "took", elapsed)
			return nil
		})
	}

	waitErr := g.Wait()
	if err := ctx.Err(); err != nil {
		return outcomes, err
	}
	if waitErr == nil {
		return outcomes, nil
	}

	for _, o := range outcomes {
		var cerr *CaseError
		if errors.As(o.Err, &cerr) {
			return outcomes, cerr
		}
	}
	return outcomes, waitErr
}

// Failures returns the failed outcomes.
func Failures(outcomes []Outcome) []Outcome {
	var bad []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			bad = append(bad, o)
		}
	}
	return bad
}
