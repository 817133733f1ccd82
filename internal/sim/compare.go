package sim

import (
	"context"
	"runtime"
	"time"

	"github.com/san-kum/ltikit/internal/discretize"
	"github.com/san-kum/ltikit/internal/lti"
	"golang.org/x/sync/errgroup"
)

// Builder returns a fresh model and controller for one comparison run.
// Each run gets its own instances, so models are never shared between
// goroutines.
type Builder func() (*lti.StateSpace, Controller, error)

type Comparison struct {
	Method  discretize.Method
	Result  *Result
	Elapsed time.Duration
	Err     error
}

// Compare runs the same experiment once per discretization method,
// concurrently. A method that fails (for instance one that is not
// implemented) records its error in its Comparison; only context
// cancellation aborts the whole comparison.
func Compare(ctx context.Context, build Builder, methods []discretize.Method, cfg Config) ([]Comparison, error) {
	out := make([]Comparison, len(methods))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, method := range methods {
		g.Go(func() error {
			out[i] = compareOne(ctx, build, method, cfg)
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func compareOne(ctx context.Context, build Builder, method discretize.Method, cfg Config) Comparison {
	c := Comparison{Method: method}

	sys, controller, err := build()
	if err != nil {
		c.Err = err
		return c
	}

	ts := cfg.SamplePeriod
	if ts == 0 {
		var ok bool
		if ts, ok = sys.SamplePeriod(); !ok {
			c.Err = lti.ErrSamplingRateRequired
			return c
		}
	}
	if err := sys.ConvertWith(ts, method); err != nil {
		c.Err = err
		return c
	}

	run := cfg
	run.SamplePeriod = 0

	start := time.Now()
	c.Result, c.Err = New(sys, controller).Run(ctx, run)
	c.Elapsed = time.Since(start)
	return c
}
