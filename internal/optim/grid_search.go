// Package optim searches parameter grids for the run that minimises a
// metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/san-kum/ltikit/internal/config"
	"github.com/san-kum/ltikit/internal/experiment"
	"golang.org/x/sync/errgroup"
)

// Parameter names are prefixed with the map they go into: "model.damping"
// sets Config.Params, "input.kp" sets Config.InputParams.
const (
	ModelPrefix = "model."
	InputPrefix = "input."
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if !strings.HasPrefix(name, ModelPrefix) && !strings.HasPrefix(name, InputPrefix) {
			return nil, fmt.Errorf("optim: parameter %q needs a %q or %q prefix", name, ModelPrefix, InputPrefix)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("optim: parameter %q has no values", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Result is the best grid point. Evaluated counts the points that ran;
// points whose model could not be built or whose metric is NaN are skipped.
type Result struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
	Skipped   int
}

// Search runs base at every grid point, concurrently, and returns the point
// with the lowest value of metricName.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, registry *experiment.Registry, metricName string, log logr.Logger) (*Result, error) {
	points := make([]map[string]float64, 0)
	g.searchRecursive(0, make(map[string]float64), &points)

	best := &Result{Value: math.Inf(1)}
	var mu sync.Mutex

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(runtime.GOMAXPROCS(0))

	for _, point := range points {
		grp.Go(func() error {
			val, err := evaluate(ctx, base, registry, point, metricName, log)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.V(1).Info("grid point skipped", "params", point, "error", err.Error())
				best.Skipped++
				return nil
			}
			best.Evaluated++
			if val < best.Value || (val == best.Value && lessPoint(point, best.Params)) {
				best.Value = val
				best.Params = point
			}
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	if best.Params == nil {
		return best, fmt.Errorf("optim: no grid point produced metric %q", metricName)
	}
	return best, nil
}

func evaluate(ctx context.Context, base *config.Config, registry *experiment.Registry, point map[string]float64, metricName string, log logr.Logger) (float64, error) {
	cfg := base.Clone()
	for name, v := range point {
		if key, ok := strings.CutPrefix(name, ModelPrefix); ok {
			if cfg.Params == nil {
				cfg.Params = make(map[string]float64)
			}
			cfg.Params[key] = v
		} else if key, ok := strings.CutPrefix(name, InputPrefix); ok {
			if cfg.InputParams == nil {
				cfg.InputParams = make(map[string]float64)
			}
			cfg.InputParams[key] = v
		}
	}

	exp := experiment.New(cfg, registry, log)
	if err := exp.Setup(); err != nil {
		return 0, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	if len(result.Errors) > 0 {
		return 0, result.Errors[0]
	}

	val, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("optim: unknown metric %q", metricName)
	}
	if math.IsNaN(val) {
		return 0, fmt.Errorf("optim: metric %q is NaN", metricName)
	}
	return val, nil
}

func (g *GridSearch) searchRecursive(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(depth+1, newParams, out)
	}
}

// lessPoint orders grid points so ties resolve the same way on every run.
func lessPoint(a, b map[string]float64) bool {
	if b == nil {
		return true
	}
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if a[name] != b[name] {
			return a[name] < b[name]
		}
	}
	return false
}
