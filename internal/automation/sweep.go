package automation

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/optim"
)

// Sweep varies one config key over Steps evenly spaced values.
type Sweep struct {
	Key   string
	Min   float64
	Max   float64
	Steps int
}

func (s Sweep) Values() []float64 {
	if s.Steps <= 1 {
		return []float64{s.Min}
	}
	values := make([]float64, s.Steps)
	step := (s.Max - s.Min) / float64(s.Steps-1)
	for i := range values {
		values[i] = s.Min + float64(i)*step
	}
	values[s.Steps-1] = s.Max
	return values
}

type SweepResult struct {
	Value       float64
	EnergyDrift float64
	Metrics     map[string]float64
	// Err is set when this point failed to build or went unstable.
	Err error
}

// RunSweep runs base once per sweep value. A failing point is recorded in
// its result and the sweep moves on; only an unknown key or a cancelled
// context end it early.
func (r *Runner) RunSweep(ctx context.Context, base *config.Config, s Sweep) ([]SweepResult, error) {
	if err := base.Clone().Set(s.Key, s.Min); err != nil {
		return nil, err
	}

	values := s.Values()
	results := make([]SweepResult, 0, len(values))
	for i, v := range values {
		cfg := base.Clone()
		if err := cfg.Set(s.Key, v); err != nil {
			return results, err
		}
		r.logger.Info("sweep", "step", i+1, "of", len(values), s.Key, v)

		res := SweepResult{Value: v}
		if err := cfg.Validate(); err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}
		result, _, err := r.Run(ctx, cfg)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return results, err
		}
		res.Err = err
		if result != nil {
			res.EnergyDrift = result.EnergyDrift
			res.Metrics = result.Metrics
		}
		results = append(results, res)
	}
	return results, nil
}

// Objective scores a grid point by running base with the point's keys set
// and reading metric from the result. "energy_drift" reads the run's
// overall energy drift.
func (r *Runner) Objective(base *config.Config, metric string) optim.Objective {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg := base.Clone()
		for key, value := range params {
			if err := cfg.Set(key, value); err != nil {
				return 0, err
			}
		}
		if err := cfg.Validate(); err != nil {
			return 0, err
		}

		result, _, err := r.Run(ctx, cfg)
		if err != nil {
			return 0, err
		}
		if v, ok := result.Metrics[metric]; ok {
			return v, nil
		}
		if metric == "energy_drift" {
			return result.EnergyDrift, nil
		}
		return 0, fmt.Errorf("unknown metric: %s", metric)
	}
}
