package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Run ticks the world cfg.Frames times at a fixed frame delta, recording
// every SampleEvery-th frame and each metric's running value alongside it.
// It stops early on context cancellation, returning what it has so far, or
// on a non-finite state with a *dynamo.SimError.
func (w *World) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}
	every := cfg.SampleEvery
	if every < 1 {
		every = 1
	}

	result := &Result{
		Frames:  make([]dynamo.Frame, 0, cfg.Frames/every+1),
		Times:   make([]float64, 0, cfg.Frames/every+1),
		Series:  make(map[string][]float64),
		Metrics: make(map[string]float64),
	}

	initial := w.Frame()
	w.record(result, initial)
	startSteps := w.steps

	var runErr error
	for i := 1; i <= cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		f, err := w.Tick(cfg.FrameDt)
		if err != nil {
			w.logger.Error("run aborted", "err", err)
			runErr = err
			break
		}
		if i%every == 0 || i == cfg.Frames {
			w.record(result, f)
		}
	}

	result.StepsTaken = w.steps - startSteps
	if initial.Energy != 0 {
		result.EnergyDrift = math.Abs(w.Energy()-initial.Energy) / math.Abs(initial.Energy)
	}
	for _, m := range w.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, runErr
}

func (w *World) record(r *Result, f dynamo.Frame) {
	r.Frames = append(r.Frames, f)
	r.Times = append(r.Times, f.Time)
	r.Series["energy"] = append(r.Series["energy"], f.Energy)
	for _, m := range w.metrics {
		r.Series[m.Name()] = append(r.Series[m.Name()], m.Value())
	}
}

func validateRunConfig(cfg RunConfig) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if cfg.FrameDt <= 0 {
		return fmt.Errorf("frame dt must be positive, got %f", cfg.FrameDt)
	}
	return nil
}
