package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

var (
	ErrEmptyState = errors.New("analysis: empty initial state")
	ErrBadWindow  = errors.New("analysis: dt, duration and perturbation must be positive")
)

// LyapunovExponent estimates the largest Lyapunov exponent of dyn from x0.
// A twin trajectory starts perturbation away in the first state component
// and is pulled back to that distance after every step.
func LyapunovExponent(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) (float64, error) {
	if err := checkWindow(x0, dt, duration, perturbation); err != nil {
		return 0, err
	}
	xp := x0.Clone()
	xp[0] += perturbation
	return separationRate(dyn, integ, x0, xp, dt, duration, perturbation)
}

// LyapunovSpectrum repeats the estimate once per state component, perturbing
// only that component.
func LyapunovSpectrum(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) ([]float64, error) {
	if err := checkWindow(x0, dt, duration, perturbation); err != nil {
		return nil, err
	}
	spectrum := make([]float64, len(x0))
	for i := range x0 {
		xp := x0.Clone()
		xp[i] += perturbation
		rate, err := separationRate(dyn, integ, x0, xp, dt, duration, perturbation)
		if err != nil {
			return nil, err
		}
		spectrum[i] = rate
	}
	return spectrum, nil
}

func checkWindow(x0 dynamo.State, dt, duration, perturbation float64) error {
	if len(x0) == 0 {
		return ErrEmptyState
	}
	if !(dt > 0) || !(duration > 0) || !(perturbation > 0) {
		return ErrBadWindow
	}
	return nil
}

func separationRate(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0, x0p dynamo.State,
	dt, duration, d0 float64,
) (float64, error) {
	x, xp := x0.Clone(), x0p.Clone()

	sumLog := 0.0
	steps := 0
	for t := 0.0; t < duration; t += dt {
		x = integ.Step(dyn, x, t, dt)
		xp = integ.Step(dyn, xp, t, dt)
		steps++
		if !x.IsValid() || !xp.IsValid() {
			return 0, &dynamo.SimError{Time: t + dt, Step: steps, Wrapped: dynamo.ErrUnstable}
		}

		delta := xp.Sub(x)
		sep := delta.Norm()
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / d0)
		xp = x.Add(delta.Scale(d0 / sep))
	}

	return sumLog / (float64(steps) * dt), nil
}
