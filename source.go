package main

import (
	"math"
	"slices"
)

// pulseSource is a Gaussian-modulated cosine,
// exp(-0.5*((t-tc)*ws)^2) * cos(w0*(t-tc)).
type pulseSource struct {
	w0 float64 // carrier angular frequency
	ws float64 // envelope width
	tc float64 // envelope centre
	dt float64
}

// newPulseSource centres the carrier on the mean of the band-edge frequencies
// and sets the envelope width to factor*w0. tcSteps places the envelope peak
// that many time steps into the run.
func newPulseSource(lambdaMin, lambdaMax, factor float64, tcSteps int, dt float64) (*pulseSource, error) {
	if !(lambdaMin > 0) || !(lambdaMax > lambdaMin) {
		return nil, configErrorf("band", "need 0 < lambda-min < lambda-max, got %g, %g", lambdaMin, lambdaMax)
	}
	if !(factor > 0) {
		return nil, configErrorf("bandwidth", "factor must be positive, got %g", factor)
	}
	if tcSteps < 0 {
		return nil, configErrorf("pulse-center", "must not be negative, got %d", tcSteps)
	}
	fc := (speedOfLight/lambdaMin + speedOfLight/lambdaMax) / 2
	w0 := 2 * math.Pi * fc
	return &pulseSource{w0: w0, ws: factor * w0, tc: float64(tcSteps) * dt, dt: dt}, nil
}

// at evaluates the pulse at time t in seconds.
func (p *pulseSource) at(t float64) float64 {
	s := t - p.tc
	return math.Exp(-0.5*(s*p.ws)*(s*p.ws)) * math.Cos(p.w0*s)
}

// atStep evaluates the pulse at step*dt.
func (p *pulseSource) atStep(step int) float64 {
	return p.at(float64(step) * p.dt)
}

// probeSeries holds one real sample per step for each probe.
type probeSeries struct {
	input       []float64
	source      []float64
	reflected   []float64
	transmitted []float64
}

func newProbeSeries(capacity int) *probeSeries {
	return &probeSeries{
		input:       make([]float64, 0, capacity),
		source:      make([]float64, 0, capacity),
		reflected:   make([]float64, 0, capacity),
		transmitted: make([]float64, 0, capacity),
	}
}

func (p *probeSeries) len() int { return len(p.input) }

// grow reserves room for n more samples.
func (p *probeSeries) grow(n int) {
	p.input = slices.Grow(p.input, n)
	p.source = slices.Grow(p.source, n)
	p.reflected = slices.Grow(p.reflected, n)
	p.transmitted = slices.Grow(p.transmitted, n)
}

func (p *probeSeries) record(input, source, reflected, transmitted float64) {
	p.input = append(p.input, input)
	p.source = append(p.source, source)
	p.reflected = append(p.reflected, reflected)
	p.transmitted = append(p.transmitted, transmitted)
}

// named returns the series keyed by their output file stem.
func (p *probeSeries) named() map[string][]float64 {
	return map[string][]float64{
		"Ex_inp": p.input,
		"Ex_src": p.source,
		"Ex_ref": p.reflected,
		"Ex_trs": p.transmitted,
	}
}
