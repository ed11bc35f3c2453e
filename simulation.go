package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"gonum.org/v1/gonum/cmplxs"
)

// simulationConfig selects probes, pulse and execution resources.
type simulationConfig struct {
	// sourcePlane and transmitPlane are z indices; negative values count
	// back from the high end.
	sourcePlane   int
	transmitPlane int
	// pulse may be nil for runs driven purely by an initial condition.
	pulse      *pulseSource
	fftBackend string
	queue      string
	workers    int
	logEvery   int
	checkEvery int
}

// simulation owns the field state and advances it one leapfrog step at a
// time.
type simulation struct {
	g        *grid
	med      *medium
	coeffs   *leapfrogCoefficients
	fields   *fieldState
	spectral *spectralEngine
	queue    deviceQueue
	pulse    *pulseSource
	srcPlane *planeFootprint
	trsPlane *planeFootprint
	probes   *probeSeries
	step     int
	cfg      simulationConfig
}

// newSimulation derives the coefficients, seals the medium and allocates
// every buffer. Nothing is returned on failure.
func newSimulation(g *grid, prof *pmlProfile, med *medium, cfg simulationConfig) (*simulation, error) {
	coeffs, err := buildCoefficients(g, prof, med)
	if err != nil {
		return nil, fmt.Errorf("building coefficients: %w", err)
	}
	src, err := newPlaneFootprint(g, axisZ, cfg.sourcePlane)
	if err != nil {
		return nil, fmt.Errorf("source plane: %w", err)
	}
	trs, err := newPlaneFootprint(g, axisZ, cfg.transmitPlane)
	if err != nil {
		return nil, fmt.Errorf("transmission plane: %w", err)
	}
	spec, err := newSpectralEngine(g, cfg.fftBackend, cfg.workers)
	if err != nil {
		return nil, fmt.Errorf("spectral engine: %w", err)
	}
	queue, err := newDeviceQueue(cfg.queue, cfg.workers, g.size())
	if err != nil {
		spec.Close()
		return nil, fmt.Errorf("device queue: %w", err)
	}
	return &simulation{
		g:        g,
		med:      med,
		coeffs:   coeffs,
		fields:   newFieldState(g.size()),
		spectral: spec,
		queue:    queue,
		pulse:    cfg.pulse,
		srcPlane: src,
		trsPlane: trs,
		probes:   newProbeSeries(0),
		cfg:      cfg,
	}, nil
}

// Per-cell array counts behind memoryFootprint. Every coefficient is stored
// over the full grid so that one Lincomb kernel serves all three axes.
const (
	fieldArrays       = 4*3 + 4 // E D H B plus diff1 diff2 curl previous
	coefficientArrays = 3 * 10
	materialArrays    = 2 * 3 // eps and mu
	lossArrays        = 3     // cdLoss
)

// memoryFootprint estimates the bytes held by a simulation on g: fields,
// scratch, coefficients and the medium it was built from. Transform buffers
// are per line and left out.
func memoryFootprint(g *grid, lossy bool) int64 {
	perCell := int64(16 * (fieldArrays + coefficientArrays + materialArrays))
	perCell += 8 * 3 // conductivity
	if lossy {
		perCell += 16 * lossArrays
	}
	return perCell * int64(g.size())
}

// Close releases the queue and transform plans.
func (s *simulation) Close() error {
	return errors.Join(s.queue.Close(), s.spectral.Close())
}

// run advances n steps. Cancellation is honoured between steps only, so the
// fields are always left at a step boundary.
func (s *simulation) run(ctx context.Context, n int) error {
	if n < 0 {
		return configErrorf("steps", "must not be negative, got %d", n)
	}
	s.probes.grow(n)
	start := time.Now()
	lastLog := start
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stopped before step %d: %w", s.step, err)
		}
		if err := s.advance(); err != nil {
			return err
		}
		if s.cfg.checkEvery > 0 && s.step%s.cfg.checkEvery == 0 {
			if err := s.checkFinite(); err != nil {
				return err
			}
		}
		if s.cfg.logEvery > 0 && (s.step%s.cfg.logEvery == 0 || time.Since(lastLog) > snapshotLogInterval) {
			lastLog = time.Now()
			elapsed := lastLog.Sub(start)
			log.Printf("step %d/%d t=%.3es peak|Ex|=%.3e (%.1f steps/s)",
				s.step, n, float64(s.step)*s.g.dt, maxAbs(s.fields.E[axisX]),
				float64(i+1)/elapsed.Seconds())
		}
	}
	return nil
}

// checkFinite fails when any E or H component holds NaN or Inf.
func (s *simulation) checkFinite() error {
	for _, a := range allAxes {
		for _, f := range []struct {
			eq  string
			arr []complex128
		}{{"E", s.fields.E[a]}, {"H", s.fields.H[a]}} {
			if cmplxs.HasNaN(f.arr) || math.IsInf(maxAbs(f.arr), 0) {
				return &stepError{
					Step:     s.step,
					Equation: f.eq,
					Axis:     a,
					Err:      &NumericConsistencyError{Array: f.eq + a.String(), Reason: "non-finite field value"},
				}
			}
		}
	}
	return nil
}

// energy returns the discrete electromagnetic energy
// sum(Re(eps)|E|^2 + Re(mu)|H|^2) over the whole grid, without cell volume.
func (s *simulation) energy() float64 {
	return s.energyBox(cellIndex{}, cellIndex(s.g.n))
}

// interiorEnergy is energy restricted to the non-padding cells.
func (s *simulation) interiorEnergy() float64 {
	var lo, hi cellIndex
	for _, a := range allAxes {
		lo[a] = s.g.padding[a]
		hi[a] = s.g.n[a] - s.g.padding[a]
	}
	return s.energyBox(lo, hi)
}

func (s *simulation) energyBox(lo, hi cellIndex) float64 {
	sum := 0.0
	for _, a := range allAxes {
		e, h := s.fields.E[a], s.fields.H[a]
		eps, mu := s.med.eps[a], s.med.mu[a]
		for i := lo[0]; i < hi[0]; i++ {
			for j := lo[1]; j < hi[1]; j++ {
				base := s.g.index(i, j, 0)
				for k := lo[2]; k < hi[2]; k++ {
					idx := base + k
					sum += real(eps[idx])*sqAbs(e[idx]) + real(mu[idx])*sqAbs(h[idx])
				}
			}
		}
	}
	return sum
}

func sqAbs(v complex128) float64 {
	return real(v)*real(v) + imag(v)*imag(v)
}
