package main

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// fftFreq returns the sample frequencies of an n-point DFT with sample
// spacing d, in the usual order: 0, 1, ..., n/2-1, -n/2, ..., -1 over n*d.
func fftFreq(n int, d float64) []float64 {
	out := make([]float64, n)
	half := (n + 1) / 2
	for i := 0; i < n; i++ {
		m := i
		if i >= half {
			m = i - n
		}
		out[i] = float64(m) / (float64(n) * d)
	}
	return out
}

// spectralEngine computes per-axis spatial derivatives by 1D FFT along every
// line of the grid. Each worker owns its plans and line buffer.
type spectralEngine struct {
	g       *grid
	backend string
	workers int
	plans   [3][]lineTransform
	bufs    [3][][]complex128
	ik      [3][]complex128
}

func newSpectralEngine(g *grid, backend string, workers int) (*spectralEngine, error) {
	if workers < 1 {
		workers = 1
	}
	e := &spectralEngine{g: g, backend: backend, workers: workers}
	for _, a := range allAxes {
		n := g.n[a]
		freq := fftFreq(n, g.spacing[a])
		e.ik[a] = make([]complex128, n)
		for i, f := range freq {
			e.ik[a][i] = complex(0, 2*math.Pi*f)
		}
		e.plans[a] = make([]lineTransform, workers)
		e.bufs[a] = make([][]complex128, workers)
		for w := 0; w < workers; w++ {
			t, err := newLineTransform(backend, n)
			if err != nil {
				e.Close()
				return nil, fmt.Errorf("%s-axis transform: %w", a, err)
			}
			e.plans[a][w] = t
			e.bufs[a][w] = make([]complex128, n)
		}
	}
	return e, nil
}

// Close releases every plan. Safe to call on a partially built engine.
func (e *spectralEngine) Close() error {
	var errs []error
	for _, a := range allAxes {
		for _, t := range e.plans[a] {
			if t == nil {
				continue
			}
			if err := t.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		e.plans[a] = nil
	}
	return errors.Join(errs...)
}

// lineCount is the number of grid lines running along a.
func (e *spectralEngine) lineCount(a axis) int {
	return e.g.size() / e.g.n[a]
}

// lineBase returns the flat index of the first cell of line l along a.
func (e *spectralEngine) lineBase(a axis, l int) int {
	ny, nz := e.g.n[1], e.g.n[2]
	switch a {
	case axisX:
		return l
	case axisY:
		i, k := l/nz, l%nz
		return i*ny*nz + k
	}
	return l * nz
}

// derivative writes d(src)/da into dst. dst may alias src.
func (e *spectralEngine) derivative(dst, src []complex128, a axis) error {
	return e.eachLine(dst, src, a, func(line []complex128, t lineTransform) error {
		if err := t.Forward(line, line); err != nil {
			return err
		}
		ik := e.ik[a]
		for i := range line {
			line[i] *= ik[i]
		}
		return t.Inverse(line, line)
	})
}

// roundTrip applies forward then inverse transforms along a, which must
// reproduce src up to rounding.
func (e *spectralEngine) roundTrip(dst, src []complex128, a axis) error {
	return e.eachLine(dst, src, a, func(line []complex128, t lineTransform) error {
		if err := t.Forward(line, line); err != nil {
			return err
		}
		return t.Inverse(line, line)
	})
}

func (e *spectralEngine) eachLine(dst, src []complex128, a axis, fn func([]complex128, lineTransform) error) error {
	size := e.g.size()
	if len(src) != size || len(dst) != size {
		return &NumericConsistencyError{
			Array:  "derivative",
			Reason: fmt.Sprintf("lengths %d/%d, grid holds %d cells", len(src), len(dst), size),
		}
	}
	lines := e.lineCount(a)
	stride := e.g.stride(a)
	n := e.g.n[a]
	chunk := (lines + e.workers - 1) / e.workers

	var eg errgroup.Group
	for w := 0; w < e.workers; w++ {
		start := w * chunk
		end := min(start+chunk, lines)
		if start >= end {
			break
		}
		buf := e.bufs[a][w]
		plan := e.plans[a][w]
		eg.Go(func() error {
			for l := start; l < end; l++ {
				base := e.lineBase(a, l)
				for i, idx := 0, base; i < n; i, idx = i+1, idx+stride {
					buf[i] = src[idx]
				}
				if err := fn(buf, plan); err != nil {
					return &DeviceError{Op: fmt.Sprintf("%s line transform", e.backend), Err: err}
				}
				for i, idx := 0, base; i < n; i, idx = i+1, idx+stride {
					dst[idx] = buf[i]
				}
			}
			return nil
		})
	}
	return eg.Wait()
}
