package main

import (
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestPulseSource(tst *testing.T) {
	chk.PrintTitle("pulse source")

	dt := 1e-17
	p, err := newPulseSource(400*nm, 800*nm, 0.2, 1500, dt)
	if err != nil {
		tst.Fatalf("newPulseSource: %v", err)
	}
	fc := (speedOfLight/(400*nm) + speedOfLight/(800*nm)) / 2
	chk.Float64(tst, "w0", fc*1e-12, p.w0, 2*math.Pi*fc)
	chk.Float64(tst, "ws", fc*1e-12, p.ws, 0.2*p.w0)
	chk.Float64(tst, "peak", 1e-15, p.atStep(1500), 1)

	// The envelope decays symmetrically about tc.
	for _, k := range []int{50, 300, 900} {
		chk.Float64(tst, "symmetric", 1e-9, p.atStep(1500+k), p.atStep(1500-k))
		if math.Abs(p.atStep(1500+k)) > 1 {
			tst.Errorf("pulse exceeds unit amplitude at step %d", 1500+k)
		}
	}
	if v := p.atStep(0); math.Abs(v) > 1e-6 {
		tst.Errorf("pulse should be negligible at step 0, got %g", v)
	}
}

func TestPulseSourceRejects(tst *testing.T) {
	for _, c := range []struct {
		lo, hi, f float64
		tc        int
	}{
		{0, 800 * nm, 0.2, 10},
		{800 * nm, 400 * nm, 0.2, 10},
		{400 * nm, 800 * nm, 0, 10},
		{400 * nm, 800 * nm, 0.2, -1},
	} {
		if _, err := newPulseSource(c.lo, c.hi, c.f, c.tc, 1e-17); !errors.Is(err, errConfig) {
			tst.Errorf("%+v: want errConfig, got %v", c, err)
		}
	}
}

func TestProbeSeries(tst *testing.T) {
	p := newProbeSeries(2)
	p.grow(10)
	for i := 0; i < 5; i++ {
		p.record(float64(i), 1, float64(i)-1, -float64(i))
	}
	chk.Int(tst, "len", p.len(), 5)
	named := p.named()
	chk.Int(tst, "keys", len(named), 4)
	chk.Array(tst, "Ex_ref", 0, named["Ex_ref"], []float64{-1, 0, 1, 2, 3})
	chk.Array(tst, "Ex_trs", 0, named["Ex_trs"], []float64{0, -1, -2, -3, -4})
}

func TestPlaneFootprint(tst *testing.T) {
	chk.PrintTitle("plane footprint")

	g, err := buildGridPadded([3]int{3, 4, 5}, [3]int{0, 0, 1}, [3]float64{1, 1, 1})
	if err != nil {
		tst.Fatalf("buildGridPadded: %v", err)
	}
	field := make([]complex128, g.size())
	for i := 0; i < g.n[0]; i++ {
		for j := 0; j < g.n[1]; j++ {
			for k := 0; k < g.n[2]; k++ {
				field[g.index(i, j, k)] = complex(float64(k), float64(i+j))
			}
		}
	}
	p, err := newPlaneFootprint(g, axisZ, -2)
	if err != nil {
		tst.Fatalf("newPlaneFootprint: %v", err)
	}
	chk.Int(tst, "resolved z", p.index, g.n[2]-2)
	chk.Int(tst, "cells", len(p.cells), 3*4)
	// x-major order across the plane.
	chk.Int(tst, "second cell", p.cells[1], g.index(0, 1, p.index))
	chk.Int(tst, "fifth cell", p.cells[4], g.index(1, 0, p.index))

	m := p.mean(field)
	chk.Float64(tst, "mean re", 1e-14, real(m), float64(p.index))
	// mean of i+j for i<3, j<4 is 1 + 1.5
	chk.Float64(tst, "mean im", 1e-14, imag(m), 2.5)

	if _, err := newPlaneFootprint(g, axisZ, g.n[2]); err == nil {
		tst.Errorf("plane beyond the grid should fail")
	}
}
