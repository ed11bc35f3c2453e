package main

import (
	"fmt"
	"math"
)

// axis names one of the three grid directions.
type axis int

const (
	axisX axis = iota
	axisY
	axisZ
)

var allAxes = [3]axis{axisX, axisY, axisZ}

func (a axis) String() string {
	switch a {
	case axisX:
		return "x"
	case axisY:
		return "y"
	case axisZ:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// next returns the cyclic successor used by the curl: x->y->z->x.
func (a axis) next() axis { return (a + 1) % 3 }

// parseAxis accepts x, y or z.
func parseAxis(s string) (axis, error) {
	switch s {
	case "x", "X":
		return axisX, nil
	case "y", "Y":
		return axisY, nil
	case "z", "Z":
		return axisZ, nil
	}
	return 0, configErrorf("axis", "unknown axis %q", s)
}

// cellIndex represents an integer coordinate on the padded grid.
type cellIndex [3]int

// stabilityBound is the largest Courant factor for which the spectral
// leapfrog stays stable on a cubic 3D grid: c*dt/dx <= 2/(pi*sqrt(3)).
var stabilityBound = 2 / (math.Pi * math.Sqrt(3))

// grid holds the padded dimensions, cell spacing and time step.
type grid struct {
	interior [3]int
	padding  [3]int
	n        [3]int
	spacing  [3]float64
	courant  float64
	dt       float64
}

// buildGrid validates the interior size, uniform padding and spacing and
// derives the padded shape and the time step at the default Courant factor.
func buildGrid(interior [3]int, padding int, spacing [3]float64) (*grid, error) {
	return buildGridPadded(interior, [3]int{padding, padding, padding}, spacing)
}

// buildGridPadded is buildGrid with an independent padding width per axis.
func buildGridPadded(interior, padding [3]int, spacing [3]float64) (*grid, error) {
	for _, a := range allAxes {
		if interior[a] <= 0 {
			return nil, configErrorf("interior", "%s dimension must be positive, got %d", a, interior[a])
		}
		if padding[a] < 0 {
			return nil, configErrorf("padding", "%s padding must not be negative, got %d", a, padding[a])
		}
		if !(spacing[a] > 0) || math.IsInf(spacing[a], 0) {
			return nil, configErrorf("spacing", "%s spacing must be positive, got %g", a, spacing[a])
		}
	}
	g := &grid{interior: interior, padding: padding, spacing: spacing}
	for _, a := range allAxes {
		g.n[a] = interior[a] + 2*padding[a]
	}
	if err := g.setCourant(defaultCourant); err != nil {
		return nil, err
	}
	return g, nil
}

// setCourant recomputes dt = S*min(spacing)/c.
func (g *grid) setCourant(s float64) error {
	if !(s > 0) {
		return configErrorf("courant", "factor must be positive, got %g", s)
	}
	if s > stabilityBound {
		return configErrorf("courant", "factor %g exceeds stability bound %.4f", s, stabilityBound)
	}
	g.courant = s
	g.dt = s * math.Min(g.spacing[0], math.Min(g.spacing[1], g.spacing[2])) / speedOfLight
	return nil
}

// size returns the number of cells in the padded grid.
func (g *grid) size() int {
	return g.n[0] * g.n[1] * g.n[2]
}

// index flattens (i, j, k) in C order with z contiguous.
func (g *grid) index(i, j, k int) int {
	return (i*g.n[1]+j)*g.n[2] + k
}

// stride returns the flat distance between neighbours along a.
func (g *grid) stride(a axis) int {
	switch a {
	case axisX:
		return g.n[1] * g.n[2]
	case axisY:
		return g.n[2]
	}
	return 1
}

// resolveIndex maps a possibly negative plane index (counted from the high
// end, as -1 is the last cell) onto [0, n).
func (g *grid) resolveIndex(a axis, idx int) (int, error) {
	if idx < 0 {
		idx += g.n[a]
	}
	if idx < 0 || idx >= g.n[a] {
		return 0, configErrorf("plane", "%s index %d outside [0,%d)", a, idx, g.n[a])
	}
	return idx, nil
}

func (g *grid) String() string {
	return fmt.Sprintf("%dx%dx%d (interior %dx%dx%d, padding %v, dt=%.3es)",
		g.n[0], g.n[1], g.n[2], g.interior[0], g.interior[1], g.interior[2], g.padding, g.dt)
}
