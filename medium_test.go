package main

import (
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func smallGrid(tst *testing.T) *grid {
	tst.Helper()
	g, err := buildGrid([3]int{4, 4, 8}, 1, [3]float64{10 * nm, 10 * nm, 10 * nm})
	if err != nil {
		tst.Fatalf("buildGrid: %v", err)
	}
	return g
}

func TestFillRegionLastWriteWins(tst *testing.T) {
	chk.PrintTitle("fillRegion overlap")

	g := smallGrid(tst)
	m := newMedium(g)
	if err := m.fillRegion(cellIndex{0, 0, 2}, cellIndex{6, 6, 6}, isotropic(4), isotropic(1), isotropic(0)); err != nil {
		tst.Fatalf("first fill: %v", err)
	}
	if err := m.fillRegion(cellIndex{0, 0, 4}, cellIndex{6, 6, 8}, isotropic(9), isotropic(2), isotropic(0)); err != nil {
		tst.Fatalf("second fill: %v", err)
	}
	for k := 0; k < g.n[2]; k++ {
		idx := g.index(3, 3, k)
		wantEps, wantMu := 1.0, 1.0
		switch {
		case k >= 4 && k < 8:
			wantEps, wantMu = 9, 2
		case k >= 2 && k < 4:
			wantEps = 4
		}
		for _, a := range allAxes {
			chk.Float64(tst, "eps", 1e-25, real(m.eps[a][idx]), wantEps*eps0)
			chk.Float64(tst, "mu", 1e-20, real(m.mu[a][idx]), wantMu*mu0)
		}
	}
	if m.lossy {
		tst.Errorf("lossless fills must not mark the medium lossy")
	}
}

func TestFillRegionAnisotropic(tst *testing.T) {
	g := smallGrid(tst)
	m := newMedium(g)
	err := m.fillRegion(cellIndex{1, 1, 1}, cellIndex{2, 2, 2}, anisotropic(2, 3, 4), isotropic(1), anisotropic(0, 0, 5))
	if err != nil {
		tst.Fatalf("fill: %v", err)
	}
	idx := g.index(1, 1, 1)
	chk.Float64(tst, "eps x", 1e-25, real(m.eps[axisX][idx]), 2*eps0)
	chk.Float64(tst, "eps y", 1e-25, real(m.eps[axisY][idx]), 3*eps0)
	chk.Float64(tst, "eps z", 1e-25, real(m.eps[axisZ][idx]), 4*eps0)
	chk.Float64(tst, "sigma z", 1e-15, m.conductivity[axisZ][idx], 5)
	chk.Float64(tst, "sigma x", 1e-15, m.conductivity[axisX][idx], 0)
	if !m.lossy {
		tst.Errorf("nonzero conductivity must mark the medium lossy")
	}
	// Neighbour untouched.
	chk.Float64(tst, "eps neighbour", 1e-25, real(m.eps[axisX][g.index(2, 1, 1)]), eps0)
}

func TestFillRegionErrors(tst *testing.T) {
	g := smallGrid(tst)
	m := newMedium(g)
	cases := []struct {
		name         string
		lo, hi       cellIndex
		eps, mu, sig material
	}{
		{"empty", cellIndex{1, 1, 1}, cellIndex{1, 2, 2}, isotropic(2), isotropic(1), isotropic(0)},
		{"inverted", cellIndex{3, 1, 1}, cellIndex{2, 2, 2}, isotropic(2), isotropic(1), isotropic(0)},
		{"outside", cellIndex{0, 0, 0}, cellIndex{7, 2, 2}, isotropic(2), isotropic(1), isotropic(0)},
		{"negative", cellIndex{-1, 0, 0}, cellIndex{2, 2, 2}, isotropic(2), isotropic(1), isotropic(0)},
		{"zero eps", cellIndex{0, 0, 0}, cellIndex{2, 2, 2}, anisotropic(1, 0, 1), isotropic(1), isotropic(0)},
		{"zero mu", cellIndex{0, 0, 0}, cellIndex{2, 2, 2}, isotropic(1), isotropic(0), isotropic(0)},
		{"negative sigma", cellIndex{0, 0, 0}, cellIndex{2, 2, 2}, isotropic(1), isotropic(1), anisotropic(0, -1, 0)},
		{"infinite sigma", cellIndex{0, 0, 0}, cellIndex{2, 2, 2}, isotropic(1), isotropic(1), isotropic(math.Inf(1))},
	}
	for _, c := range cases {
		err := m.fillRegion(c.lo, c.hi, c.eps, c.mu, c.sig)
		var dom *DomainError
		if !errors.As(err, &dom) {
			tst.Errorf("%s: want DomainError, got %v", c.name, err)
		}
	}
}

func TestMediumSealed(tst *testing.T) {
	g := smallGrid(tst)
	m := newMedium(g)
	if _, err := buildCoefficients(g, newPMLProfile(g, defaultPMLParams()), m); err != nil {
		tst.Fatalf("buildCoefficients: %v", err)
	}
	if err := m.fillSlabZ(1, 2, 4); !errors.Is(err, errDomain) {
		tst.Errorf("fill after sealing: want errDomain, got %v", err)
	}
}

func TestParseLayers(tst *testing.T) {
	layers, err := parseLayers(defaultLayers)
	if err != nil {
		tst.Fatalf("parseLayers: %v", err)
	}
	chk.Int(tst, "count", len(layers), 2)
	chk.Int(tst, "z0", layers[1].z0, 130)
	chk.Int(tst, "z1", layers[1].z1, 170)
	chk.Float64(tst, "eps", 0, layers[1].epsR, 9)

	for _, bad := range []string{"1:2", "a:2:3", "1:b:3", "1:2:c"} {
		if _, err := parseLayers(bad); !errors.Is(err, errConfig) {
			tst.Errorf("parseLayers(%q): want errConfig, got %v", bad, err)
		}
	}
	none, err := parseLayers("  ")
	if err != nil || len(none) != 0 {
		tst.Errorf("blank layers: %v %v", none, err)
	}
}
