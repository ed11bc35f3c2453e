package main

import (
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestGridShape(tst *testing.T) {
	chk.PrintTitle("grid shape")

	g, err := buildGrid([3]int{108, 108, 236}, 10, [3]float64{10 * nm, 10 * nm, 10 * nm})
	if err != nil {
		tst.Fatalf("buildGrid: %v", err)
	}
	chk.Int(tst, "nx", g.n[0], 128)
	chk.Int(tst, "ny", g.n[1], 128)
	chk.Int(tst, "nz", g.n[2], 256)
	chk.Int(tst, "size", g.size(), 128*128*256)
	chk.Float64(tst, "dt", 1e-30, g.dt, defaultCourant*10*nm/speedOfLight)

	for _, a := range allAxes {
		chk.Int(tst, "n = interior + 2*padding", g.n[a], g.interior[a]+2*g.padding[a])
	}
}

func TestGridIndexing(tst *testing.T) {
	chk.PrintTitle("grid indexing")

	g, err := buildGridPadded([3]int{3, 4, 5}, [3]int{1, 0, 2}, [3]float64{1, 2, 3})
	if err != nil {
		tst.Fatalf("buildGridPadded: %v", err)
	}
	chk.Int(tst, "n", g.size(), 5*4*9)
	chk.Int(tst, "index(0,0,0)", g.index(0, 0, 0), 0)
	chk.Int(tst, "index(last)", g.index(4, 3, 8), g.size()-1)
	chk.Int(tst, "stride x", g.index(2, 1, 1)-g.index(1, 1, 1), g.stride(axisX))
	chk.Int(tst, "stride y", g.index(1, 2, 1)-g.index(1, 1, 1), g.stride(axisY))
	chk.Int(tst, "stride z", g.index(1, 1, 2)-g.index(1, 1, 1), g.stride(axisZ))

	// dt follows the smallest spacing.
	chk.Float64(tst, "dt", 1e-30, g.dt, defaultCourant*1/speedOfLight)

	idx, err := g.resolveIndex(axisZ, -1)
	if err != nil {
		tst.Fatalf("resolveIndex: %v", err)
	}
	chk.Int(tst, "z=-1", idx, 8)
	if _, err := g.resolveIndex(axisZ, 9); err == nil {
		tst.Errorf("resolveIndex(9) on nz=9 should fail")
	}
	if _, err := g.resolveIndex(axisZ, -10); err == nil {
		tst.Errorf("resolveIndex(-10) on nz=9 should fail")
	}
}

func TestGridRejectsBadInput(tst *testing.T) {
	chk.PrintTitle("grid validation")

	cases := []struct {
		name     string
		interior [3]int
		padding  int
		spacing  [3]float64
	}{
		{"zero interior", [3]int{0, 4, 4}, 1, [3]float64{1, 1, 1}},
		{"negative padding", [3]int{4, 4, 4}, -1, [3]float64{1, 1, 1}},
		{"zero spacing", [3]int{4, 4, 4}, 1, [3]float64{1, 0, 1}},
		{"nan spacing", [3]int{4, 4, 4}, 1, [3]float64{1, 1, math.NaN()}},
	}
	for _, c := range cases {
		_, err := buildGrid(c.interior, c.padding, c.spacing)
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			tst.Errorf("%s: want ConfigError, got %v", c.name, err)
		}
		if !errors.Is(err, errConfig) {
			tst.Errorf("%s: want errConfig in chain", c.name)
		}
	}
}

func TestGridCourant(tst *testing.T) {
	chk.PrintTitle("courant bound")

	g, err := buildGrid([3]int{4, 4, 4}, 0, [3]float64{1, 1, 1})
	if err != nil {
		tst.Fatalf("buildGrid: %v", err)
	}
	if err := g.setCourant(stabilityBound * 1.01); err == nil {
		tst.Errorf("courant above %.4f should be rejected", stabilityBound)
	}
	if err := g.setCourant(0); err == nil {
		tst.Errorf("zero courant should be rejected")
	}
	if err := g.setCourant(0.3); err != nil {
		tst.Fatalf("setCourant(0.3): %v", err)
	}
	chk.Float64(tst, "dt", 1e-30, g.dt, 0.3/speedOfLight)
}

func TestParseAxis(tst *testing.T) {
	for s, want := range map[string]axis{"x": axisX, "Y": axisY, "z": axisZ} {
		got, err := parseAxis(s)
		if err != nil || got != want {
			tst.Errorf("parseAxis(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := parseAxis("w"); err == nil {
		tst.Errorf("parseAxis(w) should fail")
	}
	chk.Int(tst, "z.next", int(axisZ.next()), int(axisX))
}
