package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func readColumn(tst *testing.T, path string) (string, []float64) {
	tst.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tst.Fatalf("reading %s: %v", path, err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	var vals []float64
	for _, l := range lines[1:] {
		v, err := strconv.ParseFloat(l, 64)
		if err != nil {
			tst.Fatalf("%s: bad value %q", path, l)
		}
		vals = append(vals, v)
	}
	return lines[0], vals
}

func TestDumpProbesAndSpectra(tst *testing.T) {
	chk.PrintTitle("dump probes")

	dir := filepath.Join(tst.TempDir(), "out")
	p := newProbeSeries(3)
	p.record(1, 0.5, 0.5, 0.25)
	p.record(-2e-9, 0, -2e-9, 3.5)
	if err := dumpProbes(dir, p); err != nil {
		tst.Fatalf("dumpProbes: %v", err)
	}
	header, vals := readColumn(tst, filepath.Join(dir, "Ex_trs.txt"))
	if header != "# Ex_trs" {
		tst.Errorf("header %q", header)
	}
	chk.Array(tst, "Ex_trs", 1e-15, vals, []float64{0.25, 3.5})
	_, vals = readColumn(tst, filepath.Join(dir, "Ex_ref.txt"))
	chk.Array(tst, "Ex_ref", 1e-20, vals, []float64{0.5, -2e-9})

	s := newSpectra([]float64{500 * nm}, []float64{speedOfLight / (500 * nm)},
		[]complex128{2}, []complex128{1}, []complex128{1i})
	if err := dumpSpectra(dir, s); err != nil {
		tst.Fatalf("dumpSpectra: %v", err)
	}
	for _, name := range []string{"wavelength", "frequency", "Reflec", "Trans", "Total"} {
		if _, err := os.Stat(filepath.Join(dir, name+".txt")); err != nil {
			tst.Errorf("missing %s: %v", name, err)
		}
	}
	_, vals = readColumn(tst, filepath.Join(dir, "Total.txt"))
	chk.Float64(tst, "total", 1e-9, vals[0], 0.5)
}

func TestDumpPlane(tst *testing.T) {
	g, err := buildGridPadded([3]int{2, 3, 4}, [3]int{0, 0, 0}, [3]float64{1, 1, 1})
	if err != nil {
		tst.Fatalf("buildGridPadded: %v", err)
	}
	field := make([]complex128, g.size())
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			field[g.index(i, j, 3)] = complex(float64(10*i+j), 7)
		}
	}
	dir := tst.TempDir()
	if err := dumpPlane(dir, "Ex", g, field, -1); err != nil {
		tst.Fatalf("dumpPlane: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "Ex_z3.txt"))
	if err != nil {
		tst.Fatalf("read: %v", err)
	}
	rows := strings.Split(strings.TrimSpace(string(data)), "\n")
	chk.Int(tst, "rows", len(rows), 2)
	cols := strings.Fields(rows[1])
	chk.Int(tst, "cols", len(cols), 3)
	v, _ := strconv.ParseFloat(cols[2], 64)
	chk.Float64(tst, "Ex(1,2)", 1e-12, v, 12)

	if err := dumpPlane(dir, "Ex", g, field, 9); err == nil {
		tst.Errorf("plane outside the grid should fail")
	}
}

func TestDumpProfiles(tst *testing.T) {
	g, err := buildGridPadded([3]int{2, 2, 8}, [3]int{0, 0, 2}, [3]float64{1e-8, 1e-8, 1e-8})
	if err != nil {
		tst.Fatalf("buildGridPadded: %v", err)
	}
	prof := newPMLProfile(g, defaultPMLParams())
	if err := prof.applyPML(axisZ, sideBoth); err != nil {
		tst.Fatalf("applyPML: %v", err)
	}
	lc, err := buildCoefficients(g, prof, newMedium(g))
	if err != nil {
		tst.Fatalf("buildCoefficients: %v", err)
	}
	dir := tst.TempDir()
	if err := dumpProfiles(dir, g, prof, lc); err != nil {
		tst.Fatalf("dumpProfiles: %v", err)
	}
	_, sigma := readColumn(tst, filepath.Join(dir, "coefficients", "sigma_z.txt"))
	chk.Int(tst, "sigma_z length", len(sigma), g.n[2])
	if !(sigma[0] > 0) || sigma[4] != 0 {
		tst.Errorf("sigma_z not graded: %v", sigma)
	}
	_, line := readColumn(tst, filepath.Join(dir, "coefficients", "cb1y_along_z.txt"))
	chk.Int(tst, "cb1y line", len(line), g.n[2])
	if !(line[0] < line[4]) {
		tst.Errorf("cb1y should dip inside the PML: %v", line)
	}
}
