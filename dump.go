package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// writeColumn writes one value per line under a single header line.
func writeColumn(dir, name string, values []float64) error {
	path := filepath.Join(dir, name+".txt")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# %s\n", name)
	for _, v := range values {
		fmt.Fprintf(w, "%.6e\n", v)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// writeColumns writes every named series into dir.
func writeColumns(dir string, series map[string][]float64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	for name, values := range series {
		if err := writeColumn(dir, name, values); err != nil {
			return err
		}
	}
	return nil
}

// dumpProbes writes the four probe series.
func dumpProbes(dir string, p *probeSeries) error {
	return writeColumns(dir, p.named())
}

// dumpSpectra writes reflectance, transmittance and their sum alongside the
// wavelength and frequency grids.
func dumpSpectra(dir string, s *spectra) error {
	return writeColumns(dir, map[string][]float64{
		"wavelength": s.wavelength,
		"frequency":  s.frequency,
		"Reflec":     s.reflectance,
		"Trans":      s.transmittance,
		"Total":      s.total,
	})
}

// dumpProfiles writes the boundary profile and a line through the centre of
// the grid for each broadcast coefficient.
func dumpProfiles(dir string, g *grid, prof *pmlProfile, lc *leapfrogCoefficients) error {
	series := make(map[string][]float64)
	for _, a := range allAxes {
		p := prof.axes[a]
		series["sigma_"+a.String()] = p.sigma
		series["kappa_"+a.String()] = p.kappa
		series["sigmaM_"+a.String()] = p.sigmaM
		series["kappaM_"+a.String()] = p.kappaM
	}
	centre := cellIndex{g.n[0] / 2, g.n[1] / 2, g.n[2] / 2}
	for _, a := range allAxes {
		for name, arr := range lc.comp[a].named() {
			for _, along := range allAxes {
				key := fmt.Sprintf("%s%s_along_%s", name, a, along)
				series[key] = lineAlong(g, arr, along, centre)
			}
		}
	}
	return writeColumns(filepath.Join(dir, "coefficients"), series)
}

// dumpPlane writes the real part of a field component over a z plane, one
// row of the plane per line.
func dumpPlane(dir, name string, g *grid, field []complex128, z int) error {
	p, err := newPlaneFootprint(g, axisZ, z)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_z%d.txt", name, p.index))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	vals := p.gather(field)
	// Footprint order is x-major, y-minor for a z plane.
	cols := g.n[1]
	for i, v := range vals {
		sep := " "
		if (i+1)%cols == 0 {
			sep = "\n"
		}
		fmt.Fprintf(w, "%.6e%s", real(v), sep)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
