package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// material is a relative material constant that is either the same on every
// axis or given per axis.
type material struct {
	v [3]complex128
}

// isotropic returns a material with the same value on all three axes.
func isotropic(v float64) material {
	c := complex(v, 0)
	return material{v: [3]complex128{c, c, c}}
}

// anisotropic returns a material with independent x, y and z values.
func anisotropic(x, y, z float64) material {
	return material{v: [3]complex128{complex(x, 0), complex(y, 0), complex(z, 0)}}
}

func (m material) isZero() bool {
	return m.v[0] == 0 || m.v[1] == 0 || m.v[2] == 0
}

// medium stores absolute permittivity and permeability per cell and per field
// component, plus the conduction loss used by the D update.
type medium struct {
	g            *grid
	eps          [3][]complex128
	mu           [3][]complex128
	conductivity [3][]float64
	lossy        bool
	sealed       bool
}

// newMedium fills the whole grid with vacuum.
func newMedium(g *grid) *medium {
	m := &medium{g: g}
	size := g.size()
	for _, a := range allAxes {
		m.eps[a] = make([]complex128, size)
		m.mu[a] = make([]complex128, size)
		m.conductivity[a] = make([]float64, size)
		for i := range m.eps[a] {
			m.eps[a][i] = eps0
			m.mu[a][i] = mu0
		}
	}
	return m
}

// fillRegion writes epsR, muR and conductivity into the half-open box
// [lower, upper). Later fills overwrite earlier ones in the overlap.
func (m *medium) fillRegion(lower, upper cellIndex, epsR, muR, conductivity material) error {
	if m.sealed {
		return domainErrorf("fill", "medium is frozen once coefficients are built")
	}
	if epsR.isZero() {
		return domainErrorf("fill", "relative permittivity must be nonzero")
	}
	if muR.isZero() {
		return domainErrorf("fill", "relative permeability must be nonzero")
	}
	for _, a := range allAxes {
		if sigma := real(conductivity.v[a]); sigma < 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
			return domainErrorf("fill", "conductivity on %s must be finite and non-negative, got %g", a, sigma)
		}
		if lower[a] >= upper[a] {
			return domainErrorf("fill", "empty box on %s: [%d,%d)", a, lower[a], upper[a])
		}
		if lower[a] < 0 || upper[a] > m.g.n[a] {
			return domainErrorf("fill", "box [%d,%d) outside %s extent %d", lower[a], upper[a], a, m.g.n[a])
		}
	}
	for _, a := range allAxes {
		if real(conductivity.v[a]) != 0 {
			m.lossy = true
		}
	}
	for i := lower[0]; i < upper[0]; i++ {
		for j := lower[1]; j < upper[1]; j++ {
			base := m.g.index(i, j, 0)
			for k := lower[2]; k < upper[2]; k++ {
				idx := base + k
				for _, a := range allAxes {
					m.eps[a][idx] = epsR.v[a] * eps0
					m.mu[a][idx] = muR.v[a] * mu0
					m.conductivity[a][idx] = real(conductivity.v[a])
				}
			}
		}
	}
	return nil
}

// fillSlabZ fills every transverse cell between z0 and z1 with a lossless,
// nonmagnetic dielectric.
func (m *medium) fillSlabZ(z0, z1 int, epsR float64) error {
	return m.fillRegion(
		cellIndex{0, 0, z0},
		cellIndex{m.g.n[0], m.g.n[1], z1},
		isotropic(epsR), isotropic(1), isotropic(0),
	)
}

// seal freezes the medium for the rest of the run.
func (m *medium) seal() { m.sealed = true }

// layer is a full-transverse dielectric slab along z.
type layer struct {
	z0, z1 int
	epsR   float64
}

// parseLayers reads "z0:z1:eps,z0:z1:eps" into slabs.
func parseLayers(spec string) ([]layer, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	var layers []layer
	for _, part := range strings.Split(spec, ",") {
		fields := strings.Split(strings.TrimSpace(part), ":")
		if len(fields) != 3 {
			return nil, configErrorf("layers", "expected z0:z1:eps, got %q", part)
		}
		z0, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, configErrorf("layers", "bad z0 in %q: %v", part, err)
		}
		z1, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, configErrorf("layers", "bad z1 in %q: %v", part, err)
		}
		eps, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, configErrorf("layers", "bad eps in %q: %v", part, err)
		}
		layers = append(layers, layer{z0: z0, z1: z1, epsR: eps})
	}
	return layers, nil
}

func (l layer) String() string {
	return fmt.Sprintf("z[%d,%d) eps_r=%g", l.z0, l.z1, l.epsR)
}
