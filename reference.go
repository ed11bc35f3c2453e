package main

import (
	"math"
	"math/cmplx"
	"slices"
)

// referenceModel predicts normal-incidence reflectance and transmittance at a
// vacuum wavelength.
type referenceModel interface {
	reflectance(lambda float64) float64
	transmittance(lambda float64) float64
}

// fresnel is a single interface between two lossless half spaces.
type fresnel struct {
	n1, n2 float64
}

func (f fresnel) reflectance(float64) float64 {
	r := (f.n1 - f.n2) / (f.n1 + f.n2)
	return r * r
}

func (f fresnel) transmittance(float64) float64 {
	s := f.n1 + f.n2
	return 4 * f.n1 * f.n2 / (s * s)
}

// film is a homogeneous layer of index n and thickness d in metres.
type film struct {
	n, d float64
}

// transferMatrix is a stack of films between an incident and an exit medium,
// solved with characteristic matrices.
type transferMatrix struct {
	nIn, nOut float64
	films     []film
}

// stackFromLayers converts z slabs on a grid with spacing dz into films,
// filling gaps between slabs with vacuum. Layers must not overlap.
func stackFromLayers(layers []layer, dz float64) transferMatrix {
	sorted := slices.Clone(layers)
	slices.SortFunc(sorted, func(a, b layer) int { return a.z0 - b.z0 })
	tm := transferMatrix{nIn: 1, nOut: 1}
	for i, l := range sorted {
		if i > 0 && l.z0 > sorted[i-1].z1 {
			tm.films = append(tm.films, film{n: 1, d: float64(l.z0-sorted[i-1].z1) * dz})
		}
		tm.films = append(tm.films, film{n: math.Sqrt(l.epsR), d: float64(l.z1-l.z0) * dz})
	}
	return tm
}

// solve returns the amplitude reflection and transmission coefficients.
func (t transferMatrix) solve(lambda float64) (complex128, complex128) {
	m11, m12, m21, m22 := complex(1, 0), complex(0, 0), complex(0, 0), complex(1, 0)
	for _, f := range t.films {
		delta := 2 * math.Pi * f.n * f.d / lambda
		c := complex(math.Cos(delta), 0)
		s := complex(0, math.Sin(delta))
		n := complex(f.n, 0)
		a11, a12, a21, a22 := c, -s/n, -s*n, c
		m11, m12, m21, m22 = m11*a11+m12*a21, m11*a12+m12*a22, m21*a11+m22*a21, m21*a12+m22*a22
	}
	nIn, nOut := complex(t.nIn, 0), complex(t.nOut, 0)
	b := m11 + m12*nOut
	c := m21 + m22*nOut
	den := nIn*b + c
	return (nIn*b - c) / den, 2 * nIn / den
}

func (t transferMatrix) reflectance(lambda float64) float64 {
	r, _ := t.solve(lambda)
	return sqAbs(r)
}

func (t transferMatrix) transmittance(lambda float64) float64 {
	_, tr := t.solve(lambda)
	return t.nOut / t.nIn * cmplx.Abs(tr) * cmplx.Abs(tr)
}

// sample evaluates a model over a wavelength grid.
func sample(m referenceModel, wavelengths []float64) (ref, trs []float64) {
	ref = make([]float64, len(wavelengths))
	trs = make([]float64, len(wavelengths))
	for i, l := range wavelengths {
		ref[i] = m.reflectance(l)
		trs[i] = m.transmittance(l)
	}
	return ref, trs
}
