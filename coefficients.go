package main

import (
	"fmt"
	"math"
	"math/cmplx"
)

// componentCoefficients are the broadcast update factors for one field
// component. The magnetic pair reads
//
//	B = cb1*B + cb2*curlE
//	H = ch1*H + ch2*B + ch3*Bprev
//
// and the electric pair
//
//	D = cd1*D + cd2*curlH + cdLoss*E
//
// where cdLoss, present only for conductive media, carries the
// semi-implicit conduction term (see foldConduction).
//	E = ce1*E + ce2*D + ce3*Dprev
type componentCoefficients struct {
	cb1, cb2      []complex128
	ch1, ch2, ch3 []complex128
	cd1, cd2      []complex128
	ce1, ce2, ce3 []complex128
	cdLoss        []complex128
}

// leapfrogCoefficients holds the factors for x, y and z. Built once and never
// mutated.
type leapfrogCoefficients struct {
	comp [3]componentCoefficients
}

// buildCoefficients derives the leapfrog factors from the boundary profile and
// the medium and seals the medium.
func buildCoefficients(g *grid, prof *pmlProfile, med *medium) (*leapfrogCoefficients, error) {
	if med.g != g || prof.g != g {
		return nil, &NumericConsistencyError{Array: "coefficients", Reason: "profile, medium and grid disagree"}
	}
	var w [3]weights
	for _, a := range allAxes {
		w[a] = prof.weights(a)
	}
	dt := g.dt
	size := g.size()
	lc := &leapfrogCoefficients{}
	for _, a := range allAxes {
		b := a.next()
		c := b.next()
		cc := componentCoefficients{
			cb1: make([]complex128, size), cb2: make([]complex128, size),
			ch1: make([]complex128, size), ch2: make([]complex128, size), ch3: make([]complex128, size),
			cd1: make([]complex128, size), cd2: make([]complex128, size),
			ce1: make([]complex128, size), ce2: make([]complex128, size), ce3: make([]complex128, size),
		}
		if med.lossy {
			cc.cdLoss = make([]complex128, size)
		}
		eps := med.eps[a]
		mu := med.mu[a]
		sig := med.conductivity[a]
		for i := 0; i < g.n[0]; i++ {
			for j := 0; j < g.n[1]; j++ {
				base := g.index(i, j, 0)
				coord := [3]int{i, j, 0}
				for k := 0; k < g.n[2]; k++ {
					coord[2] = k
					idx := base + k
					ia, ib, ic := coord[a], coord[b], coord[c]

					cc.cb1[idx] = complex(w[b].mm[ib]/w[b].mp[ib], 0)
					cc.cb2[idx] = complex(-2*mu0*dt/w[b].mp[ib], 0)
					cc.ch1[idx] = complex(w[c].mm[ic]/w[c].mp[ic], 0)
					cc.ch2[idx] = complex(w[a].mp[ia]/w[c].mp[ic], 0) / mu[idx]
					cc.ch3[idx] = complex(-w[a].mm[ia]/w[c].mp[ic], 0) / mu[idx]

					cd1 := complex(w[b].m[ib]/w[b].p[ib], 0)
					cd2 := complex(2*eps0*dt/w[b].p[ib], 0)
					ce1 := complex(w[c].m[ic]/w[c].p[ic], 0)
					ce2 := complex(w[a].p[ia]/w[c].p[ic], 0) / eps[idx]
					ce3 := complex(-w[a].m[ia]/w[c].p[ic], 0) / eps[idx]
					if cc.cdLoss != nil && sig[idx] != 0 {
						cd1, cd2, cc.cdLoss[idx] = foldConduction(cd1, cd2, ce1, ce2, ce3, sig[idx])
					}
					cc.cd1[idx], cc.cd2[idx] = cd1, cd2
					cc.ce1[idx], cc.ce2[idx], cc.ce3[idx] = ce1, ce2, ce3
				}
			}
		}
		if err := cc.check(a); err != nil {
			return nil, err
		}
		lc.comp[a] = cc
	}
	med.seal()
	return lc, nil
}

// foldConduction solves the D update with the conduction current taken at
// the mean of the old and new E,
//
//	D' = cd1*D + cd2*(curlH - sigma*(E + E')/2),  E' = ce1*E + ce2*D' + ce3*D
//
// for D', returning the rescaled cd1, cd2 and the E factor. The result is
// stable for any sigma >= 0.
func foldConduction(cd1, cd2, ce1, ce2, ce3 complex128, sigma float64) (complex128, complex128, complex128) {
	half := cd2 * complex(sigma/2, 0)
	den := 1 + half*ce2
	return (cd1 - half*ce3) / den, cd2 / den, -half * (1 + ce1) / den
}

func (cc *componentCoefficients) named() map[string][]complex128 {
	m := map[string][]complex128{
		"cb1": cc.cb1, "cb2": cc.cb2,
		"ch1": cc.ch1, "ch2": cc.ch2, "ch3": cc.ch3,
		"cd1": cc.cd1, "cd2": cc.cd2,
		"ce1": cc.ce1, "ce2": cc.ce2, "ce3": cc.ce3,
	}
	if cc.cdLoss != nil {
		m["cdLoss"] = cc.cdLoss
	}
	return m
}

// check rejects NaN or Inf factors, which would otherwise only surface as a
// blown-up field many steps later.
func (cc *componentCoefficients) check(a axis) error {
	for name, arr := range cc.named() {
		for idx, v := range arr {
			if cmplx.IsNaN(v) || cmplx.IsInf(v) {
				return &NumericConsistencyError{
					Array:  fmt.Sprintf("%s%s", name, a),
					Reason: fmt.Sprintf("non-finite value %v at flat index %d", v, idx),
				}
			}
		}
	}
	return nil
}

// lineAlong extracts the real part of arr along axis a through cell at.
func lineAlong(g *grid, arr []complex128, a axis, at cellIndex) []float64 {
	out := make([]float64, g.n[a])
	c := at
	for i := range out {
		c[a] = i
		out[i] = real(arr[g.index(c[0], c[1], c[2])])
	}
	return out
}

// maxAbs returns the largest modulus in arr.
func maxAbs(arr []complex128) float64 {
	m := 0.0
	for _, v := range arr {
		m = math.Max(m, cmplx.Abs(v))
	}
	return m
}
