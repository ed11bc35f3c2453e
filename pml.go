package main

import (
	"log"
	"math"
)

// side selects which boundary faces of an axis are affected.
type side int

const (
	sideNone side = iota
	sideLow
	sideHigh
	sideBoth
)

// parseSide accepts none|low|high|both as well as the "", "-", "+", "+-"
// shorthand.
func parseSide(s string) (side, error) {
	switch s {
	case "", "none":
		return sideNone, nil
	case "low", "-":
		return sideLow, nil
	case "high", "+":
		return sideHigh, nil
	case "both", "+-", "-+":
		return sideBoth, nil
	}
	return sideNone, configErrorf("side", "unknown boundary side %q", s)
}

func (s side) String() string {
	switch s {
	case sideLow:
		return "low"
	case sideHigh:
		return "high"
	case sideBoth:
		return "both"
	}
	return "none"
}

func (s side) low() bool  { return s == sideLow || s == sideBoth }
func (s side) high() bool { return s == sideHigh || s == sideBoth }

// pmlParams controls the polynomial grading of the absorbing layer.
type pmlParams struct {
	order      float64
	reflection float64
	kappaMax   float64
}

func defaultPMLParams() pmlParams {
	return pmlParams{order: defaultGradingOrder, reflection: defaultReflection, kappaMax: defaultKappaMax}
}

// axisProfile holds the electric and magnetic conductivity and grading along
// one axis, one entry per padded grid index.
type axisProfile struct {
	sigma  []float64
	kappa  []float64
	sigmaM []float64
	kappaM []float64
}

func newAxisProfile(n int) axisProfile {
	p := axisProfile{
		sigma:  make([]float64, n),
		kappa:  make([]float64, n),
		sigmaM: make([]float64, n),
		kappaM: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		p.kappa[i] = 1
		p.kappaM[i] = 1
	}
	return p
}

type face struct {
	a    axis
	high bool
}

// pmlProfile is the per-axis boundary profile built by applyPML and applyPEC.
type pmlProfile struct {
	g       *grid
	params  pmlParams
	axes    [3]axisProfile
	pmlFace map[face]bool
	pecFace map[face]bool
}

func newPMLProfile(g *grid, params pmlParams) *pmlProfile {
	p := &pmlProfile{
		g:       g,
		params:  params,
		pmlFace: make(map[face]bool),
		pecFace: make(map[face]bool),
	}
	for _, a := range allAxes {
		p.axes[a] = newAxisProfile(g.n[a])
	}
	return p
}

// impedance0 is the intrinsic impedance of free space.
var impedance0 = math.Sqrt(mu0 / eps0)

// sigmaMax returns the peak conductivity that yields the target reflection
// for a layer of the given physical thickness.
func sigmaMax(order, reflection, thickness float64) float64 {
	return -(order + 1) * math.Log(reflection) / (2 * impedance0 * thickness)
}

// applyPML writes the graded profile into the padding cells on the chosen
// side(s) of axis a.
func (p *pmlProfile) applyPML(a axis, s side) error {
	if s == sideNone {
		return nil
	}
	pad := p.g.padding[a]
	if pad == 0 {
		return configErrorf("pml", "%s axis has no padding cells", a)
	}
	if p.params.order < 0 || !(p.params.reflection > 0 && p.params.reflection < 1) || p.params.kappaMax < 1 {
		return configErrorf("pml", "invalid grading parameters %+v", p.params)
	}
	prof := &p.axes[a]
	n := p.g.n[a]
	smax := sigmaMax(p.params.order, p.params.reflection, float64(pad)*p.g.spacing[a])
	eta2 := impedance0 * impedance0
	for i := 0; i < pad; i++ {
		grade := math.Pow(float64(pad-i)/float64(pad), p.params.order)
		sigma := smax * grade
		kappa := 1 + (p.params.kappaMax-1)*grade
		if s.low() {
			prof.sigma[i], prof.kappa[i] = sigma, kappa
			prof.sigmaM[i], prof.kappaM[i] = sigma*eta2, kappa
		}
		if s.high() {
			j := n - 1 - i
			prof.sigma[j], prof.kappa[j] = sigma, kappa
			prof.sigmaM[j], prof.kappaM[j] = sigma*eta2, kappa
		}
	}
	p.markFaces(a, s, p.pmlFace, p.pecFace, "PML")
	return nil
}

// applyPEC terminates the chosen face(s) with an effectively infinite grading
// factor on the outermost cell.
func (p *pmlProfile) applyPEC(a axis, s side) error {
	if s == sideNone {
		return nil
	}
	prof := &p.axes[a]
	if s.low() {
		prof.kappa[0] = pecKappa
	}
	if s.high() {
		prof.kappa[p.g.n[a]-1] = pecKappa
	}
	p.markFaces(a, s, p.pecFace, p.pmlFace, "PEC")
	return nil
}

// markFaces records which boundary treatment was applied last to each face.
// Applying both to one face is almost certainly a setup mistake; the later
// call wins and a warning is logged.
func (p *pmlProfile) markFaces(a axis, s side, mine, other map[face]bool, what string) {
	for _, f := range []face{{a, false}, {a, true}} {
		if (f.high && !s.high()) || (!f.high && !s.low()) {
			continue
		}
		if other[f] {
			where := "low"
			if f.high {
				where = "high"
			}
			log.Printf("warning: %s overrides earlier boundary on %s %s face", what, a, where)
			delete(other, f)
		}
		mine[f] = true
	}
}

// weights holds the p/m update weights of one axis:
// p = 2*eps0*kappa + sigma*dt, m = 2*eps0*kappa - sigma*dt and the magnetic
// analogs with mu0.
type weights struct {
	p, m, mp, mm []float64
}

func (p *pmlProfile) weights(a axis) weights {
	prof := p.axes[a]
	dt := p.g.dt
	n := len(prof.sigma)
	w := weights{
		p:  make([]float64, n),
		m:  make([]float64, n),
		mp: make([]float64, n),
		mm: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		w.p[i] = 2*eps0*prof.kappa[i] + prof.sigma[i]*dt
		w.m[i] = 2*eps0*prof.kappa[i] - prof.sigma[i]*dt
		w.mp[i] = 2*mu0*prof.kappaM[i] + prof.sigmaM[i]*dt
		w.mm[i] = 2*mu0*prof.kappaM[i] - prof.sigmaM[i]*dt
	}
	return w
}
