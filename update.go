package main

// advance performs one full leapfrog step: soft source, probes, the three
// B/H pairs, the three D/E pairs and the end-of-step barrier.
func (s *simulation) advance() error {
	f := s.fields
	ex := f.E[axisX]

	pulse := 0.0
	if s.pulse != nil {
		pulse = s.pulse.atStep(s.step)
	}
	if pulse != 0 {
		if err := s.queue.AddPlane(ex, s.srcPlane.cells, complex(pulse, 0)); err != nil {
			return s.fail("E", axisX, err)
		}
	}

	input := real(s.srcPlane.mean(ex))
	source := pulse / (2 * s.g.courant)
	s.probes.record(input, source, input-source, real(s.trsPlane.mean(ex)))

	for _, a := range allAxes {
		if err := s.updateMagnetic(a); err != nil {
			return err
		}
	}
	for _, a := range allAxes {
		if err := s.updateElectric(a); err != nil {
			return err
		}
	}
	if err := s.queue.Barrier(); err != nil {
		return s.fail("barrier", axisX, err)
	}
	s.step++
	return nil
}

// curlInto writes d(src_c)/db - d(src_b)/dc into the curl scratch buffer for
// component a.
func (s *simulation) curlInto(src [3][]complex128, a axis) error {
	f := s.fields
	b := a.next()
	c := b.next()
	if err := s.spectral.derivative(f.diff1, src[c], b); err != nil {
		return err
	}
	if err := s.spectral.derivative(f.diff2, src[b], c); err != nil {
		return err
	}
	return s.queue.Sub(f.curl, f.diff1, f.diff2)
}

func (s *simulation) fail(equation string, a axis, err error) error {
	return &stepError{Step: s.step, Equation: equation, Axis: a, Err: err}
}

// updateMagnetic advances B then H along a. The curl and B stages fail as
// "B", the constitutive stage as "H".
func (s *simulation) updateMagnetic(a axis) error {
	f := s.fields
	k := &s.coeffs.comp[a]
	if err := s.queue.Copy(f.previous, f.B[a]); err != nil {
		return s.fail("B", a, err)
	}
	if err := s.curlInto(f.E, a); err != nil {
		return s.fail("B", a, err)
	}
	if err := s.queue.Lincomb2(f.B[a], k.cb1, f.B[a], k.cb2, f.curl); err != nil {
		return s.fail("B", a, err)
	}
	if err := s.queue.Lincomb3(f.H[a], k.ch1, f.H[a], k.ch2, f.B[a], k.ch3, f.previous); err != nil {
		return s.fail("H", a, err)
	}
	return nil
}

func (s *simulation) updateElectric(a axis) error {
	f := s.fields
	k := &s.coeffs.comp[a]
	if err := s.queue.Copy(f.previous, f.D[a]); err != nil {
		return s.fail("D", a, err)
	}
	if err := s.curlInto(f.H, a); err != nil {
		return s.fail("D", a, err)
	}
	var err error
	if k.cdLoss != nil {
		err = s.queue.Lincomb3(f.D[a], k.cd1, f.D[a], k.cd2, f.curl, k.cdLoss, f.E[a])
	} else {
		err = s.queue.Lincomb2(f.D[a], k.cd1, f.D[a], k.cd2, f.curl)
	}
	if err != nil {
		return s.fail("D", a, err)
	}
	if err := s.queue.Lincomb3(f.E[a], k.ce1, f.E[a], k.ce2, f.D[a], k.ce3, f.previous); err != nil {
		return s.fail("E", a, err)
	}
	return nil
}
