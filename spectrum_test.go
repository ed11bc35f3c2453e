package main

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestWavelengthGrid(tst *testing.T) {
	chk.PrintTitle("wavelength grid")

	wl, err := wavelengthGrid(defaultLambdaMin, defaultLambdaMax, defaultLambdaStep)
	if err != nil {
		tst.Fatalf("wavelengthGrid: %v", err)
	}
	chk.Int(tst, "points", len(wl), 801)
	chk.Float64(tst, "first", 1e-20, wl[0], 400*nm)
	chk.Float64(tst, "last", 1e-20, wl[len(wl)-1], 800*nm)
	chk.Float64(tst, "step", 1e-18, wl[1]-wl[0], 0.5*nm)

	if _, err := wavelengthGrid(800*nm, 400*nm, nm); !errors.Is(err, errConfig) {
		tst.Errorf("inverted band: want errConfig, got %v", err)
	}
	chk.Float64(tst, "frequency", 1, frequencies([]float64{500 * nm})[0], speedOfLight/(500*nm))
}

func TestDTFT(tst *testing.T) {
	dt := 1e-16
	freqs := []float64{0, 1e14, 3e14}

	// A unit sample at n=0 has a flat spectrum.
	out := dtft([]float64{1, 0, 0, 0}, dt, freqs)
	norm := dt / math.Sqrt(2*math.Pi)
	for i := range freqs {
		chk.Float64(tst, "delta re", norm*1e-12, real(out[i]), norm)
		chk.Float64(tst, "delta im", norm*1e-12, imag(out[i]), 0)
	}

	// A shifted sample only changes phase.
	shifted := dtft([]float64{0, 0, 2}, dt, freqs)
	for i, f := range freqs {
		chk.Float64(tst, "shift mag", norm*1e-12, cmplx.Abs(shifted[i]), 2*norm)
		want := 2 * 2 * math.Pi * f * dt
		got := cmplx.Phase(shifted[i])
		if d := math.Remainder(got-want, 2*math.Pi); math.Abs(d) > 1e-9 {
			tst.Errorf("phase at %g Hz: got %g, want %g", f, got, want)
		}
	}
}

func TestComputeSpectraRatios(tst *testing.T) {
	chk.PrintTitle("spectra ratios")

	dt := 1e-17
	pulse, err := newPulseSource(400*nm, 800*nm, 0.2, 1500, dt)
	if err != nil {
		tst.Fatalf("newPulseSource: %v", err)
	}
	p := newProbeSeries(3000)
	for n := 0; n < 3000; n++ {
		src := pulse.atStep(n)
		// Reflected is half the source; transmitted is a delayed third.
		p.record(1.5*src, src, 0.5*src, pulse.atStep(n-200)/3)
	}
	wl, err := wavelengthGrid(450*nm, 750*nm, 50*nm)
	if err != nil {
		tst.Fatalf("wavelengthGrid: %v", err)
	}
	s := computeSpectra(p, dt, wl)
	for i := range wl {
		chk.Float64(tst, "R", 1e-9, s.reflectance[i], 0.25)
		chk.Float64(tst, "T", 1e-6, s.transmittance[i], 1.0/9)
		chk.Float64(tst, "total", 1e-6, s.total[i], 0.25+1.0/9)
	}
	chk.Array(tst, "wavelengths kept", 0, s.wavelength, wl)

	// With the gate past the end only zeros remain.
	g := gatedSpectra(p, dt, wl, 5000)
	for i := range wl {
		chk.Float64(tst, "gated R", 0, g.reflectance[i], 0)
	}
	// Gate at zero uses the raw input.
	g = gatedSpectra(p, dt, wl, 0)
	chk.Float64(tst, "ungated input R", 1e-9, g.reflectance[0], 2.25)
}

func TestPeakFrequency(tst *testing.T) {
	dt := 1e-16
	f0 := 4e14
	x := make([]float64, 1024)
	for n := range x {
		x[n] = math.Sin(2 * math.Pi * f0 * float64(n) * dt)
	}
	binWidth := 1 / (float64(len(x)) * dt)
	chk.Float64(tst, "peak", binWidth, peakFrequency(x, dt), f0)

	spec, freq := fftSpectrum(x, dt, false)
	chk.Int(tst, "bins", len(spec), len(x))
	chk.Int(tst, "freqs", len(freq), len(x))
	chk.Float64(tst, "energy", 1e-9, seriesEnergy([]float64{3, 4}), 25)
}
