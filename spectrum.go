package main

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
)

// wavelengthGrid returns evenly spaced wavelengths from lo to hi inclusive
// with the given step.
func wavelengthGrid(lo, hi, step float64) ([]float64, error) {
	if !(lo > 0) || !(hi > lo) || !(step > 0) {
		return nil, configErrorf("wavelengths", "need 0 < lo < hi and step > 0, got %g, %g, %g", lo, hi, step)
	}
	n := int(math.Round((hi-lo)/step)) + 1
	return floats.Span(make([]float64, n), lo, hi), nil
}

// frequencies converts wavelengths in vacuum to frequencies in Hz.
func frequencies(wavelengths []float64) []float64 {
	out := make([]float64, len(wavelengths))
	for i, l := range wavelengths {
		out[i] = speedOfLight / l
	}
	return out
}

// dtft evaluates dt * sum_n x[n] exp(i 2 pi f n dt) / sqrt(2 pi) at every f.
func dtft(x []float64, dt float64, freqs []float64) []complex128 {
	out := make([]complex128, len(freqs))
	norm := complex(dt/math.Sqrt(2*math.Pi), 0)
	for fi, f := range freqs {
		w := 2 * math.Pi * f * dt
		var acc complex128
		for n, v := range x {
			if v == 0 {
				continue
			}
			acc += complex(v, 0) * cmplx.Exp(complex(0, w*float64(n)))
		}
		out[fi] = acc * norm
	}
	return out
}

// spectra is the reflectance and transmittance of a run on a wavelength grid.
type spectra struct {
	wavelength    []float64
	frequency     []float64
	reflectance   []float64
	transmittance []float64
	total         []float64
}

// computeSpectra normalizes the reflected and transmitted probe spectra by the
// source spectrum: R = |X_ref|^2/|X_src|^2 and T = |X_trs|^2/|X_src|^2.
func computeSpectra(p *probeSeries, dt float64, wavelengths []float64) *spectra {
	freqs := frequencies(wavelengths)
	src := dtft(p.source, dt, freqs)
	ref := dtft(p.reflected, dt, freqs)
	trs := dtft(p.transmitted, dt, freqs)
	return newSpectra(wavelengths, freqs, src, ref, trs)
}

// gatedSpectra is computeSpectra with the reflected series taken as the raw
// input probe from gate onward and zero before it. Once the incident pulse
// has fully passed the source plane this avoids the subtraction of the
// analytic incident field.
func gatedSpectra(p *probeSeries, dt float64, wavelengths []float64, gate int) *spectra {
	gated := make([]float64, len(p.input))
	if gate < len(gated) {
		copy(gated[max(gate, 0):], p.input[max(gate, 0):])
	}
	freqs := frequencies(wavelengths)
	src := dtft(p.source, dt, freqs)
	ref := dtft(gated, dt, freqs)
	trs := dtft(p.transmitted, dt, freqs)
	return newSpectra(wavelengths, freqs, src, ref, trs)
}

func newSpectra(wavelengths, freqs []float64, src, ref, trs []complex128) *spectra {
	s := &spectra{
		wavelength:    wavelengths,
		frequency:     freqs,
		reflectance:   make([]float64, len(freqs)),
		transmittance: make([]float64, len(freqs)),
		total:         make([]float64, len(freqs)),
	}
	for i := range freqs {
		p := sqAbs(src[i])
		s.reflectance[i] = sqAbs(ref[i]) / p
		s.transmittance[i] = sqAbs(trs[i]) / p
	}
	floats.AddTo(s.total, s.reflectance, s.transmittance)
	return s
}

// fftSpectrum returns the FFT-bin spectrum of a real series, optionally
// Hann-windowed first, along with the bin frequencies.
func fftSpectrum(x []float64, dt float64, hann bool) ([]complex128, []float64) {
	buf := append([]float64(nil), x...)
	if hann {
		window.Apply(buf, window.Hann)
	}
	return fft.FFTReal(buf), fftFreq(len(buf), dt)
}

// peakFrequency returns the positive bin frequency with the largest spectral
// magnitude.
func peakFrequency(x []float64, dt float64) float64 {
	spec, freq := fftSpectrum(x, dt, true)
	best, bestMag := 0.0, -1.0
	for i, v := range spec {
		if freq[i] <= 0 {
			continue
		}
		if m := cmplx.Abs(v); m > bestMag {
			best, bestMag = freq[i], m
		}
	}
	return best
}

// seriesEnergy is the sum of squares of a series.
func seriesEnergy(x []float64) float64 {
	return floats.Dot(x, x)
}
