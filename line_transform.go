package main

import (
	"fmt"
	"log"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-fft/gpu"
	"gonum.org/v1/gonum/dsp/fourier"
)

// lineTransform is a 1D complex FFT over contiguous lines of a fixed length.
// Inverse is normalized so that Inverse(Forward(x)) == x.
type lineTransform interface {
	Len() int
	Forward(dst, src []complex128) error
	Inverse(dst, src []complex128) error
	Close() error
}

// FFT backend names accepted by -fft.
const (
	backendAlgo  = "algofft"
	backendGonum = "gonum"
	backendGPU   = "gpu"
)

// newLineTransform builds a transform of length n on the named backend. The
// algofft backend falls back to gonum for lengths it cannot plan.
func newLineTransform(backend string, n int) (lineTransform, error) {
	if n < 1 {
		return nil, configErrorf("fft", "line length must be positive, got %d", n)
	}
	switch backend {
	case backendAlgo, "":
		plan, err := algofft.NewPlanT[complex128](n)
		if err != nil {
			log.Printf("algofft cannot plan length %d (%v); using gonum", n, err)
			return newGonumTransform(n), nil
		}
		return &algoTransform{plan: plan, n: n}, nil
	case backendGonum:
		return newGonumTransform(n), nil
	case backendGPU:
		return newGPUTransform(n)
	}
	return nil, configErrorf("fft", "unknown backend %q", backend)
}

type algoTransform struct {
	plan *algofft.Plan[complex128]
	n    int
}

func (t *algoTransform) Len() int { return t.n }

func (t *algoTransform) Forward(dst, src []complex128) error {
	return t.plan.Forward(dst, src)
}

func (t *algoTransform) Inverse(dst, src []complex128) error {
	return t.plan.Inverse(dst, src)
}

func (t *algoTransform) Close() error { return nil }

// gonumTransform wraps fourier.CmplxFFT, whose Sequence is unnormalized.
type gonumTransform struct {
	fft   *fourier.CmplxFFT
	n     int
	scale complex128
}

func newGonumTransform(n int) *gonumTransform {
	return &gonumTransform{fft: fourier.NewCmplxFFT(n), n: n, scale: complex(1/float64(n), 0)}
}

func (t *gonumTransform) Len() int { return t.n }

func (t *gonumTransform) Forward(dst, src []complex128) error {
	if len(dst) < t.n || len(src) < t.n {
		return fmt.Errorf("gonum forward: length %d/%d below %d", len(dst), len(src), t.n)
	}
	t.fft.Coefficients(dst[:t.n], src[:t.n])
	return nil
}

func (t *gonumTransform) Inverse(dst, src []complex128) error {
	if len(dst) < t.n || len(src) < t.n {
		return fmt.Errorf("gonum inverse: length %d/%d below %d", len(dst), len(src), t.n)
	}
	t.fft.Sequence(dst[:t.n], src[:t.n])
	for i := 0; i < t.n; i++ {
		dst[i] *= t.scale
	}
	return nil
}

func (t *gonumTransform) Close() error { return nil }

// gpuTransform runs line FFTs through the algo-fft GPU plan API on whichever
// backend is registered.
type gpuTransform struct {
	plan *gpu.Plan[complex128]
}

func newGPUTransform(n int) (*gpuTransform, error) {
	if _, ok := gpu.CurrentBackendInfo(); !ok {
		gpu.RegisterMockBackend()
	}
	plan, err := gpu.NewPlan[complex128](n, gpu.PlanOptions{})
	if err != nil {
		return nil, &DeviceError{Op: fmt.Sprintf("gpu fft plan n=%d", n), Err: err}
	}
	return &gpuTransform{plan: plan}, nil
}

func (t *gpuTransform) Len() int { return t.plan.Len() }

func (t *gpuTransform) Forward(dst, src []complex128) error {
	return t.plan.Forward(dst, src)
}

func (t *gpuTransform) Inverse(dst, src []complex128) error {
	return t.plan.Inverse(dst, src)
}

func (t *gpuTransform) Close() error { return t.plan.Close() }
