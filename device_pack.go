package main

// packComplex writes src as interleaved float32 real/imag pairs into dst,
// the float2 layout used by device kernels. dst must hold 2*len(src) values.
func packComplex(dst []float32, src []complex128) {
	for i, v := range src {
		dst[2*i] = float32(real(v))
		dst[2*i+1] = float32(imag(v))
	}
}

// unpackComplex expands interleaved float32 pairs back into complex values.
// dst must be at least len(src)/2.
func unpackComplex(dst []complex128, src []float32) {
	for i := range dst[:len(src)/2] {
		dst[i] = complex(float64(src[2*i]), float64(src[2*i+1]))
	}
}

// packIndices converts flat cell indices to the int32 form device kernels take.
func packIndices(dst []int32, src []int) []int32 {
	if cap(dst) < len(src) {
		dst = make([]int32, len(src))
	}
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = int32(v)
	}
	return dst
}
