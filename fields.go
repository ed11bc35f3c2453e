package main

import "fmt"

// fieldState stores the twelve field components plus the scratch buffers the
// update needs. It is owned by a single simulation.
type fieldState struct {
	size int
	E    [3][]complex128
	D    [3][]complex128
	H    [3][]complex128
	B    [3][]complex128

	// diff1 and diff2 receive the two partial derivatives of a curl, curl
	// receives their difference.
	diff1, diff2, curl []complex128
	// previous holds B_a or D_a from before the current update.
	previous []complex128
}

// newFieldState allocates zeroed buffers for size cells.
func newFieldState(size int) *fieldState {
	f := &fieldState{size: size}
	for _, a := range allAxes {
		f.E[a] = make([]complex128, size)
		f.D[a] = make([]complex128, size)
		f.H[a] = make([]complex128, size)
		f.B[a] = make([]complex128, size)
	}
	f.diff1 = make([]complex128, size)
	f.diff2 = make([]complex128, size)
	f.curl = make([]complex128, size)
	f.previous = make([]complex128, size)
	return f
}

// component returns the named array, e.g. "Ex" or "Hz".
func (f *fieldState) component(name string) ([]complex128, error) {
	if len(name) != 2 {
		return nil, configErrorf("field", "unknown component %q", name)
	}
	a, err := parseAxis(name[1:])
	if err != nil {
		return nil, configErrorf("field", "unknown component %q", name)
	}
	switch name[0] {
	case 'E':
		return f.E[a], nil
	case 'D':
		return f.D[a], nil
	case 'H':
		return f.H[a], nil
	case 'B':
		return f.B[a], nil
	}
	return nil, configErrorf("field", "unknown component %q", name)
}

// load replaces a component with the given values, for seeding an initial
// condition.
func (f *fieldState) load(name string, values []complex128) error {
	dst, err := f.component(name)
	if err != nil {
		return err
	}
	if len(values) != len(dst) {
		return &NumericConsistencyError{
			Array:  name,
			Reason: fmt.Sprintf("got %d values for %d cells", len(values), len(dst)),
		}
	}
	copy(dst, values)
	return nil
}
