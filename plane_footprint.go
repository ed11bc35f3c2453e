package main

import "gonum.org/v1/gonum/cmplxs"

// planeFootprint is the precomputed set of flat indices covering one grid
// plane normal to an axis, together with a gather buffer for reductions.
type planeFootprint struct {
	normal  axis
	index   int
	cells   []int
	scratch []complex128
}

func newPlaneFootprint(g *grid, normal axis, index int) (*planeFootprint, error) {
	idx, err := g.resolveIndex(normal, index)
	if err != nil {
		return nil, err
	}
	u := normal.next()
	v := u.next()
	cells := make([]int, 0, g.n[u]*g.n[v])
	var c cellIndex
	c[normal] = idx
	for i := 0; i < g.n[u]; i++ {
		c[u] = i
		for j := 0; j < g.n[v]; j++ {
			c[v] = j
			cells = append(cells, g.index(c[0], c[1], c[2]))
		}
	}
	return &planeFootprint{
		normal:  normal,
		index:   idx,
		cells:   cells,
		scratch: make([]complex128, len(cells)),
	}, nil
}

// gather copies the plane out of field into the footprint's scratch buffer.
func (p *planeFootprint) gather(field []complex128) []complex128 {
	for i, idx := range p.cells {
		p.scratch[i] = field[idx]
	}
	return p.scratch
}

// mean returns the spatial average of field over the plane.
func (p *planeFootprint) mean(field []complex128) complex128 {
	vals := p.gather(field)
	return cmplxs.Sum(vals) / complex(float64(len(vals)), 0)
}
