package slab

import (
	"fmt"

	"github.com/phil-mansfield/mbslab/water"
)

// Build returns a copy of the packed cubic system sys stretched into a slab.
// x and y are unchanged, every z coordinate is shifted up by g.Gap(), and the
// box becomes [0, Side] x [0, Side] x [0, Height]. Atom and molecule identities
// are untouched. sys itself is not modified.
func Build(sys *water.System, g Geometry) (*water.System, error) {
	if sys == nil {
		return nil, fmt.Errorf("no system to build a slab from")
	}
	if err := g.CheckVacuum(); err != nil {
		return nil, err
	}

	out := sys.Clone()
	shift := g.Gap()
	for i := range out.Atoms {
		out.Atoms[i].Pos[2] += shift
	}
	out.Box = g.Box()

	return out, nil
}
