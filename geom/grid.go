package geom

import (
	"math"
)

// Grid provides an interface for reasoning over a periodic box as if it were
// a 3D grid of cells. It is used as a cell list: any two points closer than
// the cutoff used to build the Grid lie in the same or in adjacent cells.
type Grid struct {
	Cells                [3]int
	Width                Vec
	Length, Area, Volume int
	box                  Box
}

// NewGrid returns a new Grid instance whose cells are at least cutoff wide.
func NewGrid(box Box, cutoff float64) *Grid {
	g := &Grid{}
	g.Init(box, cutoff)
	return g
}

// Init initializes a Grid instance.
func (g *Grid) Init(box Box, cutoff float64) {
	g.box = box
	l := box.Lengths()

	for i := 0; i < 3; i++ {
		g.Cells[i] = 1
		if cutoff > 0 {
			if n := int(math.Floor(l[i] / cutoff)); n > 1 {
				g.Cells[i] = n
			}
		}
		g.Width[i] = l[i] / float64(g.Cells[i])
	}

	g.Length = g.Cells[0]
	g.Area = g.Cells[0] * g.Cells[1]
	g.Volume = g.Cells[0] * g.Cells[1] * g.Cells[2]
}

// Usable returns true if the grid has at least three cells along every axis,
// which is what's needed for the 27 cells around any cell to be distinct.
func (g *Grid) Usable() bool {
	return g.Cells[0] >= 3 && g.Cells[1] >= 3 && g.Cells[2] >= 3
}

// MinWidth returns the narrowest cell width.
func (g *Grid) MinWidth() float64 {
	return math.Min(g.Width[0], math.Min(g.Width[1], g.Width[2]))
}

// Idx returns the grid index corresponding to a set of cell coordinates.
// Coordinates outside the grid are wrapped periodically.
func (g *Grid) Idx(x, y, z int) int {
	x, y, z = pMod(x, g.Cells[0]), pMod(y, g.Cells[1]), pMod(z, g.Cells[2])
	return x + y*g.Length + z*g.Area
}

// Coords returns the x, y, z cell coordinates of a cell from its grid index.
func (g *Grid) Coords(idx int) (x, y, z int) {
	x = idx % g.Length
	y = (idx % g.Area) / g.Length
	z = idx / g.Area
	return x, y, z
}

// CellIdx returns the index of the cell containing v. Points which sit
// slightly outside the box are assigned to the periodic image cell.
func (g *Grid) CellIdx(v Vec) int {
	var c [3]int
	for i := 0; i < 3; i++ {
		c[i] = int(math.Floor((v[i] - g.box.Lo[i]) / g.Width[i]))
	}
	return g.Idx(c[0], c[1], c[2])
}

// Bin returns the indices of the points inside each cell. Within a cell the
// indices are in increasing order.
func (g *Grid) Bin(pts []Vec) [][]int {
	cells := make([][]int, g.Volume)
	for i := range pts {
		idx := g.CellIdx(pts[i])
		cells[idx] = append(cells[idx], i)
	}
	return cells
}

// Neighbors appends the indices of the 27 cells surrounding (and including)
// the cell idx to buf and returns the result. Indices are only guaranteed to
// be distinct if g.Usable() is true.
func (g *Grid) Neighbors(idx int, buf []int) []int {
	x, y, z := g.Coords(idx)
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				buf = append(buf, g.Idx(x+dx, y+dy, z+dz))
			}
		}
	}
	return buf
}

// pMod computes the positive modulo x % y.
func pMod(x, y int) int {
	m := x % y
	if m < 0 {
		m += y
	}
	return m
}
