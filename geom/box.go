package geom

import (
	"fmt"
	"math"
)

var axisNames = [3]string{"x", "y", "z"}

// AxisName returns "x", "y", or "z".
func AxisName(dim int) string { return axisNames[dim] }

// Box is an orthorhombic simulation box which is periodic along all three
// axes.
type Box struct {
	Lo, Hi Vec
}

// Cube returns the box [0, side] x [0, side] x [0, side].
func Cube(side float64) Box {
	return Box{Hi: Vec{side, side, side}}
}

// Lengths returns the width of the box along each axis.
func (b Box) Lengths() Vec { return b.Hi.Sub(b.Lo) }

// Volume returns the volume of the box in cubic angstroms.
func (b Box) Volume() float64 {
	l := b.Lengths()
	return l[0] * l[1] * l[2]
}

// Check returns an error if the box is degenerate along any axis.
func (b Box) Check() error {
	if !b.Lo.IsFinite() || !b.Hi.IsFinite() {
		return fmt.Errorf("box bounds %v %v are not finite", b.Lo, b.Hi)
	}
	for dim := 0; dim < 3; dim++ {
		if b.Lo[dim] >= b.Hi[dim] {
			return fmt.Errorf(
				"%slo = %g must be less than %shi = %g",
				axisNames[dim], b.Lo[dim], axisNames[dim], b.Hi[dim],
			)
		}
	}
	return nil
}

// Contains returns true if v lies inside the box, allowing it to sit up to
// tol outside any face.
func (b Box) Contains(v Vec, tol float64) bool {
	for dim := 0; dim < 3; dim++ {
		if v[dim] < b.Lo[dim]-tol || v[dim] > b.Hi[dim]+tol {
			return false
		}
	}
	return true
}

// MinImage wraps each component of the displacement d into (-L/2, L/2],
// where L is the box width along that axis.
func (b Box) MinImage(d Vec) Vec {
	l := b.Lengths()
	return Vec{Wrap(d[0], l[0]), Wrap(d[1], l[1]), Wrap(d[2], l[2])}
}

// Dist returns the minimum-image distance from u to v.
func (b Box) Dist(u, v Vec) float64 {
	return b.MinImage(v.Sub(u)).Norm()
}

// Wrap maps the displacement d onto the periodic interval (-width/2, width/2].
func Wrap(d, width float64) float64 {
	return d - width*math.Ceil(d/width-0.5)
}
