/*package slab computes the dimensions of an air/water slab and turns a packed
cubic water box into that slab.

The liquid is packed into a cube of width Side. The slab keeps x and y
periodic at Side and stretches z to Height = ZMultiplier * Side, centering the
liquid so that the vacuum gap above and below it is (Height - Side) / 2.
*/
package slab

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/mbslab/geom"
)

const (
	// MolarMass is the molar mass of water in g/mol.
	MolarMass = 18.01528
	// Avogadro is Avogadro's number in 1/mol.
	Avogadro = 6.02214076e23
	// CubicCentimeter is one cubic centimeter expressed in cubic angstroms.
	CubicCentimeter = 1e24
)

// DomainError is returned when the requested molecule count, density, or
// vacuum multiplier is outside of its allowed range.
type DomainError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("invalid %s = %g: %s", e.Param, e.Value, e.Reason)
}

// GeometryError is returned when a slab cannot be built from the given
// dimensions.
type GeometryError struct {
	Side, Height float64
	Reason       string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("slab height %g with cubic side %g: %s",
		e.Height, e.Side, e.Reason)
}

// Geometry is the pair of box dimensions that every later stage works with,
// along with the inputs that produced them. All lengths are in angstroms.
type Geometry struct {
	Molecules   int
	Density     float64
	ZMultiplier float64

	Side, Height float64
}

// Plan computes the side length of the cube that holds n water molecules at
// the given density (g/cm^3) and the height of the slab built from it.
func Plan(n int, density, zMult float64) (Geometry, error) {
	if n <= 0 {
		return Geometry{}, &DomainError{
			"molecule count", float64(n), "must be positive",
		}
	} else if density <= 0 || math.IsNaN(density) || math.IsInf(density, 0) {
		return Geometry{}, &DomainError{
			"density", density, "must be a positive, finite number of g/cm^3",
		}
	} else if zMult < 1 || math.IsNaN(zMult) || math.IsInf(zMult, 0) {
		return Geometry{}, &DomainError{
			"z multiplier", zMult, "must be a finite number >= 1 so that " +
				"periodic images of the liquid cannot touch across the vacuum",
		}
	}

	volume := float64(n) * MolarMass / (density * Avogadro) * CubicCentimeter
	side := math.Cbrt(volume)

	g := Geometry{
		Molecules: n, Density: density, ZMultiplier: zMult,
		Side: side, Height: zMult * side,
	}
	return g, nil
}

// Gap returns the width of the vacuum region on each side of the liquid.
func (g Geometry) Gap() float64 { return (g.Height - g.Side) / 2 }

// CheckVacuum returns a *GeometryError if the slab leaves no vacuum gap.
func (g Geometry) CheckVacuum() error {
	if !(g.Side > 0) {
		return &GeometryError{g.Side, g.Height, "cubic side must be positive"}
	} else if g.Height < g.Side {
		return &GeometryError{
			g.Side, g.Height, "slab is shorter than the liquid it contains",
		}
	} else if g.Height == g.Side {
		return &GeometryError{g.Side, g.Height, "no usable vacuum gap"}
	}
	return nil
}

// Cube returns the periodic box the liquid is packed into.
func (g Geometry) Cube() geom.Box { return geom.Cube(g.Side) }

// Box returns the periodic box of the slab.
func (g Geometry) Box() geom.Box {
	return geom.Box{Hi: geom.Vec{g.Side, g.Side, g.Height}}
}
