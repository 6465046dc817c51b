package slab

import (
	"math"

	"github.com/phil-mansfield/mbslab/water"
)

// hydrogenReach pads the oxygen z-range to approximate the thickness of the
// liquid, accounting for the O-H bonds sticking out of either face.
const hydrogenReach = 3.0

// Profile summarizes where the liquid sits inside a slab.
type Profile struct {
	// ZMin and ZMax bound the oxygen z coordinates.
	ZMin, ZMax float64
	// Thickness is the approximate thickness of the liquid.
	Thickness float64
	// Vacuum is the approximate vacuum thickness on each side.
	Vacuum float64
	// Density is the approximate density of the liquid in g/cm^3.
	Density float64
}

// Measure computes the Profile of a slab. It returns the zero Profile if sys
// contains no oxygens.
func Measure(sys *water.System) Profile {
	ox := sys.Oxygens()
	if len(ox) == 0 {
		return Profile{}
	}

	p := Profile{ZMin: math.Inf(+1), ZMax: math.Inf(-1)}
	for i := range ox {
		p.ZMin = math.Min(p.ZMin, ox[i].Pos[2])
		p.ZMax = math.Max(p.ZMax, ox[i].Pos[2])
	}

	l := sys.Box.Lengths()
	p.Thickness = p.ZMax - p.ZMin + hydrogenReach
	p.Vacuum = (l[2] - p.Thickness) / 2

	volume := l[0] * l[1] * p.Thickness / CubicCentimeter
	p.Density = float64(len(ox)) * MolarMass / (Avogadro * volume)

	return p
}
