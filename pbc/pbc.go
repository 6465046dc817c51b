/*package pbc checks that no two oxygen atoms in a water system sit closer
than MinSeparation under full three-dimensional periodic boundary conditions.

Images are taken along z too, even though a slab has a vacuum gap there, so
the liquid can never touch its own periodic image through the vacuum.
*/
package pbc

import (
	"fmt"
	"math"
	"sort"

	"github.com/phil-mansfield/mbslab/geom"
	"github.com/phil-mansfield/mbslab/water"
)

// MinSeparation is the smallest allowed O-O distance in angstroms. The MBX
// induced-dipole solver fails to converge on closer contacts.
const MinSeparation = 2.0

// cellScale sets the width of cell-list cells in units of the threshold.
const cellScale = 2.0

// Violation is a pair of oxygens closer than the threshold. I and J are atom
// IDs with I <= J. I == J means the atom is too close to its own image.
type Violation struct {
	I, J       int
	MolI, MolJ int
	Distance   float64
}

// Report is the outcome of a separation check. Two reports computed from the
// same positions and box are identical.
type Report struct {
	Pass      bool
	Threshold float64
	Oxygens   int

	// MinDistance is the smallest minimum-image O-O distance and MinPair the
	// atom IDs realizing it. MinDistance is +Inf if there is no pair.
	MinDistance float64
	MinPair     [2]int

	// Violations are sorted by (I, J).
	Violations []Violation
}

// ValidationError is returned by Report.Err for a failing report.
type ValidationError struct {
	Report *Report
}

func (e *ValidationError) Error() string {
	r := e.Report
	return fmt.Sprintf(
		"minimum O-O distance %.4f A between atoms %d and %d is below "+
			"%.1f A (%d violating pairs)",
		r.MinDistance, r.MinPair[0], r.MinPair[1], r.Threshold,
		len(r.Violations),
	)
}

// Err returns nil if the report passed and a *ValidationError otherwise.
func (r *Report) Err() error {
	if r.Pass {
		return nil
	}
	return &ValidationError{r}
}

// Validate checks every pair of oxygens in sys against MinSeparation.
func Validate(sys *water.System) *Report {
	return validate(sys, MinSeparation, true)
}

// validate checks all oxygen pairs against threshold. If cells is true and
// the box is large enough, a cell list is used to skip distant pairs.
func validate(sys *water.System, threshold float64, cells bool) *Report {
	s := newScanner(sys, threshold)
	s.selfImages()

	g := geom.NewGrid(sys.Box, cellScale*threshold)
	if cells && g.Usable() {
		s.cellPairs(g)
		if s.r.MinDistance >= g.MinWidth() {
			// The closest pair may lie outside of neighboring cells.
			s = newScanner(sys, threshold)
			s.selfImages()
			s.allPairs()
		}
	} else {
		s.allPairs()
	}

	return s.report()
}

// scanner accumulates the result of a separation check.
type scanner struct {
	box geom.Box
	ox  []water.Atom
	r   *Report
}

func newScanner(sys *water.System, threshold float64) *scanner {
	ox := sys.Oxygens()
	r := &Report{
		Threshold: threshold, Oxygens: len(ox), MinDistance: math.Inf(+1),
	}
	return &scanner{box: sys.Box, ox: ox, r: r}
}

// selfImages flags every oxygen if the box is so narrow along some axis that
// atoms sit within the threshold of their own periodic images.
func (s *scanner) selfImages() {
	l := s.box.Lengths()
	short := math.Min(l[0], math.Min(l[1], l[2]))
	if short >= s.r.Threshold {
		return
	}
	for i := range s.ox {
		s.add(i, i, short)
	}
}

// allPairs visits every unordered pair of oxygens.
func (s *scanner) allPairs() {
	for i := range s.ox {
		for j := i + 1; j < len(s.ox); j++ {
			s.pair(i, j)
		}
	}
}

// cellPairs visits every pair of oxygens in the same or adjacent cells of g.
// g must be usable.
func (s *scanner) cellPairs(g *geom.Grid) {
	pts := make([]geom.Vec, len(s.ox))
	for i := range s.ox {
		pts[i] = s.ox[i].Pos
	}
	bins := g.Bin(pts)

	buf := make([]int, 0, 27)
	for c := range bins {
		buf = g.Neighbors(c, buf[:0])
		for _, nc := range buf {
			switch {
			case nc < c:
				continue
			case nc == c:
				for a := range bins[c] {
					for b := a + 1; b < len(bins[c]); b++ {
						s.pair(bins[c][a], bins[c][b])
					}
				}
			default:
				for _, i := range bins[c] {
					for _, j := range bins[nc] {
						if i < j {
							s.pair(i, j)
						} else {
							s.pair(j, i)
						}
					}
				}
			}
		}
	}
}

// pair computes the distance between oxygens i < j. The displacement is
// always taken from i to j so that the result does not depend on the order
// in which pairs are visited.
func (s *scanner) pair(i, j int) {
	s.add(i, j, s.box.Dist(s.ox[i].Pos, s.ox[j].Pos))
}

func (s *scanner) add(i, j int, d float64) {
	r := s.r
	a, b := s.ox[i], s.ox[j]

	if d < r.MinDistance || (d == r.MinDistance && pairLess(a.ID, b.ID, r.MinPair)) {
		r.MinDistance = d
		r.MinPair = [2]int{a.ID, b.ID}
	}

	if d < r.Threshold {
		r.Violations = append(r.Violations, Violation{
			I: a.ID, J: b.ID, MolI: a.Mol, MolJ: b.Mol, Distance: d,
		})
	}
}

func (s *scanner) report() *Report {
	r := s.r
	sort.Slice(r.Violations, func(i, j int) bool {
		vi, vj := r.Violations[i], r.Violations[j]
		if vi.I != vj.I {
			return vi.I < vj.I
		}
		return vi.J < vj.J
	})
	r.Pass = len(r.Violations) == 0
	return r
}

func pairLess(i, j int, p [2]int) bool {
	if i != p[0] {
		return i < p[0]
	}
	return j < p[1]
}
