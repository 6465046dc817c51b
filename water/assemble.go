package water

import (
	"fmt"

	"github.com/phil-mansfield/mbslab/geom"
)

// FormatError is returned when the atoms handed to this package break the
// O, H, H ordering contract or contain unusable coordinates.
type FormatError struct {
	Reason    string
	Want, Got int
}

func (e *FormatError) Error() string {
	if e.Want != 0 || e.Got != 0 {
		return fmt.Sprintf("format mismatch: %s (want %d, got %d)",
			e.Reason, e.Want, e.Got)
	}
	return "format mismatch: " + e.Reason
}

// Assemble converts the flat coordinate list produced by the packer into a
// System of n molecules inside box. pos must contain exactly 3n positions in
// repeating O, H, H order. If labels is non-nil it must be the element symbol
// echoed by the packer for every position, and is checked against that order.
//
// Atom and molecule IDs follow the order of pos. pos is not retained.
func Assemble(pos []geom.Vec, labels []string, n int, box geom.Box) (*System, error) {
	if n <= 0 {
		return nil, &FormatError{
			Reason: fmt.Sprintf("molecule count must be positive, got %d", n),
		}
	}
	if len(pos) != AtomsPerMolecule*n {
		return nil, &FormatError{
			Reason: fmt.Sprintf("packer returned the wrong number of atoms "+
				"for %d molecules", n),
			Want: AtomsPerMolecule * n, Got: len(pos),
		}
	}
	if labels != nil && len(labels) != len(pos) {
		return nil, &FormatError{
			Reason: "atom label count does not match coordinate count",
			Want:   len(pos), Got: len(labels),
		}
	}

	sys := &System{
		Atoms:     make([]Atom, len(pos)),
		Molecules: make([]Molecule, n),
		Box:       box,
	}

	for j := 0; j < n; j++ {
		m := &sys.Molecules[j]
		m.ID = j + 1

		for k, t := range Order {
			i := AtomsPerMolecule*j + k
			if !pos[i].IsFinite() {
				return nil, &FormatError{Reason: fmt.Sprintf(
					"atom %d has non-finite position %v", i+1, pos[i],
				)}
			}
			if labels != nil && !matchesSymbol(labels[i], t) {
				return nil, &FormatError{Reason: fmt.Sprintf(
					"atom %d is labeled %q but position %d of molecule %d "+
						"must be %s", i+1, labels[i], k+1, m.ID, t.Symbol(),
				)}
			}

			p := ParamOf(t)
			sys.Atoms[i] = Atom{
				ID: i + 1, Mol: m.ID, Type: t,
				Charge: p.Charge, Mass: p.Mass, Pos: pos[i],
			}
			m.Atoms[k] = i + 1
		}
	}

	return sys, nil
}

// matchesSymbol returns true if a packer label names the element of t. PDB
// atom names such as "OW" or "H1" are accepted by their leading letter.
func matchesSymbol(label string, t AtomType) bool {
	if label == "" {
		return false
	}
	return label[:1] == t.Symbol()
}
