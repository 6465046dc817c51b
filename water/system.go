package water

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/mbslab/geom"
)

// chargeEps is the tolerance used when checking that charges match the
// parameter table and that molecules are neutral.
const chargeEps = 1e-9

// Atom is a single typed atom.
type Atom struct {
	ID, Mol int
	Type    AtomType
	Charge  float64
	Mass    float64
	Pos     geom.Vec
}

// Molecule is an ordered (O, H, H) triple of atom IDs.
type Molecule struct {
	ID    int
	Atoms [AtomsPerMolecule]int
}

// System is a full atomic record set: atoms, the molecules they belong to,
// and the enclosing periodic box. Atom i has ID i+1 and molecule j has ID j+1.
type System struct {
	Atoms     []Atom
	Molecules []Molecule
	Box       geom.Box
}

// Clone returns a deep copy of s.
func (s *System) Clone() *System {
	out := &System{
		Atoms:     make([]Atom, len(s.Atoms)),
		Molecules: make([]Molecule, len(s.Molecules)),
		Box:       s.Box,
	}
	copy(out.Atoms, s.Atoms)
	copy(out.Molecules, s.Molecules)
	return out
}

// Atom returns the atom with the given 1-based ID.
func (s *System) Atom(id int) *Atom { return &s.Atoms[id-1] }

// Charge returns the net charge of the system.
func (s *System) Charge() float64 {
	q := 0.0
	for i := range s.Atoms {
		q += s.Atoms[i].Charge
	}
	return q
}

// MoleculeCharge returns the net charge of molecule m.
func (s *System) MoleculeCharge(m *Molecule) float64 {
	q := 0.0
	for _, id := range m.Atoms {
		q += s.Atom(id).Charge
	}
	return q
}

// Oxygens returns the oxygen atoms of s in ID order.
func (s *System) Oxygens() []Atom {
	out := make([]Atom, 0, len(s.Molecules))
	for i := range s.Atoms {
		if s.Atoms[i].Type == Oxygen {
			out = append(out, s.Atoms[i])
		}
	}
	return out
}

// Count returns the number of atoms of type t.
func (s *System) Count(t AtomType) int {
	n := 0
	for i := range s.Atoms {
		if s.Atoms[i].Type == t {
			n++
		}
	}
	return n
}

// Outside returns the IDs of atoms that lie more than tol outside the box.
func (s *System) Outside(tol float64) []int {
	var ids []int
	for i := range s.Atoms {
		if !s.Box.Contains(s.Atoms[i].Pos, tol) {
			ids = append(ids, s.Atoms[i].ID)
		}
	}
	return ids
}

// Check verifies the structural invariants of s: contiguous 1-based IDs,
// three atoms per molecule in O, H, H order with consecutive IDs, charges
// and masses matching the parameter table, neutral molecules, finite
// positions, and a non-degenerate box. It returns a *FormatError describing
// the first problem found.
func (s *System) Check() error {
	if err := s.Box.Check(); err != nil {
		return &FormatError{Reason: err.Error()}
	}

	if len(s.Atoms) != AtomsPerMolecule*len(s.Molecules) {
		return &FormatError{
			Reason: fmt.Sprintf("%d molecules require %d atoms",
				len(s.Molecules), AtomsPerMolecule*len(s.Molecules)),
			Want: AtomsPerMolecule * len(s.Molecules), Got: len(s.Atoms),
		}
	}

	for i := range s.Atoms {
		a := &s.Atoms[i]
		if a.ID != i+1 {
			return &FormatError{Reason: fmt.Sprintf(
				"atom %d has ID %d; IDs must be contiguous from 1", i+1, a.ID,
			)}
		}
		if !a.Type.Valid() {
			return &FormatError{Reason: fmt.Sprintf(
				"atom %d has unknown type %d", a.ID, int(a.Type),
			)}
		}
		p := ParamOf(a.Type)
		if math.Abs(a.Charge-p.Charge) > chargeEps {
			return &FormatError{Reason: fmt.Sprintf(
				"atom %d (%s) has charge %g instead of %g",
				a.ID, a.Type, a.Charge, p.Charge,
			)}
		}
		if math.Abs(a.Mass-p.Mass) > chargeEps {
			return &FormatError{Reason: fmt.Sprintf(
				"atom %d (%s) has mass %g instead of %g",
				a.ID, a.Type, a.Mass, p.Mass,
			)}
		}
		if !a.Pos.IsFinite() {
			return &FormatError{Reason: fmt.Sprintf(
				"atom %d has non-finite position %v", a.ID, a.Pos,
			)}
		}
	}

	for j := range s.Molecules {
		m := &s.Molecules[j]
		if m.ID != j+1 {
			return &FormatError{Reason: fmt.Sprintf(
				"molecule %d has ID %d; IDs must be contiguous from 1",
				j+1, m.ID,
			)}
		}
		for k, id := range m.Atoms {
			want := AtomsPerMolecule*j + k + 1
			if id != want {
				return &FormatError{Reason: fmt.Sprintf(
					"molecule %d lists atom %d in slot %d, expected atom %d",
					m.ID, id, k, want,
				)}
			}
			a := s.Atom(id)
			if a.Mol != m.ID {
				return &FormatError{Reason: fmt.Sprintf(
					"atom %d belongs to molecule %d, not %d", id, a.Mol, m.ID,
				)}
			}
			if a.Type != Order[k] {
				return &FormatError{Reason: fmt.Sprintf(
					"molecule %d is not ordered O, H, H: atom %d is %s",
					m.ID, id, a.Type,
				)}
			}
		}
		if q := s.MoleculeCharge(m); math.Abs(q) > chargeEps {
			return &FormatError{Reason: fmt.Sprintf(
				"molecule %d has net charge %g", m.ID, q,
			)}
		}
	}

	return nil
}
