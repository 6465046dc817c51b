/*package water holds the typed atom and molecule records for MB-pol water
and assembles them from the raw coordinates returned by the packer.

MB-pol groups atoms into molecules positionally: every molecule is three
consecutive atoms in the order O, H, H and there are no bonds or angles.
Everything in this package preserves that ordering.
*/
package water

import (
	"fmt"
)

// AtomType is the LAMMPS atom type of an atom.
type AtomType int

const (
	Oxygen AtomType = iota + 1
	Hydrogen
)

// TypeCount is the number of atom types in an MB-pol water system.
const TypeCount = 2

// AtomsPerMolecule is the number of atoms in one water molecule.
const AtomsPerMolecule = 3

// Order is the order in which atoms appear within a molecule.
var Order = [AtomsPerMolecule]AtomType{Oxygen, Hydrogen, Hydrogen}

// Param contains the fixed physical constants of an atom type. Charges are in
// units of e and masses are in g/mol.
type Param struct {
	Type   AtomType
	Symbol string
	Mass   float64
	Charge float64
}

// Params is the MB-pol parameter table, indexed by AtomType - 1. These are
// constants of the potential and must not be changed.
var Params = [TypeCount]Param{
	{Oxygen, "O", 15.9994, -1.1128},
	{Hydrogen, "H", 1.008, 0.5564},
}

// ParamOf returns the parameters of the atom type t.
func ParamOf(t AtomType) Param {
	if !t.Valid() {
		panic(fmt.Sprintf("Invalid atom type %d.", int(t)))
	}
	return Params[t-1]
}

// Valid returns true if t is one of the known atom types.
func (t AtomType) Valid() bool { return t == Oxygen || t == Hydrogen }

func (t AtomType) String() string {
	switch t {
	case Oxygen:
		return "Oxygen"
	case Hydrogen:
		return "Hydrogen"
	}
	return fmt.Sprintf("AtomType(%d)", int(t))
}

// Symbol returns the chemical symbol of t.
func (t AtomType) Symbol() string { return ParamOf(t).Symbol }

// MoleculeMass returns the mass of one water molecule in g/mol.
func MoleculeMass() float64 {
	m := 0.0
	for _, t := range Order {
		m += ParamOf(t).Mass
	}
	return m
}
