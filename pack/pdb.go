package pack

import (
	"fmt"
	"os"
	"strings"

	chem "github.com/rmera/gochem"

	"github.com/phil-mansfield/mbslab/geom"
)

// DefaultTemplate is a single rigid water molecule in O, H, H order with an
// O-H length of 0.9572 A and an H-O-H angle of 104.52 degrees.
const DefaultTemplate = `HETATM    1  O   WAT A   1       0.000   0.000   0.000  1.00  0.00           O
HETATM    2  H1  WAT A   1       0.757   0.586   0.000  1.00  0.00           H
HETATM    3  H2  WAT A   1      -0.757   0.586   0.000  1.00  0.00           H
END
`

// WriteTemplate writes DefaultTemplate to path.
func WriteTemplate(path string) error {
	return os.WriteFile(path, []byte(DefaultTemplate), 0644)
}

// ReadPDB reads the atoms of the first model in a PDB file and returns their
// positions and element labels in file order.
func ReadPDB(path string) (*Packed, error) {
	mol, err := chem.PDBFileRead(path, false)
	if err != nil {
		return nil, fmt.Errorf("could not read PDB file %s: %w", path, err)
	}
	if mol.Len() == 0 || len(mol.Coords) == 0 {
		return nil, fmt.Errorf("PDB file %s contains no atoms", path)
	}

	coords := mol.Coords[0]
	out := &Packed{
		Pos:    make([]geom.Vec, mol.Len()),
		Labels: make([]string, mol.Len()),
	}
	for i := range out.Pos {
		for dim := 0; dim < 3; dim++ {
			out.Pos[i][dim] = coords.At(i, dim)
		}
		out.Labels[i] = label(mol.Atom(i))
	}

	return out, nil
}

// label returns the element symbol of an atom, falling back to the leading
// letter of its name when the element column was blank.
func label(at *chem.Atom) string {
	if s := strings.TrimSpace(at.Symbol); s != "" {
		return s
	}
	name := strings.TrimSpace(at.Name)
	if name == "" {
		return ""
	}
	return name[:1]
}
