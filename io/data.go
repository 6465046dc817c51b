/*package io reads and writes the files produced by a slab run: the LAMMPS
data file, the configuration file, the LAMMPS and MBX control files, and the
run manifest.
*/
package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/phil-mansfield/mbslab/geom"
	"github.com/phil-mansfield/mbslab/water"
)

// WriteData writes sys to w as a LAMMPS data file in the "full" atom style.
// title becomes the first line of the file and must not contain newlines.
// Atoms are written in ID order with zero image flags. No bonds or angles are
// declared.
func WriteData(w io.Writer, sys *water.System, title string) error {
	if strings.ContainsAny(title, "\r\n") {
		return fmt.Errorf("data file title %q contains a newline", title)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n\n", title)

	fmt.Fprintf(bw, "%d atoms\n%d atom types\n", len(sys.Atoms), water.TypeCount)
	fmt.Fprintf(bw, "0 bonds\n0 bond types\n")
	fmt.Fprintf(bw, "0 angles\n0 angle types\n\n")

	for dim := 0; dim < 3; dim++ {
		name := geom.AxisName(dim)
		fmt.Fprintf(bw, "%.6f %.6f %slo %shi\n",
			sys.Box.Lo[dim], sys.Box.Hi[dim], name, name)
	}

	fmt.Fprintf(bw, "\nMasses\n\n")
	for t := water.AtomType(1); int(t) <= water.TypeCount; t++ {
		fmt.Fprintf(bw, "%d %s\n", t,
			strconv.FormatFloat(water.ParamOf(t).Mass, 'g', -1, 64))
	}

	fmt.Fprintf(bw, "\nAtoms # full\n\n")
	for i := range sys.Atoms {
		a := &sys.Atoms[i]
		fmt.Fprintf(bw, "%6d %6d %d %8.4f %14.8f %14.8f %14.8f 0 0 0\n",
			a.ID, a.Mol, int(a.Type), a.Charge, a.Pos[0], a.Pos[1], a.Pos[2])
	}

	return bw.Flush()
}

// WriteDataFile writes sys to path. The file is first written to a temporary
// file in the same directory and renamed into place, so path either holds
// a complete data file or is left untouched.
func WriteDataFile(path string, sys *water.System, title string) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteData(w, sys, title)
	})
}

// writeAtomic calls write on a temporary file next to path and renames it to
// path once write and Close succeed.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	err = write(f)
	multierr.AppendInto(&err, f.Close())
	if err != nil {
		return err
	}
	if err = os.Chmod(f.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadData parses a LAMMPS full-style data file. Image flags and any Bonds,
// Angles or Velocities sections are ignored. The returned System has passed
// water.System.Check; every problem with the file is reported as a
// *water.FormatError.
func ReadData(r io.Reader) (*water.System, error) {
	p := &dataParser{masses: map[int]float64{}}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	section := ""
	for sc.Scan() {
		p.line++
		if p.line == 1 {
			continue
		}

		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
			section = fields[0]
			continue
		}

		var err error
		switch section {
		case "":
			err = p.header(fields)
		case "Masses":
			err = p.mass(fields)
		case "Atoms":
			err = p.atom(fields)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return p.system()
}

// ReadDataFile is ReadData for the file at path.
func ReadDataFile(path string) (*water.System, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sys, err := ReadData(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sys, nil
}

type dataParser struct {
	line      int
	atomCount int
	hasBox    [3]bool
	box       geom.Box
	masses    map[int]float64
	atoms     []water.Atom
}

func (p *dataParser) errorf(format string, args ...interface{}) error {
	return &water.FormatError{
		Reason: fmt.Sprintf("line %d: ", p.line) + fmt.Sprintf(format, args...),
	}
}

func (p *dataParser) header(fields []string) error {
	switch {
	case len(fields) == 2 && fields[1] == "atoms":
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 0 {
			return p.errorf("invalid atom count %q", fields[0])
		}
		p.atomCount = n
	case len(fields) == 4 && strings.HasSuffix(fields[2], "lo"):
		dim := strings.Index("xyz", strings.TrimSuffix(fields[2], "lo"))
		if dim < 0 || len(fields[2]) != 3 {
			return p.errorf("unknown box bounds %q", fields[2])
		}
		lo, err1 := strconv.ParseFloat(fields[0], 64)
		hi, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			return p.errorf("invalid %s bounds", fields[2])
		}
		p.box.Lo[dim], p.box.Hi[dim] = lo, hi
		p.hasBox[dim] = true
	}
	// Type counts, bond counts and tilt factors are implied by the water
	// model and not needed.
	return nil
}

func (p *dataParser) mass(fields []string) error {
	if len(fields) < 2 {
		return p.errorf("malformed Masses line")
	}
	t, err1 := strconv.Atoi(fields[0])
	m, err2 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || err2 != nil {
		return p.errorf("malformed Masses line")
	}
	p.masses[t] = m
	return nil
}

func (p *dataParser) atom(fields []string) error {
	if len(fields) != 7 && len(fields) != 10 {
		return p.errorf("full-style atom lines have 7 or 10 columns, got %d",
			len(fields))
	}

	var ints [3]int
	for i := range ints {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return p.errorf("invalid integer %q", fields[i])
		}
		ints[i] = n
	}
	var floats [4]float64
	for i := range floats {
		x, err := strconv.ParseFloat(fields[3+i], 64)
		if err != nil {
			return p.errorf("invalid number %q", fields[3+i])
		}
		floats[i] = x
	}

	p.atoms = append(p.atoms, water.Atom{
		ID: ints[0], Mol: ints[1], Type: water.AtomType(ints[2]),
		Charge: floats[0], Pos: geom.Vec{floats[1], floats[2], floats[3]},
	})
	return nil
}

// system assembles the parsed atoms into a System and checks it.
func (p *dataParser) system() (*water.System, error) {
	for dim, ok := range p.hasBox {
		if !ok {
			return nil, &water.FormatError{Reason: fmt.Sprintf(
				"missing %slo %shi line", geom.AxisName(dim), geom.AxisName(dim),
			)}
		}
	}
	if len(p.atoms) != p.atomCount {
		return nil, &water.FormatError{
			Reason: "Atoms section does not match the header atom count",
			Want:   p.atomCount, Got: len(p.atoms),
		}
	}

	sys := &water.System{Atoms: make([]water.Atom, len(p.atoms)), Box: p.box}
	for _, a := range p.atoms {
		if a.ID < 1 || a.ID > len(p.atoms) || sys.Atoms[a.ID-1].ID != 0 {
			return nil, &water.FormatError{Reason: fmt.Sprintf(
				"atom ID %d is duplicated or out of range", a.ID,
			)}
		}
		if m, ok := p.masses[int(a.Type)]; ok {
			a.Mass = m
		} else if a.Type.Valid() {
			a.Mass = water.ParamOf(a.Type).Mass
		}
		sys.Atoms[a.ID-1] = a
	}

	byMol := map[int][]int{}
	for i := range sys.Atoms {
		a := &sys.Atoms[i]
		byMol[a.Mol] = append(byMol[a.Mol], a.ID)
	}
	ids := make([]int, 0, len(byMol))
	for id := range byMol {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	sys.Molecules = make([]water.Molecule, len(ids))
	for j, id := range ids {
		members := byMol[id]
		if len(members) != water.AtomsPerMolecule {
			return nil, &water.FormatError{
				Reason: fmt.Sprintf("molecule %d has the wrong number of atoms", id),
				Want:   water.AtomsPerMolecule, Got: len(members),
			}
		}
		m := &sys.Molecules[j]
		m.ID = id
		copy(m.Atoms[:], members)
	}

	if err := sys.Check(); err != nil {
		return nil, err
	}
	return sys, nil
}
