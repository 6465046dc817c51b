package io

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"
)

// MBX cutoffs and solver settings written to mbx.json. The pair_style cutoff
// in in.lammps is TwoBodyCutoff.
const (
	TwoBodyCutoff   = 9.0
	ThreeBodyCutoff = 4.5
	DipoleTolerance = 1e-8
	DipoleMaxIter   = 100
	DipoleMethod    = "cg"
	EwaldAlpha      = 0.6
	EwaldGrid       = 2.5
	EwaldSpline     = 6
)

// Control holds the values substituted into in.lammps.
type Control struct {
	DataFile    string
	MBXFile     string
	Temperature float64 // K
	Timestep    float64 // fs
	Steps       int
	Seed        int64
}

var inputTemplate = template.Must(template.New("in.lammps").Parse(
	`# MB-pol air/water slab
units           real
atom_style      full
boundary        p p p

read_data       {{.DataFile}}

pair_style      mbx {{printf "%.1f" .Cutoff}}
pair_coeff      * * 1 h2o 1 2 2 json {{.MBXFile}}

neighbor        2.0 bin
neigh_modify    every 1 delay 10 check yes

velocity        all create {{.Temperature}} {{.Seed}} rot yes dist gaussian
fix             1 all nvt temp {{.Temperature}} {{.Temperature}} {{.Damping}}

timestep        {{.Timestep}}
thermo_style    custom step temp pe ke etotal press vol
thermo          100
dump            1 all custom 1000 dump.lammpstrj id mol type q x y z

run             {{.Steps}}
`))

// WriteInput writes a LAMMPS input script which runs an NVT simulation of the
// data file named in c with the MBX pair style.
func WriteInput(w io.Writer, c Control) error {
	if c.Timestep <= 0 {
		return fmt.Errorf("timestep must be positive, but is %g", c.Timestep)
	}
	return inputTemplate.Execute(w, struct {
		Control
		Cutoff, Damping float64
	}{c, TwoBodyCutoff, 100 * c.Timestep})
}

type mbxFile struct {
	Note string   `json:"Note"`
	MBX  mbxBlock `json:"MBX"`
}

type mbxBlock struct {
	Box             []float64 `json:"box"`
	TwoBodyCutoff   float64   `json:"twobody_cutoff"`
	ThreeBodyCutoff float64   `json:"threebody_cutoff"`
	MaxEval1B       int       `json:"max_n_eval_1b"`
	MaxEval2B       int       `json:"max_n_eval_2b"`
	MaxEval3B       int       `json:"max_n_eval_3b"`
	DipoleTolerance float64   `json:"dipole_tolerance"`
	DipoleMaxIter   int       `json:"dipole_max_it"`
	DipoleMethod    string    `json:"dipole_method"`
	AlphaElec       float64   `json:"alpha_ewald_elec"`
	GridElec        float64   `json:"grid_density_elec"`
	SplineElec      int       `json:"spline_order_elec"`
	AlphaDisp       float64   `json:"alpha_ewald_disp"`
	GridDisp        float64   `json:"grid_density_disp"`
	SplineDisp      int       `json:"spline_order_disp"`
	Ignore2B        []string  `json:"ignore_2b_poly"`
	Ignore3B        []string  `json:"ignore_3b_poly"`
}

// WriteMBX writes the MBX parameter file. The box is left empty so that MBX
// takes it from LAMMPS.
func WriteMBX(w io.Writer) error {
	f := mbxFile{
		Note: "MB-pol parameters for an air/water slab",
		MBX: mbxBlock{
			Box:             []float64{},
			TwoBodyCutoff:   TwoBodyCutoff,
			ThreeBodyCutoff: ThreeBodyCutoff,
			MaxEval1B:       500,
			MaxEval2B:       500,
			MaxEval3B:       500,
			DipoleTolerance: DipoleTolerance,
			DipoleMaxIter:   DipoleMaxIter,
			DipoleMethod:    DipoleMethod,
			AlphaElec:       EwaldAlpha,
			GridElec:        EwaldGrid,
			SplineElec:      EwaldSpline,
			AlphaDisp:       EwaldAlpha,
			GridDisp:        EwaldGrid,
			SplineDisp:      EwaldSpline,
			Ignore2B:        []string{},
			Ignore3B:        []string{},
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(f)
}

// WriteInputFile and WriteMBXFile write the control files atomically.
func WriteInputFile(path string, c Control) error {
	return writeAtomic(path, func(w io.Writer) error { return WriteInput(w, c) })
}

func WriteMBXFile(path string) error {
	return writeAtomic(path, WriteMBX)
}
