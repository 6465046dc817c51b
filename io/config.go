package io

import (
	"fmt"
	"math"

	"go.uber.org/multierr"
	"gopkg.in/gcfg.v1"
)

const ExampleSlabFile = `[Slab]

#######################
# Required Parameters #
#######################

# Number of water molecules in the slab.
Molecules = 125

# Directory which the data file, the LAMMPS and MBX control files and the run
# manifest will be written to. It is created if it does not exist.
Output = path/to/output/dir

#######################
# Optional Parameters #
#######################

# Bulk density of the liquid region in g/cm^3. Default is 1.0.
# Density = 1.0

# Height of the box along z in units of the cubic side length. The vacuum
# above and below the liquid is (ZMultiplier - 1)/2 side lengths thick, so
# this must be larger than 1. Default is 3.
# ZMultiplier = 3

# Settings copied into in.lammps. Temperature is in K, Timestep in fs.
# Temperature = 298.15
# Timestep = 0.2
# Steps = 100000

# Random seed passed to packmol and used for the initial velocities.
# Default is 42.
# Seed = 42

# Single-molecule PDB file in O, H, H order which packmol copies. If unset, a
# rigid water molecule is generated.
# Template = path/to/water.pdb

# Name or path of the packmol executable. Default is packmol.
# Packmol = packmol

# Write log output here instead of stderr.
# LogFile = slab.log`

// SlabConfig holds the [Slab] section of a configuration file.
type SlabConfig struct {
	// Required
	Molecules int
	Output    string

	// Optional
	Density, ZMultiplier  float64
	Temperature, Timestep float64
	Steps                 int
	Seed                  int64
	Template, Packmol     string
	LogFile               string
}

type SlabWrapper struct {
	Slab SlabConfig
}

func DefaultSlabWrapper() *SlabWrapper {
	con := SlabConfig{}
	con.Density = 1.0
	con.ZMultiplier = 3
	con.Temperature = 298.15
	con.Timestep = 0.2
	con.Steps = 100000
	con.Seed = 42
	con.Packmol = "packmol"
	return &SlabWrapper{con}
}

func (con *SlabConfig) ValidMolecules() bool {
	return con.Molecules > 0
}
func (con *SlabConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *SlabConfig) ValidDensity() bool {
	return con.Density > 0 && !isInf(con.Density)
}
func (con *SlabConfig) ValidZMultiplier() bool {
	return con.ZMultiplier >= 1 && !isInf(con.ZMultiplier)
}
func (con *SlabConfig) ValidTemperature() bool {
	return con.Temperature > 0 && !isInf(con.Temperature)
}
func (con *SlabConfig) ValidTimestep() bool {
	return con.Timestep > 0 && !isInf(con.Timestep)
}
func (con *SlabConfig) ValidSteps() bool {
	return con.Steps >= 0
}
func (con *SlabConfig) ValidPackmol() bool {
	return con.Packmol != ""
}
func (con *SlabConfig) ValidTemplate() bool {
	return con.Template != ""
}
func (con *SlabConfig) ValidLogFile() bool {
	return con.LogFile != ""
}

func isInf(x float64) bool { return math.IsInf(x, 0) }

// Check returns an error listing every invalid required or constrained field
// of con.
func (con *SlabConfig) Check() error {
	var err error
	if !con.ValidMolecules() {
		err = multierr.Append(err, fmt.Errorf(
			"Molecules must be positive, but is %d", con.Molecules,
		))
	}
	if !con.ValidOutput() {
		err = multierr.Append(err, fmt.Errorf("Output must be set"))
	}
	if !con.ValidDensity() {
		err = multierr.Append(err, fmt.Errorf(
			"Density must be positive and finite, but is %g", con.Density,
		))
	}
	if !con.ValidZMultiplier() {
		err = multierr.Append(err, fmt.Errorf(
			"ZMultiplier must be at least 1, but is %g",
			con.ZMultiplier,
		))
	}
	if !con.ValidTemperature() {
		err = multierr.Append(err, fmt.Errorf(
			"Temperature must be positive, but is %g", con.Temperature,
		))
	}
	if !con.ValidTimestep() {
		err = multierr.Append(err, fmt.Errorf(
			"Timestep must be positive, but is %g", con.Timestep,
		))
	}
	if !con.ValidSteps() {
		err = multierr.Append(err, fmt.Errorf(
			"Steps must be non-negative, but is %d", con.Steps,
		))
	}
	if !con.ValidPackmol() {
		err = multierr.Append(err, fmt.Errorf("Packmol must not be empty"))
	}
	return err
}

// ReadConfig reads the [Slab] section of the file at path on top of the
// defaults. The result is not checked.
func ReadConfig(path string) (*SlabConfig, error) {
	wrap := DefaultSlabWrapper()
	if err := gcfg.ReadFileInto(wrap, path); err != nil {
		return nil, err
	}
	return &wrap.Slab, nil
}

// ParseConfig is ReadConfig for a configuration held in memory.
func ParseConfig(text string) (*SlabConfig, error) {
	wrap := DefaultSlabWrapper()
	if err := gcfg.ReadStringInto(wrap, text); err != nil {
		return nil, err
	}
	return &wrap.Slab, nil
}
