/*package mbslab builds MB-pol air/water slabs for LAMMPS.

A run plans the box geometry, packs water molecules into a cube with an
external packer, shifts them into the middle of a taller periodic box,
checks every O-O distance under periodic boundary conditions and only then
writes the data file, the LAMMPS and MBX control files and a manifest.
*/
package mbslab

import (
	"path/filepath"

	"github.com/phil-mansfield/mbslab/io"
)

// Names of the files written into Config.Output.
const (
	DataFile     = "slab.data"
	InputFile    = "in.lammps"
	MBXFile      = "mbx.json"
	ManifestFile = "slab.yaml"
)

// Config is the full, immutable description of a run.
type Config struct {
	// RunID names the run in the manifest and the data file title. A new
	// one is generated if it is empty.
	RunID string

	Molecules            int
	Density, ZMultiplier float64

	Temperature, Timestep float64
	Steps                 int
	Seed                  int64

	Output   string
	Template string
}

// ConfigFrom copies the run settings out of a configuration file section.
func ConfigFrom(con *io.SlabConfig) Config {
	return Config{
		Molecules:   con.Molecules,
		Density:     con.Density,
		ZMultiplier: con.ZMultiplier,
		Temperature: con.Temperature,
		Timestep:    con.Timestep,
		Steps:       con.Steps,
		Seed:        con.Seed,
		Output:      con.Output,
		Template:    con.Template,
	}
}

// Path returns the path of the named output file.
func (c Config) Path(name string) string {
	return filepath.Join(c.Output, name)
}
