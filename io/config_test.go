package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestExampleSlabFile(t *testing.T) {
	con, err := ParseConfig(ExampleSlabFile)
	require.NoError(t, err)
	require.NoError(t, con.Check())

	assert.Equal(t, 125, con.Molecules)
	assert.Equal(t, "path/to/output/dir", con.Output)
	assert.Equal(t, 1.0, con.Density)
	assert.Equal(t, 3.0, con.ZMultiplier)
	assert.Equal(t, 298.15, con.Temperature)
	assert.Equal(t, 0.2, con.Timestep)
	assert.Equal(t, 100000, con.Steps)
	assert.Equal(t, int64(42), con.Seed)
	assert.Equal(t, "packmol", con.Packmol)
	assert.False(t, con.ValidTemplate())
	assert.False(t, con.ValidLogFile())
}

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slab.config")
	text := `[Slab]
Molecules = 512
Output = out
Density = 0.997
ZMultiplier = 4
Seed = 7
Template = tip4p.pdb
LogFile = run.log
`
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))

	con, err := ReadConfig(path)
	require.NoError(t, err)
	require.NoError(t, con.Check())

	assert.Equal(t, 512, con.Molecules)
	assert.Equal(t, 0.997, con.Density)
	assert.Equal(t, 4.0, con.ZMultiplier)
	assert.Equal(t, int64(7), con.Seed)
	assert.Equal(t, "tip4p.pdb", con.Template)
	assert.Equal(t, "run.log", con.LogFile)
	assert.Equal(t, 100000, con.Steps)

	_, err = ReadConfig(filepath.Join(t.TempDir(), "missing.config"))
	assert.Error(t, err)
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig("[Slab]\nMolecules = lots\n")
	assert.Error(t, err)

	_, err = ParseConfig("[Slab]\nUnknownKey = 1\n")
	assert.Error(t, err)
}

func TestCheckReportsEveryField(t *testing.T) {
	con := &DefaultSlabWrapper().Slab
	con.Molecules = 0
	con.Density = -1
	con.ZMultiplier = 0.5
	con.Packmol = ""

	err := con.Check()
	require.Error(t, err)
	errs := multierr.Errors(err)
	assert.Len(t, errs, 5)
	assert.Contains(t, err.Error(), "Molecules")
	assert.Contains(t, err.Error(), "Output")
	assert.Contains(t, err.Error(), "Density")
	assert.Contains(t, err.Error(), "ZMultiplier")
	assert.Contains(t, err.Error(), "Packmol")
}

func TestZMultiplierOfOneIsAllowed(t *testing.T) {
	con := &DefaultSlabWrapper().Slab
	con.Molecules, con.Output = 10, "out"
	con.ZMultiplier = 1
	// A zero vacuum gap is rejected later, when the geometry is planned.
	assert.NoError(t, con.Check())
}
