package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/mbslab/geom"
	"github.com/phil-mansfield/mbslab/io"
	"github.com/phil-mansfield/mbslab/pack"
	"github.com/phil-mansfield/mbslab/pbc"
	"github.com/phil-mansfield/mbslab/slab"
	"github.com/phil-mansfield/mbslab/water"
)

func writeConfig(t *testing.T, text string) string {
	path := filepath.Join(t.TempDir(), "slab.config")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, "[Slab]\nMolecules = 64\nOutput = out\nSeed = 5\n")

	flags := pflag.NewFlagSet("build", pflag.ContinueOnError)
	addBuildFlags(flags)
	require.NoError(t, flags.Parse([]string{"--density", "0.9", "-o", "elsewhere"}))

	con, err := loadConfig(flags, []string{path})
	require.NoError(t, err)
	assert.Equal(t, 64, con.Molecules)
	assert.Equal(t, 0.9, con.Density)
	assert.Equal(t, "elsewhere", con.Output)
	// Unset flags leave file values and defaults alone.
	assert.Equal(t, int64(5), con.Seed)
	assert.Equal(t, 3.0, con.ZMultiplier)
}

func TestLoadConfigFlagsOnly(t *testing.T) {
	flags := pflag.NewFlagSet("build", pflag.ContinueOnError)
	addBuildFlags(flags)
	require.NoError(t, flags.Parse([]string{"--molecules", "216", "--output", "o"}))

	con, err := loadConfig(flags, nil)
	require.NoError(t, err)
	assert.Equal(t, 216, con.Molecules)
	assert.Equal(t, 1.0, con.Density)
}

func TestLoadConfigErrors(t *testing.T) {
	flags := pflag.NewFlagSet("build", pflag.ContinueOnError)
	addBuildFlags(flags)

	_, err := loadConfig(flags, nil)
	assert.Equal(t, exitInput, exitCode(err))

	_, err = loadConfig(flags, []string{filepath.Join(t.TempDir(), "none")})
	assert.Equal(t, exitInput, exitCode(err))
}

func TestExitCode(t *testing.T) {
	table := []struct {
		err  error
		code int
	}{
		{nil, exitOK},
		{errors.New("boom"), exitError},
		{&slab.DomainError{Param: "density"}, exitInput},
		{fmt.Errorf("packing: %w", &pack.ToolError{Op: "x"}), exitTool},
		{&water.FormatError{Reason: "x"}, exitFormat},
		{fmt.Errorf("building slab: %w", &slab.GeometryError{}), exitGeometry},
		{&pbc.ValidationError{Report: &pbc.Report{}}, exitValidation},
	}

	for i, test := range table {
		assert.Equal(t, test.code, exitCode(test.err), "%d) %v", i, test.err)
	}
}

func TestExampleConfigCommand(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"example-config"})
	require.NoError(t, rootCmd.Execute())

	con, err := io.ParseConfig(out.String())
	require.NoError(t, err)
	assert.NoError(t, con.Check())
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()

	good := []geom.Vec{
		{5, 5, 15}, {5.757, 5.586, 15}, {4.243, 5.586, 15},
		{5, 5, 20}, {5.757, 5.586, 20}, {4.243, 5.586, 20},
	}
	bad := append([]geom.Vec{}, good...)
	for i := 3; i < 6; i++ {
		bad[i][2] = 16.5
	}

	box := geom.Box{Hi: geom.Vec{10, 10, 30}}
	write := func(name string, pos []geom.Vec) string {
		sys, err := water.Assemble(pos, nil, 2, box)
		require.NoError(t, err)
		path := filepath.Join(dir, name)
		require.NoError(t, io.WriteDataFile(path, sys, name))
		return path
	}
	goodPath, badPath := write("good.data", good), write("bad.data", bad)

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)

	rootCmd.SetArgs([]string{"validate", goodPath})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "PASSED")

	out.Reset()
	rootCmd.SetArgs([]string{"validate", badPath})
	err := rootCmd.Execute()
	assert.Equal(t, exitValidation, exitCode(err))
	assert.Contains(t, out.String(), "FAILED")
	assert.Contains(t, out.String(), "atoms 1 and 4")

	rootCmd.SetArgs([]string{"validate", "--molecules", "3", goodPath})
	err = rootCmd.Execute()
	assert.Equal(t, exitFormat, exitCode(err))
	expectMolecules = 0
}
