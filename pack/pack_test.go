package pack

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/mbslab/geom"
)

func pdbLine(id int, name, elem string, v geom.Vec) string {
	return fmt.Sprintf("%-6s%5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f"+
		"          %2s\n", "ATOM", id, name, "WAT", "A", (id-1)/3+1,
		v[0], v[1], v[2], 1.0, 0.0, elem)
}

// writePDB writes n waters whose oxygens sit 3 A apart along x.
func writePDB(t *testing.T, path string, n int) {
	sb := &strings.Builder{}
	sb.WriteString("REMARK   written by pack_test\n")
	for i := 0; i < n; i++ {
		o := geom.Vec{2 + 3*float64(i), 2, 2}
		sb.WriteString(pdbLine(3*i+1, " O", "O", o))
		sb.WriteString(pdbLine(3*i+2, " H1", "H", o.Add(geom.Vec{0.757, 0.586, 0})))
		sb.WriteString(pdbLine(3*i+3, " H2", "H", o.Add(geom.Vec{-0.757, 0.586, 0})))
	}
	sb.WriteString("END\n")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))
}

// fakePackmol writes an executable shell script named packmol into dir.
func fakePackmol(t *testing.T, dir, body string) string {
	if runtime.GOOS == "windows" {
		t.Skip("fake packmol needs a POSIX shell")
	}
	exe := filepath.Join(dir, "packmol")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"+body), 0755))
	return exe
}

func TestScript(t *testing.T) {
	req := Request{Molecules: 125, Side: 15.52, Seed: 42}
	buf := &bytes.Buffer{}
	require.NoError(t, Script(buf, req, "/tmp/water.pdb", "/tmp/packed.pdb"))

	want := `tolerance 2.0
output /tmp/packed.pdb
filetype pdb
seed 42

structure /tmp/water.pdb
  number 125
  inside cube 1.0000 1.0000 1.0000 13.5200
end structure
`
	assert.Equal(t, want, buf.String())
}

func TestInset(t *testing.T) {
	lo, hi, err := Inset(15)
	require.NoError(t, err)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 14.0, hi)

	for _, side := range []float64{2, 1.5, 0, -3} {
		_, _, err := Inset(side)
		var te *ToolError
		assert.True(t, errors.As(err, &te), "side = %g", side)
	}

	err = Script(&bytes.Buffer{}, Request{Molecules: 1, Side: 2}, "a", "b")
	assert.Error(t, err)
}

func TestReadPDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packed.pdb")
	writePDB(t, path, 4)

	packed, err := ReadPDB(path)
	require.NoError(t, err)
	require.Len(t, packed.Pos, 12)
	require.Len(t, packed.Labels, 12)

	for i := 0; i < 4; i++ {
		assert.Equal(t, []string{"O", "H", "H"}, packed.Labels[3*i:3*i+3])
		assert.InDelta(t, 2+3*float64(i), packed.Pos[3*i][0], 1e-6)
		assert.InDelta(t, 2.586, packed.Pos[3*i+1][1], 1e-6)
	}
}

func TestDefaultTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "water.pdb")
	require.NoError(t, WriteTemplate(path))

	packed, err := ReadPDB(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"O", "H", "H"}, packed.Labels)

	for _, h := range packed.Pos[1:] {
		assert.InDelta(t, 0.9572, h.Sub(packed.Pos[0]).Norm(), 1e-3)
	}
}

func TestPackmolMissing(t *testing.T) {
	p := &Packmol{Exe: "packmol-not-installed-anywhere", Dir: t.TempDir()}
	_, err := p.Pack(context.Background(), Request{Molecules: 8, Side: 10})

	var te *ToolError
	require.True(t, errors.As(err, &te))
	assert.Contains(t, te.Error(), "not found")
}

func TestPackmolFailure(t *testing.T) {
	dir := t.TempDir()
	exe := fakePackmol(t, dir, "echo 'ERROR: could not pack'\nexit 3\n")

	p := &Packmol{Exe: exe, Dir: dir}
	_, err := p.Pack(context.Background(), Request{Molecules: 8, Side: 10})

	var te *ToolError
	require.True(t, errors.As(err, &te))
	assert.Contains(t, te.Output, "could not pack")
	var ee interface{ ExitCode() int }
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 3, ee.ExitCode())
}

func TestPackmolNoOutput(t *testing.T) {
	dir := t.TempDir()
	exe := fakePackmol(t, dir, "cat > /dev/null\necho done\n")

	p := &Packmol{Exe: exe, Dir: dir}
	_, err := p.Pack(context.Background(), Request{Molecules: 8, Side: 10})

	var te *ToolError
	require.True(t, errors.As(err, &te))
	assert.Contains(t, te.Op, "did not write")
	assert.Contains(t, te.Output, "done")
}

func TestPackmolFake(t *testing.T) {
	dir := t.TempDir()
	fixture := filepath.Join(t.TempDir(), "fixture.pdb")
	writePDB(t, fixture, 3)

	// The fake reads the output path from the script on stdin, as packmol
	// does, and copies the fixture there.
	exe := fakePackmol(t, dir, fmt.Sprintf(
		"out=$(awk '$1 == \"output\" {print $2}')\ncp %s \"$out\"\n", fixture,
	))

	p := &Packmol{Exe: exe, Dir: dir}
	packed, err := p.Pack(context.Background(), Request{
		Molecules: 3, Side: 12, Seed: 7,
	})
	require.NoError(t, err)
	assert.Len(t, packed.Pos, 9)
	assert.Equal(t, "O", packed.Labels[6])

	script, err := os.ReadFile(filepath.Join(dir, "pack.inp"))
	require.NoError(t, err)
	assert.Contains(t, string(script), "seed 7\n")
	assert.Contains(t, string(script), filepath.Join(dir, "water.pdb"))
	assert.FileExists(t, filepath.Join(dir, "water.pdb"))
}

func TestTail(t *testing.T) {
	tl := &tail{max: 5}
	fmt.Fprint(tl, "abc")
	assert.Equal(t, "abc", tl.String())
	fmt.Fprint(tl, "defg")
	assert.Equal(t, "cdefg", tl.String())
	fmt.Fprint(tl, "0123456789")
	assert.Equal(t, "56789", tl.String())
}
