/*package pack places water molecules in a cube with an external packing
engine and hands back their raw coordinates.

Packing is the only stage of a run which leaves the process. Everything
downstream only sees the Packer interface, so tests substitute their own
implementation.
*/
package pack

import (
	"context"
	"fmt"
	"io"

	"github.com/phil-mansfield/mbslab/geom"
)

const (
	// Tolerance is the minimum atom-atom distance requested from the packer,
	// in angstroms.
	Tolerance = 2.0
	// Buffer is the inset of the packing cube from every face of the
	// periodic box. Two atoms on opposite faces are then at least
	// 2*Buffer = Tolerance apart through the boundary.
	Buffer = Tolerance / 2
)

// Request describes one packing job.
type Request struct {
	Molecules int
	Side      float64 // Edge of the periodic cube, in angstroms.
	Seed      int64
	// Template is the path to a single-molecule PDB file in O, H, H order.
	// If empty, DefaultTemplate is used.
	Template string
}

// Packed is the raw output of a packer: positions in file order and the
// element label of every position.
type Packed struct {
	Pos    []geom.Vec
	Labels []string
}

// Packer places Request.Molecules copies of the template inside the cube
// [Buffer, Side - Buffer]^3.
type Packer interface {
	Pack(ctx context.Context, req Request) (*Packed, error)
}

// ToolError reports a failure of the external packing engine. Output holds
// the tail of what the tool printed, if it ran at all.
type ToolError struct {
	Op     string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	msg := "packing failed: " + e.Op
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// Inset returns the corner coordinates of the packing cube for a periodic
// cube of edge side.
func Inset(side float64) (lo, hi float64, err error) {
	lo, hi = Buffer, side-Buffer
	if hi-lo <= 0 {
		return 0, 0, &ToolError{Op: fmt.Sprintf(
			"box side %.4f A is too small for a %.1f A boundary buffer, "+
				"need more than %.1f A", side, Buffer, 2*Buffer,
		)}
	}
	return lo, hi, nil
}

// Script writes the packmol input for req to w. template and output are the
// paths packmol reads the molecule from and writes the packed system to.
func Script(w io.Writer, req Request, template, output string) error {
	lo, hi, err := Inset(req.Side)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, `tolerance %.1f
output %s
filetype pdb
seed %d

structure %s
  number %d
  inside cube %.4f %.4f %.4f %.4f
end structure
`, Tolerance, output, req.Seed, template, req.Molecules,
		lo, lo, lo, hi-lo,
	)
	return err
}
