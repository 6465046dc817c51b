package pack

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// tailSize is the number of bytes of packmol output attached to a ToolError.
const tailSize = 3000

// Packmol runs the packmol executable as a subprocess.
type Packmol struct {
	// Exe is the name or path of the executable. Names are looked up on the
	// PATH.
	Exe string
	// Dir is the directory that holds the input script, the template if
	// DefaultTemplate is used, and the packed output. It must exist.
	Dir    string
	Logger *zap.Logger
}

// Pack writes the input script for req into p.Dir, runs packmol on it and
// reads the packed system back. The only way to interrupt packmol is to
// cancel ctx.
func (p *Packmol) Pack(ctx context.Context, req Request) (*Packed, error) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	exe, err := exec.LookPath(p.Exe)
	if err != nil {
		return nil, &ToolError{Op: "packmol executable not found", Err: err}
	}

	template := req.Template
	if template == "" {
		template = filepath.Join(p.Dir, "water.pdb")
		if err := WriteTemplate(template); err != nil {
			return nil, err
		}
	} else if template, err = filepath.Abs(template); err != nil {
		return nil, err
	}
	output := filepath.Join(p.Dir, "packed.pdb")
	input := filepath.Join(p.Dir, "pack.inp")

	script := &bytes.Buffer{}
	if err := Script(script, req, template, output); err != nil {
		return nil, err
	}
	if err := os.WriteFile(input, script.Bytes(), 0644); err != nil {
		return nil, err
	}

	log.Info("Running packmol",
		zap.String("exe", exe),
		zap.Int("molecules", req.Molecules),
		zap.Float64("side", req.Side),
		zap.Int64("seed", req.Seed),
	)
	log.Debug("Packmol input", zap.String("path", input),
		zap.String("script", script.String()))

	out := &tail{max: tailSize}
	cmd := exec.CommandContext(ctx, exe)
	cmd.Stdin = bytes.NewReader(script.Bytes())
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.Dir = p.Dir

	t0 := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = errors.Join(ctx.Err(), err)
		}
		return nil, &ToolError{
			Op: "packmol exited with an error", Output: out.String(), Err: err,
		}
	}
	log.Info("Packmol finished", zap.Duration("elapsed", time.Since(t0)))

	info, err := os.Stat(output)
	if err != nil || info.Size() == 0 {
		return nil, &ToolError{
			Op:     fmt.Sprintf("packmol did not write %s", output),
			Output: out.String(), Err: err,
		}
	}

	packed, err := ReadPDB(output)
	if err != nil {
		return nil, &ToolError{Op: "unreadable packmol output", Err: err}
	}
	return packed, nil
}

// tail is an io.Writer which remembers the last max bytes written to it.
type tail struct {
	max int
	buf []byte
}

func (t *tail) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tail) String() string { return string(t.buf) }
