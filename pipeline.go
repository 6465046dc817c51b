package mbslab

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phil-mansfield/mbslab/io"
	"github.com/phil-mansfield/mbslab/pack"
	"github.com/phil-mansfield/mbslab/pbc"
	"github.com/phil-mansfield/mbslab/slab"
	"github.com/phil-mansfield/mbslab/water"
)

// Pipeline runs the stages of a slab build in order.
type Pipeline struct {
	Packer pack.Packer
	Logger *zap.Logger
}

// Result is everything a run produced. Files lists the paths written, in
// the order they were written.
type Result struct {
	RunID    string
	Geometry slab.Geometry
	System   *water.System
	Profile  slab.Profile
	Report   *pbc.Report
	Files    []string
}

// Run builds and validates a slab and writes it to cfg.Output. Nothing is
// written unless every stage succeeds. On a validation failure the returned
// Result is non-nil and carries the failing report.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (*Result, error) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	log = log.With(zap.String("run", cfg.RunID))
	res := &Result{RunID: cfg.RunID}

	g, err := slab.Plan(cfg.Molecules, cfg.Density, cfg.ZMultiplier)
	if err != nil {
		return nil, fmt.Errorf("planning geometry: %w", err)
	}
	if err := g.CheckVacuum(); err != nil {
		return nil, fmt.Errorf("planning geometry: %w", err)
	}
	res.Geometry = g
	log.Info("Planned geometry",
		zap.Int("molecules", g.Molecules),
		zap.Float64("side", g.Side),
		zap.Float64("height", g.Height),
		zap.Float64("vacuum", g.Gap()),
	)

	packed, err := p.Packer.Pack(ctx, pack.Request{
		Molecules: cfg.Molecules, Side: g.Side,
		Seed: cfg.Seed, Template: cfg.Template,
	})
	if err != nil {
		return nil, fmt.Errorf("packing: %w", err)
	}

	cube, err := water.Assemble(packed.Pos, packed.Labels, cfg.Molecules, g.Cube())
	if err != nil {
		return nil, fmt.Errorf("assembling molecules: %w", err)
	}
	if out := cube.Outside(pack.Buffer); len(out) > 0 {
		log.Warn("Packed atoms outside of the cube",
			zap.Int("atoms", len(out)), zap.Ints("ids", head(out, 10)))
	}

	sys, err := slab.Build(cube, g)
	if err != nil {
		return nil, fmt.Errorf("building slab: %w", err)
	}
	res.System = sys
	res.Profile = slab.Measure(sys)
	log.Info("Built slab",
		zap.Int("atoms", len(sys.Atoms)),
		zap.Float64("charge", sys.Charge()),
		zap.Float64("liquid_density", res.Profile.Density),
	)

	res.Report = pbc.Validate(sys)
	log.Info("Checked O-O separations",
		zap.Bool("pass", res.Report.Pass),
		zap.Float64("min_distance", res.Report.MinDistance),
		zap.Ints("min_pair", res.Report.MinPair[:]),
		zap.Int("violations", len(res.Report.Violations)),
	)
	if err := res.Report.Err(); err != nil {
		return res, fmt.Errorf("validating: %w", err)
	}

	if err := p.write(cfg, res); err != nil {
		return res, fmt.Errorf("writing output: %w", err)
	}
	for _, f := range res.Files {
		log.Info("Wrote file", zap.String("path", f))
	}

	return res, nil
}

// write writes the data file, the control files and finally the manifest.
func (p *Pipeline) write(cfg Config, res *Result) error {
	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		return err
	}

	g := res.Geometry
	title := fmt.Sprintf("LAMMPS data file: %d H2O air/water slab "+
		"%.4f x %.4f x %.4f A z_mult=%g (mbslab run %s)",
		g.Molecules, g.Side, g.Side, g.Height, g.ZMultiplier, cfg.RunID)

	data := cfg.Path(DataFile)
	if err := io.WriteDataFile(data, res.System, title); err != nil {
		return err
	}
	res.Files = append(res.Files, data)

	input := cfg.Path(InputFile)
	err := io.WriteInputFile(input, io.Control{
		DataFile: DataFile, MBXFile: MBXFile,
		Temperature: cfg.Temperature, Timestep: cfg.Timestep,
		Steps: cfg.Steps, Seed: cfg.Seed,
	})
	if err != nil {
		return err
	}
	res.Files = append(res.Files, input)

	mbx := cfg.Path(MBXFile)
	if err := io.WriteMBXFile(mbx); err != nil {
		return err
	}
	res.Files = append(res.Files, mbx)

	manifest := cfg.Path(ManifestFile)
	if err := io.WriteManifestFile(manifest, newManifest(cfg, res)); err != nil {
		return err
	}
	res.Files = append(res.Files, manifest)

	return nil
}

func newManifest(cfg Config, res *Result) *io.Manifest {
	g, r, sys := res.Geometry, res.Report, res.System
	return &io.Manifest{
		RunID:   cfg.RunID,
		Created: time.Now().UTC().Truncate(time.Second),
		Inputs: io.ManifestInputs{
			Molecules:   cfg.Molecules,
			Density:     cfg.Density,
			ZMultiplier: cfg.ZMultiplier,
			Temperature: cfg.Temperature,
			Timestep:    cfg.Timestep,
			Steps:       cfg.Steps,
			Seed:        cfg.Seed,
			Template:    cfg.Template,
		},
		Geometry: io.ManifestGeometry{
			Side:          g.Side,
			Height:        g.Height,
			Vacuum:        g.Gap(),
			LiquidDensity: res.Profile.Density,
		},
		Counts: io.ManifestCounts{
			Atoms:     len(sys.Atoms),
			Molecules: len(sys.Molecules),
			Charge:    sys.Charge(),
		},
		Validation: io.ManifestValidation{
			Pass:        r.Pass,
			Threshold:   r.Threshold,
			MinDistance: r.MinDistance,
			MinPair:     r.MinPair[:],
			Violations:  len(r.Violations),
		},
		Files: []string{DataFile, InputFile, MBXFile},
	}
}

// Inspect reads an existing data file and re-runs the separation check and
// slab measurement on it.
func Inspect(path string) (*Result, error) {
	sys, err := io.ReadDataFile(path)
	if err != nil {
		return nil, err
	}
	return &Result{
		System:  sys,
		Profile: slab.Measure(sys),
		Report:  pbc.Validate(sys),
	}, nil
}

func head(ids []int, n int) []int {
	if len(ids) < n {
		return ids
	}
	return ids[:n]
}
