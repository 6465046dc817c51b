package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/phil-mansfield/mbslab"
	"github.com/phil-mansfield/mbslab/io"
	"github.com/phil-mansfield/mbslab/pack"
)

// configError wraps problems with the configuration file or flags.
type configError struct{ err error }

func (e *configError) Error() string { return "invalid configuration: " + e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// overrides holds the build flags. A flag only replaces the configuration
// file value if it was set explicitly.
var overrides io.SlabConfig

var buildCmd = &cobra.Command{
	Use:   "build [config file]",
	Short: "Pack, build, validate and write a slab",
	Long: `build reads the [Slab] section of the configuration file, applies any
flags given on the command line and runs the full pipeline. Without a
configuration file, at least --molecules and --output must be given.

Nothing is written to the output directory unless the slab passes the O-O
separation check.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd.Flags())
}

// addBuildFlags registers one flag per configuration key, bound to overrides.
func addBuildFlags(f *pflag.FlagSet) {
	def := io.DefaultSlabWrapper().Slab
	f.IntVar(&overrides.Molecules, "molecules", def.Molecules,
		"Number of water molecules")
	f.Float64Var(&overrides.Density, "density", def.Density,
		"Bulk density of the liquid in g/cm^3")
	f.Float64Var(&overrides.ZMultiplier, "zmultiplier", def.ZMultiplier,
		"Box height in units of the cubic side length")
	f.Float64Var(&overrides.Temperature, "temperature", def.Temperature,
		"Temperature in K written to in.lammps")
	f.Float64Var(&overrides.Timestep, "timestep", def.Timestep,
		"Timestep in fs written to in.lammps")
	f.IntVar(&overrides.Steps, "steps", def.Steps,
		"Number of steps written to in.lammps")
	f.Int64Var(&overrides.Seed, "seed", def.Seed,
		"Random seed for packmol and initial velocities")
	f.StringVarP(&overrides.Output, "output", "o", def.Output,
		"Output directory")
	f.StringVar(&overrides.Template, "template", def.Template,
		"Single-molecule PDB template in O, H, H order")
	f.StringVar(&overrides.Packmol, "packmol", def.Packmol,
		"Name or path of the packmol executable")
	f.StringVar(&overrides.LogFile, "log-file", def.LogFile,
		"Write logs to this file instead of stderr")
}

// loadConfig reads the configuration file, if any, and applies the flags
// which were set on top of it.
func loadConfig(flags *pflag.FlagSet, args []string) (*io.SlabConfig, error) {
	con := &io.DefaultSlabWrapper().Slab
	if len(args) == 1 {
		var err error
		if con, err = io.ReadConfig(args[0]); err != nil {
			return nil, &configError{err}
		}
	}

	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "molecules":
			con.Molecules = overrides.Molecules
		case "density":
			con.Density = overrides.Density
		case "zmultiplier":
			con.ZMultiplier = overrides.ZMultiplier
		case "temperature":
			con.Temperature = overrides.Temperature
		case "timestep":
			con.Timestep = overrides.Timestep
		case "steps":
			con.Steps = overrides.Steps
		case "seed":
			con.Seed = overrides.Seed
		case "output":
			con.Output = overrides.Output
		case "template":
			con.Template = overrides.Template
		case "packmol":
			con.Packmol = overrides.Packmol
		case "log-file":
			con.LogFile = overrides.LogFile
		}
	})

	if err := con.Check(); err != nil {
		return nil, &configError{err}
	}
	return con, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	con, err := loadConfig(cmd.Flags(), args)
	if err != nil {
		return err
	}

	logger, err := newLogger(con.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := mbslab.ConfigFrom(con)
	cfg.RunID = uuid.NewString()

	dir, err := os.MkdirTemp("", "mbslab-"+cfg.RunID+"-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	p := &mbslab.Pipeline{
		Packer: &pack.Packmol{Exe: con.Packmol, Dir: dir, Logger: logger},
		Logger: logger,
	}

	res, err := p.Run(cmd.Context(), cfg)
	if res != nil && res.System != nil {
		printSummary(cmd.OutOrStdout(), res)
	}
	if err != nil {
		logger.Error("Build failed", zap.Error(err))
		return err
	}

	for _, path := range res.Files {
		fmt.Fprintf(cmd.OutOrStdout(), "  Written     : %s\n", path)
	}
	return nil
}
