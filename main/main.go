package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phil-mansfield/mbslab/io"
	"github.com/phil-mansfield/mbslab/pack"
	"github.com/phil-mansfield/mbslab/pbc"
	"github.com/phil-mansfield/mbslab/slab"
	"github.com/phil-mansfield/mbslab/water"
)

// Exit statuses. Each class of failure gets its own so that driver scripts
// can tell them apart.
const (
	exitOK = iota
	exitError
	exitInput
	exitTool
	exitFormat
	exitGeometry
	exitValidation
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "mbslab",
	Short: "Build MB-pol air/water slabs for LAMMPS",
	Long: `mbslab packs water molecules into a cube with packmol, extends the cube
into a slab with vacuum above and below the liquid, checks that no two oxygens
are closer than 2.0 A under periodic boundary conditions and writes a LAMMPS
data file along with in.lammps, mbx.json and a run manifest.

Start with:

    mbslab example-config > slab.config
    mbslab build slab.config`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var exampleConfigCmd = &cobra.Command{
	Use:   "example-config",
	Short: "Print an example configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), io.ExampleSlabFile)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exampleConfigCmd)
}

// newLogger builds a production logger writing to logFile, or to stderr if
// logFile is empty.
func newLogger(logFile string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if logFile != "" {
		config.OutputPaths = []string{logFile}
		config.ErrorOutputPaths = []string{logFile}
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// exitCode maps an error returned by a command onto an exit status.
func exitCode(err error) int {
	var (
		de *slab.DomainError
		ge *slab.GeometryError
		te *pack.ToolError
		fe *water.FormatError
		ve *pbc.ValidationError
		ce *configError
	)
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ce), errors.As(err, &de):
		return exitInput
	case errors.As(err, &te):
		return exitTool
	case errors.As(err, &fe):
		return exitFormat
	case errors.As(err, &ge):
		return exitGeometry
	case errors.As(err, &ve):
		return exitValidation
	}
	return exitError
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "mbslab:", err)
	}
	os.Exit(exitCode(err))
}
