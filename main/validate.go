package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/mbslab"
	"github.com/phil-mansfield/mbslab/water"
)

// boxTolerance is how far an atom may sit outside the box before validate
// warns about it.
const boxTolerance = 1e-4

var expectMolecules int

var validateCmd = &cobra.Command{
	Use:   "validate <data file>",
	Short: "Re-check an existing LAMMPS data file",
	Long: `validate reads a full-style LAMMPS data file, checks its structure and
charges, and re-runs the O-O separation check under periodic boundary
conditions. It exits with a non-zero status if the check fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().IntVar(&expectMolecules, "molecules", 0,
		"Fail unless the file holds exactly this many molecules")
}

func runValidate(cmd *cobra.Command, args []string) error {
	res, err := mbslab.Inspect(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printSummary(out, res)

	if n := len(res.System.Outside(boxTolerance)); n > 0 {
		fmt.Fprintf(out, "  WARNING     : %d atom(s) lie outside the box "+
			"(LAMMPS will wrap them at startup)\n", n)
	}
	if expectMolecules > 0 && len(res.System.Molecules) != expectMolecules {
		return &water.FormatError{
			Reason: "unexpected molecule count",
			Want:   expectMolecules, Got: len(res.System.Molecules),
		}
	}
	return res.Report.Err()
}

func printSummary(w io.Writer, res *mbslab.Result) {
	sys, p, r := res.System, res.Profile, res.Report
	l := sys.Box.Lengths()

	fmt.Fprintf(w, "\n  Slab validation\n")
	fmt.Fprintf(w, "  Box         : %.4f x %.4f x %.4f A\n", l[0], l[1], l[2])
	fmt.Fprintf(w, "  Molecules   : %d (%d atoms, net charge %.2g e)\n",
		len(sys.Molecules), len(sys.Atoms), sys.Charge())
	fmt.Fprintf(w, "  Water z     : %.3f - %.3f A\n", p.ZMin, p.ZMax)
	fmt.Fprintf(w, "  Vacuum      : ~%.2f A on each side\n", p.Vacuum)
	fmt.Fprintf(w, "  Density     : ~%.4f g/cm^3 (in slab region)\n", p.Density)
	if r == nil {
		return
	}
	fmt.Fprintf(w, "  Min O-O     : %.4f A (PBC) between atoms %d and %d\n",
		r.MinDistance, r.MinPair[0], r.MinPair[1])
	for i, v := range r.Violations {
		if i == 10 {
			fmt.Fprintf(w, "  ERROR       : ... %d more\n", len(r.Violations)-i)
			break
		}
		fmt.Fprintf(w, "  ERROR       : atoms %d and %d (molecules %d and %d) "+
			"are %.4f A apart\n", v.I, v.J, v.MolI, v.MolJ, v.Distance)
	}
	if r.Pass {
		fmt.Fprintf(w, "  Status      : PASSED\n")
	} else {
		fmt.Fprintf(w, "  Status      : FAILED\n")
	}
}
