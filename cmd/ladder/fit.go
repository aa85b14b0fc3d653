// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/katalvlaran/distladder/dataset"
	"github.com/katalvlaran/distladder/pipeline"
	"github.com/spf13/cobra"
)

func newFitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fit",
		Short: "Run the pipeline once and print the fitted parameters",
		Long: `Load the group tables from paths.data_dir, apply the enabled corrections,
kappa-clip the fit and print every parameter with H0 and chi2/dof.

Excluded rows are written to <work_dir>/outliers/<Group>.csv.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := pipeline.LoadInputs(a.cfg, pipeline.NeedsReference(a.cfg))
			if err != nil {
				return err
			}
			rep, err := pipeline.Run(cmd.Context(), a.cfg, in, pipeline.WithLogger(a.logger))
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), rep)
		},
	}
}

func printReport(w io.Writer, rep pipeline.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PARAM\tVALUE\tSIGMA")
	for _, p := range rep.Params {
		fmt.Fprintf(tw, "%s\t%.6f\t%.6f\n", p.Name, p.Value, p.Sigma)
	}
	fmt.Fprintf(tw, "%s\t%.4f\t%.4f\n", rep.H0.Name, rep.H0.Value, rep.H0.Sigma)
	fmt.Fprintf(tw, "chi2/dof\t%.4f\t\n", rep.Chi2Dof)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tFITTED\tREMOVED")
	for _, g := range dataset.AllGroups() {
		n, ok := rep.Fitted[g]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\n", g, n, rep.Removed[g])
	}
	fmt.Fprintf(tw, "out of window\t%d\t\n", rep.OutOfWindow)
	fmt.Fprintf(tw, "iterations\t%d\t\n", rep.Iterations)
	return tw.Flush()
}
