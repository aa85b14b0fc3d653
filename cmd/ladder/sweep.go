// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/katalvlaran/distladder/pipeline"
	"github.com/spf13/cobra"
)

func newSweepCmd(a *app) *cobra.Command {
	var kind string
	names := make([]string, 0, len(pipeline.Kinds()))
	for _, k := range pipeline.Kinds() {
		names = append(names, string(k))
	}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Repeat the pipeline over one parameter",
		Long: `Run one pipeline per value of the sweep section for the chosen kind and
print H0 for each. Runs execute concurrently (sweep.workers) and do not
write outlier files.

Kinds: ` + strings.Join(names, ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := pipeline.ParseKind(kind)
			if err != nil {
				return err
			}
			in, err := pipeline.LoadInputs(a.cfg, pipeline.NeedsReference(a.cfg) || k.NeedsReference())
			if err != nil {
				return err
			}
			pts, err := pipeline.Sweep(cmd.Context(), a.cfg, in, k, pipeline.WithLogger(a.logger))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\tH0\tSIGMA\tCHI2/DOF\tREMOVED\n", strings.ToUpper(string(k)))
			for _, pt := range pts {
				removed := 0
				for _, n := range pt.Report.Removed {
					removed += n
				}
				fmt.Fprintf(tw, "%g\t%.4f\t%.4f\t%.4f\t%d\n",
					pt.Value, pt.Report.H0.Value, pt.Report.H0.Sigma, pt.Report.Chi2Dof, removed)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(pipeline.KindEBVCep), "sweep kind: "+strings.Join(names, ", "))
	return cmd
}
