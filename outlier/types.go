// SPDX-License-Identifier: MIT

package outlier

import (
	"log/slog"

	"github.com/katalvlaran/distladder/dataset"
	"github.com/katalvlaran/distladder/fit"
)

// DefaultKappa is the reference clipping threshold.
const DefaultKappa = 2.7

// Options configures Reject.
type Options struct {
	Kappa           float64
	IncludeCepheids bool // reject from the Cepheid family
	IncludeMW       bool // the family includes Cepheids_MW
	FitAB           bool // reject from SNe_Hubble
	BreakP2         float64

	// Hubble-flow window, inclusive. ZMin = ZMax = 0 disables the split.
	ZMin, ZMax float64

	Logger *slog.Logger // nil means slog.Default()
}

// DefaultOptions returns kappa 2.7 with both classes enabled and the
// reference window [0.023, 0.15].
func DefaultOptions() Options {
	return Options{
		Kappa:           DefaultKappa,
		IncludeCepheids: true,
		IncludeMW:       true,
		FitAB:           true,
		BreakP2:         35,
		ZMin:            0.023,
		ZMax:            0.15,
	}
}

// Groups returns the rejectable groups in canonical order.
func (o Options) Groups() []dataset.Group {
	var out []dataset.Group
	if o.IncludeCepheids {
		out = append(out, dataset.CepheidFamily(o.IncludeMW)...)
	}
	if o.FitAB {
		out = append(out, dataset.SNeHubble)
	}
	return out
}

// Outcome is the result of Reject.
type Outcome struct {
	Kept        *dataset.Partition // active data at convergence
	Excluded    *dataset.Partition // rejected rows per rejectable group, in rejection order
	OutOfWindow dataset.Table      // SNe_Hubble rows outside [ZMin, ZMax]
	Groups      []dataset.Group    // rejectable groups present in the input
	Removed     map[dataset.Group]int
	Iterations  int // number of fits performed
	Final       fit.Result
}

// TotalRemoved returns the number of rejected rows across groups.
func (o Outcome) TotalRemoved() int {
	n := 0
	for _, c := range o.Removed {
		n += c
	}
	return n
}
