// SPDX-License-Identifier: MIT

package correction

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/distladder/dataset"
)

func pow10(x float64) float64 { return math.Pow(10, x) }

// rlbGroups are the groups whose periods carry the Redshift Leavitt Bias.
var rlbGroups = []dataset.Group{dataset.Cepheids, dataset.CepheidAnchors}

// ApplyRLB removes the Redshift Leavitt Bias from Cepheid periods:
// logP ← logP − log10(1+z) for every row of the host and anchor groups.
// Absent groups are skipped. Not idempotent; apply exactly once.
func ApplyRLB(p *dataset.Partition, opts ...Option) error {
	o := gatherOptions(opts)
	for _, g := range rlbGroups {
		t, ok := p.Table(g)
		if !ok {
			continue
		}
		if err := t.Schema().Require(dataset.Numeric, dataset.ColLogP, dataset.ColZ); err != nil {
			return fmt.Errorf("ApplyRLB %s: %w", g, err)
		}
		for i := 0; i < t.Len(); i++ {
			logP, _ := t.Float(i, dataset.ColLogP)
			z, _ := t.Float(i, dataset.ColZ)
			if err := t.SetFloat(i, dataset.ColLogP, logP-math.Log10(1+z)); err != nil {
				return fmt.Errorf("ApplyRLB %s: %w", g, err)
			}
		}
		o.logger.Debug("RLB correction applied", slog.String("group", g.String()), slog.Int("rows", t.Len()))
	}
	return nil
}
