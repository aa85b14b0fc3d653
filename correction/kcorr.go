// SPDX-License-Identifier: MIT

package correction

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/distladder/dataset"
)

// resolveGrid returns grid when non-nil, otherwise builds one from ref with build.
func resolveGrid(grid *Grid, ref dataset.Table, build func(dataset.Table) (*Grid, error)) (*Grid, error) {
	if grid != nil {
		return grid, nil
	}
	if ref.Schema() == nil {
		return nil, ErrNoGrid
	}
	return build(ref)
}

// clamper applies a Range and records what it changed.
type clamper struct {
	logger *slog.Logger
	group  dataset.Group
	clamps []Clamp
}

func (c *clamper) apply(row int, field string, v float64, r Range) float64 {
	out, changed := r.clamp(v)
	if changed {
		c.logger.Warn("K-correction input clamped",
			slog.String("group", c.group.String()),
			slog.Int("row", row),
			slog.String("field", field),
			slog.Float64("value", v),
			slog.Float64("used", out))
		c.clamps = append(c.clamps, Clamp{Group: c.group, Row: row, Field: field, Value: v, Bound: out})
	}
	return out
}

// pending holds the corrections of one group until every group is computed.
type pending struct {
	t    *dataset.Table
	col  string
	corr []float64
}

// commit subtracts the corrections from their columns and returns the row count.
func commit(batch []pending) (int, error) {
	n := 0
	for _, b := range batch {
		for i, k := range b.corr {
			v, _ := b.t.Float(i, b.col)
			if err := b.t.SetFloat(i, b.col, v-k); err != nil {
				return n, err
			}
		}
		n += len(b.corr)
	}
	return n, nil
}

// KCorrectCepheids K-corrects the Wesenheit magnitudes of the Cepheid groups.
//
// For each row: Teff and logg follow from logP (CepheidTeff, CepheidLogg),
// [Fe/H] is the M/H column, z the z column, E(B-V) is params.EBV. Inputs are
// clamped to TeffRange, LoggRange, FeHRange and ZRange. The correction
// K = H − R·(V − I) is subtracted from mW, with R = params.R as given.
//
// grid may be nil, in which case a Cepheid grid is built from ref; the grid
// that was used is returned in the Report. Absent groups are skipped.
// Every group is computed before any row is written, so on error p is
// left untouched.
func KCorrectCepheids(p *dataset.Partition, ref dataset.Table, grid *Grid, params CepheidParams, opts ...Option) (Report, error) {
	o := gatherOptions(opts)
	g, err := resolveGrid(grid, ref, NewCepheidGrid)
	if err != nil {
		return Report{}, fmt.Errorf("KCorrectCepheids: %w", err)
	}
	for _, b := range []Band{BandI, BandH, BandV} {
		if !g.Has(b) {
			return Report{}, fmt.Errorf("KCorrectCepheids: %w: %s", ErrBandMissing, b)
		}
	}
	r := params.R
	if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return Report{}, fmt.Errorf("KCorrectCepheids: %w: %g", ErrBadR, r)
	}

	rep := Report{Grid: g}
	var batch []pending
	for _, grp := range dataset.CepheidFamily(params.IncludeMW) {
		t, ok := p.Table(grp)
		if !ok {
			continue
		}
		if err = t.Schema().Require(dataset.Numeric, dataset.ColLogP, dataset.ColMH, dataset.ColZ, dataset.ColMW); err != nil {
			return Report{}, fmt.Errorf("KCorrectCepheids %s: %w", grp, err)
		}
		o.logger.Info("K-correcting group", slog.String("group", grp.String()), slog.Int("rows", t.Len()))

		c := clamper{logger: o.logger, group: grp}
		corr := make([]float64, t.Len())
		for i := range corr {
			logP, _ := t.Float(i, dataset.ColLogP)
			feh, _ := t.Float(i, dataset.ColMH)
			z, _ := t.Float(i, dataset.ColZ)

			var pt Point
			pt[AxisTeff] = c.apply(i, ColTeff, CepheidTeff(logP), TeffRange)
			pt[AxisLogg] = c.apply(i, ColLogg, CepheidLogg(logP), LoggRange)
			pt[AxisFeH] = c.apply(i, ColFeH, feh, FeHRange)
			pt[AxisZ] = c.apply(i, dataset.ColZ, z, ZRange)
			pt[AxisEBV] = params.EBV

			k, err := wesenheitK(g, pt, r)
			if err != nil {
				return Report{}, fmt.Errorf("KCorrectCepheids %s row %d: %w", grp, i, err)
			}
			corr[i] = k
		}
		batch = append(batch, pending{t: t, col: dataset.ColMW, corr: corr})
		rep.Clamps = append(rep.Clamps, c.clamps...)
	}
	if rep.Rows, err = commit(batch); err != nil {
		return Report{}, fmt.Errorf("KCorrectCepheids: %w", err)
	}
	return rep, nil
}

// wesenheitK combines the band corrections into K = H − R·(V − I).
func wesenheitK(g *Grid, pt Point, r float64) (float64, error) {
	kI, err := g.Interpolate(BandI, pt)
	if err != nil {
		return 0, err
	}
	kH, err := g.Interpolate(BandH, pt)
	if err != nil {
		return 0, err
	}
	kV, err := g.Interpolate(BandV, pt)
	if err != nil {
		return 0, err
	}
	return kH - r*(kV-kI), nil
}

// trgbGroups are the groups K-corrected by KCorrectTRGB.
var trgbGroups = []dataset.Group{dataset.TRGB, dataset.TRGBAnchors}

// KCorrectTRGB K-corrects the I-band tip magnitudes of the TRGB groups.
// Teff, logg, [Fe/H] and E(B-V) come from params; z from each row, clamped
// to ZRange. The I-band correction is subtracted from m. As with
// KCorrectCepheids, nothing is written unless every group succeeds.
func KCorrectTRGB(p *dataset.Partition, ref dataset.Table, grid *Grid, params TRGBParams, opts ...Option) (Report, error) {
	o := gatherOptions(opts)
	g, err := resolveGrid(grid, ref, NewTRGBGrid)
	if err != nil {
		return Report{}, fmt.Errorf("KCorrectTRGB: %w", err)
	}
	if !g.Has(BandI) {
		return Report{}, fmt.Errorf("KCorrectTRGB: %w: %s", ErrBandMissing, BandI)
	}

	rep := Report{Grid: g}
	var batch []pending
	for _, grp := range trgbGroups {
		t, ok := p.Table(grp)
		if !ok {
			continue
		}
		if err = t.Schema().Require(dataset.Numeric, dataset.ColZ, dataset.ColM); err != nil {
			return Report{}, fmt.Errorf("KCorrectTRGB %s: %w", grp, err)
		}
		o.logger.Info("K-correcting group", slog.String("group", grp.String()), slog.Int("rows", t.Len()))

		c := clamper{logger: o.logger, group: grp}
		corr := make([]float64, t.Len())
		for i := range corr {
			z, _ := t.Float(i, dataset.ColZ)
			pt := Point{params.Teff, params.Logg, params.FeH, c.apply(i, dataset.ColZ, z, ZRange), params.EBV}
			k, err := g.Interpolate(BandI, pt)
			if err != nil {
				return Report{}, fmt.Errorf("KCorrectTRGB %s row %d: %w", grp, i, err)
			}
			corr[i] = k
		}
		batch = append(batch, pending{t: t, col: dataset.ColM, corr: corr})
		rep.Clamps = append(rep.Clamps, c.clamps...)
	}
	if rep.Rows, err = commit(batch); err != nil {
		return Report{}, fmt.Errorf("KCorrectTRGB: %w", err)
	}
	return rep, nil
}
