// SPDX-License-Identifier: MIT

package outlier

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/distladder/dataset"
	"github.com/katalvlaran/distladder/fit"
	"github.com/montanaflynn/stats"
)

// Reject runs kappa clipping on a deep copy of p; p itself is not modified.
//
// Implementation:
//   - Stage 1: validate options, clone p, split SNe_Hubble on the window.
//   - Stage 2: fit, validate the layout, compute residuals and their std.
//   - Stage 3: find the worst eligible |r|; stop or move it and repeat.
//
// Errors:
//   - ErrBadKappa, ErrNothingToReject, ErrBadWindow (before any fit).
//   - ErrLayoutMismatch, ErrGroupDepleted.
//   - fitter errors and ctx.Err(), wrapped.
//
// Complexity:
//   - Time O(R·F) for R removals and fit cost F.
func Reject(ctx context.Context, p *dataset.Partition, f fit.Fitter, opts Options) (Outcome, error) {
	if !(opts.Kappa > 0) || math.IsInf(opts.Kappa, 0) {
		return Outcome{}, fmt.Errorf("Reject: %w: %g", ErrBadKappa, opts.Kappa)
	}
	if !opts.IncludeCepheids && !opts.FitAB {
		return Outcome{}, fmt.Errorf("Reject: %w", ErrNothingToReject)
	}
	if opts.ZMin > opts.ZMax {
		return Outcome{}, fmt.Errorf("Reject: %w: [%g, %g]", ErrBadWindow, opts.ZMin, opts.ZMax)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "outlier"))

	active := p.Clone()
	out := Outcome{Removed: make(map[dataset.Group]int)}
	if hub, ok := active.Table(dataset.SNeHubble); ok {
		in, held, err := splitWindow(*hub, opts.ZMin, opts.ZMax)
		if err != nil {
			return Outcome{}, fmt.Errorf("Reject: %w", err)
		}
		active.Set(dataset.SNeHubble, in)
		out.OutOfWindow = held
	}
	for _, g := range opts.Groups() {
		if active.Has(g) {
			out.Groups = append(out.Groups, g)
		}
	}
	excluded := active.EmptyLike(out.Groups...)

	for iter := 1; ; iter++ {
		if err := ctx.Err(); err != nil {
			return Outcome{}, fmt.Errorf("Reject: iteration %d: %w", iter, err)
		}
		res, err := f.Fit(active, opts.BreakP2)
		if err != nil {
			return Outcome{}, fmt.Errorf("Reject: iteration %d: %w", iter, err)
		}
		cep, sn, err := blocks(res, active, opts)
		if err != nil {
			return Outcome{}, fmt.Errorf("Reject: iteration %d: %w", iter, err)
		}
		r, err := res.Residuals()
		if err != nil {
			return Outcome{}, fmt.Errorf("Reject: iteration %d: %w", iter, err)
		}
		std, err := stats.StandardDeviationPopulation(r)
		if err != nil {
			return Outcome{}, fmt.Errorf("Reject: iteration %d: %w", iter, err)
		}

		worst, pos := worstIn(r, cep, sn)
		if worst <= opts.Kappa*std {
			out.Kept, out.Excluded = active, excluded
			out.Iterations, out.Final = iter, res
			logger.Info("kappa clipping converged",
				slog.Int("iterations", iter),
				slog.Int("removed", out.TotalRemoved()),
				slog.Float64("std", std))
			return out, nil
		}

		seg := segmentAt(res.Layout, pos)
		row := pos - seg.Offset
		if active.Len(seg.Group) <= 1 {
			return Outcome{}, fmt.Errorf("Reject: iteration %d: %w: %s", iter, ErrGroupDepleted, seg.Group)
		}
		if err = active.Move(seg.Group, row, excluded); err != nil {
			return Outcome{}, fmt.Errorf("Reject: iteration %d: %w", iter, err)
		}
		out.Removed[seg.Group]++
		logger.Debug("outlier removed",
			slog.Int("iteration", iter),
			slog.String("group", seg.Group.String()),
			slog.Int("row", row),
			slog.Float64("residual", worst),
			slog.Float64("threshold", opts.Kappa*std))
	}
}

// splitWindow applies the inclusive redshift window; a zero window keeps all rows.
func splitWindow(t dataset.Table, lo, hi float64) (in, out dataset.Table, err error) {
	if lo == 0 && hi == 0 {
		return t, dataset.NewTable(t.Schema()), nil
	}
	return dataset.SplitWindow(t, dataset.ColZ, lo, hi)
}

// span is a half-open range [lo, hi) of residual positions.
type span struct{ lo, hi int }

// blocks validates res.Layout against the active partition and returns the
// eligible Cepheid and SN spans. A disabled class yields an empty span.
func blocks(res fit.Result, active *dataset.Partition, opts Options) (cep, sn span, err error) {
	next := 0
	prev := dataset.Group(-1)
	seen := make(map[dataset.Group]bool, len(res.Layout))
	for _, s := range res.Layout {
		if s.Offset != next || s.Len < 0 || s.Group <= prev {
			return span{}, span{}, fmt.Errorf("%w: segment %s at %d (want offset %d, canonical order)",
				ErrLayoutMismatch, s.Group, s.Offset, next)
		}
		if n := active.Len(s.Group); n != s.Len {
			return span{}, span{}, fmt.Errorf("%w: %s has %d rows, layout says %d", ErrLayoutMismatch, s.Group, n, s.Len)
		}
		next, prev = s.Offset+s.Len, s.Group
		seen[s.Group] = true
	}
	if next != res.Rows() {
		return span{}, span{}, fmt.Errorf("%w: layout covers %d of %d rows", ErrLayoutMismatch, next, res.Rows())
	}

	cep.lo, cep.hi = -1, -1
	for _, g := range opts.Groups() {
		if !active.Has(g) {
			continue
		}
		if !seen[g] {
			return span{}, span{}, fmt.Errorf("%w: rejectable group %s not fitted", ErrLayoutMismatch, g)
		}
		seg, _ := res.Segment(g)
		if g == dataset.SNeHubble {
			sn = span{seg.Offset, seg.Offset + seg.Len}
			continue
		}
		if cep.lo < 0 {
			cep.lo = seg.Offset
		}
		if cep.hi >= 0 && seg.Offset != cep.hi {
			return span{}, span{}, fmt.Errorf("%w: Cepheid block is not contiguous at %s", ErrLayoutMismatch, g)
		}
		cep.hi = seg.Offset + seg.Len
	}
	if cep.lo < 0 {
		cep = span{}
	}
	if sn.hi > 0 && sn.hi != res.Rows() {
		return span{}, span{}, fmt.Errorf("%w: SNe_Hubble is not the trailing block", ErrLayoutMismatch)
	}
	return cep, sn, nil
}

// worstIn returns the largest |r| over the spans and its first position,
// scanning cep before sn. With no eligible rows it returns (0, -1).
func worstIn(r []float64, cep, sn span) (float64, int) {
	worst, pos := 0.0, -1
	for _, s := range [2]span{cep, sn} {
		for i := s.lo; i < s.hi; i++ {
			if a := math.Abs(r[i]); a > worst {
				worst, pos = a, i
			}
		}
	}
	return worst, pos
}

// segmentAt returns the layout segment holding position pos.
func segmentAt(layout []fit.Segment, pos int) fit.Segment {
	for _, s := range layout {
		if pos >= s.Offset && pos < s.Offset+s.Len {
			return s
		}
	}
	return fit.Segment{}
}
