// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/distladder/config"
	"github.com/katalvlaran/distladder/correction"
	"github.com/katalvlaran/distladder/dataset"
	"github.com/katalvlaran/distladder/fit"
	"github.com/katalvlaran/distladder/internal/logging"
	"github.com/katalvlaran/distladder/outlier"
	"github.com/katalvlaran/distladder/tableio"
)

// Inputs are the raw data of a run.
type Inputs struct {
	Data      *dataset.Partition
	Reference dataset.Table // K-correction reference; zero when unused
}

// Grids carries prebuilt K-correction interpolators. Nil fields are built
// from Inputs.Reference on demand.
type Grids struct {
	Cepheid *correction.Grid
	TRGB    *correction.Grid
}

// Report summarizes one run.
type Report struct {
	Params      []fit.Param
	H0          fit.Param
	Chi2Dof     float64
	Fitted      map[dataset.Group]int // rows in the final fit
	Removed     map[dataset.Group]int // rows rejected by kappa clipping
	OutOfWindow int                   // SNe_Hubble rows outside the redshift window
	Iterations  int                   // fits performed
	Clamps      []correction.Clamp
	Grids       Grids // grids used, for reuse
	Final       fit.Result
}

// Option customizes Run and Sweep.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	grids   Grids
	persist bool
}

// WithLogger routes diagnostics to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("pipeline: WithLogger(nil)")
	}
	return func(o *options) { o.logger = l }
}

// WithGrids supplies prebuilt K-correction grids.
func WithGrids(g Grids) Option {
	return func(o *options) { o.grids = g }
}

// WithoutPersist skips writing the excluded rows to the work directory.
func WithoutPersist() Option {
	return func(o *options) { o.persist = false }
}

func gatherOptions(opts []Option) options {
	o := options{logger: slog.Default(), persist: true}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// LoadInputs reads the group tables of cfg.Paths.DataDir and, when
// reference is set, the reference table at cfg.Paths.ReferenceTable.
func LoadInputs(cfg config.Config, reference bool) (Inputs, error) {
	p, err := tableio.LoadPartition(cfg.Paths.DataDir)
	if err != nil {
		return Inputs{}, fmt.Errorf("LoadInputs: %w", err)
	}
	in := Inputs{Data: p}
	if !reference {
		return in, nil
	}
	if cfg.Paths.ReferenceTable == "" {
		return Inputs{}, fmt.Errorf("LoadInputs: %w", ErrNoReference)
	}
	if in.Reference, err = tableio.ReadTable(cfg.Paths.ReferenceTable); err != nil {
		return Inputs{}, fmt.Errorf("LoadInputs: %w", err)
	}
	return in, nil
}

// Run executes one pipeline on a clone of in.Data.
//
// Implementation:
//   - Stage 1: validate cfg, clone the partition.
//   - Stage 2: RLB, then Cepheid and TRGB K-corrections, as enabled.
//   - Stage 3: kappa clipping with persistence, or window split and one fit.
//
// Errors:
//   - config.ErrInvalid, ErrNoData, ctx.Err().
//   - correction, outlier and fit errors, wrapped.
func Run(ctx context.Context, cfg config.Config, in Inputs, opts ...Option) (Report, error) {
	o := gatherOptions(opts)
	if err := cfg.Validate(); err != nil {
		return Report{}, fmt.Errorf("Run: %w", err)
	}
	if in.Data == nil {
		return Report{}, fmt.Errorf("Run: %w", ErrNoData)
	}
	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("Run: %w", err)
	}

	base := o.logger
	if run := logging.Run(ctx); run != "" {
		base = base.With(slog.String("run", run))
	}
	logger := base.With(slog.String("component", "pipeline"))

	p := in.Data.Clone()
	rep := Report{Grids: o.grids, Removed: make(map[dataset.Group]int)}
	if err := correct(p, cfg, in.Reference, &rep, base); err != nil {
		return Report{}, fmt.Errorf("Run: %w", err)
	}

	ladder := fit.NewLadder(ModelFor(cfg), fit.WithLogger(base))
	var fitted *dataset.Partition
	if cfg.Outliers.Enabled {
		oc, err := outlier.Reject(ctx, p, ladder, OutlierOptions(cfg, base))
		if err != nil {
			return Report{}, fmt.Errorf("Run: %w", err)
		}
		if o.persist {
			if err = outlier.Persist(cfg.Paths.WorkDir, oc, base); err != nil {
				return Report{}, fmt.Errorf("Run: %w", err)
			}
		}
		for g, n := range oc.Removed {
			rep.Removed[g] = n
		}
		rep.OutOfWindow = oc.OutOfWindow.Len()
		rep.Iterations = oc.Iterations
		rep.Final = oc.Final
		fitted = oc.Kept
	} else {
		held, err := applyWindow(p, cfg.SNe)
		if err != nil {
			return Report{}, fmt.Errorf("Run: %w", err)
		}
		res, err := ladder.Fit(p, cfg.Cepheids.BreakP2)
		if err != nil {
			return Report{}, fmt.Errorf("Run: %w", err)
		}
		rep.OutOfWindow = held
		rep.Iterations = 1
		rep.Final = res
		fitted = p
	}

	rep.Params = rep.Final.Params
	rep.H0 = rep.Final.H0
	rep.Chi2Dof = rep.Final.Chi2Dof
	rep.Fitted = make(map[dataset.Group]int)
	for _, seg := range rep.Final.Layout {
		rep.Fitted[seg.Group] = seg.Len
	}
	logger.Info("run finished",
		slog.Float64("H0", rep.H0.Value),
		slog.Float64("sig_H0", rep.H0.Sigma),
		slog.Float64("chi2_dof", rep.Chi2Dof),
		slog.Int("rows", rep.Final.Rows()),
		slog.Int("groups", len(fitted.Groups())))
	return rep, nil
}

// correct applies the enabled photometric corrections to p in place.
func correct(p *dataset.Partition, cfg config.Config, ref dataset.Table, rep *Report, logger *slog.Logger) error {
	copt := correction.WithLogger(logger)
	if cfg.Cepheids.Include && cfg.Corrections.RLB {
		if err := correction.ApplyRLB(p, copt); err != nil {
			return err
		}
	}
	if cfg.Cepheids.Include && cfg.Corrections.KCorrCep {
		kr, err := correction.KCorrectCepheids(p, ref, rep.Grids.Cepheid, CepheidParams(cfg), copt)
		if err != nil {
			return err
		}
		rep.Grids.Cepheid = kr.Grid
		rep.Clamps = append(rep.Clamps, kr.Clamps...)
	}
	if cfg.TRGB.Include && cfg.Corrections.KCorrTRGB {
		kr, err := correction.KCorrectTRGB(p, ref, rep.Grids.TRGB, TRGBParams(cfg), copt)
		if err != nil {
			return err
		}
		rep.Grids.TRGB = kr.Grid
		rep.Clamps = append(rep.Clamps, kr.Clamps...)
	}
	return nil
}

// applyWindow drops SNe_Hubble rows outside [ZMin, ZMax] and returns how
// many were dropped.
func applyWindow(p *dataset.Partition, sne config.SNe) (int, error) {
	hub, ok := p.Table(dataset.SNeHubble)
	if !ok || !sne.FitAB {
		return 0, nil
	}
	in, out, err := dataset.SplitWindow(*hub, dataset.ColZ, sne.ZMin, sne.ZMax)
	if err != nil {
		return 0, err
	}
	p.Set(dataset.SNeHubble, in)
	return out.Len(), nil
}
