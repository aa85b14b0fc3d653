// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/distladder/config"
	"github.com/katalvlaran/distladder/correction"
	"github.com/katalvlaran/distladder/dataset"
	"github.com/katalvlaran/distladder/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Kind names the configuration axis scanned by Sweep.
type Kind string

// Sweep kinds.
const (
	KindEBVCep   Kind = "ebv-cep"
	KindEBVTRGB  Kind = "ebv-trgb"
	KindTeffTRGB Kind = "teff-trgb"
	KindBreakP2  Kind = "break-p2"
)

// Kinds lists every sweep kind.
func Kinds() []Kind { return []Kind{KindEBVCep, KindEBVTRGB, KindTeffTRGB, KindBreakP2} }

// ParseKind validates a sweep kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// NeedsReference reports whether the kind K-corrects.
func (k Kind) NeedsReference() bool { return k != KindBreakP2 }

// Values returns the configured values of the kind.
func (k Kind) Values(cfg config.Config) []float64 {
	switch k {
	case KindEBVCep:
		return cfg.Sweep.EBVCep
	case KindEBVTRGB:
		return cfg.Sweep.EBVTRGB
	case KindTeffTRGB:
		return cfg.Sweep.TeffTRGB
	case KindBreakP2:
		return cfg.Sweep.BreakP2
	}
	return nil
}

// Apply returns cfg with the kind's parameter set to v and the matching
// correction or PLR term enabled.
func (k Kind) Apply(cfg config.Config, v float64) config.Config {
	switch k {
	case KindEBVCep:
		cfg.Corrections.KCorrCep = true
		cfg.Corrections.EBVCep = v
	case KindEBVTRGB:
		cfg.Corrections.KCorrTRGB = true
		cfg.Corrections.EBVTRGB = v
	case KindTeffTRGB:
		cfg.Corrections.KCorrTRGB = true
		cfg.Corrections.TeffTRGB = v
	case KindBreakP2:
		cfg.Cepheids.PLBreak2 = true
		cfg.Cepheids.BreakP2 = v
	}
	return cfg
}

func (k Kind) enabled(cfg config.Config) bool {
	switch k {
	case KindEBVTRGB, KindTeffTRGB:
		return cfg.TRGB.Include
	}
	return cfg.Cepheids.Include
}

// Point is the outcome of one sweep value.
type Point struct {
	Value  float64
	Report Report
}

// Sweep runs one pipeline per configured value of kind.
//
// Implementation:
//   - Stage 1: resolve the values and build the grids the kind needs once.
//   - Stage 2: run every value on its own clone under an errgroup limited
//     to cfg.Sweep.Workers; each run is labelled "<kind>=<value>".
//
// Errors:
//   - ErrUnknownKind, ErrNoValues, ErrKindDisabled.
//   - the first failing run, wrapped with its label; remaining runs are
//     cancelled through the shared context.
//
// Complexity: Time O(V·T/W) for V values, run cost T and W workers.
func Sweep(ctx context.Context, cfg config.Config, in Inputs, kind Kind, opts ...Option) ([]Point, error) {
	o := gatherOptions(opts)
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, fmt.Errorf("Sweep: %w", err)
	}
	values := kind.Values(cfg)
	if len(values) == 0 {
		return nil, fmt.Errorf("Sweep %s: %w", kind, ErrNoValues)
	}
	if !kind.enabled(cfg) {
		return nil, fmt.Errorf("Sweep %s: %w", kind, ErrKindDisabled)
	}

	grids, err := prepareGrids(kind.Apply(cfg, values[0]), in.Reference, o.grids)
	if err != nil {
		return nil, fmt.Errorf("Sweep %s: %w", kind, err)
	}

	out := make([]Point, len(values))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Sweep.Workers)
	for i, v := range values {
		g.Go(func() error {
			label := fmt.Sprintf("%s=%g", kind, v)
			rep, err := Run(logging.WithRun(gctx, label), kind.Apply(cfg, v), in,
				WithLogger(o.logger), WithGrids(grids), WithoutPersist())
			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			out[i] = Point{Value: v, Report: rep}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, fmt.Errorf("Sweep: %w", err)
	}
	o.logger.Info("sweep finished",
		slog.String("component", "pipeline"),
		slog.String("kind", string(kind)),
		slog.Int("runs", len(out)))
	return out, nil
}

// prepareGrids builds the grids cfg will use that are not already in have.
func prepareGrids(cfg config.Config, ref dataset.Table, have Grids) (Grids, error) {
	var err error
	if cfg.Cepheids.Include && cfg.Corrections.KCorrCep && have.Cepheid == nil {
		if have.Cepheid, err = correction.NewCepheidGrid(ref); err != nil {
			return Grids{}, err
		}
	}
	if cfg.TRGB.Include && cfg.Corrections.KCorrTRGB && have.TRGB == nil {
		if have.TRGB, err = correction.NewTRGBGrid(ref); err != nil {
			return Grids{}, err
		}
	}
	return have, nil
}
