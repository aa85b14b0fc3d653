// SPDX-License-Identifier: MIT

package pipeline

import (
	"log/slog"

	"github.com/katalvlaran/distladder/config"
	"github.com/katalvlaran/distladder/correction"
	"github.com/katalvlaran/distladder/fit"
	"github.com/katalvlaran/distladder/outlier"
)

// ModelFor maps the configuration onto the ladder model.
func ModelFor(cfg config.Config) fit.Model {
	c, t, s, ph := cfg.Cepheids, cfg.TRGB, cfg.SNe, cfg.Physics
	return fit.Model{
		IncludeCepheids: c.Include,
		IncludeMW:       c.IncludeMW,
		PLRBreak:        c.PLBreak,
		BreakP:          c.BreakP,
		PLRBreak2:       c.PLBreak2,
		FixedZw:         c.FixedZw,
		Zw:              c.Zw,
		SigZw:           c.SigZw,
		AddedScatter:    c.AddedScatter,
		FixedZP:         c.FixedZP,
		ZP:              c.ZP,
		SigZP:           c.SigZP,
		MultipleZP:      c.MultipleZP,
		IncludeTRGB:     t.Include,
		UseColor:        t.UseColor,
		MidVI:           t.MidVI,
		DifferentMu:     t.DifferentMu,
		FitAB:           s.FitAB,
		AB:              s.AB,
		SigAB:           s.SigAB,
		C:               ph.C,
		Q0:              ph.Q0,
		J0:              ph.J0,
	}
}

// OutlierOptions maps the configuration onto the rejector options.
func OutlierOptions(cfg config.Config, logger *slog.Logger) outlier.Options {
	return outlier.Options{
		Kappa:           cfg.Outliers.Kappa,
		IncludeCepheids: cfg.Cepheids.Include,
		IncludeMW:       cfg.Cepheids.IncludeMW,
		FitAB:           cfg.SNe.FitAB,
		BreakP2:         cfg.Cepheids.BreakP2,
		ZMin:            cfg.SNe.ZMin,
		ZMax:            cfg.SNe.ZMax,
		Logger:          logger,
	}
}

// CepheidParams maps the configuration onto the Cepheid K-correction.
func CepheidParams(cfg config.Config) correction.CepheidParams {
	return correction.CepheidParams{
		EBV:       cfg.Corrections.EBVCep,
		R:         cfg.Physics.R,
		IncludeMW: cfg.Cepheids.IncludeMW,
	}
}

// TRGBParams maps the configuration onto the TRGB K-correction.
func TRGBParams(cfg config.Config) correction.TRGBParams {
	k := cfg.Corrections
	return correction.TRGBParams{Teff: k.TeffTRGB, Logg: k.LoggTRGB, FeH: k.FeHTRGB, EBV: k.EBVTRGB}
}

// NeedsReference reports whether cfg enables a K-correction that will run.
func NeedsReference(cfg config.Config) bool {
	return cfg.Cepheids.Include && cfg.Corrections.KCorrCep ||
		cfg.TRGB.Include && cfg.Corrections.KCorrTRGB
}
