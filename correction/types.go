// SPDX-License-Identifier: MIT

package correction

import (
	"log/slog"

	"github.com/katalvlaran/distladder/dataset"
)

// Reference-table column names.
const (
	ColTeff = "Teff"
	ColLogg = "logg"
	ColFeH  = "[Fe/H]"
	ColEBV  = "E(B-V)"
)

// Band is a photometric band with a tabulated K-correction.
type Band int

const (
	// BandI is HST F814W.
	BandI Band = iota
	// BandH is HST F160W.
	BandH
	// BandV is HST F555W.
	BandV

	numBands
)

var bandColumns = [numBands]string{"F814WK", "F160WK", "F555WK"}

// Column returns the reference-table column holding the band correction.
func (b Band) Column() string {
	if b < 0 || b >= numBands {
		return ""
	}
	return bandColumns[b]
}

// String implements fmt.Stringer.
func (b Band) String() string { return b.Column() }

// Axis positions inside a Point.
const (
	AxisTeff = iota
	AxisLogg
	AxisFeH
	AxisZ
	AxisEBV

	numAxes
)

// Point is an interpolation coordinate (Teff, logg, [Fe/H], z, E(B-V)).
type Point [numAxes]float64

// Range is a closed physical validity interval.
type Range struct {
	Lo, Hi float64
}

// clamp pulls v into r. The boolean reports whether v was changed.
func (r Range) clamp(v float64) (float64, bool) {
	if v > r.Hi {
		return r.Hi, true
	}
	if v < r.Lo {
		return r.Lo, true
	}
	return v, false
}

// Valid interpolation ranges for the K-correction inputs.
var (
	TeffRange = Range{Lo: 3500, Hi: 6000}
	LoggRange = Range{Lo: 0, Hi: 2}
	FeHRange  = Range{Lo: -2, Hi: 0.5}
	ZRange    = Range{Lo: 0, Hi: 0.03}
)

// DefaultR is the reddening-law coefficient of the Wesenheit magnitude.
const DefaultR = 0.386

// Empirical period relations for Cepheid atmospheres.
const (
	teffSlope     = -0.0753
	teffIntercept = 3.8094
	loggSlope     = -0.8808
	loggIntercept = 2.1909
)

// CepheidTeff returns the effective temperature implied by a period.
func CepheidTeff(logP float64) float64 {
	return pow10(teffSlope*logP + teffIntercept)
}

// CepheidLogg returns the surface gravity implied by a period.
func CepheidLogg(logP float64) float64 {
	return loggSlope*logP + loggIntercept
}

// CepheidParams configures KCorrectCepheids.
type CepheidParams struct {
	// EBV is the color excess E(B-V) applied to every row.
	EBV float64
	// R is the Wesenheit reddening coefficient, used as given. Zero drops
	// the color term.
	R float64
	// IncludeMW also corrects the Milky Way group.
	IncludeMW bool
}

// DefaultCepheidParams returns zero reddening with R = DefaultR.
func DefaultCepheidParams() CepheidParams {
	return CepheidParams{R: DefaultR}
}

// TRGBParams configures KCorrectTRGB. All atmosphere parameters are constants
// for the whole sample.
type TRGBParams struct {
	Teff float64
	Logg float64
	FeH  float64
	EBV  float64
}

// Clamp records one input that was pulled back into its valid range.
type Clamp struct {
	Group dataset.Group
	Row   int
	Field string
	Value float64 // value before clamping
	Bound float64 // value actually used
}

// Report summarizes one correction call.
type Report struct {
	// Grid is the interpolator that was used, for reuse in later calls.
	Grid *Grid
	// Rows is the number of corrected rows.
	Rows int
	// Clamps lists every clamped input in processing order.
	Clamps []Clamp
}

// Option customizes a correction call.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger routes diagnostics to l. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("correction: WithLogger(nil)")
	}
	return func(o *options) { o.logger = l }
}

func gatherOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, fn := range opts {
		fn(&o)
	}
	o.logger = o.logger.With(slog.String("component", "correction"))
	return o
}
