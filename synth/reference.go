// SPDX-License-Identifier: MIT

package synth

import (
	"fmt"

	"github.com/katalvlaran/distladder/correction"
	"github.com/katalvlaran/distladder/dataset"
)

// Node values of the reference grid.
var (
	refTeff = []float64{3500, 4000, 4500, 5000, 5500, 6000}
	refLogg = []float64{0, 0.5, 1, 1.5, 2}
	refFeH  = []float64{-2, -1.5, -1, -0.5, 0, 0.5}
	refZ    = []float64{0, 0.01, 0.02, 0.03}
	refEBV  = []float64{0, 0.1, 0.2, 0.3, 0.4}
)

// surface holds the coefficients of K = z·(a + s·(Teff−4500)/1000 + g·logg + f·[Fe/H] + e·E(B−V)).
type surface struct{ a, s, g, f, e float64 }

var surfaces = map[correction.Band]surface{
	correction.BandI: {a: 0.5, s: 0.3, g: -0.1, f: 0.05, e: 0.2},
	correction.BandH: {a: -0.4, s: 0.1, g: 0.05, f: 0.02, e: 0.1},
	correction.BandV: {a: 1.2, s: 0.6, g: -0.2, f: 0.1, e: 0.4},
}

// ReferenceSchema is the column layout of ReferenceTable.
var ReferenceSchema = dataset.MustSchema(
	dataset.Num(correction.ColTeff), dataset.Num(correction.ColLogg), dataset.Num(correction.ColFeH),
	dataset.Num(dataset.ColZ), dataset.Num(correction.ColEBV),
	dataset.Num(correction.BandI.Column()), dataset.Num(correction.BandH.Column()), dataset.Num(correction.BandV.Column()))

// KCorrection evaluates the analytic surface of band b at pt. The surface is
// multilinear, so grid interpolation of ReferenceTable reproduces it.
func KCorrection(b correction.Band, pt correction.Point) float64 {
	s, ok := surfaces[b]
	if !ok {
		return 0
	}
	teff := (pt[correction.AxisTeff] - 4500) / 1000
	return pt[correction.AxisZ] * (s.a + s.s*teff + s.g*pt[correction.AxisLogg] +
		s.f*pt[correction.AxisFeH] + s.e*pt[correction.AxisEBV])
}

// ReferenceTable tabulates KCorrection for the I, H and V bands on the full
// Teff × logg × [Fe/H] × z × E(B−V) grid, in row-major order.
//
// Complexity: O(Π|axis|).
func ReferenceTable() dataset.Table {
	t := dataset.NewTable(ReferenceSchema)
	for _, teff := range refTeff {
		for _, logg := range refLogg {
			for _, feh := range refFeH {
				for _, z := range refZ {
					for _, ebv := range refEBV {
						pt := correction.Point{teff, logg, feh, z, ebv}
						if err := t.AddRow(teff, logg, feh, z, ebv,
							KCorrection(correction.BandI, pt),
							KCorrection(correction.BandH, pt),
							KCorrection(correction.BandV, pt)); err != nil {
							panic(fmt.Sprintf("synth: %v", err))
						}
					}
				}
			}
		}
	}
	return t
}
