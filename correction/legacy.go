// SPDX-License-Identifier: MIT

package correction

import (
	"fmt"

	"github.com/katalvlaran/distladder/dataset"
)

// CepheidFilter names a filter of the legacy Cepheid K-correction.
type CepheidFilter string

// Legacy Cepheid filters.
const (
	FilterW     CepheidFilter = "W"
	FilterF555W CepheidFilter = "F555W"
	FilterF814W CepheidFilter = "F814W"
	FilterF160W CepheidFilter = "F160W"
)

// TRGBFilter names a filter of the legacy TRGB K-correction.
type TRGBFilter string

// Legacy TRGB filters.
const (
	FilterV TRGBFilter = "V"
	FilterI TRGBFilter = "I"
	FilterH TRGBFilter = "H"
)

// legacyZRef are the reference redshifts of the analytic Cepheid correction.
var legacyZRef = [5]float64{0.0019, 0.0056, 0.0098, 0.0172, 0.0245}

// legacyCepheidCoeffs holds slope (m) and intercept (c) per reference redshift, in mmag.
var legacyCepheidCoeffs = map[CepheidFilter][2][5]float64{
	FilterW:     {{3.48, 2.68, 1.89, 1.07, 0.31}, {0.51, 1.74, 3.25, 5.96, 8.05}},
	FilterF555W: {{-2.84, -8.65, -15.16, -26.85, -38.66}, {-1.74, -5.47, -9.48, -15.67, -20.51}},
	FilterF814W: {{-1.02, -3.11, -5.47, -9.40, -12.73}, {-0.17, -0.91, -1.79, -2.82, -4.02}},
	FilterF160W: {{-1.18, -3.53, -6.04, -10.10, -14.38}, {1.00, 1.93, 3.19, 5.69, 8.28}},
}

// legacyTRGBCoeffs holds (a, b) of the quadratic TRGB correction per filter.
var legacyTRGBCoeffs = map[TRGBFilter][2]float64{
	FilterV: {-0.0012, -4.1162},
	FilterI: {-0.0004, -1.4075},
	FilterH: {0.0001, -1.6241},
}

// redshiftLawTerm is the F99 redshift-law offset per unit z·(V−I).
const redshiftLawTerm = 0.105

// LegacyCoefficients returns the slope m and intercept c (in mag) of the
// analytic Cepheid K-correction at redshift z.
//
// Inside [z_ref[i], z_ref[i+1]) both are interpolated linearly. Below the
// first reference point the first entry is used; at or above the last one
// the fourth entry (index 3) is used, as in the published tables.
func LegacyCoefficients(f CepheidFilter, z float64) (m, c float64, err error) {
	coeffs, ok := legacyCepheidCoeffs[f]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownFilter, f)
	}
	mRef, cRef := coeffs[0], coeffs[1]
	const scale = 1e-3
	for i := 0; i < len(legacyZRef)-1; i++ {
		if legacyZRef[i] <= z && z < legacyZRef[i+1] {
			frac := (z - legacyZRef[i]) / (legacyZRef[i+1] - legacyZRef[i])
			m = mRef[i] + frac*(mRef[i+1]-mRef[i])
			c = cRef[i] + frac*(cRef[i+1]-cRef[i])
			return m * scale, c * scale, nil
		}
	}
	if z < legacyZRef[0] {
		return mRef[0] * scale, cRef[0] * scale, nil
	}
	last := len(legacyZRef) - 2
	return mRef[last] * scale, cRef[last] * scale, nil
}

// LegacyKCorrectCepheids applies the analytic Cepheid K-correction in filter f:
// mW ← mW + (m·logP + c)·z·(V−I) − 0.105·z·(V−I).
// The Milky Way group is corrected only when includeMW.
func LegacyKCorrectCepheids(p *dataset.Partition, f CepheidFilter, includeMW bool) error {
	if _, ok := legacyCepheidCoeffs[f]; !ok {
		return fmt.Errorf("LegacyKCorrectCepheids: %w: %q", ErrUnknownFilter, f)
	}
	for _, g := range dataset.CepheidFamily(includeMW) {
		t, ok := p.Table(g)
		if !ok {
			continue
		}
		if err := t.Schema().Require(dataset.Numeric, dataset.ColLogP, dataset.ColZ, dataset.ColVI, dataset.ColMW); err != nil {
			return fmt.Errorf("LegacyKCorrectCepheids %s: %w", g, err)
		}
		for i := 0; i < t.Len(); i++ {
			logP, _ := t.Float(i, dataset.ColLogP)
			z, _ := t.Float(i, dataset.ColZ)
			vi, _ := t.Float(i, dataset.ColVI)
			mW, _ := t.Float(i, dataset.ColMW)
			m, c, _ := LegacyCoefficients(f, z)
			mW += (m*logP+c)*z*vi - redshiftLawTerm*z*vi
			if err := t.SetFloat(i, dataset.ColMW, mW); err != nil {
				return fmt.Errorf("LegacyKCorrectCepheids %s: %w", g, err)
			}
		}
	}
	return nil
}

// LegacyTRGBCoefficients returns (a, b) of the TRGB correction in filter f.
func LegacyTRGBCoefficients(f TRGBFilter) (a, b float64, err error) {
	ab, ok := legacyTRGBCoeffs[f]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownFilter, f)
	}
	return ab[0], ab[1], nil
}

// LegacyKCorrectTRGB applies the analytic TRGB K-correction in filter f:
// m ← m + (a + b·z)·z·(V−I).
func LegacyKCorrectTRGB(p *dataset.Partition, f TRGBFilter) error {
	a, b, err := LegacyTRGBCoefficients(f)
	if err != nil {
		return fmt.Errorf("LegacyKCorrectTRGB: %w", err)
	}
	for _, g := range trgbGroups {
		t, ok := p.Table(g)
		if !ok {
			continue
		}
		if err = t.Schema().Require(dataset.Numeric, dataset.ColZ, dataset.ColVI, dataset.ColM); err != nil {
			return fmt.Errorf("LegacyKCorrectTRGB %s: %w", g, err)
		}
		for i := 0; i < t.Len(); i++ {
			z, _ := t.Float(i, dataset.ColZ)
			vi, _ := t.Float(i, dataset.ColVI)
			m, _ := t.Float(i, dataset.ColM)
			if err = t.SetFloat(i, dataset.ColM, m+(a+b*z)*z*vi); err != nil {
				return fmt.Errorf("LegacyKCorrectTRGB %s: %w", g, err)
			}
		}
	}
	return nil
}
