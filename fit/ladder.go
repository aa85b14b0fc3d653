// SPDX-License-Identifier: MIT

package fit

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/distladder/dataset"
)

// Parameter names.
const (
	ParamMW     = "M_W"
	ParamBW     = "b_W"
	ParamBShort = "b_s"
	ParamBLong  = "b_l"
	ParamBW2    = "b_W2"
	ParamZW     = "Z_W"
	ParamZP     = "zp"
	ParamMTRGB  = "M_TRGB"
	ParamCTRGB  = "c_TRGB"
	ParamMB     = "M_B"
	ParamAB     = "aB"
	ParamH0     = "H0"
)

// MuParam returns the distance-modulus parameter name of a host galaxy.
func MuParam(gal string) string { return "mu_" + gal }

// MuTRGBParam returns the TRGB-specific distance-modulus name of a host.
func MuTRGBParam(gal string) string { return "mu_TRGB_" + gal }

// ZPParam returns the parallax zero-point name of one ColZPSet label.
func ZPParam(set string) string { return "zp_" + set }

// Ladder is the weighted least-squares distance-ladder Fitter.
// A Ladder holds no per-fit state and is safe for concurrent use.
type Ladder struct {
	model  Model
	logger *slog.Logger
}

// NewLadder returns a Ladder for model m.
func NewLadder(m Model, opts ...Option) *Ladder {
	f := &Ladder{model: m}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	f.logger = f.logger.With(slog.String("component", "fit"))
	return f
}

// Model returns the model the Ladder fits.
func (f *Ladder) Model() Model { return f.model }

// Groups returns the groups the model reads, in canonical order.
func (m Model) Groups() []dataset.Group {
	var out []dataset.Group
	for _, g := range dataset.AllGroups() {
		if m.uses(g) {
			out = append(out, g)
		}
	}
	return out
}

func (m Model) uses(g dataset.Group) bool {
	switch g {
	case dataset.Cepheids, dataset.CepheidAnchors, dataset.SNeCepheids:
		return m.IncludeCepheids
	case dataset.CepheidMW:
		return m.IncludeCepheids && m.IncludeMW
	case dataset.TRGB, dataset.TRGBAnchors, dataset.SNeTRGB:
		return m.IncludeTRGB
	case dataset.SNeHubble:
		return m.FitAB
	}
	return false
}

// equation is one sparse design row before whitening.
type equation struct {
	y     float64
	sigma float64
	cols  []int
	vals  []float64
}

func (e *equation) set(col int, v float64) {
	e.cols = append(e.cols, col)
	e.vals = append(e.vals, v)
}

// paramSet keeps parameter names in column order.
type paramSet struct {
	names []string
	index map[string]int
}

func (s *paramSet) add(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	s.index[name] = len(s.names)
	s.names = append(s.names, name)
	return s.index[name]
}

func (s *paramSet) col(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// design is the assembled system of one fit.
type design struct {
	params paramSet
	eqs    []equation
	layout []Segment
}

// assemble builds the parameter list and the equations of partition p.
func (m Model) assemble(p *dataset.Partition, breakP2 float64) (*design, error) {
	d := &design{params: paramSet{index: make(map[string]int)}}
	tables := make(map[dataset.Group]*dataset.Table)
	for _, g := range m.Groups() {
		if t, ok := p.Table(g); ok {
			tables[g] = t
		}
	}

	// Distance moduli first, in host order of first appearance.
	trgbMu := make(map[string]string)
	if t, ok := tables[dataset.Cepheids]; ok {
		if err := m.addHosts(d, *t, MuParam, nil); err != nil {
			return nil, fmt.Errorf("%s: %w", dataset.Cepheids, err)
		}
	}
	if t, ok := tables[dataset.TRGB]; ok {
		name := MuParam
		if m.IncludeCepheids && m.DifferentMu {
			name = MuTRGBParam
		}
		if err := m.addHosts(d, *t, name, trgbMu); err != nil {
			return nil, fmt.Errorf("%s: %w", dataset.TRGB, err)
		}
	}
	// Hosts seen only in a calibrator table keep a free distance modulus.
	if t, ok := tables[dataset.SNeCepheids]; ok {
		if err := m.addHosts(d, *t, MuParam, nil); err != nil {
			return nil, fmt.Errorf("%s: %w", dataset.SNeCepheids, err)
		}
	}
	if t, ok := tables[dataset.SNeTRGB]; ok {
		name := MuParam
		if m.IncludeCepheids && m.DifferentMu {
			name = MuTRGBParam
		}
		if err := m.addHosts(d, *t, name, trgbMu); err != nil {
			return nil, fmt.Errorf("%s: %w", dataset.SNeTRGB, err)
		}
	}

	// Global parameters.
	if tables[dataset.Cepheids] != nil || tables[dataset.CepheidAnchors] != nil || tables[dataset.CepheidMW] != nil {
		d.params.add(ParamMW)
		if m.PLRBreak {
			d.params.add(ParamBShort)
			d.params.add(ParamBLong)
		} else {
			d.params.add(ParamBW)
		}
		if m.PLRBreak2 && tables[dataset.Cepheids] != nil {
			d.params.add(ParamBW2)
		}
		if !m.FixedZw {
			d.params.add(ParamZW)
		}
		if t := tables[dataset.CepheidMW]; t != nil && !m.FixedZP {
			if err := m.addZeroPoints(d, *t); err != nil {
				return nil, fmt.Errorf("%s: %w", dataset.CepheidMW, err)
			}
		}
	}
	if tables[dataset.TRGB] != nil || tables[dataset.TRGBAnchors] != nil {
		d.params.add(ParamMTRGB)
		if m.UseColor {
			d.params.add(ParamCTRGB)
		}
	}
	if tables[dataset.SNeCepheids] != nil || tables[dataset.SNeTRGB] != nil {
		d.params.add(ParamMB)
	}
	if tables[dataset.SNeHubble] != nil {
		d.params.add(ParamAB)
	}

	for _, g := range m.Groups() {
		t, ok := tables[g]
		if !ok {
			continue
		}
		start := len(d.eqs)
		var err error
		switch g {
		case dataset.Cepheids, dataset.CepheidAnchors, dataset.CepheidMW:
			err = m.cepheidRows(d, g, *t, breakP2)
		case dataset.TRGB, dataset.TRGBAnchors:
			err = m.trgbRows(d, g, *t, trgbMu)
		case dataset.SNeCepheids:
			err = m.calibratorRows(d, *t, func(gal string) string { return MuParam(gal) })
		case dataset.SNeTRGB:
			err = m.calibratorRows(d, *t, func(gal string) string { return trgbMu[gal] })
		case dataset.SNeHubble:
			err = m.hubbleRows(d, *t)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", g, err)
		}
		d.layout = append(d.layout, Segment{Group: g, Offset: start, Len: len(d.eqs) - start})
	}
	if len(d.eqs) == 0 {
		return nil, ErrNoData
	}
	return d, nil
}

// addHosts registers one distance modulus per distinct Gal of t. When names
// is non-nil it records the parameter chosen for each host.
func (m Model) addHosts(d *design, t dataset.Table, name func(string) string, names map[string]string) error {
	gals, err := t.TextColumn(dataset.ColGal)
	if err != nil {
		return err
	}
	for _, gal := range gals {
		n := name(gal)
		d.params.add(n)
		if names != nil {
			names[gal] = n
		}
	}
	return nil
}

// addZeroPoints registers the fitted parallax zero-points of the MW table.
func (m Model) addZeroPoints(d *design, t dataset.Table) error {
	if !m.MultipleZP {
		d.params.add(ParamZP)
		return nil
	}
	sets, err := t.TextColumn(dataset.ColZPSet)
	if err != nil {
		return err
	}
	for _, set := range sets {
		d.params.add(ZPParam(set))
	}
	return nil
}

func (m Model) cepheidRows(d *design, g dataset.Group, t dataset.Table, breakP2 float64) error {
	cols := []string{dataset.ColLogP, dataset.ColMW, dataset.ColSigMW, dataset.ColMH}
	switch g {
	case dataset.CepheidAnchors:
		cols = append(cols, dataset.ColMu, dataset.ColSigMu)
	case dataset.CepheidMW:
		cols = append(cols, dataset.ColPi, dataset.ColSigPi)
	}
	if err := t.Schema().Require(dataset.Numeric, cols...); err != nil {
		return err
	}
	var gals, sets []string
	var err error
	switch {
	case g == dataset.Cepheids:
		if gals, err = t.TextColumn(dataset.ColGal); err != nil {
			return err
		}
	case g == dataset.CepheidMW && m.MultipleZP && !m.FixedZP:
		if sets, err = t.TextColumn(dataset.ColZPSet); err != nil {
			return err
		}
	}

	pivot := math.Log10(m.BreakP)
	colMW, _ := d.params.col(ParamMW)
	colZW, hasZW := d.params.col(ParamZW)
	colB2, hasB2 := d.params.col(ParamBW2)
	for i := 0; i < t.Len(); i++ {
		logP, _ := t.Float(i, dataset.ColLogP)
		mW, _ := t.Float(i, dataset.ColMW)
		sig, _ := t.Float(i, dataset.ColSigMW)
		mh, _ := t.Float(i, dataset.ColMH)

		e := equation{y: mW}
		variance := sig*sig + m.AddedScatter*m.AddedScatter
		if m.FixedZw {
			e.y -= m.Zw * mh
			variance += m.SigZw * m.SigZw * mh * mh
		}
		switch g {
		case dataset.Cepheids:
			mu, _ := d.params.col(MuParam(gals[i]))
			e.set(mu, 1)
		case dataset.CepheidAnchors:
			mu, _ := t.Float(i, dataset.ColMu)
			sigMu, _ := t.Float(i, dataset.ColSigMu)
			e.y -= mu
			variance += sigMu * sigMu
		case dataset.CepheidMW:
			pi, _ := t.Float(i, dataset.ColPi)
			sigPi, _ := t.Float(i, dataset.ColSigPi)
			if pi <= 0 {
				return fmt.Errorf("row %d: %w: %g", i, ErrBadParallax, pi)
			}
			if m.FixedZP {
				pi -= m.ZP
				if pi <= 0 {
					return fmt.Errorf("row %d: %w: π−zp=%g", i, ErrBadParallax, pi)
				}
				sz := 5 / math.Ln10 * m.SigZP / pi
				variance += sz * sz
			} else {
				// μ(π−zp) ≈ μ(π) + 5·zp/(ln10·π)
				name := ParamZP
				if m.MultipleZP {
					name = ZPParam(sets[i])
				}
				zp, _ := d.params.col(name)
				e.set(zp, 5/(math.Ln10*pi))
			}
			e.y -= 10 - 5*math.Log10(pi)
			s := 5 / math.Ln10 * sigPi / pi
			variance += s * s
		}

		x := logP - pivot
		e.set(colMW, 1)
		e.set(m.slopeColumn(d, logP), x)
		if hasB2 && g == dataset.Cepheids && breakP2 > 0 && logP > math.Log10(breakP2) {
			e.set(colB2, logP-math.Log10(breakP2))
		}
		if hasZW {
			e.set(colZW, mh)
		}
		if err := e.finish(variance, i); err != nil {
			return err
		}
		d.eqs = append(d.eqs, e)
	}
	return nil
}

// slopeColumn returns the PLR slope column for a Cepheid of period logP.
func (m Model) slopeColumn(d *design, logP float64) int {
	if !m.PLRBreak {
		c, _ := d.params.col(ParamBW)
		return c
	}
	if logP < math.Log10(m.BreakP) {
		c, _ := d.params.col(ParamBShort)
		return c
	}
	c, _ := d.params.col(ParamBLong)
	return c
}

func (m Model) trgbRows(d *design, g dataset.Group, t dataset.Table, hostMu map[string]string) error {
	cols := []string{dataset.ColM, dataset.ColSigM}
	if g == dataset.TRGBAnchors {
		cols = append(cols, dataset.ColMu, dataset.ColSigMu)
	}
	if m.UseColor {
		cols = append(cols, dataset.ColVI)
	}
	if err := t.Schema().Require(dataset.Numeric, cols...); err != nil {
		return err
	}
	var gals []string
	if g == dataset.TRGB {
		var err error
		if gals, err = t.TextColumn(dataset.ColGal); err != nil {
			return err
		}
	}
	colM, _ := d.params.col(ParamMTRGB)
	colC, hasC := d.params.col(ParamCTRGB)
	for i := 0; i < t.Len(); i++ {
		mag, _ := t.Float(i, dataset.ColM)
		sig, _ := t.Float(i, dataset.ColSigM)
		e := equation{y: mag}
		variance := sig * sig
		if g == dataset.TRGB {
			mu, _ := d.params.col(hostMu[gals[i]])
			e.set(mu, 1)
		} else {
			mu, _ := t.Float(i, dataset.ColMu)
			sigMu, _ := t.Float(i, dataset.ColSigMu)
			e.y -= mu
			variance += sigMu * sigMu
		}
		e.set(colM, 1)
		if hasC {
			vi, _ := t.Float(i, dataset.ColVI)
			e.set(colC, vi-m.MidVI)
		}
		if err := e.finish(variance, i); err != nil {
			return err
		}
		d.eqs = append(d.eqs, e)
	}
	return nil
}

func (m Model) calibratorRows(d *design, t dataset.Table, hostParam func(string) string) error {
	if err := t.Schema().Require(dataset.Numeric, dataset.ColM, dataset.ColSigM); err != nil {
		return err
	}
	gals, err := t.TextColumn(dataset.ColGal)
	if err != nil {
		return err
	}
	colMB, _ := d.params.col(ParamMB)
	for i, gal := range gals {
		mu, _ := d.params.col(hostParam(gal))
		mag, _ := t.Float(i, dataset.ColM)
		sig, _ := t.Float(i, dataset.ColSigM)
		e := equation{y: mag}
		e.set(mu, 1)
		e.set(colMB, 1)
		if err = e.finish(sig*sig, i); err != nil {
			return err
		}
		d.eqs = append(d.eqs, e)
	}
	return nil
}

func (m Model) hubbleRows(d *design, t dataset.Table) error {
	if err := t.Schema().Require(dataset.Numeric, dataset.ColM, dataset.ColSigM, dataset.ColZ); err != nil {
		return err
	}
	colAB, _ := d.params.col(ParamAB)
	for i := 0; i < t.Len(); i++ {
		mag, _ := t.Float(i, dataset.ColM)
		sig, _ := t.Float(i, dataset.ColSigM)
		z, _ := t.Float(i, dataset.ColZ)
		if z <= 0 {
			return fmt.Errorf("row %d: %w: %g", i, ErrBadRedshift, z)
		}
		e := equation{y: 5*math.Log10(m.C*z*m.Expansion(z)) - mag}
		e.set(colAB, 5)
		if err := e.finish(sig*sig, i); err != nil {
			return err
		}
		d.eqs = append(d.eqs, e)
	}
	return nil
}

// Expansion is the kinematic luminosity-distance factor
// f(z) = 1 + ½(1−q0)z − ⅙(1 − q0 − 3q0² + j0)z².
func (m Model) Expansion(z float64) float64 {
	q0, j0 := m.Q0, m.J0
	return 1 + 0.5*(1-q0)*z - (1-q0-3*q0*q0+j0)*z*z/6
}

func (e *equation) finish(variance float64, row int) error {
	if !(variance > 0) || math.IsInf(variance, 0) {
		return fmt.Errorf("row %d: %w: σ²=%g", row, ErrBadUncertainty, variance)
	}
	e.sigma = math.Sqrt(variance)
	return nil
}
