// SPDX-License-Identifier: MIT

package synth

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/distladder/dataset"
)

// C is the speed of light in km/s.
const C = 299792.458

// OutlierShift is the magnitude offset applied to injected outliers.
const OutlierShift = 1.5

// Anchor is a galaxy with a geometric distance.
type Anchor struct {
	Name  string
	Mu    float64
	SigMu float64
	Z     float64
}

// Reference anchors.
var (
	CepheidAnchors = []Anchor{{"N4258", 29.397, 0.032, 0.0015}, {"LMC", 18.477, 0.026, 0.0009}}
	TRGBAnchors    = []Anchor{{"N4258", 29.397, 0.032, 0.0015}, {"LMC", 18.477, 0.026, 0.0009}, {"SMC", 18.977, 0.032, 0.0005}}
)

// Host is an SN-host galaxy.
type Host struct {
	Name string
	Mu   float64
	Z    float64
	TRGB bool // also has a TRGB distance
}

// Truth holds the parameters the data were drawn from.
type Truth struct {
	H0     float64
	AB     float64
	MB     float64
	MW     float64
	BW     float64
	ZW     float64
	BreakP float64 // pivot period in days
	MTRGB  float64
	CTRGB  float64
	MidVI  float64
	Q0, J0 float64
	Hosts  []Host
}

// Schemas of the generated groups.
var (
	CepheidSchema = dataset.MustSchema(
		dataset.Txt(dataset.ColGal), dataset.Num(dataset.ColLogP), dataset.Num(dataset.ColMW),
		dataset.Num(dataset.ColSigMW), dataset.Num(dataset.ColMH), dataset.Num(dataset.ColZ), dataset.Num(dataset.ColVI))
	CepheidAnchorSchema = dataset.MustSchema(
		dataset.Txt(dataset.ColGal), dataset.Num(dataset.ColLogP), dataset.Num(dataset.ColMW),
		dataset.Num(dataset.ColSigMW), dataset.Num(dataset.ColMH), dataset.Num(dataset.ColZ), dataset.Num(dataset.ColVI),
		dataset.Num(dataset.ColMu), dataset.Num(dataset.ColSigMu))
	MWSchema = dataset.MustSchema(
		dataset.Num(dataset.ColLogP), dataset.Num(dataset.ColMW), dataset.Num(dataset.ColSigMW),
		dataset.Num(dataset.ColMH), dataset.Num(dataset.ColPi), dataset.Num(dataset.ColSigPi),
		dataset.Num(dataset.ColZ), dataset.Num(dataset.ColVI), dataset.Txt(dataset.ColZPSet))
	TRGBSchema = dataset.MustSchema(
		dataset.Txt(dataset.ColGal), dataset.Num(dataset.ColM), dataset.Num(dataset.ColSigM),
		dataset.Num(dataset.ColZ), dataset.Num(dataset.ColVI))
	TRGBAnchorSchema = dataset.MustSchema(
		dataset.Txt(dataset.ColGal), dataset.Num(dataset.ColM), dataset.Num(dataset.ColSigM),
		dataset.Num(dataset.ColZ), dataset.Num(dataset.ColVI), dataset.Num(dataset.ColMu), dataset.Num(dataset.ColSigMu))
	CalibratorSchema = dataset.MustSchema(
		dataset.Txt(dataset.ColGal), dataset.Num(dataset.ColM), dataset.Num(dataset.ColSigM))
	HubbleSchema = dataset.MustSchema(
		dataset.Num(dataset.ColM), dataset.Num(dataset.ColSigM), dataset.Num(dataset.ColZ))
)

// Measurement errors.
const (
	sigHostCepheid   = 0.20
	sigAnchorCepheid = 0.10
	sigMWCepheid     = 0.05
	sigParallax      = 0.02 // mas
	sigTRGB          = 0.05
	sigCalibrator    = 0.13
	sigHubble        = 0.10
)

// DefaultTruth returns the PLR, TRGB and SN parameters for a given H0.
func DefaultTruth(h0 float64) Truth {
	t := Truth{
		H0:     h0,
		AB:     0.715840,
		MW:     -5.894,
		BW:     -3.26,
		ZW:     -0.20,
		BreakP: 10,
		MTRGB:  -4.05,
		CTRGB:  0.20,
		MidVI:  1.32,
		Q0:     -0.55,
		J0:     1,
	}
	t.MB = 5 * (math.Log10(h0) - t.AB - 5)
	return t
}

// Expansion is the kinematic factor f(z) of the luminosity distance.
func (t Truth) Expansion(z float64) float64 {
	return 1 + 0.5*(1-t.Q0)*z - (1-t.Q0-3*t.Q0*t.Q0+t.J0)*z*z/6
}

// plr returns the absolute Wesenheit magnitude of a Cepheid.
func (t Truth) plr(logP, mh float64) float64 {
	return t.MW + t.BW*(logP-math.Log10(t.BreakP)) + t.ZW*mh
}

// Generate draws a full partition and returns it with its Truth.
//
// Complexity: O(total rows).
func Generate(opts ...Option) (*dataset.Partition, Truth) {
	c := newConfig(opts)
	truth := DefaultTruth(c.h0)
	truth.Q0, truth.J0 = c.q0, c.j0

	r := streamRNG(c.seed, streamHosts)
	for i := 0; i < c.hosts; i++ {
		truth.Hosts = append(truth.Hosts, Host{
			Name: fmt.Sprintf("H%02d", i+1),
			Mu:   uniform(r, 31, 33),
			Z:    uniform(r, 0.001, 0.01),
			TRGB: i < c.trgbHosts,
		})
	}

	p := dataset.NewPartition()
	p.Set(dataset.Cepheids, c.hostCepheids(truth))
	p.Set(dataset.CepheidAnchors, c.anchorCepheidTable(truth))
	if c.mwCepheids > 0 {
		p.Set(dataset.CepheidMW, c.mwTable(truth))
	}
	if c.trgbHosts > 0 {
		p.Set(dataset.TRGB, c.trgbTable(truth))
		p.Set(dataset.TRGBAnchors, c.trgbAnchorTable(truth))
	}
	cal, calTRGB := c.calibrators(truth)
	p.Set(dataset.SNeCepheids, cal)
	if c.trgbHosts > 0 {
		p.Set(dataset.SNeTRGB, calTRGB)
	}
	p.Set(dataset.SNeHubble, c.hubbleTable(truth))
	return p, truth
}

func (c genConfig) gauss(r *rand.Rand, sigma float64) float64 {
	return r.NormFloat64() * sigma * c.noise
}

func mustAdd(t *dataset.Table, values ...any) {
	if err := t.AddRow(values...); err != nil {
		panic(fmt.Sprintf("synth: %v", err))
	}
}

func (c genConfig) hostCepheids(truth Truth) dataset.Table {
	r := streamRNG(c.seed, streamCepheids)
	t := dataset.NewTable(CepheidSchema)
	for _, h := range truth.Hosts {
		for j := 0; j < c.cepheidsPerHost; j++ {
			logP := uniform(r, 0.5, 2.0)
			mh := uniform(r, -0.3, 0.2)
			vi := uniform(r, 0.7, 1.3)
			mW := h.Mu + truth.plr(logP, mh) + c.gauss(r, sigHostCepheid)
			mustAdd(&t, h.Name, logP+math.Log10(1+h.Z), mW, sigHostCepheid, mh, h.Z, vi)
		}
	}
	if c.outliers > 0 {
		o := streamRNG(c.seed, streamOutliers)
		perm := o.Perm(t.Len())
		for k := 0; k < c.outliers && k < len(perm); k++ {
			v, _ := t.Float(perm[k], dataset.ColMW)
			_ = t.SetFloat(perm[k], dataset.ColMW, v+OutlierShift)
		}
	}
	return t
}

// OutlierRows returns the host Cepheid rows shifted by WithOutliers for the
// given options, in injection order.
func OutlierRows(opts ...Option) []int {
	c := newConfig(opts)
	n := c.hosts * c.cepheidsPerHost
	if c.outliers == 0 {
		return nil
	}
	perm := streamRNG(c.seed, streamOutliers).Perm(n)
	if c.outliers < n {
		perm = perm[:c.outliers]
	}
	return perm
}

func (c genConfig) anchorCepheidTable(truth Truth) dataset.Table {
	r := streamRNG(c.seed, streamAnchors)
	t := dataset.NewTable(CepheidAnchorSchema)
	for j := 0; j < c.anchorCepheids; j++ {
		a := CepheidAnchors[j%len(CepheidAnchors)]
		logP := uniform(r, 0.4, 1.8)
		mh := uniform(r, -0.4, 0.1)
		vi := uniform(r, 0.7, 1.3)
		mW := a.Mu + truth.plr(logP, mh) + c.gauss(r, sigAnchorCepheid)
		mustAdd(&t, a.Name, logP+math.Log10(1+a.Z), mW, sigAnchorCepheid, mh, a.Z, vi, a.Mu, a.SigMu)
	}
	return t
}

// mwZPSets label the parallax zero-point sets of the MW Cepheids.
var mwZPSets = []string{"R19", "H1P"}

func (c genConfig) mwTable(truth Truth) dataset.Table {
	r := streamRNG(c.seed, streamMW)
	t := dataset.NewTable(MWSchema)
	for j := 0; j < c.mwCepheids; j++ {
		logP := uniform(r, 0.6, 1.6)
		mh := uniform(r, -0.1, 0.15)
		vi := uniform(r, 0.7, 1.3)
		pi := uniform(r, 0.3, 3.0)
		mu := 10 - 5*math.Log10(pi)
		mW := mu + truth.plr(logP, mh) + c.gauss(r, sigMWCepheid)
		piObs := pi + c.gauss(r, sigParallax)
		mustAdd(&t, logP, mW, sigMWCepheid, mh, piObs, sigParallax, 0.0, vi, mwZPSets[j%len(mwZPSets)])
	}
	return t
}

func (c genConfig) trgbTable(truth Truth) dataset.Table {
	r := streamRNG(c.seed, streamTRGB)
	t := dataset.NewTable(TRGBSchema)
	for _, h := range truth.Hosts {
		if !h.TRGB {
			continue
		}
		vi := uniform(r, 1.2, 1.6)
		m := h.Mu + truth.MTRGB + truth.CTRGB*(vi-truth.MidVI) + c.gauss(r, sigTRGB)
		mustAdd(&t, h.Name, m, sigTRGB, h.Z, vi)
	}
	return t
}

func (c genConfig) trgbAnchorTable(truth Truth) dataset.Table {
	r := streamRNG(c.seed, streamTRGBAnchors)
	t := dataset.NewTable(TRGBAnchorSchema)
	for _, a := range TRGBAnchors {
		vi := uniform(r, 1.1, 1.7)
		m := a.Mu + truth.MTRGB + truth.CTRGB*(vi-truth.MidVI) + c.gauss(r, sigTRGB)
		mustAdd(&t, a.Name, m, sigTRGB, a.Z, vi, a.Mu, a.SigMu)
	}
	return t
}

func (c genConfig) calibrators(truth Truth) (cep, trgb dataset.Table) {
	r := streamRNG(c.seed, streamCalibrators)
	cep = dataset.NewTable(CalibratorSchema)
	trgb = dataset.NewTable(CalibratorSchema)
	for _, h := range truth.Hosts {
		m := h.Mu + truth.MB + c.gauss(r, sigCalibrator)
		mustAdd(&cep, h.Name, m, sigCalibrator)
		if h.TRGB {
			mustAdd(&trgb, h.Name, m, sigCalibrator)
		}
	}
	return cep, trgb
}

func (c genConfig) hubbleTable(truth Truth) dataset.Table {
	r := streamRNG(c.seed, streamHubble)
	t := dataset.NewTable(HubbleSchema)
	for j := 0; j < c.hubbleSNe; j++ {
		z := uniform(r, 0.01, 0.2)
		m := 5*math.Log10(C*z*truth.Expansion(z)) - 5*truth.AB + c.gauss(r, sigHubble)
		mustAdd(&t, m, sigHubble, z)
	}
	return t
}
