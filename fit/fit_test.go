// SPDX-License-Identifier: MIT

package fit_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/distladder/dataset"
	"github.com/katalvlaran/distladder/fit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Noiseless truth used across the tests.
const (
	trueMW  = -5.9
	trueBW  = -3.3
	trueZW  = -0.2
	trueMB  = -19.25
	trueAB  = 0.7158
	trueMT  = -4.05
	anchorM = 29.397
	eps     = 1e-6
)

var hostMu = map[string]float64{"N1309": 32.5, "N5584": 31.8}

var (
	cepSchema = dataset.MustSchema(dataset.Txt(dataset.ColGal), dataset.Num(dataset.ColLogP),
		dataset.Num(dataset.ColMW), dataset.Num(dataset.ColSigMW), dataset.Num(dataset.ColMH), dataset.Num(dataset.ColZ))
	ancSchema = dataset.MustSchema(dataset.Txt(dataset.ColGal), dataset.Num(dataset.ColLogP),
		dataset.Num(dataset.ColMW), dataset.Num(dataset.ColSigMW), dataset.Num(dataset.ColMH), dataset.Num(dataset.ColZ),
		dataset.Num(dataset.ColMu), dataset.Num(dataset.ColSigMu))
	mwSchema = dataset.MustSchema(dataset.Num(dataset.ColLogP), dataset.Num(dataset.ColMW),
		dataset.Num(dataset.ColSigMW), dataset.Num(dataset.ColMH), dataset.Num(dataset.ColPi), dataset.Num(dataset.ColSigPi))
	snSchema  = dataset.MustSchema(dataset.Txt(dataset.ColGal), dataset.Num(dataset.ColM), dataset.Num(dataset.ColSigM))
	hubSchema = dataset.MustSchema(dataset.Num(dataset.ColM), dataset.Num(dataset.ColSigM), dataset.Num(dataset.ColZ))
	tipSchema = dataset.MustSchema(dataset.Txt(dataset.ColGal), dataset.Num(dataset.ColM), dataset.Num(dataset.ColSigM),
		dataset.Num(dataset.ColZ), dataset.Num(dataset.ColVI))
)

func plr(logP, mh float64) float64 { return trueMW + trueBW*(logP-1) + trueZW*mh }

// ladderPartition returns a noiseless Cepheid + SN ladder without MW Cepheids.
func ladderPartition(t testing.TB, m fit.Model) *dataset.Partition {
	t.Helper()
	p := dataset.NewPartition()

	cep := dataset.NewTable(cepSchema)
	for _, gal := range []string{"N1309", "N5584"} {
		for j := 0; j < 5; j++ {
			logP := 0.8 + 0.2*float64(j)
			mh := -0.1 + 0.05*float64(j%3)
			require.NoError(t, cep.AddRow(gal, logP, hostMu[gal]+plr(logP, mh), 0.1, mh, 0.005))
		}
	}
	p.Set(dataset.Cepheids, cep)

	anc := dataset.NewTable(ancSchema)
	for j := 0; j < 6; j++ {
		logP := 0.7 + 0.15*float64(j)
		mh := 0.05 * float64(j%2)
		require.NoError(t, anc.AddRow("N4258", logP, anchorM+plr(logP, mh), 0.1, mh, 0.0015, anchorM, 0.03))
	}
	p.Set(dataset.CepheidAnchors, anc)

	sn := dataset.NewTable(snSchema)
	for _, gal := range []string{"N1309", "N5584"} {
		require.NoError(t, sn.AddRow(gal, hostMu[gal]+trueMB, 0.12))
	}
	p.Set(dataset.SNeCepheids, sn)

	hub := dataset.NewTable(hubSchema)
	for j := 0; j < 8; j++ {
		z := 0.025 + 0.01*float64(j)
		mag := 5*math.Log10(m.C*z*m.Expansion(z)) - 5*trueAB
		require.NoError(t, hub.AddRow(mag, 0.15, z))
	}
	p.Set(dataset.SNeHubble, hub)
	return p
}

func cepheidOnlyModel() fit.Model {
	m := fit.DefaultModel()
	m.IncludeMW = false
	return m
}

func TestLadder_RecoversNoiselessTruth(t *testing.T) {
	m := cepheidOnlyModel()
	res, err := fit.NewLadder(m).Fit(ladderPartition(t, m), 35)
	require.NoError(t, err)

	names := make([]string, len(res.Params))
	for i, p := range res.Params {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"mu_N1309", "mu_N5584", "M_W", "b_W", "Z_W", "M_B", "aB"}, names)

	want := map[string]float64{
		"mu_N1309": hostMu["N1309"], "mu_N5584": hostMu["N5584"],
		fit.ParamMW: trueMW, fit.ParamBW: trueBW, fit.ParamZW: trueZW,
		fit.ParamMB: trueMB, fit.ParamAB: trueAB,
	}
	for name, v := range want {
		p, ok := res.Param(name)
		require.True(t, ok, name)
		assert.InDelta(t, v, p.Value, eps, name)
		assert.Greater(t, p.Sigma, 0.0, name)
	}
	assert.InDelta(t, 0, res.Chi2Dof, 1e-9)
	assert.InDelta(t, math.Pow(10, 0.2*trueMB+trueAB+5), res.H0.Value, 1e-4)
	assert.Greater(t, res.H0.Sigma, 0.0)

	r, err := res.Residuals()
	require.NoError(t, err)
	require.Len(t, r, res.Rows())
	for i, v := range r {
		assert.InDelta(t, 0, v, eps, "residual %d", i)
	}
}

func TestLadder_Layout(t *testing.T) {
	m := cepheidOnlyModel()
	res, err := fit.NewLadder(m).Fit(ladderPartition(t, m), 0)
	require.NoError(t, err)

	assert.Equal(t, []fit.Segment{
		{Group: dataset.Cepheids, Offset: 0, Len: 10},
		{Group: dataset.CepheidAnchors, Offset: 10, Len: 6},
		{Group: dataset.SNeCepheids, Offset: 16, Len: 2},
		{Group: dataset.SNeHubble, Offset: 18, Len: 8},
	}, res.Layout)
	assert.Equal(t, 26, res.Rows())

	// Anchor rows carry y = mW − mu and no host distance.
	y := res.Y.AtVec(10)
	assert.InDelta(t, plr(0.7, 0), y, 1e-12)
	assert.Equal(t, 0.0, res.L.At(10, 0))
	assert.Equal(t, 1.0, res.L.At(10, 2))

	// Hubble rows carry coefficient 5 on aB only.
	assert.Equal(t, 5.0, res.L.At(18, 6))
	assert.Equal(t, 0.0, res.L.At(18, 5))

	// σ includes the added scatter.
	assert.InDelta(t, math.Sqrt(0.01+0.0277*0.0277), res.Sigma[0], 1e-12)
}

func TestLadder_MilkyWayParallax(t *testing.T) {
	m := fit.DefaultModel()
	p := ladderPartition(t, m)
	mw := dataset.NewTable(mwSchema)
	for j := 0; j < 4; j++ {
		logP := 0.9 + 0.1*float64(j)
		pi := 0.5 + 0.25*float64(j) // mas
		mu := 10 - 5*math.Log10(pi)
		require.NoError(t, mw.AddRow(logP, mu+plr(logP, 0.0), 0.05, 0.0, pi, 0.02))
	}
	p.Set(dataset.CepheidMW, mw)

	res, err := fit.NewLadder(m).Fit(p, 0)
	require.NoError(t, err)
	seg, ok := res.Segment(dataset.CepheidMW)
	require.True(t, ok)
	assert.Equal(t, fit.Segment{Group: dataset.CepheidMW, Offset: 16, Len: 4}, seg)

	mwP, _ := res.Param(fit.ParamMW)
	assert.InDelta(t, trueMW, mwP.Value, eps)
	s := 5 / math.Ln10 * 0.02 / 0.5
	assert.InDelta(t, math.Sqrt(0.05*0.05+0.0277*0.0277+s*s), res.Sigma[16], 1e-12)

	bad, _ := p.Table(dataset.CepheidMW)
	require.NoError(t, bad.SetFloat(0, dataset.ColPi, -0.1))
	_, err = fit.NewLadder(m).Fit(p, 0)
	assert.ErrorIs(t, err, fit.ErrBadParallax)
}

func TestLadder_ParallaxZeroPoint(t *testing.T) {
	const zp = -0.014 // mas
	pis := []float64{0.4, 0.6, 0.9, 1.3, 1.8, 2.5}
	mwTable := func(t *testing.T, sets []string, zpOf func(string) float64, exact bool) dataset.Table {
		t.Helper()
		cols := []dataset.Column{dataset.Num(dataset.ColLogP), dataset.Num(dataset.ColMW),
			dataset.Num(dataset.ColSigMW), dataset.Num(dataset.ColMH), dataset.Num(dataset.ColPi), dataset.Num(dataset.ColSigPi)}
		if sets != nil {
			cols = append(cols, dataset.Txt(dataset.ColZPSet))
		}
		mw := dataset.NewTable(dataset.MustSchema(cols...))
		for j, pi := range pis {
			logP := 0.8 + 0.1*float64(j)
			set := ""
			if sets != nil {
				set = sets[j%len(sets)]
			}
			z := zpOf(set)
			mu := 10 - 5*math.Log10(pi) + 5*z/(math.Ln10*pi)
			if exact {
				mu = 10 - 5*math.Log10(pi-z)
			}
			row := []any{logP, mu + plr(logP, 0), 0.05, 0.0, pi, 0.02}
			if sets != nil {
				row = append(row, set)
			}
			require.NoError(t, mw.AddRow(row...))
		}
		return mw
	}
	constZP := func(string) float64 { return zp }

	t.Run("Fitted", func(t *testing.T) {
		m := fit.DefaultModel()
		p := ladderPartition(t, m)
		p.Set(dataset.CepheidMW, mwTable(t, nil, constZP, false))
		res, err := fit.NewLadder(m).Fit(p, 0)
		require.NoError(t, err)
		names := make([]string, len(res.Params))
		for i, q := range res.Params {
			names[i] = q.Name
		}
		assert.Equal(t, []string{"mu_N1309", "mu_N5584", "M_W", "b_W", "Z_W", "zp", "M_B", "aB"}, names)
		got, ok := res.Param(fit.ParamZP)
		require.True(t, ok)
		assert.InDelta(t, zp, got.Value, eps)
		assert.Greater(t, got.Sigma, 0.0)
	})

	t.Run("Fixed", func(t *testing.T) {
		m := fit.DefaultModel()
		m.FixedZP, m.ZP = true, zp
		p := ladderPartition(t, m)
		p.Set(dataset.CepheidMW, mwTable(t, nil, constZP, true))
		res, err := fit.NewLadder(m).Fit(p, 0)
		require.NoError(t, err)
		_, ok := res.Param(fit.ParamZP)
		assert.False(t, ok, "a fixed zero-point is not a free parameter")
		mwP, _ := res.Param(fit.ParamMW)
		assert.InDelta(t, trueMW, mwP.Value, eps)

		seg, _ := res.Segment(dataset.CepheidMW)
		piTrue := pis[0] - zp
		s := 5 / math.Ln10 * 0.02 / piTrue
		sz := 5 / math.Ln10 * m.SigZP / piTrue
		assert.InDelta(t, math.Sqrt(0.05*0.05+0.0277*0.0277+s*s+sz*sz), res.Sigma[seg.Offset], 1e-12)

		m.ZP = pis[0]
		_, err = fit.NewLadder(m).Fit(p, 0)
		assert.ErrorIs(t, err, fit.ErrBadParallax)
	})

	t.Run("Multiple", func(t *testing.T) {
		m := fit.DefaultModel()
		m.MultipleZP = true
		zps := map[string]float64{"R19": -0.014, "H1P": 0.006}
		p := ladderPartition(t, m)
		p.Set(dataset.CepheidMW, mwTable(t, []string{"R19", "H1P"}, func(s string) float64 { return zps[s] }, false))
		res, err := fit.NewLadder(m).Fit(p, 0)
		require.NoError(t, err)
		_, ok := res.Param(fit.ParamZP)
		assert.False(t, ok)
		for set, want := range zps {
			got, ok := res.Param(fit.ZPParam(set))
			require.True(t, ok, set)
			assert.InDelta(t, want, got.Value, eps, set)
		}
	})

	t.Run("MultipleNeedsSetColumn", func(t *testing.T) {
		m := fit.DefaultModel()
		m.MultipleZP = true
		p := ladderPartition(t, m)
		p.Set(dataset.CepheidMW, mwTable(t, nil, constZP, false))
		_, err := fit.NewLadder(m).Fit(p, 0)
		assert.ErrorIs(t, err, dataset.ErrUnknownColumn)
	})
}

func TestLadder_CalibratorOnlyHost(t *testing.T) {
	m := cepheidOnlyModel()
	p := ladderPartition(t, m)
	sn, _ := p.Table(dataset.SNeCepheids)
	require.NoError(t, sn.AddRow("N9999", 33.1+trueMB, 0.1))

	res, err := fit.NewLadder(m).Fit(p, 0)
	require.NoError(t, err)
	mu, ok := res.Param(fit.MuParam("N9999"))
	require.True(t, ok, "a host with only a calibrator SN keeps its distance modulus")
	assert.InDelta(t, 33.1, mu.Value, eps)
	mb, _ := res.Param(fit.ParamMB)
	assert.InDelta(t, trueMB, mb.Value, eps)
}

func TestLadder_TRGBHosts(t *testing.T) {
	build := func(m fit.Model) *dataset.Partition {
		p := ladderPartition(t, m)
		tip := dataset.NewTable(tipSchema)
		require.NoError(t, tip.AddRow("N1309", hostMu["N1309"]+trueMT, 0.05, 0.007, 1.32))
		require.NoError(t, tip.AddRow("N4536", 30.9+trueMT, 0.05, 0.006, 1.40))
		p.Set(dataset.TRGB, tip)
		snT := dataset.NewTable(snSchema)
		require.NoError(t, snT.AddRow("N4536", 30.9+trueMB, 0.12))
		p.Set(dataset.SNeTRGB, snT)
		return p
	}

	t.Run("SharedMu", func(t *testing.T) {
		m := cepheidOnlyModel()
		m.IncludeTRGB, m.DifferentMu, m.UseColor = true, false, false
		res, err := fit.NewLadder(m).Fit(build(m), 0)
		require.NoError(t, err)
		_, ok := res.Param(fit.MuTRGBParam("N1309"))
		assert.False(t, ok)
		mu, ok := res.Param("mu_N4536")
		require.True(t, ok)
		assert.InDelta(t, 30.9, mu.Value, eps)
		mt, _ := res.Param(fit.ParamMTRGB)
		assert.InDelta(t, trueMT, mt.Value, eps)
	})

	t.Run("DifferentMu", func(t *testing.T) {
		m := cepheidOnlyModel()
		m.IncludeTRGB, m.DifferentMu, m.UseColor = true, true, false
		res, err := fit.NewLadder(m).Fit(build(m), 0)
		require.NoError(t, err)
		tipMu, ok := res.Param(fit.MuTRGBParam("N1309"))
		require.True(t, ok)
		assert.InDelta(t, hostMu["N1309"], tipMu.Value, eps)
		cepMu, ok := res.Param(fit.MuParam("N1309"))
		require.True(t, ok)
		assert.InDelta(t, hostMu["N1309"], cepMu.Value, eps)
		mt, _ := res.Param(fit.ParamMTRGB)
		assert.InDelta(t, trueMT, mt.Value, eps)
	})
}

func TestLadder_PLRBreak2(t *testing.T) {
	m := cepheidOnlyModel()
	m.PLRBreak2 = true
	res, err := fit.NewLadder(m).Fit(ladderPartition(t, m), 25)
	require.NoError(t, err)

	b2, ok := res.Param(fit.ParamBW2)
	require.True(t, ok)
	assert.InDelta(t, 0, b2.Value, eps, "noiseless data has no second break")

	col := -1
	for i, p := range res.Params {
		if p.Name == fit.ParamBW2 {
			col = i
		}
	}
	// Host logP ladder is 0.8 … 1.6; log10(25) ≈ 1.398.
	assert.Equal(t, 0.0, res.L.At(2, col), "logP=1.2 is below the break")
	assert.InDelta(t, 1.4-math.Log10(25), res.L.At(3, col), 1e-12)
	assert.InDelta(t, 1.6-math.Log10(25), res.L.At(4, col), 1e-12)
	assert.Equal(t, 0.0, res.L.At(10, col), "anchors carry no second break")
}

func TestLadder_Errors(t *testing.T) {
	m := cepheidOnlyModel()

	t.Run("NoData", func(t *testing.T) {
		_, err := fit.NewLadder(m).Fit(dataset.NewPartition(), 0)
		assert.ErrorIs(t, err, fit.ErrNoData)
	})

	t.Run("Underdetermined", func(t *testing.T) {
		p := dataset.NewPartition()
		anc := dataset.NewTable(ancSchema)
		require.NoError(t, anc.AddRow("N4258", 1.0, 23.5, 0.1, 0.0, 0.0015, anchorM, 0.03))
		p.Set(dataset.CepheidAnchors, anc)
		_, err := fit.NewLadder(m).Fit(p, 0)
		assert.ErrorIs(t, err, fit.ErrUnderdetermined)
	})

	t.Run("Singular", func(t *testing.T) {
		full := ladderPartition(t, m)
		cep, _ := full.Table(dataset.Cepheids)
		p := dataset.NewPartition()
		p.Set(dataset.Cepheids, cep.Clone())
		_, err := fit.NewLadder(m).Fit(p, 0)
		assert.ErrorIs(t, err, fit.ErrSingular, "host distances and M_W are degenerate without anchors")
	})

	t.Run("MissingColumn", func(t *testing.T) {
		p := ladderPartition(t, m)
		p.Set(dataset.SNeHubble, dataset.NewTable(dataset.MustSchema(dataset.Num(dataset.ColM))))
		_, err := fit.NewLadder(m).Fit(p, 0)
		assert.ErrorIs(t, err, dataset.ErrUnknownColumn)
	})

	t.Run("BadRedshift", func(t *testing.T) {
		p := ladderPartition(t, m)
		hub, _ := p.Table(dataset.SNeHubble)
		require.NoError(t, hub.SetFloat(0, dataset.ColZ, 0))
		_, err := fit.NewLadder(m).Fit(p, 0)
		assert.ErrorIs(t, err, fit.ErrBadRedshift)
	})
}

func TestLadder_FixedABPropagatesIntoH0(t *testing.T) {
	m := cepheidOnlyModel()
	m.FitAB = false
	m.AB = trueAB
	res, err := fit.NewLadder(m).Fit(ladderPartition(t, m), 0)
	require.NoError(t, err)
	_, ok := res.Segment(dataset.SNeHubble)
	assert.False(t, ok, "SNe_Hubble is not fitted without aB")
	_, ok = res.Param(fit.ParamAB)
	assert.False(t, ok)
	assert.InDelta(t, math.Pow(10, 0.2*trueMB+trueAB+5), res.H0.Value, 1e-4)
	assert.Greater(t, res.H0.Sigma, 0.0)
}

func TestResult_ResidualsDimension(t *testing.T) {
	_, err := fit.Result{}.Residuals()
	assert.ErrorIs(t, err, fit.ErrDimension)
}

func TestFitterFunc(t *testing.T) {
	called := 0
	var f fit.Fitter = fit.FitterFunc(func(*dataset.Partition, float64) (fit.Result, error) {
		called++
		return fit.Result{}, nil
	})
	_, err := f.Fit(dataset.NewPartition(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, called)
}
