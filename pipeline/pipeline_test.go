// SPDX-License-Identifier: MIT

package pipeline_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/distladder/config"
	"github.com/katalvlaran/distladder/correction"
	"github.com/katalvlaran/distladder/dataset"
	"github.com/katalvlaran/distladder/fit"
	"github.com/katalvlaran/distladder/internal/logging"
	"github.com/katalvlaran/distladder/outlier"
	"github.com/katalvlaran/distladder/pipeline"
	"github.com/katalvlaran/distladder/synth"
	"github.com/katalvlaran/distladder/tableio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Paths.WorkDir = t.TempDir()
	return cfg
}

func quiet() pipeline.Option {
	return pipeline.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func inWindow(t *testing.T, p *dataset.Partition, lo, hi float64) int {
	t.Helper()
	hub, ok := p.Table(dataset.SNeHubble)
	require.True(t, ok)
	z, err := hub.Column(dataset.ColZ)
	require.NoError(t, err)
	n := 0
	for _, v := range z {
		if v >= lo && v <= hi {
			n++
		}
	}
	return n
}

func TestRun_NoiselessRecoversTruth(t *testing.T) {
	data, truth := synth.Generate(synth.WithNoise(0))
	cfg := testConfig(t)
	cfg.Outliers.Enabled = false
	logP := func() []float64 {
		c, _ := data.Table(dataset.Cepheids)
		v, err := c.Column(dataset.ColLogP)
		require.NoError(t, err)
		return v
	}
	before := logP()

	rep, err := pipeline.Run(context.Background(), cfg, pipeline.Inputs{Data: data}, quiet())
	require.NoError(t, err)

	assert.InDelta(t, truth.H0, rep.H0.Value, 1e-6)
	for _, h := range truth.Hosts {
		mu, ok := rep.Final.Param(fit.MuParam(h.Name))
		require.True(t, ok)
		assert.InDelta(t, h.Mu, mu.Value, 1e-6, h.Name)
	}
	want := inWindow(t, data, cfg.SNe.ZMin, cfg.SNe.ZMax)
	assert.Equal(t, want, rep.Fitted[dataset.SNeHubble])
	assert.Equal(t, data.Len(dataset.SNeHubble)-want, rep.OutOfWindow)
	assert.Equal(t, 1, rep.Iterations)
	assert.Empty(t, rep.Removed)
	assert.NotContains(t, rep.Fitted, dataset.TRGB)
	assert.Equal(t, before, logP(), "inputs are not modified")
}

func TestRun_RejectsInjectedOutliers(t *testing.T) {
	opts := []synth.Option{synth.WithSeed(3), synth.WithOutliers(3)}
	data, truth := synth.Generate(opts...)
	cfg := testConfig(t)

	rep, err := pipeline.Run(context.Background(), cfg, pipeline.Inputs{Data: data}, quiet())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, rep.Removed[dataset.Cepheids], 3)
	assert.Greater(t, rep.Iterations, 3)
	assert.InDelta(t, truth.H0, rep.H0.Value, 5*rep.H0.Sigma)
	assert.Equal(t, data.Len(dataset.Cepheids)-rep.Removed[dataset.Cepheids], rep.Fitted[dataset.Cepheids])

	excluded, err := tableio.ReadCSV(filepath.Join(cfg.Paths.WorkDir, outlier.Dir, dataset.Cepheids.String()+".csv"))
	require.NoError(t, err)
	got, err := excluded.Column(dataset.ColMW)
	require.NoError(t, err)
	host, _ := data.Table(dataset.Cepheids)
	all, err := host.Column(dataset.ColMW)
	require.NoError(t, err)
	for _, i := range synth.OutlierRows(opts...) {
		found := false
		for _, v := range got {
			if math.Abs(v-all[i]) < 1e-9 {
				found = true
			}
		}
		assert.True(t, found, "injected row %d excluded", i)
	}

	sne, err := tableio.ReadCSV(filepath.Join(cfg.Paths.WorkDir, outlier.Dir, dataset.SNeHubble.String()+".csv"))
	require.NoError(t, err)
	assert.Equal(t, rep.OutOfWindow+rep.Removed[dataset.SNeHubble], sne.Len())
}

func TestRun_KCorrection(t *testing.T) {
	data, truth := synth.Generate(synth.WithNoise(0))
	cfg := testConfig(t)
	cfg.Outliers.Enabled = false
	cfg.Corrections.KCorrCep = true

	ref := synth.ReferenceTable()
	rep, err := pipeline.Run(context.Background(), cfg, pipeline.Inputs{Data: data, Reference: ref}, quiet())
	require.NoError(t, err)
	require.NotNil(t, rep.Grids.Cepheid)
	assert.Nil(t, rep.Grids.TRGB)
	assert.Greater(t, math.Abs(rep.H0.Value-truth.H0), 1e-6)

	again, err := pipeline.Run(context.Background(), cfg, pipeline.Inputs{Data: data},
		quiet(), pipeline.WithGrids(rep.Grids))
	require.NoError(t, err)
	assert.Equal(t, rep.H0.Value, again.H0.Value)
	assert.Same(t, rep.Grids.Cepheid, again.Grids.Cepheid)
}

func TestRun_TRGB(t *testing.T) {
	data, truth := synth.Generate(synth.WithNoise(0))
	cfg := testConfig(t)
	cfg.Outliers.Enabled = false
	cfg.TRGB.Include = true

	rep, err := pipeline.Run(context.Background(), cfg, pipeline.Inputs{Data: data}, quiet())
	require.NoError(t, err)
	assert.Equal(t, data.Len(dataset.TRGB), rep.Fitted[dataset.TRGB])
	m, ok := rep.Final.Param(fit.ParamMTRGB)
	require.True(t, ok)
	assert.InDelta(t, truth.MTRGB, m.Value, 1e-6)
	assert.InDelta(t, truth.H0, rep.H0.Value, 1e-6)
}

func TestRun_Errors(t *testing.T) {
	data, _ := synth.Generate(synth.WithHosts(2), synth.WithHubbleSNe(40))
	ctx := context.Background()

	t.Run("no data", func(t *testing.T) {
		_, err := pipeline.Run(ctx, testConfig(t), pipeline.Inputs{}, quiet())
		assert.True(t, errors.Is(err, pipeline.ErrNoData))
	})
	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Outliers.Kappa = 0
		_, err := pipeline.Run(ctx, cfg, pipeline.Inputs{Data: data}, quiet())
		assert.True(t, errors.Is(err, config.ErrInvalid))
	})
	t.Run("no reference", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Corrections.KCorrCep = true
		_, err := pipeline.Run(ctx, cfg, pipeline.Inputs{Data: data}, quiet())
		assert.True(t, errors.Is(err, correction.ErrNoGrid))
	})
	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := pipeline.Run(cctx, testConfig(t), pipeline.Inputs{Data: data}, quiet())
		assert.True(t, errors.Is(err, context.Canceled))
	})
	t.Run("nil logger", func(t *testing.T) {
		assert.Panics(t, func() { pipeline.WithLogger(nil) })
	})
}

func TestRun_LabelsEveryComponentRecord(t *testing.T) {
	data, _ := synth.Generate(synth.WithSeed(9))
	cfg := testConfig(t)
	var buf bytes.Buffer
	logger, err := logging.New(config.Logging{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	ctx := logging.WithRun(context.Background(), "trial")
	_, err = pipeline.Run(ctx, cfg, pipeline.Inputs{Data: data}, pipeline.WithLogger(logger), pipeline.WithoutPersist())
	require.NoError(t, err)

	components := make(map[string]bool)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Equal(t, 1, strings.Count(line, `"run":`), line)
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		assert.Equal(t, "trial", rec["run"], line)
		if c, ok := rec["component"].(string); ok {
			components[c] = true
		}
	}
	assert.True(t, components["pipeline"])
	assert.True(t, components["outlier"], "records of the rejector carry the label too")
}

func TestSweep_BreakP2(t *testing.T) {
	data, _ := synth.Generate(synth.WithSeed(5))
	cfg := testConfig(t)
	cfg.Sweep.BreakP2 = []float64{20, 35, 50}
	cfg.Sweep.Workers = 2

	var buf bytes.Buffer
	logger, err := logging.New(config.Logging{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	pts, err := pipeline.Sweep(context.Background(), cfg, pipeline.Inputs{Data: data}, pipeline.KindBreakP2,
		pipeline.WithLogger(logger))
	require.NoError(t, err)
	require.Len(t, pts, 3)
	for i, want := range cfg.Sweep.BreakP2 {
		assert.Equal(t, want, pts[i].Value)
		_, ok := pts[i].Report.Final.Param(fit.ParamBW2)
		assert.True(t, ok, "b_W2 fitted at %g", want)
	}
	assert.Contains(t, buf.String(), `"run":"break-p2=20"`)
	assert.Contains(t, buf.String(), `"run":"break-p2=50"`)

	_, err = os.Stat(filepath.Join(cfg.Paths.WorkDir, outlier.Dir))
	assert.True(t, errors.Is(err, fs.ErrNotExist), "sweeps do not persist")
}

func TestSweep_EBVCepSharesGrid(t *testing.T) {
	data, _ := synth.Generate(synth.WithNoise(0))
	cfg := testConfig(t)
	cfg.Outliers.Enabled = false
	cfg.Sweep.EBVCep = []float64{0, 0.2, 0.4}

	pts, err := pipeline.Sweep(context.Background(), cfg,
		pipeline.Inputs{Data: data, Reference: synth.ReferenceTable()}, pipeline.KindEBVCep, quiet())
	require.NoError(t, err)
	require.Len(t, pts, 3)
	grid := pts[0].Report.Grids.Cepheid
	require.NotNil(t, grid)
	for _, pt := range pts[1:] {
		assert.Same(t, grid, pt.Report.Grids.Cepheid)
	}
	assert.NotEqual(t, pts[0].Report.H0.Value, pts[2].Report.H0.Value)
}

func TestSweep_Errors(t *testing.T) {
	data, _ := synth.Generate(synth.WithHosts(2))
	ctx := context.Background()
	in := pipeline.Inputs{Data: data}

	tests := []struct {
		name string
		kind pipeline.Kind
		edit func(*config.Config)
		want error
	}{
		{"unknown kind", pipeline.Kind("ebv"), nil, pipeline.ErrUnknownKind},
		{"no values", pipeline.KindBreakP2, func(c *config.Config) { c.Sweep.BreakP2 = nil }, pipeline.ErrNoValues},
		{"trgb disabled", pipeline.KindEBVTRGB, nil, pipeline.ErrKindDisabled},
		{"no reference", pipeline.KindEBVCep, nil, correction.ErrEmptyReference},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t)
			if tc.edit != nil {
				tc.edit(&cfg)
			}
			_, err := pipeline.Sweep(ctx, cfg, in, tc.kind, quiet())
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range pipeline.Kinds() {
		got, err := pipeline.ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := pipeline.ParseKind("teff")
	assert.True(t, errors.Is(err, pipeline.ErrUnknownKind))
	assert.False(t, pipeline.KindBreakP2.NeedsReference())
	assert.True(t, pipeline.KindTeffTRGB.NeedsReference())
}

func TestKind_Apply(t *testing.T) {
	cfg := config.Defaults()
	assert.True(t, pipeline.KindEBVTRGB.Apply(cfg, 0.02).Corrections.KCorrTRGB)
	assert.Equal(t, 4500.0, pipeline.KindTeffTRGB.Apply(cfg, 4500).Corrections.TeffTRGB)
	b := pipeline.KindBreakP2.Apply(cfg, 40)
	assert.True(t, b.Cepheids.PLBreak2)
	assert.Equal(t, 40.0, b.Cepheids.BreakP2)
	assert.False(t, cfg.Cepheids.PLBreak2, "receiver copy is untouched")
}

func TestLoadInputs(t *testing.T) {
	data, _ := synth.Generate(synth.WithHosts(2))
	dir := t.TempDir()
	require.NoError(t, tableio.SavePartition(dir, data))
	refPath := filepath.Join(dir, "kcorr_reference.csv")
	require.NoError(t, tableio.WriteCSV(refPath, synth.ReferenceTable()))

	cfg := testConfig(t)
	cfg.Paths.DataDir = dir
	cfg.Paths.ReferenceTable = refPath

	in, err := pipeline.LoadInputs(cfg, true)
	require.NoError(t, err)
	assert.Equal(t, data.Groups(), in.Data.Groups())
	assert.Equal(t, synth.ReferenceTable().Len(), in.Reference.Len())

	in, err = pipeline.LoadInputs(cfg, false)
	require.NoError(t, err)
	assert.Nil(t, in.Reference.Schema())

	cfg.Paths.ReferenceTable = ""
	_, err = pipeline.LoadInputs(cfg, true)
	assert.True(t, errors.Is(err, pipeline.ErrNoReference))
}

func TestModelFor(t *testing.T) {
	cfg := config.Defaults()
	cfg.TRGB.Include = true
	cfg.Cepheids.FixedZw = true
	cfg.Cepheids.Zw = -0.17
	cfg.Cepheids.FixedZP = true
	cfg.Cepheids.SigZP = 0.003
	m := pipeline.ModelFor(cfg)
	assert.True(t, m.IncludeTRGB)
	assert.True(t, m.FixedZw)
	assert.Equal(t, -0.17, m.Zw)
	assert.True(t, m.FixedZP)
	assert.False(t, m.MultipleZP)
	assert.Equal(t, -0.014, m.ZP)
	assert.Equal(t, 0.003, m.SigZP)
	assert.Equal(t, cfg.Physics.C, m.C)

	o := pipeline.OutlierOptions(cfg, nil)
	assert.Equal(t, cfg.Outliers.Kappa, o.Kappa)
	assert.Equal(t, []dataset.Group{dataset.Cepheids, dataset.CepheidAnchors, dataset.CepheidMW, dataset.SNeHubble}, o.Groups())

	assert.Equal(t, cfg.Physics.R, pipeline.CepheidParams(cfg).R)
	assert.Equal(t, cfg.Corrections.TeffTRGB, pipeline.TRGBParams(cfg).Teff)
	assert.False(t, pipeline.NeedsReference(cfg))
	cfg.Corrections.KCorrTRGB = true
	assert.True(t, pipeline.NeedsReference(cfg))
}
