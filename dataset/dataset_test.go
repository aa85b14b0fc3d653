// SPDX-License-Identifier: MIT

package dataset_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/distladder/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cepheidSchema() *dataset.Schema {
	return dataset.MustSchema(
		dataset.Txt(dataset.ColGal),
		dataset.Num(dataset.ColLogP),
		dataset.Num(dataset.ColMW),
		dataset.Num(dataset.ColZ),
	)
}

func cepheidTable(t *testing.T, n int) dataset.Table {
	t.Helper()
	tbl := dataset.NewTable(cepheidSchema())
	for i := 0; i < n; i++ {
		require.NoError(t, tbl.AddRow("N4258", 1.0+0.1*float64(i), 25.0+float64(i), 0.0015))
	}
	return tbl
}

//----------------------------------------------------------------------------//
// Schema
//----------------------------------------------------------------------------//

func TestNewSchema_Errors(t *testing.T) {
	_, err := dataset.NewSchema()
	assert.ErrorIs(t, err, dataset.ErrEmptySchema)

	_, err = dataset.NewSchema(dataset.Num("a"), dataset.Txt("a"))
	assert.ErrorIs(t, err, dataset.ErrDuplicateColumn)
}

func TestSchema_Require(t *testing.T) {
	s := cepheidSchema()
	assert.NoError(t, s.Require(dataset.Numeric, dataset.ColLogP, dataset.ColMW))
	assert.ErrorIs(t, s.Require(dataset.Numeric, dataset.ColGal), dataset.ErrColumnKind)
	assert.ErrorIs(t, s.Require(dataset.Numeric, "sig_mW"), dataset.ErrUnknownColumn)
	assert.Equal(t, []string{"Gal", "logP", "mW", "z"}, s.Names())
}

func TestSchema_ParseRow(t *testing.T) {
	s := cepheidSchema()
	cases := []struct {
		name  string
		cells []string
		err   error
	}{
		{"Valid", []string{"M101", "1.2", "24.5", "0.0008"}, nil},
		{"Short", []string{"M101", "1.2"}, dataset.ErrCellCount},
		{"NotANumber", []string{"M101", "x", "24.5", "0"}, dataset.ErrCellType},
		{"NaN", []string{"M101", "NaN", "24.5", "0"}, dataset.ErrNonFinite},
		{"Inf", []string{"M101", "1", "+Inf", "0"}, dataset.ErrNonFinite},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := s.ParseRow(tc.cells)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cells, r.Cells())
		})
	}
}

func TestSchema_NewRowTypes(t *testing.T) {
	s := cepheidSchema()
	_, err := s.NewRow(1.0, 1.0, 1.0, 1.0)
	assert.ErrorIs(t, err, dataset.ErrCellType, "text column needs a string")

	r, err := s.NewRow("N1309", 2, 26.1, 0.007)
	require.NoError(t, err)
	v, err := r.Float(dataset.ColLogP)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v, "int cells are widened to float64")
}

//----------------------------------------------------------------------------//
// Table
//----------------------------------------------------------------------------//

func TestTable_WithoutReindexes(t *testing.T) {
	tbl := cepheidTable(t, 4)

	rest, removed, err := tbl.Without(1)
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.Len(), "receiver must stay untouched")
	assert.Equal(t, 3, rest.Len())

	mW, err := removed.Float(dataset.ColMW)
	require.NoError(t, err)
	assert.Equal(t, 26.0, mW)

	col, err := rest.Column(dataset.ColMW)
	require.NoError(t, err)
	assert.Equal(t, []float64{25, 27, 28}, col, "rows reindexed contiguously")

	_, _, err = tbl.Without(4)
	assert.ErrorIs(t, err, dataset.ErrRowOutOfRange)
}

func TestTable_WithoutIsIndependent(t *testing.T) {
	tbl := cepheidTable(t, 3)
	rest, _, err := tbl.Without(0)
	require.NoError(t, err)

	require.NoError(t, tbl.SetFloat(1, dataset.ColMW, 99))
	v, err := rest.Float(0, dataset.ColMW)
	require.NoError(t, err)
	assert.Equal(t, 26.0, v, "Without must not alias the source rows")
}

func TestTable_SetFloatRejectsNonFinite(t *testing.T) {
	tbl := cepheidTable(t, 1)
	assert.ErrorIs(t, tbl.SetFloat(0, dataset.ColMW, math.NaN()), dataset.ErrNonFinite)
	assert.ErrorIs(t, tbl.SetFloat(0, dataset.ColGal, 1), dataset.ErrColumnKind)
	assert.ErrorIs(t, tbl.SetFloat(3, dataset.ColMW, 1), dataset.ErrRowOutOfRange)
}

func TestTable_AppendSchemaCheck(t *testing.T) {
	tbl := cepheidTable(t, 1)
	other := dataset.MustSchema(dataset.Num("x"))
	r, err := other.NewRow(1.0)
	require.NoError(t, err)
	assert.ErrorIs(t, tbl.Append(r), dataset.ErrSchemaMismatch)

	// Structurally equal schemas are accepted.
	twin := cepheidSchema()
	r, err = twin.NewRow("N5584", 1.5, 25.9, 0.0055)
	require.NoError(t, err)
	require.NoError(t, tbl.Append(r))
	assert.Equal(t, 2, tbl.Len())
}

func TestSplitWindow(t *testing.T) {
	s := dataset.MustSchema(dataset.Num(dataset.ColZ), dataset.Num(dataset.ColM))
	tbl := dataset.NewTable(s)
	for _, z := range []float64{0.01, 0.023, 0.05, 0.15, 0.2} {
		require.NoError(t, tbl.AddRow(z, 15.0))
	}
	in, out, err := dataset.SplitWindow(tbl, dataset.ColZ, 0.023, 0.15)
	require.NoError(t, err)

	zin, _ := in.Column(dataset.ColZ)
	zout, _ := out.Column(dataset.ColZ)
	assert.Equal(t, []float64{0.023, 0.05, 0.15}, zin, "window bounds are inclusive")
	assert.Equal(t, []float64{0.01, 0.2}, zout)
}

//----------------------------------------------------------------------------//
// Group & Partition
//----------------------------------------------------------------------------//

func TestGroupLabels(t *testing.T) {
	for _, g := range dataset.AllGroups() {
		back, err := dataset.ParseGroup(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, back)
	}
	_, err := dataset.ParseGroup("Quasars")
	assert.ErrorIs(t, err, dataset.ErrUnknownGroup)
	assert.Equal(t, "Cepheids_anchors", dataset.CepheidAnchors.String())
	assert.Len(t, dataset.CepheidFamily(false), 2)
}

func TestPartition_MoveConservesRows(t *testing.T) {
	p := dataset.NewPartition()
	p.Set(dataset.Cepheids, cepheidTable(t, 5))
	p.Set(dataset.SNeHubble, dataset.NewTable(dataset.MustSchema(dataset.Num(dataset.ColZ))))

	excluded := p.EmptyLike(dataset.Cepheids, dataset.CepheidAnchors)
	assert.True(t, excluded.Has(dataset.Cepheids))
	assert.False(t, excluded.Has(dataset.CepheidAnchors), "absent groups are not invented")

	for k := 0; k < 3; k++ {
		require.NoError(t, p.Move(dataset.Cepheids, 0, excluded))
		assert.Equal(t, 5, p.Len(dataset.Cepheids)+excluded.Len(dataset.Cepheids))
	}
	tbl, ok := excluded.Table(dataset.Cepheids)
	require.True(t, ok)
	col, err := tbl.Column(dataset.ColMW)
	require.NoError(t, err)
	assert.Equal(t, []float64{25, 26, 27}, col, "excluded rows keep rejection order")

	assert.ErrorIs(t, p.Move(dataset.CepheidAnchors, 0, excluded), dataset.ErrMissingGroup)
	assert.ErrorIs(t, p.Move(dataset.SNeHubble, 0, excluded), dataset.ErrMissingGroup)
	assert.Equal(t, []dataset.Group{dataset.Cepheids, dataset.SNeHubble}, p.Groups())
}

func TestPartition_CloneIsDeep(t *testing.T) {
	p := dataset.NewPartition()
	p.Set(dataset.Cepheids, cepheidTable(t, 2))
	c := p.Clone()

	tbl, _ := p.Table(dataset.Cepheids)
	require.NoError(t, tbl.SetFloat(0, dataset.ColLogP, 3))

	ct, _ := c.Table(dataset.Cepheids)
	v, err := ct.Float(0, dataset.ColLogP)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	assert.Equal(t, 2, c.Total())
}
