package table

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/awdb-etl/internal/geo"
)

type obs struct {
	Date  *string
	Value *float64
	Flag  *string
}

type parent struct {
	ID       string
	Count    int
	Children []obs
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

var obsSchema = Schema[obs]{
	OptString("date", func(o obs) *string { return o.Date }),
	OptFloat("value", func(o obs) *float64 { return o.Value }),
	OptString("flag", func(o obs) *string { return o.Flag }),
}

var parentSchema = Schema[parent]{
	String("id", func(p parent) string { return p.ID }),
	Int("count", func(p parent) int { return p.Count }),
	Nested("children", func(p parent) *Table { return NestOptional(obsSchema, p.Children) }),
}

func TestBuild_DeclaredOrder(t *testing.T) {
	tbl := Build(obsSchema, []obs{
		{Date: strPtr("2024-01-01"), Value: floatPtr(1.5)},
		{Date: strPtr("2024-01-02")},
	})

	assert.Equal(t, 2, tbl.NumRows())
	if diff := cmp.Diff([]string{"date", "value", "flag"}, tbl.ColumnNames()); diff != "" {
		t.Fatalf("column order mismatch (-want +got):\n%s", diff)
	}

	value, ok := tbl.Column("value")
	require.True(t, ok)
	assert.Equal(t, KindFloat, value.Kind())
	v, ok := value.Float(0)
	require.True(t, ok)
	assert.Equal(t, 1.5, v)
	assert.True(t, value.IsMissing(1))
}

func TestBuild_RowCountInvariant(t *testing.T) {
	tbl := Build(parentSchema, []parent{
		{ID: "a", Count: 1, Children: []obs{{Value: floatPtr(1)}}},
		{ID: "b", Count: 2},
		{ID: "c", Count: 3, Children: []obs{}},
	})

	for _, c := range tbl.Columns() {
		assert.Equal(t, tbl.NumRows(), c.Len(), "column %s", c.Name())
	}
}

func TestNest(t *testing.T) {
	t.Run("empty records yield zero-row table", func(t *testing.T) {
		child := Nest(obsSchema, []obs{})
		require.NotNil(t, child)
		assert.Equal(t, 0, child.NumRows())
	})

	t.Run("nil records still yield a table", func(t *testing.T) {
		child := Nest(obsSchema, nil)
		require.NotNil(t, child)
		assert.Equal(t, 0, child.NumRows())
	})

	t.Run("optional nil records yield absent cell", func(t *testing.T) {
		assert.Nil(t, NestOptional(obsSchema, nil))
	})

	t.Run("optional empty records yield zero-row table", func(t *testing.T) {
		child := NestOptional(obsSchema, []obs{})
		require.NotNil(t, child)
		assert.Equal(t, 0, child.NumRows())
	})

	t.Run("children are pruned before embedding", func(t *testing.T) {
		child := Nest(obsSchema, []obs{{Value: floatPtr(1)}, {Value: floatPtr(2)}})
		assert.Equal(t, []string{"value"}, child.ColumnNames())
		assert.Equal(t, 2, child.NumRows())
	})
}

func TestNested_AbsentCell(t *testing.T) {
	tbl := Build(parentSchema, []parent{{ID: "a"}, {ID: "b", Children: []obs{{Flag: strPtr("V")}}}})
	children, ok := tbl.Column("children")
	require.True(t, ok)

	assert.True(t, children.IsMissing(0))
	assert.Nil(t, children.Table(0))
	require.NotNil(t, children.Table(1))
	assert.Equal(t, 1, children.Table(1).NumRows())
}

func TestNew(t *testing.T) {
	ids, err := NewColumn("id", KindString, []any{"a", "b"})
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		tbl, err := New(2, ids)
		require.NoError(t, err)
		assert.Equal(t, []string{"id"}, tbl.ColumnNames())
	})

	t.Run("row count mismatch", func(t *testing.T) {
		_, err := New(3, ids)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `column "id" has 2 rows`)
	})

	t.Run("duplicate column", func(t *testing.T) {
		_, err := New(2, ids, ids)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})
}

func TestNewColumn_KindMismatch(t *testing.T) {
	_, err := NewColumn("n", KindInt, []any{1, "two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a int cell")
}

func TestNewColumn_TypedNilTable(t *testing.T) {
	var nilTable *Table
	c, err := NewColumn("t", KindTable, []any{nilTable})
	require.NoError(t, err)
	assert.True(t, c.IsMissing(0))
}

func TestWithColumn_DoesNotMutate(t *testing.T) {
	base := Build(obsSchema, []obs{{Value: floatPtr(1)}})
	pts, err := NewColumn("geometry", KindPoint, []any{geo.Point{X: 1, Y: 2}})
	require.NoError(t, err)

	out, err := base.WithColumn(pts)
	require.NoError(t, err)

	assert.Equal(t, 3, base.NumCols())
	assert.Equal(t, 4, out.NumCols())

	_, err = base.WithColumn(&Column{name: "short", kind: KindInt})
	require.Error(t, err)
}

func TestWithSpatial(t *testing.T) {
	base := Build(obsSchema, []obs{{Value: floatPtr(1)}})
	pts, err := NewColumn("geometry", KindPoint, []any{geo.Point{X: 1, Y: 2}})
	require.NoError(t, err)
	withPts, err := base.WithColumn(pts)
	require.NoError(t, err)

	_, err = base.WithSpatial(Spatial{Column: "geometry"})
	require.Error(t, err)

	_, err = withPts.WithSpatial(Spatial{Column: "value"})
	require.Error(t, err)

	out, err := withPts.WithSpatial(Spatial{Column: "geometry", CRS: geo.WGS84, BBox: geo.EmptyBBox().Extend(geo.Point{X: 1, Y: 2})})
	require.NoError(t, err)
	sp, ok := out.Spatial()
	require.True(t, ok)
	assert.Equal(t, "geometry", sp.Column)

	_, ok = withPts.Spatial()
	assert.False(t, ok)
}

func TestEqual(t *testing.T) {
	recs := []parent{{ID: "a", Children: []obs{{Value: floatPtr(1)}}}}
	a := Build(parentSchema, recs)
	b := Build(parentSchema, recs)
	assert.True(t, Equal(a, b))

	c := Build(parentSchema, []parent{{ID: "a", Children: []obs{{Value: floatPtr(2)}}}})
	assert.False(t, Equal(a, c))

	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(a, nil))
}

func TestMarshalJSON(t *testing.T) {
	tbl := Build(parentSchema, []parent{
		{ID: "a", Count: 1, Children: []obs{{Date: strPtr("2024-01-01"), Value: floatPtr(2.5)}}},
		{ID: "b", Count: 2},
	})

	data, err := json.Marshal(tbl)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"rows": 2,
		"columns": [
			{"name": "id", "type": "string", "values": ["a", "b"]},
			{"name": "count", "type": "int", "values": [1, 2]},
			{"name": "children", "type": "table", "values": [
				{"rows": 1, "columns": [
					{"name": "date", "type": "string", "values": ["2024-01-01"]},
					{"name": "value", "type": "float", "values": [2.5]}
				]},
				null
			]}
		]
	}`, string(data))
}

func TestMarshalJSON_Spatial(t *testing.T) {
	pts, err := NewColumn("geometry", KindPoint, []any{geo.Point{X: -120.5, Y: 45}})
	require.NoError(t, err)
	tbl, err := New(1, pts)
	require.NoError(t, err)
	tbl, err = tbl.WithSpatial(Spatial{Column: "geometry", CRS: geo.WGS84, BBox: geo.EmptyBBox().Extend(geo.Point{X: -120.5, Y: 45})})
	require.NoError(t, err)

	data, err := json.Marshal(tbl)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"rows": 1,
		"columns": [{"name": "geometry", "type": "point", "values": [[-120.5, 45]]}],
		"crs": "EPSG:4326",
		"bbox": {"xmin": -120.5, "ymin": 45, "xmax": -120.5, "ymax": 45}
	}`, string(data))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "table", KindTable.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestLift(t *testing.T) {
	type wrapper struct {
		Label string
		Obs   obs
	}
	s := append(Schema[wrapper]{
		String("label", func(w wrapper) string { return w.Label }),
	}, Lift(obsSchema, func(w wrapper) obs { return w.Obs })...)

	tbl := Build(s, []wrapper{
		{Label: "a", Obs: obs{Date: strPtr("2024-01-01"), Value: floatPtr(2)}},
		{Label: "b", Obs: obs{Flag: strPtr("E")}},
	})

	assert.Equal(t, []string{"label", "date", "value", "flag"}, tbl.ColumnNames())
	date, _ := tbl.Column("date")
	assert.Equal(t, KindString, date.Kind())
	got, ok := date.String(0)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", got)
	assert.True(t, date.IsMissing(1))

	flag, _ := tbl.Column("flag")
	got, ok = flag.String(1)
	require.True(t, ok)
	assert.Equal(t, "E", got)
}
