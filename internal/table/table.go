// Package table defines the normalized, columnar output of the AWDB
// flattening engine.
//
// A Table is an ordered set of named columns that all share one row count.
// Each column is either a homogeneous scalar array or a list-column whose cells
// are complete child tables. A nil cell marks a missing value (or an absent
// child table). Tables are immutable once built: every operation that changes
// shape returns a new Table and leaves its input untouched, so a Table may be
// shared freely between goroutines.
package table

import (
	"fmt"

	"github.com/couchcryptid/awdb-etl/internal/geo"
)

// Kind is the element type of a column.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTable // list-column of *Table cells
	KindPoint // geometry column of geo.Point cells
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTable:
		return "table"
	case KindPoint:
		return "point"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// accepts reports whether a non-nil cell value has the Go type stored for k.
func (k Kind) accepts(v any) bool {
	switch v.(type) {
	case string:
		return k == KindString
	case int:
		return k == KindInt
	case float64:
		return k == KindFloat
	case bool:
		return k == KindBool
	case *Table:
		return k == KindTable
	case geo.Point:
		return k == KindPoint
	default:
		return false
	}
}

// Column is one named, typed column. Cells hold string, int, float64, bool,
// *Table or geo.Point according to Kind; nil marks a missing cell.
type Column struct {
	name  string
	kind  Kind
	cells []any
}

// NewColumn validates that every non-nil cell matches kind.
func NewColumn(name string, kind Kind, cells []any) (*Column, error) {
	for i, v := range cells {
		if v == nil {
			continue
		}
		if t, ok := v.(*Table); ok && t == nil {
			cells[i] = nil
			continue
		}
		if !kind.accepts(v) {
			return nil, fmt.Errorf("column %q row %d: %T is not a %s cell", name, i, v, kind)
		}
	}
	return &Column{name: name, kind: kind, cells: cells}, nil
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind    { return c.kind }
func (c *Column) Len() int      { return len(c.cells) }

// Value returns the raw cell at row i, or nil when missing.
func (c *Column) Value(i int) any { return c.cells[i] }

// IsMissing reports whether row i holds no value.
func (c *Column) IsMissing(i int) bool { return c.cells[i] == nil }

// String returns the string cell at row i.
func (c *Column) String(i int) (string, bool) {
	v, ok := c.cells[i].(string)
	return v, ok
}

// Int returns the integer cell at row i.
func (c *Column) Int(i int) (int, bool) {
	v, ok := c.cells[i].(int)
	return v, ok
}

// Float returns the float cell at row i.
func (c *Column) Float(i int) (float64, bool) {
	v, ok := c.cells[i].(float64)
	return v, ok
}

// Bool returns the boolean cell at row i.
func (c *Column) Bool(i int) (bool, bool) {
	v, ok := c.cells[i].(bool)
	return v, ok
}

// Table returns the nested table at row i, or nil when the cell is absent.
func (c *Column) Table(i int) *Table {
	v, _ := c.cells[i].(*Table)
	return v
}

// Point returns the geometry cell at row i.
func (c *Column) Point(i int) (geo.Point, bool) {
	v, ok := c.cells[i].(geo.Point)
	return v, ok
}

// hasValue reports whether at least one cell carries information: a scalar,
// a point, or a nested table that is not empty.
func (c *Column) hasValue() bool {
	for _, v := range c.cells {
		switch x := v.(type) {
		case nil:
		case *Table:
			if !x.IsEmpty() {
				return true
			}
		default:
			return true
		}
	}
	return false
}

// Spatial carries the table-level geometry attributes of a table that has a
// point column.
type Spatial struct {
	Column string
	CRS    geo.CRS
	BBox   geo.BBox
}

// Table is an immutable columnar table.
type Table struct {
	rows    int
	columns []*Column
	spatial *Spatial
}

// Empty returns a table with zero rows and zero columns.
func Empty() *Table {
	return &Table{}
}

// New assembles a table from columns that must all have exactly rows cells
// and distinct names.
func New(rows int, columns ...*Column) (*Table, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if c.Len() != rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.name, c.Len(), rows)
		}
		if _, dup := seen[c.name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.name)
		}
		seen[c.name] = struct{}{}
	}
	return &Table{rows: rows, columns: append([]*Column(nil), columns...)}, nil
}

func (t *Table) NumRows() int { return t.rows }
func (t *Table) NumCols() int { return len(t.columns) }

// IsEmpty reports whether the table carries no cells at all: zero rows or
// zero columns.
func (t *Table) IsEmpty() bool {
	return t.rows == 0 || len(t.columns) == 0
}

// Columns returns the columns in order. The slice is a copy.
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.columns {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// Spatial returns the geometry attributes, if the table has any.
func (t *Table) Spatial() (Spatial, bool) {
	if t.spatial == nil {
		return Spatial{}, false
	}
	return *t.spatial, true
}

// WithColumn returns a copy of t with c appended.
func (t *Table) WithColumn(c *Column) (*Table, error) {
	if c.Len() != t.rows {
		return nil, fmt.Errorf("column %q has %d rows, want %d", c.name, c.Len(), t.rows)
	}
	if _, dup := t.Column(c.name); dup {
		return nil, fmt.Errorf("duplicate column %q", c.name)
	}
	cols := make([]*Column, 0, len(t.columns)+1)
	cols = append(cols, t.columns...)
	cols = append(cols, c)
	return &Table{rows: t.rows, columns: cols, spatial: t.spatial}, nil
}

// WithSpatial returns a copy of t carrying s. The named column must exist and
// hold points.
func (t *Table) WithSpatial(s Spatial) (*Table, error) {
	c, ok := t.Column(s.Column)
	if !ok {
		return nil, fmt.Errorf("geometry column %q not found", s.Column)
	}
	if c.kind != KindPoint {
		return nil, fmt.Errorf("geometry column %q is %s, want point", s.Column, c.kind)
	}
	return &Table{rows: t.rows, columns: t.columns, spatial: &s}, nil
}

// Equal reports whether a and b have the same shape and cells, comparing
// nested tables recursively.
func Equal(a, b *Table) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.rows != b.rows || len(a.columns) != len(b.columns) {
		return false
	}
	if (a.spatial == nil) != (b.spatial == nil) {
		return false
	}
	if a.spatial != nil && *a.spatial != *b.spatial {
		return false
	}
	for i, ca := range a.columns {
		cb := b.columns[i]
		if ca.name != cb.name || ca.kind != cb.kind {
			return false
		}
		for r := range ca.cells {
			if !cellEqual(ca.cells[r], cb.cells[r]) {
				return false
			}
		}
	}
	return true
}

func cellEqual(a, b any) bool {
	ta, aIsTable := a.(*Table)
	tb, bIsTable := b.(*Table)
	if aIsTable || bIsTable {
		return aIsTable && bIsTable && Equal(ta, tb)
	}
	return a == b
}
