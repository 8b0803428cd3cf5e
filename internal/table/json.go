package table

import (
	json "github.com/goccy/go-json"

	"github.com/couchcryptid/awdb-etl/internal/geo"
)

type jsonTable struct {
	Rows    int          `json:"rows"`
	Columns []jsonColumn `json:"columns"`
	CRS     string       `json:"crs,omitempty"`
	BBox    *geo.BBox    `json:"bbox,omitempty"`
}

type jsonColumn struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Values []any  `json:"values"`
}

// MarshalJSON encodes the table column-major. Nested cells encode recursively
// and missing cells encode as null. Spatial tables also carry "crs" and "bbox".
func (t *Table) MarshalJSON() ([]byte, error) {
	out := jsonTable{
		Rows:    t.rows,
		Columns: make([]jsonColumn, len(t.columns)),
	}
	for i, c := range t.columns {
		values := c.cells
		if values == nil {
			values = []any{}
		}
		out.Columns[i] = jsonColumn{Name: c.name, Type: c.kind.String(), Values: values}
	}
	if t.spatial != nil {
		bbox := t.spatial.BBox
		out.CRS = t.spatial.CRS.Input
		out.BBox = &bbox
	}
	return json.Marshal(out)
}
