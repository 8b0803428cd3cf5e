package domain

import (
	"fmt"

	"github.com/couchcryptid/awdb-etl/internal/geo"
	"github.com/couchcryptid/awdb-etl/internal/table"
)

// GeometryColumn is the name of the point column appended to station metadata.
const GeometryColumn = "geometry"

// AugmentGeometry appends a (longitude, latitude) point per station and the
// bounding box of all points to a metadata table. t must have exactly one row
// per station, in the same order as stations. With zero stations the bbox is
// geo.EmptyBBox.
func AugmentGeometry(t *table.Table, stations []StationMetadata, crs geo.CRS) (*table.Table, error) {
	if t.NumRows() != len(stations) {
		return nil, fmt.Errorf("augment geometry: table has %d rows for %d stations", t.NumRows(), len(stations))
	}

	cells := make([]any, len(stations))
	bbox := geo.EmptyBBox()
	for i := range stations {
		p := stationPoint(&stations[i])
		cells[i] = p
		bbox = bbox.Extend(p)
	}

	col, err := table.NewColumn(GeometryColumn, table.KindPoint, cells)
	if err != nil {
		return nil, fmt.Errorf("augment geometry: %w", err)
	}
	out, err := t.WithColumn(col)
	if err != nil {
		return nil, fmt.Errorf("augment geometry: %w", err)
	}
	out, err = out.WithSpatial(table.Spatial{Column: GeometryColumn, CRS: crs, BBox: bbox})
	if err != nil {
		return nil, fmt.Errorf("augment geometry: %w", err)
	}
	return out, nil
}

// stationPoint reads the validated coordinates of a station.
func stationPoint(m *StationMetadata) geo.Point {
	return geo.Point{X: *m.Longitude, Y: *m.Latitude}
}
