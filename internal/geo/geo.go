// Package geo holds the raw spatial values attached to station metadata:
// (longitude, latitude) points, the running bounding box over them, and the
// coordinate reference system they are expressed in.
//
// Building rich geometry containers from these values is left to whatever
// spatial library the consumer uses.
package geo

import (
	"fmt"
	"math"

	json "github.com/goccy/go-json"
)

// CRS identifies a coordinate reference system by its user input string and
// its WKT2 definition.
type CRS struct {
	Input string `json:"input"`
	WKT   string `json:"wkt"`
}

// WGS84 is the CRS AWDB reports station coordinates in.
var WGS84 = CRS{
	Input: "EPSG:4326",
	WKT:   wgs84WKT,
}

const wgs84WKT = `GEOGCRS["WGS 84",
    ENSEMBLE["World Geodetic System 1984 ensemble",
        MEMBER["World Geodetic System 1984 (Transit)"],
        MEMBER["World Geodetic System 1984 (G730)"],
        MEMBER["World Geodetic System 1984 (G873)"],
        MEMBER["World Geodetic System 1984 (G1150)"],
        MEMBER["World Geodetic System 1984 (G1674)"],
        MEMBER["World Geodetic System 1984 (G1762)"],
        MEMBER["World Geodetic System 1984 (G2139)"],
        ELLIPSOID["WGS 84",6378137,298.257223563,
            LENGTHUNIT["metre",1]],
        ENSEMBLEACCURACY[2.0]],
    PRIMEM["Greenwich",0,
        ANGLEUNIT["degree",0.0174532925199433]],
    CS[ellipsoidal,2],
        AXIS["geodetic latitude (Lat)",north,
            ORDER[1],
            ANGLEUNIT["degree",0.0174532925199433]],
        AXIS["geodetic longitude (Lon)",east,
            ORDER[2],
            ANGLEUNIT["degree",0.0174532925199433]],
    USAGE[
        SCOPE["Horizontal component of 3D system."],
        AREA["World."],
        BBOX[-90,-180,90,180]],
    ID["EPSG",4326]]`

// Point is a 2-D point stored as (X, Y) = (longitude, latitude).
type Point struct {
	X float64
	Y float64
}

// WKT renders the point as well-known text, e.g. "POINT (-120.5 45)".
func (p Point) WKT() string {
	return fmt.Sprintf("POINT (%g %g)", p.X, p.Y)
}

// MarshalJSON encodes the point as a two-element [x, y] array.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// BBox is an axis-aligned envelope. The zero value is NOT empty; use
// EmptyBBox to start accumulating.
type BBox struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// EmptyBBox returns the sentinel envelope that encloses nothing:
// minimums at +Inf and maximums at -Inf, so the first Extend replaces all four.
func EmptyBBox() BBox {
	return BBox{
		XMin: math.Inf(1),
		YMin: math.Inf(1),
		XMax: math.Inf(-1),
		YMax: math.Inf(-1),
	}
}

// IsEmpty reports whether no point has been folded into the envelope.
func (b BBox) IsEmpty() bool {
	return b.XMin > b.XMax || b.YMin > b.YMax
}

// Extend returns the envelope grown to include p.
func (b BBox) Extend(p Point) BBox {
	if p.X < b.XMin {
		b.XMin = p.X
	}
	if p.X > b.XMax {
		b.XMax = p.X
	}
	if p.Y < b.YMin {
		b.YMin = p.Y
	}
	if p.Y > b.YMax {
		b.YMax = p.Y
	}
	return b
}

// MarshalJSON encodes an empty envelope as null since its infinities have no
// JSON representation.
func (b BBox) MarshalJSON() ([]byte, error) {
	if b.IsEmpty() {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		XMin float64 `json:"xmin"`
		YMin float64 `json:"ymin"`
		XMax float64 `json:"xmax"`
		YMax float64 `json:"ymax"`
	}{b.XMin, b.YMin, b.XMax, b.YMax})
}
