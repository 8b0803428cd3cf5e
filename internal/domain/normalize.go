package domain

import (
	"fmt"

	"github.com/couchcryptid/awdb-etl/internal/geo"
	"github.com/couchcryptid/awdb-etl/internal/table"
)

// StationCRS is the coordinate reference system attached to station geometry.
var StationCRS = geo.WGS84

// Request is one normalization call: a batch of raw documents from a single
// endpoint family. ReferenceType selects the vocabulary for EndpointReference
// and is ignored otherwise.
type Request struct {
	Endpoint      Endpoint
	ReferenceType string
	Documents     [][]byte
}

// Result is a normalized table together with the top-level columns pruning
// removed from it.
type Result struct {
	Table   *table.Table
	Dropped []string
}

// Normalize decodes, flattens and prunes a batch. Station metadata also gets a
// geometry column and bounding box. A batch with zero documents yields a
// zero-row table whose columns have all been pruned away (metadata keeps its
// zero-row geometry column and an empty bbox).
func Normalize(req Request) (Result, error) {
	switch req.Endpoint {
	case EndpointData:
		stations, err := DecodeStationData(req.Documents...)
		if err != nil {
			return Result{}, err
		}
		return pruned(FlattenStationData(stations)), nil

	case EndpointForecasts:
		series, err := DecodeForecasts(req.Documents...)
		if err != nil {
			return Result{}, err
		}
		return pruned(FlattenForecasts(series)), nil

	case EndpointStations:
		stations, err := DecodeStationMetadata(req.Documents...)
		if err != nil {
			return Result{}, err
		}
		res := pruned(FlattenStationMetadata(stations))
		res.Table, err = AugmentGeometry(res.Table, stations, StationCRS)
		if err != nil {
			return Result{}, err
		}
		return res, nil

	case EndpointReference:
		t, dropped, err := loadReference(req.ReferenceType, req.Documents)
		if err != nil {
			return Result{}, err
		}
		return Result{Table: t, Dropped: dropped}, nil

	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownEndpoint, req.Endpoint)
	}
}

func pruned(t *table.Table) Result {
	out, dropped := table.PruneReport(t)
	return Result{Table: out, Dropped: dropped}
}

// NormalizeStationData is Normalize for /data documents.
func NormalizeStationData(docs ...[]byte) (*table.Table, error) {
	res, err := Normalize(Request{Endpoint: EndpointData, Documents: docs})
	return res.Table, err
}

// NormalizeForecasts is Normalize for /forecasts documents.
func NormalizeForecasts(docs ...[]byte) (*table.Table, error) {
	res, err := Normalize(Request{Endpoint: EndpointForecasts, Documents: docs})
	return res.Table, err
}

// NormalizeStationMetadata is Normalize for /stations documents.
func NormalizeStationMetadata(docs ...[]byte) (*table.Table, error) {
	res, err := Normalize(Request{Endpoint: EndpointStations, Documents: docs})
	return res.Table, err
}
