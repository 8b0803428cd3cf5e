package domain

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Endpoint names one of the AWDB endpoint families. The value matches the
// REST path segment.
type Endpoint string

const (
	EndpointData      Endpoint = "data"
	EndpointForecasts Endpoint = "forecasts"
	EndpointStations  Endpoint = "stations"
	EndpointReference Endpoint = "reference-data"
)

// Endpoints lists every supported endpoint family.
var Endpoints = []Endpoint{EndpointData, EndpointForecasts, EndpointStations, EndpointReference}

// ParseEndpoint maps a path segment to an Endpoint.
func ParseEndpoint(s string) (Endpoint, error) {
	for _, e := range Endpoints {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEndpoint, s)
}

var errNotArray = errors.New("expected a JSON array of records")

// decodeBatch decodes every document as a JSON array of R, validates each
// record and concatenates the records in input order. The first failing
// document aborts the batch.
func decodeBatch[R any](endpoint Endpoint, docs [][]byte, validate func(rec *R, path string) error) ([]R, error) {
	var out []R
	for i, doc := range docs {
		doc = bytes.TrimSpace(doc)
		if len(doc) == 0 || doc[0] != '[' {
			return nil, &DecodeError{Endpoint: endpoint, Document: i, Err: errNotArray}
		}

		var recs []R
		if err := json.Unmarshal(doc, &recs); err != nil {
			return nil, &DecodeError{Endpoint: endpoint, Document: i, Err: err}
		}
		for j := range recs {
			if err := validate(&recs[j], fmt.Sprintf("[%d]", j)); err != nil {
				var fe *fieldError
				if errors.As(err, &fe) {
					return nil, &DecodeError{Endpoint: endpoint, Document: i, Path: fe.path, Err: fe.err}
				}
				return nil, &DecodeError{Endpoint: endpoint, Document: i, Err: err}
			}
		}
		out = append(out, recs...)
	}
	return out, nil
}

// DecodeStationData decodes /data responses.
func DecodeStationData(docs ...[]byte) ([]StationData, error) {
	return decodeBatch(EndpointData, docs, validateStationData)
}

// DecodeStationMetadata decodes /stations responses.
func DecodeStationMetadata(docs ...[]byte) ([]StationMetadata, error) {
	return decodeBatch(EndpointStations, docs, validateStationMetadata)
}

// DecodeForecasts decodes /forecasts responses.
func DecodeForecasts(docs ...[]byte) ([]ForecastSeries, error) {
	return decodeBatch(EndpointForecasts, docs, validateForecastSeries)
}

var errBadTriplet = errors.New("station triplet must have the form id:state:network")

func validateTriplet(triplet, path string) error {
	if triplet == "" {
		return required(path)
	}
	parts := strings.Split(triplet, ":")
	if len(parts) != 3 || parts[0] == "" {
		return &fieldError{path: path, err: errBadTriplet}
	}
	return nil
}

func validateStationData(s *StationData, path string) error {
	if err := validateTriplet(s.StationTriplet, path+".stationTriplet"); err != nil {
		return err
	}
	for i := range s.Data {
		p := fmt.Sprintf("%s.data[%d].stationElement", path, i)
		if err := validateStationElement(&s.Data[i].StationElement, p); err != nil {
			return err
		}
	}
	return nil
}

func validateStationElement(e *StationElement, path string) error {
	if e.ElementCode == "" {
		return required(path + ".elementCode")
	}
	return nil
}

func validateStationMetadata(m *StationMetadata, path string) error {
	if err := validateTriplet(m.StationTriplet, path+".stationTriplet"); err != nil {
		return err
	}
	if m.Longitude == nil {
		return required(path + ".longitude")
	}
	if m.Latitude == nil {
		return required(path + ".latitude")
	}
	for i := range m.StationElements {
		if err := validateStationElement(&m.StationElements[i], fmt.Sprintf("%s.stationElements[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

var errBadPeriod = errors.New("forecast period must hold at most a begin and an end")

func validateForecastSeries(f *ForecastSeries, path string) error {
	if err := validateTriplet(f.StationTriplet, path+".stationTriplet"); err != nil {
		return err
	}
	for i := range f.Data {
		d := &f.Data[i]
		p := fmt.Sprintf("%s.data[%d]", path, i)
		if d.ElementCode == "" {
			return required(p + ".elementCode")
		}
		if len(d.ForecastPeriod) > 2 {
			return &fieldError{path: p + ".forecastPeriod", err: errBadPeriod}
		}
	}
	return nil
}
