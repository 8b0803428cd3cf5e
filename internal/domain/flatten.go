package domain

import (
	"sort"
	"strconv"

	"github.com/couchcryptid/awdb-etl/internal/table"
)

// valueSchema lays out the observation sub-table of a /data row.
var valueSchema = table.Schema[Value]{
	table.OptString("date", func(v Value) *string { return v.Date }),
	table.OptInt("month", func(v Value) *int { return v.Month }),
	table.OptString("month_part", func(v Value) *string { return v.MonthPart }),
	table.OptInt("year", func(v Value) *int { return v.Year }),
	table.OptString("collection_date", func(v Value) *string { return v.CollectionDate }),
	table.OptFloat("value", func(v Value) *float64 { return v.Value }),
	table.OptString("qc_flag", func(v Value) *string { return v.QCFlag }),
	table.OptString("qa_flag", func(v Value) *string { return v.QAFlag }),
	table.OptFloat("orig_value", func(v Value) *float64 { return v.OrigValue }),
	table.OptString("orig_qc_flag", func(v Value) *string { return v.OrigQCFlag }),
	table.OptFloat("average", func(v Value) *float64 { return v.Average }),
	table.OptFloat("median", func(v Value) *float64 { return v.Median }),
}

// elementSchema is shared by /data rows (broadcast onto the row) and by the
// station_elements sub-table of /stations rows.
var elementSchema = table.Schema[StationElement]{
	table.String("element_code", func(e StationElement) string { return e.ElementCode }),
	table.OptInt("ordinal", func(e StationElement) *int { return e.Ordinal }),
	table.OptInt("height_depth", func(e StationElement) *int { return e.HeightDepth }),
	table.OptString("duration_name", func(e StationElement) *string { return e.DurationName }),
	table.OptInt("data_precision", func(e StationElement) *int { return e.DataPrecision }),
	table.OptString("stored_unit_code", func(e StationElement) *string { return e.StoredUnitCode }),
	table.OptString("original_unit_code", func(e StationElement) *string { return e.OriginalUnitCode }),
	table.OptString("begin_date", func(e StationElement) *string { return e.BeginDate }),
	table.OptString("end_date", func(e StationElement) *string { return e.EndDate }),
	table.OptBool("derived_data", func(e StationElement) *bool { return e.DerivedData }),
}

// datasetRow is one (station, element) pair of a /data response.
type datasetRow struct {
	station *StationData
	series  *ElementData
}

var datasetSchema = concat(
	table.Schema[datasetRow]{
		table.String("station_triplet", func(r datasetRow) string { return r.station.StationTriplet }),
	},
	table.Lift(elementSchema, func(r datasetRow) StationElement { return r.series.StationElement }),
	table.Schema[datasetRow]{
		table.Nested("values", func(r datasetRow) *table.Table { return table.Nest(valueSchema, r.series.Values) }),
	},
)

// FlattenStationData expands stations into one row per (station, element)
// pair. Station fields are broadcast onto each row and the element's full
// observation sequence becomes one "values" cell.
func FlattenStationData(stations []StationData) *table.Table {
	n := 0
	for i := range stations {
		n += len(stations[i].Data)
	}
	rows := make([]datasetRow, 0, n)
	for i := range stations {
		for j := range stations[i].Data {
			rows = append(rows, datasetRow{station: &stations[i], series: &stations[i].Data[j]})
		}
	}
	return table.Build(datasetSchema, rows)
}

// probabilityValue is one entry of a forecast's probability mapping.
type probabilityValue struct {
	label string
	value *float64
}

var forecastValueSchema = table.Schema[probabilityValue]{
	table.String("probability", func(p probabilityValue) string { return p.label }),
	table.OptFloat("value", func(p probabilityValue) *float64 { return p.value }),
}

// forecastRow is one element forecast of one forecast point.
type forecastRow struct {
	series *ForecastSeries
	entry  *ForecastData
}

var forecastSchema = table.Schema[forecastRow]{
	table.String("station_triplet", func(r forecastRow) string { return r.series.StationTriplet }),
	table.OptString("forecast_point_name", func(r forecastRow) *string { return r.series.ForecastPointName }),
	table.String("element_code", func(r forecastRow) string { return r.entry.ElementCode }),
	table.OptString("unit_code", func(r forecastRow) *string { return r.entry.UnitCode }),
	table.OptString("forecast_period_begin", func(r forecastRow) *string { return periodBound(r.entry.ForecastPeriod, 0) }),
	table.OptString("forecast_period_end", func(r forecastRow) *string { return periodBound(r.entry.ForecastPeriod, 1) }),
	table.OptString("forecast_status", func(r forecastRow) *string { return r.entry.ForecastStatus }),
	table.OptString("issue_date", func(r forecastRow) *string { return r.entry.IssueDate }),
	table.OptString("publication_date", func(r forecastRow) *string { return r.entry.PublicationDate }),
	table.OptFloat("period_normal", func(r forecastRow) *float64 { return r.entry.PeriodNormal }),
	table.Nested("forecast_values", func(r forecastRow) *table.Table {
		return table.Nest(forecastValueSchema, sortedProbabilities(r.entry.ForecastValues))
	}),
}

// FlattenForecasts expands forecast points into one row per element forecast.
// The probability mapping of each row becomes a two-column sub-table.
func FlattenForecasts(series []ForecastSeries) *table.Table {
	var rows []forecastRow
	for i := range series {
		for j := range series[i].Data {
			rows = append(rows, forecastRow{series: &series[i], entry: &series[i].Data[j]})
		}
	}
	return table.Build(forecastSchema, rows)
}

func periodBound(period []string, i int) *string {
	if i >= len(period) || period[i] == "" {
		return nil
	}
	return &period[i]
}

// sortedProbabilities orders a probability mapping by ascending numeric label.
// Labels that are not numbers sort after the numeric ones, lexically.
func sortedProbabilities(m map[string]*float64) []probabilityValue {
	out := make([]probabilityValue, 0, len(m))
	for label, v := range m {
		out = append(out, probabilityValue{label: label, value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		a, errA := strconv.ParseFloat(out[i].label, 64)
		b, errB := strconv.ParseFloat(out[j].label, 64)
		switch {
		case errA == nil && errB == nil && a != b:
			return a < b
		case errA == nil && errB != nil:
			return true
		case errA != nil && errB == nil:
			return false
		default:
			return out[i].label < out[j].label
		}
	})
	return out
}

var probabilitySchema = table.Schema[int]{
	table.Int("probability", func(p int) int { return p }),
}

var forecastPointSchema = table.Schema[ForecastPoint]{
	table.OptString("name", func(f ForecastPoint) *string { return f.Name }),
	table.OptString("forecaster", func(f ForecastPoint) *string { return f.Forecaster }),
	table.Nested("exceedence_probabilities", func(f ForecastPoint) *table.Table {
		return table.NestOptional(probabilitySchema, f.ExceedenceProbabilities)
	}),
}

var reservoirSchema = table.Schema[ReservoirMetadata]{
	table.OptFloat("capacity", func(r ReservoirMetadata) *float64 { return r.Capacity }),
	table.OptFloat("elevation_at_capacity", func(r ReservoirMetadata) *float64 { return r.ElevationAtCapacity }),
	table.OptFloat("usable_capacity", func(r ReservoirMetadata) *float64 { return r.UsableCapacity }),
}

var metadataSchema = table.Schema[StationMetadata]{
	table.String("station_triplet", func(m StationMetadata) string { return m.StationTriplet }),
	table.OptString("station_id", func(m StationMetadata) *string { return m.StationID }),
	table.OptString("state_code", func(m StationMetadata) *string { return m.StateCode }),
	table.OptString("network_code", func(m StationMetadata) *string { return m.NetworkCode }),
	table.OptString("name", func(m StationMetadata) *string { return m.Name }),
	table.OptString("dco_code", func(m StationMetadata) *string { return m.DCOCode }),
	table.OptString("county_name", func(m StationMetadata) *string { return m.CountyName }),
	table.OptString("huc", func(m StationMetadata) *string { return m.HUC }),
	table.OptFloat("elevation", func(m StationMetadata) *float64 { return m.Elevation }),
	table.OptFloat("data_time_zone", func(m StationMetadata) *float64 { return m.DataTimeZone }),
	table.OptString("pedon_code", func(m StationMetadata) *string { return m.PedonCode }),
	table.OptString("shef_id", func(m StationMetadata) *string { return m.ShefID }),
	table.OptString("operator", func(m StationMetadata) *string { return m.Operator }),
	table.OptString("begin_date", func(m StationMetadata) *string { return m.BeginDate }),
	table.OptString("end_date", func(m StationMetadata) *string { return m.EndDate }),
	table.Nested("forecast_point", func(m StationMetadata) *table.Table {
		return nestOne(forecastPointSchema, m.ForecastPoint)
	}),
	table.Nested("reservoir_metadata", func(m StationMetadata) *table.Table {
		return nestOne(reservoirSchema, m.ReservoirMetadata)
	}),
	table.Nested("station_elements", func(m StationMetadata) *table.Table {
		return table.NestOptional(elementSchema, m.StationElements)
	}),
}

// FlattenStationMetadata lays out one row per station. Optional sub-records
// become at most one nested cell each and are absent when unset.
func FlattenStationMetadata(stations []StationMetadata) *table.Table {
	return table.Build(metadataSchema, stations)
}

// nestOne embeds an optional single sub-record as a one-row table.
func nestOne[R any](s table.Schema[R], rec *R) *table.Table {
	if rec == nil {
		return nil
	}
	return table.Nest(s, []R{*rec})
}

func concat[R any](parts ...table.Schema[R]) table.Schema[R] {
	var out table.Schema[R]
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
