package domain

// StationData is one station of a /data response: the station triplet and the
// per-element observation series recorded there.
type StationData struct {
	StationTriplet string        `json:"stationTriplet"`
	Data           []ElementData `json:"data"`
}

// ElementData pairs an element descriptor with its ordered observations.
type ElementData struct {
	StationElement StationElement `json:"stationElement"`
	Values         []Value        `json:"values"`
}

// StationElement describes one element measured at a station. It appears in
// /data series and in the stationElements list of /stations metadata.
type StationElement struct {
	ElementCode      string  `json:"elementCode"`
	Ordinal          *int    `json:"ordinal,omitempty"`
	HeightDepth      *int    `json:"heightDepth,omitempty"`
	DurationName     *string `json:"durationName,omitempty"`
	DataPrecision    *int    `json:"dataPrecision,omitempty"`
	StoredUnitCode   *string `json:"storedUnitCode,omitempty"`
	OriginalUnitCode *string `json:"originalUnitCode,omitempty"`
	BeginDate        *string `json:"beginDate,omitempty"`
	EndDate          *string `json:"endDate,omitempty"`
	DerivedData      *bool   `json:"derivedData,omitempty"`
}

// Value is one observation. Which identifiers are set depends on the duration:
// daily and hourly values carry Date, semi-monthly values Month/MonthPart/Year,
// and so on. Every field may be absent.
type Value struct {
	Date           *string  `json:"date,omitempty"`
	Month          *int     `json:"month,omitempty"`
	MonthPart      *string  `json:"monthPart,omitempty"`
	Year           *int     `json:"year,omitempty"`
	CollectionDate *string  `json:"collectionDate,omitempty"`
	Value          *float64 `json:"value,omitempty"`
	QCFlag         *string  `json:"qcFlag,omitempty"`
	QAFlag         *string  `json:"qaFlag,omitempty"`
	OrigValue      *float64 `json:"origValue,omitempty"`
	OrigQCFlag     *string  `json:"origQcFlag,omitempty"`
	Average        *float64 `json:"average,omitempty"`
	Median         *float64 `json:"median,omitempty"`
}

// StationMetadata is one station of a /stations response.
type StationMetadata struct {
	StationTriplet    string             `json:"stationTriplet"`
	StationID         *string            `json:"stationId,omitempty"`
	StateCode         *string            `json:"stateCode,omitempty"`
	NetworkCode       *string            `json:"networkCode,omitempty"`
	Name              *string            `json:"name,omitempty"`
	DCOCode           *string            `json:"dcoCode,omitempty"`
	CountyName        *string            `json:"countyName,omitempty"`
	HUC               *string            `json:"huc,omitempty"`
	Elevation         *float64           `json:"elevation,omitempty"`
	Latitude          *float64           `json:"latitude,omitempty"`
	Longitude         *float64           `json:"longitude,omitempty"`
	DataTimeZone      *float64           `json:"dataTimeZone,omitempty"`
	PedonCode         *string            `json:"pedonCode,omitempty"`
	ShefID            *string            `json:"shefId,omitempty"`
	Operator          *string            `json:"operator,omitempty"`
	BeginDate         *string            `json:"beginDate,omitempty"`
	EndDate           *string            `json:"endDate,omitempty"`
	ForecastPoint     *ForecastPoint     `json:"forecastPoint,omitempty"`
	ReservoirMetadata *ReservoirMetadata `json:"reservoirMetadata,omitempty"`
	StationElements   []StationElement   `json:"stationElements,omitempty"`
}

// ForecastPoint is the forecast metadata of a station that issues forecasts.
type ForecastPoint struct {
	Name                    *string `json:"name,omitempty"`
	Forecaster              *string `json:"forecaster,omitempty"`
	ExceedenceProbabilities []int   `json:"exceedenceProbabilities,omitempty"`
}

// ReservoirMetadata is the storage metadata of a reservoir station.
type ReservoirMetadata struct {
	Capacity            *float64 `json:"capacity,omitempty"`
	ElevationAtCapacity *float64 `json:"elevationAtCapacity,omitempty"`
	UsableCapacity      *float64 `json:"usableCapacity,omitempty"`
}

// ForecastSeries is one forecast point of a /forecasts response.
type ForecastSeries struct {
	StationTriplet    string         `json:"stationTriplet"`
	ForecastPointName *string        `json:"forecastPointName,omitempty"`
	Data              []ForecastData `json:"data"`
}

// ForecastData is one element forecast. ForecastValues maps an exceedence
// probability label ("10", "50", ...) to the forecast value.
type ForecastData struct {
	ElementCode     string              `json:"elementCode"`
	UnitCode        *string             `json:"unitCode,omitempty"`
	ForecastPeriod  []string            `json:"forecastPeriod,omitempty"`
	ForecastStatus  *string             `json:"forecastStatus,omitempty"`
	IssueDate       *string             `json:"issueDate,omitempty"`
	PublicationDate *string             `json:"publicationDate,omitempty"`
	PeriodNormal    *float64            `json:"periodNormal,omitempty"`
	ForecastValues  map[string]*float64 `json:"forecastValues,omitempty"`
}
