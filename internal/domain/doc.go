// Package domain models USDA NRCS Air and Water Database (AWDB) responses and
// normalizes them into flat, columnar tables.
//
// # Data Source
//
// Responses come from the AWDB REST API
// (https://wcc.sc.egov.usda.gov/awdbRestApi/swagger-ui/index.html). Four
// endpoint families are supported, each with a fixed schema:
//
//	/data            per-station, per-element observation series
//	/forecasts       per-forecast-point, per-element probability forecasts
//	/stations        station metadata, optionally with forecast, reservoir
//	                 and element descriptors
//	/reference-data  flat code/name vocabularies (networks, units, ...)
//
// # AWDB Conventions
//
// Station triplet:
//
//	"<id>:<state>:<network>"  →  e.g. "1050:OR:SNTL"
//	Unique station identifier. Every record of /data, /forecasts and /stations
//	must carry one; a missing or ill-formed triplet is a decode failure.
//
// Elements:
//
//	An element is a measured quantity identified by a short code, e.g. WTEQ
//	(snow water equivalent), SNWD (snow depth), PREC (precipitation
//	accumulation), TAVG (average air temperature). Ordinal distinguishes
//	multiple sensors of the same element at one station; heightDepth carries
//	the sensor height (positive) or depth (negative) for soil and air sensors.
//
// Observation identifiers:
//
//	Daily/hourly values are keyed by "date"; semi-monthly and monthly values by
//	"month", "monthPart" ("1st", "2nd") and "year"; collection dates are only
//	present for manually measured snow courses. Any field may be absent.
//
// Forecast probabilities:
//
//	forecastValues is keyed by exceedence probability label ("10", "30", "50",
//	"70", "90"). Labels are emitted in ascending numeric order.
//
// # Output Contract
//
// Nested, variable-shape structures become list-columns of child tables:
//
//	/data       one row per (station, element); "values" holds the observations
//	/forecasts  one row per element forecast; "forecast_values" holds
//	            (probability, value)
//	/stations   one row per station; "forecast_point", "reservoir_metadata" and
//	            "station_elements" are absent cells when the API omits them,
//	            and "geometry" holds the (longitude, latitude) point
//
// Columns that carry no value in any row are pruned, children before parents.
// Decode failures on any endpoint surface as a *DecodeError naming the
// offending document; they never degrade to an empty table. The one tolerated
// miss is an unknown reference type, which yields an empty table (see
// [LoadReference]).
package domain
