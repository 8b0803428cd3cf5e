package domain

import (
	"context"
	"fmt"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// Message header keys shared by the source and sink topics.
const (
	HeaderEndpoint      = "endpoint"
	HeaderReferenceType = "reference_type"
	HeaderRows          = "rows"
	HeaderColumns       = "columns"
	HeaderProcessedAt   = "processed_at"
)

// RawEvent represents an unprocessed message from the source topic: one raw
// AWDB response document plus the headers that say how to read it.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// ParseRawEvent turns a source message into a single-document Request. The
// endpoint header is required; reference_type only matters for reference-data.
func ParseRawEvent(raw RawEvent) (Request, error) {
	name, ok := raw.Headers[HeaderEndpoint]
	if !ok {
		return Request{}, fmt.Errorf("missing %q header", HeaderEndpoint)
	}
	endpoint, err := ParseEndpoint(name)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Endpoint:      endpoint,
		ReferenceType: raw.Headers[HeaderReferenceType],
		Documents:     [][]byte{raw.Value},
	}, nil
}

// SerializeResult encodes a normalized table as the sink message for key.
func SerializeResult(key []byte, req Request, res Result, processedAt time.Time) (OutputEvent, error) {
	data, err := json.Marshal(res.Table)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize %s table: %w", req.Endpoint, err)
	}
	headers := map[string]string{
		HeaderEndpoint:    string(req.Endpoint),
		HeaderRows:        strconv.Itoa(res.Table.NumRows()),
		HeaderColumns:     strconv.Itoa(res.Table.NumCols()),
		HeaderProcessedAt: processedAt.UTC().Format(time.RFC3339),
	}
	if req.Endpoint == EndpointReference {
		headers[HeaderReferenceType] = req.ReferenceType
	}
	return OutputEvent{Key: key, Value: data, Headers: headers}, nil
}
