package kafka

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/awdb-etl/internal/config"
	"github.com/couchcryptid/awdb-etl/internal/domain"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`[{"stationTriplet":"1050:OR:SNTL","data":[]}]`),
		Topic:     "awdb-raw-responses",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: domain.HeaderEndpoint, Value: []byte("data")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `[{"stationTriplet":"1050:OR:SNTL","data":[]}]`, string(raw.Value))
	assert.Equal(t, "awdb-raw-responses", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "data", raw.Headers[domain.HeaderEndpoint])
	assert.Nil(t, raw.Commit)

	req, err := domain.ParseRawEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.EndpointData, req.Endpoint)
}

func TestToMessage(t *testing.T) {
	event := domain.OutputEvent{
		Key:   []byte("doc-1"),
		Value: []byte(`{"rows":0,"columns":[]}`),
		Headers: map[string]string{
			domain.HeaderRows:        "0",
			domain.HeaderEndpoint:    "forecasts",
			domain.HeaderProcessedAt: "2024-04-01T12:00:00Z",
			domain.HeaderColumns:     "0",
		},
	}

	msg := toMessage(event)

	assert.Equal(t, []byte("doc-1"), msg.Key)
	assert.Equal(t, event.Value, msg.Value)
	want := []kafkago.Header{
		{Key: "columns", Value: []byte("0")},
		{Key: "endpoint", Value: []byte("forecasts")},
		{Key: "processed_at", Value: []byte("2024-04-01T12:00:00Z")},
		{Key: "rows", Value: []byte("0")},
	}
	if diff := cmp.Diff(want, msg.Headers); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestNewWriter_UsesSinkTopic(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers:     []string{"localhost:9092"},
		KafkaSinkTopic:   "awdb-normalized-tables",
		HTTPMaxBodyBytes: 1 << 20,
	}
	w := NewWriter(cfg, slog.Default())
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "awdb-normalized-tables", w.writer.Topic)
	assert.Equal(t, kafkago.RequireAll, w.writer.RequiredAcks)
	assert.Equal(t, int64(1<<20), w.writer.BatchBytes)
}
