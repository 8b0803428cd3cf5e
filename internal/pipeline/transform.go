package pipeline

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/awdb-etl/internal/domain"
	"github.com/couchcryptid/awdb-etl/internal/observability"
)

// NormalizeTransformer implements Transformer by normalizing the one AWDB
// document carried by each message into a table.
type NormalizeTransformer struct {
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a NormalizeTransformer. A nil clock uses real time.
func NewTransformer(clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *NormalizeTransformer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &NormalizeTransformer{clock: clock, logger: logger, metrics: metrics}
}

func (t *NormalizeTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	if req.Endpoint == domain.EndpointReference && !domain.IsReferenceType(req.ReferenceType) {
		t.metrics.UnknownReferenceTypes.Inc()
		t.logger.Warn("unknown reference type, emitting empty table",
			"reference_type", req.ReferenceType, "offset", raw.Offset)
	}

	res, err := domain.Normalize(req)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	endpoint := string(req.Endpoint)
	t.metrics.RowsNormalized.WithLabelValues(endpoint).Add(float64(res.Table.NumRows()))
	t.metrics.ColumnsPruned.WithLabelValues(endpoint).Add(float64(len(res.Dropped)))
	if len(res.Dropped) > 0 {
		t.logger.Debug("pruned empty columns", "endpoint", endpoint, "columns", res.Dropped)
	}

	return domain.SerializeResult(raw.Key, req, res, t.clock.Now())
}
