package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type LedgerMetrics struct {
	opts metric.MeasurementOption

	intentsCreated   metric.Int64Counter
	intentsFulfilled metric.Int64Counter
	intentsSettled   metric.Int64Counter
	intentsAborted   metric.Int64Counter
	intentsDeleted   metric.Int64Counter

	inFlightGauge metric.Int64ObservableGauge
}

// NewLedgerMetrics initializes intent lifecycle metrics. The in-flight gauge
// observes the ledger's custody-holding intent count through the provided
// callback.
func NewLedgerMetrics(meter metric.Meter, env string, id string, inFlight func() int64) (*LedgerMetrics, error) {
	opts := metric.WithAttributes(
		attribute.String("env", env),
		attribute.String("id", id),
	)

	intentsCreated, err := meter.Int64Counter(
		"ledger.IntentsCreated",
		metric.WithDescription("Total number of intents created"),
	)
	if err != nil {
		return nil, err
	}
	intentsFulfilled, err := meter.Int64Counter(
		"ledger.IntentsFulfilled",
		metric.WithDescription("Total number of intents fulfilled by solvers"),
	)
	if err != nil {
		return nil, err
	}
	intentsSettled, err := meter.Int64Counter(
		"ledger.IntentsSettled",
		metric.WithDescription("Total number of intents settled"),
	)
	if err != nil {
		return nil, err
	}
	intentsAborted, err := meter.Int64Counter(
		"ledger.IntentsAborted",
		metric.WithDescription("Total number of intents aborted"),
	)
	if err != nil {
		return nil, err
	}
	intentsDeleted, err := meter.Int64Counter(
		"ledger.IntentsDeleted",
		metric.WithDescription("Total number of intents garbage collected"),
	)
	if err != nil {
		return nil, err
	}

	inFlightGauge, err := meter.Int64ObservableGauge(
		"ledger.InFlightIntents",
		metric.WithInt64Callback(func(context context.Context, result metric.Int64Observer) error {
			result.Observe(inFlight(), opts)
			return nil
		}),
		metric.WithDescription("Number of intents currently holding custody"),
	)
	if err != nil {
		return nil, err
	}

	return &LedgerMetrics{
		opts:             opts,
		intentsCreated:   intentsCreated,
		intentsFulfilled: intentsFulfilled,
		intentsSettled:   intentsSettled,
		intentsAborted:   intentsAborted,
		intentsDeleted:   intentsDeleted,
		inFlightGauge:    inFlightGauge,
	}, nil
}

func (m *LedgerMetrics) TrackCreated() {
	m.intentsCreated.Add(context.Background(), 1, m.opts)
}

func (m *LedgerMetrics) TrackFulfilled() {
	m.intentsFulfilled.Add(context.Background(), 1, m.opts)
}

func (m *LedgerMetrics) TrackSettled() {
	m.intentsSettled.Add(context.Background(), 1, m.opts)
}

func (m *LedgerMetrics) TrackAborted() {
	m.intentsAborted.Add(context.Background(), 1, m.opts)
}

func (m *LedgerMetrics) TrackDeleted() {
	m.intentsDeleted.Add(context.Background(), 1, m.opts)
}
