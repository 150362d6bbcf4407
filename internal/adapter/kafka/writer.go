// Package kafka publishes per-city report outcomes to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/carlhiggs/global-scorecards/internal/config"
	"github.com/carlhiggs/global-scorecards/internal/domain"
)

const (
	maxAttempts    = 3
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 2 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer produces outcome events to a Kafka topic.
// It implements pipeline.OutcomeSink.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured outcome topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaOutcomeTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// RecordOutcomes serializes and publishes the outcomes of a language group in
// a single WriteMessages call, retrying transient failures with backoff.
func (w *Writer) RecordOutcomes(ctx context.Context, outcomes []domain.CityOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(outcomes))
	for i := range outcomes {
		msg, err := serializeToMessage(outcomes[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}

	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = w.writer.WriteMessages(ctx, msgs...); err == nil {
			w.logger.Debug("outcomes published", "count", len(msgs))
			return nil
		}
		w.logger.Warn("publish outcomes failed", "attempt", attempt, "error", err)
		if attempt == maxAttempts || !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return fmt.Errorf("publish %d outcomes: %w", len(msgs), err)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a CityOutcome into a Kafka message keyed by
// city, so a city's outcomes stay on one partition.
func serializeToMessage(o domain.CityOutcome) (kafkago.Message, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize outcome: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(o.City),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(o.RunID)},
			{Key: "language", Value: []byte(o.Language)},
			{Key: "state", Value: []byte(o.State)},
			{Key: "finished_at", Value: []byte(o.FinishedAt.Format(time.RFC3339))},
		},
	}, nil
}
