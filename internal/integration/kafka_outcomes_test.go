//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/carlhiggs/global-scorecards/internal/adapter/kafka"
	"github.com/carlhiggs/global-scorecards/internal/config"
	"github.com/carlhiggs/global-scorecards/internal/domain"
)

const testOutcomeTopic = "test-scorecard-outcomes"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("scorecards-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	cc, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cc.Close()

	require.NoError(t, cc.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestKafkaOutcomeWriter verifies that outcomes published by kafka.Writer can
// be consumed back from the topic with their key and headers.
func TestKafkaOutcomeWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testOutcomeTopic)

	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		KafkaOutcomeTopic: testOutcomeTopic,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	finished := time.Date(2026, 3, 1, 9, 0, 2, 0, time.UTC)
	outcomes := []domain.CityOutcome{
		{RunID: "run-1", Language: "English", City: "Graz", State: domain.StateSucceeded, FinishedAt: finished},
		{RunID: "run-1", Language: "English", City: "Unknown City", State: domain.StateFailed, Error: "city not found", FinishedAt: finished},
	}
	require.NoError(t, writer.RecordOutcomes(ctx, outcomes))

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testOutcomeTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	t.Cleanup(func() { _ = reader.Close() })

	for i, want := range outcomes {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := reader.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read outcome %d", i)

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}

		var got domain.CityOutcome
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, want.City, string(msg.Key))
		assert.Equal(t, want.City, got.City)
		assert.Equal(t, want.State, got.State)
		assert.Equal(t, want.Error, got.Error)
		assert.Equal(t, "run-1", headers["run_id"])
		assert.Equal(t, string(want.State), headers["state"])
	}
}
