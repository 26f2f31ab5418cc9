package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/types/common"
)

type mockKafkaConn struct {
	created   []kafka.TopicConfig
	existing  map[string]bool
	createErr error
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, topics...)
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if len(topics) == 1 && m.existing[topics[0]] {
		return []kafka.Partition{{Topic: topics[0]}}, nil
	}
	return nil, errors.New("unknown topic")
}

func (m *mockKafkaConn) Close() error { return nil }

func TestTopicManager_EnsureTopics(t *testing.T) {
	conn := &mockKafkaConn{existing: map[string]bool{TopicDeadLetter: true}}
	m := &TopicManager{conn: conn, logger: logging.NewNopLogger()}

	require.NoError(t, m.EnsureTopics(context.Background(), DefaultTopics()))
	require.Len(t, conn.created, 2)
	assert.Equal(t, TopicRecordsIngested, conn.created[0].Topic)
	assert.Equal(t, TopicExtractionRequested, conn.created[1].Topic)
	assert.Equal(t, 1, conn.created[1].NumPartitions, "jobs are processed in order")
	assert.Equal(t, "retention.ms", conn.created[0].ConfigEntries[0].ConfigName)
}

func TestTopicManager_CreateTopic(t *testing.T) {
	m := &TopicManager{conn: &mockKafkaConn{}, logger: logging.NewNopLogger()}
	assert.Error(t, m.CreateTopic(context.Background(), common.TopicConfig{}))
	assert.Error(t, m.CreateTopic(context.Background(), common.TopicConfig{Name: "t"}))

	m.conn = &mockKafkaConn{createErr: kafka.TopicAlreadyExists}
	assert.NoError(t, m.CreateTopic(context.Background(), common.TopicConfig{Name: "t", Partitions: 1, ReplicationFactor: 1}))

	m.conn = &mockKafkaConn{createErr: errors.New("not controller")}
	assert.Error(t, m.CreateTopic(context.Background(), common.TopicConfig{Name: "t", Partitions: 1, ReplicationFactor: 1}))
}

func TestEventPublisher_RoundTrip(t *testing.T) {
	rec := &recordingPublisher{}
	pub := NewEventPublisher(rec, "", "")

	job := fra.NewExtractionRequestedEvent("june.pdf", "uploads/2025/07/02/id/june.pdf", 2048)
	require.NoError(t, pub.RequestExtraction(context.Background(), job))

	require.Len(t, rec.msgs, 1)
	out := rec.msgs[0]
	assert.Equal(t, TopicExtractionRequested, out.Topic)
	assert.Equal(t, job.ObjectKey, string(out.Key))
	assert.Equal(t, EventExtractionRequested, out.Headers["event_type"])

	got, err := DecodeExtractionRequest(&common.Message{Topic: out.Topic, Value: out.Value})
	require.NoError(t, err)
	assert.Equal(t, job.ObjectKey, got.ObjectKey)
	assert.Equal(t, int64(2048), got.Size)
	assert.Equal(t, job.EventID(), got.EventID())
}

func TestEventPublisher_RecordsIngested(t *testing.T) {
	rec := &recordingPublisher{}
	pub := NewEventPublisher(rec, "custom.ingested", "")

	saved := []fra.Record{{State: "Odisha", Year: 2025, Month: "June"}}
	require.NoError(t, pub.PublishRecordsIngested(context.Background(), fra.NewRecordsIngestedEvent("june.pdf", saved, []string{"Goa"})))

	require.Len(t, rec.msgs, 1)
	assert.Equal(t, "custom.ingested", rec.msgs[0].Topic)

	env, err := MessageToEventEnvelope(&common.Message{Value: rec.msgs[0].Value})
	require.NoError(t, err)
	assert.Equal(t, EventRecordsIngested, env.EventType)
	assert.Equal(t, "v1", env.SchemaVersion)

	var ev fra.RecordsIngestedEvent
	require.NoError(t, env.DecodePayload(&ev))
	assert.Equal(t, []string{"Odisha"}, ev.States)
	assert.Equal(t, []string{"Goa"}, ev.FailedStates)
}

func TestDecodeExtractionRequest_Invalid(t *testing.T) {
	_, err := DecodeExtractionRequest(&common.Message{})
	assert.Error(t, err)
	_, err = DecodeExtractionRequest(&common.Message{Value: []byte("{")})
	assert.Error(t, err)
	_, err = DecodeExtractionRequest(&common.Message{Value: []byte(`{"event_type":"x"}`)})
	assert.Error(t, err)
}

//Personal.AI order the ending
