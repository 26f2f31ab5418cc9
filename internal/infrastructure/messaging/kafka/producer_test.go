package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/fra-monitor/pkg/errors"
	"github.com/turtacn/fra-monitor/pkg/types/common"
)

type mockKafkaWriter struct {
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	closed    bool
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		return m.writeFunc(ctx, msgs...)
	}
	return nil
}

func (m *mockKafkaWriter) Close() error {
	m.closed = true
	return nil
}

func (m *mockKafkaWriter) Stats() kafka.WriterStats { return kafka.WriterStats{} }

func newTestProducer(w WriterInterface) *Producer {
	return newProducerWithWriter(w, ProducerConfig{Brokers: []string{"localhost:9092"}}, logging.NewNopLogger())
}

func msgOf(topic, key, value string) *common.ProducerMessage {
	return &common.ProducerMessage{Topic: topic, Key: []byte(key), Value: []byte(value)}
}

func TestValidateProducerConfig(t *testing.T) {
	assert.NoError(t, ValidateProducerConfig(ProducerConfig{Brokers: []string{"b:9092"}}))
	assert.Error(t, ValidateProducerConfig(ProducerConfig{}))
	assert.Error(t, ValidateProducerConfig(ProducerConfig{Brokers: []string{"b:9092"}, MaxRetries: -1}))
}

func TestNewProducer_Defaults(t *testing.T) {
	p, err := NewProducer(ProducerConfig{Brokers: []string{"b:9092"}}, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, 3, p.config.MaxRetries)
	assert.Equal(t, 1024*1024, p.config.MaxMessageBytes)
	require.NoError(t, p.Close())
}

func TestPublish_Success(t *testing.T) {
	var captured []kafka.Message
	w := &mockKafkaWriter{writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
		captured = msgs
		return nil
	}}
	p := newTestProducer(w)

	msg := msgOf(TopicRecordsIngested, "june.pdf", `{"a":1}`)
	msg.Headers = map[string]string{"event_type": EventRecordsIngested}
	require.NoError(t, p.Publish(context.Background(), msg))

	require.Len(t, captured, 1)
	assert.Equal(t, TopicRecordsIngested, captured[0].Topic)
	assert.Equal(t, "june.pdf", string(captured[0].Key))
	assert.False(t, captured[0].Time.IsZero())
	require.Len(t, captured[0].Headers, 1)
	assert.Equal(t, "event_type", captured[0].Headers[0].Key)
	assert.Equal(t, int64(1), p.Sent())
}

func TestPublish_Validation(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})
	p.config.MaxMessageBytes = 4

	tests := []struct {
		name string
		msg  *common.ProducerMessage
	}{
		{"no topic", msgOf("", "k", "v")},
		{"no value", msgOf("t", "k", "")},
		{"too large", msgOf("t", "k", "12345")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Publish(context.Background(), tt.msg)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeValidation))
		})
	}
}

func TestPublish_Failure(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
		return errors.New("leader not available")
	}})
	err := p.Publish(context.Background(), msgOf("t", "k", "v"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeMessagingError))
	assert.Equal(t, int64(1), p.Failed())
}

func TestPublishBatch_PartialFailure(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
		errs := make(kafka.WriteErrors, len(msgs))
		errs[1] = errors.New("fail")
		return errs
	}})
	res, err := p.PublishBatch(context.Background(), []*common.ProducerMessage{msgOf("t", "1", "1"), msgOf("t", "2", "2")})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
}

func TestPublishBatch_TotalFailure(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
		return errors.New("broker down")
	}})
	res, err := p.PublishBatch(context.Background(), []*common.ProducerMessage{msgOf("t", "1", "1"), msgOf("t", "2", "2")})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, -1, res.Errors[0].Index)

	_, err = p.PublishBatch(context.Background(), nil)
	assert.Error(t, err)
}

func TestProducer_Close(t *testing.T) {
	w := &mockKafkaWriter{}
	p := newTestProducer(w)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
	assert.Equal(t, ErrProducerClosed, p.Publish(context.Background(), msgOf("t", "k", "v")))
}

//Personal.AI order the ending
