package kafka

import (
	"context"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/pkg/types/common"
)

const sourceService = "fra-monitor"

type messagePublisher interface {
	Publish(ctx context.Context, msg *common.ProducerMessage) error
}

// EventPublisher turns domain events into enveloped Kafka messages.
type EventPublisher struct {
	producer        messagePublisher
	ingestedTopic   string
	extractionTopic string
}

// NewEventPublisher publishes through producer.  Empty topic names fall back
// to the defaults.
func NewEventPublisher(producer messagePublisher, ingestedTopic, extractionTopic string) *EventPublisher {
	if ingestedTopic == "" {
		ingestedTopic = TopicRecordsIngested
	}
	if extractionTopic == "" {
		extractionTopic = TopicExtractionRequested
	}
	return &EventPublisher{producer: producer, ingestedTopic: ingestedTopic, extractionTopic: extractionTopic}
}

// PublishRecordsIngested announces a persisted upload, keyed by file name.
func (p *EventPublisher) PublishRecordsIngested(ctx context.Context, ev *fra.RecordsIngestedEvent) error {
	return p.publish(ctx, p.ingestedTopic, EventRecordsIngested, ev.FileName, ev)
}

// RequestExtraction queues an archived document for the worker, keyed by
// object key.
func (p *EventPublisher) RequestExtraction(ctx context.Context, ev *fra.ExtractionRequestedEvent) error {
	return p.publish(ctx, p.extractionTopic, EventExtractionRequested, ev.ObjectKey, ev)
}

func (p *EventPublisher) publish(ctx context.Context, topic, eventType, key string, payload interface{}) error {
	env, err := NewEventEnvelope(eventType, sourceService, payload)
	if err != nil {
		return err
	}
	msg, err := env.ToMessage(topic, key)
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

// DecodeExtractionRequest reads an extraction job from a consumed message.
func DecodeExtractionRequest(msg *common.Message) (*fra.ExtractionRequestedEvent, error) {
	env, err := MessageToEventEnvelope(msg)
	if err != nil {
		return nil, err
	}
	var ev fra.ExtractionRequestedEvent
	if err := env.DecodePayload(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

//Personal.AI order the ending
