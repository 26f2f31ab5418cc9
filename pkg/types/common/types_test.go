package common

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Validate_ValidUUID(t *testing.T) {
	id := ID("550e8400-e29b-41d4-a716-446655440000")
	assert.NoError(t, id.Validate())
}

func TestID_Validate_EmptyString(t *testing.T) {
	err := ID("").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestID_Validate_InvalidFormat(t *testing.T) {
	err := ID("not-a-uuid").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ID format")
}

func TestNewID_GeneratesValidUUID(t *testing.T) {
	id := NewID()
	assert.NoError(t, id.Validate())
	assert.NotEqual(t, id, NewID())
}

func TestNewBaseEvent(t *testing.T) {
	e := NewBaseEvent("agg-1")
	assert.NotEmpty(t, e.EventID())
	assert.Equal(t, "agg-1", e.AggregateID())
	assert.False(t, e.OccurredAt().IsZero())

	var _ DomainEvent = e
}

func TestMessageHandler_Signature(t *testing.T) {
	var seen string
	var h MessageHandler = func(ctx context.Context, msg *Message) error {
		seen = msg.Topic
		return nil
	}
	require.NoError(t, h(context.Background(), &Message{Topic: "fra.records.ingested"}))
	assert.Equal(t, "fra.records.ingested", seen)
}

//Personal.AI order the ending
