package testutil_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/internal/intelligence/fraextract"
	"github.com/turtacn/fra-monitor/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("record saved", logging.String("state", "Odisha"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "record saved", messages[0].Message)
	v, ok := messages[0].Field("state")
	assert.True(t, ok)
	assert.Equal(t, "Odisha", v)

	logger.Clear()
	assert.Empty(t, logger.GetMessages())

	logger.Error("save failed")
	assert.True(t, logger.HasMessage("error", "save failed"))
	assert.False(t, logger.HasMessage("info", "record saved"))
}

func TestMockLogger_ChildrenShareRecord(t *testing.T) {
	root := testutil.NewMockLogger()
	child := root.Named("queue").With(logging.String("file", "june.pdf")).Named("job")

	child.Warn("queued file failed", logging.Int("attempt", 1))

	msg, ok := root.Find("warn", "queued file failed")
	require.True(t, ok)
	assert.Equal(t, "queue.job", msg.Logger)
	file, _ := msg.Field("file")
	assert.Equal(t, "june.pdf", file)
	_, ok = msg.Field("missing")
	assert.False(t, ok)
}

func TestStubExtractor(t *testing.T) {
	stub := testutil.NewStubExtractor(250, "Goa", "Kerala")
	resp, err := stub.Extract(context.Background(), fraextract.Document{})
	require.NoError(t, err)
	require.Len(t, resp.StatesData, 2)
	assert.Equal(t, 250.0, *resp.StatesData[1].TotalClaimsReceived)
	assert.Equal(t, 1, stub.CallCount())

	stub.Err = errors.New("model unavailable")
	_, err = stub.Extract(context.Background(), fraextract.Document{})
	assert.Error(t, err)
	assert.Equal(t, 2, stub.CallCount())
}

//Personal.AI order the ending
