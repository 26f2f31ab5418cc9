package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/fra-monitor/internal/domain/fra"
	"github.com/turtacn/fra-monitor/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/fra-monitor/internal/intelligence/fraextract"
	"github.com/turtacn/fra-monitor/pkg/errors"
	"github.com/turtacn/fra-monitor/pkg/types/common"
)

type captureProducer struct {
	msgs []*common.ProducerMessage
}

func (p *captureProducer) Publish(_ context.Context, msg *common.ProducerMessage) error {
	p.msgs = append(p.msgs, msg)
	return nil
}

func jobMessage(t *testing.T, fileName, key string) *common.Message {
	t.Helper()
	prod := &captureProducer{}
	pub := kafka.NewEventPublisher(prod, "", "")
	require.NoError(t, pub.RequestExtraction(context.Background(), fra.NewExtractionRequestedEvent(fileName, key, int64(len(fakePDF)))))
	require.Len(t, prod.msgs, 1)
	pm := prod.msgs[0]
	return &common.Message{Topic: pm.Topic, Key: pm.Key, Value: pm.Value, Headers: pm.Headers}
}

type mapArchive map[string][]byte

func (a mapArchive) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := a[key]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "object not found")
	}
	return data, nil
}

type fakeLock struct {
	held     bool
	locked   int
	unlocked int
}

func (l *fakeLock) TryLock(context.Context) (bool, error) {
	if l.held {
		return false, nil
	}
	l.locked++
	return true, nil
}

func (l *fakeLock) Unlock(context.Context) error {
	l.unlocked++
	return nil
}

func TestJobHandler_IngestsArchivedDocument(t *testing.T) {
	f := newFixture(t, nil)
	f.extractor.On("Extract", mock.Anything, mock.MatchedBy(func(d fraextract.Document) bool { return d.Name == "june.pdf" })).
		Return(&fraextract.Response{StatesData: []fraextract.StateRow{{State: "Goa"}}}, nil)

	lock := &fakeLock{}
	var lockedName string
	h := NewJobHandler(f.svc, mapArchive{"uploads/k1": fakePDF}, func(name string) Locker {
		lockedName = name
		return lock
	}, nil)

	require.NoError(t, h.Handle(context.Background(), jobMessage(t, "june.pdf", "uploads/k1")))
	assert.Equal(t, "uploads/k1", lockedName)
	assert.Equal(t, 1, lock.locked)
	assert.Equal(t, 1, lock.unlocked)
	assert.Zero(t, f.archive.puts, "already archived")

	n, _ := f.store.Count(context.Background())
	assert.Equal(t, int64(1), n)
}

func TestJobHandler_SkipsWhenLockHeld(t *testing.T) {
	f := newFixture(t, nil)
	lock := &fakeLock{held: true}
	h := NewJobHandler(f.svc, mapArchive{"uploads/k1": fakePDF}, func(string) Locker { return lock }, nil)

	require.NoError(t, h.Handle(context.Background(), jobMessage(t, "june.pdf", "uploads/k1")))
	assert.Zero(t, lock.unlocked)
	f.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestJobHandler_MissingObjectIsTerminal(t *testing.T) {
	f := newFixture(t, nil)
	h := NewJobHandler(f.svc, mapArchive{}, nil, nil)

	err := h.Handle(context.Background(), jobMessage(t, "june.pdf", "uploads/gone"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestJobHandler_RejectsBadMessages(t *testing.T) {
	f := newFixture(t, nil)
	h := NewJobHandler(f.svc, mapArchive{}, nil, nil)

	assert.Error(t, h.Handle(context.Background(), &common.Message{}))
	assert.True(t, errors.IsCode(h.Handle(context.Background(), jobMessage(t, "x.pdf", "")), errors.ErrCodeValidation))
}

func TestDispatcher(t *testing.T) {
	archive := &fakeArchive{}
	pub := &fakePublisher{}
	d, err := NewDispatcher(archive, pub, 0, nil)
	require.NoError(t, err)

	acc, err := d.Dispatch(context.Background(), &Upload{FileName: "june.pdf", ContentType: "application/pdf", Data: fakePDF})
	require.NoError(t, err)
	assert.True(t, acc.Success)
	assert.Equal(t, "uploads/2025/07/02/x/june.pdf", acc.ObjectKey)
	require.Len(t, pub.jobs, 1)
	assert.Equal(t, acc.JobID, pub.jobs[0].ID)
	assert.Equal(t, int64(len(fakePDF)), pub.jobs[0].Size)

	_, err = d.Dispatch(context.Background(), &Upload{FileName: "a.txt", ContentType: "text/plain", Data: []byte("x")})
	assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentUnsupported))
	assert.Equal(t, 1, archive.puts)

	pub.err = errors.New(errors.ErrCodeMessagingError, "down")
	_, err = d.Dispatch(context.Background(), &Upload{FileName: "b.pdf", Data: fakePDF})
	assert.True(t, errors.IsCode(err, errors.ErrCodeMessagingError))

	_, err = NewDispatcher(nil, pub, 0, nil)
	assert.Error(t, err)
}

//Personal.AI order the ending
