package worker

import (
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awarerag/internal/model"
)

type fakeAppender struct {
	records []model.ConversationLog
	err     error
}

func (f *fakeAppender) Append(record *model.ConversationLog) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, *record)
	return nil
}

type fakeAcknowledger struct {
	acked  bool
	nacked bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error { f.acked = true; return nil }
func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = true
	return nil
}
func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error { return nil }

func queuedDelivery(t *testing.T, record model.ConversationLog, ack amqp.Acknowledger) amqp.Delivery {
	t.Helper()
	// Same encoding the publisher applies before enqueueing.
	payload, err := json.Marshal(record)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: payload}
}

func TestHandle_PersistsRecordWithSources(t *testing.T) {
	record := model.ConversationLog{
		SessionID:   "s1",
		UserQuery:   "what is trafficking?",
		GPTResponse: "an answer",
		Model:       "gpt-4o-mini",
	}
	record.SetSources([]string{"https://example.org/a", "https://example.org/b"})

	appender := &fakeAppender{}
	ack := &fakeAcknowledger{}
	w := NewLogPersistWorker(nil, appender, "q")

	w.handle(queuedDelivery(t, record, ack))

	require.Len(t, appender.records, 1)
	persisted := appender.records[0]
	assert.Equal(t, "s1", persisted.SessionID)
	assert.Equal(t, "what is trafficking?", persisted.UserQuery)
	assert.Equal(t, "an answer", persisted.GPTResponse)
	assert.Equal(t, []string{"https://example.org/a", "https://example.org/b"}, persisted.SourceList())
	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
}

func TestHandle_DiscardsQueuedID(t *testing.T) {
	record := model.ConversationLog{ID: 99, SessionID: "s1", UserQuery: "q", GPTResponse: "a"}
	record.SetSources(nil)

	appender := &fakeAppender{}
	w := NewLogPersistWorker(nil, appender, "q")

	w.handle(queuedDelivery(t, record, &fakeAcknowledger{}))

	require.Len(t, appender.records, 1)
	assert.Zero(t, appender.records[0].ID)
}

func TestHandle_NacksMalformedPayload(t *testing.T) {
	appender := &fakeAppender{}
	ack := &fakeAcknowledger{}
	w := NewLogPersistWorker(nil, appender, "q")

	w.handle(amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")})

	assert.Empty(t, appender.records)
	assert.True(t, ack.nacked)
	assert.False(t, ack.acked)
}

func TestHandle_NacksOnAppendFailure(t *testing.T) {
	appender := &fakeAppender{err: errors.New("db unreachable")}
	ack := &fakeAcknowledger{}
	w := NewLogPersistWorker(nil, appender, "q")

	record := model.ConversationLog{SessionID: "s1", UserQuery: "q", GPTResponse: "a"}
	record.SetSources(nil)
	w.handle(queuedDelivery(t, record, ack))

	assert.True(t, ack.nacked)
	assert.False(t, ack.acked)
}
