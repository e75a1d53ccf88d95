package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taletrail/book/pkg/model"
)

type fakeConsumer struct {
	mu       sync.Mutex
	messages [][]byte
	topics   []string
	closed   bool
}

func (c *fakeConsumer) SubscribeTopics(topics []string, _ kafka.RebalanceCb) error {
	c.topics = topics
	return nil
}

func (c *fakeConsumer) ReadMessage(timeout time.Duration) (*kafka.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		time.Sleep(time.Millisecond)
		return nil, kafka.NewError(kafka.ErrTimedOut, "timed out", false)
	}
	v := c.messages[0]
	c.messages = c.messages[1:]
	if v == nil {
		return nil, errors.New("broker down")
	}
	return &kafka.Message{Value: v}, nil
}

func (c *fakeConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func TestIngest(t *testing.T) {
	fc := &fakeConsumer{messages: [][]byte{
		[]byte(`{"userId":1,"bookId":2,"rating":5,"eventType":"put"}`),
		[]byte(`not json`),
		nil,
		[]byte(`{"userId":1,"bookId":3,"rating":4}`),
		[]byte(`{"userId":1,"bookId":3,"eventType":"archive"}`),
		[]byte(`{"userId":1,"bookId":2,"eventType":"delete"}`),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := newIngester(fc, "ratings", zap.NewNop()).Ingest(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ratings"}, fc.topics)

	var got []model.RatingEvent
	for len(got) < 3 {
		select {
		case e := <-ch:
			got = append(got, e)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for events")
		}
	}
	assert.Equal(t, int64(2), got[0].BookID)
	assert.Equal(t, 5, got[0].Value)
	assert.Equal(t, model.RatingEventTypePut, got[1].EventType)
	assert.Equal(t, int64(3), got[1].BookID)
	assert.Equal(t, model.RatingEventTypeDelete, got[2].EventType)

	cancel()
	for range ch {
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()
	assert.True(t, fc.closed)
}

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    model.RatingEventType
		wantErr bool
	}{
		{name: "missing type is put", data: `{"userId":1,"bookId":1,"rating":3}`, want: model.RatingEventTypePut},
		{name: "delete", data: `{"userId":1,"bookId":1,"eventType":"delete"}`, want: model.RatingEventTypeDelete},
		{name: "unknown type", data: `{"eventType":"upsert"}`, wantErr: true},
		{name: "malformed", data: `{`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := decodeEvent([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.EventType)
		})
	}
}
