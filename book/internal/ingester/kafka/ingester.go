package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"taletrail/book/pkg/model"
	"taletrail/pkg/logging"
)

const pollTimeout = 500 * time.Millisecond

type consumer interface {
	SubscribeTopics(topics []string, rebalanceCb kafka.RebalanceCb) error
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
	Close() error
}

// Ingester defines a Kafka ingester of rating events.
type Ingester struct {
	consumer consumer
	topic    string
	logger   *zap.Logger
}

// NewIngester creates a new Kafka ingester.
func NewIngester(addr string, groupID string, topic string, logger *zap.Logger) (*Ingester, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": addr,
		"group.id":          groupID,
		"auto.offset.reset": "earliest",
	})
	if err != nil {
		return nil, err
	}
	return newIngester(c, topic, logger), nil
}

func newIngester(c consumer, topic string, logger *zap.Logger) *Ingester {
	logger = logger.With(
		zap.String(logging.FieldComponent, "kafka-ingester"),
		zap.String("topic", topic),
	)
	return &Ingester{consumer: c, topic: topic, logger: logger}
}

// Ingest starts ingestion from Kafka and returns a channel of the rating
// events consumed from the topic. The channel is closed and the consumer
// released once ctx is done.
func (i *Ingester) Ingest(ctx context.Context) (chan model.RatingEvent, error) {
	i.logger.Info("Starting Kafka ingester")
	if err := i.consumer.SubscribeTopics([]string{i.topic}, nil); err != nil {
		return nil, err
	}

	ch := make(chan model.RatingEvent, 1)
	go func() {
		defer func() {
			close(ch)
			if err := i.consumer.Close(); err != nil {
				i.logger.Warn("Failed to close consumer", zap.Error(err))
			}
		}()
		for ctx.Err() == nil {
			msg, err := i.consumer.ReadMessage(pollTimeout)
			if err != nil {
				var kerr kafka.Error
				if !errors.As(err, &kerr) || kerr.Code() != kafka.ErrTimedOut {
					i.logger.Warn("Consumer error", zap.Error(err))
				}
				continue
			}
			event, err := decodeEvent(msg.Value)
			if err != nil {
				i.logger.Warn("Dropping malformed message", zap.Stringer("partition", msg.TopicPartition), zap.Error(err))
				continue
			}
			select {
			case ch <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func decodeEvent(data []byte) (model.RatingEvent, error) {
	var event model.RatingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return event, err
	}
	switch event.EventType {
	case "":
		event.EventType = model.RatingEventTypePut
	case model.RatingEventTypePut, model.RatingEventTypeDelete:
	default:
		return event, fmt.Errorf("unknown event type %q", event.EventType)
	}
	return event, nil
}
