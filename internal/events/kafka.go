package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const writeTimeout = 2 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher sends round results to a kafka topic, keyed by session id.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (that *KafkaPublisher) PublishRoundFinished(ctx context.Context, event *entity.RoundFinished) error {
	message, err := encodeRoundFinished(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err = that.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write round event: %w", err)
	}

	return nil
}

func (that *KafkaPublisher) Close() error {
	if err := that.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}

	return nil
}

func encodeRoundFinished(event *entity.RoundFinished) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("could not marshal round event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(event.SessionID),
		Value: value,
		Time:  event.FinishedAt,
	}, nil
}

// Noop drops every event. It is used when no brokers are configured.
type Noop struct{}

func (Noop) PublishRoundFinished(context.Context, *entity.RoundFinished) error {
	return nil
}

func (Noop) Close() error {
	return nil
}
