package feed

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer publishes roster events to a single topic.
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer creates a producer bound to the given brokers and topic.
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			Async:        false,
		},
	}
}

// WriteMessages publishes the batch to the roster topic.
func (p *KafkaProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return p.writer.WriteMessages(ctx, msgs...)
}

// Close releases the writer.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
