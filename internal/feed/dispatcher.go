// Package feed buffers roster change events and delivers them to Kafka.
package feed

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(context.Context, ...kafka.Message) error
}

type schemaRegistrar interface {
	EnsureSchema(context.Context, string, string) (int, error)
}

// Event is a roster change queued for delivery.
type Event struct {
	EventType    string
	PartitionKey string
	Payload      json.RawMessage
}

// Dispatcher drains the event buffer and delivers batches to Kafka using
// Schema Registry metadata. Delivery is best effort: a full buffer drops
// events, a failed batch is logged and counted, never retried.
type Dispatcher struct {
	producer         messageWriter
	registry         schemaRegistrar
	topic            string
	flushInterval    time.Duration
	batchSize        int
	queue            chan Event
	schemaIDCache    sync.Map
	shutdownComplete chan struct{}
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(producer messageWriter, registry schemaRegistrar, topic string, flushInterval time.Duration, batchSize, bufferSize int) *Dispatcher {
	return &Dispatcher{
		producer:         producer,
		registry:         registry,
		topic:            topic,
		flushInterval:    flushInterval,
		batchSize:        batchSize,
		queue:            make(chan Event, bufferSize),
		shutdownComplete: make(chan struct{}),
	}
}

// Record implements Recorder. It never blocks: when the buffer is full the
// event is dropped and counted.
func (d *Dispatcher) Record(_ context.Context, eventType, partitionKey string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("feed: marshal %s event: %v", eventType, err)
		failedCounter.Inc()
		return
	}

	select {
	case d.queue <- Event{EventType: eventType, PartitionKey: partitionKey, Payload: data}:
	default:
		droppedCounter.Inc()
	}
}

// Start launches the delivery loop. It should be called in a goroutine.
// On context cancellation the remaining buffered events are flushed before
// Start returns.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.flushInterval)
	defer func() {
		ticker.Stop()
		close(d.shutdownComplete)
	}()

	pending := make([]Event, 0, d.batchSize)
	for {
		select {
		case <-ctx.Done():
			d.flush(context.Background(), d.drain(pending))
			return
		case evt := <-d.queue:
			pending = append(pending, evt)
			if len(pending) >= d.batchSize {
				d.flush(ctx, pending)
				pending = pending[:0]
			}
		case <-ticker.C:
			d.flush(ctx, pending)
			pending = pending[:0]
		}
	}
}

// Wait waits until the dispatcher has stopped and flushed.
func (d *Dispatcher) Wait() {
	<-d.shutdownComplete
}

func (d *Dispatcher) drain(pending []Event) []Event {
	for {
		select {
		case evt := <-d.queue:
			pending = append(pending, evt)
		default:
			return pending
		}
	}
}

func (d *Dispatcher) flush(ctx context.Context, events []Event) {
	if len(events) == 0 {
		return
	}
	start := time.Now()
	defer batchDuration.Observe(time.Since(start).Seconds())

	if err := d.deliver(ctx, events); err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("feed: delivery failure: %v", err)
		}
		failedCounter.Add(float64(len(events)))
		return
	}

	deliveredCounter.Add(float64(len(events)))
}

func (d *Dispatcher) deliver(ctx context.Context, events []Event) error {
	msgs := make([]kafka.Message, 0, len(events))

	for _, evt := range events {
		meta, ok := schemaCatalog[evt.EventType]
		if !ok {
			return fmt.Errorf("no schema metadata for event_type=%s", evt.EventType)
		}

		// Each event type gets its own registry subject on the shared topic.
		subject := d.topic + "-" + evt.EventType
		cacheKey := fmt.Sprintf("%s::%s", subject, meta.Schema)
		schemaIDVal, found := d.schemaIDCache.Load(cacheKey)
		var schemaID int
		if found {
			schemaID = schemaIDVal.(int)
		} else {
			id, err := d.registry.EnsureSchema(ctx, subject, meta.Schema)
			if err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}
			d.schemaIDCache.Store(cacheKey, id)
			schemaID = id
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(evt.PartitionKey),
			Value: encodeWireFormat(schemaID, evt.Payload),
			Time:  time.Now().UTC(),
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(evt.EventType)},
			},
		})
	}

	return d.producer.WriteMessages(ctx, msgs...)
}

// encodeWireFormat applies Confluent framing for Schema Registry aware payloads.
func encodeWireFormat(schemaID int, payload []byte) []byte {
	frame := make([]byte, 5+len(payload))
	frame[0] = 0
	binary.BigEndian.PutUint32(frame[1:5], uint32(schemaID))
	copy(frame[5:], payload)
	return frame
}

// SchemaCatalogEntry maps event type to schema definition.
type SchemaCatalogEntry struct {
	Schema string
}

var schemaCatalog = map[string]SchemaCatalogEntry{
	"roster.participant_joined": {
		Schema: participantJoinedSchema,
	},
	"roster.participant_left": {
		Schema: participantLeftSchema,
	},
}
