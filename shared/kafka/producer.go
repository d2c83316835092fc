// shared/kafka/producer.go
package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	skafka "github.com/segmentio/kafka-go"
)

// Writer is the subset of the kafka-go writer the producer needs,
// injectable for tests.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Publisher is what the payment processor publishes lifecycle events
// through.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// KafkaProducer publishes JSON payment events to a single topic. Messages
// are keyed by submission id with hash balancing, so every event for one
// submission lands on the same partition and consumers see skip/succeed/
// fail transitions in order.
type KafkaProducer struct {
	writer Writer
}

func NewKafkaProducer(brokerURL, topic string) *KafkaProducer {
	w := &skafka.Writer{
		Addr:         skafka.TCP(brokerURL),
		Topic:        topic,
		Balancer:     &skafka.Hash{},
		RequiredAcks: skafka.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
		Compression:  skafka.Snappy,
	}
	return &KafkaProducer{writer: w}
}

// NewKafkaProducerWithWriter builds a producer over an injected writer.
func NewKafkaProducerWithWriter(w Writer) *KafkaProducer {
	return &KafkaProducer{writer: w}
}

// Publish marshals the event and writes it keyed by submission id. Each
// message carries a content-type header and an explicit produce timestamp
// so downstream consumers can tell replays from fresh traffic.
func (p *KafkaProducer) Publish(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		log.Println("failed to marshal event payload:", err)
		return err
	}

	msg := skafka.Message{
		Key:   []byte(key),
		Value: b,
		Time:  time.Now(),
		Headers: []skafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Println("kafka write error:", err)
		return err
	}
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
