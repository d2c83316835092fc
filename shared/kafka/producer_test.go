package kafka

import (
	"context"
	"encoding/json"
	"testing"

	skafka "github.com/segmentio/kafka-go"
)

// fakeWriter records messages written.
type fakeWriter struct {
	msgs []skafka.Message
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestPublish(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaProducerWithWriter(fw)

	err := p.Publish(context.Background(), "sub_123", map[string]string{"event": "payment.succeeded"})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fw.msgs))
	}

	msg := fw.msgs[0]
	if string(msg.Key) != "sub_123" {
		t.Errorf("key = %s, want the submission id", msg.Key)
	}
	if msg.Time.IsZero() {
		t.Error("message must carry a produce timestamp")
	}
	if len(msg.Headers) != 1 || msg.Headers[0].Key != "content-type" || string(msg.Headers[0].Value) != "application/json" {
		t.Errorf("content-type header missing, got %+v", msg.Headers)
	}

	var decoded map[string]string
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("value is not valid JSON: %v", err)
	}
	if decoded["event"] != "payment.succeeded" {
		t.Errorf("payload round trip lost the event name: %v", decoded)
	}
}

func TestPublish_UnmarshalableValue(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaProducerWithWriter(fw)

	if err := p.Publish(context.Background(), "sub_123", make(chan int)); err == nil {
		t.Fatal("an unmarshalable value must fail")
	}
	if len(fw.msgs) != 0 {
		t.Error("nothing may be written when marshalling fails")
	}
}
