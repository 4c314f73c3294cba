// Package leadbus publishes accepted leads to a Kafka topic keyed by lead id.
package leadbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/qqenglishbr/lp-qqenglish/internal/leads"
)

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter builds a synchronous writer that hashes on the message key, so
// every event for one lead lands on the same partition.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  1,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
	}
}

// Publisher sends one message per lead.
type Publisher struct {
	writer MessageWriter
}

// New creates a publisher. A nil writer yields a disabled destination.
func New(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer}
}

func (p *Publisher) Name() string { return "kafka" }

func (p *Publisher) Enabled() bool { return p != nil && p.writer != nil }

// Send writes the JSON payload keyed by lead_id.
func (p *Publisher) Send(ctx context.Context, payload *leads.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("leadbus: marshal payload: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(payload.LeadID),
		Value: body,
		Time:  payload.OccurredAt,
		Headers: []kafka.Header{
			{Key: "source", Value: []byte(payload.Source)},
		},
	}
	if payload.Site != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "site", Value: []byte(payload.Site)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("leadbus: write message: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.writer.Close()
}
