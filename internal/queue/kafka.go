package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/defect-pipeline/batchsend/internal/config"
)

// MessageIDHeader carries the client-assigned message id on Kafka records.
const MessageIDHeader = "message-id"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each payload as one record to a topic.
type KafkaPublisher struct {
	writer  messageWriter
	brokers []string
	topic   string
	newID   func() string
	now     func() time.Time
}

// NewKafkaPublisher creates a writer that waits for all in-sync replicas.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.LeastBytes{},
	}
	return newKafkaPublisher(w, cfg)
}

func newKafkaPublisher(w messageWriter, cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer:  w,
		brokers: cfg.Brokers,
		topic:   cfg.Topic,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Publish writes payload keyed by the group id. Kafka assigns no message id,
// so a uuid is generated, sent as a header and returned.
func (p *KafkaPublisher) Publish(ctx context.Context, payload []byte, opts PublishOptions) (string, error) {
	id := p.newID()
	msg := kafka.Message{
		Value: payload,
		Time:  p.now(),
		Headers: []kafka.Header{
			{Key: MessageIDHeader, Value: []byte(id)},
		},
	}
	if opts.GroupID != "" {
		msg.Key = []byte(opts.GroupID)
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return "", publishFailure(p, err)
	}
	return id, nil
}

// Name implements Publisher.
func (p *KafkaPublisher) Name() string { return "Kafka" }

// Target implements Publisher.
func (p *KafkaPublisher) Target() string {
	return fmt.Sprintf("kafka://%s/%s", strings.Join(p.brokers, ","), p.topic)
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
