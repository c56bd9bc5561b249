// Package queue publishes serialized batch messages to the ingestion pipeline
// over SQS, Kafka or the ingestion REST API.
package queue

import (
	"context"
	"fmt"

	"github.com/defect-pipeline/batchsend/internal/config"
)

// PublishOptions carries per-message routing hints.
type PublishOptions struct {
	// GroupID keys the message (the batch id): SQS FIFO group, Kafka message key.
	GroupID string
}

// Publisher sends one payload and returns the identifier assigned to it.
type Publisher interface {
	Publish(ctx context.Context, payload []byte, opts PublishOptions) (string, error)
	// Name is the transport's display name, e.g. "SQS".
	Name() string
	// Target describes where messages go, e.g. the queue URL.
	Target() string
	Close() error
}

// PublishError is returned for any failed publish: connectivity, auth,
// endpoint resolution, missing queue or a rejected request.
type PublishError struct {
	Transport string
	Target    string
	Err       error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("%s publish to %s: %v", e.Transport, e.Target, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

func publishFailure(p Publisher, err error) *PublishError {
	return &PublishError{Transport: p.Name(), Target: p.Target(), Err: err}
}

// New creates the publisher selected by cfg.Transport.
func New(ctx context.Context, cfg config.Config) (Publisher, error) {
	switch cfg.Transport {
	case config.TransportSQS, "":
		p, err := NewSQSPublisher(ctx, cfg.SQS)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.TransportKafka:
		return NewKafkaPublisher(cfg.Kafka), nil
	case config.TransportHTTP:
		return NewHTTPPublisher(cfg.HTTP), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
