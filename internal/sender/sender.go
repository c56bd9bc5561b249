// Package sender builds a synthetic ticket batch and publishes it as a single message.
package sender

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/defect-pipeline/batchsend/internal/batch"
	"github.com/defect-pipeline/batchsend/internal/queue"
)

// Request describes one batch to send.
type Request struct {
	BatchID      string
	SourceSystem batch.SourceSystem
	TicketCount  int
	// DryRun prints the payload without publishing.
	DryRun bool
}

// Result is what a successful send produced.
type Result struct {
	Message   *batch.Message
	MessageID string
}

// Sender publishes one batch per call. It makes a single attempt and reports
// the outcome on out (success) or errOut (failure).
type Sender struct {
	publisher queue.Publisher
	logger    *zap.Logger
	out       io.Writer
	errOut    io.Writer
}

// New creates a Sender.
func New(publisher queue.Publisher, logger *zap.Logger, out, errOut io.Writer) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{
		publisher: publisher,
		logger:    logger,
		out:       out,
		errOut:    errOut,
	}
}

// Send builds the batch, serializes it and publishes it once.
// Any publish failure is returned as a *queue.PublishError after it has been reported.
func (s *Sender) Send(ctx context.Context, req Request) (*Result, error) {
	msg, err := batch.Build(req.BatchID, req.SourceSystem, req.TicketCount)
	if err != nil {
		return nil, fmt.Errorf("building batch: %w", err)
	}

	payload, err := msg.Encode()
	if err != nil {
		return nil, err
	}
	preview, err := msg.Preview()
	if err != nil {
		return nil, err
	}

	if req.DryRun {
		fmt.Fprintf(s.errOut, "Dry run: would publish batch %s to %s\n\n", req.BatchID, s.publisher.Target())
		fmt.Fprintf(s.out, "%s\n", preview)
		return &Result{Message: msg}, nil
	}

	log := s.logger.With(
		zap.String("batch_id", req.BatchID),
		zap.String("source_system", string(req.SourceSystem)),
		zap.String("transport", s.publisher.Name()),
	)
	log.Debug("publishing batch",
		zap.String("target", s.publisher.Target()),
		zap.Int("tickets", len(msg.Tickets)),
		zap.Int("bytes", len(payload)))

	messageID, err := s.publisher.Publish(ctx, payload, queue.PublishOptions{GroupID: req.BatchID})
	if err != nil {
		log.Error("publish failed", zap.Error(err))
		fmt.Fprintf(s.errOut, "✗ Failed to send batch to queue: %v\n", err)

		var pubErr *queue.PublishError
		if !errors.As(err, &pubErr) {
			err = &queue.PublishError{Transport: s.publisher.Name(), Target: s.publisher.Target(), Err: err}
		}
		return nil, err
	}

	log.Info("batch published", zap.String("message_id", messageID))

	fmt.Fprintln(s.out, "✓ Batch sent successfully!")
	fmt.Fprintf(s.out, "  Batch ID: %s\n", req.BatchID)
	fmt.Fprintf(s.out, "  Source System: %s\n", req.SourceSystem)
	fmt.Fprintf(s.out, "  Tickets: %d\n", req.TicketCount)
	fmt.Fprintf(s.out, "  %s Message ID: %s\n", s.publisher.Name(), messageID)
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Batch message preview:")
	fmt.Fprintf(s.out, "%s\n", preview)

	return &Result{Message: msg, MessageID: messageID}, nil
}
