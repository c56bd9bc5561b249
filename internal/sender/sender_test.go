package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/defect-pipeline/batchsend/internal/batch"
	"github.com/defect-pipeline/batchsend/internal/queue"
)

type stubPublisher struct {
	calls   int
	payload []byte
	opts    queue.PublishOptions
	id      string
	err     error
}

func (p *stubPublisher) Publish(_ context.Context, payload []byte, opts queue.PublishOptions) (string, error) {
	p.calls++
	p.payload = payload
	p.opts = opts
	return p.id, p.err
}

func (p *stubPublisher) Name() string { return "SQS" }
func (p *stubPublisher) Target() string { return "http://localhost:4566/000000000000/test-queue" }
func (p *stubPublisher) Close() error { return nil }

func newTestSender(p queue.Publisher) (*Sender, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return New(p, zap.NewNop(), &out, &errOut), &out, &errOut
}

func TestSend_Success(t *testing.T) {
	pub := &stubPublisher{id: "msg-abc"}
	s, out, errOut := newTestSender(pub)

	res, err := s.Send(context.Background(), Request{
		BatchID:      "batch-001",
		SourceSystem: batch.SourceGitHub,
		TicketCount:  3,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, "batch-001", pub.opts.GroupID)
	assert.Equal(t, "msg-abc", res.MessageID)
	require.Len(t, res.Message.Tickets, 3)

	var sent batch.Message
	require.NoError(t, json.Unmarshal(pub.payload, &sent))
	assert.Equal(t, *res.Message, sent)

	assert.Contains(t, out.String(), "✓ Batch sent successfully!\n")
	assert.Contains(t, out.String(), "  Batch ID: batch-001\n")
	assert.Contains(t, out.String(), "  Source System: GitHub\n")
	assert.Contains(t, out.String(), "  Tickets: 3\n")
	assert.Contains(t, out.String(), "  SQS Message ID: msg-abc\n")
	assert.Contains(t, out.String(), "\nBatch message preview:\n{\n  \"batchId\": \"batch-001\",")
	assert.Empty(t, errOut.String())
}

func TestSend_EmptyBatchStillPublishes(t *testing.T) {
	pub := &stubPublisher{id: "msg-empty"}
	s, out, _ := newTestSender(pub)

	_, err := s.Send(context.Background(), Request{BatchID: "batch-0", SourceSystem: batch.SourceJira})
	require.NoError(t, err)

	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, `{"batchId":"batch-0","sourceSystem":"JIRA","tickets":[]}`, string(pub.payload))
	assert.Contains(t, out.String(), "✓ Batch sent successfully!")
	assert.Contains(t, out.String(), "  Tickets: 0\n")
}

func TestSend_PublishFailure(t *testing.T) {
	cause := errors.New("could not connect to the endpoint URL")
	pub := &stubPublisher{err: &queue.PublishError{Transport: "SQS", Target: "q", Err: cause}}
	s, out, errOut := newTestSender(pub)

	res, err := s.Send(context.Background(), Request{BatchID: "b", SourceSystem: batch.SourceJira, TicketCount: 1})
	assert.Nil(t, res)

	var pubErr *queue.PublishError
	require.ErrorAs(t, err, &pubErr)
	assert.ErrorIs(t, err, cause)

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "✗ Failed to send batch to queue: ")
	assert.Contains(t, errOut.String(), "could not connect to the endpoint URL")
}

func TestSend_PlainErrorIsWrapped(t *testing.T) {
	pub := &stubPublisher{err: errors.New("boom")}
	s, _, _ := newTestSender(pub)

	_, err := s.Send(context.Background(), Request{BatchID: "b", SourceSystem: batch.SourceJira})

	var pubErr *queue.PublishError
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, "SQS", pubErr.Transport)
}

func TestSend_NegativeCountNeverPublishes(t *testing.T) {
	pub := &stubPublisher{id: "x"}
	s, out, _ := newTestSender(pub)

	_, err := s.Send(context.Background(), Request{BatchID: "b", SourceSystem: batch.SourceJira, TicketCount: -2})
	assert.ErrorIs(t, err, batch.ErrNegativeCount)
	assert.Zero(t, pub.calls)
	assert.Empty(t, out.String())
}

func TestSend_DryRun(t *testing.T) {
	pub := &stubPublisher{id: "x"}
	s, out, errOut := newTestSender(pub)

	res, err := s.Send(context.Background(), Request{
		BatchID:      "batch-dry",
		SourceSystem: batch.SourceServiceNow,
		TicketCount:  2,
		DryRun:       true,
	})
	require.NoError(t, err)

	assert.Zero(t, pub.calls)
	assert.Empty(t, res.MessageID)
	assert.Contains(t, errOut.String(), "Dry run: would publish batch batch-dry to http://localhost:4566/000000000000/test-queue")
	assert.NotContains(t, out.String(), "sent successfully")

	var previewed batch.Message
	require.NoError(t, json.Unmarshal(out.Bytes(), &previewed))
	assert.Equal(t, "ServiceNow-1001", previewed.Tickets[1].SourceReference)
}
