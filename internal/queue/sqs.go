package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"

	"github.com/defect-pipeline/batchsend/internal/config"
)

// SQSAPI is the subset of the SQS client used for publishing.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends each payload as one SQS message body.
type SQSPublisher struct {
	client   SQSAPI
	queueURL string
	newID    func() string
}

// NewSQSPublisher builds an SQS client from cfg. A non-empty endpoint
// overrides the AWS endpoint (LocalStack); static credentials are used when set.
func NewSQSPublisher(ctx context.Context, cfg config.SQSConfig) (*SQSPublisher, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewSQSPublisherWithClient(client, cfg.QueueURL), nil
}

// NewSQSPublisherWithClient wraps an existing SQS client.
func NewSQSPublisherWithClient(client SQSAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{
		client:   client,
		queueURL: queueURL,
		newID:    uuid.NewString,
	}
}

// Publish sends payload to the queue. FIFO queues get the group id as
// MessageGroupId and a fresh deduplication id.
func (p *SQSPublisher) Publish(ctx context.Context, payload []byte, opts PublishOptions) (string, error) {
	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(payload)),
	}
	if p.isFIFO() {
		group := opts.GroupID
		if group == "" {
			group = "default"
		}
		input.MessageGroupId = aws.String(group)
		input.MessageDeduplicationId = aws.String(p.newID())
	}

	out, err := p.client.SendMessage(ctx, input)
	if err != nil {
		return "", publishFailure(p, err)
	}
	if out == nil || aws.ToString(out.MessageId) == "" {
		return "", publishFailure(p, errors.New("response carried no message id"))
	}

	return aws.ToString(out.MessageId), nil
}

func (p *SQSPublisher) isFIFO() bool {
	return strings.HasSuffix(p.queueURL, ".fifo")
}

// Name implements Publisher.
func (p *SQSPublisher) Name() string { return "SQS" }

// Target implements Publisher.
func (p *SQSPublisher) Target() string { return p.queueURL }

// Close implements Publisher. The SQS client holds nothing to release.
func (p *SQSPublisher) Close() error { return nil }
