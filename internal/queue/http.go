package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/defect-pipeline/batchsend/internal/config"
)

// IngestPath is the batch ingestion endpoint of the ticket processor API.
const IngestPath = "/api/v1/batch-ingestion/ingest"

// HTTPPublisher posts the batch to the ingestion REST API, which forwards it to SQS.
type HTTPPublisher struct {
	baseURL    string
	httpClient *http.Client
}

// ingestResponse is the body of a 202 from the ingestion API.
type ingestResponse struct {
	BatchID         string `json:"batchId"`
	TicketsIngested int    `json:"ticketsIngested"`
	SQSMessageID    string `json:"sqsMessageId"`
	Status          string `json:"status"`
}

// NewHTTPPublisher creates a publisher for the API at cfg.URL.
func NewHTTPPublisher(cfg config.HTTPConfig) *HTTPPublisher {
	return &HTTPPublisher{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Publish posts payload and returns the SQS message id reported by the API.
func (p *HTTPPublisher) Publish(ctx context.Context, payload []byte, _ PublishOptions) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Target(), bytes.NewReader(payload))
	if err != nil {
		return "", publishFailure(p, fmt.Errorf("creating request: %w", err))
	}
	p.setHeaders(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", publishFailure(p, fmt.Errorf("executing request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", publishFailure(p, fmt.Errorf("ingestion API returned %d: %s", resp.StatusCode, string(body)))
	}

	var result ingestResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", publishFailure(p, fmt.Errorf("decoding response: %w", err))
	}
	if result.SQSMessageID == "" {
		return "", publishFailure(p, errors.New("response carried no sqsMessageId"))
	}

	return result.SQSMessageID, nil
}

func (p *HTTPPublisher) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// Name implements Publisher.
func (p *HTTPPublisher) Name() string { return "HTTP" }

// Target implements Publisher.
func (p *HTTPPublisher) Target() string { return p.baseURL + IngestPath }

// Close releases idle connections.
func (p *HTTPPublisher) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
