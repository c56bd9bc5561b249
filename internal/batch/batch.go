package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNegativeCount is returned by Build when asked for fewer than zero tickets.
var ErrNegativeCount = errors.New("ticket count must not be negative")

// referenceBase is added to a ticket's index to form its source reference number.
const referenceBase = 1000

const batchIDLayout = "20060102-150405"

// DefaultBatchID derives a batch id of the form batch-YYYYMMDD-HHMMSS from now, in local time.
func DefaultBatchID(now time.Time) string {
	return "batch-" + now.Local().Format(batchIDLayout)
}

// SourceReference formats the reference of the ticket at index i, e.g. JIRA-1003.
func SourceReference(source SourceSystem, i int) string {
	return fmt.Sprintf("%s-%d", source, referenceBase+i)
}

// Build expands the fixed templates cyclically into count tickets and wraps
// them in a batch envelope. Ticket i uses template i mod len(templates).
func Build(batchID string, source SourceSystem, count int) (*Message, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCount, count)
	}

	tickets := make([]Ticket, 0, count)
	for i := 0; i < count; i++ {
		tmpl := ticketTemplates[i%len(ticketTemplates)]
		tickets = append(tickets, Ticket{
			SourceReference: SourceReference(source, i),
			Title:           tmpl.Title,
			Description:     tmpl.Description,
		})
	}

	return &Message{
		BatchID:      batchID,
		SourceSystem: source,
		Tickets:      tickets,
	}, nil
}

// Encode returns the compact JSON payload published to the queue.
func (m *Message) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshalling batch message: %w", err)
	}
	return data, nil
}

// Preview returns the message as indented JSON for display.
func (m *Message) Preview() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling batch preview: %w", err)
	}
	return data, nil
}
