package batch

import (
	"errors"
	"fmt"
	"strings"
)

// Severity is the triage level attached to a ticket template.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// SourceSystem is the platform a ticket is attributed to.
type SourceSystem string

const (
	SourceJira       SourceSystem = "JIRA"
	SourceServiceNow SourceSystem = "ServiceNow"
	SourceGitHub     SourceSystem = "GitHub"
)

// ErrUnknownSourceSystem is returned when a source system is not one of the supported values.
var ErrUnknownSourceSystem = errors.New("unknown source system")

// SourceSystems lists the accepted source systems in display order.
func SourceSystems() []SourceSystem {
	return []SourceSystem{SourceJira, SourceServiceNow, SourceGitHub}
}

// ParseSourceSystem matches s exactly (case-sensitive) against the supported source systems.
func ParseSourceSystem(s string) (SourceSystem, error) {
	for _, src := range SourceSystems() {
		if string(src) == s {
			return src, nil
		}
	}
	return "", fmt.Errorf("%w %q (choose from %s)", ErrUnknownSourceSystem, s, choices())
}

func choices() string {
	names := make([]string, 0, len(SourceSystems()))
	for _, src := range SourceSystems() {
		names = append(names, string(src))
	}
	return strings.Join(names, ", ")
}

// String implements pflag.Value.
func (s SourceSystem) String() string {
	return string(s)
}

// Set implements pflag.Value so invalid values are rejected while flags are parsed.
func (s *SourceSystem) Set(v string) error {
	src, err := ParseSourceSystem(v)
	if err != nil {
		return err
	}
	*s = src
	return nil
}

// Type implements pflag.Value.
func (s *SourceSystem) Type() string {
	return "JIRA|ServiceNow|GitHub"
}

// TicketTemplate is a fixed title/description/severity triple used to synthesize tickets.
type TicketTemplate struct {
	Title       string   `json:"title"       yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Severity    Severity `json:"severity"    yaml:"severity"`
}

// Ticket is a single synthetic defect ticket as it appears on the wire.
// Template severity is not carried over.
type Ticket struct {
	SourceReference string `json:"sourceReference"`
	Title           string `json:"title"`
	Description     string `json:"description"`
}

// Message is the batch envelope published as one queue message.
type Message struct {
	BatchID      string       `json:"batchId"`
	SourceSystem SourceSystem `json:"sourceSystem"`
	Tickets      []Ticket     `json:"tickets"`
}
