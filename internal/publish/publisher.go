// Package publish sends batch summaries to a NATS subject.
package publish

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"flightdelays/internal/report"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "flightdelays.summary"

// Conn is the part of a NATS connection the publisher needs. *nats.Conn
// satisfies it.
type Conn interface {
	Publish(subject string, data []byte) error
	Flush() error
}

// Envelope wraps a summary on the wire.
type Envelope struct {
	Source  string          `json:"source"`
	Summary *report.Summary `json:"summary"`
}

// Publisher publishes summaries on one subject.
type Publisher struct {
	conn    Conn
	subject string
	logger  *slog.Logger
	closer  func()
}

// New wraps an existing connection. An empty subject selects DefaultSubject.
func New(conn Conn, subject string, logger *slog.Logger) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{conn: conn, subject: subject, logger: logger}
}

// Connect dials the NATS server at url.
func Connect(url, subject string, logger *slog.Logger) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("flightdelays"))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	p := New(nc, subject, logger)
	p.closer = nc.Close
	return p, nil
}

// Subject returns the subject summaries are published on.
func (p *Publisher) Subject() string {
	return p.subject
}

// PublishSummary encodes s and publishes it, waiting for the server to
// acknowledge the flush.
func (p *Publisher) PublishSummary(s report.Summary) error {
	data, err := json.Marshal(Envelope{Source: "flightdelays", Summary: &s})
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.subject, err)
	}
	if err := p.conn.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", p.subject, err)
	}
	p.logger.Info("published summary", "subject", p.subject, "bytes", len(data), "flights", s.Flights)
	return nil
}

// Close closes a connection opened by Connect.
func (p *Publisher) Close() {
	if p.closer != nil {
		p.closer()
	}
}
