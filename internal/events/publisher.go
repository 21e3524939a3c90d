package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Subjects for domain events other services may subscribe to.
const (
	SubjectApplicationApproved = "rental.application.approved"
	SubjectApplicationDenied   = "rental.application.denied"
	SubjectPaymentRecorded     = "rental.payment.recorded"
	SubjectTenancyEnded        = "rental.tenancy.ended"
)

// Event is the envelope published on every subject
type Event struct {
	ID         string                 `json:"id"`
	Subject    string                 `json:"subject"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

// Publisher publishes domain events to NATS. A nil Publisher is valid and
// drops events, so the service runs when NATS is unavailable.
type Publisher struct {
	conn *nats.Conn
	log  *logrus.Logger
}

// NewPublisher connects to NATS
func NewPublisher(url string, log *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("rental-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Publisher{conn: conn, log: log}, nil
}

// Publish sends one event. Failures are logged, never fatal: events are a
// side channel, not part of any transaction.
func (p *Publisher) Publish(subject string, data map[string]interface{}) {
	if p == nil || p.conn == nil {
		return
	}

	event := Event{
		ID:         uuid.New().String(),
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.WithError(err).WithField("subject", subject).Warn("failed to marshal event")
		return
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		p.log.WithError(err).WithField("subject", subject).Warn("failed to publish event")
	}
}

// Close drains the connection
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}
