package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"catalog-ingestion-service/internal/models"
)

// Event subjects on the CATALOG stream
const (
	SubjectImportCompleted = "catalog.import.completed"
	SubjectProductUpdated  = "catalog.product.updated"
)

const streamName = "CATALOG"

// ImportCompletedEvent is emitted after a full catalog import run.
type ImportCompletedEvent struct {
	EventID    string          `json:"eventId"`
	EventType  string          `json:"eventType"`
	Source     string          `json:"source"`
	OccurredAt time.Time       `json:"occurredAt"`
	Stats      models.RunStats `json:"stats"`
}

// ProductUpdatedEvent is emitted when a single product changes outside
// a full import, e.g. a pricing policy correction.
type ProductUpdatedEvent struct {
	EventID           string    `json:"eventId"`
	EventType         string    `json:"eventType"`
	Source            string    `json:"source"`
	OccurredAt        time.Time `json:"occurredAt"`
	SupplierProductID string    `json:"supplierProductId"`
	ChangedFields     []string  `json:"changedFields,omitempty"`
}

// Publisher publishes catalog events to NATS JetStream.
type Publisher struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *logrus.Entry
}

// NewPublisher connects to NATS and ensures the catalog stream exists.
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("catalog-ingestion-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	entry := logger.WithField("component", "catalog-events")

	if _, err := js.AddStream(&nats.StreamConfig{
		Name:      streamName,
		Subjects:  []string{"catalog.>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
	}); err != nil {
		entry.WithError(err).Warn("Failed to ensure catalog stream (may already exist)")
	}

	return &Publisher{conn: conn, js: js, logger: entry}, nil
}

// Close closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// PublishImportCompleted publishes a catalog.import.completed event.
func (p *Publisher) PublishImportCompleted(ctx context.Context, stats models.RunStats) error {
	event := ImportCompletedEvent{
		EventID:    uuid.New().String(),
		EventType:  SubjectImportCompleted,
		Source:     "catalog-ingestion-service",
		OccurredAt: time.Now().UTC(),
		Stats:      stats,
	}
	return p.publish(ctx, SubjectImportCompleted, event.EventID, event)
}

// PublishProductUpdated publishes a catalog.product.updated event.
func (p *Publisher) PublishProductUpdated(ctx context.Context, supplierProductID string, changedFields []string) error {
	event := ProductUpdatedEvent{
		EventID:           uuid.New().String(),
		EventType:         SubjectProductUpdated,
		Source:            "catalog-ingestion-service",
		OccurredAt:        time.Now().UTC(),
		SupplierProductID: supplierProductID,
		ChangedFields:     changedFields,
	}
	return p.publish(ctx, SubjectProductUpdated, event.EventID, event)
}

// publish marshals and publishes asynchronously so imports never block
// on the broker.
func (p *Publisher) publish(ctx context.Context, subject, eventID string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	go func() {
		if _, err := p.js.Publish(subject, data, nats.MsgId(eventID)); err != nil {
			p.logger.WithFields(logrus.Fields{
				"subject": subject,
				"eventId": eventID,
			}).WithError(err).Error("Failed to publish catalog event")
			return
		}
		p.logger.WithFields(logrus.Fields{
			"subject": subject,
			"eventId": eventID,
		}).Info("Catalog event published")
	}()

	return nil
}
