// Package eventbus publishes tracker events to NATS.
//
// Events are fire-and-forget: a failed publish is counted and reported
// through the error hook, never surfaced to the mutation that produced the
// event. Hosts subscribe to the subject hierarchy to mirror group changes
// into their own systems.
package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/muenchnerfurs/roomshare/internal/natsutil"
	"github.com/muenchnerfurs/roomshare/types"
)

// Publisher emits tracker events on core NATS subjects.
//
// Subjects follow <prefix>.<namespace>.<kind>, e.g.
// "roomshare.fursuit-con.group.formed".
type Publisher struct {
	conn      *nats.Conn
	prefix    string
	namespace string
	metrics   types.EventMetrics
	logger    types.Logger
}

// New creates a publisher bound to one namespace.
//
// Parameters:
//   - conn: Established NATS connection
//   - prefix: Subject prefix, e.g. "roomshare"
//   - namespace: Event namespace the tracker operates in
//   - metrics: Event metrics sink
//   - logger: Structured logger
//
// Returns:
//   - *Publisher: Initialized publisher
func New(conn *nats.Conn, prefix, namespace string, metrics types.EventMetrics, logger types.Logger) *Publisher {
	return &Publisher{
		conn:      conn,
		prefix:    prefix,
		namespace: namespace,
		metrics:   metrics,
		logger:    logger,
	}
}

// Subject returns the full subject for an event kind.
func (p *Publisher) Subject(kind types.EventKind) string {
	return fmt.Sprintf("%s.%s.%s", p.prefix, p.namespace, kind)
}

// Publish emits one event.
//
// The event ID and timestamp are filled in here; callers only provide the
// kind and payload fields.
//
// Parameters:
//   - event: Event to publish; ID, Namespace and Time are overwritten
//
// Returns:
//   - error: Marshal or publish failure
func (p *Publisher) Publish(event types.Event) error {
	event.ID = uuid.NewString()
	event.Namespace = p.namespace
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.metrics.RecordEventDropped(string(event.Kind))
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := p.Subject(event.Kind)
	if err := p.conn.Publish(subject, data); err != nil {
		p.metrics.RecordEventDropped(string(event.Kind))
		if natsutil.IsConnectivityError(err) {
			p.logger.Warn("event publish failed, NATS unreachable", "subject", subject, "error", err)
		}

		return fmt.Errorf("failed to publish event to %s: %w", subject, err)
	}

	p.metrics.RecordEventPublished(string(event.Kind))
	p.logger.Debug("published event", "subject", subject, "kind", event.Kind, "id", event.ID)

	return nil
}
