package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InsertDomainEventParams carries one event for the append-only log.
type InsertDomainEventParams struct {
	Topic       string
	AggregateID uuid.UUID
	Payload     string
	OccurredAt  time.Time
}

const insertDomainEvent = `
INSERT INTO domain_events (topic, aggregate_id, payload, occurred_at)
VALUES ($1, $2, $3::jsonb, $4)
RETURNING id`

// InsertDomainEvent appends one event and returns its id.
func (q *Queries) InsertDomainEvent(ctx context.Context, arg InsertDomainEventParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, insertDomainEvent, arg.Topic, arg.AggregateID, arg.Payload, arg.OccurredAt).Scan(&id)
	return id, err
}

const listDomainEventsByAggregate = `
SELECT id, topic, aggregate_id, payload, occurred_at
FROM domain_events
WHERE aggregate_id = $1
ORDER BY occurred_at`

// ListDomainEventsByAggregate returns an aggregate's event history in order.
func (q *Queries) ListDomainEventsByAggregate(ctx context.Context, aggregateID uuid.UUID) ([]DomainEvent, error) {
	rows, err := q.db.Query(ctx, listDomainEventsByAggregate, aggregateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DomainEvent
	for rows.Next() {
		var ev DomainEvent
		if err := rows.Scan(&ev.ID, &ev.Topic, &ev.AggregateID, &ev.Payload, &ev.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
