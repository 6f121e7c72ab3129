package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact raised by an aggregate and published after its
// transaction commits
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// EventMeta is embedded by concrete events to satisfy DomainEvent
type EventMeta struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"type"`
	At            time.Time `json:"occurred_at"`
	Aggregate     uuid.UUID `json:"aggregate_id"`
	AggregateKind string    `json:"aggregate_type"`
}

// NewEventMeta stamps a fresh ID and the current UTC time
func NewEventMeta(eventType, aggregateType string, aggregateID uuid.UUID) EventMeta {
	return EventMeta{
		ID:            uuid.New(),
		Name:          eventType,
		At:            time.Now().UTC(),
		Aggregate:     aggregateID,
		AggregateKind: aggregateType,
	}
}

func (m *EventMeta) EventID() uuid.UUID     { return m.ID }
func (m *EventMeta) EventType() string      { return m.Name }
func (m *EventMeta) OccurredAt() time.Time  { return m.At }
func (m *EventMeta) AggregateID() uuid.UUID { return m.Aggregate }
func (m *EventMeta) AggregateType() string  { return m.AggregateKind }
