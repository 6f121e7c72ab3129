package shared

import (
	"time"

	"github.com/google/uuid"
)

// Identity is embedded by every persisted domain object
type Identity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewIdentity() Identity {
	now := time.Now().UTC()
	return Identity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch stamps UpdatedAt with the current UTC time
func (e *Identity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// Root is embedded by aggregates. Version guards optimistic updates and
// events collect until the unit of work commits.
type Root struct {
	Identity
	Version int
	events  []DomainEvent
}

// NewRoot starts an aggregate at version 1
func NewRoot() Root {
	return Root{Identity: NewIdentity(), Version: 1}
}

func (a *Root) BumpVersion() { a.Version++ }

func (a *Root) RecordEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// PendingEvents returns events recorded since the last ClearEvents
func (a *Root) PendingEvents() []DomainEvent { return a.events }

func (a *Root) ClearEvents() { a.events = nil }
