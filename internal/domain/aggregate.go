package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit holds the bookkeeping columns maintained by the persistence layer.
type Audit struct {
	CreatedAt time.Time
	CreatedBy string
	UpdatedAt *time.Time
	UpdatedBy string
}

// AggregateRoot carries identity, audit data, the soft-delete flag and the
// domain events recorded since the last save.
type AggregateRoot struct {
	id      uuid.UUID
	audit   Audit
	deleted bool
	events  []Event
}

func newAggregateRoot() AggregateRoot {
	return AggregateRoot{id: uuid.New()}
}

func restoreAggregateRoot(id uuid.UUID, audit Audit, deleted bool) AggregateRoot {
	return AggregateRoot{id: id, audit: audit, deleted: deleted}
}

func (a *AggregateRoot) ID() uuid.UUID   { return a.id }
func (a *AggregateRoot) Audit() Audit    { return a.audit }
func (a *AggregateRoot) IsDeleted() bool { return a.deleted }

// StampCreated records creation audit data. Called by the unit of work only.
func (a *AggregateRoot) StampCreated(at time.Time, actor string) {
	a.audit.CreatedAt = at
	a.audit.CreatedBy = actor
}

// StampUpdated records modification audit data. Called by the unit of work only.
func (a *AggregateRoot) StampUpdated(at time.Time, actor string) {
	a.audit.UpdatedAt = &at
	a.audit.UpdatedBy = actor
}

// MarkDeleted flags the aggregate as soft-deleted.
func (a *AggregateRoot) MarkDeleted() {
	a.deleted = true
}

func (a *AggregateRoot) record(e Event) {
	a.events = append(a.events, e)
}

// PullEvents returns the pending events in recording order and clears them.
func (a *AggregateRoot) PullEvents() []Event {
	events := a.events
	a.events = nil
	return events
}

func (a *AggregateRoot) PendingEvents() int {
	return len(a.events)
}
