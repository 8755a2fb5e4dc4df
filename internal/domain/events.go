package domain

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// EventType classifies domain events for routing.
type EventType string

const (
	EventProductCreated      EventType = "product.created"
	EventProductUpdated      EventType = "product.updated"
	EventProductStockUpdated EventType = "product.stock_updated"
	EventProductActivated    EventType = "product.activated"
	EventProductDeactivated  EventType = "product.deactivated"

	EventCategoryCreated     EventType = "category.created"
	EventCategoryUpdated     EventType = "category.updated"
	EventCategoryActivated   EventType = "category.activated"
	EventCategoryDeactivated EventType = "category.deactivated"
)

// Event is a record of a state change, dispatched after the change is saved.
type Event interface {
	EventType() EventType
	AggregateID() uuid.UUID
	OccurredAt() time.Time
	// Sequence increases with every event recorded in this process.
	Sequence() uint64
}

var eventSequence atomic.Uint64

// occurrence is embedded by every event to carry the aggregate id, timestamp
// and recording sequence.
type occurrence struct {
	ID  uuid.UUID `json:"aggregateId"`
	At  time.Time `json:"occurredAt"`
	seq uint64
}

func occurred(id uuid.UUID) occurrence {
	return occurrence{ID: id, At: time.Now().UTC(), seq: eventSequence.Add(1)}
}

func (o occurrence) AggregateID() uuid.UUID { return o.ID }
func (o occurrence) OccurredAt() time.Time  { return o.At }
func (o occurrence) Sequence() uint64       { return o.seq }

type ProductCreated struct {
	occurrence
	Name       string    `json:"name"`
	Price      Money     `json:"price"`
	Stock      int       `json:"stock"`
	CategoryID uuid.UUID `json:"categoryId"`
}

func (ProductCreated) EventType() EventType { return EventProductCreated }

type ProductUpdated struct {
	occurrence
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       Money  `json:"price"`
}

func (ProductUpdated) EventType() EventType { return EventProductUpdated }

type ProductStockUpdated struct {
	occurrence
	OldStock int `json:"oldStock"`
	NewStock int `json:"newStock"`
}

func (ProductStockUpdated) EventType() EventType { return EventProductStockUpdated }

type ProductActivated struct{ occurrence }

func (ProductActivated) EventType() EventType { return EventProductActivated }

type ProductDeactivated struct{ occurrence }

func (ProductDeactivated) EventType() EventType { return EventProductDeactivated }

type CategoryCreated struct {
	occurrence
	Name string `json:"name"`
}

func (CategoryCreated) EventType() EventType { return EventCategoryCreated }

type CategoryUpdated struct {
	occurrence
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (CategoryUpdated) EventType() EventType { return EventCategoryUpdated }

type CategoryActivated struct{ occurrence }

func (CategoryActivated) EventType() EventType { return EventCategoryActivated }

type CategoryDeactivated struct{ occurrence }

func (CategoryDeactivated) EventType() EventType { return EventCategoryDeactivated }
