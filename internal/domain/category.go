package domain

import "github.com/google/uuid"

// Category groups products. Names are unique among non-deleted categories.
type Category struct {
	AggregateRoot
	name        string
	description string
	isActive    bool
}

func NewCategory(name, description string) *Category {
	c := &Category{
		AggregateRoot: newAggregateRoot(),
		name:          name,
		description:   description,
		isActive:      true,
	}
	c.record(CategoryCreated{occurrence: occurred(c.ID()), Name: name})
	return c
}

// RestoreCategory rebuilds a persisted category without recording events.
func RestoreCategory(id uuid.UUID, name, description string, isActive bool, audit Audit, deleted bool) *Category {
	return &Category{
		AggregateRoot: restoreAggregateRoot(id, audit, deleted),
		name:          name,
		description:   description,
		isActive:      isActive,
	}
}

func (c *Category) Name() string        { return c.name }
func (c *Category) Description() string { return c.description }
func (c *Category) IsActive() bool      { return c.isActive }

func (c *Category) UpdateDetails(name, description string) {
	c.name = name
	c.description = description
	c.record(CategoryUpdated{occurrence: occurred(c.ID()), Name: name, Description: description})
}

func (c *Category) Activate() {
	c.isActive = true
	c.record(CategoryActivated{occurred(c.ID())})
}

func (c *Category) Deactivate() {
	c.isActive = false
	c.record(CategoryDeactivated{occurred(c.ID())})
}
