package domain

import (
	"github.com/google/uuid"
)

// Product represents a product in the catalog. State changes only through
// its methods, each of which records a domain event.
type Product struct {
	AggregateRoot
	name        string
	description string
	price       Money
	stock       int
	isActive    bool
	categoryID  uuid.UUID
}

// NewProduct creates an active product and records ProductCreated.
func NewProduct(name, description string, price Money, stock int, categoryID uuid.UUID) (*Product, error) {
	if stock < 0 {
		return nil, ErrNegativeStock
	}

	p := &Product{
		AggregateRoot: newAggregateRoot(),
		name:          name,
		description:   description,
		price:         price,
		stock:         stock,
		isActive:      true,
		categoryID:    categoryID,
	}
	p.record(ProductCreated{
		occurrence: occurred(p.ID()),
		Name:       name,
		Price:      price,
		Stock:      stock,
		CategoryID: categoryID,
	})
	return p, nil
}

// RestoreProduct rebuilds a persisted product without recording events.
func RestoreProduct(id uuid.UUID, name, description string, price Money, stock int, isActive bool, categoryID uuid.UUID, audit Audit, deleted bool) *Product {
	return &Product{
		AggregateRoot: restoreAggregateRoot(id, audit, deleted),
		name:          name,
		description:   description,
		price:         price,
		stock:         stock,
		isActive:      isActive,
		categoryID:    categoryID,
	}
}

func (p *Product) Name() string          { return p.name }
func (p *Product) Description() string   { return p.description }
func (p *Product) Price() Money          { return p.price }
func (p *Product) Stock() int            { return p.stock }
func (p *Product) IsActive() bool        { return p.isActive }
func (p *Product) CategoryID() uuid.UUID { return p.categoryID }

func (p *Product) UpdateDetails(name, description string, price Money) {
	p.name = name
	p.description = description
	p.price = price

	p.record(ProductUpdated{
		occurrence:  occurred(p.ID()),
		Name:        name,
		Description: description,
		Price:       price,
	})
}

func (p *Product) UpdateStock(newStock int) error {
	if newStock < 0 {
		return ErrNegativeStock
	}

	old := p.stock
	p.stock = newStock

	p.record(ProductStockUpdated{occurrence: occurred(p.ID()), OldStock: old, NewStock: newStock})
	return nil
}

func (p *Product) Activate() {
	p.isActive = true
	p.record(ProductActivated{occurred(p.ID())})
}

func (p *Product) Deactivate() {
	p.isActive = false
	p.record(ProductDeactivated{occurred(p.ID())})
}
