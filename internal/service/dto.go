package service

import (
	"encoding/json"
	"time"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductDto struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Stock        int             `json:"stock"`
	IsActive     bool            `json:"isActive"`
	CategoryID   uuid.UUID       `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    *time.Time      `json:"updatedAt"`
}

func toProductDto(p *domain.Product, categoryName string) ProductDto {
	audit := p.Audit()
	return ProductDto{
		ID:           p.ID(),
		Name:         p.Name(),
		Description:  p.Description(),
		Amount:       p.Price().Amount(),
		Currency:     p.Price().Currency(),
		Stock:        p.Stock(),
		IsActive:     p.IsActive(),
		CategoryID:   p.CategoryID(),
		CategoryName: categoryName,
		CreatedAt:    audit.CreatedAt,
		UpdatedAt:    audit.UpdatedAt,
	}
}

// MarshalJSON renders Amount as a JSON number.
func (d ProductDto) MarshalJSON() ([]byte, error) {
	type plain ProductDto
	return json.Marshal(struct {
		plain
		Amount json.Number `json:"amount"`
	}{plain(d), json.Number(d.Amount.String())})
}
