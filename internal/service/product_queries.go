package service

import (
	"context"

	"catalog-api/internal/repository"

	"github.com/google/uuid"
)

type GetProductByIDQuery struct {
	ID uuid.UUID
}

func (GetProductByIDQuery) RequestName() string { return "GetProductByIdQuery" }
func (GetProductByIDQuery) Transactional() bool { return false }

// GetAllProductsQuery lists products. Nil filters are ignored; set filters
// must all match.
type GetAllProductsQuery struct {
	IsActive   *bool
	CategoryID *uuid.UUID
}

func (GetAllProductsQuery) RequestName() string { return "GetAllProductsQuery" }
func (GetAllProductsQuery) Transactional() bool { return false }

func getProduct(uow UnitOfWork) HandlerFunc[GetProductByIDQuery, *ProductDto] {
	return func(ctx context.Context, q GetProductByIDQuery) (Result[*ProductDto], error) {
		found, err := uow.Products().GetWithCategory(ctx, q.ID)
		if err != nil {
			return Result[*ProductDto]{}, err
		}
		if found == nil {
			return Failure[*ProductDto](MsgProductNotFound), nil
		}

		dto := toProductDto(found.Product, found.CategoryName)
		return Success(&dto, MsgOperationSucceeded), nil
	}
}

func listProducts(uow UnitOfWork) HandlerFunc[GetAllProductsQuery, []ProductDto] {
	return func(ctx context.Context, q GetAllProductsQuery) (Result[[]ProductDto], error) {
		products, err := uow.Products().List(ctx, repository.ProductFilter{
			IsActive:   q.IsActive,
			CategoryID: q.CategoryID,
		})
		if err != nil {
			return Result[[]ProductDto]{}, err
		}

		categories, err := uow.Categories().GetAll(ctx)
		if err != nil {
			return Result[[]ProductDto]{}, err
		}
		names := make(map[uuid.UUID]string, len(categories))
		for _, c := range categories {
			names[c.ID()] = c.Name()
		}

		dtos := make([]ProductDto, 0, len(products))
		for _, p := range products {
			dtos = append(dtos, toProductDto(p, names[p.CategoryID()]))
		}
		return Success(dtos, MsgOperationSucceeded), nil
	}
}
