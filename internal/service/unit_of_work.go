package service

import (
	"context"

	"catalog-api/internal/repository"
)

// UnitOfWork is the per-request persistence boundary used by handlers.
type UnitOfWork interface {
	Transactor
	Products() repository.ProductRepository
	Categories() repository.CategoryRepository
	SaveChanges(ctx context.Context) error
	Close() error
}

// UnitOfWorkProvider creates a fresh unit of work for each request.
type UnitOfWorkProvider func() UnitOfWork
