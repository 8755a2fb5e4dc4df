package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductFilter narrows a product listing. Nil fields are not applied; set
// fields are combined with AND.
type ProductFilter struct {
	IsActive   *bool
	CategoryID *uuid.UUID
}

// ProductWithCategory is a product together with the name of its category.
// CategoryName is empty when the category no longer exists.
type ProductWithCategory struct {
	Product      *domain.Product
	CategoryName string
}

// ProductRepository defines data access for products. Writes are staged on
// the owning unit of work and reach the database on SaveChanges.
type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetAll(ctx context.Context) ([]*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	Add(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, product *domain.Product) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error)
	GetActive(ctx context.Context) ([]*domain.Product, error)
	GetWithCategory(ctx context.Context, id uuid.UUID) (*ProductWithCategory, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type productRepository struct {
	uow *UnitOfWork
}

const productColumns = `p.id, p.name, p.description, p.price, p.currency, p.stock, p.is_active,
	p.category_id, p.created_at, p.created_by, p.updated_at, p.updated_by, p.is_deleted`

// GetByID returns nil without error when no live product has the id.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1 AND p.is_deleted = FALSE`

	product, err := scanProduct(r.uow.q().QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

func (r *productRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	return r.List(ctx, ProductFilter{})
}

// List returns live products matching every set field of filter.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	where, args := buildProductFilter(filter)
	query := `SELECT ` + productColumns + ` FROM products p ` + where + ` ORDER BY p.name`

	return r.queryProducts(ctx, query, args...)
}

func (r *productRepository) GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error) {
	return r.List(ctx, ProductFilter{CategoryID: &categoryID})
}

func (r *productRepository) GetActive(ctx context.Context) ([]*domain.Product, error) {
	active := true
	return r.List(ctx, ProductFilter{IsActive: &active})
}

// GetWithCategory loads a product and its category name in one query.
func (r *productRepository) GetWithCategory(ctx context.Context, id uuid.UUID) (*ProductWithCategory, error) {
	query := `
		SELECT ` + productColumns + `, COALESCE(c.name, '')
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id AND c.is_deleted = FALSE
		WHERE p.id = $1 AND p.is_deleted = FALSE
	`

	var categoryName string
	product, err := scanProduct(r.uow.q().QueryRowContext(ctx, query, id), &categoryName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product with category: %w", err)
	}
	return &ProductWithCategory{Product: product, CategoryName: strings.TrimSpace(categoryName)}, nil
}

func (r *productRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1 AND is_deleted = FALSE)`
	if err := r.uow.q().QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

// ExistsByName compares names case-insensitively.
func (r *productRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE LOWER(name) = LOWER($1) AND is_deleted = FALSE)`
	if err := r.uow.q().QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check product name: %w", err)
	}
	return exists, nil
}

func (r *productRepository) Add(_ context.Context, product *domain.Product) error {
	r.uow.track(changeAdded, product, func(ctx context.Context, q querier) error {
		query := `
			INSERT INTO products (id, name, description, price, currency, stock, is_active,
				category_id, created_at, created_by, is_deleted)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		audit := product.Audit()
		_, err := q.ExecContext(ctx, query,
			product.ID(),
			product.Name(),
			product.Description(),
			product.Price().Amount(),
			product.Price().Currency(),
			product.Stock(),
			product.IsActive(),
			product.CategoryID(),
			audit.CreatedAt,
			audit.CreatedBy,
			product.IsDeleted(),
		)
		if err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
	return nil
}

func (r *productRepository) Update(_ context.Context, product *domain.Product) error {
	r.uow.track(changeModified, product, func(ctx context.Context, q querier) error {
		query := `
			UPDATE products
			SET name = $2, description = $3, price = $4, currency = $5, stock = $6, is_active = $7,
			    category_id = $8, updated_at = $9, updated_by = $10, is_deleted = $11
			WHERE id = $1 AND is_deleted = FALSE
		`
		audit := product.Audit()
		result, err := q.ExecContext(ctx, query,
			product.ID(),
			product.Name(),
			product.Description(),
			product.Price().Amount(),
			product.Price().Currency(),
			product.Stock(),
			product.IsActive(),
			product.CategoryID(),
			audit.UpdatedAt,
			audit.UpdatedBy,
			product.IsDeleted(),
		)
		if err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return requireOneRow(result)
	})
	return nil
}

// Delete soft-deletes the product.
func (r *productRepository) Delete(ctx context.Context, product *domain.Product) error {
	product.MarkDeleted()
	return r.Update(ctx, product)
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.uow.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// buildProductFilter builds the WHERE clause for a listing. The soft-delete
// filter is always applied.
func buildProductFilter(filter ProductFilter) (string, []any) {
	conditions := []string{"p.is_deleted = FALSE"}
	args := []any{}
	argIndex := 1

	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("p.is_active = $%d", argIndex))
		args = append(args, *filter.IsActive)
		argIndex++
	}

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, extra ...any) (*domain.Product, error) {
	var (
		id, categoryID    uuid.UUID
		name, description string
		price             decimal.Decimal
		currency          string
		stock             int
		isActive, deleted bool
		audit             domain.Audit
		updatedAt         sql.NullTime
		updatedBy         sql.NullString
	)

	dest := []any{
		&id, &name, &description, &price, &currency, &stock, &isActive,
		&categoryID, &audit.CreatedAt, &audit.CreatedBy, &updatedAt, &updatedBy, &deleted,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	money, err := domain.NewMoney(price, currency)
	if err != nil {
		return nil, fmt.Errorf("invalid stored price for product %s: %w", id, err)
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		audit.UpdatedAt = &t
	}
	audit.UpdatedBy = updatedBy.String

	return domain.RestoreProduct(id, name, description, money, stock, isActive, categoryID, audit, deleted), nil
}

func requireOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrStaleEntity
	}
	return nil
}
