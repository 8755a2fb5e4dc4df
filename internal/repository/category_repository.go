package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
	ErrCategoryHasProducts   = errors.New("cannot delete category that contains products")
)

const (
	pgUniqueViolation      = "23505"
	categoryNameConstraint = "ux_categories_name_active"
)

// CategoryWithProducts is a category with its live products.
type CategoryWithProducts struct {
	Category *domain.Category
	Products []*domain.Product
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	GetAll(ctx context.Context) ([]*domain.Category, error)
	Add(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, category *domain.Category) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetActive(ctx context.Context) ([]*domain.Category, error)
	GetWithProducts(ctx context.Context, id uuid.UUID) (*CategoryWithProducts, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	HasProducts(ctx context.Context, id uuid.UUID) (bool, error)
}

type categoryRepository struct {
	uow *UnitOfWork
}

const categoryColumns = `id, name, description, is_active, created_at, created_by, updated_at, updated_by, is_deleted`

// GetByID returns nil without error when no live category has the id.
func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND is_deleted = FALSE`

	category, err := scanCategory(r.uow.q().QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}
	return category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE is_deleted = FALSE ORDER BY name`
	return r.queryCategories(ctx, query)
}

func (r *categoryRepository) GetActive(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE is_deleted = FALSE AND is_active = TRUE ORDER BY name`
	return r.queryCategories(ctx, query)
}

func (r *categoryRepository) GetWithProducts(ctx context.Context, id uuid.UUID) (*CategoryWithProducts, error) {
	category, err := r.GetByID(ctx, id)
	if err != nil || category == nil {
		return nil, err
	}

	products, err := r.uow.products.GetByCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CategoryWithProducts{Category: category, Products: products}, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1 AND is_deleted = FALSE)`
	if err := r.uow.q().QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check category existence: %w", err)
	}
	return exists, nil
}

// ExistsByName compares names case-insensitively.
func (r *categoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM categories WHERE LOWER(name) = LOWER($1) AND is_deleted = FALSE)`
	if err := r.uow.q().QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return exists, nil
}

// HasProducts reports whether any live product references the category.
func (r *categoryRepository) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE category_id = $1 AND is_deleted = FALSE)`
	if err := r.uow.q().QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check category products: %w", err)
	}
	return exists, nil
}

func (r *categoryRepository) Add(_ context.Context, category *domain.Category) error {
	r.uow.track(changeAdded, category, func(ctx context.Context, q querier) error {
		query := `
			INSERT INTO categories (id, name, description, is_active, created_at, created_by, is_deleted)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		audit := category.Audit()
		_, err := q.ExecContext(ctx, query,
			category.ID(),
			category.Name(),
			category.Description(),
			category.IsActive(),
			audit.CreatedAt,
			audit.CreatedBy,
			category.IsDeleted(),
		)
		if err != nil {
			return mapCategoryError("create", err)
		}
		return nil
	})
	return nil
}

func (r *categoryRepository) Update(_ context.Context, category *domain.Category) error {
	r.uow.track(changeModified, category, func(ctx context.Context, q querier) error {
		query := `
			UPDATE categories
			SET name = $2, description = $3, is_active = $4, updated_at = $5, updated_by = $6, is_deleted = $7
			WHERE id = $1 AND is_deleted = FALSE
		`
		audit := category.Audit()
		result, err := q.ExecContext(ctx, query,
			category.ID(),
			category.Name(),
			category.Description(),
			category.IsActive(),
			audit.UpdatedAt,
			audit.UpdatedBy,
			category.IsDeleted(),
		)
		if err != nil {
			return mapCategoryError("update", err)
		}
		return requireOneRow(result)
	})
	return nil
}

// Delete soft-deletes the category. Categories that still hold live
// products cannot be deleted.
func (r *categoryRepository) Delete(ctx context.Context, category *domain.Category) error {
	has, err := r.HasProducts(ctx, category.ID())
	if err != nil {
		return err
	}
	if has {
		return ErrCategoryHasProducts
	}

	category.MarkDeleted()
	return r.Update(ctx, category)
}

func (r *categoryRepository) queryCategories(ctx context.Context, query string, args ...any) ([]*domain.Category, error) {
	rows, err := r.uow.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var (
		id                uuid.UUID
		name, description string
		isActive, deleted bool
		audit             domain.Audit
		updatedAt         sql.NullTime
		updatedBy         sql.NullString
	)

	err := row.Scan(&id, &name, &description, &isActive, &audit.CreatedAt, &audit.CreatedBy, &updatedAt, &updatedBy, &deleted)
	if err != nil {
		return nil, err
	}

	if updatedAt.Valid {
		t := updatedAt.Time
		audit.UpdatedAt = &t
	}
	audit.UpdatedBy = updatedBy.String

	return domain.RestoreCategory(id, name, description, isActive, audit, deleted), nil
}

func mapCategoryError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == categoryNameConstraint {
		return ErrCategoryAlreadyExists
	}
	return fmt.Errorf("failed to %s category: %w", op, err)
}
