package service

import (
	"context"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"github.com/google/uuid"
)

// fakeStore holds committed state shared by fake units of work.
type fakeStore struct {
	products   map[uuid.UUID]*domain.Product
	categories map[uuid.UUID]*domain.Category
	events     []domain.Event
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:   make(map[uuid.UUID]*domain.Product),
		categories: make(map[uuid.UUID]*domain.Category),
	}
}

func (s *fakeStore) addCategory(name string) *domain.Category {
	c := domain.NewCategory(name, name+" description")
	c.PullEvents()
	c.StampCreated(time.Now().UTC(), "System")
	s.categories[c.ID()] = c
	return c
}

func (s *fakeStore) addProduct(name string, categoryID uuid.UUID, active bool) *domain.Product {
	p, _ := domain.NewProduct(name, name+" description", domain.MustMoney("10", "USD"), 1, categoryID)
	if !active {
		p.Deactivate()
	}
	p.PullEvents()
	p.StampCreated(time.Now().UTC(), "System")
	s.products[p.ID()] = p
	return p
}

type fakeUnitOfWork struct {
	store   *fakeStore
	inTx    bool
	pending []func()
	saved   []func()
	events  []domain.Event

	saveErr error

	begun      int
	committed  int
	rolledBack int
	closed     bool
}

func newFakeUnitOfWork(store *fakeStore) *fakeUnitOfWork {
	return &fakeUnitOfWork{store: store}
}

func (u *fakeUnitOfWork) provider() UnitOfWorkProvider {
	return func() UnitOfWork { return u }
}

func (u *fakeUnitOfWork) BeginTransaction(context.Context) error {
	u.inTx = true
	u.begun++
	return nil
}

func (u *fakeUnitOfWork) InTransaction() bool { return u.inTx }

func (u *fakeUnitOfWork) SaveChanges(context.Context) error {
	if u.saveErr != nil {
		return u.saveErr
	}
	u.saved = append(u.saved, u.pending...)
	u.pending = nil
	if !u.inTx {
		u.apply()
	}
	return nil
}

func (u *fakeUnitOfWork) CommitTransaction(ctx context.Context) error {
	if err := u.SaveChanges(ctx); err != nil {
		_ = u.RollbackTransaction(ctx)
		return err
	}
	u.apply()
	u.inTx = false
	u.committed++
	return nil
}

func (u *fakeUnitOfWork) RollbackTransaction(context.Context) error {
	u.pending, u.saved, u.events = nil, nil, nil
	if u.inTx {
		u.rolledBack++
	}
	u.inTx = false
	return nil
}

func (u *fakeUnitOfWork) Close() error {
	u.closed = true
	return nil
}

func (u *fakeUnitOfWork) apply() {
	for _, write := range u.saved {
		write()
	}
	u.saved = nil
	u.store.events = append(u.store.events, u.events...)
	u.events = nil
}

func (u *fakeUnitOfWork) stage(write func(), events []domain.Event) {
	u.pending = append(u.pending, write)
	u.events = append(u.events, events...)
}

func (u *fakeUnitOfWork) Products() repository.ProductRepository    { return fakeProducts{u} }
func (u *fakeUnitOfWork) Categories() repository.CategoryRepository { return fakeCategories{u} }

type fakeProducts struct{ u *fakeUnitOfWork }

func (r fakeProducts) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := r.u.store.products[id]
	if !ok || p.IsDeleted() {
		return nil, nil
	}
	return p, nil
}

func (r fakeProducts) GetAll(ctx context.Context) ([]*domain.Product, error) {
	return r.List(ctx, repository.ProductFilter{})
}

func (r fakeProducts) List(_ context.Context, f repository.ProductFilter) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.u.store.products {
		if p.IsDeleted() {
			continue
		}
		if f.IsActive != nil && p.IsActive() != *f.IsActive {
			continue
		}
		if f.CategoryID != nil && p.CategoryID() != *f.CategoryID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r fakeProducts) Add(_ context.Context, p *domain.Product) error {
	r.u.stage(func() { r.u.store.products[p.ID()] = p }, p.PullEvents())
	return nil
}

func (r fakeProducts) Update(_ context.Context, p *domain.Product) error {
	r.u.stage(func() { r.u.store.products[p.ID()] = p }, p.PullEvents())
	return nil
}

func (r fakeProducts) Delete(ctx context.Context, p *domain.Product) error {
	p.MarkDeleted()
	return r.Update(ctx, p)
}

func (r fakeProducts) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	p, _ := r.GetByID(ctx, id)
	return p != nil, nil
}

func (r fakeProducts) GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error) {
	return r.List(ctx, repository.ProductFilter{CategoryID: &categoryID})
}

func (r fakeProducts) GetActive(ctx context.Context) ([]*domain.Product, error) {
	active := true
	return r.List(ctx, repository.ProductFilter{IsActive: &active})
}

func (r fakeProducts) GetWithCategory(ctx context.Context, id uuid.UUID) (*repository.ProductWithCategory, error) {
	p, _ := r.GetByID(ctx, id)
	if p == nil {
		return nil, nil
	}
	name := ""
	if c, ok := r.u.store.categories[p.CategoryID()]; ok && !c.IsDeleted() {
		name = c.Name()
	}
	return &repository.ProductWithCategory{Product: p, CategoryName: name}, nil
}

func (r fakeProducts) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, p := range r.u.store.products {
		if !p.IsDeleted() && p.Name() == name {
			return true, nil
		}
	}
	return false, nil
}

type fakeCategories struct{ u *fakeUnitOfWork }

func (r fakeCategories) GetByID(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := r.u.store.categories[id]
	if !ok || c.IsDeleted() {
		return nil, nil
	}
	return c, nil
}

func (r fakeCategories) GetAll(context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range r.u.store.categories {
		if !c.IsDeleted() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fakeCategories) Add(_ context.Context, c *domain.Category) error {
	r.u.stage(func() { r.u.store.categories[c.ID()] = c }, c.PullEvents())
	return nil
}

func (r fakeCategories) Update(_ context.Context, c *domain.Category) error {
	r.u.stage(func() { r.u.store.categories[c.ID()] = c }, c.PullEvents())
	return nil
}

func (r fakeCategories) Delete(ctx context.Context, c *domain.Category) error {
	if has, _ := r.HasProducts(ctx, c.ID()); has {
		return repository.ErrCategoryHasProducts
	}
	c.MarkDeleted()
	return r.Update(ctx, c)
}

func (r fakeCategories) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	c, _ := r.GetByID(ctx, id)
	return c != nil, nil
}

func (r fakeCategories) GetActive(ctx context.Context) ([]*domain.Category, error) {
	all, _ := r.GetAll(ctx)
	var out []*domain.Category
	for _, c := range all {
		if c.IsActive() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fakeCategories) GetWithProducts(ctx context.Context, id uuid.UUID) (*repository.CategoryWithProducts, error) {
	c, _ := r.GetByID(ctx, id)
	if c == nil {
		return nil, nil
	}
	products, _ := fakeProducts(r).GetByCategory(ctx, id)
	return &repository.CategoryWithProducts{Category: c, Products: products}, nil
}

func (r fakeCategories) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, c := range r.u.store.categories {
		if !c.IsDeleted() && c.Name() == name {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeCategories) HasProducts(_ context.Context, id uuid.UUID) (bool, error) {
	for _, p := range r.u.store.products {
		if !p.IsDeleted() && p.CategoryID() == id {
			return true, nil
		}
	}
	return false, nil
}
