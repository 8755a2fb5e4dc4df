package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrStaleEntity = errors.New("entity was modified or deleted concurrently")

// EventDispatcher receives domain events drained during SaveChanges.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events []domain.Event) error
}

// ActorFunc resolves the identity recorded in audit columns.
type ActorFunc func(ctx context.Context) string

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type trackedEntity interface {
	ID() uuid.UUID
	StampCreated(at time.Time, actor string)
	StampUpdated(at time.Time, actor string)
	PullEvents() []domain.Event
}

type changeKind int

const (
	changeAdded changeKind = iota
	changeModified
)

type change struct {
	kind   changeKind
	entity trackedEntity
	write  func(ctx context.Context, q querier) error
}

// UnitOfWorkFactory creates one UnitOfWork per request.
type UnitOfWorkFactory struct {
	db         *sql.DB
	dispatcher EventDispatcher
	actor      ActorFunc
	now        func() time.Time
	logger     *zap.Logger
}

// NewUnitOfWorkFactory creates a factory. A nil actor records "System".
func NewUnitOfWorkFactory(db *sql.DB, dispatcher EventDispatcher, actor ActorFunc, logger *zap.Logger) *UnitOfWorkFactory {
	if actor == nil {
		actor = func(context.Context) string { return "System" }
	}
	return &UnitOfWorkFactory{
		db:         db,
		dispatcher: dispatcher,
		actor:      actor,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger,
	}
}

// WithClock overrides the clock used for audit timestamps.
func (f *UnitOfWorkFactory) WithClock(now func() time.Time) *UnitOfWorkFactory {
	f.now = now
	return f
}

func (f *UnitOfWorkFactory) New() *UnitOfWork {
	u := &UnitOfWork{
		db:         f.db,
		dispatcher: f.dispatcher,
		actor:      f.actor,
		now:        f.now,
		logger:     f.logger,
	}
	u.products = &productRepository{uow: u}
	u.categories = &categoryRepository{uow: u}
	return u
}

// UnitOfWork tracks staged changes and the request transaction. It is not
// safe for concurrent use.
type UnitOfWork struct {
	db         *sql.DB
	tx         *sql.Tx
	changes    []change
	dispatcher EventDispatcher
	actor      ActorFunc
	now        func() time.Time
	logger     *zap.Logger

	products   *productRepository
	categories *categoryRepository
}

func (u *UnitOfWork) Products() ProductRepository    { return u.products }
func (u *UnitOfWork) Categories() CategoryRepository { return u.categories }

func (u *UnitOfWork) InTransaction() bool { return u.tx != nil }

// BeginTransaction opens a transaction. It is a no-op when one is already open.
func (u *UnitOfWork) BeginTransaction(ctx context.Context) error {
	if u.tx != nil {
		return nil
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	u.tx = tx
	return nil
}

// SaveChanges writes staged changes and dispatches the drained domain events.
// Without an open transaction it runs inside its own.
func (u *UnitOfWork) SaveChanges(ctx context.Context) error {
	owned := false
	if u.tx == nil {
		if err := u.BeginTransaction(ctx); err != nil {
			return err
		}
		owned = true
	}

	if err := u.flush(ctx); err != nil {
		if owned {
			u.discard()
			if rbErr := u.rollback(); rbErr != nil {
				return errors.Join(err, rbErr)
			}
		}
		return err
	}

	if owned {
		tx := u.tx
		u.tx = nil
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
	}
	return nil
}

// CommitTransaction saves pending changes and commits. On failure the
// transaction is rolled back. The transaction is released either way.
func (u *UnitOfWork) CommitTransaction(ctx context.Context) error {
	if u.tx == nil {
		return u.SaveChanges(ctx)
	}

	if err := u.SaveChanges(ctx); err != nil {
		u.discard()
		if rbErr := u.rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	tx := u.tx
	u.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RollbackTransaction discards staged changes with their events and rolls
// back the open transaction, if any.
func (u *UnitOfWork) RollbackTransaction(ctx context.Context) error {
	u.discard()
	return u.rollback()
}

// Close releases an open transaction.
func (u *UnitOfWork) Close() error {
	if u.tx == nil {
		return nil
	}
	u.logger.Warn("Unit of work closed with an open transaction, rolling back")
	u.discard()
	return u.rollback()
}

func (u *UnitOfWork) rollback() error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

func (u *UnitOfWork) discard() {
	for _, c := range u.changes {
		c.entity.PullEvents()
	}
	u.changes = nil
}

func (u *UnitOfWork) q() querier {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWork) track(kind changeKind, e trackedEntity, write func(ctx context.Context, q querier) error) {
	u.changes = append(u.changes, change{kind: kind, entity: e, write: write})
}

func (u *UnitOfWork) flush(ctx context.Context) error {
	if len(u.changes) == 0 {
		return nil
	}

	at := u.now()
	actor := u.actor(ctx)

	for _, c := range u.changes {
		switch c.kind {
		case changeAdded:
			c.entity.StampCreated(at, actor)
		case changeModified:
			c.entity.StampUpdated(at, actor)
		}
		if err := c.write(ctx, u.tx); err != nil {
			return err
		}
	}

	events := u.drainEvents()
	u.changes = nil

	if len(events) == 0 || u.dispatcher == nil {
		return nil
	}
	if err := u.dispatcher.Dispatch(ctx, events); err != nil {
		return fmt.Errorf("failed to dispatch domain events: %w", err)
	}
	return nil
}

// drainEvents pulls events from every tracked entity once and orders them by
// recording sequence, so events interleave across entities as they were raised.
func (u *UnitOfWork) drainEvents() []domain.Event {
	seen := make(map[trackedEntity]struct{}, len(u.changes))
	var events []domain.Event
	for _, c := range u.changes {
		if _, ok := seen[c.entity]; ok {
			continue
		}
		seen[c.entity] = struct{}{}
		events = append(events, c.entity.PullEvents()...)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Sequence() < events[j].Sequence()
	})
	return events
}
