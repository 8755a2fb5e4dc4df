package service

import (
	"context"
	"errors"
	"fmt"
)

// Transactor is the transaction surface of a unit of work.
type Transactor interface {
	BeginTransaction(ctx context.Context) error
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error
	InTransaction() bool
}

// TransactionBehavior runs transactional requests inside a transaction on tx.
// A request arriving while a transaction is already open joins it.
func TransactionBehavior[Req Request, Res any](tx Transactor) Behavior[Req, Res] {
	return func(ctx context.Context, req Req, next HandlerFunc[Req, Res]) (Result[Res], error) {
		if !req.Transactional() || tx.InTransaction() {
			return next(ctx, req)
		}

		if err := tx.BeginTransaction(ctx); err != nil {
			return Result[Res]{}, fmt.Errorf("failed to begin transaction for %s: %w", req.RequestName(), err)
		}

		res, err := next(ctx, req)
		if err != nil {
			// Roll back even when the request context is already cancelled.
			if rbErr := tx.RollbackTransaction(context.WithoutCancel(ctx)); rbErr != nil {
				return Result[Res]{}, errors.Join(err, fmt.Errorf("failed to roll back transaction: %w", rbErr))
			}
			return Result[Res]{}, err
		}

		if err := tx.CommitTransaction(ctx); err != nil {
			return Result[Res]{}, err
		}

		return res, nil
	}
}
