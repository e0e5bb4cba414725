package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
//
// Example:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Save(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
type UnitOfWorkFactory interface {
	// Create returns a unit of work with no open transaction.
	Create() UnitOfWork
}

// Repositories groups the repositories bound to one unit of work.
type Repositories interface {
	OrderRepository() OrderRepository
	OrderGroupRepository() OrderGroupRepository
	OrderTypeRepository() OrderTypeRepository
}

// UnitOfWork is a business transaction boundary. Repositories obtained from it
// use the transaction started by Begin until Commit or Rollback.
type UnitOfWork interface {
	// Begin opens the transaction. A second Begin on an open transaction is a no-op.
	Begin(ctx context.Context) error

	// Commit returns an error if no transaction is active or the commit fails.
	Commit(ctx context.Context) error

	// Rollback is safe to defer; it is a no-op after Commit.
	Rollback(ctx context.Context) error

	Repositories
}
