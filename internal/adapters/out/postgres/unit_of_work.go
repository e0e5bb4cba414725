// Package postgres provides the GORM-based Unit of Work over the order,
// order group and order type repositories.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Save(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides isolated transactions
//   - Multiple goroutines should use separate UnitOfWork instances
//   - Order number generation is serialized by an advisory lock held until the transaction ends
package postgres

import (
	"context"

	"orderentry/internal/adapters/out/postgres/ordergrouprepo"
	"orderentry/internal/adapters/out/postgres/orderrepo"
	"orderentry/internal/adapters/out/postgres/ordertyperepo"
	"orderentry/internal/core/ports"
	"orderentry/internal/pkg/errs"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the repositories use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&ordergrouprepo.OrderGroupDTO{},
		&ordergrouprepo.OrderGroupMemberDTO{},
		&ordertyperepo.OrderTypeDTO{},
	)
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Each business operation gets a fresh unit of work instance.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory whose units of work share db.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns a unit of work with no open transaction. Its repositories
// use db directly until Begin is called.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction. Repositories obtained
// before Begin use the plain connection.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin starts the transaction. Calling it again while a transaction is open
// does nothing.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errs.NewStorageError("begin transaction", tx.Error)
	}

	uow.tx = tx
	return nil
}

// Commit returns gorm.ErrInvalidTransaction when no transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return errs.NewStorageError("commit transaction", err)
	}
	return nil
}

// Rollback is a no-op when no transaction is open, so it can be deferred
// unconditionally after Begin.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return nil
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	if err != nil {
		return errs.NewStorageError("rollback transaction", err)
	}
	return nil
}

// OrderRepository returns an order repository on the open transaction, or on
// the connection when none is open.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

// OrderGroupRepository returns a group repository on the open transaction, or
// on the connection when none is open.
func (uow *GormUnitOfWork) OrderGroupRepository() ports.OrderGroupRepository {
	return ordergrouprepo.NewGormOrderGroupRepository(uow.conn())
}

// OrderTypeRepository returns an order type repository on the open
// transaction, or on the connection when none is open.
func (uow *GormUnitOfWork) OrderTypeRepository() ports.OrderTypeRepository {
	return ordertyperepo.NewGormOrderTypeRepository(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
