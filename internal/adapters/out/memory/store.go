// Package memory is an in-process implementation of the repository and
// unit of work ports. It backs local runs and the HTTP tests.
//
// A unit of work holds the store's transaction lock from Begin until Commit
// or Rollback and works on a private copy of the committed state, so
// transactions are serialized and a rollback simply drops the copy.
// Repositories used outside a transaction read committed state and apply
// each write as its own transaction.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/domain/model/ordergroup"
	"orderentry/internal/core/domain/model/ordertype"
	"orderentry/internal/core/ports"
)

// ErrNoTransaction is returned by Commit without a preceding Begin.
var ErrNoTransaction = errors.New("no transaction is open")

// groupRecord keeps members by order id; snapshot.Members is always nil.
type groupRecord struct {
	snapshot  ordergroup.Snapshot
	memberIDs []int64
}

type state struct {
	orders map[int64]order.Snapshot
	groups map[int64]groupRecord
	types  map[int64]ordertype.Snapshot

	nextOrderID int64
	nextGroupID int64
	nextTypeID  int64
}

func newState() *state {
	return &state{
		orders:      make(map[int64]order.Snapshot),
		groups:      make(map[int64]groupRecord),
		types:       make(map[int64]ordertype.Snapshot),
		nextOrderID: 1,
		nextGroupID: 1,
		nextTypeID:  1,
	}
}

// clone copies the maps. Snapshots are values whose pointers are never
// mutated after being stored, so sharing them is safe.
func (s *state) clone() *state {
	c := *s
	c.orders = maps.Clone(s.orders)
	c.groups = maps.Clone(s.groups)
	c.types = maps.Clone(s.types)
	return &c
}

// Store holds the committed state and implements ports.UnitOfWorkFactory.
type Store struct {
	txMu sync.Mutex

	mu        sync.RWMutex
	committed *state
}

// NewStore returns an empty store. Ids start at 1.
func NewStore() *Store {
	return &Store{committed: newState()}
}

// Create returns a unit of work with no open transaction.
func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

func (s *Store) read(fn func(*state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.committed)
}

// autocommit runs fn as a single-statement transaction.
func (s *Store) autocommit(fn func(*state) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	work := s.snapshot()
	if err := fn(work); err != nil {
		return err
	}
	s.publish(work)
	return nil
}

func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed.clone()
}

func (s *Store) publish(work *state) {
	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
}

// UnitOfWork implements ports.UnitOfWork over a Store.
type UnitOfWork struct {
	store *Store
	work  *state
}

// Begin blocks until no other unit of work holds the store. A second Begin
// on an open transaction does nothing.
func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if uow.work != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	uow.store.txMu.Lock()
	uow.work = uow.store.snapshot()
	return nil
}

// Commit publishes the transaction's copy as the committed state and releases
// the transaction lock. Returns ErrNoTransaction without a preceding Begin.
func (uow *UnitOfWork) Commit(_ context.Context) error {
	if uow.work == nil {
		return ErrNoTransaction
	}

	uow.store.publish(uow.work)
	uow.work = nil
	uow.store.txMu.Unlock()
	return nil
}

// Rollback is a no-op without an open transaction.
func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if uow.work == nil {
		return nil
	}

	uow.work = nil
	uow.store.txMu.Unlock()
	return nil
}

// OrderRepository returns an order repository bound to this unit of work.
func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{uow: uow}
}

// OrderGroupRepository returns a group repository bound to this unit of work.
func (uow *UnitOfWork) OrderGroupRepository() ports.OrderGroupRepository {
	return &OrderGroupRepository{uow: uow}
}

// OrderTypeRepository returns an order type repository bound to this unit of work.
func (uow *UnitOfWork) OrderTypeRepository() ports.OrderTypeRepository {
	return &OrderTypeRepository{uow: uow}
}

func (uow *UnitOfWork) read(fn func(*state) error) error {
	if uow.work != nil {
		return fn(uow.work)
	}
	return uow.store.read(fn)
}

func (uow *UnitOfWork) write(fn func(*state) error) error {
	if uow.work != nil {
		return fn(uow.work)
	}
	return uow.store.autocommit(fn)
}
