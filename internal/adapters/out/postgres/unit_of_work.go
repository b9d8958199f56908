// Package postgres provides the GORM-based Unit of Work implementation that
// backs the command handlers' transaction boundaries. Each unit of work owns
// at most one database transaction; repositories obtained from it run inside
// that transaction when one is active and on the base connection otherwise.
package postgres

import (
	"context"

	"lunchroom/internal/adapters/out/postgres/orderrepo"
	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate records an aggregate modified during the unit of work,
// kept for post-commit processing such as a future outbox.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one GORM
// connection pool. Each business operation gets a fresh instance so
// concurrent operations never share transaction state.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory bound to the given connection.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork with no transaction started.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork implements ports.UnitOfWork on a GORM connection. The
// lifecycle is explicit: Begin, repository work, then Commit or Rollback.
// Begin is idempotent; Commit and Rollback close the transaction either way.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts a database transaction. Calling Begin with a transaction
// already active is a no-op, not a nested transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the active transaction.
// Returns gorm.ErrInvalidTransaction if none is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the active transaction.
// Returns gorm.ErrInvalidTransaction if none is active.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderRepository returns the order repository bound to the active
// transaction, or to the base connection when no transaction is open. The
// daily order number counter is allocated through the latter path, before
// the checkout transaction begins.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db, uow)
}

// TrackAggregate registers a modified aggregate, called by repositories on
// every successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
