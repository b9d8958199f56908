package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per request/command, keeping
// concurrent operations isolated from each other.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. Client code manages
// the lifecycle explicitly: Begin, then Commit or Rollback.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns an error if no transaction is active or the commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns an error if no transaction is active or the rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current
	// transaction when one is active.
	OrderRepository() OrderRepository
}
