package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Beginner is the subset of *pgxpool.Pool (and pgx.Tx, via savepoints)
// needed to open a transaction.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner executes a function inside a single database transaction.
// Services use it to group statements that must commit or fail together,
// such as the lazy day creation and the item insert it exists for.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Atomic is the TxRunner over a live connection source.
type Atomic struct {
	db Beginner
}

// NewAtomic constructs an Atomic over the provided connection source.
func NewAtomic(db Beginner) *Atomic {
	return &Atomic{db: db}
}

// InTx begins a transaction, runs fn with it, and commits when fn returns
// nil. Any error from fn, or a context cancelled mid-way, rolls the
// transaction back: none of fn's statements become visible.
func (a *Atomic) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := a.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.Atomic.InTx: begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op after Commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.Atomic.InTx: commit: %w", err)
	}
	return nil
}
