// Package repo translates the pure, persistence-agnostic domain types in
// pkg/models to and from the generated ent client, behind repository
// types exposing get/list/upsert/delete per entity (§6). Pure-logic
// components (chunker, resolver, merger, ...) never import this package;
// only pkg/pipeline, pkg/scheduler, pkg/api and cmd/enchant do.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/novelenchant/enchant/ent"
	"github.com/novelenchant/enchant/pkg/retrypolicy"
)

// ErrNotFound is returned by Get-style lookups when no row matches id.
var ErrNotFound = errors.New("repo: not found")

// Repo is constructed once per process (or per worker, per §9's "scoped
// resources" note) and wraps the generated ent client. Every call goes
// through a per-call deadline the caller attaches to ctx.
type Repo struct {
	Client *ent.Client
}

// New wraps an existing ent client.
func New(client *ent.Client) *Repo {
	return &Repo{Client: client}
}

func wrapNotFound(err error) error {
	if err == nil {
		return nil
	}
	if ent.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}

func wrapf(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("repo: %s: %w", op, wrapNotFound(err))
}

// isDeadlockOrTransient classifies a persistence error as retryable per
// §9's persistence policy (5, 100ms, 1.5): Postgres serialization
// failures, deadlocks and connection-level errors, plus a context
// deadline the caller can still afford to retry.
func isDeadlockOrTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", // serialization_failure, deadlock_detected
			"08000", "08003", "08006", "08001", "08004": // connection_exception family
			return true
		}
	}
	return false
}

// withRetry wraps fn in retrypolicy.Persistence (§9: 5 attempts, 100ms
// base, 1.5 factor), retrying a deadlock or transient connection failure
// before surfacing it to the caller.
func (r *Repo) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	policy := retrypolicy.Persistence
	policy.Retryable = isDeadlockOrTransient
	return retrypolicy.Do(ctx, policy, fn)
}

// WithTx runs fn inside an ent transaction, committing on success and
// rolling back on error or panic. The whole begin/fn/commit sequence is
// retried under §9's persistence policy, since a deadlock or
// serialization failure can surface at any of those steps.
func (r *Repo) WithTx(ctx context.Context, fn func(tx *ent.Tx) error) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Client.Tx(ctx)
		if err != nil {
			return fmt.Errorf("repo: begin tx: %w", err)
		}
		defer func() {
			if p := recover(); p != nil {
				_ = tx.Rollback()
				panic(p)
			}
		}()
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	})
}
