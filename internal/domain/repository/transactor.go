package repository

import "context"

// Transactor runs fn inside a database transaction. Repositories called with
// the ctx passed to fn join that transaction; fn returning an error rolls
// everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
