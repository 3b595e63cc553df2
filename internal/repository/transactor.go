package repository

import "context"

// Transactor runs fn so that every repository call made with the ctx it
// receives commits or rolls back together. Nested calls join the outer
// transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// WithinSavepoint undoes only fn's writes when fn fails and leaves the
	// enclosing transaction usable. Outside a transaction it just calls fn.
	WithinSavepoint(ctx context.Context, fn func(ctx context.Context) error) error
}
