package shared

import "context"

// TransactionManager runs fn inside a single data-store transaction. The
// transaction travels in the context, so repository calls made with the ctx
// passed to fn share it; any error rolls the whole transaction back.
type TransactionManager interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
