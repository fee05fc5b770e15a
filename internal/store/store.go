package store

import "context"

// TxRunner wraps a sequence of store calls in a single transaction. Store
// implementations that support transactions arrange for every store method
// invoked inside fn (with the context fn receives) to run on the same
// transaction; fn returning an error rolls the whole sequence back.
//
// The in-memory implementation runs fn directly and is not atomic. That is
// acceptable for tests, which never fail halfway through a sequence.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
