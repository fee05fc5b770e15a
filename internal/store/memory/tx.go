package memory

import "context"

// TxRunner implements store.TxRunner for the in-memory stores. It simply runs
// fn; the memory stores have no transaction support, so a failing fn leaves
// any writes it already made in place. Tests drive fn to completion, so this
// is not observable there.
type TxRunner struct{}

// NewTxRunner creates a pass-through transaction runner.
func NewTxRunner() *TxRunner {
	return &TxRunner{}
}

// WithinTx runs fn with the given context.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
