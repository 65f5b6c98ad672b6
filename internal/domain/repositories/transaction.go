package repositories

import "context"

// TxFn is a unit of work run inside a transaction
type TxFn func(ctx context.Context) error

// TransactionManager runs units of work atomically against the metadata store.
// Physical file storage never participates in these transactions.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
