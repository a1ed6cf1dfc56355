package repos

import (
	"context"
	"fmt"
)

// Tx is the set of repos bound to one atomic unit.
type Tx struct {
	Products     *ProductRepo
	Transactions *TransactionRepo
}

// WithTx runs fn inside one sqlite transaction. It commits when fn returns nil
// and rolls back on an error or panic; the connection is released on every path.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error {
	sqlTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = sqlTx.Rollback()
		}
	}()

	if err := fn(ctx, &Tx{Products: NewProductRepo(sqlTx), Transactions: NewTransactionRepo(sqlTx)}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}
