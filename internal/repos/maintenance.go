package repos

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"stockledger/internal/domain"
)

// Stats reads every counter in one statement, so they describe the same snapshot.
func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats
	err := s.db.GetContext(ctx, &st, `
		SELECT
		  (SELECT COUNT(*) FROM products)                                     AS product_count,
		  (SELECT COUNT(*) FROM inventory_transactions)                       AS transaction_count,
		  (SELECT COALESCE(SUM(quantity), 0) FROM products)                   AS total_stock,
		  (SELECT COUNT(*) FROM products WHERE quantity = 0)                  AS out_of_stock_count,
		  (SELECT COUNT(*) FROM products WHERE quantity > 0 AND quantity < ?) AS low_stock_count
	`, domain.LowStockThreshold)
	if err != nil {
		return domain.Stats{}, err
	}
	if err := s.db.GetContext(ctx, &st.DatabaseSize, `
		SELECT p.page_count * s.page_size FROM pragma_page_count() p, pragma_page_size() s
	`); err != nil {
		return domain.Stats{}, err
	}
	st.DatabasePath = s.path
	return st, nil
}

// Backup writes a consistent copy of the live database to dest using VACUUM INTO.
// The copy is taken inside a read transaction, so concurrent commits are either
// fully in it or fully out of it. dest must not exist.
func (s *Store) Backup(ctx context.Context, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("backup target %s already exists", dest)
	}
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, dest); err != nil {
		return fmt.Errorf("vacuum into %s: %w", dest, err)
	}
	return nil
}
