package repos

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store owns the sqlite handle shared by the ledger and query services.
type Store struct {
	db   *sqlx.DB
	path string
}

func inMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// dsn adds the per-connection pragmas. _txlock=immediate makes every BEGIN take
// the write lock, so read-validate-write inside WithTx cannot interleave.
func dsn(path string) string {
	params := []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_txlock=immediate",
		"_time_format=sqlite",
	}
	if !inMemory(path) {
		params = append(params, "_pragma=journal_mode(WAL)", "_pragma=synchronous(NORMAL)")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

// Open opens (creating if needed) the sqlite database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if !inMemory(path) {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	}
	db, err := sqlx.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	if inMemory(path) {
		// every new connection to :memory: is a fresh empty database
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Products
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_name TEXT NOT NULL UNIQUE,
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);

-- Ledger
CREATE TABLE IF NOT EXISTS inventory_transactions(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  transaction_type TEXT NOT NULL CHECK (transaction_type IN ('CREATE','SET','INCREMENT','DECREMENT')),
  old_quantity INTEGER,
  new_quantity INTEGER NOT NULL CHECK (new_quantity >= 0),
  change_amount INTEGER NOT NULL,
  reference TEXT NOT NULL,
  performed_at TIMESTAMP NOT NULL,
  CHECK ((transaction_type = 'CREATE') = (old_quantity IS NULL))
);
CREATE INDEX IF NOT EXISTS idx_transactions_product   ON inventory_transactions(product_id, id);
CREATE INDEX IF NOT EXISTS idx_transactions_performed ON inventory_transactions(performed_at);
`
	_, err := db.Exec(schema)
	return err
}

func (s *Store) Close() error { return s.db.Close() }

// Path is the configured database location.
func (s *Store) Path() string { return s.path }

// DB exposes the handle for tests and maintenance tooling.
func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Products returns a repo outside any atomic unit (reads only).
func (s *Store) Products() *ProductRepo { return NewProductRepo(s.db) }

// Transactions returns a ledger repo outside any atomic unit (reads only).
func (s *Store) Transactions() *TransactionRepo { return NewTransactionRepo(s.db) }
