package repos

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"stockledger/internal/domain"
)

// ProductRepo works on either the shared handle or an open transaction.
type ProductRepo struct{ q sqlx.ExtContext }

func NewProductRepo(q sqlx.ExtContext) *ProductRepo { return &ProductRepo{q: q} }

const productCols = `id, product_name, quantity, created_at, updated_at`

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT `+productCols+`
		FROM products
		ORDER BY product_name
	`)
	return out, err
}

// Get returns sql.ErrNoRows when the product does not exist.
func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.q, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) GetByName(ctx context.Context, name string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.q, &p, `SELECT `+productCols+` FROM products WHERE product_name = ?`, name)
	return p, err
}

func likeEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Search ANDs together whichever filters are set.
func (r *ProductRepo) Search(ctx context.Context, f domain.SearchFilter) ([]domain.Product, error) {
	where := `1 = 1`
	args := []any{}
	if f.Name != "" {
		where += ` AND LOWER(product_name) LIKE ? ESCAPE '\'`
		args = append(args, "%"+likeEscape(strings.ToLower(f.Name))+"%")
	}
	if f.MinQuantity != nil {
		where += ` AND quantity >= ?`
		args = append(args, *f.MinQuantity)
	}
	if f.MaxQuantity != nil {
		where += ` AND quantity <= ?`
		args = append(args, *f.MaxQuantity)
	}
	if f.InStock != nil {
		if *f.InStock {
			where += ` AND quantity > 0`
		} else {
			where += ` AND quantity = 0`
		}
	}

	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT `+productCols+`
		FROM products
		WHERE `+where+`
		ORDER BY product_name`, args...)
	return out, err
}

// Insert adds a product row and returns its id.
func (r *ProductRepo) Insert(ctx context.Context, name string, qty int, at time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO products(product_name, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, name, qty, at, at)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateQuantity sets qty and refreshes updated_at. It reports false if no row matched.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, id int64, qty int, at time.Time) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE products SET quantity = ?, updated_at = ?
		WHERE id = ?
	`, qty, at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete removes the product; ledger rows go with it through ON DELETE CASCADE.
func (r *ProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// IsUniqueViolation reports whether err came from a UNIQUE constraint.
func IsUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}
