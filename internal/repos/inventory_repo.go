package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"stockledger/internal/domain"
)

// TransactionRepo reads and appends rows of inventory_transactions. Rows are never updated.
type TransactionRepo struct{ q sqlx.ExtContext }

func NewTransactionRepo(q sqlx.ExtContext) *TransactionRepo { return &TransactionRepo{q: q} }

const txCols = `t.id, t.product_id, p.product_name, t.transaction_type, t.old_quantity,
	t.new_quantity, t.change_amount, t.reference, t.performed_at`

// Append inserts one ledger entry and returns its id.
func (r *TransactionRepo) Append(ctx context.Context, e domain.Transaction) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO inventory_transactions
		  (product_id, transaction_type, old_quantity, new_quantity, change_amount, reference, performed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ProductID, string(e.Type), e.OldQuantity, e.NewQuantity, e.ChangeAmount, e.Reference, e.PerformedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Latest returns the newest entries across all products.
func (r *TransactionRepo) Latest(ctx context.Context, limit int) ([]domain.Transaction, error) {
	out := []domain.Transaction{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT `+txCols+`
		FROM inventory_transactions t
		JOIN products p ON p.id = t.product_id
		ORDER BY t.performed_at DESC, t.id DESC
		LIMIT ?
	`, limit)
	return out, err
}

// ForProduct returns one product's history, newest first.
func (r *TransactionRepo) ForProduct(ctx context.Context, productID int64) ([]domain.Transaction, error) {
	out := []domain.Transaction{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT `+txCols+`
		FROM inventory_transactions t
		JOIN products p ON p.id = t.product_id
		WHERE t.product_id = ?
		ORDER BY t.performed_at DESC, t.id DESC
	`, productID)
	return out, err
}

// Count returns the number of entries for productID, or all entries when productID is 0.
func (r *TransactionRepo) Count(ctx context.Context, productID int64) (int, error) {
	var n int
	var err error
	if productID == 0 {
		err = sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM inventory_transactions`)
	} else {
		err = sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM inventory_transactions WHERE product_id = ?`, productID)
	}
	return n, err
}
