package domain

import (
	"strings"
	"time"
)

// LowStockThreshold is the first quantity considered IN_STOCK.
const LowStockThreshold = 5

type StockStatus string

const (
	OutOfStock StockStatus = "OUT_OF_STOCK"
	LowStock   StockStatus = "LOW_STOCK"
	InStock    StockStatus = "IN_STOCK"
)

// StatusFor converts qty into IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func StatusFor(qty int) StockStatus {
	switch {
	case qty >= LowStockThreshold:
		return InStock
	case qty > 0:
		return LowStock
	}
	return OutOfStock
}

type Product struct {
	ID          int64       `db:"id" json:"id"`
	Name        string      `db:"product_name" json:"product_name"`
	Quantity    int         `db:"quantity" json:"quantity"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
	StockStatus StockStatus `db:"-" json:"stock_status"`
}

// WithStatus fills the derived stock status.
func (p Product) WithStatus() Product {
	p.StockStatus = StatusFor(p.Quantity)
	return p
}

type TransactionType string

const (
	TxCreate    TransactionType = "CREATE"
	TxSet       TransactionType = "SET"
	TxIncrement TransactionType = "INCREMENT"
	TxDecrement TransactionType = "DECREMENT"
)

// Action is the lower-case name used in log actions and metric labels.
func (t TransactionType) Action() string { return strings.ToLower(string(t)) }

// Transaction is one immutable ledger entry.
type Transaction struct {
	ID           int64           `db:"id" json:"id"`
	ProductID    int64           `db:"product_id" json:"product_id"`
	ProductName  string          `db:"product_name" json:"product_name,omitempty"`
	Type         TransactionType `db:"transaction_type" json:"transaction_type"`
	OldQuantity  *int            `db:"old_quantity" json:"old_quantity"` // nil only for CREATE
	NewQuantity  int             `db:"new_quantity" json:"new_quantity"`
	ChangeAmount int             `db:"change_amount" json:"change_amount"`
	Reference    string          `db:"reference" json:"reference"`
	PerformedAt  time.Time       `db:"performed_at" json:"performed_at"`
}

// NewTransaction builds an entry with change_amount = new - (old or 0).
func NewTransaction(productID int64, typ TransactionType, old *int, newQty int, ref string, at time.Time) Transaction {
	base := 0
	if old != nil {
		base = *old
	}
	return Transaction{
		ProductID:    productID,
		Type:         typ,
		OldQuantity:  old,
		NewQuantity:  newQty,
		ChangeAmount: newQty - base,
		Reference:    ref,
		PerformedAt:  at,
	}
}

// Replay folds entries ordered oldest first into the resulting quantity.
// The first entry must be the CREATE entry.
func Replay(entries []Transaction) (int, bool) {
	if len(entries) == 0 || entries[0].Type != TxCreate {
		return 0, false
	}
	qty := entries[0].NewQuantity
	for _, e := range entries[1:] {
		if e.OldQuantity == nil || *e.OldQuantity != qty {
			return qty, false
		}
		qty += e.ChangeAmount
	}
	return qty, true
}

// SearchFilter composes with AND; nil fields are not applied.
type SearchFilter struct {
	Name        string
	MinQuantity *int
	MaxQuantity *int
	InStock     *bool
}

type Stats struct {
	ProductCount     int    `db:"product_count" json:"product_count"`
	TransactionCount int    `db:"transaction_count" json:"transaction_count"`
	TotalStock       int    `db:"total_stock" json:"total_stock"`
	OutOfStockCount  int    `db:"out_of_stock_count" json:"out_of_stock_count"`
	LowStockCount    int    `db:"low_stock_count" json:"low_stock_count"`
	DatabasePath     string `db:"-" json:"database_path"`
	DatabaseSize     int64  `db:"-" json:"database_size"`
}

type ImportItem struct {
	Name     string `json:"product_name"`
	Quantity int    `json:"quantity"`
}

type ImportFailure struct {
	Name  string `json:"product_name"`
	Error string `json:"error"`
	Kind  Kind   `json:"kind"`
}

type ImportResult struct {
	Reference string          `json:"reference"`
	Created   []Product       `json:"created"`
	Failed    []ImportFailure `json:"failed"`
}

// Deletion confirms a DeleteProduct call.
type Deletion struct {
	ProductID           int64  `json:"product_id"`
	ProductName         string `json:"product_name"`
	TransactionsRemoved int    `json:"transactions_removed"`
}

type Availability struct {
	ProductID int64       `json:"product_id"`
	Status    StockStatus `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty       int         `json:"qty"`
}

// LedgerCheck compares a product's quantity with the replay of its history.
type LedgerCheck struct {
	ProductID  int64 `json:"product_id"`
	Quantity   int   `json:"quantity"`
	Replayed   int   `json:"replayed"`
	Entries    int   `json:"entries"`
	Consistent bool  `json:"consistent"`
}
