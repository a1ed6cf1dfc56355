package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"stockledger/internal/domain"
	applog "stockledger/internal/log"
	"stockledger/internal/repos"
	"stockledger/internal/validate"
)

// MaxImportItems bounds one ImportProducts call.
const MaxImportItems = 100

// MutationObserver receives one call per attempted mutation.
type MutationObserver interface {
	ObserveMutation(typ, outcome string, change int)
}

// LedgerService performs every stock mutation as one atomic unit:
// product row write plus ledger entry, committed together or not at all.
type LedgerService struct {
	Store   *repos.Store
	Metrics MutationObserver

	Now    func() time.Time
	NewRef func() string
}

func NewLedgerService(store *repos.Store, m MutationObserver) *LedgerService {
	return &LedgerService{Store: store, Metrics: m}
}

func (s *LedgerService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *LedgerService) newRef() string {
	if s.NewRef != nil {
		return s.NewRef()
	}
	return uuid.NewString()
}

func (s *LedgerService) CreateProduct(ctx context.Context, name string, qty int) (domain.Product, error) {
	return s.create(ctx, name, qty, s.newRef())
}

func (s *LedgerService) create(ctx context.Context, raw string, qty int, ref string) (domain.Product, error) {
	name, ok := validate.ProductName(raw)
	if !ok {
		return s.finish(domain.TxCreate, domain.Product{}, domain.Transaction{},
			domain.Validationf("product name must be 1-%d letters or digits", validate.MaxNameLen))
	}
	if qty < 0 {
		return s.finish(domain.TxCreate, domain.Product{}, domain.Transaction{},
			domain.Validationf("quantity must be >= 0, got %d", qty))
	}

	var (
		out   domain.Product
		entry domain.Transaction
	)
	err := s.Store.WithTx(ctx, func(ctx context.Context, tx *repos.Tx) error {
		if _, err := tx.Products.GetByName(ctx, name); err == nil {
			return domain.Duplicatef("product %q already exists", name)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lookup %q: %w", name, err)
		}

		now := s.now()
		id, err := tx.Products.Insert(ctx, name, qty, now)
		if err != nil {
			if repos.IsUniqueViolation(err) {
				return domain.Duplicatef("product %q already exists", name)
			}
			return fmt.Errorf("insert product: %w", err)
		}
		entry = domain.NewTransaction(id, domain.TxCreate, nil, qty, ref, now)
		if entry.ID, err = tx.Transactions.Append(ctx, entry); err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}
		out = domain.Product{ID: id, Name: name, Quantity: qty, CreatedAt: now, UpdatedAt: now}
		return nil
	})
	return s.finish(domain.TxCreate, out, entry, err)
}

func (s *LedgerService) SetQuantity(ctx context.Context, id int64, qty int) (domain.Product, error) {
	if qty < 0 {
		return s.reject(domain.TxSet, id, domain.Validationf("quantity must be >= 0, got %d", qty))
	}
	return s.mutate(ctx, id, domain.TxSet, func(int) (int, error) { return qty, nil })
}

func (s *LedgerService) IncrementQuantity(ctx context.Context, id int64, delta int) (domain.Product, error) {
	if delta <= 0 {
		return s.reject(domain.TxIncrement, id, domain.Validationf("amount must be > 0, got %d", delta))
	}
	return s.mutate(ctx, id, domain.TxIncrement, func(old int) (int, error) {
		if old > math.MaxInt-delta {
			return 0, domain.Validationf("quantity would overflow")
		}
		return old + delta, nil
	})
}

// DecrementQuantity removes delta units (an order). Stock never goes below zero.
func (s *LedgerService) DecrementQuantity(ctx context.Context, id int64, delta int) (domain.Product, error) {
	if delta <= 0 {
		return s.reject(domain.TxDecrement, id, domain.Validationf("amount must be > 0, got %d", delta))
	}
	return s.mutate(ctx, id, domain.TxDecrement, func(old int) (int, error) {
		if delta > old {
			return 0, domain.InsufficientStock(old, delta)
		}
		return old - delta, nil
	})
}

// mutate reads the product inside the unit, computes the new quantity from the
// pre-mutation state, then writes the row and its ledger entry.
func (s *LedgerService) mutate(ctx context.Context, id int64, typ domain.TransactionType, next func(old int) (int, error)) (domain.Product, error) {
	ref := s.newRef()
	var out domain.Product
	entry := domain.Transaction{ProductID: id, Type: typ}
	err := s.Store.WithTx(ctx, func(ctx context.Context, tx *repos.Tx) error {
		p, err := tx.Products.Get(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundf("product with ID %d does not exist", id)
		}
		if err != nil {
			return fmt.Errorf("load product %d: %w", id, err)
		}

		old := p.Quantity
		qty, err := next(old)
		if err != nil {
			return err
		}

		now := s.now()
		ok, err := tx.Products.UpdateQuantity(ctx, id, qty, now)
		if err != nil {
			return fmt.Errorf("update product %d: %w", id, err)
		}
		if !ok {
			return domain.NotFoundf("product with ID %d does not exist", id)
		}
		entry = domain.NewTransaction(id, typ, &old, qty, ref, now)
		if entry.ID, err = tx.Transactions.Append(ctx, entry); err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}
		p.Quantity, p.UpdatedAt = qty, now
		out = p
		return nil
	})
	return s.finish(typ, out, entry, err)
}

// DeleteProduct removes the product and, by cascade, its whole history.
func (s *LedgerService) DeleteProduct(ctx context.Context, id int64) (domain.Deletion, error) {
	var gone domain.Deletion
	err := s.Store.WithTx(ctx, func(ctx context.Context, tx *repos.Tx) error {
		p, err := tx.Products.Get(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundf("product with ID %d does not exist", id)
		}
		if err != nil {
			return fmt.Errorf("load product %d: %w", id, err)
		}
		n, err := tx.Transactions.Count(ctx, id)
		if err != nil {
			return fmt.Errorf("count history: %w", err)
		}
		if _, err := tx.Products.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete product %d: %w", id, err)
		}
		gone = domain.Deletion{ProductID: id, ProductName: p.Name, TransactionsRemoved: n}
		return nil
	})
	if err != nil {
		err = domain.Storage("delete product failed", err)
		s.observeFailure("delete", id, err)
		return domain.Deletion{}, err
	}
	applog.Audit(nil, "ledger.delete", map[string]any{
		"product_id":           gone.ProductID,
		"product_name":         gone.ProductName,
		"transactions_removed": gone.TransactionsRemoved,
	})
	s.observe("delete", "ok", 0)
	return gone, nil
}

// ImportProducts creates each item in its own atomic unit. Entries of one call
// share a batch reference; a failing item does not undo the others.
func (s *LedgerService) ImportProducts(ctx context.Context, items []domain.ImportItem) (domain.ImportResult, error) {
	if len(items) == 0 || len(items) > MaxImportItems {
		return domain.ImportResult{}, domain.Validationf("import takes 1-%d items, got %d", MaxImportItems, len(items))
	}
	res := domain.ImportResult{Reference: s.newRef(), Created: []domain.Product{}, Failed: []domain.ImportFailure{}}
	for _, it := range items {
		p, err := s.create(ctx, it.Name, it.Quantity, res.Reference)
		if err != nil {
			if domain.KindOf(err) == domain.KindStorage {
				// the store is unhealthy; stop rather than fail every remaining item
				return res, err
			}
			res.Failed = append(res.Failed, domain.ImportFailure{Name: it.Name, Error: err.Error(), Kind: domain.KindOf(err)})
			continue
		}
		res.Created = append(res.Created, p)
	}
	applog.Audit(nil, "ledger.import", map[string]any{
		"reference": res.Reference,
		"created":   len(res.Created),
		"failed":    len(res.Failed),
	})
	return res, nil
}

func (s *LedgerService) reject(typ domain.TransactionType, id int64, err error) (domain.Product, error) {
	return s.finish(typ, domain.Product{}, domain.Transaction{ProductID: id, Type: typ}, err)
}

// finish classifies err, logs the outcome and records it.
func (s *LedgerService) finish(typ domain.TransactionType, p domain.Product, entry domain.Transaction, err error) (domain.Product, error) {
	if err != nil {
		err = domain.Storage("ledger "+typ.Action()+" failed", err)
		s.observeFailure(typ.Action(), entry.ProductID, err)
		return domain.Product{}, err
	}
	applog.Mutation(nil, entry)
	s.observe(typ.Action(), "ok", entry.ChangeAmount)
	return p.WithStatus(), nil
}

func (s *LedgerService) observeFailure(action string, id int64, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindStorage {
		applog.Error(nil, "ledger."+action+".fail", err, map[string]any{"product_id": id})
	}
	s.observe(action, string(kind), 0)
}

func (s *LedgerService) observe(action, outcome string, change int) {
	if s.Metrics != nil {
		s.Metrics.ObserveMutation(action, outcome, change)
	}
}
