package services

import (
	"context"
	"database/sql"
	"errors"

	"stockledger/internal/domain"
	"stockledger/internal/repos"
	"stockledger/internal/validate"
)

// QueryService holds the read-only projections. It never writes.
type QueryService struct {
	Store     *repos.Store
	TxDefault int
	TxMax     int
}

func NewQueryService(store *repos.Store, txDefault, txMax int) *QueryService {
	return &QueryService{Store: store, TxDefault: txDefault, TxMax: txMax}
}

func (s *QueryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	list, err := s.Store.Products().List(ctx)
	if err != nil {
		return nil, domain.Storage("list products failed", err)
	}
	return withStatus(list), nil
}

// GetProduct reports absence through ok rather than an error.
func (s *QueryService) GetProduct(ctx context.Context, id int64) (domain.Product, bool, error) {
	return found(s.Store.Products().Get(ctx, id))
}

func (s *QueryService) GetProductByName(ctx context.Context, name string) (domain.Product, bool, error) {
	n, ok := validate.ProductName(name)
	if !ok {
		return domain.Product{}, false, nil
	}
	return found(s.Store.Products().GetByName(ctx, n))
}

func found(p domain.Product, err error) (domain.Product, bool, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, false, nil
	}
	if err != nil {
		return domain.Product{}, false, domain.Storage("load product failed", err)
	}
	return p.WithStatus(), true, nil
}

func (s *QueryService) SearchProducts(ctx context.Context, f domain.SearchFilter) ([]domain.Product, error) {
	name, ok := validate.Q(f.Name)
	if !ok {
		return nil, domain.Validationf("name filter must be 1-%d letters or digits", validate.MaxNameLen)
	}
	f.Name = name
	if (f.MinQuantity != nil && *f.MinQuantity < 0) || (f.MaxQuantity != nil && *f.MaxQuantity < 0) {
		return nil, domain.Validationf("quantity bounds must be >= 0")
	}
	if f.MinQuantity != nil && f.MaxQuantity != nil && *f.MinQuantity > *f.MaxQuantity {
		return nil, domain.Validationf("min_quantity %d exceeds max_quantity %d", *f.MinQuantity, *f.MaxQuantity)
	}
	list, err := s.Store.Products().Search(ctx, f)
	if err != nil {
		return nil, domain.Storage("search products failed", err)
	}
	return withStatus(list), nil
}

// ListTransactions returns the newest entries across all products.
// limit <= 0 selects the configured default; larger values are capped.
func (s *QueryService) ListTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	list, err := s.Store.Transactions().Latest(ctx, validate.Limit(limit, s.TxDefault, s.TxMax))
	if err != nil {
		return nil, domain.Storage("list transactions failed", err)
	}
	return list, nil
}

func (s *QueryService) ListTransactionsForProduct(ctx context.Context, id int64) ([]domain.Transaction, error) {
	if _, ok, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	} else if !ok {
		return nil, domain.NotFoundf("product with ID %d does not exist", id)
	}
	list, err := s.Store.Transactions().ForProduct(ctx, id)
	if err != nil {
		return nil, domain.Storage("load history failed", err)
	}
	return list, nil
}

func (s *QueryService) Stats(ctx context.Context) (domain.Stats, error) {
	st, err := s.Store.Stats(ctx)
	if err != nil {
		return domain.Stats{}, domain.Storage("read stats failed", err)
	}
	return st, nil
}

func (s *QueryService) Availability(ctx context.Context, id int64) (domain.Availability, error) {
	p, ok, err := s.GetProduct(ctx, id)
	if err != nil {
		return domain.Availability{}, err
	}
	if !ok {
		return domain.Availability{}, domain.NotFoundf("product with ID %d does not exist", id)
	}
	return domain.Availability{ProductID: id, Status: p.StockStatus, Qty: p.Quantity}, nil
}

// VerifyLedger replays the product's history and compares it with the stored quantity.
func (s *QueryService) VerifyLedger(ctx context.Context, id int64) (domain.LedgerCheck, error) {
	p, ok, err := s.GetProduct(ctx, id)
	if err != nil {
		return domain.LedgerCheck{}, err
	}
	if !ok {
		return domain.LedgerCheck{}, domain.NotFoundf("product with ID %d does not exist", id)
	}
	hist, err := s.Store.Transactions().ForProduct(ctx, id)
	if err != nil {
		return domain.LedgerCheck{}, domain.Storage("load history failed", err)
	}
	// history is newest first
	for i, j := 0, len(hist)-1; i < j; i, j = i+1, j-1 {
		hist[i], hist[j] = hist[j], hist[i]
	}
	replayed, valid := domain.Replay(hist)
	return domain.LedgerCheck{
		ProductID:  id,
		Quantity:   p.Quantity,
		Replayed:   replayed,
		Entries:    len(hist),
		Consistent: valid && replayed == p.Quantity,
	}, nil
}

func withStatus(list []domain.Product) []domain.Product {
	for i := range list {
		list[i] = list[i].WithStatus()
	}
	return list
}
