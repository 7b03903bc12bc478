package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/entity"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	"github.com/renovia/pos-ledger-api/internal/domain/repository"
)

// In-memory repository fakes. They mirror the storage-layer guarantees the
// services rely on: all-or-nothing batch debits and compare-and-swap status
// transitions.

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		repo.products[p.ID] = p
	}
	return repo
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		if p.LowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) DebitStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	if p.Quantity == 0 {
		p.Status = enum.ProductStatusOutOfStock
	}
	return true, nil
}

func (r *fakeProductRepo) DebitStockBatch(ctx context.Context, debits map[uuid.UUID]int) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var failed []uuid.UUID
	for id, qty := range debits {
		p, ok := r.products[id]
		if !ok || p.Quantity < qty {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, qty := range debits {
		p := r.products[id]
		p.Quantity -= qty
		if p.Quantity == 0 {
			p.Status = enum.ProductStatusOutOfStock
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) CreditStock(ctx context.Context, id uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		p.Quantity += qty
		if p.Status == enum.ProductStatusOutOfStock && p.Quantity > 0 {
			p.Status = enum.ProductStatusActive
		}
	}
	return nil
}

func (r *fakeProductRepo) CreditStockBatch(ctx context.Context, credits map[uuid.UUID]int) error {
	for id, qty := range credits {
		if err := r.CreditStock(ctx, id, qty); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeProductRepo) IncrementSalesCount(ctx context.Context, counts map[uuid.UUID]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range counts {
		if p, ok := r.products[id]; ok {
			p.SalesCount += int64(n)
		}
	}
	return nil
}

type fakeSaleRepo struct {
	mu        sync.Mutex
	sales     map[uuid.UUID]*entity.Sale
	createErr error
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*entity.Sale)}
}

func (r *fakeSaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	sale.CreatedAt = time.Now()
	r.sales[sale.ID] = sale
	return nil
}

func (r *fakeSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return r.GetWithItems(ctx, id)
}

func (r *fakeSaleRepo) GetBySaleNumber(ctx context.Context, saleNumber string) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.SaleNumber == saleNumber {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSaleRepo) List(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Sale
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSaleRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, expected, next enum.SaleStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok || s.Status != expected {
		return false, nil
	}
	s.Status = next
	return true, nil
}

func (r *fakeSaleRepo) ListCompletedInRange(ctx context.Context, from, to time.Time) ([]entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Sale
	for _, s := range r.sales {
		if s.Status == enum.SaleStatusCompleted &&
			!s.CreatedAt.Before(from) && s.CreatedAt.Before(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeReturnRepo struct {
	mu      sync.Mutex
	returns map[uuid.UUID]*entity.ProductReturn
}

func newFakeReturnRepo() *fakeReturnRepo {
	return &fakeReturnRepo{returns: make(map[uuid.UUID]*entity.ProductReturn)}
}

func (r *fakeReturnRepo) Create(ctx context.Context, ret *entity.ProductReturn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ret.ID == uuid.Nil {
		ret.ID = uuid.New()
	}
	ret.CreatedAt = time.Now()
	r.returns[ret.ID] = ret
	return nil
}

func (r *fakeReturnRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductReturn, error) {
	return r.GetWithItems(ctx, id)
}

func (r *fakeReturnRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.ProductReturn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret, ok := r.returns[id]
	if !ok {
		return nil, nil
	}
	cp := *ret
	return &cp, nil
}

func (r *fakeReturnRepo) List(ctx context.Context, params *repository.ReturnFilterParams) ([]entity.ProductReturn, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.ProductReturn
	for _, ret := range r.returns {
		out = append(out, *ret)
	}
	return out, int64(len(out)), nil
}

func (r *fakeReturnRepo) UpdateStatusFrom(ctx context.Context, id uuid.UUID, expected, next enum.ReturnStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret, ok := r.returns[id]
	if !ok || ret.Status != expected {
		return false, nil
	}
	ret.Status = next
	if next == enum.ReturnStatusApproved {
		now := time.Now()
		ret.ApprovedAt = &now
	}
	return true, nil
}

func (r *fakeReturnRepo) CountByStatus(ctx context.Context, status enum.ReturnStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, ret := range r.returns {
		if ret.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeDashCache struct {
	mu          sync.Mutex
	store       map[string][]byte
	invalidated []string
}

func newFakeDashCache() *fakeDashCache {
	return &fakeDashCache{store: make(map[string][]byte)}
}

func (c *fakeDashCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	return v, ok, nil
}

func (c *fakeDashCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = value
	return nil
}

func (c *fakeDashCache) Invalidate(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.invalidated = append(c.invalidated, key)
	return nil
}

func (c *fakeDashCache) Close() error { return nil }

type fakeSellerRepo struct {
	sellers map[uuid.UUID]*entity.Seller
}

func newFakeSellerRepo(sellers ...*entity.Seller) *fakeSellerRepo {
	repo := &fakeSellerRepo{sellers: make(map[uuid.UUID]*entity.Seller)}
	for _, s := range sellers {
		repo.sellers[s.ID] = s
	}
	return repo
}

func (r *fakeSellerRepo) Create(ctx context.Context, seller *entity.Seller) error {
	r.sellers[seller.ID] = seller
	return nil
}

func (r *fakeSellerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Seller, error) {
	s, ok := r.sellers[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}

func (r *fakeSellerRepo) Update(ctx context.Context, seller *entity.Seller) error {
	r.sellers[seller.ID] = seller
	return nil
}

type seqKey struct {
	seller uuid.UUID
	scope  string
	period string
}

type fakeSequenceRepo struct {
	mu     sync.Mutex
	values map[seqKey]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{values: make(map[seqKey]int64)}
}

func (r *fakeSequenceRepo) Next(ctx context.Context, sellerID uuid.UUID, scope, period string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := seqKey{sellerID, scope, period}
	r.values[k]++
	return r.values[k], nil
}

func (r *fakeSequenceRepo) Current(ctx context.Context, sellerID uuid.UUID, scope, period string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[seqKey{sellerID, scope, period}], nil
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*entity.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*entity.Invoice)}
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	invoice.CreatedAt = time.Now()
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *fakeInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return r.GetWithItems(ctx, id)
}

func (r *fakeInvoiceRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *fakeInvoiceRepo) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []entity.InvoiceItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.invoices[invoiceID]; ok {
		inv.Items = items
	}
	return nil
}

func (r *fakeInvoiceRepo) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Invoice
	for _, inv := range r.invoices {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}
