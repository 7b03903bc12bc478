package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/entity"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	infraRepo "github.com/renovia/pos-ledger-api/internal/infrastructure/repository"
	"github.com/renovia/pos-ledger-api/pkg/apperror"
)

func sellerCtx(sellerID uuid.UUID) context.Context {
	return infraRepo.WithSeller(context.Background(), sellerID)
}

func testProduct(name, sku string, priceCents int64, qty int) *entity.Product {
	return &entity.Product{
		ID:             uuid.New(),
		Name:           name,
		SKU:            sku,
		Price:          priceCents,
		Quantity:       qty,
		TrackInventory: true,
		Status:         enum.ProductStatusActive,
	}
}

func newSaleService(productRepo *fakeProductRepo, saleRepo *fakeSaleRepo) *SaleService {
	return NewSaleService(saleRepo, productRepo, newFakeSellerRepo(), newFakeDashCache(), 0.20, "EUR")
}

func TestCreateSaleComputesTotals(t *testing.T) {
	coffee := testProduct("Coffee", "COF-1", 350, 10)
	croissant := testProduct("Croissant", "CRO-1", 120, 10)
	productRepo := newFakeProductRepo(coffee, croissant)
	saleRepo := newFakeSaleRepo()
	svc := newSaleService(productRepo, saleRepo)

	cash := 20.00
	sale, err := svc.CreateSale(sellerCtx(uuid.New()), &CreateSaleInput{
		Items: []SaleItemInput{
			{ProductID: coffee.ID, Quantity: 2},
			{ProductID: croissant.ID, Quantity: 3},
		},
		PaymentMethod: enum.PaymentMethodCash,
		CashReceived:  &cash,
		Discount:      1.00,
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	// subtotal 2*350 + 3*120 = 1060, tax 20% of 1060 = 212, discount 100
	if sale.SubTotal != 1060 {
		t.Errorf("SubTotal = %d, want 1060", sale.SubTotal)
	}
	if sale.Tax != 212 {
		t.Errorf("Tax = %d, want 212", sale.Tax)
	}
	if sale.Total != sale.SubTotal+sale.Tax-sale.Discount {
		t.Errorf("Total = %d, violates subtotal+tax-discount", sale.Total)
	}
	if sale.Total != 1172 {
		t.Errorf("Total = %d, want 1172", sale.Total)
	}

	if sale.CashReceived == nil || *sale.CashReceived != 2000 {
		t.Fatalf("CashReceived = %v, want 2000", sale.CashReceived)
	}
	if sale.ChangeGiven == nil || *sale.ChangeGiven != 828 {
		t.Errorf("ChangeGiven = %v, want 828", sale.ChangeGiven)
	}

	// Stock debited
	p, _ := productRepo.GetByID(context.Background(), coffee.ID)
	if p.Quantity != 8 {
		t.Errorf("coffee quantity = %d, want 8", p.Quantity)
	}
}

func TestCreateSaleUsesCatalogPrices(t *testing.T) {
	coffee := testProduct("Coffee", "COF-1", 350, 10)
	productRepo := newFakeProductRepo(coffee)
	svc := newSaleService(productRepo, newFakeSaleRepo())

	sale, err := svc.CreateSale(sellerCtx(uuid.New()), &CreateSaleInput{
		Items:         []SaleItemInput{{ProductID: coffee.ID, Quantity: 1}},
		PaymentMethod: enum.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if sale.Items[0].UnitPrice != 350 {
		t.Errorf("UnitPrice = %d, want catalog price 350", sale.Items[0].UnitPrice)
	}
	if sale.Items[0].ProductName != "Coffee" || sale.Items[0].ProductSKU != "COF-1" {
		t.Errorf("line snapshot = %q/%q, want Coffee/COF-1",
			sale.Items[0].ProductName, sale.Items[0].ProductSKU)
	}
}

func TestCreateSaleInsufficientStockDebitsNothing(t *testing.T) {
	coffee := testProduct("Coffee", "COF-1", 350, 10)
	croissant := testProduct("Croissant", "CRO-1", 120, 1)
	productRepo := newFakeProductRepo(coffee, croissant)
	svc := newSaleService(productRepo, newFakeSaleRepo())

	_, err := svc.CreateSale(sellerCtx(uuid.New()), &CreateSaleInput{
		Items: []SaleItemInput{
			{ProductID: coffee.ID, Quantity: 2},
			{ProductID: croissant.ID, Quantity: 5},
		},
		PaymentMethod: enum.PaymentMethodCard,
	})

	var stockErr *apperror.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if stockErr.ProductID != croissant.ID {
		t.Errorf("failing product = %s, want croissant", stockErr.ProductID)
	}

	// No line was debited, including the one that had stock
	p, _ := productRepo.GetByID(context.Background(), coffee.ID)
	if p.Quantity != 10 {
		t.Errorf("coffee quantity = %d, want untouched 10", p.Quantity)
	}
}

func TestCreateSaleLastUnitFlipsOutOfStock(t *testing.T) {
	coffee := testProduct("Coffee", "COF-1", 350, 1)
	productRepo := newFakeProductRepo(coffee)
	svc := newSaleService(productRepo, newFakeSaleRepo())
	ctx := sellerCtx(uuid.New())

	if _, err := svc.CreateSale(ctx, &CreateSaleInput{
		Items:         []SaleItemInput{{ProductID: coffee.ID, Quantity: 1}},
		PaymentMethod: enum.PaymentMethodCard,
	}); err != nil {
		t.Fatalf("first sale: %v", err)
	}

	p, _ := productRepo.GetByID(context.Background(), coffee.ID)
	if p.Quantity != 0 || p.Status != enum.ProductStatusOutOfStock {
		t.Errorf("product = qty %d status %v, want 0/out_of_stock", p.Quantity, p.Status)
	}

	// The unit is gone, a second sale must fail
	_, err := svc.CreateSale(ctx, &CreateSaleInput{
		Items:         []SaleItemInput{{ProductID: coffee.ID, Quantity: 1}},
		PaymentMethod: enum.PaymentMethodCard,
	})
	var stockErr *apperror.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("second sale err = %v, want InsufficientStockError", err)
	}
}

func TestCreateSaleCashValidation(t *testing.T) {
	coffee := testProduct("Coffee", "COF-1", 350, 10)
	productRepo := newFakeProductRepo(coffee)
	svc := newSaleService(productRepo, newFakeSaleRepo())
	ctx := sellerCtx(uuid.New())

	// Missing cash_received
	_, err := svc.CreateSale(ctx, &CreateSaleInput{
		Items:         []SaleItemInput{{ProductID: coffee.ID, Quantity: 1}},
		PaymentMethod: enum.PaymentMethodCash,
	})
	if err == nil {
		t.Error("expected error for cash sale without cash_received")
	}

	// Not enough cash: total is 4.20 (3.50 + 20% tax)
	short := 4.00
	_, err = svc.CreateSale(ctx, &CreateSaleInput{
		Items:         []SaleItemInput{{ProductID: coffee.ID, Quantity: 1}},
		PaymentMethod: enum.PaymentMethodCash,
		CashReceived:  &short,
	})
	if err == nil || !strings.Contains(err.Error(), "less than") {
		t.Errorf("err = %v, want cash-short rejection", err)
	}

	// Stock untouched by the failed attempts
	p, _ := productRepo.GetByID(context.Background(), coffee.ID)
	if p.Quantity != 10 {
		t.Errorf("quantity = %d, want 10", p.Quantity)
	}
}

func TestCreateSaleRejectsUnknownPaymentMethod(t *testing.T) {
	coffee := testProduct("Coffee", "COF-1", 350, 10)
	svc := newSaleService(newFakeProductRepo(coffee), newFakeSaleRepo())

	_, err := svc.CreateSale(sellerCtx(uuid.New()), &CreateSaleInput{
		Items:         []SaleItemInput{{ProductID: coffee.ID, Quantity: 1}},
		PaymentMethod: enum.PaymentMethod("crypto"),
	})
	if err == nil {
		t.Error("expected error for unknown payment method")
	}
}

func TestCreateSaleCompensatesDebitOnInsertFailure(t *testing.T) {
	coffee := testProduct("Coffee", "COF-1", 350, 10)
	productRepo := newFakeProductRepo(coffee)
	saleRepo := newFakeSaleRepo()
	saleRepo.createErr = errors.New("connection reset")
	svc := newSaleService(productRepo, saleRepo)

	_, err := svc.CreateSale(sellerCtx(uuid.New()), &CreateSaleInput{
		Items:         []SaleItemInput{{ProductID: coffee.ID, Quantity: 3}},
		PaymentMethod: enum.PaymentMethodCard,
	})
	if err == nil {
		t.Fatal("expected insert failure to surface")
	}

	// Debit was rolled back
	p, _ := productRepo.GetByID(context.Background(), coffee.ID)
	if p.Quantity != 10 {
		t.Errorf("quantity = %d, want compensated 10", p.Quantity)
	}
}

func TestRefundSaleOnce(t *testing.T) {
	coffee := testProduct("Coffee", "COF-1", 350, 10)
	productRepo := newFakeProductRepo(coffee)
	saleRepo := newFakeSaleRepo()
	svc := newSaleService(productRepo, saleRepo)
	ctx := sellerCtx(uuid.New())

	sale, err := svc.CreateSale(ctx, &CreateSaleInput{
		Items:         []SaleItemInput{{ProductID: coffee.ID, Quantity: 4}},
		PaymentMethod: enum.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	refunded, err := svc.RefundSale(ctx, sale.ID)
	if err != nil {
		t.Fatalf("RefundSale: %v", err)
	}
	if refunded.Status != enum.SaleStatusRefunded {
		t.Errorf("status = %v, want refunded", refunded.Status)
	}

	p, _ := productRepo.GetByID(context.Background(), coffee.ID)
	if p.Quantity != 10 {
		t.Errorf("quantity = %d, want restored 10", p.Quantity)
	}

	// Second refund must not credit stock again
	if _, err := svc.RefundSale(ctx, sale.ID); err == nil {
		t.Fatal("expected second refund to fail")
	}
	p, _ = productRepo.GetByID(context.Background(), coffee.ID)
	if p.Quantity != 10 {
		t.Errorf("quantity after double refund = %d, want 10", p.Quantity)
	}
}

func TestRefundSaleConcurrentCreditsOnce(t *testing.T) {
	coffee := testProduct("Coffee", "COF-1", 350, 5)
	productRepo := newFakeProductRepo(coffee)
	saleRepo := newFakeSaleRepo()
	svc := newSaleService(productRepo, saleRepo)
	ctx := sellerCtx(uuid.New())

	sale, err := svc.CreateSale(ctx, &CreateSaleInput{
		Items:         []SaleItemInput{{ProductID: coffee.ID, Quantity: 2}},
		PaymentMethod: enum.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RefundSale(ctx, sale.ID)
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Errorf("%d refunds succeeded, want exactly 1", succeeded)
	}

	p, _ := productRepo.GetByID(context.Background(), coffee.ID)
	if p.Quantity != 5 {
		t.Errorf("quantity = %d, want 5 (credited once)", p.Quantity)
	}
}

func TestCreateSaleConcurrentLastUnit(t *testing.T) {
	coffee := testProduct("Coffee", "COF-1", 350, 1)
	productRepo := newFakeProductRepo(coffee)
	svc := newSaleService(productRepo, newFakeSaleRepo())
	ctx := sellerCtx(uuid.New())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateSale(ctx, &CreateSaleInput{
				Items:         []SaleItemInput{{ProductID: coffee.ID, Quantity: 1}},
				PaymentMethod: enum.PaymentMethodCard,
			})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Errorf("%d sales of the last unit succeeded, want exactly 1", succeeded)
	}

	p, _ := productRepo.GetByID(context.Background(), coffee.ID)
	if p.Quantity != 0 {
		t.Errorf("quantity = %d, want 0", p.Quantity)
	}
	if p.Status != enum.ProductStatusOutOfStock {
		t.Errorf("status = %v, want out_of_stock", p.Status)
	}
}

func TestRefundSaleSkipsUntrackedLines(t *testing.T) {
	coffee := testProduct("Coffee", "COF-1", 350, 10)
	repair := testProduct("Repair service", "SRV-1", 2500, 0)
	repair.TrackInventory = false
	productRepo := newFakeProductRepo(coffee, repair)
	saleRepo := newFakeSaleRepo()
	svc := newSaleService(productRepo, saleRepo)
	ctx := sellerCtx(uuid.New())

	sale, err := svc.CreateSale(ctx, &CreateSaleInput{
		Items: []SaleItemInput{
			{ProductID: coffee.ID, Quantity: 2},
			{ProductID: repair.ID, Quantity: 1},
		},
		PaymentMethod: enum.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	if _, err := svc.RefundSale(ctx, sale.ID); err != nil {
		t.Fatalf("RefundSale: %v", err)
	}

	p, _ := productRepo.GetByID(context.Background(), coffee.ID)
	if p.Quantity != 10 {
		t.Errorf("coffee quantity = %d, want restored 10", p.Quantity)
	}
	// The untracked line was never debited, so it must not be credited either
	p, _ = productRepo.GetByID(context.Background(), repair.ID)
	if p.Quantity != 0 {
		t.Errorf("untracked quantity = %d, want untouched 0", p.Quantity)
	}
}

func TestCreateSaleInvalidatesDashboardCache(t *testing.T) {
	coffee := testProduct("Coffee", "COF-1", 350, 10)
	productRepo := newFakeProductRepo(coffee)
	dashCache := newFakeDashCache()
	svc := NewSaleService(newFakeSaleRepo(), productRepo, newFakeSellerRepo(), dashCache, 0.20, "EUR")
	sellerID := uuid.New()

	if _, err := svc.CreateSale(sellerCtx(sellerID), &CreateSaleInput{
		Items:         []SaleItemInput{{ProductID: coffee.ID, Quantity: 1}},
		PaymentMethod: enum.PaymentMethodCard,
	}); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	want := dashboardKey(sellerID)
	var found bool
	for _, key := range dashCache.invalidated {
		if key == want {
			found = true
		}
	}
	if !found {
		t.Errorf("dashboard key %q not invalidated (got %v)", want, dashCache.invalidated)
	}
}

func TestGetReceipt(t *testing.T) {
	coffee := testProduct("Coffee", "COF-1", 350, 10)
	productRepo := newFakeProductRepo(coffee)
	saleRepo := newFakeSaleRepo()
	sellerID := uuid.New()
	sellerRepo := newFakeSellerRepo(&entity.Seller{ID: sellerID, CompanyName: "Boulangerie Martin"})
	svc := NewSaleService(saleRepo, productRepo, sellerRepo, newFakeDashCache(), 0.20, "EUR")
	ctx := sellerCtx(sellerID)

	cash := 10.00
	name := "Alice"
	sale, err := svc.CreateSale(ctx, &CreateSaleInput{
		Items:         []SaleItemInput{{ProductID: coffee.ID, Quantity: 2}},
		PaymentMethod: enum.PaymentMethodCash,
		CashReceived:  &cash,
		CustomerName:  &name,
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	receipt, err := svc.GetReceipt(ctx, sale.ID)
	if err != nil {
		t.Fatalf("GetReceipt: %v", err)
	}
	if receipt.Header.CompanyName != "Boulangerie Martin" {
		t.Errorf("header = %q, want seller company", receipt.Header.CompanyName)
	}
	if receipt.Customer != "Alice" {
		t.Errorf("customer = %q, want Alice", receipt.Customer)
	}
	if len(receipt.Items) != 1 || receipt.Items[0].Quantity != 2 {
		t.Errorf("items = %+v, want one line of 2", receipt.Items)
	}
	if receipt.Total != 8.40 {
		t.Errorf("total = %v, want 8.40", receipt.Total)
	}
}
