package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
)

func setupReturnTest(t *testing.T, allowFreestanding bool) (*ReturnService, *SaleService, *fakeProductRepo) {
	t.Helper()
	coffee := testProduct("Coffee", "COF-1", 350, 10)
	croissant := testProduct("Croissant", "CRO-1", 120, 10)
	productRepo := newFakeProductRepo(coffee, croissant)
	saleRepo := newFakeSaleRepo()
	returnRepo := newFakeReturnRepo()
	saleSvc := newSaleService(productRepo, saleRepo)
	returnSvc := NewReturnService(returnRepo, saleRepo, productRepo, newFakeDashCache(), allowFreestanding, 0.20)
	return returnSvc, saleSvc, productRepo
}

func (r *fakeProductRepo) byName(name string) *uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.products {
		if p.Name == name {
			cp := id
			return &cp
		}
	}
	return nil
}

func TestCreateReturnAgainstSale(t *testing.T) {
	returnSvc, saleSvc, productRepo := setupReturnTest(t, true)
	ctx := sellerCtx(uuid.New())
	coffeeID := *productRepo.byName("Coffee")

	sale, err := saleSvc.CreateSale(ctx, &CreateSaleInput{
		Items:         []SaleItemInput{{ProductID: coffeeID, Quantity: 3}},
		PaymentMethod: enum.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	ret, err := returnSvc.CreateReturn(ctx, &CreateReturnInput{
		SaleID:     &sale.ID,
		Resolution: enum.ReturnResolutionRefund,
		Items:      []ReturnItemInput{{ProductID: coffeeID, Quantity: 2, Reason: "damaged"}},
	})
	if err != nil {
		t.Fatalf("CreateReturn: %v", err)
	}

	if ret.Status != enum.ReturnStatusPending {
		t.Errorf("status = %v, want pending", ret.Status)
	}
	// Sale price snapshot, not the current catalog price
	if ret.Items[0].UnitPrice != 350 {
		t.Errorf("UnitPrice = %d, want sale snapshot 350", ret.Items[0].UnitPrice)
	}
	if ret.SubTotal != 700 {
		t.Errorf("SubTotal = %d, want 700", ret.SubTotal)
	}

	// Pending returns never touch stock
	p, _ := productRepo.GetByID(context.Background(), coffeeID)
	if p.Quantity != 7 {
		t.Errorf("quantity = %d, want 7 (sale debit only)", p.Quantity)
	}
}

func TestCreateReturnRejectsOverReturn(t *testing.T) {
	returnSvc, saleSvc, productRepo := setupReturnTest(t, true)
	ctx := sellerCtx(uuid.New())
	coffeeID := *productRepo.byName("Coffee")

	sale, err := saleSvc.CreateSale(ctx, &CreateSaleInput{
		Items:         []SaleItemInput{{ProductID: coffeeID, Quantity: 2}},
		PaymentMethod: enum.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	// More than was sold
	if _, err := returnSvc.CreateReturn(ctx, &CreateReturnInput{
		SaleID:     &sale.ID,
		Resolution: enum.ReturnResolutionRefund,
		Items:      []ReturnItemInput{{ProductID: coffeeID, Quantity: 3}},
	}); err == nil {
		t.Error("expected over-return to be rejected")
	}

	// A product not on the sale
	croissantID := *productRepo.byName("Croissant")
	if _, err := returnSvc.CreateReturn(ctx, &CreateReturnInput{
		SaleID:     &sale.ID,
		Resolution: enum.ReturnResolutionRefund,
		Items:      []ReturnItemInput{{ProductID: croissantID, Quantity: 1}},
	}); err == nil {
		t.Error("expected foreign-product return to be rejected")
	}
}

func TestCreateReturnRejectsRefundedSale(t *testing.T) {
	returnSvc, saleSvc, productRepo := setupReturnTest(t, true)
	ctx := sellerCtx(uuid.New())
	coffeeID := *productRepo.byName("Coffee")

	sale, err := saleSvc.CreateSale(ctx, &CreateSaleInput{
		Items:         []SaleItemInput{{ProductID: coffeeID, Quantity: 2}},
		PaymentMethod: enum.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if _, err := saleSvc.RefundSale(ctx, sale.ID); err != nil {
		t.Fatalf("RefundSale: %v", err)
	}

	// A fully refunded sale already credited its stock back
	if _, err := returnSvc.CreateReturn(ctx, &CreateReturnInput{
		SaleID:     &sale.ID,
		Resolution: enum.ReturnResolutionRefund,
		Items:      []ReturnItemInput{{ProductID: coffeeID, Quantity: 1}},
	}); err == nil {
		t.Error("expected return against a refunded sale to be rejected")
	}
}

func TestCreateReturnFreestandingToggle(t *testing.T) {
	ctx := sellerCtx(uuid.New())

	allowed, _, productRepo := setupReturnTest(t, true)
	coffeeID := *productRepo.byName("Coffee")
	if _, err := allowed.CreateReturn(ctx, &CreateReturnInput{
		Resolution: enum.ReturnResolutionCredit,
		Items:      []ReturnItemInput{{ProductID: coffeeID, Quantity: 1}},
	}); err != nil {
		t.Errorf("freestanding return should be accepted: %v", err)
	}

	forbidden, _, productRepo2 := setupReturnTest(t, false)
	coffeeID2 := *productRepo2.byName("Coffee")
	if _, err := forbidden.CreateReturn(ctx, &CreateReturnInput{
		Resolution: enum.ReturnResolutionCredit,
		Items:      []ReturnItemInput{{ProductID: coffeeID2, Quantity: 1}},
	}); err == nil {
		t.Error("freestanding return should be rejected when disabled")
	}
}

func TestCreateReturnCreditResolutionSetsCreditAmount(t *testing.T) {
	returnSvc, _, productRepo := setupReturnTest(t, true)
	ctx := sellerCtx(uuid.New())
	coffeeID := *productRepo.byName("Coffee")

	ret, err := returnSvc.CreateReturn(ctx, &CreateReturnInput{
		Resolution: enum.ReturnResolutionCredit,
		Items:      []ReturnItemInput{{ProductID: coffeeID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateReturn: %v", err)
	}
	// 350 + 20% tax
	if ret.CreditAmount != 420 {
		t.Errorf("CreditAmount = %d, want 420", ret.CreditAmount)
	}
}

func TestApproveReturnCreditsStockOnce(t *testing.T) {
	returnSvc, _, productRepo := setupReturnTest(t, true)
	ctx := sellerCtx(uuid.New())
	coffeeID := *productRepo.byName("Coffee")

	ret, err := returnSvc.CreateReturn(ctx, &CreateReturnInput{
		Resolution: enum.ReturnResolutionRefund,
		Items:      []ReturnItemInput{{ProductID: coffeeID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateReturn: %v", err)
	}

	approved, err := returnSvc.ApproveReturn(ctx, ret.ID)
	if err != nil {
		t.Fatalf("ApproveReturn: %v", err)
	}
	if approved.Status != enum.ReturnStatusApproved {
		t.Errorf("status = %v, want approved", approved.Status)
	}
	if approved.ApprovedAt == nil {
		t.Error("ApprovedAt not set")
	}

	p, _ := productRepo.GetByID(context.Background(), coffeeID)
	if p.Quantity != 12 {
		t.Errorf("quantity = %d, want 12", p.Quantity)
	}

	// A second approval loses the compare-and-swap and credits nothing
	if _, err := returnSvc.ApproveReturn(ctx, ret.ID); err == nil {
		t.Fatal("expected second approval to fail")
	}
	p, _ = productRepo.GetByID(context.Background(), coffeeID)
	if p.Quantity != 12 {
		t.Errorf("quantity after double approve = %d, want 12", p.Quantity)
	}
}

func TestRejectReturnLeavesStockAlone(t *testing.T) {
	returnSvc, _, productRepo := setupReturnTest(t, true)
	ctx := sellerCtx(uuid.New())
	coffeeID := *productRepo.byName("Coffee")

	ret, err := returnSvc.CreateReturn(ctx, &CreateReturnInput{
		Resolution: enum.ReturnResolutionRefund,
		Items:      []ReturnItemInput{{ProductID: coffeeID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateReturn: %v", err)
	}

	rejected, err := returnSvc.RejectReturn(ctx, ret.ID)
	if err != nil {
		t.Fatalf("RejectReturn: %v", err)
	}
	if rejected.Status != enum.ReturnStatusRejected {
		t.Errorf("status = %v, want rejected", rejected.Status)
	}

	p, _ := productRepo.GetByID(context.Background(), coffeeID)
	if p.Quantity != 10 {
		t.Errorf("quantity = %d, want untouched 10", p.Quantity)
	}

	// A rejected return cannot be approved later
	if _, err := returnSvc.ApproveReturn(ctx, ret.ID); err == nil {
		t.Error("expected approval of rejected return to fail")
	}
}

func TestCompleteReturnRequiresApproval(t *testing.T) {
	returnSvc, _, productRepo := setupReturnTest(t, true)
	ctx := sellerCtx(uuid.New())
	coffeeID := *productRepo.byName("Coffee")

	ret, err := returnSvc.CreateReturn(ctx, &CreateReturnInput{
		Resolution: enum.ReturnResolutionExchange,
		Items:      []ReturnItemInput{{ProductID: coffeeID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateReturn: %v", err)
	}

	if _, err := returnSvc.CompleteReturn(ctx, ret.ID); err == nil {
		t.Error("expected completing a pending return to fail")
	}

	if _, err := returnSvc.ApproveReturn(ctx, ret.ID); err != nil {
		t.Fatalf("ApproveReturn: %v", err)
	}
	completed, err := returnSvc.CompleteReturn(ctx, ret.ID)
	if err != nil {
		t.Fatalf("CompleteReturn: %v", err)
	}
	if completed.Status != enum.ReturnStatusCompleted {
		t.Errorf("status = %v, want completed", completed.Status)
	}
}

func TestApproveReturnSkipsUntrackedProducts(t *testing.T) {
	repair := testProduct("Repair service", "SRV-1", 2500, 0)
	repair.TrackInventory = false
	productRepo := newFakeProductRepo(testProduct("Coffee", "COF-1", 350, 10), repair)
	returnSvc := NewReturnService(newFakeReturnRepo(), newFakeSaleRepo(), productRepo, newFakeDashCache(), true, 0.20)
	ctx := sellerCtx(uuid.New())
	coffeeID := *productRepo.byName("Coffee")

	ret, err := returnSvc.CreateReturn(ctx, &CreateReturnInput{
		Resolution: enum.ReturnResolutionRefund,
		Items: []ReturnItemInput{
			{ProductID: coffeeID, Quantity: 2},
			{ProductID: repair.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateReturn: %v", err)
	}
	if _, err := returnSvc.ApproveReturn(ctx, ret.ID); err != nil {
		t.Fatalf("ApproveReturn: %v", err)
	}

	p, _ := productRepo.GetByID(context.Background(), coffeeID)
	if p.Quantity != 12 {
		t.Errorf("tracked quantity = %d, want 12", p.Quantity)
	}
	p, _ = productRepo.GetByID(context.Background(), repair.ID)
	if p.Quantity != 0 {
		t.Errorf("untracked quantity = %d, want untouched 0", p.Quantity)
	}
}

func TestCreateReturnUnitPriceOverride(t *testing.T) {
	returnSvc, saleSvc, productRepo := setupReturnTest(t, true)
	ctx := sellerCtx(uuid.New())
	coffeeID := *productRepo.byName("Coffee")

	sale, err := saleSvc.CreateSale(ctx, &CreateSaleInput{
		Items:         []SaleItemInput{{ProductID: coffeeID, Quantity: 2}},
		PaymentMethod: enum.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	// Goodwill refund at 2.00 instead of the 3.50 sale price
	override := 2.00
	ret, err := returnSvc.CreateReturn(ctx, &CreateReturnInput{
		SaleID:     &sale.ID,
		Resolution: enum.ReturnResolutionRefund,
		Items:      []ReturnItemInput{{ProductID: coffeeID, Quantity: 2, UnitPrice: &override}},
	})
	if err != nil {
		t.Fatalf("CreateReturn: %v", err)
	}
	if ret.Items[0].UnitPrice != 200 {
		t.Errorf("UnitPrice = %d, want override 200", ret.Items[0].UnitPrice)
	}
	if ret.SubTotal != 400 {
		t.Errorf("SubTotal = %d, want 400", ret.SubTotal)
	}

	negative := -1.00
	if _, err := returnSvc.CreateReturn(ctx, &CreateReturnInput{
		SaleID:     &sale.ID,
		Resolution: enum.ReturnResolutionRefund,
		Items:      []ReturnItemInput{{ProductID: coffeeID, Quantity: 1, UnitPrice: &negative}},
	}); err == nil {
		t.Error("expected negative price override to be rejected")
	}
}

func TestApproveReturnInvalidatesDashboardCache(t *testing.T) {
	productRepo := newFakeProductRepo(testProduct("Coffee", "COF-1", 350, 10))
	dashCache := newFakeDashCache()
	returnSvc := NewReturnService(newFakeReturnRepo(), newFakeSaleRepo(), productRepo, dashCache, true, 0.20)
	sellerID := uuid.New()
	ctx := sellerCtx(sellerID)
	coffeeID := *productRepo.byName("Coffee")

	ret, err := returnSvc.CreateReturn(ctx, &CreateReturnInput{
		Resolution: enum.ReturnResolutionRefund,
		Items:      []ReturnItemInput{{ProductID: coffeeID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateReturn: %v", err)
	}
	if _, err := returnSvc.ApproveReturn(ctx, ret.ID); err != nil {
		t.Fatalf("ApproveReturn: %v", err)
	}

	want := dashboardKey(sellerID)
	var hits int
	for _, key := range dashCache.invalidated {
		if key == want {
			hits++
		}
	}
	// Once for the create, once for the approval
	if hits < 2 {
		t.Errorf("dashboard key %q invalidated %d times, want at least 2", want, hits)
	}
}
