package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/entity"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	"github.com/renovia/pos-ledger-api/internal/domain/repository"
	"github.com/renovia/pos-ledger-api/internal/infrastructure/cache"
	infraRepo "github.com/renovia/pos-ledger-api/internal/infrastructure/repository"
	"github.com/renovia/pos-ledger-api/pkg/apperror"
	"github.com/renovia/pos-ledger-api/pkg/docnum"
)

// SaleService handles point-of-sale transactions: recording sales with an
// atomic stock debit, refunds, and receipt rendering.
type SaleService struct {
	saleRepo       repository.SaleRepository
	productRepo    repository.ProductRepository
	sellerRepo     repository.SellerRepository
	dashCache      cache.DashboardCache
	defaultTaxRate float64
	currency       string
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	sellerRepo repository.SellerRepository,
	dashCache cache.DashboardCache,
	defaultTaxRate float64,
	currency string,
) *SaleService {
	return &SaleService{
		saleRepo:       saleRepo,
		productRepo:    productRepo,
		sellerRepo:     sellerRepo,
		dashCache:      dashCache,
		defaultTaxRate: defaultTaxRate,
		currency:       currency,
	}
}

// SaleItemInput represents one basket line. Price always comes from the
// catalog, never from the client.
type SaleItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateSaleInput represents the create sale input
type CreateSaleInput struct {
	Items         []SaleItemInput
	PaymentMethod enum.PaymentMethod
	CashReceived  *float64
	CardReference *string
	Discount      float64
	TaxRate       *float64
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
}

// CreateSale records a sale: it prices the basket from the catalog, debits
// stock atomically for every tracked line (all or nothing), and persists the
// sale with snapshot line items. Stock is debited before the insert; if the
// insert fails the debit is compensated.
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	sellerID, ok := infraRepo.GetSellerID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Seller context required")
	}

	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Sale requires at least one item")
	}
	if !input.PaymentMethod.Valid() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown payment method: %s", input.PaymentMethod))
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be positive")
		}
	}
	if input.Discount < 0 {
		return nil, apperror.NewBadRequestError("Discount cannot be negative")
	}

	taxRate := s.defaultTaxRate
	if input.TaxRate != nil {
		if *input.TaxRate < 0 || *input.TaxRate > 1 {
			return nil, apperror.NewBadRequestError("Tax rate must be between 0 and 1")
		}
		taxRate = *input.TaxRate
	}

	// Batch fetch all products in one query (prevents N+1)
	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	var subTotal int64
	saleItems := make([]entity.SaleItem, 0, len(input.Items))
	debits := make(map[uuid.UUID]int)
	soldCounts := make(map[uuid.UUID]int)

	for _, item := range input.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if product.Status == enum.ProductStatusArchived {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Product %s is archived", product.Name))
		}

		lineTotal := product.Price * int64(item.Quantity)
		subTotal += lineTotal

		saleItems = append(saleItems, entity.SaleItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			Total:       lineTotal,
		})

		if product.TrackInventory {
			debits[product.ID] += item.Quantity
		}
		soldCounts[product.ID] += item.Quantity
	}

	discount := int64(input.Discount*100 + 0.5)
	if discount > subTotal {
		return nil, apperror.NewBadRequestError("Discount exceeds sale subtotal")
	}

	// Tax is levied on the undiscounted subtotal
	tax := int64(float64(subTotal)*taxRate + 0.5)
	total := subTotal + tax - discount

	var cashReceived, changeGiven *int64
	if input.PaymentMethod == enum.PaymentMethodCash {
		if input.CashReceived == nil {
			return nil, apperror.NewBadRequestError("Cash payments require cash_received")
		}
		received := int64(*input.CashReceived*100 + 0.5)
		if received < total {
			return nil, apperror.NewBadRequestError("Cash received is less than the total")
		}
		change := received - total
		cashReceived = &received
		changeGiven = &change
	}

	// Debit all tracked lines in one transaction; any shortage aborts the sale
	failedIDs, err := s.productRepo.DebitStockBatch(ctx, debits)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		failed := productMap[failedIDs[0]]
		return nil, apperror.NewInsufficientStockError(
			failed.ID, failed.Name, debits[failed.ID], failed.Quantity)
	}

	sale := &entity.Sale{
		SaleNumber:    docnum.New(docnum.PrefixSale),
		SellerID:      sellerID,
		Status:        enum.SaleStatusCompleted,
		SubTotal:      subTotal,
		Tax:           tax,
		TaxRate:       taxRate,
		Discount:      discount,
		Total:         total,
		Currency:      s.currency,
		PaymentMethod: input.PaymentMethod,
		CashReceived:  cashReceived,
		ChangeGiven:   changeGiven,
		CardReference: input.CardReference,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		Items:         saleItems,
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		// Compensate the debit so stock is not lost with the failed sale
		if creditErr := s.productRepo.CreditStockBatch(ctx, debits); creditErr != nil {
			return nil, fmt.Errorf("sale insert failed (%w), stock compensation also failed: %v", err, creditErr)
		}
		return nil, err
	}

	// Counter bump and cache drop are best effort, the sale is already durable
	_ = s.productRepo.IncrementSalesCount(ctx, soldCounts)
	_ = s.dashCache.Invalidate(ctx, dashboardKey(sellerID))

	return sale, nil
}

// GetSale retrieves a sale with its items
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales returns sales matching the filter
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	return s.saleRepo.List(ctx, params)
}

// trackedCredits filters line quantities down to products that still track
// inventory, so refunds and approvals never inflate untracked stock.
func trackedCredits(ctx context.Context, productRepo repository.ProductRepository, quantities map[uuid.UUID]int) (map[uuid.UUID]int, error) {
	ids := make([]uuid.UUID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	products, err := productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	credits := make(map[uuid.UUID]int, len(products))
	for i := range products {
		if products[i].TrackInventory {
			credits[products[i].ID] = quantities[products[i].ID]
		}
	}
	return credits, nil
}

// RefundSale marks a completed sale refunded and credits the stock of every
// tracked line back. The transition is a compare-and-swap, so two concurrent
// refunds can never credit stock twice.
func (s *SaleService) RefundSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	quantities := make(map[uuid.UUID]int, len(sale.Items))
	for _, item := range sale.Items {
		quantities[item.ProductID] += item.Quantity
	}
	credits, err := trackedCredits(ctx, s.productRepo, quantities)
	if err != nil {
		return nil, err
	}

	won, err := s.saleRepo.UpdateStatusFrom(ctx, id, enum.SaleStatusCompleted, enum.SaleStatusRefunded)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apperror.NewConflictError("Sale has already been refunded")
	}

	if err := s.productRepo.CreditStockBatch(ctx, credits); err != nil {
		// Roll the status back so the refund stays retryable
		_, _ = s.saleRepo.UpdateStatusFrom(ctx, id, enum.SaleStatusRefunded, enum.SaleStatusCompleted)
		return nil, err
	}

	sale.Status = enum.SaleStatusRefunded
	_ = s.dashCache.Invalidate(ctx, dashboardKey(sale.SellerID))
	return sale, nil
}

// GetReceipt composes a printable receipt for a sale.
func (s *SaleService) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	header := entity.ReceiptHeader{}
	if seller, err := s.sellerRepo.GetByID(ctx, sale.SellerID); err == nil && seller != nil {
		header.CompanyName = seller.CompanyName
		if seller.Address != nil {
			header.Address = *seller.Address
		}
		if seller.TaxID != nil {
			header.TaxID = *seller.TaxID
		}
	}

	receipt := &entity.Receipt{
		Header:        header,
		SaleNumber:    sale.SaleNumber,
		Date:          sale.CreatedAt.Format(time.RFC3339),
		PaymentMethod: string(sale.PaymentMethod),
		SubTotal:      float64(sale.SubTotal) / 100,
		Tax:           float64(sale.Tax) / 100,
		Discount:      float64(sale.Discount) / 100,
		Total:         float64(sale.Total) / 100,
		Currency:      sale.Currency,
	}
	if sale.CustomerName != nil {
		receipt.Customer = *sale.CustomerName
	}
	if sale.CashReceived != nil {
		receipt.CashReceived = float64(*sale.CashReceived) / 100
	}
	if sale.ChangeGiven != nil {
		receipt.ChangeGiven = float64(*sale.ChangeGiven) / 100
	}

	for _, item := range sale.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      item.ProductName,
			SKU:       item.ProductSKU,
			Quantity:  item.Quantity,
			UnitPrice: float64(item.UnitPrice) / 100,
			Total:     float64(item.Total) / 100,
		})
	}

	return receipt, nil
}
