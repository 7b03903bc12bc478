package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/entity"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	"github.com/renovia/pos-ledger-api/internal/domain/repository"
	"github.com/renovia/pos-ledger-api/internal/infrastructure/cache"
	infraRepo "github.com/renovia/pos-ledger-api/internal/infrastructure/repository"
	"github.com/renovia/pos-ledger-api/pkg/apperror"
	"github.com/renovia/pos-ledger-api/pkg/docnum"
)

// ReturnService handles the return lifecycle: a return is created pending,
// an approval credits stock exactly once, a rejection leaves stock alone.
type ReturnService struct {
	returnRepo        repository.ReturnRepository
	saleRepo          repository.SaleRepository
	productRepo       repository.ProductRepository
	dashCache         cache.DashboardCache
	allowFreestanding bool
	defaultTaxRate    float64
}

// NewReturnService creates a new return service
func NewReturnService(
	returnRepo repository.ReturnRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	dashCache cache.DashboardCache,
	allowFreestanding bool,
	defaultTaxRate float64,
) *ReturnService {
	return &ReturnService{
		returnRepo:        returnRepo,
		saleRepo:          saleRepo,
		productRepo:       productRepo,
		dashCache:         dashCache,
		allowFreestanding: allowFreestanding,
		defaultTaxRate:    defaultTaxRate,
	}
}

// ReturnItemInput represents one returned line. UnitPrice, when set,
// overrides the sale-snapshot or catalog price for that line.
type ReturnItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice *float64
	Reason    string
}

// CreateReturnInput represents the create return input
type CreateReturnInput struct {
	SaleID        *uuid.UUID
	Resolution    enum.ReturnResolution
	Items         []ReturnItemInput
	CustomerName  *string
	CustomerEmail *string
}

// CreateReturn records a pending return. When the return references a sale,
// every line must belong to that sale and quantities may not exceed what was
// sold; prices are snapshotted from the sale. Freestanding returns price from
// the current catalog and can be disabled by configuration.
func (s *ReturnService) CreateReturn(ctx context.Context, input *CreateReturnInput) (*entity.ProductReturn, error) {
	sellerID, ok := infraRepo.GetSellerID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Seller context required")
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Return requires at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be positive")
		}
		if item.UnitPrice != nil && *item.UnitPrice < 0 {
			return nil, apperror.NewBadRequestError("Item price cannot be negative")
		}
	}

	var returnItems []entity.ReturnItem
	var subTotal int64
	taxRate := s.defaultTaxRate

	if input.SaleID != nil {
		sale, err := s.saleRepo.GetWithItems(ctx, *input.SaleID)
		if err != nil {
			return nil, err
		}
		if sale == nil {
			return nil, apperror.NewNotFoundError("Sale")
		}
		if sale.Status == enum.SaleStatusRefunded {
			return nil, apperror.NewConflictError("Sale has already been refunded in full")
		}
		taxRate = sale.TaxRate

		// Index what the sale actually contained
		sold := make(map[uuid.UUID]*entity.SaleItem, len(sale.Items))
		for i := range sale.Items {
			sold[sale.Items[i].ProductID] = &sale.Items[i]
		}

		for _, item := range input.Items {
			saleItem, exists := sold[item.ProductID]
			if !exists {
				return nil, apperror.NewBadRequestError(
					fmt.Sprintf("Product %s is not part of sale %s", item.ProductID, sale.SaleNumber))
			}
			if item.Quantity > saleItem.Quantity {
				return nil, apperror.NewBadRequestError(fmt.Sprintf(
					"Cannot return %d of %s, only %d were sold",
					item.Quantity, saleItem.ProductName, saleItem.Quantity))
			}

			unitPrice := saleItem.UnitPrice
			if item.UnitPrice != nil {
				unitPrice = int64(*item.UnitPrice*100 + 0.5)
			}
			lineTotal := unitPrice * int64(item.Quantity)
			subTotal += lineTotal
			returnItems = append(returnItems, entity.ReturnItem{
				ProductID:   item.ProductID,
				ProductName: saleItem.ProductName,
				ProductSKU:  saleItem.ProductSKU,
				Quantity:    item.Quantity,
				UnitPrice:   unitPrice,
				Total:       lineTotal,
				Reason:      item.Reason,
			})
		}
	} else {
		if !s.allowFreestanding {
			return nil, apperror.NewBadRequestError("Returns must reference a sale")
		}

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

		for _, item := range input.Items {
			product, exists := productMap[item.ProductID]
			if !exists {
				return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
			}

			unitPrice := product.Price
			if item.UnitPrice != nil {
				unitPrice = int64(*item.UnitPrice*100 + 0.5)
			}
			lineTotal := unitPrice * int64(item.Quantity)
			subTotal += lineTotal
			returnItems = append(returnItems, entity.ReturnItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				ProductSKU:  product.SKU,
				Quantity:    item.Quantity,
				UnitPrice:   unitPrice,
				Total:       lineTotal,
				Reason:      item.Reason,
			})
		}
	}

	tax := int64(float64(subTotal)*taxRate + 0.5)
	total := subTotal + tax

	ret := &entity.ProductReturn{
		ReturnNumber:  docnum.New(docnum.PrefixReturn),
		SellerID:      sellerID,
		SaleID:        input.SaleID,
		Resolution:    input.Resolution,
		Status:        enum.ReturnStatusPending,
		SubTotal:      subTotal,
		Tax:           tax,
		TaxRate:       taxRate,
		Total:         total,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		Items:         returnItems,
	}

	if input.Resolution == enum.ReturnResolutionCredit {
		ret.CreditAmount = total
	}

	if err := s.returnRepo.Create(ctx, ret); err != nil {
		return nil, err
	}
	_ = s.dashCache.Invalidate(ctx, dashboardKey(sellerID))
	return ret, nil
}

// GetReturn retrieves a return with its items
func (s *ReturnService) GetReturn(ctx context.Context, id uuid.UUID) (*entity.ProductReturn, error) {
	ret, err := s.returnRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, apperror.NewNotFoundError("Return")
	}
	return ret, nil
}

// ListReturns returns returns matching the filter
func (s *ReturnService) ListReturns(ctx context.Context, params *repository.ReturnFilterParams) ([]entity.ProductReturn, int64, error) {
	return s.returnRepo.List(ctx, params)
}

// ApproveReturn transitions a pending return to approved and credits stock
// back for every tracked line. The transition is a compare-and-swap, so two
// concurrent approvals can never credit stock twice.
func (s *ReturnService) ApproveReturn(ctx context.Context, id uuid.UUID) (*entity.ProductReturn, error) {
	ret, err := s.returnRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, apperror.NewNotFoundError("Return")
	}

	won, err := s.returnRepo.UpdateStatusFrom(ctx, id, enum.ReturnStatusPending, enum.ReturnStatusApproved)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apperror.NewConflictError("Return is not pending")
	}

	quantities := make(map[uuid.UUID]int, len(ret.Items))
	for _, item := range ret.Items {
		quantities[item.ProductID] += item.Quantity
	}
	credits, err := trackedCredits(ctx, s.productRepo, quantities)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.CreditStockBatch(ctx, credits); err != nil {
		return nil, err
	}
	_ = s.dashCache.Invalidate(ctx, dashboardKey(ret.SellerID))

	return s.returnRepo.GetWithItems(ctx, id)
}

// RejectReturn transitions a pending return to rejected. Stock is untouched.
func (s *ReturnService) RejectReturn(ctx context.Context, id uuid.UUID) (*entity.ProductReturn, error) {
	won, err := s.returnRepo.UpdateStatusFrom(ctx, id, enum.ReturnStatusPending, enum.ReturnStatusRejected)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apperror.NewConflictError("Return is not pending")
	}
	ret, err := s.returnRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if ret != nil {
		_ = s.dashCache.Invalidate(ctx, dashboardKey(ret.SellerID))
	}
	return ret, nil
}

// CompleteReturn closes an approved return once the refund, exchange or
// credit has been handed to the customer.
func (s *ReturnService) CompleteReturn(ctx context.Context, id uuid.UUID) (*entity.ProductReturn, error) {
	won, err := s.returnRepo.UpdateStatusFrom(ctx, id, enum.ReturnStatusApproved, enum.ReturnStatusCompleted)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apperror.NewConflictError("Return is not approved")
	}
	return s.returnRepo.GetWithItems(ctx, id)
}
