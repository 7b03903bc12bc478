package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/entity"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	"github.com/renovia/pos-ledger-api/internal/domain/repository"
	infraRepo "github.com/renovia/pos-ledger-api/internal/infrastructure/repository"
	"github.com/renovia/pos-ledger-api/pkg/apperror"
)

// ProductService handles catalog and inventory operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name           string
	SKU            string
	Description    *string
	Price          float64
	Quantity       int
	QuantityAlert  int
	TrackInventory *bool
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	Name           *string
	Description    *string
	Price          *float64
	QuantityAlert  *int
	TrackInventory *bool
	Archived       *bool
}

// CreateProduct creates a catalog product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	sellerID, ok := infraRepo.GetSellerID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Seller context required")
	}
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Product name is required")
	}
	if input.SKU == "" {
		return nil, apperror.NewBadRequestError("Product SKU is required")
	}
	if input.Price < 0 {
		return nil, apperror.NewBadRequestError("Price cannot be negative")
	}
	if input.Quantity < 0 {
		return nil, apperror.NewBadRequestError("Quantity cannot be negative")
	}

	existing, err := s.productRepo.GetBySKU(ctx, input.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A product with this SKU already exists")
	}

	product := &entity.Product{
		SellerID:      sellerID,
		Name:          input.Name,
		SKU:           input.SKU,
		Description:   input.Description,
		Quantity:      input.Quantity,
		QuantityAlert: input.QuantityAlert,
		Status:        enum.ProductStatusActive,
	}
	product.SetPriceFromDecimal(input.Price)
	if input.TrackInventory != nil {
		product.TrackInventory = *input.TrackInventory
	} else {
		product.TrackInventory = true
	}
	if product.TrackInventory && product.Quantity == 0 {
		product.Status = enum.ProductStatusOutOfStock
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts returns products matching the filter
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return s.productRepo.List(ctx, params)
}

// UpdateProduct edits catalog fields. Stock is never set here — it only
// moves through sales, refunds, returns and explicit adjustments.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewBadRequestError("Product name is required")
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperror.NewBadRequestError("Price cannot be negative")
		}
		product.SetPriceFromDecimal(*input.Price)
	}
	if input.QuantityAlert != nil {
		product.QuantityAlert = *input.QuantityAlert
	}
	if input.TrackInventory != nil {
		product.TrackInventory = *input.TrackInventory
	}
	if input.Archived != nil {
		if *input.Archived {
			product.Status = enum.ProductStatusArchived
		} else if product.Status == enum.ProductStatusArchived {
			if product.TrackInventory && product.Quantity == 0 {
				product.Status = enum.ProductStatusOutOfStock
			} else {
				product.Status = enum.ProductStatusActive
			}
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct soft-deletes a product. Past sale lines keep their snapshots.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

// AdjustStock applies a manual stock correction (recount, breakage, intake).
// Debits go through the same conditional update as sales, so an adjustment
// can never drive stock negative.
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*entity.Product, error) {
	if delta == 0 {
		return nil, apperror.NewBadRequestError("Adjustment cannot be zero")
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if delta > 0 {
		if err := s.productRepo.CreditStock(ctx, id, delta); err != nil {
			return nil, err
		}
	} else {
		ok, err := s.productRepo.DebitStock(ctx, id, -delta)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperror.NewInsufficientStockError(product.ID, product.Name, -delta, product.Quantity)
		}
	}

	return s.productRepo.GetByID(ctx, id)
}

// GetLowStockProducts lists tracked products at or below their alert level
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}
