package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/domain/entity"
	"github.com/renovia/pos-ledger-api/internal/domain/enum"
	"github.com/renovia/pos-ledger-api/internal/domain/repository"
	infraRepo "github.com/renovia/pos-ledger-api/internal/infrastructure/repository"
	"github.com/renovia/pos-ledger-api/pkg/apperror"
	"github.com/renovia/pos-ledger-api/pkg/docnum"
)

// InvoiceService handles formal invoices. Numbers are sequential per seller
// and year — FAC-<year>-<6 digits> — and come from the atomic document
// sequence, so they have no gaps from races and never repeat.
type InvoiceService struct {
	invoiceRepo    repository.InvoiceRepository
	saleRepo       repository.SaleRepository
	sellerRepo     repository.SellerRepository
	sequenceRepo   repository.SequenceRepository
	defaultTaxRate float64
	currency       string
	dueDays        int
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	saleRepo repository.SaleRepository,
	sellerRepo repository.SellerRepository,
	sequenceRepo repository.SequenceRepository,
	defaultTaxRate float64,
	currency string,
	dueDays int,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:    invoiceRepo,
		saleRepo:       saleRepo,
		sellerRepo:     sellerRepo,
		sequenceRepo:   sequenceRepo,
		defaultTaxRate: defaultTaxRate,
		currency:       currency,
		dueDays:        dueDays,
	}
}

// InvoiceItemInput represents one invoice line
type InvoiceItemInput struct {
	ProductID   *uuid.UUID
	Description string
	SKU         string
	Quantity    int
	UnitPrice   float64
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	SaleID          *uuid.UUID
	Items           []InvoiceItemInput
	CustomerName    string
	CustomerEmail   *string
	CustomerAddress *string
	PaymentMethod   enum.PaymentMethod
	Discount        float64
	TaxRate         *float64
	Notes           *string
}

// UpdateInvoiceInput represents the update invoice input. Only drafts accept
// content changes.
type UpdateInvoiceInput struct {
	Items           []InvoiceItemInput
	CustomerName    *string
	CustomerEmail   *string
	CustomerAddress *string
	Discount        *float64
	Notes           *string
}

func buildInvoiceItems(inputs []InvoiceItemInput) ([]entity.InvoiceItem, int64, error) {
	var subTotal int64
	items := make([]entity.InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity <= 0 {
			return nil, 0, apperror.NewBadRequestError("Item quantity must be positive")
		}
		if in.UnitPrice < 0 {
			return nil, 0, apperror.NewBadRequestError("Item price cannot be negative")
		}
		if in.Description == "" {
			return nil, 0, apperror.NewBadRequestError("Item description is required")
		}

		unitPrice := int64(in.UnitPrice*100 + 0.5)
		lineTotal := unitPrice * int64(in.Quantity)
		subTotal += lineTotal

		items = append(items, entity.InvoiceItem{
			ProductID:   in.ProductID,
			Description: in.Description,
			ProductSKU:  in.SKU,
			Quantity:    in.Quantity,
			UnitPrice:   unitPrice,
			Total:       lineTotal,
		})
	}
	return items, subTotal, nil
}

// CreateInvoice creates a draft invoice, either freestanding from explicit
// line items or derived from an existing sale. The seller's company details
// are snapshotted into the invoice header.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	sellerID, ok := infraRepo.GetSellerID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Seller context required")
	}
	if input.CustomerName == "" {
		return nil, apperror.NewBadRequestError("Customer name is required")
	}
	if !input.PaymentMethod.Valid() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown payment method: %s", input.PaymentMethod))
	}

	seller, err := s.sellerRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, apperror.NewNotFoundError("Seller")
	}

	taxRate := s.defaultTaxRate
	if input.TaxRate != nil {
		if *input.TaxRate < 0 || *input.TaxRate > 1 {
			return nil, apperror.NewBadRequestError("Tax rate must be between 0 and 1")
		}
		taxRate = *input.TaxRate
	}

	var items []entity.InvoiceItem
	var subTotal int64
	discount := int64(input.Discount*100 + 0.5)

	if input.SaleID != nil {
		sale, err := s.saleRepo.GetWithItems(ctx, *input.SaleID)
		if err != nil {
			return nil, err
		}
		if sale == nil {
			return nil, apperror.NewNotFoundError("Sale")
		}
		if sale.Status != enum.SaleStatusCompleted {
			return nil, apperror.NewConflictError("Only completed sales can be invoiced")
		}

		// Carry the sale's figures over verbatim
		taxRate = sale.TaxRate
		subTotal = sale.SubTotal
		discount = sale.Discount
		for _, si := range sale.Items {
			productID := si.ProductID
			items = append(items, entity.InvoiceItem{
				ProductID:   &productID,
				Description: si.ProductName,
				ProductSKU:  si.ProductSKU,
				Quantity:    si.Quantity,
				UnitPrice:   si.UnitPrice,
				Total:       si.Total,
			})
		}
	} else {
		if len(input.Items) == 0 {
			return nil, apperror.NewBadRequestError("Invoice requires at least one item")
		}
		items, subTotal, err = buildInvoiceItems(input.Items)
		if err != nil {
			return nil, err
		}
	}

	if discount < 0 {
		return nil, apperror.NewBadRequestError("Discount cannot be negative")
	}
	if discount > subTotal {
		return nil, apperror.NewBadRequestError("Discount exceeds invoice subtotal")
	}

	// Tax is levied on the undiscounted subtotal
	tax := int64(float64(subTotal)*taxRate + 0.5)
	total := subTotal + tax - discount

	now := time.Now()
	period := docnum.InvoicePeriod(now)
	seq, err := s.sequenceRepo.Next(ctx, sellerID, entity.SequenceScopeInvoice, period)
	if err != nil {
		return nil, err
	}

	dueDate := now.AddDate(0, 0, s.dueDays)
	invoice := &entity.Invoice{
		InvoiceNumber:   docnum.FormatInvoice(now.Year(), seq),
		SequenceNo:      seq,
		SellerID:        sellerID,
		SaleID:          input.SaleID,
		Status:          enum.InvoiceStatusDraft,
		SubTotal:        subTotal,
		Tax:             tax,
		TaxRate:         taxRate,
		Discount:        discount,
		Total:           total,
		Currency:        s.currency,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerAddress: input.CustomerAddress,
		CompanyName:     seller.CompanyName,
		CompanyAddress:  seller.Address,
		CompanyTaxID:    seller.TaxID,
		PaymentMethod:   input.PaymentMethod,
		DueDate:         &dueDate,
		Notes:           input.Notes,
		Items:           items,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// markOverdue flips a sent invoice past its due date to overdue. Detection
// happens on read, so no clock-driven job is needed.
func markOverdue(invoice *entity.Invoice, now time.Time) {
	if invoice.Status == enum.InvoiceStatusSent && invoice.Overdue(now) {
		invoice.Status = enum.InvoiceStatusOverdue
	}
}

// GetInvoice retrieves an invoice with its items
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	markOverdue(invoice, time.Now())
	return invoice, nil
}

// ListInvoices returns invoices matching the filter
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	now := time.Now()
	for i := range invoices {
		markOverdue(&invoices[i], now)
	}
	return invoices, total, nil
}

// UpdateInvoice edits a draft invoice's content and recomputes its totals.
// Non-draft invoices are immutable apart from status transitions.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, input *UpdateInvoiceInput) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if invoice.Status != enum.InvoiceStatusDraft {
		return nil, apperror.NewConflictError("Only draft invoices can be edited")
	}

	if input.CustomerName != nil {
		if *input.CustomerName == "" {
			return nil, apperror.NewBadRequestError("Customer name is required")
		}
		invoice.CustomerName = *input.CustomerName
	}
	if input.CustomerEmail != nil {
		invoice.CustomerEmail = input.CustomerEmail
	}
	if input.CustomerAddress != nil {
		invoice.CustomerAddress = input.CustomerAddress
	}
	if input.Notes != nil {
		invoice.Notes = input.Notes
	}
	if input.Discount != nil {
		if *input.Discount < 0 {
			return nil, apperror.NewBadRequestError("Discount cannot be negative")
		}
		invoice.Discount = int64(*input.Discount*100 + 0.5)
	}

	if input.Items != nil {
		items, subTotal, err := buildInvoiceItems(input.Items)
		if err != nil {
			return nil, err
		}
		if err := s.invoiceRepo.ReplaceItems(ctx, id, items); err != nil {
			return nil, err
		}
		invoice.SubTotal = subTotal
		invoice.Items = items
	}

	if invoice.Discount > invoice.SubTotal {
		return nil, apperror.NewBadRequestError("Discount exceeds invoice subtotal")
	}
	invoice.Tax = int64(float64(invoice.SubTotal)*invoice.TaxRate + 0.5)
	invoice.Total = invoice.SubTotal + invoice.Tax - invoice.Discount

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// SendInvoice marks a draft invoice sent, freezing its content.
func (s *InvoiceService) SendInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if invoice.Status != enum.InvoiceStatusDraft {
		return nil, apperror.NewConflictError("Only draft invoices can be sent")
	}

	invoice.Status = enum.InvoiceStatusSent
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// PayInvoice records a payment against a sent or overdue invoice.
func (s *InvoiceService) PayInvoice(ctx context.Context, id uuid.UUID, reference *string) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if invoice.Paid {
		return nil, apperror.NewConflictError("Invoice is already paid")
	}
	if invoice.Status == enum.InvoiceStatusCancelled {
		return nil, apperror.NewConflictError("Invoice is cancelled")
	}

	now := time.Now()
	invoice.Status = enum.InvoiceStatusPaid
	invoice.Paid = true
	invoice.PaidAt = &now
	invoice.PaymentReference = reference
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// CancelInvoice voids an unpaid invoice. The number stays burned — sequences
// never rewind.
func (s *InvoiceService) CancelInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if invoice.Paid {
		return nil, apperror.NewConflictError("Paid invoices cannot be cancelled")
	}
	if invoice.Status == enum.InvoiceStatusCancelled {
		return nil, apperror.NewConflictError("Invoice is already cancelled")
	}

	invoice.Status = enum.InvoiceStatusCancelled
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}
