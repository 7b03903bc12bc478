package request

import "github.com/google/uuid"

// InvoiceItemRequest represents one invoice line
type InvoiceItemRequest struct {
	ProductID   *uuid.UUID `json:"product_id"`
	Description string     `json:"description" binding:"required,max=255"`
	SKU         string     `json:"sku" binding:"omitempty,max=100"`
	Quantity    int        `json:"quantity" binding:"required,min=1"`
	UnitPrice   float64    `json:"unit_price" binding:"min=0"`
}

// CreateInvoiceRequest represents an invoice creation request. Either sale_id
// or items must be provided.
type CreateInvoiceRequest struct {
	SaleID          *uuid.UUID           `json:"sale_id"`
	Items           []InvoiceItemRequest `json:"items" binding:"omitempty,dive"`
	CustomerName    string               `json:"customer_name" binding:"required,max=255"`
	CustomerEmail   *string              `json:"customer_email" binding:"omitempty,email"`
	CustomerAddress *string              `json:"customer_address"`
	PaymentMethod   string               `json:"payment_method" binding:"required"`
	Discount        float64              `json:"discount" binding:"min=0"`
	TaxRate         *float64             `json:"tax_rate" binding:"omitempty,min=0,max=1"`
	Notes           *string              `json:"notes"`
}

// UpdateInvoiceRequest represents a draft invoice update request
type UpdateInvoiceRequest struct {
	Items           []InvoiceItemRequest `json:"items" binding:"omitempty,dive"`
	CustomerName    *string              `json:"customer_name" binding:"omitempty,max=255"`
	CustomerEmail   *string              `json:"customer_email" binding:"omitempty,email"`
	CustomerAddress *string              `json:"customer_address"`
	Discount        *float64             `json:"discount" binding:"omitempty,min=0"`
	Notes           *string              `json:"notes"`
}

// PayInvoiceRequest records a payment against an invoice
type PayInvoiceRequest struct {
	Reference *string `json:"reference" binding:"omitempty,max=100"`
}

// InvoiceFilterRequest represents invoice filter parameters
type InvoiceFilterRequest struct {
	Search    string `form:"search"`
	Status    string `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
