package request

import "github.com/google/uuid"

// SaleItemRequest represents one basket line. The server prices it from the
// catalog; clients never send prices.
type SaleItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CreateSaleRequest represents a sale creation request
type CreateSaleRequest struct {
	Items         []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" binding:"required"`
	CashReceived  *float64          `json:"cash_received" binding:"omitempty,min=0"`
	CardReference *string           `json:"card_reference" binding:"omitempty,max=100"`
	Discount      float64           `json:"discount" binding:"min=0"`
	TaxRate       *float64          `json:"tax_rate" binding:"omitempty,min=0,max=1"`
	CustomerName  *string           `json:"customer_name" binding:"omitempty,max=255"`
	CustomerEmail *string           `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone *string           `json:"customer_phone" binding:"omitempty,max=50"`
}

// SaleFilterRequest represents sale filter parameters
type SaleFilterRequest struct {
	Search        string `form:"search"`
	Status        string `form:"status"`
	PaymentMethod string `form:"payment_method"`
	StartDate     string `form:"start_date"`
	EndDate       string `form:"end_date"`
	SortBy        string `form:"sort_by"`
	SortOrder     string `form:"sort_order"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}
