package request

import "github.com/google/uuid"

// ReturnItemRequest represents one returned line. UnitPrice overrides the
// sale-snapshot or catalog price when set, e.g. for goodwill refunds.
type ReturnItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	UnitPrice *float64  `json:"unit_price" binding:"omitempty,min=0"`
	Reason    string    `json:"reason" binding:"omitempty,max=255"`
}

// CreateReturnRequest represents a return creation request
type CreateReturnRequest struct {
	SaleID        *uuid.UUID          `json:"sale_id"`
	Resolution    string              `json:"resolution" binding:"required"`
	Items         []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
	CustomerName  *string             `json:"customer_name" binding:"omitempty,max=255"`
	CustomerEmail *string             `json:"customer_email" binding:"omitempty,email"`
}

// ReturnFilterRequest represents return filter parameters
type ReturnFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	Resolution string `form:"resolution"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
