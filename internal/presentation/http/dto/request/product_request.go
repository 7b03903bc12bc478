package request

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name           string  `json:"name" binding:"required,min=2,max=255"`
	SKU            string  `json:"sku" binding:"required,min=1,max=100"`
	Description    *string `json:"description"`
	Price          float64 `json:"price" binding:"min=0"`
	Quantity       int     `json:"quantity" binding:"min=0"`
	QuantityAlert  int     `json:"quantity_alert" binding:"min=0"`
	TrackInventory *bool   `json:"track_inventory"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name           *string  `json:"name" binding:"omitempty,min=2,max=255"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price" binding:"omitempty,min=0"`
	QuantityAlert  *int     `json:"quantity_alert" binding:"omitempty,min=0"`
	TrackInventory *bool    `json:"track_inventory"`
	Archived       *bool    `json:"archived"`
}

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"omitempty,max=255"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	LowStock  bool   `form:"low_stock"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
