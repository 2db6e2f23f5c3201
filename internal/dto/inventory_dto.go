package dto

import "github.com/shopspring/decimal"

// AdjustStockRequest registers a manual inventory movement against a store
// product. Quantity sign follows the movement type: OUTGOING decrements.
type AdjustStockRequest struct {
	StoreProductID string `json:"store_product_id" validate:"required,uuid"`
	Type           string `json:"type"             validate:"required,oneof=INCOMING OUTGOING ADJUST"`
	Quantity       int    `json:"quantity"         validate:"required"`
	Description    string `json:"description"      validate:"required,min=3"`
}

// InventoryMovementFilter is bound from query string of the movements listing.
type InventoryMovementFilter struct {
	StoreProductID string `form:"store_product_id" validate:"omitempty,uuid"`
	Type           string `form:"type"             validate:"omitempty,oneof=INCOMING OUTGOING SALE RETURN ADJUST"`
	Page           int    `form:"page,default=1"   validate:"min=1"`
	Limit          int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type InventoryMovementResponse struct {
	ID             string  `json:"id"`
	StoreProductID string  `json:"store_product_id"`
	Product        string  `json:"product,omitempty"`
	Type           string  `json:"type"`
	Quantity       int     `json:"quantity"`
	Description    string  `json:"description"`
	OrderID        *string `json:"order_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type InventoryMovementListResponse struct {
	Data  []InventoryMovementResponse `json:"data"`
	Total int64                       `json:"total"`
	Page  int                         `json:"page"`
	Limit int                         `json:"limit"`
}

// StockAlertResponse flags store products at or below their threshold.
type StockAlertResponse struct {
	StoreProductID string          `json:"store_product_id"`
	Product        string          `json:"product"`
	StoreID        string          `json:"store_id"`
	Stock          int             `json:"stock"`
	StockThreshold int             `json:"stock_threshold"`
	Price          decimal.Decimal `json:"price"`
}
