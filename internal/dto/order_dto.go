package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProductLineRequest is one product line of the cart. CustomPrice, when set,
// overrides the catalog price and flags the order as price-modified.
type ProductLineRequest struct {
	StoreProductID string           `json:"store_product_id" validate:"required,uuid"`
	Quantity       int              `json:"quantity"         validate:"required,min=1"`
	CustomPrice    *decimal.Decimal `json:"custom_price"     validate:"omitempty"`
}

// ServiceLineRequest is one service line of the cart.
type ServiceLineRequest struct {
	Name  string          `json:"name"  validate:"required"`
	Type  *string         `json:"type"  validate:"omitempty"`
	Price decimal.Decimal `json:"price" validate:"required"`
}

// PaymentRequest declares one payment instrument for the order.
type PaymentRequest struct {
	Type   string          `json:"type"   validate:"required,oneof=EFECTIVO TARJETA TRANSFERENCIA YAPE PLIN"`
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

// ClientInfoRequest carries the customer data used for tenant-scoped
// resolution by DNI/email. DNI "00000000" selects the shared walk-in client.
type ClientInfoRequest struct {
	DNI     string  `json:"dni"     validate:"required,min=8,max=20"`
	Name    string  `json:"name"    validate:"omitempty"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Phone   *string `json:"phone"   validate:"omitempty"`
	Address *string `json:"address" validate:"omitempty"`
	RUC     *string `json:"ruc"     validate:"omitempty"`
}

// CreateOrderRequest is the full cart. Exactly one of ClientID / ClientInfo
// must be supplied.
type CreateOrderRequest struct {
	CashSessionID  string               `json:"cash_session_id" validate:"required,uuid"`
	ClientID       *string              `json:"client_id"       validate:"omitempty,uuid"`
	ClientInfo     *ClientInfoRequest   `json:"client_info"     validate:"omitempty"`
	Products       []ProductLineRequest `json:"products"        validate:"dive"`
	Services       []ServiceLineRequest `json:"services"        validate:"dive"`
	PaymentMethods []PaymentRequest     `json:"payment_methods" validate:"dive"`
}

// ServicePaymentRequest is one incremental payment declared while settling a
// PENDING order. ServiceID ties the payment to a service line of the order.
type ServicePaymentRequest struct {
	ServiceID string          `json:"service_id" validate:"required,uuid"`
	Type      string          `json:"type"       validate:"required,oneof=EFECTIVO TARJETA TRANSFERENCIA YAPE PLIN"`
	Amount    decimal.Decimal `json:"amount"     validate:"required,gt=0"`
}

// CompleteOrderRequest settles services on a PENDING order.
type CompleteOrderRequest struct {
	Payments []ServicePaymentRequest `json:"payments" validate:"required,min=1,dive"`
}

// OrderFilter is bound from the query string of order list endpoints.
type OrderFilter struct {
	StoreID string `form:"store_id" validate:"omitempty,uuid"`
	Status  string `form:"status"   validate:"omitempty,oneof=PENDING COMPLETED CANCELLED"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductLineResponse struct {
	StoreProductID string          `json:"store_product_id"`
	Product        string          `json:"product"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type ServiceLineResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Type   *string         `json:"type,omitempty"`
	Price  decimal.Decimal `json:"price"`
	Status string          `json:"status"`
}

type PaymentResponse struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// ReceiptInfo is the display metadata the till prints on the receipt.
type ReceiptInfo struct {
	StoreName    string          `json:"store_name"`
	StoreAddress string          `json:"store_address,omitempty"`
	StorePhone   string          `json:"store_phone,omitempty"`
	SellerName   string          `json:"seller_name"`
	ClientName   string          `json:"client_name"`
	ClientDNI    string          `json:"client_dni"`
	AmountPaid   decimal.Decimal `json:"amount_paid"`
}

type OrderResponse struct {
	ID              string                `json:"id"`
	OrderNumber     string                `json:"order_number"`
	CashSessionID   string                `json:"cash_session_id"`
	ClientID        string                `json:"client_id"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	Status          string                `json:"status"`
	IsPriceModified bool                  `json:"is_price_modified"`
	Products        []ProductLineResponse `json:"products"`
	Services        []ServiceLineResponse `json:"services"`
	PaymentMethods  []PaymentResponse     `json:"payment_methods"`
	Receipt         *ReceiptInfo          `json:"receipt,omitempty"`
	CanceledAt      *string               `json:"canceled_at,omitempty"`
	CreatedAt       string                `json:"created_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
