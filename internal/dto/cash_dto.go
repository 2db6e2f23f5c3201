package dto

import "github.com/shopspring/decimal"

type OpenSessionRequest struct {
	StoreID       string          `json:"store_id"       validate:"required,uuid"`
	OpeningAmount decimal.Decimal `json:"opening_amount" validate:"required"`
}

type CloseSessionRequest struct {
	CashSessionID string           `json:"cash_session_id" validate:"required,uuid"`
	ClosingAmount *decimal.Decimal `json:"closing_amount"  validate:"omitempty"`
}

// ManualMovementRequest registers a manual cash in/out against an open session.
type ManualMovementRequest struct {
	CashSessionID string          `json:"cash_session_id" validate:"required,uuid"`
	Type          string          `json:"type"            validate:"required,oneof=INCOME EXPENSE"`
	Amount        decimal.Decimal `json:"amount"          validate:"required"`
	PaymentType   string          `json:"payment_type"    validate:"omitempty,oneof=EFECTIVO TARJETA TRANSFERENCIA YAPE PLIN"`
	Description   string          `json:"description"     validate:"required,min=3"`
}

type MovementResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"payment_type"`
	Description string          `json:"description"`
	OrderID     *string         `json:"order_id,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

type SessionResponse struct {
	ID            string             `json:"id"`
	StoreID       string             `json:"store_id"`
	Status        string             `json:"status"`
	OpeningAmount decimal.Decimal    `json:"opening_amount"`
	ClosingAmount *decimal.Decimal   `json:"closing_amount,omitempty"`
	ExpectedCash  decimal.Decimal    `json:"expected_cash"`
	Difference    *decimal.Decimal   `json:"difference,omitempty"`
	Movements     []MovementResponse `json:"movements,omitempty"`
	OpenedAt      string             `json:"opened_at"`
	ClosedAt      *string            `json:"closed_at,omitempty"`
}
