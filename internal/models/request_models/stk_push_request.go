package request_models

import "github.com/shopspring/decimal"

// StkPushRequest is the checkout form posted by the browser. Pointer fields
// distinguish "missing" from zero values.
type StkPushRequest struct {
	Name          string           `json:"name" binding:"required"`
	Email         string           `json:"email" binding:"required"`
	Phone         string           `json:"phone" binding:"required"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	TicketType    *string          `json:"ticketType" binding:"required"`
	TotalQuantity *int             `json:"totalQuantity" binding:"required"`
	Seats         []int            `json:"seats"`
}
