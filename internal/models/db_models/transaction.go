package db_models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type TransactionStatus string

const (
	TxnStatusPending   TransactionStatus = "PENDING"
	TxnStatusCompleted TransactionStatus = "COMPLETED"
	TxnStatusFailed    TransactionStatus = "FAILED"
)

func (s TransactionStatus) IsTerminal() bool {
	return s == TxnStatusCompleted || s == TxnStatusFailed
}

const TicketTypeVIP = "vip"

// Transaction is one STK push attempt.
type Transaction struct {
	BaseModel
	Name          string          `gorm:"size:255" json:"name"`
	Email         string          `gorm:"size:255" json:"email"`
	Phone         string          `gorm:"size:20;index" json:"phone"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount"`
	TicketType    string          `gorm:"size:32" json:"ticketType"`
	TotalQuantity int             `json:"totalQuantity"`
	Seats         string          `gorm:"size:1024" json:"seats"` // comma separated, vip only
	// SeatsHeld lists the seats this checkout moved from available to sold.
	// Seats someone else already held are in Seats but not here.
	SeatsHeld string `gorm:"size:1024" json:"seatsHeld,omitempty"`

	CheckoutRequestID string            `gorm:"column:checkout_request_id;size:64;uniqueIndex" json:"checkoutRequestId"`
	MerchantRequestID string            `gorm:"size:64" json:"merchantRequestId,omitempty"`
	Timestamp         string            `gorm:"size:14" json:"timestamp"` // YYYYMMDDHHmmss
	Status            TransactionStatus `gorm:"size:16;index" json:"status"`

	// Written by the result callback
	ResultCode         *int                `json:"resultCode,omitempty"`
	ResultDesc         string              `gorm:"size:255" json:"resultDesc,omitempty"`
	MpesaReceiptNumber string              `gorm:"size:32" json:"mpesaReceiptNumber,omitempty"`
	TransactionDate    string              `gorm:"size:14" json:"transactionDate,omitempty"`
	PaidPhone          string              `gorm:"size:20" json:"paidPhone,omitempty"`
	PaidAmount         decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"paidAmount,omitempty"`
	CallbackMetadata   datatypes.JSON      `json:"callbackMetadata,omitempty"`
}

func (t *Transaction) IsVIP() bool {
	return t.TicketType == TicketTypeVIP
}

// Outcome is what the result callback learned about a push attempt.
type Outcome struct {
	Status             TransactionStatus
	MerchantRequestID  string
	ResultCode         int
	ResultDesc         string
	MpesaReceiptNumber string
	TransactionDate    string
	PaidPhone          string
	PaidAmount         decimal.NullDecimal
	CallbackMetadata   datatypes.JSON
}
