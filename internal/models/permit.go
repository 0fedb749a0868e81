package models

import "time"

// Permit statuses. pending_payment, payment_processing and payment_failed
// may still move: the owner can cancel or retry payment. paid, refunded,
// cancelled and expired are terminal, except paid -> refunded.
const (
	StatusPendingPayment    = "pending_payment"
	StatusPaymentProcessing = "payment_processing"
	StatusPaid              = "paid"
	StatusPaymentFailed     = "payment_failed"
	StatusRefunded          = "refunded"
	StatusCancelled         = "cancelled"
	StatusExpired           = "expired"
)

const (
	ApplicationNew   = "new"
	ApplicationRenew = "renew"
)

type Permit struct {
	ID              int    `json:"id"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	PermitType      string `json:"permit_type"`
	ApplicationType string `json:"application_type"`
	// Amount is in kobo and immutable after creation. It must match the fee
	// table exactly; gateway-reported amounts are only compared for logging.
	Amount          int64      `json:"amount"`
	UserID          int        `json:"user_id"`
	Status          string     `json:"status"`
	Reference       string     `json:"reference"`
	PaymentAttempts int        `json:"payment_attempts"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type PermitRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required"`
	PermitType      string `json:"permit_type" binding:"required"`
	ApplicationType string `json:"application_type" binding:"required"`
	Amount          int64  `json:"amount" binding:"required"`
}

// IsTerminal reports whether a permit status admits no further transitions
// other than paid -> refunded. A failed payment is not terminal: the owner
// may retry or cancel.
func IsTerminal(status string) bool {
	switch status {
	case StatusPaid, StatusRefunded, StatusCancelled, StatusExpired:
		return true
	}
	return false
}
