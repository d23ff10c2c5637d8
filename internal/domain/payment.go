package domain

import "time"

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentRefunded   PaymentStatus = "refunded"
)

// Payment tracks a gateway transaction for a booking. One per booking.
type Payment struct {
	ID           int64
	PaymentRef   string // uuid handed to the gateway as tx_ref
	BookingID    int64
	UserID       int64
	Amount       float64
	Currency     string
	Status       PaymentStatus
	CheckoutURL  string
	GatewayTxRef string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
