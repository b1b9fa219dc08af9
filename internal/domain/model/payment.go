package model

// PaymentStatus is the transfer state reported by the payment provider.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment describes a provider transfer.
type Payment struct {
	Reference string
	Status    PaymentStatus
	Amount    *float64
}
