package model

// Kind distinguishes request variants handled by the lifecycle engine.
type Kind string

const (
	KindQuote  Kind = "quote"
	KindSample Kind = "sample"
)

// ParseKind accepts both the bare kind and its REST collection name.
func ParseKind(raw string) (Kind, bool) {
	switch raw {
	case "quote", "quotes", "quote-requests":
		return KindQuote, true
	case "sample", "samples", "sample-requests":
		return KindSample, true
	}
	return "", false
}

// Status describes a request lifecycle state. The valid set depends on Kind.
type Status string

// Quote request statuses.
const (
	StatusRequested  Status = "requested"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusDispatched Status = "dispatched"
)

// Sample request statuses.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusFailed     Status = "failed"
	StatusRefunded   Status = "refunded"
)

// Shared by both kinds.
const (
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)
