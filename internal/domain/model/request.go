package model

import "time"

// Request is a quote or sample request tracked through its lifecycle.
type Request struct {
	ID            string
	Kind          Kind
	RequestNumber string
	Status        Status

	CustomerName string
	Company      string
	Email        string
	Phone        string
	Destination  string
	Message      string

	ProductID          string
	ProductName        string
	Quantity           int
	Currency           string
	TargetPrice        *float64
	ProposedUnitPrice  *float64
	ProposedTotalPrice *float64

	PaymentMethod    string
	PaymentDetails   string
	PaymentReference string
	InvoiceID        string

	AdminComments  string
	TrackingNumber string
	TrackingLink   string
	ShippedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy so callers can diff before/after states.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	c := *r
	c.TargetPrice = cloneFloat(r.TargetPrice)
	c.ProposedUnitPrice = cloneFloat(r.ProposedUnitPrice)
	c.ProposedTotalPrice = cloneFloat(r.ProposedTotalPrice)
	if r.ShippedAt != nil {
		at := *r.ShippedAt
		c.ShippedAt = &at
	}
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// NewRequest carries a public form submission.
type NewRequest struct {
	CustomerName  string
	Company       string
	Email         string
	Phone         string
	Destination   string
	Message       string
	ProductID     string
	ProductName   string
	Quantity      int
	Currency      string
	TargetPrice   *float64
	PaymentMethod string
}

// SortOrder is either ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// RequestFilter narrows request listings.
type RequestFilter struct {
	Kind     Kind
	Statuses []Status
	Search   string
	// WithPaymentReference keeps only requests that reference a provider transfer.
	WithPaymentReference bool
}

// ListQuery describes a paged, sorted listing.
type ListQuery struct {
	Filter RequestFilter
	Page   int
	Limit  int
	SortBy string
	Order  SortOrder
}

// Offset returns number of rows to skip for the page.
func (q ListQuery) Offset() int {
	if q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// Page is one slice of a listing together with the total match count.
type Page struct {
	Items []Request
	Total int
	Page  int
	Limit int
}
