package dto

import (
	"time"

	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

// SubmitRequest is the public quote or sample request form.
type SubmitRequest struct {
	CustomerName  string            `json:"customerName"`
	Company       string            `json:"company"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Destination   string            `json:"destination"`
	Message       string            `json:"message"`
	ProductID     string            `json:"productId"`
	ProductName   string            `json:"productName"`
	Quantity      model.NumberField `json:"quantity"`
	Currency      string            `json:"currency"`
	TargetPrice   model.NumberField `json:"targetPrice"`
	PaymentMethod string            `json:"paymentMethod"`
}

// SubmitResponse acknowledges a submission with the customer-facing code.
type SubmitResponse struct {
	ID            string `json:"id"`
	RequestNumber string `json:"requestNumber"`
	Status        string `json:"status"`
}

// PatchRequest is a partial admin update. Absent fields are left untouched.
type PatchRequest struct {
	Status *string `json:"status"`

	CustomerName *string `json:"customerName"`
	Company      *string `json:"company"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Destination  *string `json:"destination"`
	ProductName  *string `json:"productName"`

	Quantity           model.NumberField `json:"quantity"`
	TargetPrice        model.NumberField `json:"targetPrice"`
	ProposedUnitPrice  model.NumberField `json:"proposedUnitPrice"`
	ProposedTotalPrice model.NumberField `json:"proposedTotalPrice"`

	PaymentMethod    *string `json:"paymentMethod"`
	PaymentDetails   *string `json:"paymentDetails"`
	PaymentReference *string `json:"paymentReference"`

	AdminComments  *string `json:"adminComments"`
	TrackingNumber *string `json:"trackingNumber"`
	TrackingLink   *string `json:"trackingLink"`
}

// InvoiceRequest attaches an invoice to an approved quote.
type InvoiceRequest struct {
	InvoiceID string `json:"invoiceId" binding:"required"`
}

// RequestResponse is the back-office view of a request.
type RequestResponse struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	RequestNumber string `json:"requestNumber"`
	Status        string `json:"status"`

	CustomerName string `json:"customerName"`
	Company      string `json:"company,omitempty"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Destination  string `json:"destination"`
	Message      string `json:"message,omitempty"`

	ProductID          string   `json:"productId,omitempty"`
	ProductName        string   `json:"productName"`
	Quantity           int      `json:"quantity"`
	Currency           string   `json:"currency"`
	TargetPrice        *float64 `json:"targetPrice"`
	ProposedUnitPrice  *float64 `json:"proposedUnitPrice"`
	ProposedTotalPrice *float64 `json:"proposedTotalPrice"`

	PaymentMethod    string `json:"paymentMethod,omitempty"`
	PaymentDetails   string `json:"paymentDetails,omitempty"`
	PaymentReference string `json:"paymentReference,omitempty"`
	InvoiceID        string `json:"invoiceId,omitempty"`

	AdminComments  string     `json:"adminComments,omitempty"`
	TrackingNumber string     `json:"trackingNumber,omitempty"`
	TrackingLink   string     `json:"trackingLink,omitempty"`
	ShippedAt      *time.Time `json:"shippedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WarningResponse is a non-blocking remark on a successful update.
type WarningResponse struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UpdateResponse is the result of an admin patch.
type UpdateResponse struct {
	Request  RequestResponse   `json:"request"`
	Warnings []WarningResponse `json:"warnings"`
}

// ListResponse is one page of requests.
type ListResponse struct {
	Items []RequestResponse `json:"items"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// TrackResponse is what a customer sees about their own request.
type TrackResponse struct {
	Kind               string     `json:"kind"`
	RequestNumber      string     `json:"requestNumber"`
	Status             string     `json:"status"`
	ProductName        string     `json:"productName"`
	Quantity           int        `json:"quantity"`
	Currency           string     `json:"currency"`
	ProposedUnitPrice  *float64   `json:"proposedUnitPrice"`
	ProposedTotalPrice *float64   `json:"proposedTotalPrice"`
	TrackingNumber     string     `json:"trackingNumber,omitempty"`
	TrackingLink       string     `json:"trackingLink,omitempty"`
	ShippedAt          *time.Time `json:"shippedAt"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}
