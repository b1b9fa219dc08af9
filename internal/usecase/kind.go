package usecase

import (
	"slices"

	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

// StatusRule is a requirement checked while a request sits in Status.
// Soft rules only produce a warning. Hard rules reject entering Status when
// strict transitions are on and warn otherwise.
type StatusRule struct {
	Status    model.Status
	Field     string
	Code      string
	Message   string
	Soft      bool
	Satisfied func(*model.Request) bool
}

// KindConfig parameterizes the lifecycle engine for one request kind.
type KindConfig struct {
	Kind           model.Kind
	Label          string
	CollectionPath string

	InitialStatus   model.Status
	Statuses        []model.Status
	ShippedStatuses []model.Status
	// Transitions is enforced only when strict transitions are enabled.
	Transitions map[model.Status][]model.Status
	Rules       []StatusRule

	NewNotification    model.NotificationType
	StatusNotification model.NotificationType

	Emails       map[model.Status]emailCopy
	DefaultEmail emailCopy
	Confirmation emailCopy
	Tracking     emailCopy

	AwaitingPayment model.Status
	PaymentFailed   model.Status
	InvoiceStatuses []model.Status
}

// HasStatus reports whether status belongs to the kind.
func (k *KindConfig) HasStatus(status model.Status) bool {
	return slices.Contains(k.Statuses, status)
}

// IsShipped reports whether status implies the goods left the warehouse.
func (k *KindConfig) IsShipped(status model.Status) bool {
	return slices.Contains(k.ShippedStatuses, status)
}

// CanTransition consults the transition table.
func (k *KindConfig) CanTransition(from, to model.Status) bool {
	if from == to {
		return true
	}
	return slices.Contains(k.Transitions[from], to)
}

func (k *KindConfig) emailFor(status model.Status) emailCopy {
	if c, ok := k.Emails[status]; ok {
		return c
	}
	return k.DefaultEmail
}

func hasTrackingReference(r *model.Request) bool {
	return r.TrackingNumber != "" || r.TrackingLink != ""
}

func hasTrackingLink(r *model.Request) bool {
	return r.TrackingLink != ""
}

// QuoteKind describes wholesale quote requests.
func QuoteKind() *KindConfig {
	return &KindConfig{
		Kind:           model.KindQuote,
		Label:          "quote request",
		CollectionPath: "quote-requests",
		InitialStatus:  model.StatusRequested,
		Statuses: []model.Status{
			model.StatusRequested,
			model.StatusApproved,
			model.StatusPaid,
			model.StatusDispatched,
			model.StatusRejected,
			model.StatusCancelled,
		},
		ShippedStatuses: []model.Status{model.StatusDispatched},
		Transitions: map[model.Status][]model.Status{
			model.StatusRequested: {model.StatusApproved, model.StatusRejected, model.StatusCancelled},
			model.StatusApproved:  {model.StatusPaid, model.StatusRejected, model.StatusCancelled},
			model.StatusPaid:      {model.StatusDispatched, model.StatusCancelled},
			model.StatusRejected:  {model.StatusRequested},
		},
		Rules: []StatusRule{
			{
				Status:    model.StatusDispatched,
				Field:     "trackingNumber",
				Code:      "tracking_reference_missing",
				Message:   "a dispatched quote needs a tracking number or tracking link",
				Satisfied: hasTrackingReference,
			},
		},
		NewNotification:    model.NotificationNewQuoteRequest,
		StatusNotification: model.NotificationQuoteStatusUpdate,
		Emails: map[model.Status]emailCopy{
			model.StatusApproved: {
				Subject:   "Your quote request %s has been approved",
				Heading:   "Your quote is ready",
				Intro:     "Good news: we reviewed your quote request and approved it. The proposed pricing is below.",
				ShowPrice: true,
			},
			model.StatusRejected: {
				Subject:      "Update on your quote request %s",
				Heading:      "We could not approve your quote",
				Intro:        "Unfortunately we are unable to fulfil this quote request as submitted.",
				ShowComments: true,
			},
			model.StatusPaid: {
				Subject: "Payment received for quote request %s",
				Heading: "Payment received",
				Intro:   "Thank you, we received your payment. Your order is now being prepared.",
			},
			model.StatusDispatched: {
				Subject:      "Your order %s has been dispatched",
				Heading:      "Your order is on its way",
				Intro:        "Your order has left our warehouse.",
				ShowTracking: true,
			},
			model.StatusCancelled: {
				Subject:      "Your quote request %s has been cancelled",
				Heading:      "Quote request cancelled",
				Intro:        "Your quote request has been cancelled. Reply to this email if this is unexpected.",
				ShowComments: true,
			},
		},
		DefaultEmail: emailCopy{
			Subject: "Your quote request %s has been updated",
			Heading: "Quote request updated",
			Intro:   "The status of your quote request has changed.",
		},
		Confirmation: emailCopy{
			Subject: "We received your quote request %s",
			Heading: "Thank you for your quote request",
			Intro:   "We received your request and our team will get back to you shortly.",
		},
		Tracking: emailCopy{
			Subject:      "Tracking details updated for order %s",
			Heading:      "Tracking details updated",
			Intro:        "The shipment tracking details for your order have changed.",
			ShowTracking: true,
		},
		AwaitingPayment: model.StatusApproved,
		InvoiceStatuses: []model.Status{model.StatusApproved, model.StatusPaid, model.StatusDispatched},
	}
}

// SampleKind describes paid product sample requests.
func SampleKind() *KindConfig {
	return &KindConfig{
		Kind:           model.KindSample,
		Label:          "sample request",
		CollectionPath: "sample-requests",
		InitialStatus:  model.StatusPending,
		Statuses: []model.Status{
			model.StatusPending,
			model.StatusPaid,
			model.StatusProcessing,
			model.StatusShipped,
			model.StatusDelivered,
			model.StatusCancelled,
			model.StatusFailed,
			model.StatusRefunded,
		},
		ShippedStatuses: []model.Status{model.StatusShipped, model.StatusDelivered},
		Transitions: map[model.Status][]model.Status{
			model.StatusPending:    {model.StatusPaid, model.StatusCancelled, model.StatusFailed},
			model.StatusPaid:       {model.StatusProcessing, model.StatusRefunded, model.StatusCancelled},
			model.StatusProcessing: {model.StatusShipped, model.StatusCancelled, model.StatusRefunded, model.StatusFailed},
			model.StatusShipped:    {model.StatusDelivered, model.StatusFailed, model.StatusRefunded},
			model.StatusDelivered:  {model.StatusRefunded},
			model.StatusFailed:     {model.StatusPending},
		},
		Rules: []StatusRule{
			{
				Status:    model.StatusShipped,
				Field:     "trackingLink",
				Code:      "tracking_link_missing",
				Message:   "shipped sample has no tracking link",
				Soft:      true,
				Satisfied: hasTrackingLink,
			},
		},
		NewNotification:    model.NotificationNewSampleRequest,
		StatusNotification: model.NotificationSampleStatusUpdate,
		Emails: map[model.Status]emailCopy{
			model.StatusPaid: {
				Subject: "Payment received for sample request %s",
				Heading: "Payment received",
				Intro:   "Thank you, we received your payment for the sample.",
			},
			model.StatusProcessing: {
				Subject: "Your sample %s is being prepared",
				Heading: "We are preparing your sample",
				Intro:   "Our workshop is preparing your sample for shipment.",
			},
			model.StatusShipped: {
				Subject:      "Your sample %s has shipped",
				Heading:      "Your sample is on its way",
				Intro:        "Your sample has been handed over to the carrier.",
				ShowTracking: true,
			},
			model.StatusDelivered: {
				Subject: "Your sample %s has been delivered",
				Heading: "Sample delivered",
				Intro:   "Your sample has been delivered. We would love to hear what you think.",
			},
			model.StatusCancelled: {
				Subject:      "Your sample request %s has been cancelled",
				Heading:      "Sample request cancelled",
				Intro:        "Your sample request has been cancelled.",
				ShowComments: true,
			},
			model.StatusFailed: {
				Subject:      "There was a problem with sample request %s",
				Heading:      "We could not complete your sample request",
				Intro:        "Something went wrong while processing your sample request.",
				ShowComments: true,
			},
			model.StatusRefunded: {
				Subject: "Your sample request %s has been refunded",
				Heading: "Refund issued",
				Intro:   "We issued a refund for your sample request.",
			},
		},
		DefaultEmail: emailCopy{
			Subject: "Your sample request %s has been updated",
			Heading: "Sample request updated",
			Intro:   "The status of your sample request has changed.",
		},
		Confirmation: emailCopy{
			Subject: "We received your sample request %s",
			Heading: "Thank you for your sample request",
			Intro:   "We received your sample request. You will receive payment instructions shortly.",
		},
		Tracking: emailCopy{
			Subject:      "Tracking details updated for sample %s",
			Heading:      "Tracking details updated",
			Intro:        "The shipment tracking details for your sample have changed.",
			ShowTracking: true,
		},
		AwaitingPayment: model.StatusPending,
		PaymentFailed:   model.StatusFailed,
	}
}

// DefaultKinds returns the configuration of every supported kind.
func DefaultKinds() []*KindConfig {
	return []*KindConfig{QuoteKind(), SampleKind()}
}
