package usecase

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/Rhymond/go-money"

	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

// emailCopy is the per-status wording of a customer email. Subject takes the request number.
type emailCopy struct {
	Subject      string
	Heading      string
	Intro        string
	ShowPrice    bool
	ShowComments bool
	ShowTracking bool
}

type emailData struct {
	Heading        string
	Intro          string
	CustomerName   string
	RequestNumber  string
	KindLabel      string
	ItemName       string
	Quantity       int
	Status         string
	UnitPrice      string
	TotalPrice     string
	Comments       string
	TrackingNumber string
	CarrierLink    string
	ShippedAt      string
	TrackURL       string
}

const textEmail = `Hello {{.CustomerName}},

{{.Intro}}

Request number: {{.RequestNumber}}
Item: {{.ItemName}}{{if .Quantity}} (quantity {{.Quantity}}){{end}}
Status: {{.Status}}
{{- if .UnitPrice}}
Unit price: {{.UnitPrice}}
{{- end}}
{{- if .TotalPrice}}
Total price: {{.TotalPrice}}
{{- end}}
{{- if .Comments}}

Notes from our team:
{{.Comments}}
{{- end}}
{{- if or .TrackingNumber .CarrierLink}}

Tracking number: {{if .TrackingNumber}}{{.TrackingNumber}}{{else}}not provided{{end}}
{{- if .CarrierLink}}
Carrier tracking: {{.CarrierLink}}
{{- end}}
{{- if .ShippedAt}}
Shipped on: {{.ShippedAt}}
{{- end}}
{{- end}}

Follow your {{.KindLabel}} online: {{.TrackURL}}
`

const htmlEmail = `<!DOCTYPE html>
<html>
<body style="font-family: Georgia, serif; color: #3b2a1a;">
<h2>{{.Heading}}</h2>
<p>Hello {{.CustomerName}},</p>
<p>{{.Intro}}</p>
<table cellpadding="4">
<tr><td>Request number</td><td><strong>{{.RequestNumber}}</strong></td></tr>
<tr><td>Item</td><td>{{.ItemName}}{{if .Quantity}} &times; {{.Quantity}}{{end}}</td></tr>
<tr><td>Status</td><td>{{.Status}}</td></tr>
{{- if .UnitPrice}}
<tr><td>Unit price</td><td>{{.UnitPrice}}</td></tr>
{{- end}}
{{- if .TotalPrice}}
<tr><td>Total price</td><td><strong>{{.TotalPrice}}</strong></td></tr>
{{- end}}
{{- if or .TrackingNumber .CarrierLink}}
<tr><td>Tracking number</td><td>{{if .TrackingNumber}}{{.TrackingNumber}}{{else}}not provided{{end}}</td></tr>
{{- if .CarrierLink}}
<tr><td>Carrier</td><td><a href="{{.CarrierLink}}">{{.CarrierLink}}</a></td></tr>
{{- end}}
{{- if .ShippedAt}}
<tr><td>Shipped on</td><td>{{.ShippedAt}}</td></tr>
{{- end}}
{{- end}}
</table>
{{- if .Comments}}
<p><em>Notes from our team:</em><br>{{.Comments}}</p>
{{- end}}
<p><a href="{{.TrackURL}}">Follow your {{.KindLabel}} online</a></p>
</body>
</html>
`

// Renderer turns requests into customer emails and staff notifications.
type Renderer struct {
	publicBaseURL string
	adminBaseURL  string
	text          *texttemplate.Template
	html          *htmltemplate.Template
}

// NewRenderer parses the email templates.
func NewRenderer(publicBaseURL, adminBaseURL string) *Renderer {
	return &Renderer{
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		adminBaseURL:  strings.TrimRight(adminBaseURL, "/"),
		text:          texttemplate.Must(texttemplate.New("email.txt").Parse(textEmail)),
		html:          htmltemplate.Must(htmltemplate.New("email.html").Parse(htmlEmail)),
	}
}

// TrackURL is the customer self-service link for req.
func (r *Renderer) TrackURL(req *model.Request) string {
	return fmt.Sprintf("%s/track/%s/%s", r.publicBaseURL, req.Kind, req.RequestNumber)
}

// AdminURL is the back-office link for req.
func (r *Renderer) AdminURL(kc *KindConfig, id string) string {
	return fmt.Sprintf("%s/%s/%s", r.adminBaseURL, kc.CollectionPath, id)
}

// StatusEmail renders the email announcing the current status of req.
func (r *Renderer) StatusEmail(kc *KindConfig, req *model.Request) (model.Email, error) {
	return r.render(kc, kc.emailFor(req.Status), req)
}

// ConfirmationEmail renders the receipt sent after submission.
func (r *Renderer) ConfirmationEmail(kc *KindConfig, req *model.Request) (model.Email, error) {
	return r.render(kc, kc.Confirmation, req)
}

// TrackingEmail renders the email sent when tracking details change.
func (r *Renderer) TrackingEmail(kc *KindConfig, req *model.Request) (model.Email, error) {
	return r.render(kc, kc.Tracking, req)
}

func (r *Renderer) render(kc *KindConfig, c emailCopy, req *model.Request) (model.Email, error) {
	data := emailData{
		Heading:       c.Heading,
		Intro:         c.Intro,
		CustomerName:  req.CustomerName,
		RequestNumber: req.RequestNumber,
		KindLabel:     kc.Label,
		ItemName:      req.ProductName,
		Quantity:      req.Quantity,
		Status:        string(req.Status),
		TrackURL:      r.TrackURL(req),
	}
	if c.ShowPrice {
		data.UnitPrice = formatPrice(req.ProposedUnitPrice, req.Currency)
		data.TotalPrice = formatPrice(req.ProposedTotalPrice, req.Currency)
	}
	if c.ShowComments {
		data.Comments = req.AdminComments
	}
	if c.ShowTracking {
		data.TrackingNumber = req.TrackingNumber
		data.CarrierLink = req.TrackingLink
		if req.ShippedAt != nil {
			data.ShippedAt = req.ShippedAt.UTC().Format(time.RFC1123)
		}
		if data.TrackingNumber == "" && data.CarrierLink == "" {
			data.TrackingNumber = "not provided"
		}
	}

	var text, html bytes.Buffer
	if err := r.text.Execute(&text, data); err != nil {
		return model.Email{}, fmt.Errorf("render text email: %w", err)
	}
	if err := r.html.Execute(&html, data); err != nil {
		return model.Email{}, fmt.Errorf("render html email: %w", err)
	}

	return model.Email{
		To:      req.Email,
		Subject: fmt.Sprintf(c.Subject, req.RequestNumber),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// formatPrice renders amount in currency minor units, e.g. $500.00.
func formatPrice(amount *float64, currency string) string {
	if amount == nil {
		return ""
	}
	if currency == "" {
		currency = money.USD
	}
	return money.NewFromFloat(*amount, currency).Display()
}

func (r *Renderer) newRequestNotification(kc *KindConfig, req *model.Request) model.Notification {
	who := req.CustomerName
	if req.Company != "" {
		who = fmt.Sprintf("%s (%s)", req.CustomerName, req.Company)
	}
	return model.Notification{
		Title:     fmt.Sprintf("New %s %s", kc.Label, req.RequestNumber),
		Message:   fmt.Sprintf("%s requested %d x %s.", who, req.Quantity, req.ProductName),
		Type:      kc.NewNotification,
		Link:      r.AdminURL(kc, req.ID),
		RelatedID: req.ID,
	}
}

func (r *Renderer) statusNotification(kc *KindConfig, req *model.Request, from model.Status) model.Notification {
	return model.Notification{
		Title:     fmt.Sprintf("%s %s is now %s", capitalize(kc.Label), req.RequestNumber, req.Status),
		Message:   fmt.Sprintf("Status changed from %s to %s for %s.", from, req.Status, req.CustomerName),
		Type:      kc.StatusNotification,
		Link:      r.AdminURL(kc, req.ID),
		RelatedID: req.ID,
	}
}

func (r *Renderer) deletedNotification(kc *KindConfig, id string) model.Notification {
	return model.Notification{
		Title:     fmt.Sprintf("%s deleted", capitalize(kc.Label)),
		Message:   fmt.Sprintf("%s %s was permanently deleted.", capitalize(kc.Label), id),
		Type:      model.NotificationRequestDeleted,
		Link:      fmt.Sprintf("%s/%s", r.adminBaseURL, kc.CollectionPath),
		RelatedID: id,
	}
}

func (r *Renderer) paymentFailedNotification(kc *KindConfig, req *model.Request) model.Notification {
	return model.Notification{
		Title:     fmt.Sprintf("Payment failed for %s %s", kc.Label, req.RequestNumber),
		Message:   fmt.Sprintf("Transfer %s was declined by the payment provider.", req.PaymentReference),
		Type:      model.NotificationWarning,
		Link:      r.AdminURL(kc, req.ID),
		RelatedID: req.ID,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
