package usecase

import (
	"errors"
	"math"
	"testing"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

func TestValidRequestNumber(t *testing.T) {
	valid := []string{"AB12CD34", "00000000", "ZZZZZZZZ"}
	for _, number := range valid {
		if !ValidRequestNumber(number) {
			t.Fatalf("expected number %s to be valid", number)
		}
	}

	invalid := []string{"", "AB12CD3", "AB12CD345", "ab12cd34", "AB12-D34"}
	for _, number := range invalid {
		if ValidRequestNumber(number) {
			t.Fatalf("expected number %s to be invalid", number)
		}
	}
}

func validSubmission() model.NewRequest {
	return model.NewRequest{
		CustomerName: "Jane Doe",
		Email:        "jane@example.com",
		Destination:  "Lisbon, PT",
		ProductName:  "Full-grain cowhide",
		Quantity:     500,
	}
}

func TestNormalizeSubmission(t *testing.T) {
	in := validSubmission()
	in.CustomerName = "  Jane Doe "
	in.Currency = " eur"
	out := normalizeSubmission(in)
	if out.CustomerName != "Jane Doe" || out.Currency != "EUR" {
		t.Fatalf("unexpected normalization %+v", out)
	}
	if normalizeSubmission(validSubmission()).Currency != "USD" {
		t.Fatal("expected USD default currency")
	}
}

func TestValidateSubmission(t *testing.T) {
	negative := -1.0
	nan := math.NaN()

	cases := []struct {
		name   string
		mutate func(*model.NewRequest)
		field  string
	}{
		{"missing name", func(r *model.NewRequest) { r.CustomerName = "" }, "customerName"},
		{"bad email", func(r *model.NewRequest) { r.Email = "not-an-email" }, "email"},
		{"missing destination", func(r *model.NewRequest) { r.Destination = "" }, "destination"},
		{"missing product", func(r *model.NewRequest) { r.ProductName = "" }, "productName"},
		{"zero quantity", func(r *model.NewRequest) { r.Quantity = 0 }, "quantity"},
		{"unknown currency", func(r *model.NewRequest) { r.Currency = "XXQ" }, "currency"},
		{"negative target", func(r *model.NewRequest) { r.TargetPrice = &negative }, "targetPrice"},
		{"nan target", func(r *model.NewRequest) { r.TargetPrice = &nan }, "targetPrice"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validSubmission()
			tc.mutate(&in)
			err := validateSubmission(normalizeSubmission(in))
			var verr *domainErrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected %s to be reported, got %v", tc.field, verr.Fields)
			}
		})
	}

	if err := validateSubmission(normalizeSubmission(validSubmission())); err != nil {
		t.Fatalf("expected valid submission, got %v", err)
	}
}
