package usecase

import (
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

func ptr[T any](v T) *T { return &v }

func TestParseNumber(t *testing.T) {
	cases := []struct {
		name    string
		field   model.NumberField
		want    *float64
		apply   bool
		wantErr bool
	}{
		{"unset", model.NumberField{}, nil, false, false},
		{"empty string", model.NumberText(""), nil, false, false},
		{"blank string", model.NumberText("   "), nil, false, false},
		{"null clears", model.NullNumber(), nil, true, false},
		{"numeric text", model.NumberText(" 12.5 "), ptr(12.5), true, false},
		{"number", model.Number(500), ptr(500.0), true, false},
		{"garbage", model.NumberText("twelve"), nil, false, true},
		{"infinity", model.NumberText("Inf"), nil, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, apply, err := parseNumber(tc.field)
			if (err != nil) != tc.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if apply != tc.apply {
				t.Fatalf("expected apply=%v, got %v", tc.apply, apply)
			}
			if (got == nil) != (tc.want == nil) || (got != nil && *got != *tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestApplyPatchMergesFields(t *testing.T) {
	req := &model.Request{
		Kind:         model.KindQuote,
		Status:       model.StatusRequested,
		CustomerName: "Jane Doe",
		Quantity:     10,
		TargetPrice:  ptr(4.0),
	}
	err := applyPatch(QuoteKind(), req, model.Patch{
		Status:             ptr(model.Status(" APPROVED ")),
		Company:            ptr("  Tannery Ltd "),
		Quantity:           model.NumberText("25"),
		ProposedTotalPrice: model.Number(500),
		TargetPrice:        model.NullNumber(),
		ProposedUnitPrice:  model.NumberText(""),
		AdminComments:      ptr(" net 30 "),
	})
	if err != nil {
		t.Fatalf("apply patch returned error: %v", err)
	}
	if req.Status != model.StatusApproved {
		t.Fatalf("expected approved status, got %s", req.Status)
	}
	if req.Company != "Tannery Ltd" || req.AdminComments != "net 30" {
		t.Fatalf("expected trimmed text, got %q %q", req.Company, req.AdminComments)
	}
	if req.Quantity != 25 {
		t.Fatalf("expected quantity 25, got %d", req.Quantity)
	}
	if req.ProposedTotalPrice == nil || *req.ProposedTotalPrice != 500 {
		t.Fatalf("expected total price 500, got %v", req.ProposedTotalPrice)
	}
	if req.TargetPrice != nil {
		t.Fatalf("expected target price to be cleared")
	}
	if req.ProposedUnitPrice != nil {
		t.Fatalf("empty string must leave unit price unset")
	}
}

func TestApplyPatchRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		patch model.Patch
		field string
	}{
		{"status of other kind", model.Patch{Status: ptr(model.StatusShipped)}, "status"},
		{"unknown status", model.Patch{Status: ptr(model.Status("archived"))}, "status"},
		{"blank name", model.Patch{CustomerName: ptr("  ")}, "customerName"},
		{"bad email", model.Patch{Email: ptr("nope")}, "email"},
		{"bad tracking link", model.Patch{TrackingLink: ptr("not a url")}, "trackingLink"},
		{"fractional quantity", model.Patch{Quantity: model.NumberText("2.5")}, "quantity"},
		{"negative quantity", model.Patch{Quantity: model.Number(-1)}, "quantity"},
		{"cleared quantity", model.Patch{Quantity: model.NullNumber()}, "quantity"},
		{"non numeric price", model.Patch{ProposedUnitPrice: model.NumberText("abc")}, "proposedUnitPrice"},
		{"negative price", model.Patch{ProposedTotalPrice: model.Number(-5)}, "proposedTotalPrice"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &model.Request{Kind: model.KindQuote, Status: model.StatusRequested, Quantity: 1}
			err := applyPatch(QuoteKind(), req, tc.patch)
			var verr *domainErrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected %s to be reported, got %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestApplyPatchReportsEveryField(t *testing.T) {
	req := &model.Request{Kind: model.KindSample, Status: model.StatusPending}
	err := applyPatch(SampleKind(), req, model.Patch{
		Status:      ptr(model.StatusApproved),
		Destination: ptr(""),
		TargetPrice: model.NumberText("x"),
	})
	var verr *domainErrors.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 3 {
		t.Fatalf("expected three field errors, got %v", err)
	}
}
