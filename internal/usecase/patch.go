package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

// parseNumber interprets a form number. apply is false when the field must be
// left untouched, which includes an empty string. A nil value with apply set
// clears the field.
func parseNumber(f model.NumberField) (value *float64, apply bool, err error) {
	if !f.Set {
		return nil, false, nil
	}
	if f.Null {
		return nil, true, nil
	}
	raw := strings.TrimSpace(f.Raw)
	if raw == "" {
		return nil, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !finite(v) {
		return nil, false, fmt.Errorf("must be a number")
	}
	return &v, true, nil
}

// applyPatch merges p into req, trimming text and validating every supplied field.
func applyPatch(kc *KindConfig, req *model.Request, p model.Patch) error {
	verr := &domainErrors.ValidationError{}

	if p.Status != nil {
		status := model.Status(strings.ToLower(strings.TrimSpace(string(*p.Status))))
		if kc.HasStatus(status) {
			req.Status = status
		} else {
			verr.Add("status", fmt.Sprintf("%q is not a valid %s status", status, kc.Label))
		}
	}

	required := []struct {
		field string
		src   *string
		dst   *string
	}{
		{"customerName", p.CustomerName, &req.CustomerName},
		{"destination", p.Destination, &req.Destination},
		{"productName", p.ProductName, &req.ProductName},
	}
	for _, f := range required {
		if f.src == nil {
			continue
		}
		v := strings.TrimSpace(*f.src)
		if v == "" {
			verr.Add(f.field, "is required")
			continue
		}
		*f.dst = v
	}

	if p.Email != nil {
		v := strings.TrimSpace(*p.Email)
		checkVar(verr, "email", v, "required,email,max=254")
		req.Email = v
	}

	optional := []struct {
		src *string
		dst *string
	}{
		{p.Company, &req.Company},
		{p.Phone, &req.Phone},
		{p.PaymentMethod, &req.PaymentMethod},
		{p.PaymentDetails, &req.PaymentDetails},
		{p.PaymentReference, &req.PaymentReference},
		{p.AdminComments, &req.AdminComments},
		{p.TrackingNumber, &req.TrackingNumber},
	}
	for _, f := range optional {
		if f.src != nil {
			*f.dst = strings.TrimSpace(*f.src)
		}
	}

	if p.TrackingLink != nil {
		v := strings.TrimSpace(*p.TrackingLink)
		if v != "" {
			checkVar(verr, "trackingLink", v, "url")
		}
		req.TrackingLink = v
	}

	if v, apply, err := parseNumber(p.Quantity); err != nil {
		verr.Add("quantity", err.Error())
	} else if apply {
		switch {
		case v == nil:
			verr.Add("quantity", "cannot be cleared")
		case *v <= 0 || *v != math.Trunc(*v) || *v > math.MaxInt32:
			verr.Add("quantity", "must be a positive whole number")
		default:
			req.Quantity = int(*v)
		}
	}

	prices := []struct {
		field string
		src   model.NumberField
		dst   **float64
	}{
		{"targetPrice", p.TargetPrice, &req.TargetPrice},
		{"proposedUnitPrice", p.ProposedUnitPrice, &req.ProposedUnitPrice},
		{"proposedTotalPrice", p.ProposedTotalPrice, &req.ProposedTotalPrice},
	}
	for _, f := range prices {
		v, apply, err := parseNumber(f.src)
		if err != nil {
			verr.Add(f.field, err.Error())
			continue
		}
		if !apply {
			continue
		}
		if v != nil && *v < 0 {
			verr.Add(f.field, "must be at least 0")
			continue
		}
		*f.dst = v
	}

	return verr.OrNil()
}
