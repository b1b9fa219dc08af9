package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// NumberField captures a numeric form field that may arrive as a number,
// a numeric string, an empty string, or null.
type NumberField struct {
	Set  bool
	Null bool
	Raw  string
}

// Number builds a present numeric field.
func Number(v float64) NumberField {
	return NumberField{Set: true, Raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

// NumberText builds a field from raw form input.
func NumberText(raw string) NumberField {
	return NumberField{Set: true, Raw: raw}
}

// NullNumber builds an explicit clear.
func NullNumber() NumberField {
	return NumberField{Set: true, Null: true}
}

func (n *NumberField) UnmarshalJSON(data []byte) error {
	n.Set = true
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		n.Null = true
		n.Raw = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &n.Raw)
	}
	n.Raw = string(trimmed)
	return nil
}

func (n NumberField) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Null {
		return []byte("null"), nil
	}
	return json.Marshal(n.Raw)
}

// Patch is a partial admin update. Nil pointers and unset numbers are left untouched.
type Patch struct {
	Status *Status

	CustomerName *string
	Company      *string
	Email        *string
	Phone        *string
	Destination  *string
	ProductName  *string

	Quantity           NumberField
	TargetPrice        NumberField
	ProposedUnitPrice  NumberField
	ProposedTotalPrice NumberField

	PaymentMethod    *string
	PaymentDetails   *string
	PaymentReference *string

	AdminComments  *string
	TrackingNumber *string
	TrackingLink   *string
}
