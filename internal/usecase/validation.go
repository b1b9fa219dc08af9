package usecase

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

var requestNumberPattern = regexp.MustCompile(`^[0-9A-Z]{8}$`)

// ValidRequestNumber reports whether number has the shape issued by Allocator.
func ValidRequestNumber(number string) bool {
	return requestNumberPattern.MatchString(number)
}

var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
})

type submission struct {
	CustomerName  string   `json:"customerName" validate:"required,max=200"`
	Company       string   `json:"company" validate:"max=200"`
	Email         string   `json:"email" validate:"required,email,max=254"`
	Phone         string   `json:"phone" validate:"max=50"`
	Destination   string   `json:"destination" validate:"required,max=500"`
	Message       string   `json:"message" validate:"max=5000"`
	ProductID     string   `json:"productId" validate:"max=100"`
	ProductName   string   `json:"productName" validate:"required,max=200"`
	Quantity      int      `json:"quantity" validate:"gt=0"`
	Currency      string   `json:"currency" validate:"iso4217"`
	TargetPrice   *float64 `json:"targetPrice" validate:"omitempty,gte=0"`
	PaymentMethod string   `json:"paymentMethod" validate:"max=100"`
}

// normalizeSubmission trims text fields and applies defaults.
func normalizeSubmission(in model.NewRequest) model.NewRequest {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Company = strings.TrimSpace(in.Company)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Destination = strings.TrimSpace(in.Destination)
	in.Message = strings.TrimSpace(in.Message)
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.Currency == "" {
		in.Currency = "USD"
	}
	return in
}

func validateSubmission(in model.NewRequest) error {
	s := submission{
		CustomerName:  in.CustomerName,
		Company:       in.Company,
		Email:         in.Email,
		Phone:         in.Phone,
		Destination:   in.Destination,
		Message:       in.Message,
		ProductID:     in.ProductID,
		ProductName:   in.ProductName,
		Quantity:      in.Quantity,
		Currency:      in.Currency,
		TargetPrice:   in.TargetPrice,
		PaymentMethod: in.PaymentMethod,
	}
	err := validate().Struct(s)
	if err == nil {
		if s.TargetPrice != nil && !finite(*s.TargetPrice) {
			return domainErrors.NewValidationError("targetPrice", "must be a finite number")
		}
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &domainErrors.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), describe(fe))
	}
	return verr.OrNil()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "iso4217":
		return "must be an ISO 4217 currency code"
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

func checkVar(verr *domainErrors.ValidationError, field string, value any, tag string) {
	if err := validate().Var(value, tag); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			verr.Add(field, describe(fieldErrs[0]))
			return
		}
		verr.Add(field, err.Error())
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
