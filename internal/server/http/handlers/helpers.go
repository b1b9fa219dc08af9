package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
	pkgAuth "github.com/polkiloo/leatherdesk/internal/pkg/auth"
	"github.com/polkiloo/leatherdesk/internal/server/http/dto"
	"github.com/polkiloo/leatherdesk/internal/server/http/middleware"
)

// CurrentSession extracts the signed-in admin from context.
func CurrentSession(c *gin.Context) (pkgAuth.Session, bool) {
	val, ok := c.Get(middleware.SessionContextKey)
	if !ok {
		return pkgAuth.Session{}, false
	}
	session, ok := val.(pkgAuth.Session)
	return session, ok
}

// writeError maps domain errors to HTTP responses. Internal detail never leaves the process.
const retryAfterSeconds = "1"

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *domainErrors.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domainErrors.ErrValidation.Error(), Fields: verr.Fields})
	case errors.Is(err, domainErrors.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domainErrors.ErrValidation.Error()})
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: domainErrors.ErrInvalidTransition.Error()})
	case errors.Is(err, domainErrors.ErrNotFound), errors.Is(err, domainErrors.ErrUnknownKind):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		// request numbers kept colliding; a fresh attempt draws new ones
		c.Header("Retry-After", retryAfterSeconds)
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "request number unavailable, retry later"})
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: domainErrors.ErrInvalidCredentials.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: message})
}

func toRequestResponse(r *model.Request) dto.RequestResponse {
	return dto.RequestResponse{
		ID:                 r.ID,
		Kind:               string(r.Kind),
		RequestNumber:      r.RequestNumber,
		Status:             string(r.Status),
		CustomerName:       r.CustomerName,
		Company:            r.Company,
		Email:              r.Email,
		Phone:              r.Phone,
		Destination:        r.Destination,
		Message:            r.Message,
		ProductID:          r.ProductID,
		ProductName:        r.ProductName,
		Quantity:           r.Quantity,
		Currency:           r.Currency,
		TargetPrice:        r.TargetPrice,
		ProposedUnitPrice:  r.ProposedUnitPrice,
		ProposedTotalPrice: r.ProposedTotalPrice,
		PaymentMethod:      r.PaymentMethod,
		PaymentDetails:     r.PaymentDetails,
		PaymentReference:   r.PaymentReference,
		InvoiceID:          r.InvoiceID,
		AdminComments:      r.AdminComments,
		TrackingNumber:     r.TrackingNumber,
		TrackingLink:       r.TrackingLink,
		ShippedAt:          r.ShippedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func toTrackResponse(r *model.Request) dto.TrackResponse {
	return dto.TrackResponse{
		Kind:               string(r.Kind),
		RequestNumber:      r.RequestNumber,
		Status:             string(r.Status),
		ProductName:        r.ProductName,
		Quantity:           r.Quantity,
		Currency:           r.Currency,
		ProposedUnitPrice:  r.ProposedUnitPrice,
		ProposedTotalPrice: r.ProposedTotalPrice,
		TrackingNumber:     r.TrackingNumber,
		TrackingLink:       r.TrackingLink,
		ShippedAt:          r.ShippedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func toWarnings(warnings []model.Warning) []dto.WarningResponse {
	out := make([]dto.WarningResponse, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, dto.WarningResponse{Field: w.Field, Code: w.Code, Message: w.Message})
	}
	return out
}
