package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
	"github.com/polkiloo/leatherdesk/internal/server/http/dto"
)

// RequestHandler serves one request kind.
type RequestHandler struct {
	facade RequestFacade
	kind   model.Kind
}

// NewRequestHandler constructs RequestHandler bound to kind.
func NewRequestHandler(facade RequestFacade, kind model.Kind) *RequestHandler {
	return &RequestHandler{facade: facade, kind: kind}
}

// Submit handles the public POST of a new request.
func (h *RequestHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	in, err := toNewRequest(req)
	if err != nil {
		writeError(c, err)
		return
	}

	created, err := h.facade.SubmitRequest(c.Request.Context(), h.kind, in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitResponse{
		ID:            created.ID,
		RequestNumber: created.RequestNumber,
		Status:        string(created.Status),
	})
}

// List handles GET of the admin collection.
func (h *RequestHandler) List(c *gin.Context) {
	q := model.ListQuery{
		Filter: model.RequestFilter{Search: c.Query("search")},
		SortBy: c.Query("sortBy"),
		Order:  model.SortOrder(strings.ToLower(c.Query("order"))),
	}

	var err error
	if q.Page, err = queryInt(c, "page"); err != nil {
		writeError(c, domainErrors.NewValidationError("page", "must be an integer"))
		return
	}
	if q.Limit, err = queryInt(c, "limit"); err != nil {
		writeError(c, domainErrors.NewValidationError("limit", "must be an integer"))
		return
	}
	for _, raw := range strings.Split(c.Query("status"), ",") {
		if s := strings.ToLower(strings.TrimSpace(raw)); s != "" {
			q.Filter.Statuses = append(q.Filter.Statuses, model.Status(s))
		}
	}

	page, err := h.facade.ListRequests(c.Request.Context(), h.kind, q)
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]dto.RequestResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toRequestResponse(&page.Items[i]))
	}
	c.JSON(http.StatusOK, dto.ListResponse{Items: items, Total: page.Total, Page: page.Page, Limit: page.Limit})
}

// Get handles GET of a single request by id.
func (h *RequestHandler) Get(c *gin.Context) {
	req, err := h.facade.GetRequest(c.Request.Context(), h.kind, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRequestResponse(req))
}

// Update handles PATCH of a request.
func (h *RequestHandler) Update(c *gin.Context) {
	var body dto.PatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	updated, warnings, err := h.facade.UpdateRequest(c.Request.Context(), h.kind, c.Param("id"), toPatch(body))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UpdateResponse{Request: toRequestResponse(updated), Warnings: toWarnings(warnings)})
}

// Delete handles DELETE of a request.
func (h *RequestHandler) Delete(c *gin.Context) {
	deleted, err := h.facade.DeleteRequest(c.Request.Context(), h.kind, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !deleted {
		writeError(c, domainErrors.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// AttachInvoice handles POST /api/admin/quote-requests/:id/invoice.
func (h *RequestHandler) AttachInvoice(c *gin.Context) {
	var body dto.InvoiceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, domainErrors.NewValidationError("invoiceId", "is required"))
		return
	}

	updated, err := h.facade.AttachInvoice(c.Request.Context(), c.Param("id"), body.InvoiceID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRequestResponse(updated))
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func toNewRequest(req dto.SubmitRequest) (model.NewRequest, error) {
	verr := &domainErrors.ValidationError{}

	quantity, err := formNumber(req.Quantity)
	if err != nil {
		verr.Add("quantity", err.Error())
	}
	target, err := formNumber(req.TargetPrice)
	if err != nil {
		verr.Add("targetPrice", err.Error())
	}

	in := model.NewRequest{
		CustomerName:  req.CustomerName,
		Company:       req.Company,
		Email:         req.Email,
		Phone:         req.Phone,
		Destination:   req.Destination,
		Message:       req.Message,
		ProductID:     req.ProductID,
		ProductName:   req.ProductName,
		Currency:      req.Currency,
		TargetPrice:   target,
		PaymentMethod: req.PaymentMethod,
	}
	if quantity != nil {
		if *quantity != math.Trunc(*quantity) || *quantity > math.MaxInt32 {
			verr.Add("quantity", "must be a whole number")
		} else {
			in.Quantity = int(*quantity)
		}
	}

	if err := verr.OrNil(); err != nil {
		return model.NewRequest{}, err
	}
	return in, nil
}

// formNumber treats null and empty strings as absent.
func formNumber(f model.NumberField) (*float64, error) {
	raw := strings.TrimSpace(f.Raw)
	if !f.Set || f.Null || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errNotANumber
	}
	return &v, nil
}

var errNotANumber = errors.New("must be a number")

func toPatch(body dto.PatchRequest) model.Patch {
	p := model.Patch{
		CustomerName:       body.CustomerName,
		Company:            body.Company,
		Email:              body.Email,
		Phone:              body.Phone,
		Destination:        body.Destination,
		ProductName:        body.ProductName,
		Quantity:           body.Quantity,
		TargetPrice:        body.TargetPrice,
		ProposedUnitPrice:  body.ProposedUnitPrice,
		ProposedTotalPrice: body.ProposedTotalPrice,
		PaymentMethod:      body.PaymentMethod,
		PaymentDetails:     body.PaymentDetails,
		PaymentReference:   body.PaymentReference,
		AdminComments:      body.AdminComments,
		TrackingNumber:     body.TrackingNumber,
		TrackingLink:       body.TrackingLink,
	}
	if body.Status != nil {
		status := model.Status(*body.Status)
		p.Status = &status
	}
	return p
}
