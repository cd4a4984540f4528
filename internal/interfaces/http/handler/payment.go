package handler

import (
	"context"

	financeapp "github.com/adspace/backoffice/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentManager records payments and their allocations
type PaymentManager interface {
	GetByID(ctx context.Context, id uuid.UUID) (*financeapp.PaymentResponse, error)
	List(ctx context.Context, filter financeapp.PaymentListFilter) ([]financeapp.PaymentResponse, int64, error)
	Create(ctx context.Context, req financeapp.PaymentRequest) (*financeapp.PaymentResult, error)
	Update(ctx context.Context, id uuid.UUID, req financeapp.PaymentRequest) (*financeapp.PaymentResult, error)
	Delete(ctx context.Context, id uuid.UUID) (*financeapp.DeleteResult, error)
}

// PaymentHandler handles payment endpoints. Create, update and delete answer
// with the realizations whose paid amount changed.
type PaymentHandler struct {
	BaseHandler
	service PaymentManager
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service PaymentManager) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// List GET /payments
func (h *PaymentHandler) List(c *gin.Context) {
	var filter financeapp.PaymentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}
	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// Get GET /payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Create POST /payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var req financeapp.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Update PUT /payments/:id
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	result, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete DELETE /payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	result, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
