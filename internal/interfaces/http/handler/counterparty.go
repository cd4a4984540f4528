package handler

import (
	"context"

	partnerapp "github.com/adspace/backoffice/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CounterpartyManager manages counterparties
type CounterpartyManager interface {
	Create(ctx context.Context, req partnerapp.CounterpartyRequest) (*partnerapp.CounterpartyResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*partnerapp.CounterpartyResponse, error)
	List(ctx context.Context, filter partnerapp.CounterpartyListFilter) ([]partnerapp.CounterpartyResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req partnerapp.CounterpartyRequest) (*partnerapp.CounterpartyResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CounterpartyHandler handles counterparty endpoints
type CounterpartyHandler struct {
	BaseHandler
	service CounterpartyManager
}

// NewCounterpartyHandler creates a new CounterpartyHandler
func NewCounterpartyHandler(service CounterpartyManager) *CounterpartyHandler {
	return &CounterpartyHandler{service: service}
}

// List GET /counterparties
func (h *CounterpartyHandler) List(c *gin.Context) {
	var filter partnerapp.CounterpartyListFilter
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

// Get GET /counterparties/:id
func (h *CounterpartyHandler) Get(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	cp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cp)
}

// Create POST /counterparties
func (h *CounterpartyHandler) Create(c *gin.Context) {
	var req partnerapp.CounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	cp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cp)
}

// Update PUT /counterparties/:id
func (h *CounterpartyHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.CounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	cp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cp)
}

// Delete DELETE /counterparties/:id
func (h *CounterpartyHandler) Delete(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
