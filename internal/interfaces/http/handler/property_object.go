package handler

import (
	"context"

	catalogapp "github.com/adspace/backoffice/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PropertyObjectManager manages leasable property objects
type PropertyObjectManager interface {
	Create(ctx context.Context, req catalogapp.PropertyObjectRequest) (*catalogapp.PropertyObjectResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.PropertyObjectResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.PropertyObjectRequest) (*catalogapp.PropertyObjectResponse, error)
	List(ctx context.Context, filter catalogapp.PropertyObjectListFilter) ([]catalogapp.PropertyObjectResponse, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Dictionaries() catalogapp.Dictionaries
}

// PropertyObjectHandler handles property object and dictionary endpoints
type PropertyObjectHandler struct {
	BaseHandler
	service PropertyObjectManager
}

// NewPropertyObjectHandler creates a new PropertyObjectHandler
func NewPropertyObjectHandler(service PropertyObjectManager) *PropertyObjectHandler {
	return &PropertyObjectHandler{service: service}
}

// List GET /property-objects
func (h *PropertyObjectHandler) List(c *gin.Context) {
	var filter catalogapp.PropertyObjectListFilter
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

// Get GET /property-objects/:id
func (h *PropertyObjectHandler) Get(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	obj, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, obj)
}

// Create POST /property-objects
func (h *PropertyObjectHandler) Create(c *gin.Context) {
	var req catalogapp.PropertyObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	obj, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, obj)
}

// Update PUT /property-objects/:id
func (h *PropertyObjectHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.PropertyObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	obj, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, obj)
}

// Delete DELETE /property-objects/:id
func (h *PropertyObjectHandler) Delete(c *gin.Context) {
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

// Dictionaries GET /dictionaries
func (h *PropertyObjectHandler) Dictionaries(c *gin.Context) {
	h.Success(c, h.service.Dictionaries())
}
