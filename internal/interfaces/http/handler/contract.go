package handler

import (
	"context"

	contractapp "github.com/adspace/backoffice/internal/application/contract"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContractManager manages contracts and their specifications
type ContractManager interface {
	Create(ctx context.Context, req contractapp.CreateContractRequest) (*contractapp.ContractResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*contractapp.ContractResponse, error)
	List(ctx context.Context, filter contractapp.ContractListFilter) ([]contractapp.ContractResponse, int64, error)
	Archive(ctx context.Context, id uuid.UUID) (*contractapp.ContractResponse, error)
	Activate(ctx context.Context, id uuid.UUID) (*contractapp.ContractResponse, error)
	AddSpecification(ctx context.Context, contractID uuid.UUID, req contractapp.SpecificationRequest) (*contractapp.SpecificationResponse, error)
	AddService(ctx context.Context, contractID, specificationID uuid.UUID, req contractapp.ServiceRequest) (*contractapp.ServiceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContractHandler handles contract endpoints
type ContractHandler struct {
	BaseHandler
	service ContractManager
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(service ContractManager) *ContractHandler {
	return &ContractHandler{service: service}
}

// List GET /contracts
func (h *ContractHandler) List(c *gin.Context) {
	var filter contractapp.ContractListFilter
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

// Get GET /contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	ct, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ct)
}

// Create POST /contracts
func (h *ContractHandler) Create(c *gin.Context) {
	var req contractapp.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	ct, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ct)
}

// Archive POST /contracts/:id/archive
func (h *ContractHandler) Archive(c *gin.Context) {
	h.changeStatus(c, h.service.Archive)
}

// Activate POST /contracts/:id/activate
func (h *ContractHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.service.Activate)
}

func (h *ContractHandler) changeStatus(c *gin.Context, apply func(context.Context, uuid.UUID) (*contractapp.ContractResponse, error)) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	ct, err := apply(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ct)
}

// AddSpecification POST /contracts/:id/specifications
func (h *ContractHandler) AddSpecification(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req contractapp.SpecificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	spec, err := h.service.AddSpecification(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, spec)
}

// AddService POST /contracts/:id/specifications/:specId/services
func (h *ContractHandler) AddService(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	specID, ok := h.pathUUID(c, "specId")
	if !ok {
		return
	}
	var req contractapp.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	svc, err := h.service.AddService(c.Request.Context(), id, specID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, svc)
}

// Delete DELETE /contracts/:id
func (h *ContractHandler) Delete(c *gin.Context) {
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
