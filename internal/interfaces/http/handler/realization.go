package handler

import (
	"context"
	"net/http"

	billingapp "github.com/adspace/backoffice/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RealizationGenerator runs monthly realization generation
type RealizationGenerator interface {
	GenerateForMonth(ctx context.Context, month string, trigger billingapp.Trigger) (*billingapp.GenerateResult, error)
}

// RealizationManager reads and edits realizations
type RealizationManager interface {
	GetByID(ctx context.Context, id uuid.UUID) (*billingapp.RealizationResponse, error)
	List(ctx context.Context, filter billingapp.RealizationListFilter) ([]billingapp.RealizationResponse, int64, error)
	Create(ctx context.Context, req billingapp.CreateRealizationRequest) (*billingapp.RealizationResponse, error)
	UpdateService(ctx context.Context, realizationID, serviceID uuid.UUID, req billingapp.ServiceLineRequest) (*billingapp.RealizationResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Export(ctx context.Context, month string) (*billingapp.ExportFile, error)
}

// RealizationHandler handles realization endpoints
type RealizationHandler struct {
	BaseHandler
	generator RealizationGenerator
	service   RealizationManager
}

// NewRealizationHandler creates a new RealizationHandler
func NewRealizationHandler(generator RealizationGenerator, service RealizationManager) *RealizationHandler {
	return &RealizationHandler{generator: generator, service: service}
}

// GenerateRequest selects the period to generate
type GenerateRequest struct {
	Period string `json:"period" binding:"required"` // YYYY-MM
}

// Generate creates the AUTO realizations of a period.
// POST /realizations/generate
func (h *RealizationHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	result, err := h.generator.GenerateForMonth(c.Request.Context(), req.Period, billingapp.TriggerAPI)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns realizations matching the query filter.
// GET /realizations
func (h *RealizationHandler) List(c *gin.Context) {
	var filter billingapp.RealizationListFilter
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

// Get returns one realization with its service lines.
// GET /realizations/:id
func (h *RealizationHandler) Get(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	r, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// Create records a MANUAL or ONCE realization.
// POST /realizations
func (h *RealizationHandler) Create(c *gin.Context) {
	var req billingapp.CreateRealizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	r, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, r)
}

// UpdateService edits one service line; the payment status is recomputed.
// PUT /realizations/:id/services/:serviceId
func (h *RealizationHandler) UpdateService(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	serviceID, ok := h.pathUUID(c, "serviceId")
	if !ok {
		return
	}
	var req billingapp.ServiceLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	r, err := h.service.UpdateService(c.Request.Context(), id, serviceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// Delete removes an unpaid realization.
// DELETE /realizations/:id
func (h *RealizationHandler) Delete(c *gin.Context) {
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

// Export streams the realizations of a period as a spreadsheet.
// GET /realizations/export?period=YYYY-MM
func (h *RealizationHandler) Export(c *gin.Context) {
	period := c.Query("period")
	if period == "" {
		h.BadRequest(c, "period is required")
		return
	}
	file, err := h.service.Export(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
