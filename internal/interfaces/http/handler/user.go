package handler

import (
	"context"

	identityapp "github.com/adspace/backoffice/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserManager manages back office users
type UserManager interface {
	Create(ctx context.Context, req identityapp.CreateUserRequest) (*identityapp.UserResponse, error)
	List(ctx context.Context, page, pageSize int) ([]identityapp.UserResponse, int64, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*identityapp.UserResponse, error)
}

// UserHandler handles user endpoints
type UserHandler struct {
	BaseHandler
	service UserManager
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserManager) *UserHandler {
	return &UserHandler{service: service}
}

type userListQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// List GET /users
func (h *UserHandler) List(c *gin.Context) {
	var q userListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}
	items, total, err := h.service.List(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(q.Page, q.PageSize)
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// Create POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req identityapp.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	u, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, u)
}

// SetActive PUT /users/:id/active
func (h *UserHandler) SetActive(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	u, err := h.service.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, u)
}
