package identity

import (
	"context"
	"strings"
	"time"

	"github.com/adspace/backoffice/internal/domain/identity"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateUserRequest creates a back office user
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=120"`
	Name     string `json:"name" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,oneof=ADMIN MANAGER"`
}

// UserResponse represents a user in API responses; the password hash never leaves the service
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// UserService manages back office users and managers
type UserService struct {
	repo   identity.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo identity.UserRepository, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{repo: repo, logger: log}
}

// Create creates a user with a unique email
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	u, err := identity.NewUser(req.Email, req.Name, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("EMAIL_ALREADY_EXISTS", "A user with this email already exists")
	}
	if err := u.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("User created",
		zap.String("user_id", u.ID.String()),
		zap.String("role", string(u.Role)),
	)
	resp := toUserResponse(u)
	return &resp, nil
}

// EnsureUser returns the user with the given email, creating it when missing.
// The second result is true when a new user was created.
func (s *UserService) EnsureUser(ctx context.Context, req CreateUserRequest) (*UserResponse, bool, error) {
	existing, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		resp := toUserResponse(existing)
		return &resp, false, nil
	}
	resp, err := s.Create(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return resp, true, nil
}

// List returns users ordered by name
func (s *UserService) List(ctx context.Context, page, pageSize int) ([]UserResponse, int64, error) {
	f := shared.DefaultFilter()
	f.OrderBy, f.OrderDir = "name", "asc"
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	items, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserResponse, 0, len(items))
	for i := range items {
		out = append(out, toUserResponse(&items[i]))
	}
	return out, total, nil
}

// SetActive activates or deactivates a user
func (s *UserService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*UserResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if active {
		u.Activate()
	} else {
		u.Deactivate()
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}
	resp := toUserResponse(u)
	return &resp, nil
}
