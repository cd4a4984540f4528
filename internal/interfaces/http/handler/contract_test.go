package handler

import (
	"context"
	"net/http"
	"testing"

	contractapp "github.com/adspace/backoffice/internal/application/contract"
	partnerapp "github.com/adspace/backoffice/internal/application/partner"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockContractManager struct {
	ContractManager
	mock.Mock
}

func (m *mockContractManager) Archive(ctx context.Context, id uuid.UUID) (*contractapp.ContractResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contractapp.ContractResponse), args.Error(1)
}

func (m *mockContractManager) AddService(ctx context.Context, contractID, specificationID uuid.UUID, req contractapp.ServiceRequest) (*contractapp.ServiceResponse, error) {
	args := m.Called(ctx, contractID, specificationID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contractapp.ServiceResponse), args.Error(1)
}

func (m *mockContractManager) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newContractEngine(svc ContractManager) *gin.Engine {
	h := NewContractHandler(svc)
	r := gin.New()
	r.DELETE("/contracts/:id", h.Delete)
	r.POST("/contracts/:id/archive", h.Archive)
	r.POST("/contracts/:id/specifications/:specId/services", h.AddService)
	return r
}

func TestContractHandler_Archive(t *testing.T) {
	id := uuid.New()
	svc := new(mockContractManager)
	svc.On("Archive", mock.Anything, id).Return(&contractapp.ContractResponse{ID: id, Status: "ARCHIVE"}, nil)

	w := doJSON(t, newContractEngine(svc), http.MethodPost, "/contracts/"+id.String()+"/archive", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ARCHIVE", decodeResponse(t, w).Data.(map[string]any)["status"])
}

func TestContractHandler_AddService(t *testing.T) {
	id, specID := uuid.New(), uuid.New()
	svc := new(mockContractManager)
	svc.On("AddService", mock.Anything, id, specID, mock.MatchedBy(func(r contractapp.ServiceRequest) bool {
		return r.BillingType == "MONTHLY" && r.Amount.String() == "15000"
	})).Return(&contractapp.ServiceResponse{ID: uuid.New()}, nil)
	r := newContractEngine(svc)

	path := "/contracts/" + id.String() + "/specifications/" + specID.String() + "/services"
	w := doJSON(t, r, http.MethodPost, path,
		`{"description":"Аренда LED-экрана","billing_type":"MONTHLY","amount":"15000","service_type":"PLACEMENT"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, path, `{"description":"x","billing_type":"WEEKLY","service_type":"PLACEMENT"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/contracts/"+id.String()+"/specifications/bad/services", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "AddService", 1)
}

func TestContractHandler_DeleteInUse(t *testing.T) {
	id := uuid.New()
	svc := new(mockContractManager)
	svc.On("Delete", mock.Anything, id).Return(shared.NewDomainError("CONTRACT_IN_USE", "Contract has realizations or payments"))

	w := doJSON(t, newContractEngine(svc), http.MethodDelete, "/contracts/"+id.String(), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

type mockCounterpartyManager struct {
	CounterpartyManager
	mock.Mock
}

func (m *mockCounterpartyManager) Create(ctx context.Context, req partnerapp.CounterpartyRequest) (*partnerapp.CounterpartyResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CounterpartyResponse), args.Error(1)
}

func TestCounterpartyHandler_Create(t *testing.T) {
	svc := new(mockCounterpartyManager)
	svc.On("Create", mock.Anything, mock.MatchedBy(func(r partnerapp.CounterpartyRequest) bool {
		return r.INN == "7701234567"
	})).Return(nil, shared.NewDomainError("INN_ALREADY_EXISTS", "Counterparty with this INN already exists"))

	h := NewCounterpartyHandler(svc)
	r := gin.New()
	r.POST("/counterparties", h.Create)

	w := doJSON(t, r, http.MethodPost, "/counterparties",
		`{"type":"LLC","full_name":"ООО Ромашка","inn":"7701234567","contacts":[{"name":"Анна","email":"anna@romashka.ru"}]}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INN_ALREADY_EXISTS", decodeResponse(t, w).Error.Code)

	w = doJSON(t, r, http.MethodPost, "/counterparties", `{"type":"LLC","full_name":"ООО Ромашка","contacts":[{"email":"nope"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
