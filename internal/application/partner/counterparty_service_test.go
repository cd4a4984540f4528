package partner

import (
	"context"
	"testing"

	"github.com/adspace/backoffice/internal/domain/partner"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCounterpartyRepository struct {
	mock.Mock
}

func (m *MockCounterpartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Counterparty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Counterparty), args.Error(1)
}

func (m *MockCounterpartyRepository) FindByINN(ctx context.Context, inn string) (*partner.Counterparty, error) {
	args := m.Called(ctx, inn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Counterparty), args.Error(1)
}

func (m *MockCounterpartyRepository) FindAll(ctx context.Context, filter partner.CounterpartyFilter) ([]partner.Counterparty, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Counterparty), args.Get(1).(int64), args.Error(2)
}

func (m *MockCounterpartyRepository) Save(ctx context.Context, c *partner.Counterparty) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCounterpartyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCounterpartyRepository) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func validRequest() CounterpartyRequest {
	return CounterpartyRequest{
		Type:      "LLC",
		FullName:  "ООО Ромашка",
		BrandName: "Ромашка",
		INN:       "7701234567",
		Contacts:  []ContactRequest{{Name: "Анна", Phone: "+7 900 000-00-00"}},
	}
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

func TestCounterpartyService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates counterparty", func(t *testing.T) {
		repo := new(MockCounterpartyRepository)
		svc := NewCounterpartyService(repo, nil)
		repo.On("FindByINN", ctx, "7701234567").Return(nil, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Counterparty")).Return(nil)

		resp, err := svc.Create(ctx, validRequest())
		require.NoError(t, err)
		assert.Equal(t, "LLC", resp.Type)
		assert.Len(t, resp.Contacts, 1)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate INN", func(t *testing.T) {
		repo := new(MockCounterpartyRepository)
		svc := NewCounterpartyService(repo, nil)
		other, err := partner.NewCounterparty(partner.CounterpartyTypeLLC, "ООО Другая", "", "7701234567")
		require.NoError(t, err)
		repo.On("FindByINN", ctx, "7701234567").Return(other, nil)

		_, err = svc.Create(ctx, validRequest())
		assert.Equal(t, "INN_ALREADY_EXISTS", codeOf(t, err))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("INN length must match legal form", func(t *testing.T) {
		repo := new(MockCounterpartyRepository)
		svc := NewCounterpartyService(repo, nil)
		req := validRequest()
		req.Type = "IP"

		_, err := svc.Create(ctx, req)
		assert.Equal(t, "INVALID_INN", codeOf(t, err))
	})
}

func TestCounterpartyService_Update_KeepsOwnINN(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCounterpartyRepository)
	svc := NewCounterpartyService(repo, nil)
	cp, err := partner.NewCounterparty(partner.CounterpartyTypeLLC, "ООО Ромашка", "", "7701234567")
	require.NoError(t, err)
	repo.On("FindByID", ctx, cp.ID).Return(cp, nil)
	repo.On("FindByINN", ctx, "7701234567").Return(cp, nil)
	repo.On("Save", ctx, cp).Return(nil)

	req := validRequest()
	req.Notes = "Оплата до 5 числа"
	resp, err := svc.Update(ctx, cp.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Оплата до 5 числа", resp.Notes)
	assert.Equal(t, "Ромашка", resp.BrandName)
}

func TestCounterpartyService_Delete(t *testing.T) {
	ctx := context.Background()
	cp, err := partner.NewCounterparty(partner.CounterpartyTypeIP, "ИП Иванов", "", "")
	require.NoError(t, err)

	t.Run("in use", func(t *testing.T) {
		repo := new(MockCounterpartyRepository)
		svc := NewCounterpartyService(repo, nil)
		repo.On("FindByID", ctx, cp.ID).Return(cp, nil)
		repo.On("CountReferences", ctx, cp.ID).Return(int64(2), nil)

		err := svc.Delete(ctx, cp.ID)
		assert.Equal(t, "COUNTERPARTY_IN_USE", codeOf(t, err))
	})

	t.Run("free", func(t *testing.T) {
		repo := new(MockCounterpartyRepository)
		svc := NewCounterpartyService(repo, nil)
		repo.On("FindByID", ctx, cp.ID).Return(cp, nil)
		repo.On("CountReferences", ctx, cp.ID).Return(int64(0), nil)
		repo.On("Delete", ctx, cp.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, cp.ID))
		repo.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(MockCounterpartyRepository)
		svc := NewCounterpartyService(repo, nil)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, nil)

		assert.Equal(t, "COUNTERPARTY_NOT_FOUND", codeOf(t, svc.Delete(ctx, id)))
	})
}

func TestCounterpartyService_List_RejectsUnknownType(t *testing.T) {
	svc := NewCounterpartyService(new(MockCounterpartyRepository), nil)
	_, _, err := svc.List(context.Background(), CounterpartyListFilter{Type: "LTD"})
	assert.Equal(t, "INVALID_COUNTERPARTY_TYPE", codeOf(t, err))
}
