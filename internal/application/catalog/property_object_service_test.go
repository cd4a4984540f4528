package catalog

import (
	"context"
	"testing"

	"github.com/adspace/backoffice/internal/domain/catalog"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPropertyObjectRepository struct {
	mock.Mock
}

func (m *MockPropertyObjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.PropertyObject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.PropertyObject), args.Error(1)
}

func (m *MockPropertyObjectRepository) FindAll(ctx context.Context, filter catalog.PropertyObjectFilter) ([]catalog.PropertyObject, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.PropertyObject), args.Get(1).(int64), args.Error(2)
}

func (m *MockPropertyObjectRepository) Save(ctx context.Context, obj *catalog.PropertyObject) error {
	return m.Called(ctx, obj).Error(0)
}

func (m *MockPropertyObjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPropertyObjectRepository) CountServiceReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func TestPropertyObjectService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPropertyObjectRepository)
	svc := NewPropertyObjectService(repo, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*catalog.PropertyObject")).Return(nil)

	resp, err := svc.Create(ctx, PropertyObjectRequest{Name: "Экран у входа", Type: "LED_SCREEN", Location: "Вход А"})
	require.NoError(t, err)
	assert.Equal(t, "LED-экран", resp.TypeLabel)

	_, err = svc.Create(ctx, PropertyObjectRequest{Name: "Экран", Type: "HOLOGRAM"})
	assert.Error(t, err)
	repo.AssertNumberOfCalls(t, "Save", 1)
}

func TestPropertyObjectService_Delete(t *testing.T) {
	ctx := context.Background()
	obj, err := catalog.NewPropertyObject("Павильон 1", catalog.PropertyObjectTypePavilion, "", "")
	require.NoError(t, err)

	t.Run("in use", func(t *testing.T) {
		repo := new(MockPropertyObjectRepository)
		svc := NewPropertyObjectService(repo, nil)
		repo.On("FindByID", ctx, obj.ID).Return(obj, nil)
		repo.On("CountServiceReferences", ctx, obj.ID).Return(int64(1), nil)

		err := svc.Delete(ctx, obj.ID)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "PROPERTY_OBJECT_IN_USE", de.Code)
	})

	t.Run("unused", func(t *testing.T) {
		repo := new(MockPropertyObjectRepository)
		svc := NewPropertyObjectService(repo, nil)
		repo.On("FindByID", ctx, obj.ID).Return(obj, nil)
		repo.On("CountServiceReferences", ctx, obj.ID).Return(int64(0), nil)
		repo.On("Delete", ctx, obj.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, obj.ID))
		repo.AssertExpectations(t)
	})
}

func TestPropertyObjectService_List_DefaultsToNameOrder(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPropertyObjectRepository)
	svc := NewPropertyObjectService(repo, nil)
	repo.On("FindAll", ctx, mock.MatchedBy(func(f catalog.PropertyObjectFilter) bool {
		return f.OrderBy == "name" && f.OrderDir == "asc" && f.Type != nil && *f.Type == catalog.PropertyObjectTypePavilion
	})).Return([]catalog.PropertyObject{}, int64(0), nil)

	items, total, err := svc.List(ctx, PropertyObjectListFilter{Type: "PAVILION"})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)

	_, _, err = svc.List(ctx, PropertyObjectListFilter{Type: "nope"})
	assert.Error(t, err)
}

func TestPropertyObjectService_Dictionaries(t *testing.T) {
	d := NewPropertyObjectService(nil, nil).Dictionaries()
	assert.Len(t, d.PropertyObjectTypes, len(catalog.AllPropertyObjectTypes()))
	assert.Len(t, d.ServiceTypes, len(catalog.AllServiceTypes()))
	assert.Len(t, d.BusinessCategories, len(catalog.AllBusinessCategories()))
	for _, e := range d.ServiceTypes {
		assert.NotEmpty(t, e.Label, e.Code)
	}
}
