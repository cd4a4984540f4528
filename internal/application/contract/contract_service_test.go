package contract

import (
	"context"
	"testing"
	"time"

	"github.com/adspace/backoffice/internal/domain/catalog"
	"github.com/adspace/backoffice/internal/domain/contract"
	"github.com/adspace/backoffice/internal/domain/identity"
	"github.com/adspace/backoffice/internal/domain/partner"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*contract.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contract.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByNumber(ctx context.Context, number string) (*contract.Contract, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contract.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAll(ctx context.Context, filter contract.Filter) ([]contract.Contract, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]contract.Contract), args.Get(1).(int64), args.Error(2)
}

func (m *MockContractRepository) FindActiveForPeriod(ctx context.Context, start, end time.Time) ([]contract.Contract, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]contract.Contract), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, c *contract.Contract) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContractRepository) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

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

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Save(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

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

type fixture struct {
	contracts      *MockContractRepository
	counterparties *MockCounterpartyRepository
	users          *MockUserRepository
	objects        *MockPropertyObjectRepository
	svc            *ContractService
}

func newFixture() *fixture {
	f := &fixture{
		contracts:      new(MockContractRepository),
		counterparties: new(MockCounterpartyRepository),
		users:          new(MockUserRepository),
		objects:        new(MockPropertyObjectRepository),
	}
	f.svc = NewContractService(f.contracts, f.counterparties, f.users, f.objects, nil)
	return f
}

func newManager(t *testing.T) *identity.User {
	t.Helper()
	u, err := identity.NewUser("manager@test.com", "Борис", identity.RoleManager)
	require.NoError(t, err)
	return u
}

func newCounterparty(t *testing.T) *partner.Counterparty {
	t.Helper()
	cp, err := partner.NewCounterparty(partner.CounterpartyTypeLLC, "Рога и копыта", "", "7701234567")
	require.NoError(t, err)
	return cp
}

func newContract(t *testing.T) *contract.Contract {
	t.Helper()
	c, err := contract.NewContract("Д-1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		uuid.New(), uuid.New(), catalog.BusinessCategoryDrinks)
	require.NoError(t, err)
	return c
}

func createRequest(cpID, managerID uuid.UUID) CreateContractRequest {
	return CreateContractRequest{
		Number:         "Д-1",
		Date:           "2025-01-10",
		PavilionNumber: "12",
		CounterpartyID: cpID,
		ManagerID:      managerID,
		Category:       "DRINKS",
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

func TestContractService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active contract", func(t *testing.T) {
		f := newFixture()
		cp, mgr := newCounterparty(t), newManager(t)
		f.counterparties.On("FindByID", mock.Anything, cp.ID).Return(cp, nil)
		f.users.On("FindByID", mock.Anything, mgr.ID).Return(mgr, nil)
		f.contracts.On("FindByNumber", mock.Anything, "Д-1").Return(nil, nil)
		f.contracts.On("Save", mock.Anything, mock.AnythingOfType("*contract.Contract")).Return(nil)

		resp, err := f.svc.Create(ctx, createRequest(cp.ID, mgr.ID))
		require.NoError(t, err)
		assert.Equal(t, "ACTIVE", resp.Status)
		assert.Equal(t, "12", resp.PavilionNumber)
		assert.Equal(t, "Напитки", resp.CategoryLabel)
		assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), resp.Date)
		f.contracts.AssertExpectations(t)
	})

	t.Run("unknown counterparty", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.counterparties.On("FindByID", mock.Anything, id).Return(nil, nil)

		_, err := f.svc.Create(ctx, createRequest(id, uuid.New()))
		assertCode(t, err, "COUNTERPARTY_NOT_FOUND")
		f.contracts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("inactive manager", func(t *testing.T) {
		f := newFixture()
		cp, mgr := newCounterparty(t), newManager(t)
		mgr.Deactivate()
		f.counterparties.On("FindByID", mock.Anything, cp.ID).Return(cp, nil)
		f.users.On("FindByID", mock.Anything, mgr.ID).Return(mgr, nil)

		_, err := f.svc.Create(ctx, createRequest(cp.ID, mgr.ID))
		assertCode(t, err, "MANAGER_NOT_FOUND")
	})

	t.Run("duplicate number", func(t *testing.T) {
		f := newFixture()
		cp, mgr := newCounterparty(t), newManager(t)
		f.counterparties.On("FindByID", mock.Anything, cp.ID).Return(cp, nil)
		f.users.On("FindByID", mock.Anything, mgr.ID).Return(mgr, nil)
		f.contracts.On("FindByNumber", mock.Anything, "Д-1").Return(newContract(t), nil)

		_, err := f.svc.Create(ctx, createRequest(cp.ID, mgr.ID))
		assertCode(t, err, "CONTRACT_NUMBER_EXISTS")
	})

	t.Run("application end before contract date", func(t *testing.T) {
		f := newFixture()
		req := createRequest(uuid.New(), uuid.New())
		req.AppEndDate = "2024-12-31"

		_, err := f.svc.Create(ctx, req)
		assertCode(t, err, "INVALID_APP_END_DATE")
	})

	t.Run("bad date", func(t *testing.T) {
		f := newFixture()
		req := createRequest(uuid.New(), uuid.New())
		req.Date = "10.01.2025"

		_, err := f.svc.Create(ctx, req)
		assert.Error(t, err)
	})
}

func TestContractService_SpecificationsAndServices(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c := newContract(t)
	f.contracts.On("FindByID", ctx, c.ID).Return(c, nil)
	f.contracts.On("Save", ctx, c).Return(nil)

	spec, err := f.svc.AddSpecification(ctx, c.ID, SpecificationRequest{
		Number:    "1",
		StartDate: "2025-01-15",
		EndDate:   "2025-06-30",
	})
	require.NoError(t, err)
	assert.Equal(t, "1", spec.Number)

	t.Run("adds a monthly service", func(t *testing.T) {
		svc, err := f.svc.AddService(ctx, c.ID, spec.ID, ServiceRequest{
			Description: "Размещение на LED-экране",
			BillingType: "MONTHLY",
			Amount:      decimal.NewFromInt(15000),
			ServiceType: "PLACEMENT",
			StartDate:   "2025-02-01",
		})
		require.NoError(t, err)
		assert.True(t, svc.Amount.Equal(decimal.NewFromInt(15000)))
		require.Len(t, c.Specifications[0].Services, 1)
	})

	t.Run("service dates outside specification", func(t *testing.T) {
		_, err := f.svc.AddService(ctx, c.ID, spec.ID, ServiceRequest{
			Description: "Монтаж",
			BillingType: "ONE_TIME",
			Amount:      decimal.NewFromInt(500),
			ServiceType: "INSTALLATION",
			EndDate:     "2025-07-15",
		})
		assertCode(t, err, "SERVICE_OUTSIDE_SPECIFICATION")
	})

	t.Run("unknown property object", func(t *testing.T) {
		objID := uuid.New()
		f.objects.On("FindByID", ctx, objID).Return(nil, nil)

		_, err := f.svc.AddService(ctx, c.ID, spec.ID, ServiceRequest{
			Description:      "Баннер",
			BillingType:      "MONTHLY",
			Amount:           decimal.NewFromInt(100),
			ServiceType:      "PLACEMENT",
			PropertyObjectID: &objID,
		})
		assertCode(t, err, "PROPERTY_OBJECT_NOT_FOUND")
	})

	t.Run("unknown specification", func(t *testing.T) {
		_, err := f.svc.AddService(ctx, c.ID, uuid.New(), ServiceRequest{})
		assertCode(t, err, "SPECIFICATION_NOT_FOUND")
	})
}

func TestContractService_ArchiveActivate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c := newContract(t)
	f.contracts.On("FindByID", ctx, c.ID).Return(c, nil)
	f.contracts.On("Save", ctx, c).Return(nil)

	resp, err := f.svc.Archive(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "ARCHIVE", resp.Status)

	_, err = f.svc.Archive(ctx, c.ID)
	assertCode(t, err, "INVALID_STATE")

	resp, err = f.svc.Activate(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", resp.Status)
}

func TestContractService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses when referenced", func(t *testing.T) {
		f := newFixture()
		c := newContract(t)
		f.contracts.On("FindByID", ctx, c.ID).Return(c, nil)
		f.contracts.On("CountReferences", ctx, c.ID).Return(int64(3), nil)

		err := f.svc.Delete(ctx, c.ID)
		assertCode(t, err, "CONTRACT_IN_USE")
		f.contracts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes unreferenced contract", func(t *testing.T) {
		f := newFixture()
		c := newContract(t)
		f.contracts.On("FindByID", ctx, c.ID).Return(c, nil)
		f.contracts.On("CountReferences", ctx, c.ID).Return(int64(0), nil)
		f.contracts.On("Delete", ctx, c.ID).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, c.ID))
		f.contracts.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.contracts.On("FindByID", ctx, id).Return(nil, nil)

		assertCode(t, f.svc.Delete(ctx, id), "CONTRACT_NOT_FOUND")
	})
}

func TestContractService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c := newContract(t)
	f.contracts.On("FindAll", ctx, mock.MatchedBy(func(df contract.Filter) bool {
		return df.Status != nil && *df.Status == contract.StatusActive && df.OrderBy == "date"
	})).Return([]contract.Contract{*c}, int64(1), nil)

	items, total, err := f.svc.List(ctx, ContractListFilter{Status: "ACTIVE"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Д-1", items[0].Number)
}
