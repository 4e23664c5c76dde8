package session

import (
	"context"
	"errors"
	"testing"

	"fooddash/internal/domain/model"
	"fooddash/internal/repository"
	infraRepo "fooddash/internal/infra/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mock
// =====================

type MockLocalStorage struct {
	mock.Mock
}

func (m *MockLocalStorage) GetItem(ctx context.Context, namespace string, key string) (string, error) {
	args := m.Called(ctx, namespace, key)
	return args.String(0), args.Error(1)
}

func (m *MockLocalStorage) SetItem(ctx context.Context, namespace string, key string, value string) error {
	args := m.Called(ctx, namespace, key, value)
	return args.Error(0)
}

func (m *MockLocalStorage) RemoveItem(ctx context.Context, namespace string, key string) error {
	args := m.Called(ctx, namespace, key)
	return args.Error(0)
}

const ns = "device-1"

func sampleCustomer() model.Customer {
	return model.Customer{
		ID:        "c1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Address:   "1 Main St",
		PaymentInfo: []model.PaymentInfo{
			{CardNumber: "4111111111111111", CardHolderName: "Ada", ExpirationDate: "12/30", CVV: "123"},
		},
	}
}

// =====================
// tests
// =====================

func TestStore_LoginPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	storage := infraRepo.NewLocalStorageMemoryRepository()

	s := NewStore[model.Customer](model.RoleCustomer, ns, storage)
	require.NoError(t, s.Login(ctx, sampleCustomer()))

	raw, err := storage.GetItem(ctx, ns, "customer")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"customer": {"id":"c1","firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","phone":"","address":"1 Main St",
			"paymentInfo":[{"cardNumber":"4111111111111111","cardHolderName":"Ada","expirationDate":"12/30","cvv":"123"}]},
		"customerAuthenticated": true
	}`, raw)

	reloaded, err := Load[model.Customer](ctx, model.RoleCustomer, ns, storage)
	require.NoError(t, err)
	assert.Equal(t, s.State(), reloaded.State())

	p, ok := reloaded.Profile()
	require.True(t, ok)
	assert.Equal(t, "c1", p.ID)
}

func TestStore_LogoutRemovesKey(t *testing.T) {
	ctx := context.Background()
	storage := infraRepo.NewLocalStorageMemoryRepository()

	s := NewStore[model.Dasher](model.RoleDasher, ns, storage)
	require.NoError(t, s.Login(ctx, model.Dasher{ID: "d1"}))
	require.NoError(t, s.Logout(ctx))

	assert.False(t, s.Authenticated())
	assert.Nil(t, s.State().Profile)

	_, err := storage.GetItem(ctx, ns, "dasher")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	reloaded, err := Load[model.Dasher](ctx, model.RoleDasher, ns, storage)
	require.NoError(t, err)
	assert.Equal(t, model.AuthSession[model.Dasher]{}, reloaded.State())
}

func TestStore_SetProfileKeepsAuthenticated(t *testing.T) {
	ctx := context.Background()
	storage := infraRepo.NewLocalStorageMemoryRepository()

	s := NewStore[model.Restaurant](model.RoleRestaurant, ns, storage)
	require.NoError(t, s.Login(ctx, model.Restaurant{ID: "r1", Name: "Old"}))
	require.NoError(t, s.SetProfile(ctx, model.Restaurant{ID: "r1", Name: "New"}))

	assert.True(t, s.Authenticated())
	p, _ := s.Profile()
	assert.Equal(t, "New", p.Name)

	reloaded, err := Load[model.Restaurant](ctx, model.RoleRestaurant, ns, storage)
	require.NoError(t, err)
	rp, ok := reloaded.Profile()
	require.True(t, ok)
	assert.Equal(t, "New", rp.Name)
}

func TestStore_SetProfileWhileLoggedOutWritesNothing(t *testing.T) {
	ctx := context.Background()
	storage := new(MockLocalStorage)

	s := NewStore[model.Customer](model.RoleCustomer, ns, storage)
	require.NoError(t, s.SetProfile(ctx, sampleCustomer()))

	assert.False(t, s.Authenticated())
	_, ok := s.Profile()
	assert.False(t, ok)
	storage.AssertNotCalled(t, "SetItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStore_StateIsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore[model.Customer](model.RoleCustomer, ns, infraRepo.NewLocalStorageMemoryRepository())
	require.NoError(t, s.Login(ctx, sampleCustomer()))

	st := s.State()
	st.Profile.FirstName = "changed"

	p, _ := s.Profile()
	assert.Equal(t, "Ada", p.FirstName)
}

func TestLoad_MalformedStorageYieldsDefault(t *testing.T) {
	ctx := context.Background()

	cases := map[string]string{
		"not json":             `{{{`,
		"json array":           `[1,2]`,
		"null":                 `null`,
		"missing flag":         `{"customer":{"id":"c1"}}`,
		"flag wrong type":      `{"customer":{"id":"c1"},"customerAuthenticated":"yes"}`,
		"authenticated no key": `{"customerAuthenticated":true}`,
		"authenticated null":   `{"customer":null,"customerAuthenticated":true}`,
		"profile wrong type":   `{"customer":"c1","customerAuthenticated":true}`,
		"other role's record":  `{"dasher":{"id":"d1"},"dasherAuthenticated":true}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			storage := infraRepo.NewLocalStorageMemoryRepository()
			require.NoError(t, storage.SetItem(ctx, ns, "customer", raw))

			s, err := Load[model.Customer](ctx, model.RoleCustomer, ns, storage)
			require.NoError(t, err)
			assert.Equal(t, model.AuthSession[model.Customer]{}, s.State())
		})
	}
}

func TestLoad_UnauthenticatedRecordIgnoresProfile(t *testing.T) {
	ctx := context.Background()
	storage := infraRepo.NewLocalStorageMemoryRepository()
	require.NoError(t, storage.SetItem(ctx, ns, "customer", `{"customer":{"id":"c1"},"customerAuthenticated":false}`))

	s, err := Load[model.Customer](ctx, model.RoleCustomer, ns, storage)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
	assert.Nil(t, s.State().Profile)
}

func TestLoad_StorageReadError(t *testing.T) {
	ctx := context.Background()
	storage := new(MockLocalStorage)
	boom := errors.New("db down")
	storage.On("GetItem", mock.Anything, ns, "customer").Return("", boom)

	s, err := Load[model.Customer](ctx, model.RoleCustomer, ns, storage)
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, s)
	assert.False(t, s.Authenticated())
}

func TestStore_LoginAppliesStateEvenWhenMirrorFails(t *testing.T) {
	ctx := context.Background()
	storage := new(MockLocalStorage)
	boom := errors.New("write failed")
	storage.On("SetItem", mock.Anything, ns, "customer", mock.AnythingOfType("string")).Return(boom)

	s := NewStore[model.Customer](model.RoleCustomer, ns, storage)
	err := s.Login(ctx, sampleCustomer())

	assert.ErrorIs(t, err, boom)
	assert.True(t, s.Authenticated())
	storage.AssertExpectations(t)
}

func TestSessions_RolesAreIndependent(t *testing.T) {
	ctx := context.Background()
	storage := infraRepo.NewLocalStorageMemoryRepository()

	all, err := LoadAll(ctx, ns, storage)
	require.NoError(t, err)

	require.NoError(t, all.Customer.Login(ctx, sampleCustomer()))
	require.NoError(t, all.Dasher.Login(ctx, model.Dasher{ID: "d1"}))

	assert.True(t, all.Authenticated(model.RoleCustomer))
	assert.True(t, all.Authenticated(model.RoleDasher))
	assert.False(t, all.Authenticated(model.RoleRestaurant))

	require.NoError(t, all.Logout(ctx, model.RoleCustomer))
	assert.False(t, all.Authenticated(model.RoleCustomer))
	assert.True(t, all.Authenticated(model.RoleDasher))

	reloaded, err := LoadAll(ctx, ns, storage)
	require.NoError(t, err)
	v := reloaded.View()
	assert.False(t, v.Customer.Authenticated)
	assert.True(t, v.Dasher.Authenticated)
	assert.Equal(t, "d1", v.Dasher.Profile.ID)
	assert.False(t, v.Restaurant.Authenticated)

	// 端末が違えば見えない
	other, err := LoadAll(ctx, "device-2", storage)
	require.NoError(t, err)
	assert.False(t, other.Authenticated(model.RoleDasher))
}

func TestSessions_LogoutUnknownRole(t *testing.T) {
	all, err := LoadAll(context.Background(), ns, infraRepo.NewLocalStorageMemoryRepository())
	require.NoError(t, err)
	assert.Error(t, all.Logout(context.Background(), model.Role("admin")))
}
