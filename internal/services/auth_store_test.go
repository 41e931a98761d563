package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"ecomstore/internal/apiclient"
	"ecomstore/internal/mockapi"
	"ecomstore/internal/models"
	"ecomstore/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthStoreLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assert.Equal(t, AuthAnonymous, f.auth.Snapshot().State)

	res := f.auth.Login(ctx, mockapi.DemoCustomerEmail, mockapi.DemoPassword)
	require.True(t, res.Success)
	assert.Equal(t, mockapi.DemoCustomerEmail, res.User.Email)
	assert.True(t, f.auth.IsAuthenticated())
	assert.False(t, f.auth.IsAdmin())

	token, ok, err := f.store.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, token)

	raw, ok, err := f.store.Get(ctx, storage.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	var user models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &user))
	assert.Equal(t, res.User.ID, user.ID)
	assert.Equal(t, models.RoleCustomer, user.Role)
}

func TestAuthStoreLoginFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.auth.Login(ctx, mockapi.DemoCustomerEmail, "wrong")
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid email or password", res.Error)
	assert.Equal(t, AuthAnonymous, f.auth.Snapshot().State)
	assert.Equal(t, 0, f.store.Len())

	f.backend.FailNext("POST", "/auth/login", 500, 1)
	res = f.auth.Login(ctx, mockapi.DemoCustomerEmail, mockapi.DemoPassword)
	assert.False(t, res.Success)
	assert.Equal(t, "Injected failure", res.Error)
}

func TestAuthStoreRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.auth.Register(ctx, "New Shopper", "shopper@x.test", "pw")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, models.RoleCustomer, res.User.Role)
	assert.True(t, f.auth.IsAuthenticated())

	f.auth.Logout(ctx)
	res = f.auth.Register(ctx, "Again", "shopper@x.test", "pw")
	assert.False(t, res.Success)
	assert.Equal(t, "Email already registered", res.Error)
}

func TestAuthStoreLogoutIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, mockapi.DemoCustomerEmail)

	var mu sync.Mutex
	var states []AuthState
	f.auth.Subscribe(func(ctx context.Context, snap AuthSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, snap.State)
	})

	f.auth.Logout(ctx)
	f.auth.Logout(ctx)

	assert.Equal(t, []AuthState{AuthAnonymous}, states)
	assert.Nil(t, f.auth.CurrentUser())
	assert.Equal(t, 0, f.store.Len())
}

func TestAuthStoreInit(t *testing.T) {
	ctx := context.Background()
	userJSON := `{"id":7,"email":"a@b.test","role":"ADMIN"}`

	tests := []struct {
		name      string
		seed      map[string]string
		wantState AuthState
		wantUser  int64
		wantKeys  int
	}{
		{
			name:      "empty storage",
			wantState: AuthAnonymous,
		},
		{
			name:      "unified session",
			seed:      map[string]string{storage.KeyToken: "tok", storage.KeyUser: userJSON},
			wantState: AuthAuthenticated,
			wantUser:  7,
			wantKeys:  2,
		},
		{
			name: "unified session with stale legacy keys",
			seed: map[string]string{
				storage.KeyToken:             "tok",
				storage.KeyUser:              userJSON,
				storage.LegacyKeyAccessToken: "old-tok",
				storage.LegacyKeyUserID:      "7",
			},
			wantState: AuthAuthenticated,
			wantUser:  7,
			wantKeys:  2,
		},
		{
			name:      "unparseable user",
			seed:      map[string]string{storage.KeyToken: "tok", storage.KeyUser: "{not json"},
			wantState: AuthAnonymous,
		},
		{
			name:      "token without user",
			seed:      map[string]string{storage.KeyToken: "tok"},
			wantState: AuthAnonymous,
		},
		{
			name: "legacy session",
			seed: map[string]string{
				storage.LegacyKeyAccessToken:  "legacy-tok",
				storage.LegacyKeyRefreshToken: "r",
				storage.LegacyKeyUserID:       "7",
				storage.LegacyKeyUserEmail:    "a@b.test",
				storage.LegacyKeyUserRole:     "ADMIN",
			},
			wantState: AuthAuthenticated,
			wantUser:  7,
			wantKeys:  2,
		},
		{
			name: "incomplete legacy session",
			seed: map[string]string{
				storage.LegacyKeyAccessToken: "legacy-tok",
				storage.LegacyKeyUserID:      "7",
			},
			wantState: AuthAnonymous,
			wantKeys:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemory()
			for k, v := range tt.seed {
				require.NoError(t, store.Set(ctx, k, v))
			}
			auth := NewAuthStore(nil, store, zerolog.Nop())
			assert.Equal(t, AuthLoading, auth.Snapshot().State)

			require.NoError(t, auth.Init(ctx))

			snap := auth.Snapshot()
			assert.Equal(t, tt.wantState, snap.State)
			if tt.wantUser != 0 {
				require.NotNil(t, snap.User)
				assert.Equal(t, tt.wantUser, snap.User.ID)
				assert.True(t, auth.IsAdmin())
			} else {
				assert.Nil(t, snap.User)
			}
			assert.Equal(t, tt.wantKeys, store.Len())
		})
	}
}

func TestAuthStoreLegacyMigrationWritesUnifiedKeys(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Set(ctx, storage.LegacyKeyAccessToken, "legacy-tok"))
	require.NoError(t, store.Set(ctx, storage.LegacyKeyUserID, "3"))
	require.NoError(t, store.Set(ctx, storage.LegacyKeyUserEmail, "c@d.test"))
	require.NoError(t, store.Set(ctx, storage.LegacyKeyUserRole, "CUSTOMER"))

	auth := NewAuthStore(nil, store, zerolog.Nop())
	require.NoError(t, auth.Init(ctx))

	token, ok, err := store.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "legacy-tok", token)

	for _, key := range storage.LegacyKeys {
		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}

func TestAuthStoreInitRecoversFromCorruptSessionFile(t *testing.T) {
	ctx := context.Background()
	backend := mockapi.NewServer("test-secret", zerolog.Nop())
	require.NoError(t, backend.SeedDemo())
	ts := httptest.NewServer(backend.Router())
	defer ts.Close()

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	store, err := storage.NewFile(path, zerolog.Nop())
	require.NoError(t, err)

	api, err := apiclient.New(ts.URL, store, zerolog.Nop())
	require.NoError(t, err)
	auth := NewAuthStore(api, store, zerolog.Nop())

	require.NoError(t, auth.Init(ctx))
	assert.Equal(t, AuthAnonymous, auth.Snapshot().State)

	categories, err := NewCategoryService(api).All(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, categories)

	res := auth.Login(ctx, mockapi.DemoCustomerEmail, mockapi.DemoPassword)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, AuthAuthenticated, auth.Snapshot().State)

	token, ok, err := store.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)
}

type brokenStorage struct{}

var errBrokenStorage = errors.New("storage unavailable")

func (brokenStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errBrokenStorage
}

func (brokenStorage) Set(context.Context, string, string) error {
	return errBrokenStorage
}

func (brokenStorage) Remove(context.Context, string) error {
	return errBrokenStorage
}

func TestAuthStoreInitStorageFailureSettlesAnonymous(t *testing.T) {
	auth := NewAuthStore(nil, brokenStorage{}, zerolog.Nop())

	var states []AuthState
	auth.Subscribe(func(_ context.Context, snap AuthSnapshot) { states = append(states, snap.State) })

	err := auth.Init(context.Background())
	assert.ErrorIs(t, err, errBrokenStorage)
	assert.Equal(t, AuthAnonymous, auth.Snapshot().State)
	assert.Equal(t, []AuthState{AuthAnonymous}, states)
}

func TestUnauthorizedResponseSignsOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.SetUnauthorizedHandler(f.auth.Logout)
	f.signIn(t, mockapi.DemoCustomerEmail)

	f.backend.FailNext("GET", "/api/cart", 401, 1)
	err := f.cart.Fetch(ctx)
	require.Error(t, err)

	assert.False(t, f.auth.IsAuthenticated())
	assert.Equal(t, CartEmpty, f.cart.Snapshot().State)
}
