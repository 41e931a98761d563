package services

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"ecomstore/internal/apiclient"
	"ecomstore/internal/mockapi"
	"ecomstore/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	backend *mockapi.Server
	store   *storage.Memory
	api     *apiclient.Client
	auth    *AuthStore
	cart    *CartStore
}

var fastRetry = RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffFactor: 2}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := mockapi.NewServer("test-secret", zerolog.Nop())
	require.NoError(t, backend.SeedDemo())
	ts := httptest.NewServer(backend.Router())
	t.Cleanup(ts.Close)

	store := storage.NewMemory()
	api, err := apiclient.New(ts.URL, store, zerolog.Nop())
	require.NoError(t, err)

	auth := NewAuthStore(api, store, zerolog.Nop())
	cart := NewCartStore(api, auth, zerolog.Nop(), WithRetry(fastRetry))
	auth.Subscribe(cart.OnAuthChange)
	require.NoError(t, auth.Init(context.Background()))

	return &fixture{backend: backend, store: store, api: api, auth: auth, cart: cart}
}

func (f *fixture) signIn(t *testing.T, email string) {
	t.Helper()
	res := f.auth.Login(context.Background(), email, mockapi.DemoPassword)
	require.True(t, res.Success, res.Error)
}
