package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"ecomstore/internal/apiclient"
	"ecomstore/internal/mockapi"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartStoreRequiresSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.NoError(t, f.cart.Fetch(ctx))
	assert.ErrorIs(t, f.cart.AddItem(ctx, 1, 1), ErrNotAuthenticated)
	assert.ErrorIs(t, f.cart.Clear(ctx), ErrNotAuthenticated)
	assert.ErrorIs(t, f.cart.SetItemQuantity(ctx, 1, 1, 2), ErrNotAuthenticated)
}

func TestCartStoreFetchMissingCartIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, mockapi.DemoCustomerEmail)

	require.NoError(t, f.cart.Fetch(context.Background()))
	snap := f.cart.Snapshot()
	assert.Equal(t, CartEmpty, snap.State)
	assert.Empty(t, snap.Items)
	assert.True(t, snap.Total.IsZero())
	assert.Empty(t, snap.Error)
}

func TestCartStoreAddItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, mockapi.DemoCustomerEmail)

	assert.ErrorIs(t, f.cart.AddItem(ctx, 1, 0), ErrInvalidQuantity)

	require.NoError(t, f.cart.AddItem(ctx, 1, 2))
	require.NoError(t, f.cart.AddItem(ctx, 6, 1))
	require.NoError(t, f.cart.AddItem(ctx, 1, 1))

	snap := f.cart.Snapshot()
	assert.Equal(t, CartReady, snap.State)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, 4, f.cart.ItemCount())
	assert.True(t, decimal.NewFromInt(1499*3+2499).Equal(f.cart.Total()), f.cart.Total().String())
	assert.False(t, snap.Busy)
}

func TestCartStoreAddItemFailureRecordsMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, mockapi.DemoCustomerEmail)

	err := f.cart.AddItem(ctx, 999, 1)
	require.Error(t, err)
	assert.True(t, apiclient.IsNotFound(err))

	snap := f.cart.Snapshot()
	assert.Equal(t, CartError, snap.State)
	assert.Equal(t, "Product not found", snap.Error)
}

func TestCartStoreRemoveAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, mockapi.DemoCustomerEmail)
	require.NoError(t, f.cart.AddItem(ctx, 1, 1))
	require.NoError(t, f.cart.AddItem(ctx, 2, 1))

	item := f.cart.Snapshot().Items[0]
	require.NoError(t, f.cart.RemoveItem(ctx, item.ID))
	assert.Len(t, f.cart.Snapshot().Items, 1)

	userID := f.auth.CurrentUser().ID
	fetches := f.backend.Calls("GET", fmt.Sprintf("/api/cart/cart-details/%d", userID))
	require.NoError(t, f.cart.Clear(ctx))
	assert.Equal(t, fetches, f.backend.Calls("GET", fmt.Sprintf("/api/cart/cart-details/%d", userID)), "clear does not refetch")

	snap := f.cart.Snapshot()
	assert.Equal(t, CartEmpty, snap.State)
	assert.Equal(t, 0, snap.ItemCount)
	assert.True(t, snap.Total.IsZero())
}

func TestCartStoreSetItemQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, mockapi.DemoCustomerEmail)
	require.NoError(t, f.cart.AddItem(ctx, 1, 1))
	item := f.cart.Snapshot().Items[0]

	require.NoError(t, f.cart.SetItemQuantity(ctx, item.ID, 1, 5))
	snap := f.cart.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 5, snap.Items[0].Quantity)

	require.NoError(t, f.cart.SetItemQuantity(ctx, snap.Items[0].ID, 1, 0))
	assert.Equal(t, CartEmpty, f.cart.Snapshot().State)
}

func TestCartStoreSetItemQuantityRetriesReAdd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, mockapi.DemoCustomerEmail)
	require.NoError(t, f.cart.AddItem(ctx, 1, 1))
	item := f.cart.Snapshot().Items[0]

	addPath := fmt.Sprintf("/api/cart/%d/add-to-cart/1", f.auth.CurrentUser().ID)
	f.backend.FailNext("POST", addPath, 503, 2)

	require.NoError(t, f.cart.SetItemQuantity(ctx, item.ID, 1, 3))
	assert.Equal(t, 3, f.cart.ItemCount())
}

func TestCartStoreSetItemQuantityIncomplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, mockapi.DemoCustomerEmail)
	require.NoError(t, f.cart.AddItem(ctx, 1, 1))
	require.NoError(t, f.cart.AddItem(ctx, 2, 1))
	item := f.cart.Snapshot().Items[0]

	addPath := fmt.Sprintf("/api/cart/%d/add-to-cart/1", f.auth.CurrentUser().ID)
	f.backend.FailNext("POST", addPath, 503, 10)
	before := f.backend.Calls("POST", addPath)

	err := f.cart.SetItemQuantity(ctx, item.ID, 1, 4)
	var incomplete *IncompleteUpdateError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, item.ID, incomplete.ItemID)
	assert.Equal(t, int64(1), incomplete.ProductID)
	assert.Equal(t, 3, f.backend.Calls("POST", addPath)-before)

	snap := f.cart.Snapshot()
	require.Len(t, snap.Items, 1, "local state mirrors the server after refetch")
	assert.Equal(t, int64(2), snap.Items[0].Product.ID)
	assert.Equal(t, CartError, snap.State)
}

func TestCartStoreResetsOnLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, mockapi.DemoCustomerEmail)
	require.NoError(t, f.cart.AddItem(ctx, 1, 2))

	f.auth.Logout(ctx)
	assert.Equal(t, 0, f.cart.ItemCount())

	f.signIn(t, mockapi.DemoCustomerEmail)
	assert.Equal(t, 2, f.cart.ItemCount(), "cart is fetched on sign in")
}

func TestCartStoreConcurrentAdds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, mockapi.DemoCustomerEmail)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.cart.AddItem(ctx, 1, 1))
		}()
	}
	wg.Wait()

	require.NoError(t, f.cart.Fetch(ctx))
	assert.Equal(t, 5, f.cart.ItemCount())
	assert.False(t, f.cart.Snapshot().Busy)
}
