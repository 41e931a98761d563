package services

import (
	"context"
	"testing"

	"ecomstore/internal/apiclient"
	"ecomstore/internal/mockapi"
	"ecomstore/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogPage(t *testing.T) {
	f := newFixture(t)
	svc := NewCatalogService(f.api, zerolog.Nop())

	page, err := svc.Page(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Content, 6)
	assert.Equal(t, DefaultPageSize, page.Size)
	assert.Equal(t, 1, page.PageCount())

	page, err = svc.Page(context.Background(), 5, 4)
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, 2, page.TotalPages)
}

func TestCatalogQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCatalogService(f.api, zerolog.Nop())

	found, err := svc.Search(ctx, "smart")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Smart Watch", found[0].Name)

	byBrand, err := svc.ByBrand(ctx, "JBL")
	require.NoError(t, err)
	assert.Len(t, byBrand, 1)

	byCategory, err := svc.ByCategory(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	ranged, err := svc.ByPriceRange(ctx, decimal.NewFromInt(2000), decimal.NewFromInt(6000))
	require.NoError(t, err)
	assert.Len(t, ranged, 3)

	minPrice, maxPrice := decimal.NewFromInt(1000), decimal.NewFromInt(2000)
	filtered, err := svc.Filter(ctx, models.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice, CategoryID: 1})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Wireless Earbuds", filtered[0].Name)

	all, err := svc.Filter(ctx, models.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 6)

	p, err := svc.Product(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Bluetooth Speaker", p.Name)

	_, err = svc.Product(ctx, 404)
	assert.True(t, apiclient.IsNotFound(err))

	images, err := svc.Images(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, images)

	_, err = svc.PrimaryImage(ctx, 3)
	assert.True(t, apiclient.IsNotFound(err))
}

func TestOrderHistoryAndDocuments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, mockapi.DemoCustomerEmail)
	require.NoError(t, f.cart.AddItem(ctx, 1, 1))
	svc := NewOrderService(f.api, zerolog.Nop())
	user := f.auth.CurrentUser()

	placed, err := svc.Place(ctx, BuildOrderRequest(user.ID, f.cart.Snapshot(), validForm()))
	require.NoError(t, err)

	got, err := svc.Get(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, got.ID)

	history, err := svc.ForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	doc, err := svc.OrderPDF(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "order-1.pdf", doc.FileName)

	doc, err = svc.InvoicePDF(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "invoice-1.pdf", doc.FileName)
}
