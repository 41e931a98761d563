package services

import (
	"context"
	"errors"
	"testing"

	"ecomstore/internal/apiclient"
	"ecomstore/internal/mockapi"
	"ecomstore/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProduct(t *testing.T) {
	svc := NewAdminService(nil, zerolog.Nop())

	err := svc.ValidateProduct(models.ProductRequest{Name: "Lamp", Price: decimal.NewFromInt(10), CategoryID: 1})
	assert.NoError(t, err)

	err = svc.ValidateProduct(models.ProductRequest{StockQuantity: -1})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "price")
	assert.Contains(t, verr.Fields, "stockQuantity")
	assert.Contains(t, verr.Fields, "categoryId")
}

func TestAdminProductLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, mockapi.DemoAdminEmail)
	svc := NewAdminService(f.api, zerolog.Nop())

	p, err := svc.CreateProduct(ctx, models.ProductRequest{Name: "Desk Lamp", Price: decimal.NewFromInt(899), StockQuantity: 4, CategoryID: 1})
	require.NoError(t, err)
	assert.True(t, p.IsActive)

	low, err := svc.LowStock(ctx, 5)
	require.NoError(t, err)
	names := make([]string, 0, len(low))
	for _, l := range low {
		names = append(names, l.Name)
	}
	assert.Contains(t, names, "Desk Lamp")

	p, err = svc.UpdateProduct(ctx, p.ID, models.ProductRequest{Name: "Desk Lamp XL", Price: decimal.NewFromInt(999), CategoryID: 2})
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp XL", p.Name)
	assert.Equal(t, int64(2), p.Category.ID)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	err = svc.DeleteProduct(ctx, p.ID)
	assert.True(t, apiclient.IsNotFound(err))
}

func TestAdminImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, mockapi.DemoAdminEmail)
	svc := NewAdminService(f.api, zerolog.Nop())

	res, err := svc.UploadImages(ctx, 1, []ImageFile{
		{Name: "front.png", ContentType: "image/png", Data: pngHeader},
		{Name: "back.png", ContentType: "image/png", Data: pngHeader},
		{Name: "readme.txt", ContentType: "text/plain", Data: []byte("x")},
	})
	require.NoError(t, err)
	require.Len(t, res.Product.Images, 2)
	require.Len(t, res.Rejected, 1)
	first, ok := res.Product.PrimaryImage()
	require.True(t, ok)

	second := res.Product.Images[1]
	res, err = svc.SetPrimaryImage(ctx, 1, second.ID)
	require.NoError(t, err)
	primary, _ := res.Product.PrimaryImage()
	assert.Equal(t, second.ID, primary.ID)

	res, err = svc.UploadImage(ctx, 1, ImageFile{Name: "side.png", ContentType: "image/png", Data: pngHeader}, true)
	require.NoError(t, err)
	primary, _ = res.Product.PrimaryImage()
	assert.Equal(t, "side.png", primary.OriginalFileName)

	res, err = svc.DeleteImage(ctx, 1, primary.ID)
	require.NoError(t, err)
	assert.Len(t, res.Product.Images, 2)
	_, ok = res.Product.PrimaryImage()
	assert.True(t, ok, "server promotes a remaining image")
	assert.NotEqual(t, 0, first.ID)

	_, err = svc.UploadImages(ctx, 1, []ImageFile{
		{Name: "1.png", ContentType: "image/png", Data: pngHeader},
		{Name: "2.png", ContentType: "image/png", Data: pngHeader},
		{Name: "3.png", ContentType: "image/png", Data: pngHeader},
		{Name: "4.png", ContentType: "image/png", Data: pngHeader},
	})
	assert.ErrorIs(t, err, ErrTooManyImages)
}

func TestAdminUsersAndOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, mockapi.DemoCustomerEmail)
	require.NoError(t, f.cart.AddItem(ctx, 2, 1))
	customer := f.auth.CurrentUser()
	orders := NewOrderService(f.api, zerolog.Nop())
	placed, err := orders.Place(ctx, BuildOrderRequest(customer.ID, f.cart.Snapshot(), validForm()))
	require.NoError(t, err)

	f.auth.Logout(ctx)
	f.signIn(t, mockapi.DemoAdminEmail)
	svc := NewAdminService(f.api, zerolog.Nop())

	all, err := svc.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = svc.UpdateOrderStatus(ctx, placed.ID, "LOST")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	o, err := svc.UpdateOrderStatus(ctx, placed.ID, models.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, o.OrderStatus)

	users, err := svc.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	require.NoError(t, svc.DeleteUser(ctx, customer.ID))
	users, err = svc.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAdminCategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, mockapi.DemoAdminEmail)
	svc := NewAdminService(f.api, zerolog.Nop())
	categories := NewCategoryService(f.api)

	_, err := svc.CreateCategory(ctx, "")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	c, err := svc.CreateCategory(ctx, "Garden")
	require.NoError(t, err)
	c, err = svc.UpdateCategory(ctx, c.ID, "Garden & Outdoor")
	require.NoError(t, err)

	got, err := categories.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Garden & Outdoor", got.Name)

	require.NoError(t, svc.DeleteCategory(ctx, c.ID))
	_, err = categories.Get(ctx, c.ID)
	assert.True(t, apiclient.IsNotFound(err))
}
