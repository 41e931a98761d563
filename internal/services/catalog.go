package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"ecomstore/internal/apiclient"
	"ecomstore/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const DefaultPageSize = 12

type CatalogService struct {
	api    *apiclient.Client
	logger zerolog.Logger
}

func NewCatalogService(api *apiclient.Client, logger zerolog.Logger) *CatalogService {
	return &CatalogService{api: api, logger: logger}
}

// Page returns one zero-based page of the catalog as the server reports it.
func (s *CatalogService) Page(ctx context.Context, page, size int) (*models.Page[models.Product], error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	var out models.Page[models.Product]
	if _, err := s.api.Get(ctx, fmt.Sprintf("/api/products/page?page=%d&size=%d", page, size), &out); err != nil {
		return nil, fmt.Errorf("failed to fetch product page %d: %w", page, err)
	}
	return &out, nil
}

func (s *CatalogService) All(ctx context.Context) ([]models.Product, error) {
	return s.list(ctx, "/api/products/all")
}

func (s *CatalogService) Search(ctx context.Context, name string) ([]models.Product, error) {
	return s.list(ctx, "/api/products/search?name="+url.QueryEscape(name))
}

func (s *CatalogService) ByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	return s.list(ctx, fmt.Sprintf("/api/products/category/%d", categoryID))
}

func (s *CatalogService) ByBrand(ctx context.Context, brand string) ([]models.Product, error) {
	return s.list(ctx, "/api/products/brand/"+url.PathEscape(brand))
}

func (s *CatalogService) ByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]models.Product, error) {
	q := url.Values{}
	q.Set("minPrice", minPrice.String())
	q.Set("maxPrice", maxPrice.String())
	return s.list(ctx, "/api/products/price-range?"+q.Encode())
}

// Filter sends only the criteria that are set.
func (s *CatalogService) Filter(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	q := url.Values{}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	if f.Brand != "" {
		q.Set("brand", f.Brand)
	}
	if f.CategoryID != 0 {
		q.Set("categoryId", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.MinPrice != nil {
		q.Set("minPrice", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", f.MaxPrice.String())
	}
	if f.IsActive != nil {
		q.Set("isActive", strconv.FormatBool(*f.IsActive))
	}
	path := "/api/products/filter"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return s.list(ctx, path)
}

func (s *CatalogService) Product(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	if _, err := s.api.Get(ctx, fmt.Sprintf("/api/products/product/%d", id), &p); err != nil {
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	return &p, nil
}

func (s *CatalogService) Images(ctx context.Context, productID int64) ([]models.ProductImage, error) {
	var out []models.ProductImage
	if _, err := s.api.Get(ctx, fmt.Sprintf("/api/images/products/%d", productID), &out); err != nil {
		return nil, fmt.Errorf("failed to fetch images of product %d: %w", productID, err)
	}
	return out, nil
}

func (s *CatalogService) PrimaryImage(ctx context.Context, productID int64) (*models.ProductImage, error) {
	var out models.ProductImage
	if _, err := s.api.Get(ctx, fmt.Sprintf("/api/images/products/%d/primary", productID), &out); err != nil {
		return nil, fmt.Errorf("failed to fetch primary image of product %d: %w", productID, err)
	}
	return &out, nil
}

func (s *CatalogService) list(ctx context.Context, path string) ([]models.Product, error) {
	out := []models.Product{}
	if _, err := s.api.Get(ctx, path, &out); err != nil {
		s.logger.Debug().Err(err).Str("path", path).Msg("Product query failed")
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return out, nil
}

type CategoryService struct {
	api *apiclient.Client
}

func NewCategoryService(api *apiclient.Client) *CategoryService {
	return &CategoryService{api: api}
}

func (s *CategoryService) All(ctx context.Context) ([]models.Category, error) {
	out := []models.Category{}
	if _, err := s.api.Get(ctx, "/api/categories/all", &out); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return out, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	if _, err := s.api.Get(ctx, fmt.Sprintf("/api/categories/category/%d/category", id), &c); err != nil {
		return nil, fmt.Errorf("failed to fetch category %d: %w", id, err)
	}
	return &c, nil
}

type OrderService struct {
	api    *apiclient.Client
	logger zerolog.Logger
}

func NewOrderService(api *apiclient.Client, logger zerolog.Logger) *OrderService {
	return &OrderService{api: api, logger: logger}
}

func (s *OrderService) Place(ctx context.Context, req models.OrderRequest) (*models.Order, error) {
	var o models.Order
	if _, err := s.api.Post(ctx, "/api/orders/place-order", req, &o); err != nil {
		s.logger.Error().Err(err).Int64("user_id", req.UserID).Msg("Failed to place order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	s.logger.Info().Int64("order_id", o.ID).Int64("user_id", req.UserID).Msg("Order placed")
	return &o, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	if _, err := s.api.Get(ctx, fmt.Sprintf("/api/orders/order/%d", id), &o); err != nil {
		return nil, fmt.Errorf("failed to fetch order %d: %w", id, err)
	}
	return &o, nil
}

func (s *OrderService) ForUser(ctx context.Context, userID int64) ([]models.Order, error) {
	out := []models.Order{}
	if _, err := s.api.Get(ctx, fmt.Sprintf("/api/orders/user/%d/orders", userID), &out); err != nil {
		return nil, fmt.Errorf("failed to fetch orders of user %d: %w", userID, err)
	}
	return out, nil
}

func (s *OrderService) OrderPDF(ctx context.Context, id int64) (*apiclient.Document, error) {
	return s.document(ctx, fmt.Sprintf("/api/orders/%d/download-pdf", id), fmt.Sprintf("order-%d.pdf", id))
}

func (s *OrderService) InvoicePDF(ctx context.Context, id int64) (*apiclient.Document, error) {
	return s.document(ctx, fmt.Sprintf("/api/orders/%d/download-invoice", id), fmt.Sprintf("invoice-%d.pdf", id))
}

func (s *OrderService) document(ctx context.Context, path, name string) (*apiclient.Document, error) {
	doc, err := s.api.Download(ctx, path, name)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", name, err)
	}
	return doc, nil
}
