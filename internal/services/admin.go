package services

import (
	"context"
	"fmt"
	"strconv"

	"ecomstore/internal/apiclient"
	"ecomstore/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const DefaultLowStockThreshold = 10

type AdminService struct {
	api      *apiclient.Client
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewAdminService(api *apiclient.Client, logger zerolog.Logger) *AdminService {
	return &AdminService{api: api, validate: newValidator(), logger: logger}
}

// ValidateProduct checks a create/update payload before it is sent.
func (s *AdminService) ValidateProduct(req models.ProductRequest) error {
	verr := &ValidationError{Fields: map[string]string{}}
	if err := s.validate.Struct(req); err != nil {
		converted := toValidationError(err)
		ve, ok := converted.(*ValidationError)
		if !ok {
			return converted
		}
		verr = ve
	}
	if !req.Price.IsPositive() {
		verr.Fields["price"] = "must be greater than 0"
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (s *AdminService) CreateProduct(ctx context.Context, req models.ProductRequest) (*models.Product, error) {
	if err := s.ValidateProduct(req); err != nil {
		return nil, err
	}
	var p models.Product
	if _, err := s.api.Post(ctx, "/api/products/add", req, &p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.logger.Info().Int64("product_id", p.ID).Str("name", p.Name).Msg("Product created")
	return &p, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, id int64, req models.ProductRequest) (*models.Product, error) {
	if err := s.ValidateProduct(req); err != nil {
		return nil, err
	}
	var p models.Product
	if _, err := s.api.Put(ctx, fmt.Sprintf("/api/products/product/%d/update", id), req, &p); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	s.logger.Info().Int64("product_id", id).Msg("Product updated")
	return &p, nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.api.Delete(ctx, fmt.Sprintf("/api/products/product/%d/delete", id), nil); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	s.logger.Info().Int64("product_id", id).Msg("Product deleted")
	return nil
}

// DashboardStats summarizes the catalog for the admin overview.
// InventoryValue is the sum of price times stock over every product.
type DashboardStats struct {
	Products       int             `json:"products"`
	Categories     int             `json:"categories"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
}

func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	products := []models.Product{}
	if _, err := s.api.Get(ctx, "/api/products/all", &products); err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	categories := []models.Category{}
	if _, err := s.api.Get(ctx, "/api/categories/all", &categories); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	stats := &DashboardStats{Products: len(products), Categories: len(categories)}
	for _, p := range products {
		stats.InventoryValue = stats.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
	}
	return stats, nil
}

// LowStock asks the server for products at or below threshold.
func (s *AdminService) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	out := []models.Product{}
	if _, err := s.api.Get(ctx, "/api/products/low-stock?threshold="+strconv.Itoa(threshold), &out); err != nil {
		return nil, fmt.Errorf("failed to fetch low stock products: %w", err)
	}
	return out, nil
}

func (s *AdminService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	req := models.CategoryRequest{Name: name}
	if err := s.validate.Struct(req); err != nil {
		return nil, toValidationError(err)
	}
	var c models.Category
	if _, err := s.api.Post(ctx, "/api/categories/add", req, &c); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &c, nil
}

func (s *AdminService) UpdateCategory(ctx context.Context, id int64, name string) (*models.Category, error) {
	req := models.CategoryRequest{Name: name}
	if err := s.validate.Struct(req); err != nil {
		return nil, toValidationError(err)
	}
	var c models.Category
	if _, err := s.api.Put(ctx, fmt.Sprintf("/api/categories/category/%d/update", id), req, &c); err != nil {
		return nil, fmt.Errorf("failed to update category %d: %w", id, err)
	}
	return &c, nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.api.Delete(ctx, fmt.Sprintf("/api/categories/category/%d/delete", id), nil); err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	return nil
}

// UploadResult is the refetched product after an image mutation.
type UploadResult struct {
	Product  *models.Product `json:"product"`
	Rejected []RejectedImage `json:"rejected,omitempty"`
}

func (s *AdminService) UploadImage(ctx context.Context, productID int64, file ImageFile, primary bool) (*UploadResult, error) {
	product, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	valid, rejected, err := ValidateImages([]ImageFile{file}, len(product.Images))
	if err != nil {
		return nil, err
	}
	if len(valid) == 0 {
		return &UploadResult{Product: product, Rejected: rejected}, nil
	}

	path := fmt.Sprintf("/api/images/products/%d/upload?isPrimary=%t", productID, primary)
	if _, err := s.api.PostMultipart(ctx, path, toParts("file", valid), nil); err != nil {
		return nil, fmt.Errorf("failed to upload image for product %d: %w", productID, err)
	}
	return s.refetch(ctx, productID, rejected)
}

// UploadImages sends the valid subset of files in one request.
func (s *AdminService) UploadImages(ctx context.Context, productID int64, files []ImageFile) (*UploadResult, error) {
	product, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	valid, rejected, err := ValidateImages(files, len(product.Images))
	if err != nil {
		return nil, err
	}
	if len(valid) == 0 {
		return &UploadResult{Product: product, Rejected: rejected}, nil
	}

	path := fmt.Sprintf("/api/images/products/%d/upload-multiple", productID)
	if _, err := s.api.PostMultipart(ctx, path, toParts("files", valid), nil); err != nil {
		return nil, fmt.Errorf("failed to upload images for product %d: %w", productID, err)
	}
	s.logger.Info().Int64("product_id", productID).Int("uploaded", len(valid)).Int("rejected", len(rejected)).Msg("Images uploaded")
	return s.refetch(ctx, productID, rejected)
}

func (s *AdminService) DeleteImage(ctx context.Context, productID, imageID int64) (*UploadResult, error) {
	if _, err := s.api.Delete(ctx, fmt.Sprintf("/api/images/%d", imageID), nil); err != nil {
		return nil, fmt.Errorf("failed to delete image %d: %w", imageID, err)
	}
	return s.refetch(ctx, productID, nil)
}

func (s *AdminService) SetPrimaryImage(ctx context.Context, productID, imageID int64) (*UploadResult, error) {
	if _, err := s.api.Put(ctx, fmt.Sprintf("/api/images/products/%d/primary/%d", productID, imageID), nil, nil); err != nil {
		return nil, fmt.Errorf("failed to set primary image %d: %w", imageID, err)
	}
	return s.refetch(ctx, productID, nil)
}

func (s *AdminService) Users(ctx context.Context) ([]models.User, error) {
	out := []models.User{}
	if _, err := s.api.Get(ctx, "/api/users/all", &out); err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return out, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.api.Delete(ctx, fmt.Sprintf("/api/users/delete/%d", id), nil); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	s.logger.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}

func (s *AdminService) Orders(ctx context.Context) ([]models.Order, error) {
	out := []models.Order{}
	if _, err := s.api.Get(ctx, "/api/orders/all", &out); err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return out, nil
}

func (s *AdminService) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"status": "unknown order status"}}
	}
	var o models.Order
	if _, err := s.api.Put(ctx, fmt.Sprintf("/api/orders/%d/status", id), models.OrderStatusRequest{Status: status}, &o); err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", id, err)
	}
	return &o, nil
}

func (s *AdminService) product(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	if _, err := s.api.Get(ctx, fmt.Sprintf("/api/products/product/%d", id), &p); err != nil {
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	return &p, nil
}

// refetch reloads the product; the server decides which image is primary.
func (s *AdminService) refetch(ctx context.Context, productID int64, rejected []RejectedImage) (*UploadResult, error) {
	p, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &UploadResult{Product: p, Rejected: rejected}, nil
}

func toParts(field string, files []ImageFile) []apiclient.FilePart {
	parts := make([]apiclient.FilePart, 0, len(files))
	for _, f := range files {
		parts = append(parts, apiclient.FilePart{
			FieldName:   field,
			FileName:    f.Name,
			ContentType: f.ContentType,
			Data:        f.Data,
		})
	}
	return parts
}
