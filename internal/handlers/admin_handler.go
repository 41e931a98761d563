package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"ecomstore/internal/currency"
	"ecomstore/internal/models"
	"ecomstore/internal/services"

	"github.com/rs/zerolog"
)

const (
	maxUploadMemory = 32 << 20
	// one request may carry a full product's worth of images plus form overhead
	maxUploadBody = services.MaxProductImages*services.MaxImageBytes + 1<<20
)

type AdminHandler struct {
	admin         *services.AdminService
	notifications *services.NotificationService
	logger        zerolog.Logger
}

func NewAdminHandler(admin *services.AdminService, notifications *services.NotificationService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, notifications: notifications, logger: logger}
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.admin.CreateProduct(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to create product")
		return
	}
	respondWithJSON(w, http.StatusCreated, p)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_product_id", "Invalid product ID")
		return
	}
	var req models.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.admin.UpdateProduct(r.Context(), id, req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to update product")
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_product_id", "Invalid product ID")
		return
	}
	if err := h.admin.DeleteProduct(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to delete product")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// UploadImages accepts multipart field "files" (or a single "file"). One
// file with ?primary=true becomes the primary image.
func (h *AdminHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_product_id", "Invalid product ID")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "upload_too_large", "Upload exceeds the allowed size")
			return
		}
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Expected a multipart form")
		return
	}

	form := r.MultipartForm.File
	headers := make([]*multipart.FileHeader, 0, len(form["files"])+len(form["file"]))
	headers = append(headers, form["files"]...)
	headers = append(headers, form["file"]...)
	if len(headers) == 0 {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "No files uploaded")
		return
	}
	files := make([]services.ImageFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readImage(fh)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Unreadable file "+fh.Filename)
			return
		}
		files = append(files, f)
	}

	primary, _ := strconv.ParseBool(r.URL.Query().Get("primary"))
	var res *services.UploadResult
	var err error
	if len(files) == 1 {
		res, err = h.admin.UploadImage(r.Context(), id, files[0], primary)
	} else {
		res, err = h.admin.UploadImages(r.Context(), id, files)
	}
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to upload images")
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func readImage(fh *multipart.FileHeader) (services.ImageFile, error) {
	f, err := fh.Open()
	if err != nil {
		return services.ImageFile{}, err
	}
	defer f.Close()
	// one byte past the limit is enough for the size check to reject it
	data, err := io.ReadAll(io.LimitReader(f, services.MaxImageBytes+1))
	if err != nil {
		return services.ImageFile{}, err
	}
	return services.ImageFile{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}

func (h *AdminHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok1 := pathID(r, "id")
	imageID, ok2 := pathID(r, "imageId")
	if !ok1 || !ok2 {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid product or image ID")
		return
	}
	res, err := h.admin.DeleteImage(r.Context(), id, imageID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to delete image")
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (h *AdminHandler) SetPrimaryImage(w http.ResponseWriter, r *http.Request) {
	id, ok1 := pathID(r, "id")
	imageID, ok2 := pathID(r, "imageId")
	if !ok1 || !ok2 {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid product or image ID")
		return
	}
	res, err := h.admin.SetPrimaryImage(r.Context(), id, imageID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to set primary image")
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.admin.CreateCategory(r.Context(), req.Name)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to create category")
		return
	}
	respondWithJSON(w, http.StatusCreated, c)
}

func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_category_id", "Invalid category ID")
		return
	}
	var req models.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.admin.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to update category")
		return
	}
	respondWithJSON(w, http.StatusOK, c)
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_category_id", "Invalid category ID")
		return
	}
	if err := h.admin.DeleteCategory(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to delete category")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}

type notificationsResponse struct {
	Notifications []services.Notification      `json:"notifications"`
	Summary       services.NotificationSummary `json:"summary"`
}

// Notifications counts severities over the unfiltered list.
func (h *AdminHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	list, err := h.notifications.Notifications(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load notifications")
		return
	}
	filtered := services.FilterNotifications(list, r.URL.Query().Get("filter"))
	if filtered == nil {
		filtered = []services.Notification{}
	}
	respondWithJSON(w, http.StatusOK, notificationsResponse{
		Notifications: filtered,
		Summary:       services.Summarize(list),
	})
}

func (h *AdminHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold, _ := strconv.Atoi(r.URL.Query().Get("threshold"))
	products, err := h.admin.LowStock(r.Context(), threshold)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load low stock products")
		return
	}
	respondWithJSON(w, http.StatusOK, products)
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.Users(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load users")
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID")
		return
	}
	if err := h.admin.DeleteUser(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to delete user")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

type dashboardResponse struct {
	*services.DashboardStats
	InventoryValueCompact string `json:"inventoryValueCompact"`
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Dashboard(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load dashboard")
		return
	}
	respondWithJSON(w, http.StatusOK, dashboardResponse{
		DashboardStats:        stats,
		InventoryValueCompact: currency.FormatCompact(stats.InventoryValue),
	})
}

func (h *AdminHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.admin.Orders(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load orders")
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_order_id", "Invalid order ID")
		return
	}
	var req models.OrderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	o, err := h.admin.UpdateOrderStatus(r.Context(), id, req.Status)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to update order status")
		return
	}
	respondWithJSON(w, http.StatusOK, o)
}
