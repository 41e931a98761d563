package handlers

import (
	"net/http"
	"strconv"

	"ecomstore/internal/models"
	"ecomstore/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	catalog    *services.CatalogService
	categories *services.CategoryService
	logger     zerolog.Logger
}

func NewProductHandler(catalog *services.CatalogService, categories *services.CategoryService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, categories: categories, logger: logger}
}

type pageResponse struct {
	*models.Page[models.Product]
	PageCount int `json:"pageCount"`
}

func (h *ProductHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	p, err := h.catalog.Page(r.Context(), page, size)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load products")
		return
	}
	respondWithJSON(w, http.StatusOK, pageResponse{Page: p, PageCount: p.PageCount()})
}

func (h *ProductHandler) All(w http.ResponseWriter, r *http.Request) {
	h.list(w, func() ([]models.Product, error) { return h.catalog.All(r.Context()) })
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	h.list(w, func() ([]models.Product, error) { return h.catalog.Search(r.Context(), name) })
}

func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "categoryId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_category_id", "Invalid category ID")
		return
	}
	h.list(w, func() ([]models.Product, error) { return h.catalog.ByCategory(r.Context(), id) })
}

func (h *ProductHandler) ByBrand(w http.ResponseWriter, r *http.Request) {
	brand := mux.Vars(r)["brand"]
	h.list(w, func() ([]models.Product, error) { return h.catalog.ByBrand(r.Context(), brand) })
}

// PriceRange requires both bounds.
func (h *ProductHandler) PriceRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minPrice, err1 := decimal.NewFromString(q.Get("minPrice"))
	maxPrice, err2 := decimal.NewFromString(q.Get("maxPrice"))
	if err1 != nil || err2 != nil || minPrice.GreaterThan(maxPrice) {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "minPrice and maxPrice must be numbers with minPrice <= maxPrice")
		return
	}
	h.list(w, func() ([]models.Product, error) { return h.catalog.ByPriceRange(r.Context(), minPrice, maxPrice) })
}

func (h *ProductHandler) Filter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.ProductFilter{Name: q.Get("name"), Brand: q.Get("brand")}
	if v := q.Get("categoryId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid categoryId")
			return
		}
		f.CategoryID = id
	}
	for key, dst := range map[string]**decimal.Decimal{"minPrice": &f.MinPrice, "maxPrice": &f.MaxPrice} {
		if v := q.Get(key); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid "+key)
				return
			}
			*dst = &d
		}
	}
	if v := q.Get("isActive"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid isActive")
			return
		}
		f.IsActive = &b
	}
	h.list(w, func() ([]models.Product, error) { return h.catalog.Filter(r.Context(), f) })
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_product_id", "Invalid product ID")
		return
	}
	p, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load product")
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Images(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_product_id", "Invalid product ID")
		return
	}
	images, err := h.catalog.Images(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load images")
		return
	}
	respondWithJSON(w, http.StatusOK, images)
}

func (h *ProductHandler) PrimaryImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_product_id", "Invalid product ID")
		return
	}
	img, err := h.catalog.PrimaryImage(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load primary image")
		return
	}
	respondWithJSON(w, http.StatusOK, img)
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.All(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load categories")
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}

func (h *ProductHandler) Category(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid_category_id", "Invalid category ID")
		return
	}
	c, err := h.categories.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load category")
		return
	}
	respondWithJSON(w, http.StatusOK, c)
}

func (h *ProductHandler) list(w http.ResponseWriter, fetch func() ([]models.Product, error)) {
	products, err := fetch()
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load products")
		return
	}
	respondWithJSON(w, http.StatusOK, products)
}
