package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ecomstore/internal/models"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize       = 12
	defaultStockThreshold = 10
)

func (s *Server) allProducts(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "Products fetched", s.store.Products(nil))
}

// pageProducts answers with a zero-based Spring-style page.
func (s *Server) pageProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(q.Get("size"))
	if err != nil || size <= 0 {
		size = defaultPageSize
	}

	all := s.store.Products(nil)
	total := len(all)
	totalPages := (total + size - 1) / size

	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	respond(w, http.StatusOK, "Products fetched", models.Page[models.Product]{
		Content:       all[start:end],
		TotalPages:    totalPages,
		TotalElements: int64(total),
		Number:        page,
		Size:          size,
		First:         page == 0,
		Last:          page >= totalPages-1,
	})
}

func (s *Server) searchProducts(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(r.URL.Query().Get("name"))
	respond(w, http.StatusOK, "Products fetched", s.store.Products(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), name)
	}))
}

func (s *Server) categoryProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "categoryId")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid category id", nil)
		return
	}
	respond(w, http.StatusOK, "Products fetched", s.store.Products(func(p models.Product) bool {
		return p.Category != nil && p.Category.ID == id
	}))
}

func (s *Server) brandProducts(w http.ResponseWriter, r *http.Request) {
	brand := mux.Vars(r)["brand"]
	respond(w, http.StatusOK, "Products fetched", s.store.Products(func(p models.Product) bool {
		return strings.EqualFold(p.Brand, brand)
	}))
}

func (s *Server) priceRangeProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lo, err := decimal.NewFromString(q.Get("minPrice"))
	if err != nil {
		respond(w, http.StatusBadRequest, "Invalid minPrice", nil)
		return
	}
	hi, err := decimal.NewFromString(q.Get("maxPrice"))
	if err != nil {
		respond(w, http.StatusBadRequest, "Invalid maxPrice", nil)
		return
	}
	respond(w, http.StatusOK, "Products fetched", s.store.Products(func(p models.Product) bool {
		return p.Price.GreaterThanOrEqual(lo) && p.Price.LessThanOrEqual(hi)
	}))
}

func (s *Server) filterProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.ToLower(q.Get("name"))
	brand := q.Get("brand")
	categoryID, _ := strconv.ParseInt(q.Get("categoryId"), 10, 64)
	var lo, hi *decimal.Decimal
	if v, err := decimal.NewFromString(q.Get("minPrice")); err == nil {
		lo = &v
	}
	if v, err := decimal.NewFromString(q.Get("maxPrice")); err == nil {
		hi = &v
	}
	var active *bool
	if v, err := strconv.ParseBool(q.Get("isActive")); err == nil {
		active = &v
	}

	respond(w, http.StatusOK, "Products fetched", s.store.Products(func(p models.Product) bool {
		switch {
		case name != "" && !strings.Contains(strings.ToLower(p.Name), name):
			return false
		case brand != "" && !strings.EqualFold(p.Brand, brand):
			return false
		case categoryID != 0 && (p.Category == nil || p.Category.ID != categoryID):
			return false
		case lo != nil && p.Price.LessThan(*lo):
			return false
		case hi != nil && p.Price.GreaterThan(*hi):
			return false
		case active != nil && p.IsActive != *active:
			return false
		}
		return true
	}))
}

func (s *Server) lowStockProducts(w http.ResponseWriter, r *http.Request) {
	threshold, err := strconv.Atoi(r.URL.Query().Get("threshold"))
	if err != nil {
		threshold = defaultStockThreshold
	}
	respond(w, http.StatusOK, "Low stock products fetched", s.store.Products(func(p models.Product) bool {
		return p.StockQuantity <= threshold
	}))
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid product id", nil)
		return
	}
	p, ok := s.store.Product(id)
	if !ok {
		respond(w, http.StatusNotFound, "Product not found", nil)
		return
	}
	respond(w, http.StatusOK, "Product fetched", p)
}

func decodeProductRequest(w http.ResponseWriter, r *http.Request) (models.ProductRequest, bool) {
	var req models.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, "Invalid request body", nil)
		return req, false
	}
	if strings.TrimSpace(req.Name) == "" {
		respond(w, http.StatusBadRequest, "Product name is required", nil)
		return req, false
	}
	return req, true
}

func (s *Server) addProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}
	p, err := s.store.CreateProduct(req)
	if errors.Is(err, errNotFound) {
		respond(w, http.StatusBadRequest, "Category not found", nil)
		return
	}
	respond(w, http.StatusCreated, "Product added", p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid product id", nil)
		return
	}
	req, ok := decodeProductRequest(w, r)
	if !ok {
		return
	}
	p, err := s.store.UpdateProduct(id, req)
	if errors.Is(err, errNotFound) {
		respond(w, http.StatusNotFound, "Product or category not found", nil)
		return
	}
	respond(w, http.StatusOK, "Product updated", p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid product id", nil)
		return
	}
	if err := s.store.DeleteProduct(id); err != nil {
		respond(w, http.StatusNotFound, "Product not found", nil)
		return
	}
	respond(w, http.StatusOK, "Product deleted", nil)
}

func (s *Server) allCategories(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "Categories fetched", s.store.Categories())
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid category id", nil)
		return
	}
	c, ok := s.store.Category(id)
	if !ok {
		respond(w, http.StatusNotFound, "Category not found", nil)
		return
	}
	respond(w, http.StatusOK, "Category fetched", c)
}

func decodeCategoryRequest(w http.ResponseWriter, r *http.Request) (models.CategoryRequest, bool) {
	var req models.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		respond(w, http.StatusBadRequest, "Category name is required", nil)
		return req, false
	}
	return req, true
}

func (s *Server) addCategory(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCategoryRequest(w, r)
	if !ok {
		return
	}
	c, err := s.store.CreateCategory(req.Name)
	if errors.Is(err, errDuplicate) {
		respond(w, http.StatusConflict, "Category already exists", nil)
		return
	}
	respond(w, http.StatusCreated, "Category added", c)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid category id", nil)
		return
	}
	req, ok := decodeCategoryRequest(w, r)
	if !ok {
		return
	}
	c, err := s.store.UpdateCategory(id, req.Name)
	if err != nil {
		respond(w, http.StatusNotFound, "Category not found", nil)
		return
	}
	respond(w, http.StatusOK, "Category updated", c)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid category id", nil)
		return
	}
	if err := s.store.DeleteCategory(id); err != nil {
		respond(w, http.StatusNotFound, "Category not found", nil)
		return
	}
	respond(w, http.StatusOK, "Category deleted", nil)
}
