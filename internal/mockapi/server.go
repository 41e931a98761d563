// Package mockapi is an in-memory stand-in for the storefront REST backend.
// It serves the same paths and {message, data} envelope so the console can
// run and be tested without the real service.
package mockapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"ecomstore/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type contextKey string

const claimsKey contextKey = "claims"

type Claims struct {
	UserID int64       `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type fault struct {
	method string
	prefix string
	status int
	left   int
}

type Server struct {
	store  *Store
	secret []byte
	logger zerolog.Logger

	mu     sync.Mutex
	faults []*fault
	calls  map[string]int
}

func NewServer(secret string, logger zerolog.Logger) *Server {
	if secret == "" {
		secret = "mock-secret-change-me"
		logger.Warn().Msg("JWT_SECRET not set, using default mock key")
	}
	s := &Server{
		store:  NewStore(),
		secret: []byte(secret),
		logger: logger,
		calls:  make(map[string]int),
	}
	for _, name := range []string{"Electronics", "Clothing", "Books", "Home & Kitchen", "Sports"} {
		s.store.CreateCategory(name)
	}
	return s
}

func (s *Server) Store() *Store {
	return s.store
}

// FailNext makes the next n requests whose method and path prefix match
// fail with status.
func (s *Server) FailNext(method, pathPrefix string, status, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, &fault{method: method, prefix: pathPrefix, status: status, left: n})
}

// Calls counts requests received for method and an exact path.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.recordAndInject)

	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", s.login).Methods("POST")
	auth.HandleFunc("/register", s.register).Methods("POST")

	products := r.PathPrefix("/api/products").Subrouter()
	products.HandleFunc("/all", s.allProducts).Methods("GET")
	products.HandleFunc("/page", s.pageProducts).Methods("GET")
	products.HandleFunc("/search", s.searchProducts).Methods("GET")
	products.HandleFunc("/filter", s.filterProducts).Methods("GET")
	products.HandleFunc("/price-range", s.priceRangeProducts).Methods("GET")
	products.HandleFunc("/low-stock", s.authenticated(s.admin(s.lowStockProducts))).Methods("GET")
	products.HandleFunc("/category/{categoryId}", s.categoryProducts).Methods("GET")
	products.HandleFunc("/brand/{brand}", s.brandProducts).Methods("GET")
	products.HandleFunc("/product/{id}", s.getProduct).Methods("GET")
	products.HandleFunc("/add", s.authenticated(s.admin(s.addProduct))).Methods("POST")
	products.HandleFunc("/product/{id}/update", s.authenticated(s.admin(s.updateProduct))).Methods("PUT")
	products.HandleFunc("/product/{id}/delete", s.authenticated(s.admin(s.deleteProduct))).Methods("DELETE")

	categories := r.PathPrefix("/api/categories").Subrouter()
	categories.HandleFunc("/all", s.allCategories).Methods("GET")
	categories.HandleFunc("/category/{id}/category", s.getCategory).Methods("GET")
	categories.HandleFunc("/add", s.authenticated(s.admin(s.addCategory))).Methods("POST")
	categories.HandleFunc("/category/{id}/update", s.authenticated(s.admin(s.updateCategory))).Methods("PUT")
	categories.HandleFunc("/category/{id}/delete", s.authenticated(s.admin(s.deleteCategory))).Methods("DELETE")

	cart := r.PathPrefix("/api/cart").Subrouter()
	cart.HandleFunc("/cart-details/{userId}", s.authenticated(s.getCart)).Methods("GET")
	cart.HandleFunc("/{userId}/add-to-cart/{productId}", s.authenticated(s.addToCart)).Methods("POST")
	cart.HandleFunc("/remove-item/{itemId}", s.authenticated(s.removeCartItem)).Methods("DELETE")
	cart.HandleFunc("/{userId}/clear-cart", s.authenticated(s.clearCart)).Methods("DELETE")

	orders := r.PathPrefix("/api/orders").Subrouter()
	orders.HandleFunc("/place-order", s.authenticated(s.placeOrder)).Methods("POST")
	orders.HandleFunc("/all", s.authenticated(s.admin(s.allOrders))).Methods("GET")
	orders.HandleFunc("/order/{orderId}", s.authenticated(s.getOrder)).Methods("GET")
	orders.HandleFunc("/user/{userId}/orders", s.authenticated(s.userOrders)).Methods("GET")
	orders.HandleFunc("/{orderId}/download-pdf", s.authenticated(s.orderPDF)).Methods("GET")
	orders.HandleFunc("/{orderId}/download-invoice", s.authenticated(s.invoicePDF)).Methods("GET")
	orders.HandleFunc("/{orderId}/status", s.authenticated(s.admin(s.updateOrderStatus))).Methods("PUT")

	images := r.PathPrefix("/api/images").Subrouter()
	images.HandleFunc("/products/{productId}/upload", s.authenticated(s.admin(s.uploadImage))).Methods("POST")
	images.HandleFunc("/products/{productId}/upload-multiple", s.authenticated(s.admin(s.uploadImages))).Methods("POST")
	images.HandleFunc("/products/{productId}/primary", s.primaryImage).Methods("GET")
	images.HandleFunc("/products/{productId}/primary/{imageId}", s.authenticated(s.admin(s.setPrimaryImage))).Methods("PUT")
	images.HandleFunc("/products/{productId}", s.productImages).Methods("GET")
	images.HandleFunc("/products/{productId}/{fileName}", s.imageFile).Methods("GET")
	images.HandleFunc("/{imageId}", s.authenticated(s.admin(s.deleteImage))).Methods("DELETE")

	users := r.PathPrefix("/api/users").Subrouter()
	users.HandleFunc("/all", s.authenticated(s.admin(s.allUsers))).Methods("GET")
	users.HandleFunc("/delete/{id}", s.authenticated(s.admin(s.deleteUser))).Methods("DELETE")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, "ok", nil)
	}).Methods("GET")

	return r
}

func (s *Server) recordAndInject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.Method+" "+r.URL.Path]++
		status := 0
		for _, f := range s.faults {
			if f.left > 0 && f.method == r.Method && strings.HasPrefix(r.URL.Path, f.prefix) {
				f.left--
				status = f.status
				break
			}
		}
		s.mu.Unlock()

		if status != 0 {
			s.logger.Debug().Str("path", r.URL.Path).Int("status", status).Msg("Injected failure")
			respond(w, status, "Injected failure", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) issueTokens(u models.User) (string, string, error) {
	now := time.Now()
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	})
	accessToken, err := access.SignedString(s.secret)
	if err != nil {
		return "", "", err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	refreshToken, err := refresh.SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respond(w, http.StatusUnauthorized, "Authentication required", nil)
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			respond(w, http.StatusUnauthorized, "Invalid or expired token", nil)
			return
		}
		if _, ok := s.store.User(claims.UserID); !ok {
			respond(w, http.StatusUnauthorized, "User no longer exists", nil)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	}
}

func (s *Server) admin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claimsFrom(r).Role != models.RoleAdmin {
			respond(w, http.StatusForbidden, "Admin access required", nil)
			return
		}
		next(w, r)
	}
}

func claimsFrom(r *http.Request) *Claims {
	c, _ := r.Context().Value(claimsKey).(*Claims)
	if c == nil {
		return &Claims{}
	}
	return c
}

// owns reports whether the caller may act on userID's resources.
func owns(r *http.Request, userID int64) bool {
	c := claimsFrom(r)
	return c.UserID == userID || c.Role == models.RoleAdmin
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id, err == nil && id > 0
}

func respond(w http.ResponseWriter, code int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.APIResponse{Message: message, Data: data})
}
