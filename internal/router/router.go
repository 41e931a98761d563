package router

import (
	"net/http"
	"time"

	"ecomstore/internal/config"
	"ecomstore/internal/handlers"
	"ecomstore/internal/middleware"
	"ecomstore/internal/models"
	"ecomstore/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const slowRequestThreshold = time.Second

// Dependencies are the stores and services the page actions run on.
type Dependencies struct {
	Auth          *services.AuthStore
	Cart          *services.CartStore
	Catalog       *services.CatalogService
	Categories    *services.CategoryService
	Orders        *services.OrderService
	Admin         *services.AdminService
	Notifications *services.NotificationService
	Checkout      *services.CheckoutService
	Payments      handlers.PaymentProcessor
}

func SetupRouter(cfg config.Config, deps Dependencies, logger zerolog.Logger) *mux.Router {
	sessionHandler := handlers.NewSessionHandler(deps.Auth, logger)
	productHandler := handlers.NewProductHandler(deps.Catalog, deps.Categories, logger)
	cartHandler := handlers.NewCartHandler(deps.Cart, logger)
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout, deps.Payments, logger)
	orderHandler := handlers.NewOrderHandler(deps.Orders, deps.Auth, logger)
	adminHandler := handlers.NewAdminHandler(deps.Admin, deps.Notifications, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.PerformanceMonitoring(logger, slowRequestThreshold))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimiter.Middleware())

	jsonBody := middleware.RequestValidation()
	withJSON := func(fn http.HandlerFunc) http.Handler {
		return jsonBody(fn)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	session := api.PathPrefix("/session").Subrouter()
	session.HandleFunc("", sessionHandler.Get).Methods("GET")
	session.Handle("/login", withJSON(sessionHandler.Login)).Methods("POST")
	session.Handle("/register", withJSON(sessionHandler.Register)).Methods("POST")
	session.HandleFunc("/logout", sessionHandler.Logout).Methods("POST")

	api.HandleFunc("/products", productHandler.Page).Methods("GET")
	api.HandleFunc("/products/all", productHandler.All).Methods("GET")
	api.HandleFunc("/products/search", productHandler.Search).Methods("GET")
	api.HandleFunc("/products/filter", productHandler.Filter).Methods("GET")
	api.HandleFunc("/products/price-range", productHandler.PriceRange).Methods("GET")
	api.HandleFunc("/products/category/{categoryId:[0-9]+}", productHandler.ByCategory).Methods("GET")
	api.HandleFunc("/products/brand/{brand}", productHandler.ByBrand).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}", productHandler.Get).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}/images", productHandler.Images).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}/images/primary", productHandler.PrimaryImage).Methods("GET")
	api.HandleFunc("/categories", productHandler.Categories).Methods("GET")
	api.HandleFunc("/categories/{id:[0-9]+}", productHandler.Category).Methods("GET")

	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(middleware.RequireSession(deps.Auth))
	cart.HandleFunc("", cartHandler.Get).Methods("GET")
	cart.HandleFunc("", cartHandler.Clear).Methods("DELETE")
	cart.Handle("/items", withJSON(cartHandler.AddItem)).Methods("POST")
	cart.Handle("/items/{itemId:[0-9]+}", withJSON(cartHandler.UpdateItem)).Methods("PUT")
	cart.HandleFunc("/items/{itemId:[0-9]+}", cartHandler.RemoveItem).Methods("DELETE")

	checkout := api.PathPrefix("/checkout").Subrouter()
	checkout.Use(middleware.RequireSession(deps.Auth))
	checkout.HandleFunc("/quote", checkoutHandler.Quote).Methods("GET")
	checkout.Handle("", withJSON(checkoutHandler.Checkout)).Methods("POST")

	orders := api.PathPrefix("/orders").Subrouter()
	orders.Use(middleware.RequireSession(deps.Auth))
	orders.HandleFunc("", orderHandler.List).Methods("GET")
	orders.HandleFunc("/{id:[0-9]+}", orderHandler.Get).Methods("GET")
	orders.HandleFunc("/{id:[0-9]+}/pdf", orderHandler.PDF).Methods("GET")
	orders.HandleFunc("/{id:[0-9]+}/invoice", orderHandler.Invoice).Methods("GET")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireRole(deps.Auth, models.RoleAdmin))
	admin.Handle("/products", withJSON(adminHandler.CreateProduct)).Methods("POST")
	admin.Handle("/products/{id:[0-9]+}", withJSON(adminHandler.UpdateProduct)).Methods("PUT")
	admin.HandleFunc("/products/{id:[0-9]+}", adminHandler.DeleteProduct).Methods("DELETE")
	admin.HandleFunc("/products/{id:[0-9]+}/images", adminHandler.UploadImages).Methods("POST")
	admin.HandleFunc("/products/{id:[0-9]+}/images/{imageId:[0-9]+}", adminHandler.DeleteImage).Methods("DELETE")
	admin.HandleFunc("/products/{id:[0-9]+}/images/{imageId:[0-9]+}/primary", adminHandler.SetPrimaryImage).Methods("PUT")
	admin.Handle("/categories", withJSON(adminHandler.CreateCategory)).Methods("POST")
	admin.Handle("/categories/{id:[0-9]+}", withJSON(adminHandler.UpdateCategory)).Methods("PUT")
	admin.HandleFunc("/categories/{id:[0-9]+}", adminHandler.DeleteCategory).Methods("DELETE")
	admin.HandleFunc("/dashboard", adminHandler.Dashboard).Methods("GET")
	admin.HandleFunc("/notifications", adminHandler.Notifications).Methods("GET")
	admin.HandleFunc("/low-stock", adminHandler.LowStock).Methods("GET")
	admin.HandleFunc("/users", adminHandler.Users).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", adminHandler.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/orders", adminHandler.Orders).Methods("GET")
	admin.Handle("/orders/{id:[0-9]+}/status", withJSON(adminHandler.UpdateOrderStatus)).Methods("PUT")

	// Preflight requests must match a route for the CORS middleware to see them.
	r.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
