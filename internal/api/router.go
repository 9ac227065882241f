package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/product-api/internal/api/middleware"
	"github.com/phrazzld/product-api/internal/api/shared"
	"github.com/phrazzld/product-api/internal/service"
)

// RouterConfig holds the dependencies of the HTTP surface.
type RouterConfig struct {
	Products       service.ProductService
	Authenticator  middleware.TokenChecker
	DB             Pinger
	Logger         *slog.Logger
	ResponseFormat string

	// RequestTimeout is applied to every request context. Zero disables it.
	RequestTimeout time.Duration
}

// NewRouter builds the application router.
//
// GET /health is public. Every other request, including requests for unknown
// paths, is authenticated before it is routed.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	responder := shared.NewResponder(cfg.ResponseFormat)
	products := NewProductHandler(cfg.Products, responder, logger)
	authMiddleware := middleware.NewAuthMiddleware(cfg.Authenticator, responder)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewTraceMiddleware(logger))
	r.Use(chimw.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", HealthHandler(cfg.DB))

	// Anything that falls through the root, such as POST /health, still needs a token.
	r.NotFound(authMiddleware.Authenticate(http.HandlerFunc(products.UnknownEndpoint)).ServeHTTP)
	r.MethodNotAllowed(authMiddleware.Authenticate(http.HandlerFunc(products.UnknownRequest)).ServeHTTP)

	api := chi.NewRouter()
	api.Use(authMiddleware.Authenticate)

	// Set before Route so the product subrouter inherits them.
	api.NotFound(products.UnknownEndpoint)
	api.MethodNotAllowed(products.UnknownRequest)

	api.Route("/product", func(r chi.Router) {
		r.Get("/", products.ListProducts)
		r.Post("/", products.CreateProduct)
		r.Put("/", products.UpdateWithoutID)
		r.Delete("/", products.DeleteWithoutID)

		r.Get("/{id}", products.GetProduct)
		r.Post("/{id}", products.CreateProductWithID)
		r.Put("/{id}", products.UpdateProduct)
		r.Delete("/{id}", products.DeleteProduct)
	})

	r.Mount("/", api)

	return r
}
