// Package app contains the application setup for the inventory service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/rgavidia/go-inventory/internal/config"
	"github.com/rgavidia/go-inventory/internal/service"
	"github.com/rgavidia/go-inventory/internal/store"
	"github.com/rgavidia/go-inventory/internal/transport/rest"
	"github.com/rgavidia/go-inventory/pkg/server"
)

type Dependencies struct {
	CategoryService service.CategoryService
	ProductService  service.ProductService
	Logger          *slog.Logger
}

func SetupDependencies(dbPool *pgxpool.Pool, logger *slog.Logger) *Dependencies {
	// Prices serialize as JSON numbers, per the API contract.
	decimal.MarshalJSONWithoutQuotes = true

	categoryService := service.NewCategoryService(store.NewCategoryPgStore(dbPool))
	productService := service.NewProductService(store.NewProductPgStore(dbPool), categoryService)

	return &Dependencies{
		CategoryService: categoryService,
		ProductService:  productService,
		Logger:          logger,
	}
}

// SetupHttpHandler initializes the router and routes for the inventory
// service. Handler tests use it to exercise the full HTTP surface.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the inventory service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	rest.NewCategoryHandler(deps.CategoryService, deps.Logger).RegisterRoutes(mux)
	rest.NewProductHandler(deps.ProductService, deps.Logger).RegisterRoutes(mux)
	rest.NewHealthHandler(deps.Logger).RegisterRoutes(mux)
}

// SetupHttpServer creates and configures the HTTP server for the inventory service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
