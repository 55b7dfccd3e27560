package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/catalog"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/fetch"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/pages"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/shell"
)

// RouterDeps collects what the router needs. PageWait bounds the wait for
// a page's fetch and should stay below the server's WriteTimeout.
type RouterDeps struct {
	Catalog        *catalog.Service
	Fetch          *fetch.Client
	PageOptions    pages.Options
	PageWait       time.Duration
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter registers all routes: the two pages from the shell's route
// table, the product document, and the health check
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger

	healthHandler := NewHealthHandler(deps.Catalog, log)
	productHandler := NewProductHandler(deps.Catalog, log)
	pageHandler := NewPageHandler(deps.Fetch, deps.PageOptions, deps.PageWait, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Get(pages.ProductsLocator, productHandler.ServeDocument)

	for _, route := range shell.Routes {
		r.Get(route.Path, pageHandler.Page(route.Page))
	}

	return r
}
