package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"

	"github.com/redmonkez12/go-product-api/docs"
	"github.com/redmonkez12/go-product-api/internal/auth"
	"github.com/redmonkez12/go-product-api/internal/config"
	"github.com/redmonkez12/go-product-api/internal/httputil"
	"github.com/redmonkez12/go-product-api/internal/logging"
	"github.com/redmonkez12/go-product-api/internal/product"
)

const (
	openAPIPath        = "/api-docs/openapi.json"
	healthCheckTimeout = 2 * time.Second
)

// Pinger reports whether the database is reachable. *bun.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth           *auth.Handler
	AuthMiddleware *auth.Middleware
	Products       *product.Handler
	DB             Pinger
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300, // 5 minutes
	}))

	r.Use(SecurityHeaders(!cfg.Server.IsDevelopment()))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", handleHealth(h.DB))

	if cfg.Server.SwaggerEnabled {
		logger.Info("swagger UI enabled", "path", "/swagger/index.html")
		r.Get(openAPIPath, handleOpenAPI)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(openAPIPath)))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.With(h.AuthMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Get("/{id}", h.Products.Get)

			r.Group(func(r chi.Router) {
				r.Use(h.AuthMiddleware.RequireAuth)
				r.Post("/", h.Products.Create)
				r.Patch("/{id}", h.Products.Update)
				r.Delete("/{id}", h.Products.Delete)
			})
		})
	})

	return r
}

// handleHealth reports whether the API and its database are up.
func handleHealth(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logging.FromContext(r.Context()).Error("health check failed", "error", err.Error())
			httputil.RespondError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}

		httputil.RespondMessage(w, "api is running", http.StatusOK)
	}
}

func handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to read API document", "error", err.Error())
		httputil.RespondError(w, httputil.MsgInternalError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
