package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/manorfm/coffee-shop/internal/domain"
	apperrors "github.com/manorfm/coffee-shop/internal/domain/errors"
	"github.com/manorfm/coffee-shop/internal/infrastructure/config"
	httperrors "github.com/manorfm/coffee-shop/internal/interfaces/http/errors"
	"github.com/manorfm/coffee-shop/internal/interfaces/http/handlers"
	"github.com/manorfm/coffee-shop/internal/interfaces/http/middleware/auth"
	"github.com/manorfm/coffee-shop/internal/interfaces/http/middleware/ratelimit"
	"github.com/manorfm/coffee-shop/internal/interfaces/http/middleware/requestid"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping() error
}

type Router struct {
	router      *chi.Mux
	rateLimiter *ratelimit.RateLimiter
}

func NewRouter(
	db Pinger,
	drinkService domain.DrinkService,
	verifier auth.TokenVerifier,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	guard := auth.NewGuard(verifier, logger)
	drinkHandler := handlers.NewDrinkHandler(drinkService, logger)

	router := createRouter(cfg)

	rateLimiter := ratelimit.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, 3*time.Minute, logger)
	router.Use(rateLimiter.Middleware)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondWithAppError(w, apperrors.NewNotFoundError(nil))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondWithAppError(w, apperrors.NewMethodNotAllowedError())
	})

	// Health check endpoints
	router.Group(func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := db.Ping(); err != nil {
				logger.Error("Database health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("Database connection failed"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Ready"))
		})

		r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Alive"))
		})
	})

	// Swagger UI configuration
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
		httpSwagger.DeepLinking(true),
		httpSwagger.PersistAuthorization(true),
	))

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "docs/swagger.json")
	})

	// Public routes
	router.Get("/drinks", drinkHandler.ListDrinks)

	// Protected routes, one permission per route
	router.With(guard.Require(domain.PermissionGetDrinksDetail)).Get("/drinks-detail", drinkHandler.ListDrinksDetail)
	router.With(guard.Require(domain.PermissionPostDrinks)).Post("/drinks", drinkHandler.CreateDrink)
	router.With(guard.Require(domain.PermissionPatchDrinks)).Patch("/drinks/{id}", drinkHandler.UpdateDrink)
	router.With(guard.Require(domain.PermissionDeleteDrinks)).Delete("/drinks/{id}", drinkHandler.DeleteDrink)

	return &Router{router: router, rateLimiter: rateLimiter}
}

func createRouter(cfg *config.Config) *chi.Mux {
	router := chi.NewRouter()

	router.Use(requestid.Middleware)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestid.Header},
		ExposedHeaders:   []string{requestid.Header},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	return router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// Close releases background resources held by the middleware
func (r *Router) Close() {
	r.rateLimiter.Stop()
}
