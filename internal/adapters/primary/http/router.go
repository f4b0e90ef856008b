package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jupiterclapton/social-service/internal/core/ports"
)

// Options regroupe les dépendances optionnelles du routeur.
type Options struct {
	AllowedOrigins []string
	Limiter        Limiter              // nil = pas de rate limiting
	Registry       *prometheus.Registry // nil = registre dédié
}

type Handler struct {
	ledger   ports.LedgerService
	identity ports.IdentityService
	content  ports.ContentService
	limiter  Limiter
	metrics  *Metrics
	validate *validator.Validate
}

func NewRouter(ledger ports.LedgerService, identity ports.IdentityService, content ports.ContentService, opts Options) http.Handler {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	h := &Handler{
		ledger:   ledger,
		identity: identity,
		content:  content,
		limiter:  opts.Limiter,
		metrics:  NewMetrics(reg),
		validate: newValidator(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", h.handleRegister)
		api.Post("/auth/login", h.handleLogin)

		api.Get("/users/{id}", h.handleGetUser)
		api.Get("/users/username/{username}", h.handleGetUserByUsername)
		api.Get("/users/{user_id}/posts", h.handleListUserPosts)
		api.Get("/users/{user_id}/followers", h.handleListFollowers)
		api.Get("/users/{user_id}/following", h.handleListFollowing)

		api.Get("/posts", h.handleListPosts)
		api.Get("/posts/{post_id}", h.handleGetPost)
		api.Get("/posts/{post_id}/comments", h.handleListComments)

		// Écritures : token obligatoire
		api.Group(func(priv chi.Router) {
			priv.Use(h.requireAuth)

			priv.Post("/posts", h.handleCreatePost)
			priv.Post("/comments", h.handleCreateComment)

			priv.With(h.rateLimit("user_id")).Post("/posts/{post_id}/like/{user_id}", h.handleLike)
			priv.With(h.rateLimit("user_id")).Post("/posts/{post_id}/share/{user_id}", h.handleShare)
			priv.With(h.rateLimit("follower_id")).Post("/users/{follower_id}/follow/{following_id}", h.handleFollow)
		})
	})

	// CORS puis OTEL HTTP (racine)
	c := cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "baggage", "traceparent"},
		AllowCredentials: true,
	})

	return otelhttp.NewHandler(c.Handler(r), "social-service", otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
		return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
	}))
}
