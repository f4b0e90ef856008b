package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

// Clé privée pour le contexte (évite les collisions)
type contextKey struct{ name string }

var claimsCtxKey = &contextKey{"claims"}

// Limiter : implémenté par cache.RateLimiter (Redis).
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// requireAuth valide le header "Authorization: Bearer <token>" et injecte les claims.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeMessage(w, http.StatusUnauthorized, "missing or invalid authorization header")
			return
		}

		claims, err := h.identity.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsCtxKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext renvoie nil hors d'une route authentifiée.
func ClaimsFromContext(ctx context.Context) *domain.Claims {
	claims, _ := ctx.Value(claimsCtxKey).(*domain.Claims)
	return claims
}

// requireActor : l'acteur désigné dans la requête doit être le porteur du token.
func requireActor(w http.ResponseWriter, r *http.Request, actorID string) bool {
	claims := ClaimsFromContext(r.Context())
	if claims == nil || claims.UserID != actorID {
		writeMessage(w, http.StatusForbidden, "actor does not match authenticated user")
		return false
	}
	return true
}

// rateLimit limite les écritures du Ledger par acteur (paramètre de route).
// Si Redis est indisponible, la requête passe : le Ledger reste disponible.
func (h *Handler) rateLimit(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if h.limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := chi.URLParam(r, param)

			allowed, err := h.limiter.Allow(r.Context(), "ledger:"+actor)
			if err != nil {
				slog.WarnContext(r.Context(), "Rate limiter unavailable", "actor", actor, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				writeMessage(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
