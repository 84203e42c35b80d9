package http

import (
	"context"
	"net/http"
	"strings"

	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/repository"
	"toolcrib-backend/internal/security"
)

type contextKey string

const userContextKey contextKey = "authenticated-user"

// Authenticator validates the bearer token and loads the full user record
// into the request context. Handlers read it back with UserFromContext.
type Authenticator struct {
	tokens   security.TokenManager
	userRepo repository.UserRepository
}

func NewAuthenticator(tokens security.TokenManager, userRepo repository.UserRepository) *Authenticator {
	return &Authenticator{tokens: tokens, userRepo: userRepo}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing authorization token"})
			return
		}

		claims, err := a.tokens.ValidateToken(token)
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
			return
		}

		user, err := a.userRepo.GetByID(r.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "account not available"})
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken also accepts a token query parameter so websocket clients,
// which cannot set headers from the browser, can authenticate.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}

func mustUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
	}
	return user, ok
}

// CORSMiddleware answers preflight requests and stamps the allowed origin.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	allowAll := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
