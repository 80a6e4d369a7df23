package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/Varun5711/accounts/internal/auth"
	"github.com/Varun5711/accounts/internal/events"
	"github.com/Varun5711/accounts/internal/logger"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	ValidateToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	log      *logger.Logger
}

func NewAuthMiddleware(verifier TokenVerifier, log *logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		log:      log,
	}
}

// RequireAuth accepts "Authorization: Bearer <token>" as well as the bare
// token, and stores the token subject in the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			writeMessage(w, http.StatusUnauthorized, "Access denied. Missing token.")
			return
		}

		token := authHeader
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			token = strings.TrimSpace(authHeader[7:])
		}

		claims, err := m.verifier.ValidateToken(token)
		if err != nil {
			m.log.Debug("Rejected token on %s %s: %v", r.Method, r.URL.Path, err)
			writeMessage(w, http.StatusUnauthorized, "Invalid token.")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// ClientInfo records the caller's address and user agent for audit events.
// It expects chi's RealIP to have run first.
func ClientInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}

		ctx := events.WithClient(r.Context(), events.Client{
			IP:        ip,
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
