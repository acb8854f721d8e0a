package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/go-product-api/internal/httputil"
	"github.com/redmonkez12/go-product-api/internal/logging"
)

type contextKey string

const userIDContextKey contextKey = "user_id"

// Middleware handles authentication for protected routes
type Middleware struct {
	tokens TokenService
	now    func() time.Time
}

func NewMiddleware(tokens TokenService) *Middleware {
	return &Middleware{tokens: tokens, now: time.Now}
}

// Authenticate resolves an Authorization header value to the user id it
// carries. The header must be exactly "Bearer <token>".
func (m *Middleware) Authenticate(header string, now time.Time) (uuid.UUID, error) {
	if header == "" {
		return uuid.Nil, ErrUnauthenticated
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return uuid.Nil, ErrUnauthenticated
	}

	claims, err := m.tokens.VerifyToken(parts[1], now)
	if err != nil {
		return uuid.Nil, ErrUnauthenticated
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrUnauthenticated
	}

	return userID, nil
}

// RequireAuth rejects requests without a valid bearer token with 401 and
// stores the authenticated user id in the request context otherwise.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.Authenticate(r.Header.Get("Authorization"), m.now())
		if err != nil {
			logging.FromContext(r.Context()).Debug("rejected unauthenticated request")
			httputil.RespondError(w, httputil.MsgUnauthenticated, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext extracts the user ID stored by RequireAuth.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDContextKey).(uuid.UUID)
	return userID, ok
}
