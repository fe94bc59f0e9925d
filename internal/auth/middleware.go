package auth

import (
	"context"
	"net/http"
	"strings"

	"userhub/internal/apperr"
	"userhub/internal/httputil"
	"userhub/internal/token"
	"userhub/internal/user"
)

type ctxKey int

const payloadCtxKey ctxKey = iota

// PayloadFromContext returns the access token payload RequireAuth stored,
// or nil outside an authenticated route.
func PayloadFromContext(ctx context.Context) *token.Payload {
	p, _ := ctx.Value(payloadCtxKey).(*token.Payload)
	return p
}

// Middleware guards routes with the bearer access token.
type Middleware struct {
	codec        *token.Codec
	isProduction bool
}

func NewMiddleware(codec *token.Codec, isProduction bool) *Middleware {
	return &Middleware{codec: codec, isProduction: isProduction}
}

// RequireAuth verifies the Authorization bearer token and stores its
// payload in the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken := bearerToken(r.Header.Get("Authorization"))
		if accessToken == "" {
			err := apperr.NewStatusPath(MsgAccessTokenRequired, http.StatusUnauthorized, "Authorization")
			httputil.RespondError(w, r, err, m.isProduction)
			return
		}

		payload, err := m.codec.Verify(token.AccessToken, accessToken)
		if err != nil {
			statusErr := apperr.NewStatusPath(capitalizeFirst(err.Error()), http.StatusUnauthorized, "Authorization")
			httputil.RespondError(w, r, statusErr, m.isProduction)
			return
		}

		ctx := context.WithValue(r.Context(), payloadCtxKey, payload)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireVerified rejects accounts whose access token does not carry the
// Verified status. It must run after RequireAuth.
func (m *Middleware) RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := PayloadFromContext(r.Context())
		if payload == nil || payload.Verify != user.Verified {
			err := apperr.NewStatus(MsgUserNotVerified, http.StatusForbidden)
			httputil.RespondError(w, r, err, m.isProduction)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}
