// Package http wires the routes and runs the server.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"userhub/internal/auth"
	"userhub/internal/config"
	"userhub/internal/httputil"
	"userhub/internal/logging"
	"userhub/internal/ratelimit"
)

// NewRouter creates and configures the HTTP router. limiter may be nil,
// which disables rate limiting.
func NewRouter(
	cfg *config.Config,
	authHandler *auth.Handler,
	authMiddleware *auth.Middleware,
	limiter *ratelimit.Limiter,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", handleHealth)

	r.Route("/users", func(r chi.Router) {
		r.With(limiter.Middleware("register")).Post("/register", authHandler.Register)
		r.With(limiter.Middleware("login")).Post("/login", authHandler.Login)
		r.With(authMiddleware.RequireAuth).Post("/logout", authHandler.Logout)
		r.Post("/refresh-token", authHandler.RefreshToken)

		r.Post("/verify-email", authHandler.VerifyEmail)
		r.With(authMiddleware.RequireAuth, limiter.Middleware("resend-email-verify")).
			Post("/resend-email-verify", authHandler.ResendVerifyEmail)

		r.With(limiter.Middleware("forgot-password")).Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/verify-forgot-password", authHandler.VerifyForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)

		r.With(authMiddleware.RequireAuth).Get("/me", authHandler.GetMe)
		r.With(authMiddleware.RequireAuth, authMiddleware.RequireVerified).Patch("/me", authHandler.UpdateMe)
		r.Get("/{username}", authHandler.GetProfile)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
