package wire

import (
	"user-auth/internal/adaptor"
	"user-auth/internal/usecase"
	"user-auth/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	tokens usecase.TokenService,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)
	r.Post("/api/refresh-token", authHandler.RefreshToken)
	r.Post("/api/forgot-password", authHandler.ForgotPassword)
	r.Post("/api/reset-password", authHandler.ResetPassword)

	// ==================== PROTECTED ROUTES ====================
	// Logout needs a verified access token
	r.With(middleware.Auth(tokens, log)).Post("/api/logout", authHandler.Logout)
}
