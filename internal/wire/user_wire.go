package wire

import (
	"user-auth/internal/adaptor"
	"user-auth/internal/usecase"
	"user-auth/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	tokens usecase.TokenService,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))

		// GET /api/profile - Current user's profile
		r.Get("/api/profile", userHandler.GetProfile)
	})
}
