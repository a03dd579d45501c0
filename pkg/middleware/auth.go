package middleware

import (
	"net/http"
	"strings"

	"user-auth/internal/usecase"
	"user-auth/pkg/utils"

	"go.uber.org/zap"
)

// Auth validates the access token from the Authorization header or the
// accessToken cookie. Every failure short-circuits with 401; the request
// never reaches a handler in an ambiguous state.
func Auth(tokens usecase.TokenService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token: Authorization header first, cookie fallback
			token := ""
			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || parts[0] != "Bearer" {
					utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
					return
				}
				token = parts[1]
			} else if cookie, err := r.Cookie("accessToken"); err == nil {
				token = cookie.Value
			}

			if token == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			// Verify signature and expiry
			claims, err := tokens.VerifyAccessToken(token)
			if err != nil {
				logger.Warn("Access token verification failed", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			userID, err := utils.ParseUUID(claims.UserID)
			if err != nil {
				logger.Warn("Access token carries malformed user ID", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			// Set context with the verified identity
			ctx := utils.SetUserContext(r.Context(), userID, claims.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
