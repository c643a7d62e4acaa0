package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coursefolio/internal/app/models/dto"
	"coursefolio/internal/app/services"
	"coursefolio/internal/pkg/apperrors"
)

// AuthMiddleware guards mutating routes behind the session cookie.
type AuthMiddleware struct {
	auth       services.AuthService
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(auth services.AuthService, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		auth:       auth,
		cookieName: cookieName,
	}
}

// SessionAuth validates the session cookie and loads the user into the
// request context. Requests without a cookie and requests with a stale or
// unknown token both end with 401; the response body distinguishes them.
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
			return
		}

		user, err := m.auth.ValidateSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, apperrors.ErrSessionNotFound) ||
				errors.Is(err, apperrors.ErrSessionExpired) ||
				errors.Is(err, apperrors.ErrUserNotFound) ||
				errors.Is(err, apperrors.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Invalid session"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error"))
			return
		}

		c.Set("userID", user.ID)
		c.Set("username", user.Username)

		c.Next()
	}
}
