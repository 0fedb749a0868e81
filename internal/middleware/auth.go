package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/services"
)

// SessionAuth guards business endpoints with the access-token cookie. A
// stale or invalid cookie is actively cleared rather than left behind.
func SessionAuth(auth services.AuthService, cookies *CookieHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token, err := c.Cookie(AccessTokenCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := auth.VerifyAccess(token)
		if err != nil {
			cookies.ClearAccessToken(c)
			msg := "Invalid session"
			if errors.Is(err, services.ErrTokenExpired) {
				msg = "Session expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("claims", claims)
		c.Next()
	}
}
