package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "auth_token"
	RefreshTokenCookie = "refresh_token"
)

// CookieHelper writes the session cookies. Tokens travel only in HttpOnly
// SameSite=Strict cookies scoped to "/", never in response bodies; Secure
// is set in production.
type CookieHelper struct {
	secure bool
}

func NewCookieHelper(secure bool) *CookieHelper {
	return &CookieHelper{secure: secure}
}

func (h *CookieHelper) SetAccessToken(c *gin.Context, token string, maxAgeSeconds int) {
	h.set(c, AccessTokenCookie, token, maxAgeSeconds)
}

func (h *CookieHelper) SetRefreshToken(c *gin.Context, token string, maxAgeSeconds int) {
	h.set(c, RefreshTokenCookie, token, maxAgeSeconds)
}

func (h *CookieHelper) ClearAccessToken(c *gin.Context) {
	h.set(c, AccessTokenCookie, "", -1)
}

func (h *CookieHelper) ClearAuthCookies(c *gin.Context) {
	h.set(c, AccessTokenCookie, "", -1)
	h.set(c, RefreshTokenCookie, "", -1)
}

func (h *CookieHelper) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, maxAge, "/", "", h.secure, true)
}
