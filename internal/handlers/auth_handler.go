package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/middleware"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/models"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/services"
)

type AuthHandler struct {
	users   services.UserService
	signin  services.SigninService
	auth    services.AuthService
	resets  services.PasswordResetService
	cookies *middleware.CookieHelper
}

func NewAuthHandler(users services.UserService, signin services.SigninService, auth services.AuthService, resets services.PasswordResetService, cookies *middleware.CookieHelper) *AuthHandler {
	return &AuthHandler{users: users, signin: signin, auth: auth, resets: resets, cookies: cookies}
}

// @Summary      Register a citizen account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        signup  body      models.SignupRequest  true  "Signup data"
// @Success      201     {object}  models.User
// @Failure      400     {object}  map[string]string
// @Failure      409     {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Signup(&req)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email or username already registered"})
			return
		}
		log.Printf("[auth][signup] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

// @Summary      Sign in
// @Description  Authenticates a citizen and sets the session cookies
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        signin  body      models.SigninRequest  true  "Credentials"
// @Success      200     {object}  models.User
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Router       /auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req models.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.signin.Signin(req.Email, req.Password)
	if err != nil {
		var locked *services.AccountLockedError
		switch {
		case errors.As(err, &locked):
			retry := int(time.Until(locked.Until).Seconds())
			if retry < 0 {
				retry = 0
			}
			c.JSON(http.StatusForbidden, gin.H{
				"error":               "Account temporarily locked",
				"retry_after_seconds": retry,
			})
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		default:
			log.Printf("[auth][signin] service error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Signin failed"})
		}
		return
	}

	pair, err := h.auth.IssueTokens(user)
	if err != nil {
		log.Printf("[auth][signin] issue tokens userID=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Signin failed"})
		return
	}

	h.cookies.SetAccessToken(c, pair.AccessToken, int(time.Until(pair.AccessExpiresAt).Seconds()))
	h.cookies.SetRefreshToken(c, pair.RefreshToken, int(time.Until(pair.RefreshExpiresAt).Seconds()))

	log.Printf("[auth][signin] success userID=%d", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"user":       user,
		"expires_at": pair.AccessExpiresAt.Unix(),
	})
}

// @Summary      Rotate the access token
// @Description  Cookie-driven; rotates auth_token from the refresh_token cookie
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		h.cookies.ClearAuthCookies(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	access, accessExp, user, err := h.auth.Refresh(refreshToken)
	if err != nil {
		if !errors.Is(err, services.ErrTokenInvalid) {
			log.Printf("[auth][refresh] service error: %v", err)
		}
		h.cookies.ClearAuthCookies(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	h.cookies.SetAccessToken(c, access, int(time.Until(accessExp).Seconds()))
	log.Printf("[auth][refresh] rotated access token userID=%d", user.ID)
	c.JSON(http.StatusOK, gin.H{"expires_at": accessExp.Unix()})
}

// @Summary      Verify the current session
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /auth/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	token, err := c.Cookie(middleware.AccessTokenCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	claims, err := h.auth.VerifyAccess(token)
	if err != nil {
		h.cookies.ClearAccessToken(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":     claims.UserID,
		"email":       claims.Email,
		"username":    claims.Username,
		"is_verified": claims.IsVerified,
	})
}

// @Summary      Sign out
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.ClearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// @Summary      Request a password reset
// @Description  Always returns the same acknowledgment, whether or not the email exists
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.ForgotPasswordRequest  true  "Email"
// @Success      200      {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resets.Initiate(req.Email); err != nil {
		// infra failure; the response stays generic regardless
		log.Printf("[auth][forgot-password] initiate failed: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "If that email is registered, a reset link has been sent"})
}

// @Summary      Complete a password reset
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.ResetPasswordRequest  true  "Token and new password"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resets.Complete(req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidResetToken), errors.Is(err, services.ErrExpiredResetToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		default:
			log.Printf("[auth][reset-password] service error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Reset failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
