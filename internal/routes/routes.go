package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/handlers"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/middleware"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/ratelimit"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/services"
)

const (
	attemptLimit  = 10
	attemptWindow = 15 * time.Minute
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	permitHandler *handlers.PermitHandler,
	paymentHandler *handlers.PaymentHandler,
	authService services.AuthService,
	cookies *middleware.CookieHelper,
	counter ratelimit.Counter,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	// ---- public
	throttle := middleware.RateLimit(counter, attemptLimit, attemptWindow)
	auth := r.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/signin", throttle, authHandler.Signin)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/verify", authHandler.Verify)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/forgot-password", throttle, authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	// gateway-originated; authenticated by signature, not a session
	r.POST("/payments/webhook", paymentHandler.Webhook)

	// ---- protected
	session := middleware.SessionAuth(authService, cookies)

	permits := r.Group("/permits", session)
	{
		permits.POST("/", permitHandler.Create)
		permits.GET("/", permitHandler.List)
		permits.GET("/:id", permitHandler.Get)
		permits.POST("/:id/cancel", permitHandler.Cancel)
	}

	payments := r.Group("/payments", session)
	{
		payments.POST("/initiate", paymentHandler.Initiate)
	}

	return r
}
