package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/TheStackSquad/the-almaroof-initiative-sub001/docs"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/config"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/gateway"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/handlers"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/middleware"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/pdf"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/ratelimit"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/repositories"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/routes"
	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/services"
)

const expirySweepInterval = 10 * time.Minute

func Run() {
	cfg := config.LoadConfig()

	if cfg.Auth.AccessSecret == "" || cfg.Auth.RefreshSecret == "" {
		log.Fatal("auth secrets are not configured")
	}
	// access and refresh tokens must never share a signing key
	if cfg.Auth.AccessSecret == cfg.Auth.RefreshSecret {
		log.Fatal("access and refresh secrets must differ")
	}

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Counter (rate limiting) ===
	var counter ratelimit.Counter
	if cfg.Redis.Addr != "" {
		client, err := ratelimit.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			log.Fatal("failed to connect to redis: ", err)
		}
		counter = ratelimit.NewRedisCounter(client)
	} else {
		log.Printf("[app] no redis configured, attempt counters are process-local")
		counter = ratelimit.NewMemoryCounter()
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	permitRepo := repositories.NewPermitRepository(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	authService := services.NewAuthService(
		userRepo,
		[]byte(cfg.Auth.AccessSecret),
		[]byte(cfg.Auth.RefreshSecret),
		cfg.AccessTTL(),
		cfg.RefreshTTL(),
	)
	signinService := services.NewSigninService(userRepo, cfg.Auth.LockoutThreshold, cfg.LockoutWindow())
	userService := services.NewUserService(userRepo, authService, emailService)
	resetService := services.NewPasswordResetService(userRepo, authService, emailService, cfg.App.BaseURL)
	permitService := services.NewPermitService(permitRepo)

	receiptGen := pdf.NewDocumentGenerator("./files")
	paystack := gateway.NewClient(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL, 15*time.Second)
	paymentService := services.NewPaymentService(
		permitRepo,
		paystack,
		emailService,
		receiptGen,
		cfg.Paystack.SecretKey,
		cfg.Paystack.CallbackURL,
	)

	// === Handlers ===
	cookies := middleware.NewCookieHelper(cfg.IsProduction())
	authHandler := handlers.NewAuthHandler(userService, signinService, authService, resetService, cookies)
	permitHandler := handlers.NewPermitHandler(permitService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// === Expiry sweep ===
	go func() {
		ticker := time.NewTicker(expirySweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			n, err := permitRepo.ExpireStale(time.Now())
			if err != nil {
				log.Printf("[permits][sweep] expire stale failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[permits][sweep] expired %d stale permits", n)
			}
		}
	}()

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, authHandler, permitHandler, paymentHandler, authService, cookies, counter)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
