package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"dynotest/internal/auth"
	"dynotest/internal/config"
	"dynotest/internal/handlers"
	"dynotest/internal/middleware"
	"dynotest/internal/models"
	"dynotest/internal/repository"
	"dynotest/internal/service"
	"dynotest/internal/state"
	"dynotest/internal/ws"
	"dynotest/pkg/database"
	"dynotest/pkg/redis"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("=== Dynotest Backend Starting ===")

	cfg := config.Load()

	db, err := database.Connect(database.Config(cfg.DB))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	redisClient, err := redis.Connect(redis.Config(cfg.Redis))
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	tokens, err := auth.NewTokens(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	if err != nil {
		log.Fatal("Failed to configure session tokens:", err)
	}

	// Репозитории
	userRepo := repository.NewUserRepository(db)
	dynoRepo := repository.NewDynoRepository(db)
	infoRepo := repository.NewInfoRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	// Shared state and the telemetry hub
	activeSession := state.NewActiveSession()
	hub := ws.NewHub()

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	// Сервисы
	authService := service.NewAuthService(userRepo, historyRepo, tokens, activeSession)
	dynoService := service.NewDynoService(dynoRepo, infoRepo, cfg.App.PublicRoot)
	userService := service.NewUserService(userRepo)
	historyService := service.NewHistoryService(historyRepo)
	statsService := service.NewStatsService(userRepo, dynoRepo, historyRepo, cacheRepo, redisClient)

	authHandler := handlers.NewAuthHandler(authService, tokens)
	dynoHandler := handlers.NewDynoHandler(dynoService)
	userHandler := handlers.NewUserHandler(userService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	infoHandler := handlers.NewInfoHandler(infoRepo)
	activeHandler := handlers.NewActiveHandler(activeSession)
	statsHandler := handlers.NewStatsHandler(statsService)
	wsHandler := handlers.NewWSHandler(hub)

	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in DEBUG mode")
		seedAdmin(db)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if !cfg.App.Debug {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimit(limiter))
		log.Printf("Rate limiting enabled: %d req/sec, burst: %d",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	authed := middleware.Authenticated(tokens)
	admin := middleware.AdminOnly(tokens)

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Per-IP budget on the credential endpoints, independent of the
	// process-wide limiter.
	authLimiter := middleware.NewIPRateLimiter(rate.Limit(1), 5)
	api.POST("/auth/register", middleware.IPRateLimit(authLimiter), authHandler.Register)
	api.POST("/auth/login", middleware.IPRateLimit(authLimiter), authHandler.Login)
	api.GET("/auth/logout", authed, authHandler.Logout)
	api.GET("/auth/me", authed, authHandler.Me)

	api.POST("/dyno", authed, dynoHandler.Upload)
	api.GET("/dyno", authed, dynoHandler.List)
	api.GET("/dyno/:owner/:file", authed, dynoHandler.Export)
	api.PATCH("/dyno/:id/verify", admin, dynoHandler.Verify)

	api.GET("/users", admin, userHandler.List)
	api.GET("/users/:id", admin, userHandler.Get)
	api.POST("/users", admin, userHandler.Create)
	api.PATCH("/users/:id", authed, userHandler.Update)
	api.DELETE("/users/:id", admin, userHandler.Delete)

	api.GET("/histories", authed, historyHandler.List)
	api.GET("/infos", authed, infoHandler.List)
	api.GET("/infos/:id", authed, infoHandler.Get)

	api.GET("/active", authed, activeHandler.Get)
	api.POST("/active/config", authed, activeHandler.SetConfig)

	api.GET("/stats", admin, statsHandler.Get)

	r.GET("/ws", authed, wsHandler.Serve)

	// Uploaded recordings are private; static serving requires a session.
	public := r.Group("/public", authed)
	public.Static("/", cfg.App.PublicRoot)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         cfg.App.Host + ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)

		var err error
		if cfg.App.TLSCertFile != "" && cfg.App.TLSKeyFile != "" {
			err = server.ListenAndServeTLS(cfg.App.TLSCertFile, cfg.App.TLSKeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	stopHub()

	log.Println("Server exited properly")
}

// seedAdmin inserts a known admin account for local development.
func seedAdmin(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.User{}).Where("nim = ?", "e32201406").Count(&count).Error; err != nil || count > 0 {
		return
	}

	password, err := auth.HashPassword("password123")
	if err != nil {
		log.Printf("Failed to hash seed password: %v", err)
		return
	}

	email := "e32201406@student.polije.ac.id"
	user := &models.User{
		UUID:     uuid.NewString(),
		Nim:      "e32201406",
		Name:     "rizal",
		Password: password,
		Role:     models.RoleAdmin,
		Email:    &email,
	}
	if err := db.Create(user).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		return
	}
	log.Printf("Seeded debug admin user id=%d", user.ID)
}
