package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"attendhub/internal/attendance"
	"attendhub/internal/audit"
	"attendhub/internal/auth"
	"attendhub/internal/config"
	"attendhub/internal/handler"
	"attendhub/internal/hr"
	"attendhub/internal/httpmiddleware"
	"attendhub/internal/integrity"
	"attendhub/internal/queue"
	"attendhub/internal/store"
	"attendhub/internal/users"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "attendhub:verify")
	}

	auditLog := audit.NewLog(db.Client)
	sealer := integrity.NewSealer(cfg.IntegrityKey)
	attSvc := attendance.NewService(attendance.NewRepository(db.Client), sealer, auditLog)
	hrSvc := hr.NewService(hr.NewRepository(db.Client), auditLog)
	userRepo := users.NewRepository(db.Client)
	userSvc := users.NewService(userRepo, auditLog)
	revoker := auth.NewRevoker(redisClient.Client)

	if err := users.Seed(context.Background(), userRepo); err != nil {
		log.Printf("warning: user seed failed: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	h := handler.New(cfg, userSvc, attSvc, hrSvc, auditLog, q, revoker)
	h.Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
