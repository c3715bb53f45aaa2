package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/yusimeilanyy/intern-project/config"
	"github.com/yusimeilanyy/intern-project/handler"
	"github.com/yusimeilanyy/intern-project/job"
	"github.com/yusimeilanyy/intern-project/middleware"
	"github.com/yusimeilanyy/intern-project/model"
	"github.com/yusimeilanyy/intern-project/pkg/logger"
	"github.com/yusimeilanyy/intern-project/service"
	"github.com/yusimeilanyy/intern-project/storage/postgres"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Initialize stores
	var (
		docStore  service.DocumentStore
		userStore service.UserStore
		directory service.ContactDirectory
	)
	if cfg.Database.DSN != "" {
		db, err := postgres.InitDB(cfg.Database.DSN)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		docStore = postgres.NewDocumentRepo(db)
		userRepo := postgres.NewUserRepo(db)
		userStore = userRepo
		directory = userRepo
	} else {
		slog.Warn("no database DSN configured, using in-memory stores (development only)")
		docStore = service.NewMemoryStore()
		memUsers := service.NewMemoryUserStore()
		seedDevAdmin(memUsers)
		userStore = memUsers
		directory = memUsers
	}

	// Initialize attachment storage
	var attachments service.AttachmentStore
	if cfg.Minio.Endpoint != "" {
		minioStore, err := service.NewMinioAttachmentStore(&cfg.Minio)
		if err != nil {
			slog.Error("failed to initialize MINIO storage", "error", err)
			os.Exit(1)
		}
		if err := minioStore.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure MINIO bucket", "error", err)
			os.Exit(1)
		}
		attachments = minioStore
	} else {
		slog.Warn("no MINIO endpoint configured, attachments disabled")
	}

	// Initialize services
	mailer := service.NewSMTPMailer(&cfg.SMTP)
	renewalSvc := service.NewRenewalService(docStore)
	reminderSvc := service.NewReminderService(docStore, directory, mailer, cfg.Reminder.FrontendURL, cfg.SMTP.AdminEmail)

	// Daily reminder schedule
	reminderJob := job.NewScheduler("expiry-reminders", cfg.Reminder.Schedule, reminderTask(reminderSvc))
	if err := reminderJob.Start(); err != nil {
		slog.Error("failed to start reminder scheduler", "error", err)
		os.Exit(1)
	}
	defer reminderJob.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userStore, &cfg.Auth)
	docHandler := handler.NewDocumentHandler(docStore, attachments)
	renewalHandler := handler.NewRenewalHandler(renewalSvc, docStore)
	dashboardHandler := handler.NewDashboardHandler(docStore)
	userHandler := handler.NewUserHandler(userStore)
	reminderHandler := handler.NewReminderHandler(reminderSvc)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(corsMiddleware())                       // CORS
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)

		protected.GET("/dashboard", dashboardHandler.Summary)
		protected.GET("/dashboard/expiring-stats", dashboardHandler.ExpiringStats)

		protected.GET("/mous", docHandler.List)
		protected.POST("/mous", docHandler.Create)
		protected.GET("/mous/:id", docHandler.Get)
		protected.PUT("/mous/:id", docHandler.Update)
		protected.DELETE("/mous/:id", docHandler.Delete)
		protected.GET("/mous/:id/preview", docHandler.Preview)

		protected.PUT("/renewal/:id", renewalHandler.Renew)
		protected.GET("/renewal/:id/history", renewalHandler.History)
		protected.POST("/renewal/:id/not-renewed", renewalHandler.MarkNotRenewed)
	}

	// Admin-only routes
	admin := protected.Group("/")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/users", userHandler.List)
		admin.POST("/users", userHandler.Register)
		admin.DELETE("/users/:id", userHandler.Delete)

		admin.POST("/reminders/run", reminderHandler.Run)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

func reminderTask(svc *service.ReminderService) job.Task {
	return func(ctx context.Context) error {
		_, err := svc.Run(ctx)
		return err
	}
}

// seedDevAdmin creates a default admin account for the in-memory store so
// a fresh development instance is usable without manual setup.
func seedDevAdmin(users *service.MemoryUserStore) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to seed development admin", "error", err)
		return
	}
	admin := &model.User{
		Username:     "admin",
		Email:        "admin@localhost",
		FullName:     "Administrator",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := users.Create(context.Background(), admin); err != nil {
		slog.Error("failed to seed development admin", "error", err)
		return
	}
	slog.Warn("development admin account seeded", "username", "admin")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
