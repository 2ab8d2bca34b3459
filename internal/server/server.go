package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmanager/internal/config"
	"taskmanager/internal/handler"
	"taskmanager/internal/logging"
	"taskmanager/internal/mailer"
	"taskmanager/internal/middleware"
	"taskmanager/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM. TranslateError turns unique-index violations into
	// gorm.ErrDuplicatedKey, which the repositories map to Conflict.
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	logging.Logger.Info("✅ Connected to database")

	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	logging.Logger.Info("✅ Migrations up to date")

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	otpRepo := repository.NewOTPRepository(db)

	smtpMailer := mailer.New(cfg)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userRepo, otpRepo, smtpMailer, cfg.UploadDir)
	userHandler := handler.NewUserHandler(userRepo, cfg.UploadDir)
	groupHandler := handler.NewGroupHandler(groupRepo)
	groupUserHandler := handler.NewGroupUserHandler(groupRepo, userRepo)
	taskHandler := handler.NewTaskHandler(taskRepo, assignmentRepo)
	assignmentHandler := handler.NewAssignmentHandler(taskRepo, assignmentRepo, groupRepo)
	dashboardHandler := handler.NewDashboardHandler(userRepo, taskRepo, groupRepo, assignmentRepo)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	authRoutes := v1.Group("/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
	authRoutes.POST("/forgot-password/verify-otp", authHandler.VerifyOTP)
	authRoutes.POST("/reset-password", authHandler.ResetPassword)

	// Authenticated routes
	authed := v1.Group("/")
	authed.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authed.GET("/auth/user", userHandler.Profile)
		authed.PUT("/auth/user", userHandler.UpdateProfile)
		authed.POST("/auth/logout", authHandler.Logout)

		authed.GET("/user/dashboard-data", dashboardHandler.UserData)

		authed.GET("/groups/:id/users", groupUserHandler.List)

		authed.GET("/tasks", taskHandler.List)
		authed.GET("/tasks/:id", taskHandler.GetByID)

		authed.GET("/tasks/:id/assignments", assignmentHandler.List)
		authed.PATCH("/tasks/:id/assignments/:assignment_id/status", assignmentHandler.UpdateStatus)
	}

	// Admin-only routes
	admin := v1.Group("/")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnly())
	{
		admin.GET("/auth/users", userHandler.Index)

		admin.GET("/admin/dashboard-data", dashboardHandler.AdminData)

		admin.POST("/groups", groupHandler.Create)
		admin.GET("/groups", groupHandler.List)
		admin.GET("/groups/:id", groupHandler.GetByID)
		admin.PUT("/groups/:id", groupHandler.Update)
		admin.DELETE("/groups/:id", groupHandler.Delete)

		admin.POST("/groups/:id/users", groupUserHandler.Store)
		admin.DELETE("/groups/:id/users/:user_id", groupUserHandler.Destroy)

		admin.POST("/tasks", taskHandler.Create)
		admin.PUT("/tasks/:id", taskHandler.Update)
		admin.DELETE("/tasks/:id", taskHandler.Delete)
		admin.GET("/trashed-tasks", taskHandler.Trashed)
		admin.PATCH("/tasks/:id/restore", taskHandler.Restore)
		admin.DELETE("/tasks/:id/force-delete", taskHandler.ForceDelete)

		admin.POST("/tasks/:id/assignments", assignmentHandler.Create)
		admin.DELETE("/tasks/:id/assignments/:assignment_id", assignmentHandler.Delete)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func runMigrations(cfg *config.Config) error {
	databaseURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	m, err := migrate.New("file://"+cfg.MigrationsPath, databaseURL)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		logging.Logger.Infof("🚀 Server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatalf("❌ Failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	logging.Logger.Info("✅ Server exited properly")
}
