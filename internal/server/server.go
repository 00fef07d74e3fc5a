package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/johnobriendev/tremendoServer/internal/config"
	"github.com/johnobriendev/tremendoServer/internal/encryption"
	"github.com/johnobriendev/tremendoServer/internal/handler"
	"github.com/johnobriendev/tremendoServer/internal/middleware"
	"github.com/johnobriendev/tremendoServer/internal/model"
	"github.com/johnobriendev/tremendoServer/internal/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
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
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := db.AutoMigrate(
		&model.User{},
		&model.Board{},
		&model.Collaborator{},
		&model.List{},
		&model.Card{},
		&model.Comment{},
		&model.Invitation{},
	); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate database: %w", err)
	}
	log.Println("✅ Database migrated")

	enc, err := encryption.New(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to set up field encryption: %w", err)
	}

	// Setup Gin
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	apiLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	registerLimiter := middleware.NewRateLimiter(cfg.RegisterLimitPerMinute)
	r.Use(apiLimiter.Middleware())

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	collRepo := repository.NewCollaboratorRepository(db)
	listRepo := repository.NewListRepository(db)
	cardRepo := repository.NewCardRepository(db, enc)
	invitationRepo := repository.NewInvitationRepository(db)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	boardHandler := handler.NewBoardHandler(boardRepo, collRepo)
	listHandler := handler.NewListHandler(listRepo, collRepo)
	cardHandler := handler.NewCardHandler(cardRepo, collRepo)
	invitationHandler := handler.NewInvitationHandler(invitationRepo, userRepo, boardRepo, collRepo)

	// Public routes
	r.POST("/register", registerLimiter.Middleware(), userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.POST("/logout", userHandler.Logout)
	r.POST("/verify-email", userHandler.VerifyEmail)
	r.POST("/request-password-reset", userHandler.RequestPasswordReset)
	r.POST("/reset-password", userHandler.ResetPassword)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authorized.GET("/me", userHandler.Me)

		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)

		// List routes
		authorized.GET("/boards/:id/lists", listHandler.GetByBoardID)
		authorized.POST("/boards/:id/lists", listHandler.Create)
		authorized.PUT("/lists/:id", listHandler.Update)
		authorized.DELETE("/lists/:id", listHandler.Delete)

		// Card routes
		authorized.GET("/boards/:id/cards", cardHandler.GetByBoardID)
		authorized.POST("/boards/:id/cards", cardHandler.Create)
		authorized.GET("/cards/:id", cardHandler.GetByID)
		authorized.PUT("/cards/batch", cardHandler.UpdateBatch)
		authorized.PUT("/cards/:id", cardHandler.Update)
		authorized.DELETE("/cards/:id", cardHandler.Delete)

		// Comment routes
		authorized.POST("/cards/:id/comments", cardHandler.AddComment)
		authorized.DELETE("/cards/:id/comments/:commentId", cardHandler.DeleteComment)

		// Invitation routes
		authorized.POST("/boards/:id/invite", invitationHandler.Invite)
		authorized.GET("/invitations", invitationHandler.GetPending)
		authorized.POST("/invitations/:id/respond", invitationHandler.Respond)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
