package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"todolist/internal/config"
	"todolist/internal/handler"
	"todolist/internal/reconciler"
	"todolist/internal/repository"
	"todolist/internal/service"
)

type Server struct {
	Engine     *gin.Engine
	DB         *gorm.DB
	Config     *config.Config
	Reconciler *reconciler.Reconciler
}

func Init(cfg *config.Config) (*Server, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	log.Info().Msg("connected to database")

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	taskRepo := repository.NewTaskRepository(db)
	taskService := service.NewTaskService(taskRepo)
	taskHandler := handler.NewTaskHandler(taskService)

	r := gin.Default()
	api := r.Group("/api")
	{
		api.GET("/todos", taskHandler.List)
		api.POST("/todos", taskHandler.Create)
		api.PUT("/todos/:id", taskHandler.Update)
		api.DELETE("/todos/:id", taskHandler.Delete)
	}

	return &Server{
		Engine:     r,
		DB:         db,
		Config:     cfg,
		Reconciler: reconciler.New(taskService, cfg.ReconcileCron),
	}, nil
}

func (s *Server) Run() {
	if err := s.Reconciler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start reconciler")
	}

	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Info().Str("port", s.Config.ServerPort).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to listen")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	s.Reconciler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
