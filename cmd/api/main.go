package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"

	_ "github.com/skillswap/skillswap-api/docs" // Swagger docs (generated)
	"github.com/skillswap/skillswap-api/internal/auth"
	"github.com/skillswap/skillswap-api/internal/config"
	"github.com/skillswap/skillswap-api/internal/database"
	httpServer "github.com/skillswap/skillswap-api/internal/http"
	"github.com/skillswap/skillswap-api/internal/identity"
	"github.com/skillswap/skillswap-api/internal/logging"
	"github.com/skillswap/skillswap-api/internal/message"
	"github.com/skillswap/skillswap-api/internal/metrics"
	"github.com/skillswap/skillswap-api/internal/profile"
	"github.com/skillswap/skillswap-api/internal/schedule"
	"github.com/skillswap/skillswap-api/internal/skill"
	"github.com/skillswap/skillswap-api/internal/user"
)

// @title           SkillSwap API
// @version         1.0
// @description     Skill-exchange marketplace backend: listings, messaging, session scheduling, and token-gated identity.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	if err := database.RunMigrations(cfg.Database.URL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Repositories
	userRepo := user.NewRepository(db)
	skillRepo := skill.NewRepository(db)
	messageRepo := message.NewRepository(db)
	scheduleRepo := schedule.NewRepository(db)

	// Session token service; the key is read-only for the process lifetime
	tokenService, err := auth.NewPasetoService(cfg.Auth.PasetoKey)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// External identity authority
	verifier := identity.NewGoogleVerifier(cfg.Identity.TokenInfoURL, cfg.Identity.Timeout)

	authService := auth.NewService(verifier, userRepo, tokenService, logger)

	handlers := httpServer.Handlers{
		Auth:     auth.NewHandler(authService, logger),
		Skill:    skill.NewHandler(skillRepo, logger),
		Profile:  profile.NewHandler(userRepo, logger),
		Message:  message.NewHandler(messageRepo, logger),
		Schedule: schedule.NewHandler(scheduleRepo, userRepo, logger),
	}
	gate := auth.NewMiddleware(tokenService, userRepo)

	collector := metrics.NewCollector()

	router := httpServer.NewRouter(cfg, handlers, gate, logger, collector)

	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}
