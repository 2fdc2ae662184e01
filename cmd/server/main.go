package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-list-api/internal/config"
	"github.com/yukikurage/task-list-api/internal/database"
	"github.com/yukikurage/task-list-api/internal/logging"
	"github.com/yukikurage/task-list-api/internal/repository"
	"github.com/yukikurage/task-list-api/internal/server"
	"github.com/yukikurage/task-list-api/internal/services"
	"github.com/yukikurage/task-list-api/internal/token"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	slog.SetDefault(logger)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userRepo, taskRepo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	issuer := token.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)

	// Initialize AI service
	var suggester services.TaskSuggester
	if cfg.OpenAIAPIKey != "" {
		suggester = services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		logger.Info("OPENAI_API_KEY not set, task suggestions disabled")
	}

	router := server.NewRouter(server.Deps{
		AuthService:  services.NewAuthService(userRepo, issuer),
		TaskService:  services.NewTaskService(taskRepo),
		Suggester:    suggester,
		Logger:       logger,
		IsProduction: cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore connects to the configured backend, prepares its schema and
// returns the repositories with a function that releases the connection.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.UserRepository, repository.TaskRepository, func(), error) {
	if cfg.StoreDriver == config.DriverMongo {
		client, db, err := database.ConnectMongo(ctx, cfg, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.MigrateMongo(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("mongo disconnect failed", slog.Any("error", err))
			}
		}
		return repository.NewMongoUserRepository(db), repository.NewMongoTaskRepository(db), closeFn, nil
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, nil, nil, err
	}
	closeFn := func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("database close failed", slog.Any("error", err))
		}
	}
	return repository.NewUserRepository(db), repository.NewTaskRepository(db), closeFn, nil
}
