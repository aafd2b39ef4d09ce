package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"muscledynamics/workout-builder/internal/api"
	"muscledynamics/workout-builder/internal/config"
	"muscledynamics/workout-builder/internal/logging"
	"muscledynamics/workout-builder/internal/repository"
	"muscledynamics/workout-builder/internal/repository/memory"
	"muscledynamics/workout-builder/internal/repository/mongo"
	"muscledynamics/workout-builder/internal/seed"
	"muscledynamics/workout-builder/internal/service"
	"muscledynamics/workout-builder/internal/storage"
)

// memoryScheme selects the in-process store, e.g. DATABASE_URI=memory://./exercises.json
const memoryScheme = "memory://"

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		// No logger yet
		os.Stderr.WriteString("FATAL: Could not load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("FATAL: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting exercise API server...")

	// --- Store ---
	exerciseRepo, closeStore, err := openStore(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Could not open exercise store", zap.Error(err))
	}
	defer closeStore()

	// --- Image URLs ---
	images := storage.NewConventionResolver(cfg.Images.BaseURL)
	if cfg.Images.S3.BucketName != "" {
		images, err = storage.NewS3ImageResolver(context.Background(), cfg.Images.S3, images, logger)
		if err != nil {
			logger.Fatal("Failed to initialize S3 image resolver", zap.Error(err))
		}
	}

	// --- Services and routes ---
	exerciseService := service.NewExerciseService(exerciseRepo, images, logger)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := api.NewRouter(cfg.Server, logger, exerciseService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("Server starting", zap.String("address", cfg.Server.Address))

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ListenAndServe error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// In-flight requests get 5 seconds to finish
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting.")
}

// openStore connects to MongoDB, or loads a dataset file into memory when the
// URI uses the memory:// scheme.
func openStore(cfg config.DatabaseConfig, logger *zap.Logger) (repository.ExerciseReader, func(), error) {
	if path, ok := strings.CutPrefix(cfg.URI, memoryScheme); ok {
		repo := memory.NewExerciseRepository()
		if path != "" {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			result, err := seed.ImportFile(ctx, repo, path, seed.Options{}, logger)
			if err != nil {
				return nil, nil, err
			}
			logger.Info("In-memory store loaded", zap.String("file", path), zap.Int64("exercises", result.Inserted))
		}
		return repo, func() {}, nil
	}

	dbClient, err := mongo.ConnectDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	appDB := dbClient.Database(cfg.Name)

	// Index creation runs in the background; queries work without them
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_ = mongo.EnsureExerciseIndexes(ctx, mongo.ExerciseCollection(appDB), logger)
	}()

	closeFn := func() {
		logger.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}
	return mongo.NewMongoExerciseRepository(appDB), closeFn, nil
}
