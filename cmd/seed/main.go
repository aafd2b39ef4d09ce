package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"muscledynamics/workout-builder/internal/config"
	"muscledynamics/workout-builder/internal/logging"
	"muscledynamics/workout-builder/internal/repository/mongo"
	"muscledynamics/workout-builder/internal/seed"
)

var (
	configPath string
	file       string
	url        string
	drop       bool
	batchSize  int
	timeout    time.Duration
	logger     *zap.Logger
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import the exercise dataset into MongoDB",
	Long: `Reads a JSON array of exercises (the free-exercise-db format) from a file
or URL and upserts it into the exercises collection, keyed on the dataset id.

Example:
  seed --file exercises.json --drop
  seed --url https://raw.githubusercontent.com/yuhonas/free-exercise-db/main/dist/exercises.json`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, err = logging.New(cfg.Log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runSeed,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", ".", "directory containing config.yaml")
	rootCmd.Flags().StringVarP(&file, "file", "f", "", "path to the dataset JSON file")
	rootCmd.Flags().StringVar(&url, "url", "", "download the dataset from this URL (default dataset when neither --file nor --url is given)")
	rootCmd.Flags().BoolVar(&drop, "drop", false, "delete all existing exercises first")
	rootCmd.Flags().IntVar(&batchSize, "batch", 500, "records per bulk write")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall import timeout")
	rootCmd.MarkFlagsMutuallyExclusive("file", "url")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dbClient, err := mongo.ConnectDB(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	if err := mongo.EnsureExerciseIndexes(ctx, mongo.ExerciseCollection(appDB), logger); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	repo := mongo.NewMongoExerciseRepository(appDB)
	opts := seed.Options{Drop: drop, BatchSize: batchSize}

	var res seed.Result
	switch {
	case file != "":
		res, err = seed.ImportFile(ctx, repo, file, opts, logger)
	default:
		source := url
		if source == "" {
			source = seed.DefaultDatasetURL
		}
		res, err = seed.ImportURL(ctx, repo, source, opts, logger)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("import timed out after %s: %w", timeout, err)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "read %d, skipped %d, inserted %d, updated %d\n",
		res.Read, res.Skipped, res.Inserted, res.Updated)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
