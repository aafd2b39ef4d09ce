package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"muscledynamics/workout-builder/internal/client"
	"muscledynamics/workout-builder/internal/config"
	"muscledynamics/workout-builder/internal/logging"
	"muscledynamics/workout-builder/internal/tui"
)

var (
	configPath string
	apiURL     string
	logFile    string
	pageLimit  int
	logger     *zap.Logger
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "workout",
	Short: "Build a workout from the exercise API in your terminal",
	Long: `Pick the equipment you have and the muscles you want to train, then
review, shuffle and trim the matching exercises into a workout.

The terminal owns stdout, so logs go to --log-file or are discarded.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if apiURL != "" {
			cfg.Client.APIURL = apiURL
		}
		if pageLimit > 0 {
			cfg.Client.PageLimit = pageLimit
		}
		if logFile != "" {
			cfg.Log.File = logFile
		}
		if cfg.Log.File == "" {
			logger = zap.NewNop()
			return nil
		}
		logger, err = logging.New(cfg.Log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runWorkout,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", ".", "directory containing config.yaml")
	rootCmd.Flags().StringVar(&apiURL, "api", "", "exercise API base URL (overrides client.api_url)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.Flags().IntVar(&pageLimit, "limit", 0, "exercises requested per query (overrides client.page_limit)")
}

func runWorkout(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	api := client.New(cfg.Client.APIURL,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Client.Timeout}),
		client.WithLogger(logger))

	logger.Info("Starting workout builder", zap.String("api", cfg.Client.APIURL))
	model := tui.New(ctx, api, client.PolicyFromConfig(cfg.Client.Health), cfg.Client.PageLimit, logger)
	defer model.Close()

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
