package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	transitlos "github.com/theoremus-urban-solutions/transit-los"
	"github.com/theoremus-urban-solutions/transit-los/config"
)

var (
	configPath string
	envFile    string
	verbose    bool
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "transit-los",
	Short: "Transit level-of-service maps",
	Long: `transit-los classifies every trip of a transit network by how often it runs in a
time window, grades it A to F, and serves the result as styled map layers.

Schedules come from a GeoJSON feature collection with trip_starts per feature or
from a GTFS static zip.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		if configPath != "" {
			if err := os.Setenv(config.EnvConfigPath, configPath); err != nil {
				return err
			}
		}
		cfgErr := config.LoadAppConfig()
		if cfgErr != nil && !errors.Is(cfgErr, fs.ErrNotExist) {
			return cfgErr
		}

		logCfg := config.Config.Logging
		if verbose {
			logCfg.Development = true
			logCfg.Level = "debug"
		}
		var err error
		logger, err = transitlos.NewLogger(logCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if cfgErr != nil {
			logger.Debug("No config file found, using defaults", zap.Error(cfgErr))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default config.yml or ./configs/config.yml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "development logging at debug level")

	rootCmd.AddCommand(serveCmd, classifyCmd, gtfs2geojsonCmd)
}
