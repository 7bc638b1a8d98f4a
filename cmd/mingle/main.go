package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mediamingle/mingle/internal/config"
	"github.com/mediamingle/mingle/internal/database"
	"github.com/mediamingle/mingle/internal/tui"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags
	cfgFile   string
	logLevel  string
	apiURL    string
	outFormat string

	// Global config and logger
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mingle",
	Short: "Browse trending movies, TV shows and anime from the terminal",
	Long: `mingle is a terminal client for the mingle media-discovery service.

Browse what is trending, search, pick titles by mood or genre, keep
favorites, rate what you watched and follow other people. Run without
arguments for the interactive UI, or use the subcommands for scripting.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := database.Close(); err != nil && logger != nil {
			logger.Error("failed to close database", "error", err)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer svc.Close()

		return tui.Start(svc.tuiDeps())
	},
}

// rootPersistentPreRunE is attached in init to avoid an initialization cycle
// (it compares against rootCmd).
func rootPersistentPreRunE(cmd *cobra.Command, args []string) error {
	// config init and path must work without a usable config
	if cmd.Parent() != nil && cmd.Parent().Name() == "config" && cmd.Name() != "show" {
		return nil
	}
	if cmd.Name() == "version" {
		return nil
	}

	if err := config.InitializeDirs(); err != nil {
		return fmt.Errorf("failed to initialize directories: %w", err)
	}

	var err error
	var v *viper.Viper
	cfg, v, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}

	logger, err = config.InitLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if cmd == rootCmd {
		v.OnConfigChange(func(e fsnotify.Event) {
			reloadConfig(v, e)
		})
		v.WatchConfig()
	}

	logger.Debug("mingle started", "version", version, "config", v.ConfigFileUsed(), "backend", cfg.Storage.Backend)
	return nil
}

// reloadConfig applies the settings that may change while the TUI runs: the
// log level and the UI toggles. Everything else needs a restart.
func reloadConfig(v *viper.Viper, e fsnotify.Event) {
	next := config.DefaultConfig()
	if err := v.Unmarshal(next); err != nil {
		logger.Error("failed to reload config", "file", e.Name, "error", err)
		return
	}
	if err := next.Validate(); err != nil {
		logger.Warn("ignoring invalid config change", "file", e.Name, "error", err)
		return
	}

	changedLevel := next.Logging.Level != cfg.Logging.Level
	cfg.Logging.Level = next.Logging.Level
	cfg.UI = next.UI
	cfg.Advanced.Debug = next.Advanced.Debug

	if changedLevel {
		if l, err := config.InitLogger(&cfg.Logging); err == nil {
			logger = l
		}
	}
	logger.Info("config reloaded", "file", e.Name, "op", e.Op.String())
}

func init() {
	rootCmd.PersistentPreRunE = rootPersistentPreRunE

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/mingle/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "backend base URL (overrides api.base_url)")
	rootCmd.PersistentFlags().StringVarP(&outFormat, "output", "o", "text", "output format for listings (text, yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// versionCmd displays version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mingle version %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
	},
}
