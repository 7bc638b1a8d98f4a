package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediamingle/mingle/internal/config"
)

// configCmd handles configuration operations
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := cfgFile
		if configPath == "" {
			configPath = config.DefaultConfigFile()
		}

		if err := config.WriteDefault(configPath); err != nil {
			return err
		}

		fmt.Printf("Default configuration generated at: %s\n", configPath)
		fmt.Println("Edit this file to point mingle at your backend.")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		if shown.API.Token != "" {
			shown.API.Token = "********"
		}
		if shown.Storage.Redis.Password != "" {
			shown.Storage.Redis.Password = "********"
		}
		return render(shown, func() {
			fmt.Printf("API: %s\n", cfg.API.BaseURL)
			fmt.Printf("Web: %s\n", cfg.API.WebURL)
			fmt.Printf("Storage: %s\n", cfg.Storage.Backend)
			fmt.Printf("Database: %s\n", cfg.Database.Path)
			fmt.Printf("Log file: %s (%s)\n", cfg.Logging.File, cfg.Logging.Level)
		})
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Display configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			fmt.Println(cfgFile)
		} else {
			fmt.Println(config.DefaultConfigFile())
		}
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}
